// Package localstore persists application state between runs in a
// single bbolt file. Values are stored as JSON under fixed keys so the
// file stays inspectable with the bbolt CLI.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/yalkhatib/tradetracker"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("record not found")

// bucket names
const (
	bucketState = "state" // ledger + workspace state
	bucketAuth  = "auth"  // token, email
	bucketMeta  = "meta"  // rates cache, sync timestamps
)

// state keys
const (
	keyTransactions    = "transactions"
	keyWorkspaceID     = "workspace_id"
	keyWorkspaceRole   = "workspace_role"
	keyCurrencies      = "currencies"
	keyDefaultCurrency = "default_currency"
	keyMembers         = "members"
	keyActivityLog     = "activity_log"
	keyToken           = "token"
	keyEmail           = "email"
	keyRates           = "rates"
	keyRatesFetchedAt  = "rates_fetched_at"
	keyLastSync        = "last_sync"
	keyLastBackupDay   = "last_backup_day"
)

// Store is the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at path and initializes
// its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketState, bucketAuth, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) put(bucket, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
	})
}

func (s *Store) get(bucket, key string, out any) error {
	return s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, out)
	})
}

func (s *Store) delete(bucket string, keys ...string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- ledger ---

func (s *Store) SaveTransactions(txs []tradetracker.Transaction) error {
	if txs == nil {
		txs = []tradetracker.Transaction{}
	}
	return s.put(bucketState, keyTransactions, txs)
}

// Transactions returns the persisted ledger, empty when none was saved.
func (s *Store) Transactions() ([]tradetracker.Transaction, error) {
	var txs []tradetracker.Transaction
	if err := s.get(bucketState, keyTransactions, &txs); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return txs, nil
}

// --- workspace ---

func (s *Store) SaveWorkspaceID(code string) error {
	return s.put(bucketState, keyWorkspaceID, code)
}

// WorkspaceID returns the active workspace code, "" when in personal
// mode.
func (s *Store) WorkspaceID() (string, error) {
	var code string
	if err := s.get(bucketState, keyWorkspaceID, &code); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

func (s *Store) SaveRole(role tradetracker.Role) error {
	return s.put(bucketState, keyWorkspaceRole, role)
}

func (s *Store) Role() (tradetracker.Role, error) {
	var role tradetracker.Role
	if err := s.get(bucketState, keyWorkspaceRole, &role); err != nil {
		if errors.Is(err, ErrNotFound) {
			return tradetracker.Reader, nil
		}
		return "", err
	}
	return role, nil
}

func (s *Store) SaveCurrencies(cs tradetracker.Currencies) error {
	return s.put(bucketState, keyCurrencies, cs)
}

// Currencies returns the persisted table, or the seed table when none
// was saved yet.
func (s *Store) Currencies() (tradetracker.Currencies, error) {
	var cs tradetracker.Currencies
	if err := s.get(bucketState, keyCurrencies, &cs); err != nil {
		if errors.Is(err, ErrNotFound) {
			return tradetracker.SeedCurrencies(), nil
		}
		return nil, err
	}
	return cs, nil
}

func (s *Store) SaveDefaultCurrency(code string) error {
	return s.put(bucketState, keyDefaultCurrency, code)
}

func (s *Store) DefaultCurrency() (string, error) {
	var code string
	if err := s.get(bucketState, keyDefaultCurrency, &code); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "USD", nil
		}
		return "", err
	}
	return code, nil
}

func (s *Store) SaveMembers(ms []tradetracker.Member) error {
	return s.put(bucketState, keyMembers, ms)
}

func (s *Store) Members() ([]tradetracker.Member, error) {
	var ms []tradetracker.Member
	if err := s.get(bucketState, keyMembers, &ms); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ms, nil
}

func (s *Store) SaveActivityLog(log []tradetracker.Activity) error {
	return s.put(bucketState, keyActivityLog, log)
}

func (s *Store) ActivityLog() ([]tradetracker.Activity, error) {
	var log []tradetracker.Activity
	if err := s.get(bucketState, keyActivityLog, &log); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return log, nil
}

// ClearWorkspace drops everything scoped to the active workspace, as
// happens on leave. Transactions go too; the next pull repopulates
// them.
func (s *Store) ClearWorkspace() error {
	if err := s.delete(bucketState, keyTransactions, keyWorkspaceID, keyWorkspaceRole,
		keyCurrencies, keyDefaultCurrency, keyMembers, keyActivityLog); err != nil {
		return err
	}
	return s.delete(bucketMeta, keyLastSync)
}

// --- auth ---

func (s *Store) SaveCredentials(token, email string) error {
	if err := s.put(bucketAuth, keyToken, token); err != nil {
		return err
	}
	return s.put(bucketAuth, keyEmail, email)
}

// Credentials returns the stored token and email, both "" when signed
// out.
func (s *Store) Credentials() (token, email string, err error) {
	if err := s.get(bucketAuth, keyToken, &token); err != nil && !errors.Is(err, ErrNotFound) {
		return "", "", err
	}
	if err := s.get(bucketAuth, keyEmail, &email); err != nil && !errors.Is(err, ErrNotFound) {
		return "", "", err
	}
	return token, email, nil
}

// ClearCredentials removes the token and email.
func (s *Store) ClearCredentials() error {
	return s.delete(bucketAuth, keyToken, keyEmail)
}

// --- rates cache ---

func (s *Store) SaveRates(r tradetracker.Rates, fetchedAt time.Time) error {
	if err := s.put(bucketMeta, keyRates, r); err != nil {
		return err
	}
	return s.put(bucketMeta, keyRatesFetchedAt, fetchedAt)
}

// Rates returns the cached rate table and its fetch time. A zero time
// means no cache exists.
func (s *Store) Rates() (tradetracker.Rates, time.Time, error) {
	var r tradetracker.Rates
	var at time.Time
	if err := s.get(bucketMeta, keyRates, &r); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, err
	}
	if err := s.get(bucketMeta, keyRatesFetchedAt, &at); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, time.Time{}, err
	}
	return r, at, nil
}

// --- sync bookkeeping ---

func (s *Store) SaveLastSync(t time.Time) error {
	return s.put(bucketMeta, keyLastSync, t)
}

func (s *Store) LastSync() (time.Time, error) {
	var t time.Time
	if err := s.get(bucketMeta, keyLastSync, &t); err != nil && !errors.Is(err, ErrNotFound) {
		return time.Time{}, err
	}
	return t, nil
}

// SaveLastBackupDay records the calendar day of the last personal-mode
// push, formatted 2006-01-02.
func (s *Store) SaveLastBackupDay(day string) error {
	return s.put(bucketMeta, keyLastBackupDay, day)
}

func (s *Store) LastBackupDay() (string, error) {
	var day string
	if err := s.get(bucketMeta, keyLastBackupDay, &day); err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	return day, nil
}

// Wipe deletes every stored value, used by account deletion.
func (s *Store) Wipe() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketState, bucketAuth, bucketMeta} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}
