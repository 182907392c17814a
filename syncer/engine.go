// Package syncer implements the workspace synchronization engine: the
// signed-out/personal/workspace state machine, snapshot push and pull
// against the remote store, revision restore, and the sharing fan-out
// that keeps every member granted on the workspace file.
package syncer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/yalkhatib/tradetracker"
	"github.com/yalkhatib/tradetracker/drive"
	"github.com/yalkhatib/tradetracker/localstore"
)

// State is the engine's position in the session state machine.
type State int

const (
	SignedOut State = iota
	Personal        // signed in, no workspace
	InWorkspace
)

func (s State) String() string {
	switch s {
	case SignedOut:
		return "signed-out"
	case Personal:
		return "personal"
	case InWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Remote is the slice of the object-store client the engine uses.
// *drive.Client satisfies it; tests substitute a fake.
type Remote interface {
	Find(ctx context.Context, name string) (string, error)
	Upload(ctx context.Context, fileID, name string, content []byte) (string, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
	ListRevisions(ctx context.Context, fileID string) ([]drive.Revision, error)
	DownloadRevision(ctx context.Context, fileID, revisionID string) ([]byte, error)
	DeleteRevision(ctx context.Context, fileID, revisionID string) error
	DeleteFile(ctx context.Context, fileID string) error
	ListPermissions(ctx context.Context, fileID string) ([]drive.Permission, error)
	AddPermission(ctx context.Context, fileID, email, role string) error
}

var (
	// ErrSignedOut rejects operations that need a session.
	ErrSignedOut = errors.New("not signed in")
	// ErrNoWorkspace rejects workspace-only operations in personal mode.
	ErrNoWorkspace = errors.New("no active workspace")
	// ErrReadOnly rejects ledger mutations by readers.
	ErrReadOnly = errors.New("your role is read-only in this workspace")
	// ErrNotCreator rejects administration by non-creators.
	ErrNotCreator = errors.New("only the workspace creator can do this")
	// ErrBlocked reports that the creator blocked this account.
	ErrBlocked = errors.New("you have been blocked in this workspace")
	// ErrLastRevision reports the remote store refusing to delete the
	// sole remaining backup.
	ErrLastRevision = errors.New("cannot delete last backup")
)

// Engine drives synchronization between the local state and the remote
// snapshot file. It is not safe for concurrent use.
type Engine struct {
	store  *localstore.Store
	remote Remote
	log    *zap.SugaredLogger
	now    func() time.Time

	// OnAuthExpired fires when a remote call reports an expired token
	// and the engine gives up on it. The owner signs the session out.
	OnAuthExpired func()

	email       string
	freshSignIn bool

	ledger    *tradetracker.Ledger
	workspace *tradetracker.Workspace
	role      tradetracker.Role

	// personal-mode currency table, shadowed by the workspace's when
	// one is active
	currencies tradetracker.Currencies
	defaultCur string

	fileID string // cached remote file id for the current mode
}

// New creates an engine over the given store and remote client.
func New(store *localstore.Store, remote Remote, log *zap.SugaredLogger) *Engine {
	return &Engine{
		store:  store,
		remote: remote,
		log:    log,
		now:    time.Now,
		ledger: tradetracker.NewLedger(),
		role:   tradetracker.Reader,
	}
}

// Load restores the engine from persisted state. With a persisted
// workspace id the engine re-enters the workspace directly.
func (e *Engine) Load() error {
	txs, err := e.store.Transactions()
	if err != nil {
		return err
	}
	e.ledger.Replace(txs)

	e.currencies, err = e.store.Currencies()
	if err != nil {
		return err
	}
	e.defaultCur, err = e.store.DefaultCurrency()
	if err != nil {
		return err
	}

	code, err := e.store.WorkspaceID()
	if err != nil {
		return err
	}
	if code == "" {
		return nil
	}
	e.role, err = e.store.Role()
	if err != nil {
		return err
	}
	members, err := e.store.Members()
	if err != nil {
		return err
	}
	log, err := e.store.ActivityLog()
	if err != nil {
		return err
	}
	e.workspace = &tradetracker.Workspace{
		Code:            code,
		Members:         members,
		Currencies:      e.currencies,
		DefaultCurrency: e.defaultCur,
		ActivityLog:     log,
	}
	return nil
}

// SetIdentity records the signed-in account. fresh marks a sign-in that
// just happened, granting one retry on the next expired-token response.
func (e *Engine) SetIdentity(email string, fresh bool) {
	e.email = email
	e.freshSignIn = fresh
}

// State returns the current machine state.
func (e *Engine) State() State {
	switch {
	case e.email == "":
		return SignedOut
	case e.workspace == nil:
		return Personal
	default:
		return InWorkspace
	}
}

// Ledger exposes the in-memory transaction collection.
func (e *Engine) Ledger() *tradetracker.Ledger { return e.ledger }

// Workspace returns the active workspace, nil in personal mode.
func (e *Engine) Workspace() *tradetracker.Workspace { return e.workspace }

// Role returns the local role; creator in personal mode, since the
// user owns their own data.
func (e *Engine) Role() tradetracker.Role {
	if e.workspace == nil {
		return tradetracker.Creator
	}
	return e.role
}

// Email returns the signed-in account email.
func (e *Engine) Email() string { return e.email }

// Currencies returns the active currency table.
func (e *Engine) Currencies() tradetracker.Currencies {
	if e.workspace != nil {
		return e.workspace.Currencies
	}
	return e.currencies
}

// DefaultCurrency returns the active default currency code.
func (e *Engine) DefaultCurrency() string {
	if e.workspace != nil {
		return e.workspace.DefaultCurrency
	}
	return e.defaultCur
}

// --- ledger mutations ---

// AddTransaction records a trade and schedules a push.
func (e *Engine) AddTransaction(ctx context.Context, tx tradetracker.Transaction) (tradetracker.Transaction, error) {
	if !e.Role().CanWrite() {
		return tradetracker.Transaction{}, ErrReadOnly
	}
	stored, err := e.ledger.Add(tx, e.DefaultCurrency())
	if err != nil {
		return tradetracker.Transaction{}, err
	}
	e.logActivity(tradetracker.ActionAdded, fmt.Sprintf("%s %s %s", stored.Type, stored.Amount, stored.Currency))
	if err := e.persist(); err != nil {
		return tradetracker.Transaction{}, err
	}
	e.AutoPush(ctx)
	return stored, nil
}

// UpdateTransaction replaces a trade's values, keeping its id and
// comments, and schedules a push.
func (e *Engine) UpdateTransaction(ctx context.Context, tx tradetracker.Transaction) (tradetracker.Transaction, error) {
	if !e.Role().CanWrite() {
		return tradetracker.Transaction{}, ErrReadOnly
	}
	stored, err := e.ledger.Update(tx, e.DefaultCurrency())
	if err != nil {
		return tradetracker.Transaction{}, err
	}
	e.logActivity(tradetracker.ActionModified, stored.Description)
	if err := e.persist(); err != nil {
		return tradetracker.Transaction{}, err
	}
	e.AutoPush(ctx)
	return stored, nil
}

// RemoveTransaction deletes a trade by id and schedules a push.
func (e *Engine) RemoveTransaction(ctx context.Context, id int64) error {
	if !e.Role().CanWrite() {
		return ErrReadOnly
	}
	tx, err := e.ledger.Get(id)
	if err != nil {
		return err
	}
	if err := e.ledger.Delete(id); err != nil {
		return err
	}
	e.logActivity(tradetracker.ActionDeleted, tx.Description)
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// ClearTransactions empties the ledger and schedules a push.
func (e *Engine) ClearTransactions(ctx context.Context) error {
	if !e.Role().CanWrite() {
		return ErrReadOnly
	}
	e.ledger.Clear()
	e.logActivity(tradetracker.ActionDeleted, "all transactions")
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// CommentTransaction appends a comment under the signed-in email.
func (e *Engine) CommentTransaction(ctx context.Context, id int64, text string) error {
	if _, err := e.ledger.AddComment(id, e.email, text); err != nil {
		return err
	}
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// --- currency administration ---

// canAdministrate gates currency and member management: creator-only
// inside a workspace, always allowed in personal mode.
func (e *Engine) canAdministrate() error {
	if e.workspace != nil && !e.role.CanManage() {
		return ErrNotCreator
	}
	return nil
}

func (e *Engine) AddCurrency(ctx context.Context, code, name string) error {
	if err := e.canAdministrate(); err != nil {
		return err
	}
	cs := e.Currencies()
	if err := cs.Add(code, name); err != nil {
		return err
	}
	e.setCurrencies(cs)
	e.logActivity(tradetracker.ActionModified, fmt.Sprintf("currency %s added", code))
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

func (e *Engine) RemoveCurrency(ctx context.Context, code string) error {
	if err := e.canAdministrate(); err != nil {
		return err
	}
	cs := e.Currencies()
	if err := cs.Remove(code, e.DefaultCurrency()); err != nil {
		return err
	}
	e.setCurrencies(cs)
	e.logActivity(tradetracker.ActionModified, fmt.Sprintf("currency %s removed", code))
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

func (e *Engine) SetDefaultCurrency(ctx context.Context, code string) error {
	if err := e.canAdministrate(); err != nil {
		return err
	}
	normalized, err := e.Currencies().SetDefault(code)
	if err != nil {
		return err
	}
	if e.workspace != nil {
		e.workspace.DefaultCurrency = normalized
	} else {
		e.defaultCur = normalized
	}
	e.logActivity(tradetracker.ActionModified, fmt.Sprintf("default currency %s", normalized))
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

func (e *Engine) setCurrencies(cs tradetracker.Currencies) {
	if e.workspace != nil {
		e.workspace.Currencies = cs
	} else {
		e.currencies = cs
	}
}

// --- member administration ---

func (e *Engine) SetMemberRole(ctx context.Context, email string, role tradetracker.Role) error {
	if e.workspace == nil {
		return ErrNoWorkspace
	}
	if !e.role.CanManage() {
		return ErrNotCreator
	}
	if err := e.workspace.SetRole(email, role); err != nil {
		return err
	}
	e.logActivity(tradetracker.ActionModified, fmt.Sprintf("%s is now %s", email, role))
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

func (e *Engine) SetMemberBlocked(ctx context.Context, email string, blocked bool) error {
	if e.workspace == nil {
		return ErrNoWorkspace
	}
	if !e.role.CanManage() {
		return ErrNotCreator
	}
	if err := e.workspace.SetBlocked(email, blocked); err != nil {
		return err
	}
	action := tradetracker.ActionUnblocked
	if blocked {
		action = tradetracker.ActionBlocked
	}
	e.logActivity(action, email)
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// RemoveMember drops a member from the roster. The next push revokes
// their view; the creator cannot be removed.
func (e *Engine) RemoveMember(ctx context.Context, email string) error {
	if e.workspace == nil {
		return ErrNoWorkspace
	}
	if !e.role.CanManage() {
		return ErrNotCreator
	}
	if err := e.workspace.RemoveMember(email); err != nil {
		return err
	}
	e.logActivity(tradetracker.ActionRemoved, email)
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// --- workspace lifecycle ---

// CreateWorkspace generates a fresh code, seeds the member list with
// the current account as creator, writes the initial remote snapshot
// and pulls it back. The existing personal ledger is carried into the
// new workspace.
func (e *Engine) CreateWorkspace(ctx context.Context) (*tradetracker.Workspace, error) {
	if e.email == "" {
		return nil, ErrSignedOut
	}
	if e.workspace != nil {
		return nil, fmt.Errorf("already in workspace %s, leave it first", e.workspace.Code)
	}

	w := tradetracker.NewWorkspace(e.email)
	w.Currencies = e.currencies
	w.DefaultCurrency = e.defaultCur
	e.workspace = w
	e.role = tradetracker.Creator
	e.fileID = ""
	e.logActivity(tradetracker.ActionCreated, w.Code)
	if err := e.persist(); err != nil {
		return nil, err
	}

	if err := e.Push(ctx); err != nil {
		return nil, err
	}
	// if the generated code already had a remote file, its content wins
	if err := e.Pull(ctx); err != nil {
		return nil, err
	}
	return e.workspace, nil
}

// Join enters an existing workspace by code. The local role is reader
// until the creator upgrades it; the first pull fetches whatever the
// workspace already holds.
func (e *Engine) Join(ctx context.Context, code string) error {
	if e.email == "" {
		return ErrSignedOut
	}
	if e.workspace != nil {
		return fmt.Errorf("already in workspace %s, leave it first", e.workspace.Code)
	}
	code, err := tradetracker.NormalizeCode(code)
	if err != nil {
		return err
	}

	e.workspace = &tradetracker.Workspace{
		Code:            code,
		Members:         []tradetracker.Member{{Email: e.email, Role: tradetracker.Reader, JoinedAt: e.now()}},
		Currencies:      tradetracker.SeedCurrencies(),
		DefaultCurrency: "USD",
	}
	e.role = tradetracker.Reader
	e.fileID = ""
	e.ledger.Replace(nil)
	if err := e.persist(); err != nil {
		return err
	}
	return e.Pull(ctx)
}

// Leave drops all local workspace state and returns to personal mode.
// The remote snapshot stays for the other members.
func (e *Engine) Leave() error {
	if e.workspace == nil {
		return ErrNoWorkspace
	}
	if e.role == tradetracker.Creator {
		return fmt.Errorf("creator cannot leave the workspace")
	}
	if err := e.store.ClearWorkspace(); err != nil {
		return err
	}
	e.workspace = nil
	e.role = tradetracker.Reader
	e.fileID = ""
	e.ledger.Replace(nil)
	e.currencies, _ = e.store.Currencies()
	e.defaultCur, _ = e.store.DefaultCurrency()
	return nil
}

// DeleteAccount wipes every locally stored value. The remote snapshot
// is left untouched.
func (e *Engine) DeleteAccount() error {
	if err := e.store.Wipe(); err != nil {
		return err
	}
	e.email = ""
	e.workspace = nil
	e.role = tradetracker.Reader
	e.fileID = ""
	e.ledger.Replace(nil)
	e.currencies = tradetracker.SeedCurrencies()
	e.defaultCur = "USD"
	return nil
}

// --- push / pull ---

// fileName returns the remote snapshot name for the current mode.
func (e *Engine) fileName() string {
	if e.workspace != nil {
		return tradetracker.WorkspaceFileName(e.workspace.Code)
	}
	return tradetracker.BackupName
}

// findFile resolves (and caches) the remote file id. ErrNotFound means
// no snapshot was pushed yet.
func (e *Engine) findFile(ctx context.Context) (string, error) {
	if e.fileID != "" {
		return e.fileID, nil
	}
	id, err := e.remote.Find(ctx, e.fileName())
	if err != nil {
		return "", err
	}
	e.fileID = id
	return id, nil
}

// Push uploads the full local snapshot, creating the remote file on
// first use and overwriting it in place afterwards so revision history
// accumulates. Creators then fan sharing grants out to the members.
func (e *Engine) Push(ctx context.Context) error {
	if e.email == "" {
		return ErrSignedOut
	}
	return e.withAuthRetry(ctx, func(ctx context.Context) error {
		var w *tradetracker.Workspace
		if e.workspace != nil {
			w = e.workspace
		}
		snap := tradetracker.NewSnapshot(e.ledger, w)

		var buf bytes.Buffer
		if err := snap.Encode(&buf); err != nil {
			return err
		}

		fileID, err := e.findFile(ctx)
		if err != nil && !errors.Is(err, tradetracker.ErrNotFound) {
			return err
		}
		id, err := e.remote.Upload(ctx, fileID, e.fileName(), buf.Bytes())
		if err != nil {
			return err
		}
		e.fileID = id

		if err := e.store.SaveLastSync(e.now()); err != nil {
			return err
		}
		e.log.Infow("pushed snapshot", "file", e.fileName(), "transactions", e.ledger.Len())

		if e.workspace != nil && e.role == tradetracker.Creator {
			e.shareWithMembers(ctx, id)
		}
		return nil
	})
}

// Pull downloads the remote snapshot and wholesale-replaces local
// state. An absent remote file is a benign empty state. The replace
// happens only after a fully successful download and decode.
func (e *Engine) Pull(ctx context.Context) error {
	if e.email == "" {
		return ErrSignedOut
	}
	var joined bool
	err := e.withAuthRetry(ctx, func(ctx context.Context) error {
		fileID, err := e.findFile(ctx)
		if errors.Is(err, tradetracker.ErrNotFound) {
			e.log.Infow("no remote snapshot yet", "file", e.fileName())
			return nil
		}
		if err != nil {
			return err
		}
		content, err := e.remote.Download(ctx, fileID)
		if err != nil {
			return err
		}
		snap, err := tradetracker.DecodeSnapshot(bytes.NewReader(content))
		if err != nil {
			return err
		}

		joined = snap.Restore(e.ledger, e.workspace, e.email, e.role)
		if e.workspace != nil {
			if m := e.workspace.Member(e.email); m != nil {
				e.role = m.Role
				if m.Blocked {
					e.role = tradetracker.Reader // keep local state harmless until leave
					return ErrBlocked
				}
			}
		}
		if err := e.persist(); err != nil {
			return err
		}
		if err := e.store.SaveLastSync(e.now()); err != nil {
			return err
		}
		e.log.Infow("pulled snapshot", "file", e.fileName(), "transactions", e.ledger.Len())
		return nil
	})
	if err != nil {
		return err
	}
	// a fresh self entry must reach the remote roster, or the other
	// members never learn this account joined
	if joined {
		e.logActivity(tradetracker.ActionJoined, "")
		if err := e.persist(); err != nil {
			return err
		}
		e.AutoPush(ctx)
	}
	return nil
}

// AutoPush runs the auto-backup policy after a local mutation: inside a
// workspace every mutation pushes; in personal mode at most one push
// per calendar day. Failures are logged, never surfaced, since the
// local mutation already succeeded.
func (e *Engine) AutoPush(ctx context.Context) {
	if e.email == "" {
		return
	}
	today := e.now().Format("2006-01-02")
	if e.workspace == nil {
		last, err := e.store.LastBackupDay()
		if err == nil && last == today {
			return
		}
	}
	if err := e.Push(ctx); err != nil {
		e.log.Warnw("auto-push failed", "error", err)
		return
	}
	if e.workspace == nil {
		if err := e.store.SaveLastBackupDay(today); err != nil {
			e.log.Warnw("recording backup day failed", "error", err)
		}
	}
}

// shareWithMembers grants every non-creator member write access on the
// workspace file, skipping members that already hold a grant. Errors
// are logged; a failed grant must not fail the push that triggered it.
func (e *Engine) shareWithMembers(ctx context.Context, fileID string) {
	perms, err := e.remote.ListPermissions(ctx, fileID)
	if err != nil {
		e.log.Warnw("listing permissions failed", "error", err)
		return
	}
	granted := make(map[string]bool, len(perms))
	for _, p := range perms {
		granted[p.EmailAddress] = true
	}
	for _, m := range e.workspace.Members {
		if m.Role == tradetracker.Creator || granted[m.Email] {
			continue
		}
		if err := e.remote.AddPermission(ctx, fileID, m.Email, "writer"); err != nil {
			e.log.Warnw("granting access failed", "member", m.Email, "error", err)
			continue
		}
		e.log.Infow("granted access", "member", m.Email)
	}
}

// --- revisions ---

// RevisionInfo is one restorable version of the snapshot file,
// annotated with the timestamp and transaction count embedded in its
// content.
type RevisionInfo struct {
	ID           string
	ModifiedTime time.Time
	Timestamp    time.Time
	Transactions int
}

// Revisions lists the restorable versions, newest first.
func (e *Engine) Revisions(ctx context.Context) ([]RevisionInfo, error) {
	if e.email == "" {
		return nil, ErrSignedOut
	}
	infos := []RevisionInfo{}
	err := e.withAuthRetry(ctx, func(ctx context.Context) error {
		fileID, err := e.findFile(ctx)
		if errors.Is(err, tradetracker.ErrNotFound) {
			// nothing pushed yet, so there is no history either
			return nil
		}
		if err != nil {
			return err
		}
		revs, err := e.remote.ListRevisions(ctx, fileID)
		if err != nil {
			return err
		}
		infos = make([]RevisionInfo, 0, len(revs))
		// the store reports oldest first
		for i := len(revs) - 1; i >= 0; i-- {
			info := RevisionInfo{ID: revs[i].ID, ModifiedTime: revs[i].ModifiedTime}
			if content, err := e.remote.DownloadRevision(ctx, fileID, revs[i].ID); err == nil {
				if snap, err := tradetracker.DecodeSnapshot(bytes.NewReader(content)); err == nil {
					info.Timestamp = snap.Timestamp
					info.Transactions = len(snap.Data.Transactions)
				}
			}
			infos = append(infos, info)
		}
		return nil
	})
	return infos, err
}

// RestoreRevision replaces the transaction list with a historical
// version's. Currencies and members are deliberately not rolled back.
func (e *Engine) RestoreRevision(ctx context.Context, revisionID string) error {
	if e.email == "" {
		return ErrSignedOut
	}
	if !e.Role().CanWrite() {
		return ErrReadOnly
	}
	return e.withAuthRetry(ctx, func(ctx context.Context) error {
		fileID, err := e.findFile(ctx)
		if err != nil {
			return err
		}
		content, err := e.remote.DownloadRevision(ctx, fileID, revisionID)
		if err != nil {
			return err
		}
		snap, err := tradetracker.DecodeSnapshot(bytes.NewReader(content))
		if err != nil {
			return err
		}
		e.ledger.Replace(snap.Data.Transactions)
		e.logActivity(tradetracker.ActionModified, fmt.Sprintf("restored backup of %s", snap.Timestamp.Format("2006-01-02 15:04")))
		if err := e.persist(); err != nil {
			return err
		}
		e.AutoPush(ctx)
		return nil
	})
}

// DeleteRevision removes one historical version. The store rejects
// deleting the only remaining one; that surfaces as ErrLastRevision.
func (e *Engine) DeleteRevision(ctx context.Context, revisionID string) error {
	if e.email == "" {
		return ErrSignedOut
	}
	if e.workspace != nil && !e.role.CanManage() {
		return ErrNotCreator
	}
	return e.withAuthRetry(ctx, func(ctx context.Context) error {
		fileID, err := e.findFile(ctx)
		if err != nil {
			return err
		}
		if err := e.remote.DeleteRevision(ctx, fileID, revisionID); err != nil {
			if errors.Is(err, drive.ErrForbidden) {
				return ErrLastRevision
			}
			return err
		}
		return nil
	})
}

// --- personal export / import ---

// Export writes the personal export document.
func (e *Engine) Export(w io.Writer) error {
	return tradetracker.NewSnapshot(e.ledger, nil).Encode(w)
}

// Import replaces the ledger with an export document's transactions.
// The caller confirms with the user first.
func (e *Engine) Import(ctx context.Context, r io.Reader) error {
	if !e.Role().CanWrite() {
		return ErrReadOnly
	}
	snap, err := tradetracker.DecodeSnapshot(r)
	if err != nil {
		return err
	}
	e.ledger.Replace(snap.Data.Transactions)
	e.logActivity(tradetracker.ActionModified, fmt.Sprintf("imported %d transactions", e.ledger.Len()))
	if err := e.persist(); err != nil {
		return err
	}
	e.AutoPush(ctx)
	return nil
}

// --- internals ---

// withAuthRetry runs op, retrying once on an expired-token response
// when the sign-in is fresh; otherwise an expired token reports through
// OnAuthExpired so the owner can sign the session out.
func (e *Engine) withAuthRetry(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	if errors.Is(err, tradetracker.ErrAuthExpired) && e.freshSignIn {
		e.freshSignIn = false
		e.log.Infow("retrying after fresh sign-in")
		err = op(ctx)
	}
	if errors.Is(err, tradetracker.ErrAuthExpired) && e.OnAuthExpired != nil {
		e.OnAuthExpired()
	}
	return err
}

// logActivity appends to the workspace activity log; personal mode has
// no log.
func (e *Engine) logActivity(action tradetracker.Action, detail string) {
	if e.workspace != nil {
		e.workspace.Log(e.email, action, detail)
	}
}

// persist writes the in-memory state through to the local store.
func (e *Engine) persist() error {
	if err := e.store.SaveTransactions(e.ledger.Transactions()); err != nil {
		return err
	}
	if err := e.store.SaveCurrencies(e.Currencies()); err != nil {
		return err
	}
	if err := e.store.SaveDefaultCurrency(e.DefaultCurrency()); err != nil {
		return err
	}
	if e.workspace == nil {
		return nil
	}
	if err := e.store.SaveWorkspaceID(e.workspace.Code); err != nil {
		return err
	}
	if err := e.store.SaveRole(e.role); err != nil {
		return err
	}
	if err := e.store.SaveMembers(e.workspace.Members); err != nil {
		return err
	}
	return e.store.SaveActivityLog(e.workspace.ActivityLog)
}
