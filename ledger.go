package tradetracker

import (
	"sort"
	"strings"
	"time"
)

// Ledger holds the in-memory transaction list for the active workspace.
// Transactions are kept most-recent-first by date (ties broken by ID).
//
// A Ledger is not safe for concurrent use; callers serialize access.
type Ledger struct {
	transactions []Transaction
	onChange     []func()
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger { return &Ledger{} }

// OnChange registers a callback fired after every mutation. The syncer
// uses this to schedule automatic pushes.
func (l *Ledger) OnChange(fn func()) { l.onChange = append(l.onChange, fn) }

func (l *Ledger) notify() {
	for _, fn := range l.onChange {
		fn()
	}
}

// Transactions returns the ledger's transactions, most recent first.
// The returned slice is shared; callers must not mutate it.
func (l *Ledger) Transactions() []Transaction { return l.transactions }

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Get returns the transaction with the given id, or ErrNotFound.
func (l *Ledger) Get(id int64) (Transaction, error) {
	for _, t := range l.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return Transaction{}, ErrNotFound
}

// nextID derives a fresh transaction id from the wall clock, bumping
// past the current maximum so that two trades recorded within the same
// millisecond still get distinct ids.
func (l *Ledger) nextID() int64 {
	id := time.Now().UnixMilli()
	for _, t := range l.transactions {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// Add validates tx, assigns it an id and inserts it in order. A missing
// currency falls back to defaultCurrency. It returns the stored
// transaction.
func (l *Ledger) Add(tx Transaction, defaultCurrency string) (Transaction, error) {
	tx, err := tx.validate(defaultCurrency)
	if err != nil {
		return Transaction{}, err
	}
	if tx.ID == 0 {
		tx.ID = l.nextID()
	}
	if tx.Comments == nil {
		tx.Comments = []Comment{}
	}
	l.transactions = append(l.transactions, tx)
	l.resort()
	l.notify()
	return tx, nil
}

// Update replaces the stored transaction with the same id after
// validating the new values. The id and comments are preserved.
func (l *Ledger) Update(tx Transaction, defaultCurrency string) (Transaction, error) {
	for i, old := range l.transactions {
		if old.ID != tx.ID {
			continue
		}
		tx, err := tx.validate(defaultCurrency)
		if err != nil {
			return Transaction{}, err
		}
		tx.Comments = old.Comments
		l.transactions[i] = tx
		l.resort()
		l.notify()
		return tx, nil
	}
	return Transaction{}, ErrNotFound
}

// Delete removes the transaction with the given id.
func (l *Ledger) Delete(id int64) error {
	for i, t := range l.transactions {
		if t.ID == id {
			l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
			l.notify()
			return nil
		}
	}
	return ErrNotFound
}

// Clear removes every transaction.
func (l *Ledger) Clear() {
	l.transactions = nil
	l.notify()
}

// Replace swaps the whole transaction list, as happens after a pull or
// a revision restore. The input order does not matter.
func (l *Ledger) Replace(txs []Transaction) {
	l.transactions = append([]Transaction(nil), txs...)
	l.resort()
	l.notify()
}

// AddComment appends a comment to the transaction with the given id.
// An empty author is recorded as "Anonymous"; empty text is rejected.
func (l *Ledger) AddComment(id int64, author, text string) (Comment, error) {
	if strings.TrimSpace(text) == "" {
		return Comment{}, ErrCommentMissing
	}
	if author == "" {
		author = "Anonymous"
	}
	for i, t := range l.transactions {
		if t.ID != id {
			continue
		}
		c := Comment{
			ID:        time.Now().UnixMilli(),
			Author:    author,
			Text:      text,
			Timestamp: time.Now(),
		}
		l.transactions[i].Comments = append(t.Comments, c)
		l.notify()
		return c, nil
	}
	return Comment{}, ErrNotFound
}

// resort restores the most-recent-first invariant. The sort is stable
// with an id tiebreak so repeated snapshots of the same data render
// identically.
func (l *Ledger) resort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		a, b := l.transactions[i], l.transactions[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.ID > b.ID
	})
}
