package tradetracker

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SnapshotVersion is the wire version of a workspace snapshot.
const SnapshotVersion = "1.1"

// ExportVersion is the wire version of a personal export file.
const ExportVersion = "1.0"

// BackupName is the remote filename of a personal backup.
const BackupName = "trade-tracker-backup.json"

// WorkspaceFileName returns the remote filename of a workspace
// snapshot.
func WorkspaceFileName(code string) string {
	return fmt.Sprintf("trade-tracker-%s.json", code)
}

// SnapshotData is the payload of a snapshot. The workspace fields are
// omitted from personal backups.
type SnapshotData struct {
	Transactions    []Transaction `json:"transactions"`
	Currencies      Currencies    `json:"currencies,omitempty"`
	DefaultCurrency string        `json:"defaultCurrency,omitempty"`
	Members         []Member      `json:"members,omitempty"`
	ActivityLog     []Activity    `json:"activityLog,omitempty"`
}

// Snapshot is the document pushed to and pulled from the remote store.
// One snapshot is the whole state; sync is wholesale replacement.
type Snapshot struct {
	Timestamp   time.Time    `json:"timestamp"`
	Version     string       `json:"version"`
	WorkspaceID string       `json:"workspaceId,omitempty"`
	Data        SnapshotData `json:"data"`
}

// NewSnapshot captures the current ledger and workspace state. A nil
// workspace yields a personal backup.
func NewSnapshot(l *Ledger, w *Workspace) Snapshot {
	s := Snapshot{
		Timestamp: time.Now(),
		Version:   ExportVersion,
		Data:      SnapshotData{Transactions: l.Transactions()},
	}
	if s.Data.Transactions == nil {
		s.Data.Transactions = []Transaction{}
	}
	if w != nil {
		s.Version = SnapshotVersion
		s.WorkspaceID = w.Code
		s.Data.Currencies = w.Currencies
		s.Data.DefaultCurrency = w.DefaultCurrency
		s.Data.Members = w.Members
		s.Data.ActivityLog = w.ActivityLog
	}
	return s
}

// Encode writes the snapshot as indented JSON.
func (s Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// DecodeSnapshot reads a snapshot document. Unknown versions decode on
// a best-effort basis; a missing transactions list is an error.
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Data.Transactions == nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: missing transactions")
	}
	return s, nil
}

// Restore applies the snapshot to the ledger and, for workspace
// snapshots, to the workspace. self is ensured as a member afterwards
// so a member list clobbered by a stale writer cannot lock anyone out.
// It reports whether self had to be inserted; the caller propagates
// that roster change back to the remote so the other members see it.
func (s Snapshot) Restore(l *Ledger, w *Workspace, self string, selfRole Role) bool {
	l.Replace(s.Data.Transactions)
	if w == nil || s.WorkspaceID == "" {
		return false
	}
	if s.Data.Currencies != nil {
		w.Currencies = s.Data.Currencies
	}
	if s.Data.DefaultCurrency != "" {
		w.DefaultCurrency = s.Data.DefaultCurrency
	}
	if s.Data.Members != nil {
		w.Members = s.Data.Members
	}
	w.ActivityLog = s.Data.ActivityLog
	if self == "" {
		return false
	}
	return w.EnsureMember(self, selfRole)
}
