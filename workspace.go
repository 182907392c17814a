package tradetracker

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Role is a member's permission level inside a workspace.
type Role string

const (
	Creator Role = "creator" // full control, exactly one per workspace
	Writer  Role = "writer"  // can add, edit and delete trades
	Reader  Role = "reader"  // view only
)

// CanWrite reports whether the role allows mutating the ledger.
func (r Role) CanWrite() bool { return r == Creator || r == Writer }

// CanManage reports whether the role allows member and currency
// administration.
func (r Role) CanManage() bool { return r == Creator }

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Creator:
		return Creator, nil
	case Writer:
		return Writer, nil
	case Reader:
		return Reader, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// Member is one participant of a shared workspace.
type Member struct {
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
	Blocked  bool      `json:"blocked,omitempty"`
}

// workspace codes avoid 0/O/1/I to stay readable when shared aloud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the length of a workspace code.
const CodeLength = 6

// NewWorkspaceCode generates a random share code.
func NewWorkspaceCode() string {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic("workspace code: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}

// NormalizeCode uppercases and trims a user-typed workspace code. It
// returns an error when the result is not a plausible code.
func NormalizeCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != CodeLength {
		return "", fmt.Errorf("workspace code must be %d characters", CodeLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			return "", fmt.Errorf("workspace code contains invalid character %q", r)
		}
	}
	return code, nil
}

// Action is the kind of a workspace activity entry.
type Action string

const (
	ActionAdded     Action = "added"
	ActionDeleted   Action = "deleted"
	ActionModified  Action = "modified"
	ActionJoined    Action = "joined"
	ActionCreated   Action = "created"
	ActionBlocked   Action = "blocked"
	ActionUnblocked Action = "unblocked"
	ActionRemoved   Action = "removed"
)

// Activity is one entry of the workspace activity log.
type Activity struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"` // email
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxActivityLog caps the retained activity entries.
const MaxActivityLog = 100

// Workspace is the shared state synchronized between members: the
// identifying code, membership, the currency table and the activity
// log. The transactions themselves live in the Ledger.
type Workspace struct {
	Code            string     `json:"code"`
	Members         []Member   `json:"members"`
	Currencies      Currencies `json:"currencies"`
	DefaultCurrency string     `json:"defaultCurrency"`
	ActivityLog     []Activity `json:"activityLog"`
}

// NewWorkspace returns a workspace with a fresh code, the given creator
// as sole member, and the seed currency table.
func NewWorkspace(creator string) *Workspace {
	return &Workspace{
		Code:            NewWorkspaceCode(),
		Members:         []Member{{Email: creator, Role: Creator, JoinedAt: time.Now()}},
		Currencies:      SeedCurrencies(),
		DefaultCurrency: "USD",
	}
}

// Member returns the member with the given email, or nil.
func (w *Workspace) Member(email string) *Member {
	for i := range w.Members {
		if strings.EqualFold(w.Members[i].Email, email) {
			return &w.Members[i]
		}
	}
	return nil
}

// RoleOf returns the member's role. Unknown members are readers.
func (w *Workspace) RoleOf(email string) Role {
	if m := w.Member(email); m != nil {
		return m.Role
	}
	return Reader
}

// EnsureMember adds email as a member with the given role when absent,
// stamping the join time. It reports whether the membership changed.
func (w *Workspace) EnsureMember(email string, role Role) bool {
	if w.Member(email) != nil {
		return false
	}
	w.Members = append(w.Members, Member{Email: email, Role: role, JoinedAt: time.Now()})
	return true
}

// SetRole changes a member's role. The creator's role can never change,
// and no member can be promoted to creator.
func (w *Workspace) SetRole(email string, role Role) error {
	m := w.Member(email)
	if m == nil {
		return ErrNotFound
	}
	if m.Role == Creator {
		return fmt.Errorf("cannot change role of workspace creator")
	}
	if role == Creator {
		return fmt.Errorf("cannot promote to creator")
	}
	m.Role = role
	return nil
}

// SetBlocked blocks or unblocks a member. A blocked member keeps their
// entry but is denied on the next sync. The creator cannot be blocked.
func (w *Workspace) SetBlocked(email string, blocked bool) error {
	m := w.Member(email)
	if m == nil {
		return ErrNotFound
	}
	if m.Role == Creator {
		return fmt.Errorf("cannot block workspace creator")
	}
	m.Blocked = blocked
	return nil
}

// RemoveMember drops a member, as happens when they leave. The creator
// cannot leave their own workspace.
func (w *Workspace) RemoveMember(email string) error {
	for i, m := range w.Members {
		if !strings.EqualFold(m.Email, email) {
			continue
		}
		if m.Role == Creator {
			return fmt.Errorf("creator cannot leave the workspace")
		}
		w.Members = append(w.Members[:i], w.Members[i+1:]...)
		return nil
	}
	return ErrNotFound
}

// Log prepends an activity entry, trimming the log to MaxActivityLog.
func (w *Workspace) Log(actor string, action Action, detail string) {
	entry := Activity{
		ID:        time.Now().UnixMilli(),
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now(),
	}
	w.ActivityLog = append([]Activity{entry}, w.ActivityLog...)
	if len(w.ActivityLog) > MaxActivityLog {
		w.ActivityLog = w.ActivityLog[:MaxActivityLog]
	}
}

// Currency is one entry of the workspace currency table.
type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Currencies is the workspace currency table.
type Currencies []Currency

// SeedCurrencies returns the table every new workspace starts with.
func SeedCurrencies() Currencies {
	return Currencies{
		{Code: "USD", Name: "US Dollar"},
		{Code: "EUR", Name: "Euro"},
		{Code: "SAR", Name: "Saudi Riyal"},
	}
}

// Has reports whether the table contains the code.
func (cs Currencies) Has(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range cs {
		if c.Code == code {
			return true
		}
	}
	return false
}

// Add appends a currency. Codes are uppercased and must be 3 letters
// and unique.
func (cs *Currencies) Add(code, name string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return fmt.Errorf("currency code must be 3 letters")
	}
	if cs.Has(code) {
		return fmt.Errorf("currency %s already exists", code)
	}
	if name == "" {
		name = code
	}
	*cs = append(*cs, Currency{Code: code, Name: name})
	return nil
}

// Remove drops a currency from the table. The workspace default cannot
// be removed; pass the current default for the check.
func (cs *Currencies) Remove(code, defaultCurrency string) error {
	code = strings.ToUpper(code)
	if code == strings.ToUpper(defaultCurrency) {
		return fmt.Errorf("cannot remove the default currency")
	}
	for i, c := range *cs {
		if c.Code == code {
			*cs = append((*cs)[:i], (*cs)[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SetDefault validates that code is present and returns the normalized
// code to store as the workspace default.
func (cs Currencies) SetDefault(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !cs.Has(code) {
		return "", fmt.Errorf("currency %s is not in the workspace table", code)
	}
	return code, nil
}
