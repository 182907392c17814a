// Package auth manages the signed-in session: the OAuth2 sign-in flow,
// persisted credential validation, and the idle-timeout watcher.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/yalkhatib/tradetracker"
)

// DefaultUserinfoURL is the identity endpoint used to resolve the
// account email and to validate stored tokens.
const DefaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// CredentialStore persists the token and email between runs.
// *localstore.Store satisfies it.
type CredentialStore interface {
	SaveCredentials(token, email string) error
	Credentials() (token, email string, err error)
	ClearCredentials() error
}

// Config configures a Session.
type Config struct {
	OAuth       oauth2.Config
	UserinfoURL string        // default DefaultUserinfoURL
	Timeout     time.Duration // identity-call timeout, default 15s
}

// Session holds the current bearer token and account email.
type Session struct {
	store       CredentialStore
	oauth       oauth2.Config
	userinfoURL string
	httpClient  *http.Client

	token string
	email string
}

// NewSession creates a session backed by the given credential store.
func NewSession(store CredentialStore, cfg Config) *Session {
	userinfoURL := cfg.UserinfoURL
	if userinfoURL == "" {
		userinfoURL = DefaultUserinfoURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Session{
		store:       store,
		oauth:       cfg.OAuth,
		userinfoURL: userinfoURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Token returns the bearer token, "" when signed out.
func (s *Session) Token() string { return s.token }

// Email returns the signed-in account email, "" when signed out.
func (s *Session) Email() string { return s.email }

// SignedIn reports whether a token is held.
func (s *Session) SignedIn() bool { return s.token != "" }

// Resume loads persisted credentials and validates the token with a
// lightweight identity call. An unauthorized token is purged so the
// session starts clean; that case returns ErrAuthExpired.
func (s *Session) Resume(ctx context.Context) error {
	token, email, err := s.store.Credentials()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	got, err := s.userinfo(ctx, token)
	if err != nil {
		if errors.Is(err, tradetracker.ErrAuthExpired) {
			_ = s.store.ClearCredentials()
			return tradetracker.ErrAuthExpired
		}
		return err
	}
	if got != "" {
		email = got
	}
	s.token, s.email = token, email
	return nil
}

// Exchange trades an authorization code for a token, resolves the
// account email and persists both. The code comes from the URL printed
// by AuthURL.
func (s *Session) Exchange(ctx context.Context, code string) error {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}
	email, err := s.userinfo(ctx, tok.AccessToken)
	if err != nil {
		return err
	}
	s.token, s.email = tok.AccessToken, email
	return s.store.SaveCredentials(s.token, s.email)
}

// AuthURL returns the URL the user opens in a browser to authorize the
// application.
func (s *Session) AuthURL(state string) string {
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// SignOut discards the token. The email stays persisted as "" along
// with it; workspace state is untouched so a later sign-in re-enters
// the workspace.
func (s *Session) SignOut() error {
	s.token, s.email = "", ""
	return s.store.ClearCredentials()
}

// userinfo resolves the email behind a token. A 401 maps to
// ErrAuthExpired, transport failures to NetworkError.
func (s *Session) userinfo(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &tradetracker.NetworkError{Op: "userinfo", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return "", tradetracker.ErrAuthExpired
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo: status %d", resp.StatusCode)
	}
	var out struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding userinfo: %w", err)
	}
	return out.Email, nil
}
