package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yalkhatib/tradetracker"
)

type memStore struct {
	token, email string
}

func (m *memStore) SaveCredentials(token, email string) error {
	m.token, m.email = token, email
	return nil
}
func (m *memStore) Credentials() (string, string, error) { return m.token, m.email, nil }
func (m *memStore) ClearCredentials() error {
	m.token, m.email = "", ""
	return nil
}

func userinfoServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSession_Resume(t *testing.T) {
	url := userinfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		io.WriteString(w, `{"email":"amal@example.com"}`)
	})

	store := &memStore{token: "tok-1", email: "stale@example.com"}
	s := NewSession(store, Config{UserinfoURL: url})
	if err := s.Resume(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !s.SignedIn() || s.Email() != "amal@example.com" {
		t.Errorf("session = %q, %q", s.Token(), s.Email())
	}
}

func TestSession_Resume_ExpiredTokenPurged(t *testing.T) {
	url := userinfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	store := &memStore{token: "tok-old", email: "amal@example.com"}
	s := NewSession(store, Config{UserinfoURL: url})
	err := s.Resume(context.Background())
	if !errors.Is(err, tradetracker.ErrAuthExpired) {
		t.Fatalf("Resume() error = %v, want %v", err, tradetracker.ErrAuthExpired)
	}
	if store.token != "" || s.SignedIn() {
		t.Error("expired credentials were not purged")
	}
}

func TestSession_Resume_SignedOut(t *testing.T) {
	s := NewSession(&memStore{}, Config{UserinfoURL: "http://invalid.invalid"})
	if err := s.Resume(context.Background()); err != nil {
		t.Fatalf("Resume() with no stored token = %v", err)
	}
	if s.SignedIn() {
		t.Error("session signed in out of nowhere")
	}
}

func TestSession_SignOut(t *testing.T) {
	store := &memStore{token: "tok", email: "amal@example.com"}
	s := NewSession(store, Config{})
	s.token, s.email = "tok", "amal@example.com"

	if err := s.SignOut(); err != nil {
		t.Fatal(err)
	}
	if s.SignedIn() || store.token != "" {
		t.Error("sign-out left credentials behind")
	}
}
