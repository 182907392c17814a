package drive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yalkhatib/tradetracker"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{BaseURL: srv.URL, UploadURL: srv.URL, Token: "tok-123"})
}

func TestClient_Find(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		if !strings.Contains(r.URL.Query().Get("q"), "trade-tracker-AB2CDE.json") {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]string{{"id": "file-1", "name": "trade-tracker-AB2CDE.json"}},
		})
	})

	id, err := c.Find(context.Background(), "trade-tracker-AB2CDE.json")
	if err != nil || id != "file-1" {
		t.Fatalf("Find() = %q, %v", id, err)
	}
}

func TestClient_Find_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}})
	})
	_, err := c.Find(context.Background(), "trade-tracker-backup.json")
	if !errors.Is(err, tradetracker.ErrNotFound) {
		t.Fatalf("Find() error = %v, want %v", err, tradetracker.ErrNotFound)
	}
}

func TestClient_Upload_CreateAndUpdate(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		json.NewEncoder(w).Encode(map[string]string{"id": "file-1"})
	})

	id, err := c.Upload(context.Background(), "", "trade-tracker-AB2CDE.json", []byte(`{"version":"1.1"}`))
	if err != nil || id != "file-1" {
		t.Fatalf("Upload(create) = %q, %v", id, err)
	}
	if gotMethod != http.MethodPost || gotPath != "/files" {
		t.Errorf("create used %s %s", gotMethod, gotPath)
	}
	if !strings.Contains(gotBody, `"name":"trade-tracker-AB2CDE.json"`) {
		t.Errorf("create body missing name: %s", gotBody)
	}
	if !strings.Contains(gotBody, `{"version":"1.1"}`) {
		t.Errorf("create body missing content: %s", gotBody)
	}

	if _, err := c.Upload(context.Background(), "file-1", "trade-tracker-AB2CDE.json", []byte("{}")); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/files/file-1" {
		t.Errorf("update used %s %s, want PATCH /files/file-1", gotMethod, gotPath)
	}
	if strings.Contains(gotBody, `"name"`) {
		t.Errorf("update body renames the file: %s", gotBody)
	}
}

func TestClient_Download(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/file-1" || r.URL.Query().Get("alt") != "media" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
		io.WriteString(w, `{"version":"1.1"}`)
	})
	got, err := c.Download(context.Background(), "file-1")
	if err != nil || string(got) != `{"version":"1.1"}` {
		t.Fatalf("Download() = %q, %v", got, err)
	}
}

func TestClient_Revisions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/files/file-1/revisions":
			json.NewEncoder(w).Encode(map[string]any{
				"revisions": []map[string]string{
					{"id": "rev-1", "modifiedTime": "2025-03-01T10:00:00Z"},
					{"id": "rev-2", "modifiedTime": "2025-03-02T10:00:00Z"},
				},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/files/file-1/revisions/rev-1":
			io.WriteString(w, "old content")
		case r.Method == http.MethodDelete && r.URL.Path == "/files/file-1/revisions/rev-2":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	revs, err := c.ListRevisions(context.Background(), "file-1")
	if err != nil || len(revs) != 2 || revs[0].ID != "rev-1" {
		t.Fatalf("ListRevisions() = %+v, %v", revs, err)
	}
	content, err := c.DownloadRevision(context.Background(), "file-1", "rev-1")
	if err != nil || string(content) != "old content" {
		t.Fatalf("DownloadRevision() = %q, %v", content, err)
	}
	if err := c.DeleteRevision(context.Background(), "file-1", "rev-2"); err != nil {
		t.Fatal(err)
	}
}

func TestClient_Permissions(t *testing.T) {
	var granted map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"permissions": []map[string]string{{"id": "p1", "emailAddress": "amal@example.com", "role": "owner"}},
			})
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&granted)
			w.WriteHeader(http.StatusOK)
			io.WriteString(w, "{}")
		}
	})

	perms, err := c.ListPermissions(context.Background(), "file-1")
	if err != nil || len(perms) != 1 || perms[0].EmailAddress != "amal@example.com" {
		t.Fatalf("ListPermissions() = %+v, %v", perms, err)
	}
	if err := c.AddPermission(context.Background(), "file-1", "sam@example.com", "writer"); err != nil {
		t.Fatal(err)
	}
	if granted["emailAddress"] != "sam@example.com" || granted["role"] != "writer" {
		t.Errorf("granted = %v", granted)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		want   error
	}{
		{name: "401 means expired token", status: http.StatusUnauthorized, want: tradetracker.ErrAuthExpired},
		{name: "404 means absent file", status: http.StatusNotFound, want: tradetracker.ErrNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := c.Download(context.Background(), "file-1")
			if !errors.Is(err, tc.want) {
				t.Errorf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	c := NewClient(ClientConfig{BaseURL: srv.URL, Token: "tok"})

	_, err := c.Download(context.Background(), "file-1")
	var netErr *tradetracker.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %T %v, want NetworkError", err, err)
	}
}
