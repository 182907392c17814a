// Package drive is a client for the remote object store holding
// workspace snapshot files. It speaks a Google-Drive-shaped REST API:
// file search by name, multipart upload, media download, revision
// history and permission grants.
package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/yalkhatib/tradetracker"
)

// ErrForbidden is returned on a 403, notably when deleting a file's
// only remaining revision.
var ErrForbidden = errors.New("forbidden")

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://www.googleapis.com/drive/v3"

// DefaultUploadURL is the production multipart upload endpoint.
const DefaultUploadURL = "https://www.googleapis.com/upload/drive/v3"

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL   string        // default DefaultBaseURL
	UploadURL string        // default DefaultUploadURL
	Token     string        // bearer token
	Timeout   time.Duration // default 30 seconds
}

// Client calls the remote object store with bearer auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
	token      string
}

// NewClient creates a remote store client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	uploadURL := config.UploadURL
	if uploadURL == "" {
		uploadURL = baseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		token:      config.Token,
	}
}

// SetToken replaces the bearer token, after a fresh sign-in.
func (c *Client) SetToken(token string) { c.token = token }

// do sends a request with auth headers and maps the error statuses:
// 401 to ErrAuthExpired, 404 to ErrNotFound, transport failures to
// NetworkError. Callers own the returned body.
func (c *Client) do(req *http.Request, op string) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &tradetracker.NetworkError{Op: op, Err: err}
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, tradetracker.ErrAuthExpired
	case resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, tradetracker.ErrNotFound
	case resp.StatusCode >= 400:
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, bytes.TrimSpace(body))
	}
	return resp, nil
}

type fileResource struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType,omitempty"`
}

// Find looks up a file id by exact name. It returns ErrNotFound when no
// file matches.
func (c *Client) Find(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("q", fmt.Sprintf("name = '%s' and trashed = false", name))
	q.Set("fields", "files(id, name)")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req, "find "+name)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Files []fileResource `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding file list: %w", err)
	}
	if len(out.Files) == 0 {
		return "", tradetracker.ErrNotFound
	}
	return out.Files[0].ID, nil
}

// Upload writes content under the given name. With an empty fileID a
// new file is created; otherwise the existing file is overwritten in
// place so its revision history keeps accumulating. It returns the file
// id.
func (c *Client) Upload(ctx context.Context, fileID, name string, content []byte) (string, error) {
	meta := map[string]string{"mimeType": "application/json"}
	if fileID == "" {
		meta["name"] = name
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := mw.CreatePart(metaHeader)
	if err != nil {
		return "", err
	}
	if err := json.NewEncoder(part).Encode(meta); err != nil {
		return "", err
	}
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", "application/json")
	part, err = mw.CreatePart(mediaHeader)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	method := http.MethodPost
	target := c.uploadURL + "/files?uploadType=multipart"
	if fileID != "" {
		method = http.MethodPatch
		target = c.uploadURL + "/files/" + fileID + "?uploadType=multipart"
	}
	req, err := http.NewRequestWithContext(ctx, method, target, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := c.do(req, "upload "+name)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	return file.ID, nil
}

// Download returns the file content.
func (c *Client) Download(ctx context.Context, fileID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/"+fileID+"?alt=media", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, "download "+fileID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Revision is one retained historical version of a file.
type Revision struct {
	ID           string    `json:"id"`
	ModifiedTime time.Time `json:"modifiedTime"`
}

// ListRevisions returns the file's revisions as reported by the store,
// oldest first.
func (c *Client) ListRevisions(ctx context.Context, fileID string) ([]Revision, error) {
	q := url.Values{}
	q.Set("fields", "revisions(id, modifiedTime)")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/"+fileID+"/revisions?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, "list revisions")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Revisions []Revision `json:"revisions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding revision list: %w", err)
	}
	return out.Revisions, nil
}

// DownloadRevision returns the content of one historical version.
func (c *Client) DownloadRevision(ctx context.Context, fileID, revisionID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/"+fileID+"/revisions/"+revisionID+"?alt=media", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, "download revision "+revisionID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// DeleteRevision removes one historical version. The store rejects
// deleting the only remaining revision with a 403.
func (c *Client) DeleteRevision(ctx context.Context, fileID, revisionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/files/"+fileID+"/revisions/"+revisionID, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req, "delete revision "+revisionID)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteFile removes the file and its whole history.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/files/"+fileID, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req, "delete file")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Permission is one sharing grant on a file.
type Permission struct {
	ID           string `json:"id"`
	EmailAddress string `json:"emailAddress"`
	Role         string `json:"role"`
}

// ListPermissions returns the file's sharing grants.
func (c *Client) ListPermissions(ctx context.Context, fileID string) ([]Permission, error) {
	q := url.Values{}
	q.Set("fields", "permissions(id, emailAddress, role)")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/"+fileID+"/permissions?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req, "list permissions")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out struct {
		Permissions []Permission `json:"permissions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding permission list: %w", err)
	}
	return out.Permissions, nil
}

// AddPermission grants email the given role ("writer" or "reader") on
// the file, without sending a notification mail.
func (c *Client) AddPermission(ctx context.Context, fileID, email, role string) error {
	payload, err := json.Marshal(map[string]string{
		"type":         "user",
		"role":         role,
		"emailAddress": email,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/files/"+fileID+"/permissions?sendNotificationEmail=false",
		bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req, "add permission for "+email)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
