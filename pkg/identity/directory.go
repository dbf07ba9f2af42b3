package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPDirectory implements Directory against the user-record REST surface.
type HTTPDirectory struct {
	baseURL string
	http    *http.Client
}

var _ Directory = (*HTTPDirectory)(nil)

// DirectoryOption mutates HTTPDirectory construction.
type DirectoryOption func(*HTTPDirectory)

// WithDirectoryHTTPClient overrides the HTTP client used for lookups.
func WithDirectoryHTTPClient(client *http.Client) DirectoryOption {
	return func(d *HTTPDirectory) { d.http = client }
}

// NewHTTPDirectory creates a directory client rooted at baseURL.
func NewHTTPDirectory(baseURL string, opts ...DirectoryOption) *HTTPDirectory {
	d := &HTTPDirectory{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range opts {
		fn(d)
	}
	return d
}

// Lookup fetches the user record for an identity id. A missing record
// returns ErrRecordNotFound; callers decide whether that is fatal.
func (d *HTTPDirectory) Lookup(ctx context.Context, id string) (*UserRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/users/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("record lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrRecordNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("record lookup returned %s", resp.Status)
	}

	var rec UserRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode user record: %w", err)
	}
	return &rec, nil
}

// SetName writes a display name onto an existing record.
func (d *HTTPDirectory) SetName(ctx context.Context, id, name string) error {
	data, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return fmt.Errorf("failed to encode name update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, d.baseURL+"/users/"+id, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build name update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("name update failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("name update returned %s", resp.Status)
	}
	return nil
}
