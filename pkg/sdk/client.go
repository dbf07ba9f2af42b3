// Package sdk provides a high-level client for the PhantomOps incident
// backend. The client attaches no credentials itself: supply an
// *http.Client whose transport propagates the bearer token.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// enrichTimeout is the client-imposed liveness bound on enrichment
// lookups: a fixed wall-clock deadline races the network call and
// whichever settles first wins. This is not a server contract.
const enrichTimeout = 30 * time.Second

// Client wraps the backend REST API with ergonomic methods.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// NewClient creates a backend client rooted at baseURL. An http.Client
// is created automatically when one is not supplied.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Client{
		httpClient: opts.HTTPClient,
		baseURL:    baseURL,
	}
}

// ListIncidents returns all incidents, newest first.
func (c *Client) ListIncidents(ctx context.Context) ([]Incident, error) {
	var out struct {
		Incidents []Incident `json:"incidents"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/incidents", nil, &out); err != nil {
		return nil, err
	}
	return out.Incidents, nil
}

// ReportIncident submits a new incident and returns the created record.
func (c *Client) ReportIncident(ctx context.Context, input ReportIncidentInput) (*Incident, error) {
	if input.UserID == "" || input.Name == "" || input.Description == "" {
		return nil, fmt.Errorf("user ID, name and description are required")
	}
	if input.Type == "" {
		input.Type = "other"
	}
	if input.Severity == 0 {
		input.Severity = 3
	}
	if input.Status == "" {
		input.Status = StatusActive
	}

	var out struct {
		Message string     `json:"message"`
		Data    []Incident `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/incidents", input, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("backend returned no incident data")
	}
	return &out.Data[0], nil
}

// ResolveIncident marks an incident resolved and returns the updated
// record.
func (c *Client) ResolveIncident(ctx context.Context, id int64) (*Incident, error) {
	var out struct {
		Message string     `json:"message"`
		Data    []Incident `json:"data"`
	}
	path := fmt.Sprintf("/api/incidents/%d/resolve", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("backend returned no incident data")
	}
	return &out.Data[0], nil
}

// EnrichIncident fetches third-party context for an incident under the
// 30 second client deadline. Partial reports are valid: failed upstream
// sources appear in the report's Errors map.
func (c *Client) EnrichIncident(ctx context.Context, id int64) (*EnrichmentReport, error) {
	ctx, cancel := ensureTimeout(ctx, enrichTimeout)
	defer cancel()

	var out EnrichmentReport
	path := fmt.Sprintf("/api/incidents/%d/enrich", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("enrichment timed out after %s: %w", enrichTimeout, err)
		}
		return nil, err
	}
	return &out, nil
}

// EscapeRoutes finds emergency facilities near a coordinate.
func (c *Client) EscapeRoutes(ctx context.Context, latitude, longitude float64) (*EscapeRoutePlan, error) {
	if latitude < -90 || latitude > 90 {
		return nil, fmt.Errorf("latitude must be between -90 and 90 degrees")
	}
	if longitude < -180 || longitude > 180 {
		return nil, fmt.Errorf("longitude must be between -180 and 180 degrees")
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	var out EscapeRoutePlan
	if err := c.do(ctx, http.MethodGet, "/api/escape-routes?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitFeedback sends a feedback entry. All fields are required.
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	if fb.Name == "" || fb.Email == "" || fb.Rating == "" || fb.Message == "" {
		return fmt.Errorf("all feedback fields are required")
	}
	return c.do(ctx, http.MethodPost, "/api/feedback", fb, nil)
}

// TestAuth probes the backend's credential check and returns the user
// the backend decoded from the attached token.
func (c *Client) TestAuth(ctx context.Context) (*AuthCheck, error) {
	var out struct {
		Message string    `json:"message"`
		User    AuthCheck `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/test-auth", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode backend response: %w", err)
		}
	}
	return nil
}

// ensureTimeout bounds ctx by timeout unless it already carries a
// deadline.
func ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
