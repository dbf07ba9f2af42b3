package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// HTTPProvider implements Provider against a token-endpoint style identity
// service. Sign-in is the OAuth2 password grant; the remaining operations
// are plain REST calls against the same base URL.
//
// The provider keeps a single in-process session cache and emits change
// notifications locally on its own sign-in, sign-out and restore
// transitions, mirroring how browser auth clients surface state changes.
type HTTPProvider struct {
	baseURL string
	http    *http.Client
	oauth   oauth2.Config
	log     *zap.Logger

	mu      sync.Mutex
	session *Session
	subs    map[int]func(Change)
	nextSub int
}

// ProviderOption mutates HTTPProvider construction.
type ProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the HTTP client used for provider calls.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *HTTPProvider) { p.http = client }
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) ProviderOption {
	return func(p *HTTPProvider) { p.log = log }
}

// NewHTTPProvider creates a provider client for the identity service at
// baseURL. clientID is the public (anonymous) API key the service expects
// on token requests.
func NewHTTPProvider(baseURL, clientID string, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		log:     zap.NewNop(),
		subs:    make(map[int]func(Change)),
		oauth: oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{TokenURL: baseURL + "/token"},
		},
	}
	for _, fn := range opts {
		fn(p)
	}
	return p
}

// SignIn exchanges an email/password pair for a session. A rejected pair
// maps to ErrInvalidCredentials; every other failure is returned as-is.
func (p *HTTPProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)

	tok, err := p.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && (rerr.Response.StatusCode == http.StatusBadRequest || rerr.Response.StatusCode == http.StatusUnauthorized) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, rerr.ErrorDescription)
		}
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}

	ident, err := p.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity after sign-in: %w", err)
	}

	sess := &Session{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
		Identity:    *ident,
	}

	p.mu.Lock()
	p.session = sess
	p.mu.Unlock()

	p.log.Debug("identity sign-in succeeded", zap.String("email", ident.Email))
	p.emit(Change{Event: ChangeSignedIn, Session: sess.clone()})
	return sess.clone(), nil
}

// SignUp registers a new identity. The account stays unconfirmed until the
// user follows the emailed verification link pointing at redirectTo.
func (p *HTTPProvider) SignUp(ctx context.Context, email, password, redirectTo string) (*Identity, error) {
	body := map[string]string{
		"email":       email,
		"password":    password,
		"redirect_to": redirectTo,
	}
	var ident Identity
	if err := p.doJSON(ctx, http.MethodPost, "/signup", "", body, &ident); err != nil {
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}
	return &ident, nil
}

// GetSession returns the current cached session, or (nil, nil) when none
// is active. Expired sessions are treated as absent.
func (p *HTTPProvider) GetSession(ctx context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.session == nil {
		return nil, nil
	}
	if !p.session.ExpiresAt.IsZero() && time.Now().After(p.session.ExpiresAt) {
		p.session = nil
		return nil, nil
	}
	return p.session.clone(), nil
}

// GetUser re-fetches the identity for the current session from the
// provider. Unlike GetSession this always performs a live call, so the
// returned confirmation state is current.
func (p *HTTPProvider) GetUser(ctx context.Context) (*Identity, error) {
	p.mu.Lock()
	token := ""
	if p.session != nil {
		token = p.session.AccessToken
	}
	p.mu.Unlock()
	if token == "" {
		return nil, errors.New("identity: no active session")
	}

	ident, err := p.fetchUser(ctx, token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.session != nil {
		p.session.Identity = *ident
	}
	p.mu.Unlock()
	return ident, nil
}

// SignOut revokes the session with the provider and clears the local
// cache. The cache is cleared and the sign-out notification emitted even
// when the revocation call fails, so no partially-authenticated state
// survives locally.
func (p *HTTPProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	token := ""
	if p.session != nil {
		token = p.session.AccessToken
	}
	p.session = nil
	p.mu.Unlock()

	p.emit(Change{Event: ChangeSignedOut})

	if token == "" {
		return nil
	}
	if err := p.doJSON(ctx, http.MethodPost, "/logout", token, nil, nil); err != nil {
		p.log.Warn("sign-out revocation failed", zap.Error(err))
		return fmt.Errorf("sign-out failed: %w", err)
	}
	return nil
}

// RestoreSession seeds the provider's cache from a previously persisted
// session, the warm-start path after a process restart. Expired sessions
// are ignored. A token-refresh notification is emitted so observers
// re-derive their state.
func (p *HTTPProvider) RestoreSession(sess *Session) {
	if sess == nil || sess.AccessToken == "" {
		return
	}
	if !sess.ExpiresAt.IsZero() && time.Now().After(sess.ExpiresAt) {
		return
	}
	p.mu.Lock()
	p.session = sess.clone()
	p.mu.Unlock()
	p.emit(Change{Event: ChangeTokenRefreshed, Session: sess.clone()})
}

// OnAuthChange registers fn for auth-state notifications and returns its
// unsubscribe handle. Callbacks run synchronously on the goroutine that
// triggered the change.
func (p *HTTPProvider) OnAuthChange(fn func(Change)) func() {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.subs, id)
		p.mu.Unlock()
	}
}

func (p *HTTPProvider) emit(ch Change) {
	p.mu.Lock()
	fns := make([]func(Change), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ch)
	}
}

func (p *HTTPProvider) fetchUser(ctx context.Context, token string) (*Identity, error) {
	var ident Identity
	if err := p.doJSON(ctx, http.MethodGet, "/user", token, nil, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}

func (p *HTTPProvider) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
			Msg   string `json:"msg"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		msg := payload.Error
		if msg == "" {
			msg = payload.Msg
		}
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return nil
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}
