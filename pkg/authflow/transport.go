package authflow

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by SessionTokenSource when neither the store
// nor the provider holds a usable token.
var ErrNoToken = errors.New("authflow: no access token available")

// Staleness bounds for cached tokens. A token within expirySkew of its
// exp claim, or an unparsable token older than maxUnverifiedAge, is
// treated as a store miss so the live provider query runs instead.
const (
	expirySkew       = 30 * time.Second
	maxUnverifiedAge = 5 * time.Minute
)

// SessionTokenSource resolves the current bearer token with two-tier
// precedence: the credential store first, then a live provider session
// query. The second tier covers the window right after a process start
// when the store is not yet populated but the provider cache is warm.
//
// It implements oauth2.TokenSource. It deliberately never consults the
// role half of the store: token propagation must not wait on role
// resolution.
type SessionTokenSource struct {
	store    *Store
	provider identity.Provider
	log      *zap.Logger
	now      func() time.Time
}

var _ oauth2.TokenSource = (*SessionTokenSource)(nil)

// NewSessionTokenSource creates a two-tier token source.
func NewSessionTokenSource(store *Store, provider identity.Provider, log *zap.Logger) *SessionTokenSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionTokenSource{
		store:    store,
		provider: provider,
		log:      log,
		now:      time.Now,
	}
}

// Token returns the current bearer token or ErrNoToken.
func (ts *SessionTokenSource) Token() (*oauth2.Token, error) {
	snap := ts.store.Snapshot()
	if snap.Token != "" && !ts.stale(snap) {
		return &oauth2.Token{AccessToken: snap.Token, TokenType: "Bearer"}, nil
	}

	sess, err := ts.provider.GetSession(context.Background())
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.AccessToken == "" {
		return nil, ErrNoToken
	}
	ts.log.Debug("token resolved from live provider session")
	return &oauth2.Token{AccessToken: sess.AccessToken, TokenType: "Bearer"}, nil
}

// stale applies the conservative re-validation rule: trust the cached
// token only while its exp claim is comfortably in the future. When the
// token carries no readable exp, fall back to the entry's age.
func (ts *SessionTokenSource) stale(e Entry) bool {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(e.Token, claims)
	if err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return ts.now().Add(expirySkew).After(exp.Time)
		}
	}
	return ts.now().Sub(e.UpdatedAt) > maxUnverifiedAge
}

// Transport attaches the current bearer credential to every outbound
// backend request. When no token can be resolved the request proceeds
// unauthenticated: the backend, not the client, is the enforcement
// point, and this layer's job is propagation only.
type Transport struct {
	// Base is the underlying round tripper. http.DefaultTransport when nil.
	Base http.RoundTripper
	// Source yields the bearer token for each request.
	Source oauth2.TokenSource
	// Log receives the non-fatal attachment-skipped notices.
	Log *zap.Logger
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	if out.Header.Get("X-Request-Id") == "" {
		out.Header.Set("X-Request-Id", uuid.NewString())
	}

	tok, err := t.Source.Token()
	if err != nil {
		t.logger().Debug("token attachment skipped, request proceeds unauthenticated",
			zap.String("url", req.URL.Path),
			zap.Error(err))
	} else {
		tok.SetAuthHeader(out)
	}

	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *zap.Logger {
	if t.Log != nil {
		return t.Log
	}
	return zap.NewNop()
}

// NewAuthenticatedClient returns an http.Client whose requests carry the
// current bearer credential resolved through the two-tier token source.
func NewAuthenticatedClient(store *Store, provider identity.Provider, log *zap.Logger) *http.Client {
	return &http.Client{
		Transport: &Transport{
			Source: NewSessionTokenSource(store, provider, log),
			Log:    log,
		},
		Timeout: 60 * time.Second,
	}
}
