package authflow

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "id-1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func TestTokenSourcePrefersStore(t *testing.T) {
	p := newFakeProvider()
	s := NewStore()
	s.Set(signedToken(t, time.Now().Add(time.Hour)), RoleUser, nil)

	tok, err := NewSessionTokenSource(s, p, nil).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if want, _ := s.Token(); tok.AccessToken != want {
		t.Fatalf("token = %q, want the store token", tok.AccessToken)
	}
	if p.sessionPolls != 0 {
		t.Fatal("a fresh store token must not trigger a provider query")
	}
}

func TestTokenSourceFallsBackToProviderWhenStoreEmpty(t *testing.T) {
	p := newFakeProvider()
	p.session = testSession("tok-live")
	s := NewStore()

	tok, err := NewSessionTokenSource(s, p, nil).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "tok-live" {
		t.Fatalf("token = %q, want the live provider session token", tok.AccessToken)
	}
}

func TestTokenSourceTreatsNearExpiryAsMiss(t *testing.T) {
	p := newFakeProvider()
	p.session = testSession("tok-live")
	s := NewStore()
	s.Set(signedToken(t, time.Now().Add(10*time.Second)), RoleUser, nil)

	tok, err := NewSessionTokenSource(s, p, nil).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "tok-live" {
		t.Fatalf("token = %q, want fallback past the near-expiry cached token", tok.AccessToken)
	}
}

func TestTokenSourceTrustsRecentOpaqueToken(t *testing.T) {
	p := newFakeProvider()
	s := NewStore()
	s.Set("opaque-token", RoleUser, nil)

	tok, err := NewSessionTokenSource(s, p, nil).Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "opaque-token" {
		t.Fatalf("token = %q, want the recent opaque store token", tok.AccessToken)
	}
}

func TestTokenSourceAgesOutOpaqueToken(t *testing.T) {
	p := newFakeProvider()
	p.session = testSession("tok-live")
	s := NewStore()
	s.Set("opaque-token", RoleUser, nil)

	ts := NewSessionTokenSource(s, p, nil)
	ts.now = func() time.Time { return time.Now().Add(10 * time.Minute) }

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.AccessToken != "tok-live" {
		t.Fatalf("token = %q, want fallback past the aged opaque token", tok.AccessToken)
	}
}

func TestTokenSourceNoTokenAnywhere(t *testing.T) {
	_, err := NewSessionTokenSource(NewStore(), newFakeProvider(), nil).Token()
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("err = %v, want ErrNoToken", err)
	}
}

type captureTripper struct {
	req *http.Request
}

func (c *captureTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	c.req = req
	return &http.Response{StatusCode: http.StatusOK, Request: req, Body: http.NoBody}, nil
}

func TestTransportAttachesBearer(t *testing.T) {
	s := NewStore()
	s.Set(signedToken(t, time.Now().Add(time.Hour)), RoleUser, nil)
	base := &captureTripper{}
	tr := &Transport{Base: base, Source: NewSessionTokenSource(s, newFakeProvider(), nil)}

	req, _ := http.NewRequest(http.MethodGet, "http://backend.test/incidents", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	want, _ := s.Token()
	if got := base.req.Header.Get("Authorization"); got != "Bearer "+want {
		t.Fatalf("Authorization = %q, want the bearer credential", got)
	}
	if base.req.Header.Get("X-Request-Id") == "" {
		t.Fatal("X-Request-Id must be set on every outbound request")
	}
	if req.Header.Get("Authorization") != "" {
		t.Fatal("the caller's request must not be mutated")
	}
}

func TestTransportProceedsUnauthenticatedWithoutToken(t *testing.T) {
	base := &captureTripper{}
	tr := &Transport{Base: base, Source: NewSessionTokenSource(NewStore(), newFakeProvider(), nil)}

	req, _ := http.NewRequest(http.MethodGet, "http://backend.test/incidents", nil)
	resp, err := tr.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want the request forwarded as-is", resp.StatusCode)
	}
	if base.req.Header.Get("Authorization") != "" {
		t.Fatal("no credential must be attached when none is available")
	}
}
