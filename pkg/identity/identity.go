// Package identity wraps the external identity provider and the user-record
// directory consumed by the session core. The provider owns sessions and
// identities; this package only holds transient, read-only copies.
package identity

import (
	"context"
	"errors"
	"time"
)

// Identity is an opaque reference to a provider-owned user.
type Identity struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// Session is a live bearer credential plus the identity it belongs to.
// It is valid only while the provider considers it active.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Identity    Identity  `json:"identity"`
}

// ChangeEvent identifies the kind of auth-state transition a provider emits.
type ChangeEvent string

const (
	ChangeSignedIn       ChangeEvent = "SIGNED_IN"
	ChangeSignedOut      ChangeEvent = "SIGNED_OUT"
	ChangeTokenRefreshed ChangeEvent = "TOKEN_REFRESHED"
)

// Change is a single auth-state notification. Session is nil on sign-out.
type Change struct {
	Event   ChangeEvent
	Session *Session
}

// ErrInvalidCredentials is returned by SignIn when the provider rejects
// the supplied email/password pair.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// Provider is the identity-provider surface the session core consumes.
//
// GetSession returns (nil, nil) when no session is active: absence is a
// valid state, not an error. Callbacks registered via OnAuthChange run
// synchronously on the goroutine that triggered the change.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password, redirectTo string) (*Identity, error)
	GetSession(ctx context.Context) (*Session, error)
	GetUser(ctx context.Context) (*Identity, error)
	SignOut(ctx context.Context) error
	OnAuthChange(fn func(Change)) (unsubscribe func())
}

// UserRecord is the authorization record associated 1:1 with an identity.
type UserRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ErrRecordNotFound is returned by Lookup when no record exists for the
// identity yet. Provisioning may lag identity creation, so callers must
// treat this as a transient, valid condition.
var ErrRecordNotFound = errors.New("identity: user record not found")

// Directory looks up and updates user records keyed by identity id.
type Directory interface {
	Lookup(ctx context.Context, id string) (*UserRecord, error)
	SetName(ctx context.Context, id, name string) error
}
