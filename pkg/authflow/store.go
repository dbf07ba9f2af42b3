// Package authflow implements the client-side session and authorization
// core: the credential store, the login acquirer with bounded session
// polling, the role resolver, the lifecycle observer and the route guard.
//
// The credential store is the single shared mutable resource. Every
// writer writes the full {token, role} pair as a unit, so concurrent
// flows (bootstrap, explicit login, change notifications) can produce a
// stale pair but never an inconsistent one.
package authflow

import (
	"sync"
	"time"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
)

// Role is the authorization tier associated with an identity. The zero
// value means the role has not been resolved yet, which is a valid
// pending state and must not be read as either authorized or anonymous.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Known reports whether r is a resolved member of the closed role set.
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleUser
}

// Entry is one atomic credential-store snapshot.
type Entry struct {
	Token     string
	Role      Role
	Identity  *identity.Identity
	UpdatedAt time.Time
}

// SessionPresent reports whether a bearer token is held.
func (e Entry) SessionPresent() bool { return e.Token != "" }

// Store is the process-wide holder of the current bearer token and
// resolved role. It is scoped to the process lifetime: initialized at
// application start and cleared on sign-out.
type Store struct {
	mu    sync.RWMutex
	entry Entry
}

// NewStore returns an empty credential store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the full {token, role} pair in one write. Callers must
// never update one half of the pair without the other.
func (s *Store) Set(token string, role Role, ident *identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = Entry{
		Token:     token,
		Role:      role,
		Identity:  ident,
		UpdatedAt: time.Now(),
	}
}

// Clear drops both the token and the role. Used on sign-out; a partial
// clear is never valid.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry = Entry{}
}

// Snapshot returns a consistent copy of the current entry.
func (s *Store) Snapshot() Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry
}

// Token returns the current bearer token, if any.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry.Token, s.entry.Token != ""
}

// Role returns the current resolved role, if any.
func (s *Store) Role() (Role, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entry.Role, s.entry.Role.Known()
}
