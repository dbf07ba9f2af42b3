package authflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
	"go.uber.org/zap"
)

// Session establishment is asynchronous relative to the credential check
// succeeding: the provider may hydrate session state shortly after
// sign-in returns. The acquirer bridges that gap with short-interval
// polling under a hard attempt ceiling, never an unbounded loop.
const (
	sessionPollAttempts = 8
	sessionPollInterval = 150 * time.Millisecond
)

// AcquireResult is the composed outcome of a successful login.
type AcquireResult struct {
	Session identity.Session
	Role    Role
	Name    string
}

// Acquirer performs the explicit sign-in flow: credential check, bounded
// session polling, email-confirmation gate, role resolution, and one
// atomic credential-store write.
type Acquirer struct {
	provider identity.Provider
	resolver *RoleResolver
	store    *Store
	log      *zap.Logger

	pollAttempts int
	pollInterval time.Duration
}

// AcquirerOption mutates Acquirer construction.
type AcquirerOption func(*Acquirer)

// WithAcquirerLogger attaches a structured logger.
func WithAcquirerLogger(log *zap.Logger) AcquirerOption {
	return func(a *Acquirer) { a.log = log }
}

// NewAcquirer creates an acquirer writing into store.
func NewAcquirer(provider identity.Provider, resolver *RoleResolver, store *Store, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		provider:     provider,
		resolver:     resolver,
		store:        store,
		log:          zap.NewNop(),
		pollAttempts: sessionPollAttempts,
		pollInterval: sessionPollInterval,
	}
	for _, fn := range opts {
		fn(a)
	}
	return a
}

// Acquire signs in with the provider and converges on a fully resolved
// session before returning.
//
// Failure modes: ErrInvalidCredentials when the provider rejects the
// pair, ErrSessionNotReady when polling exhausts with no residual cached
// session, ErrEmailUnverified when the identity is unconfirmed (the
// just-established session is signed back out first), and
// ErrRoleLookupFailed when the record lookup itself fails. On success
// the {token, role} pair has been written to the store as a unit.
func (a *Acquirer) Acquire(ctx context.Context, email, password string) (*AcquireResult, error) {
	signed, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	sess, err := a.waitForSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = signed
	}

	ident, err := a.provider.GetUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch identity: %w", err)
	}

	// Hard rule: an unverified identity must never retain a live session
	// past this check, even momentarily.
	if !ident.EmailConfirmed {
		if err := a.provider.SignOut(ctx); err != nil {
			a.log.Warn("sign-out after unverified login failed", zap.Error(err))
		}
		return nil, ErrEmailUnverified
	}

	res, err := a.resolver.Resolve(ctx, *ident)
	if err != nil {
		return nil, err
	}
	if !res.Found {
		a.log.Warn("signed in without a provisioned user record",
			zap.String("identity_id", ident.ID))
	}

	a.store.Set(sess.AccessToken, res.Role, ident)
	a.log.Info("session acquired",
		zap.String("email", ident.Email),
		zap.String("role", string(res.Role)))

	return &AcquireResult{Session: *sess, Role: res.Role, Name: res.Name}, nil
}

// waitForSession polls session availability up to the attempt ceiling.
// Returns (nil, nil) when polling exhausts but residual cached session
// material exists; the caller then falls back to the sign-in session.
func (a *Acquirer) waitForSession(ctx context.Context) (*identity.Session, error) {
	for attempt := 1; attempt <= a.pollAttempts; attempt++ {
		sess, err := a.provider.GetSession(ctx)
		if err != nil {
			return nil, fmt.Errorf("session poll %d failed: %w", attempt, err)
		}
		if sess != nil {
			a.log.Debug("session hydrated", zap.Int("attempt", attempt))
			return sess, nil
		}
		if attempt == a.pollAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.pollInterval):
		}
	}

	if _, ok := a.store.Token(); ok {
		a.log.Warn("session polling exhausted, using residual cached session")
		return nil, nil
	}
	return nil, ErrSessionNotReady
}
