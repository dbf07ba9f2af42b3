package authflow

import (
	"context"
	"sync"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
	"go.uber.org/zap"
)

// ObserverState is the lifecycle observer's coarse state.
type ObserverState int32

const (
	StateUninitialized ObserverState = iota
	StateResolving
	StateReady
)

func (s ObserverState) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Observer is the top-level driver of steady-state session handling. It
// bootstraps from the provider's current session, subscribes to change
// notifications for the rest of the process lifetime, and keeps the
// credential store consistent: every notification re-derives the role
// and rewrites the full {token, role} pair; sign-out clears it entirely.
//
// Change handling is serialized and idempotent, so a notification
// arriving while an explicit Acquire is in flight can only leave the
// store one full pair behind, never inconsistent.
type Observer struct {
	provider identity.Provider
	resolver *RoleResolver
	store    *Store
	log      *zap.Logger

	mu          sync.Mutex
	state       ObserverState
	ctx         context.Context
	unsubscribe func()
}

// ObserverOption mutates Observer construction.
type ObserverOption func(*Observer)

// WithObserverLogger attaches a structured logger.
func WithObserverLogger(log *zap.Logger) ObserverOption {
	return func(o *Observer) { o.log = log }
}

// NewObserver creates an observer writing into store.
func NewObserver(provider identity.Provider, resolver *RoleResolver, store *Store, opts ...ObserverOption) *Observer {
	o := &Observer{
		provider: provider,
		resolver: resolver,
		store:    store,
		log:      zap.NewNop(),
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

// Start transitions Uninitialized -> Resolving, derives the current
// session and role, enters Ready, and subscribes to the provider's
// change stream. ctx bounds the lookups Start and later notifications
// perform; Close cancels the subscription.
func (o *Observer) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateUninitialized {
		o.mu.Unlock()
		return nil
	}
	o.state = StateResolving
	o.ctx = ctx
	o.mu.Unlock()

	sess, err := o.provider.GetSession(ctx)
	if err != nil {
		o.mu.Lock()
		o.state = StateUninitialized
		o.mu.Unlock()
		return err
	}
	o.apply(ctx, sess)

	o.mu.Lock()
	o.state = StateReady
	o.unsubscribe = o.provider.OnAuthChange(o.handleChange)
	o.mu.Unlock()
	return nil
}

// State returns the observer's current lifecycle state.
func (o *Observer) State() ObserverState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Close cancels the change-notification subscription. The credential
// store is left as-is; teardown of the store belongs to sign-out.
func (o *Observer) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.unsubscribe != nil {
		o.unsubscribe()
		o.unsubscribe = nil
	}
}

// handleChange re-enters Resolving, re-derives role and token from the
// notification, and re-enters Ready. Invoking it twice with the same
// notification leaves the store unchanged the second time.
func (o *Observer) handleChange(ch identity.Change) {
	o.mu.Lock()
	state := o.state
	ctx := o.ctx
	if state == StateUninitialized {
		o.mu.Unlock()
		return
	}
	o.state = StateResolving
	o.mu.Unlock()

	o.log.Debug("auth change notification", zap.String("event", string(ch.Event)))
	o.apply(ctx, ch.Session)

	o.mu.Lock()
	o.state = StateReady
	o.mu.Unlock()
}

// apply writes the store for the given session: a full clear when the
// session is gone, otherwise one atomic {token, role} pair write. A
// failed role lookup degrades to an absent role rather than failing the
// steady-state flow; the next notification corrects it.
func (o *Observer) apply(ctx context.Context, sess *identity.Session) {
	if sess == nil {
		o.store.Clear()
		return
	}

	role := Role("")
	res, err := o.resolver.Resolve(ctx, sess.Identity)
	switch {
	case err != nil:
		o.log.Warn("role resolution failed during session change", zap.Error(err))
	case !res.Found:
		o.log.Info("session present but role not yet available",
			zap.String("identity_id", sess.Identity.ID))
	default:
		role = res.Role
	}

	ident := sess.Identity
	o.store.Set(sess.AccessToken, role, &ident)
}
