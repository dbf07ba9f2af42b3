package authflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
	"go.uber.org/zap"
)

// Resolution is the outcome of a role lookup. Found is false when no
// user record has been provisioned yet, which is a valid transient
// state during account creation, not a failure.
type Resolution struct {
	Role  Role
	Name  string
	Found bool
}

// NameStash holds a display name staged locally during sign-up, to be
// written into the user record once the identity is confirmed and the
// record exists.
type NameStash interface {
	StagedName() (string, bool)
	ClearStagedName()
}

type noopStash struct{}

func (noopStash) StagedName() (string, bool) { return "", false }
func (noopStash) ClearStagedName()           {}

// RoleResolver fetches the authorization role and profile name for an
// identity from the user-record directory.
type RoleResolver struct {
	dir   identity.Directory
	stash NameStash
	log   *zap.Logger
}

// ResolverOption mutates RoleResolver construction.
type ResolverOption func(*RoleResolver)

// WithNameStash attaches a staged-name source for the best-effort
// write-back on first resolution.
func WithNameStash(stash NameStash) ResolverOption {
	return func(r *RoleResolver) { r.stash = stash }
}

// WithResolverLogger attaches a structured logger.
func WithResolverLogger(log *zap.Logger) ResolverOption {
	return func(r *RoleResolver) { r.log = log }
}

// NewRoleResolver creates a resolver backed by dir.
func NewRoleResolver(dir identity.Directory, opts ...ResolverOption) *RoleResolver {
	r := &RoleResolver{
		dir:   dir,
		stash: noopStash{},
		log:   zap.NewNop(),
	}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Resolve looks up the record for ident. A missing record yields
// {Found: false} with a nil error; only a failed lookup is an error,
// wrapped as ErrRoleLookupFailed.
//
// Side effect, best effort and idempotent: when a staged display name
// exists and the record has none yet, the staged name is written into
// the record. A failed write is logged and never fails the resolution;
// the staged name is kept so the next resolution retries it.
func (r *RoleResolver) Resolve(ctx context.Context, ident identity.Identity) (Resolution, error) {
	rec, err := r.dir.Lookup(ctx, ident.ID)
	if errors.Is(err, identity.ErrRecordNotFound) {
		r.log.Info("user record not provisioned yet", zap.String("identity_id", ident.ID))
		return Resolution{}, nil
	}
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %v", ErrRoleLookupFailed, err)
	}

	res := Resolution{
		Role:  Role(rec.Role),
		Name:  rec.Name,
		Found: true,
	}

	if staged, ok := r.stash.StagedName(); ok && rec.Name == "" {
		if err := r.dir.SetName(ctx, ident.ID, staged); err != nil {
			r.log.Warn("staged name write-back failed",
				zap.String("identity_id", ident.ID),
				zap.Error(err))
		} else {
			res.Name = staged
			r.stash.ClearStagedName()
		}
	}

	return res, nil
}
