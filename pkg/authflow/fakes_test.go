package authflow

import (
	"context"
	"sync"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
)

// fakeProvider is an in-memory identity.Provider with controllable
// session-hydration lag.
type fakeProvider struct {
	mu sync.Mutex

	signInErr error

	session      *identity.Session
	user         *identity.Identity
	getUserErr   error
	hydrateAfter int
	sessionPolls int
	signOuts     int

	subs    map[int]func(identity.Change)
	nextSub int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{subs: make(map[int]func(identity.Change)), hydrateAfter: 1}
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	if f.session == nil {
		return nil, identity.ErrInvalidCredentials
	}
	cp := *f.session
	return &cp, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, redirectTo string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *f.user
	return &cp, nil
}

func (f *fakeProvider) GetSession(ctx context.Context) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessionPolls++
	if f.session == nil || f.sessionPolls < f.hydrateAfter {
		return nil, nil
	}
	cp := *f.session
	return &cp, nil
}

func (f *fakeProvider) GetUser(ctx context.Context) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getUserErr != nil {
		return nil, f.getUserErr
	}
	cp := *f.user
	return &cp, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.session = nil
	f.signOuts++
	fns := f.callbacks()
	f.mu.Unlock()
	for _, fn := range fns {
		fn(identity.Change{Event: identity.ChangeSignedOut})
	}
	return nil
}

func (f *fakeProvider) OnAuthChange(fn func(identity.Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

func (f *fakeProvider) emit(ch identity.Change) {
	f.mu.Lock()
	fns := f.callbacks()
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ch)
	}
}

// callers must hold f.mu
func (f *fakeProvider) callbacks() []func(identity.Change) {
	fns := make([]func(identity.Change), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	return fns
}

// fakeDirectory is an in-memory identity.Directory.
type fakeDirectory struct {
	mu         sync.Mutex
	records    map[string]*identity.UserRecord
	lookupErr  error
	setNameErr error
	setNames   int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{records: make(map[string]*identity.UserRecord)}
}

func (d *fakeDirectory) Lookup(ctx context.Context, id string) (*identity.UserRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookupErr != nil {
		return nil, d.lookupErr
	}
	rec, ok := d.records[id]
	if !ok {
		return nil, identity.ErrRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (d *fakeDirectory) SetName(ctx context.Context, id, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setNames++
	if d.setNameErr != nil {
		return d.setNameErr
	}
	if rec, ok := d.records[id]; ok {
		rec.Name = name
	}
	return nil
}

// fakeStash is an in-memory NameStash.
type fakeStash struct {
	mu     sync.Mutex
	name   string
	clears int
}

func (s *fakeStash) StagedName() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.name != ""
}

func (s *fakeStash) ClearStagedName() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = ""
	s.clears++
}
