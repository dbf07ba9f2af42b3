package authflow

import (
	"context"
	"testing"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
)

func TestObserverColdStart(t *testing.T) {
	p := newFakeProvider()
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(newFakeDirectory()), s)
	defer o.Close()

	if o.State() != StateUninitialized {
		t.Fatalf("state = %v, want uninitialized before Start", o.State())
	}
	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if o.State() != StateReady {
		t.Fatalf("state = %v, want ready", o.State())
	}
	if _, ok := s.Token(); ok {
		t.Fatal("store must stay empty on a cold start")
	}
}

func TestObserverWarmStart(t *testing.T) {
	p := newFakeProvider()
	p.session = testSession("tok-1")
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "admin"}
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	snap := s.Snapshot()
	if snap.Token != "tok-1" || snap.Role != RoleAdmin {
		t.Fatalf("store pair = {%q, %q}, want {tok-1, admin}", snap.Token, snap.Role)
	}
}

func TestObserverStartIsIdempotent(t *testing.T) {
	p := newFakeProvider()
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(newFakeDirectory()), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	polls := p.sessionPolls
	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("second Start: %v", err)
	}
	if p.sessionPolls != polls {
		t.Fatal("second Start must not re-query the provider")
	}
}

func TestObserverSignInNotification(t *testing.T) {
	p := newFakeProvider()
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "user"}
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p.emit(identity.Change{Event: identity.ChangeSignedIn, Session: testSession("tok-1")})

	snap := s.Snapshot()
	if snap.Token != "tok-1" || snap.Role != RoleUser {
		t.Fatalf("store pair = {%q, %q}, want {tok-1, user}", snap.Token, snap.Role)
	}
	if o.State() != StateReady {
		t.Fatalf("state = %v, want ready after the notification settles", o.State())
	}
}

func TestObserverDuplicateNotificationIsIdempotent(t *testing.T) {
	p := newFakeProvider()
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "user"}
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ch := identity.Change{Event: identity.ChangeSignedIn, Session: testSession("tok-1")}
	p.emit(ch)
	first := s.Snapshot()
	p.emit(ch)
	second := s.Snapshot()

	if second.Token != first.Token || second.Role != first.Role {
		t.Fatalf("pair changed on duplicate notification: {%q, %q} -> {%q, %q}",
			first.Token, first.Role, second.Token, second.Role)
	}
}

func TestObserverSignOutClearsStore(t *testing.T) {
	p := newFakeProvider()
	p.session = testSession("tok-1")
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "admin"}
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := s.Token(); !ok {
		t.Fatal("warm start must have populated the store")
	}

	if err := p.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}

	snap := s.Snapshot()
	if snap.SessionPresent() || snap.Role.Known() || snap.Identity != nil {
		t.Fatalf("store = %+v, want fully cleared after sign-out", snap)
	}
}

func TestObserverResolutionFailureDegradesToPendingRole(t *testing.T) {
	p := newFakeProvider()
	d := newFakeDirectory()
	d.lookupErr = context.DeadlineExceeded
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)
	defer o.Close()

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	p.emit(identity.Change{Event: identity.ChangeSignedIn, Session: testSession("tok-1")})

	snap := s.Snapshot()
	if snap.Token != "tok-1" {
		t.Fatalf("token = %q, want tok-1 kept despite the failed lookup", snap.Token)
	}
	if snap.Role.Known() {
		t.Fatalf("role = %q, want pending", snap.Role)
	}
}

func TestObserverCloseStopsNotifications(t *testing.T) {
	p := newFakeProvider()
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "user"}
	s := NewStore()
	o := NewObserver(p, NewRoleResolver(d), s)

	if err := o.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	o.Close()

	p.emit(identity.Change{Event: identity.ChangeSignedIn, Session: testSession("tok-1")})
	if _, ok := s.Token(); ok {
		t.Fatal("notification after Close must not reach the store")
	}
}
