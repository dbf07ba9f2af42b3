package authflow

import (
	"context"
	"errors"
	"testing"

	"github.com/Sarvesh5273/PhantomOps/pkg/identity"
)

func TestResolveFoundRecord(t *testing.T) {
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Name: "Dana", Role: "admin"}

	res, err := NewRoleResolver(d).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Role != RoleAdmin || res.Name != "Dana" {
		t.Fatalf("resolution = %+v, want found admin Dana", res)
	}
}

func TestResolveAbsentRecordIsNotAnError(t *testing.T) {
	res, err := NewRoleResolver(newFakeDirectory()).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Found {
		t.Fatal("absent record must resolve as not found, not as an error")
	}
	if res.Role.Known() {
		t.Fatalf("role = %q, want pending", res.Role)
	}
}

func TestResolveLookupFailure(t *testing.T) {
	d := newFakeDirectory()
	d.lookupErr = errors.New("directory down")

	_, err := NewRoleResolver(d).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if !errors.Is(err, ErrRoleLookupFailed) {
		t.Fatalf("err = %v, want ErrRoleLookupFailed", err)
	}
}

func TestResolveStagedNameWriteBack(t *testing.T) {
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "user"}
	stash := &fakeStash{name: "Dana"}

	res, err := NewRoleResolver(d, WithNameStash(stash)).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Name != "Dana" {
		t.Fatalf("name = %q, want staged name applied", res.Name)
	}
	if d.records["id-1"].Name != "Dana" {
		t.Fatalf("record name = %q, want Dana written back", d.records["id-1"].Name)
	}
	if stash.clears != 1 {
		t.Fatalf("stash clears = %d, want 1", stash.clears)
	}
}

func TestResolveStagedNameSkippedWhenRecordNamed(t *testing.T) {
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Name: "Existing", Role: "user"}
	stash := &fakeStash{name: "Dana"}

	res, err := NewRoleResolver(d, WithNameStash(stash)).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Name != "Existing" {
		t.Fatalf("name = %q, want the record's existing name", res.Name)
	}
	if d.setNames != 0 {
		t.Fatalf("set-name calls = %d, want 0", d.setNames)
	}
	if stash.clears != 0 {
		t.Fatal("stash must survive when no write-back happened")
	}
}

func TestResolveStagedNameWriteBackFailureIsNonFatal(t *testing.T) {
	d := newFakeDirectory()
	d.records["id-1"] = &identity.UserRecord{ID: "id-1", Role: "user"}
	d.setNameErr = errors.New("directory write down")
	stash := &fakeStash{name: "Dana"}

	res, err := NewRoleResolver(d, WithNameStash(stash)).Resolve(context.Background(), identity.Identity{ID: "id-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !res.Found || res.Role != RoleUser {
		t.Fatalf("resolution = %+v, want found user despite failed write-back", res)
	}
	if name, ok := stash.StagedName(); !ok || name != "Dana" {
		t.Fatal("staged name must be kept for the next resolution to retry")
	}
}
