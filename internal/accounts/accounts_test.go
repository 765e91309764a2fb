package accounts

import (
	"context"
	"errors"
	"testing"

	"taskdeck/internal/api"
	"taskdeck/internal/apperr"
	"taskdeck/internal/model"
)

type fakeClient struct {
	api.Client
	listUsersFn  func() ([]model.UserAccount, error)
	deleteUserFn func(id string) error
	setActiveFn  func(id string, active bool) (model.UserAccount, error)
}

func (f *fakeClient) ListUsers(context.Context) ([]model.UserAccount, error) {
	return f.listUsersFn()
}

func (f *fakeClient) DeleteUser(_ context.Context, id string) error {
	return f.deleteUserFn(id)
}

func (f *fakeClient) SetUserActive(_ context.Context, id string, active bool) (model.UserAccount, error) {
	return f.setActiveFn(id, active)
}

func asAdmin() (model.Role, bool) { return model.RoleAdmin, true }
func asUser() (model.Role, bool)  { return model.RoleUser, true }

func TestNonAdminRejectedFailFast(t *testing.T) {
	called := false
	client := &fakeClient{listUsersFn: func() ([]model.UserAccount, error) {
		called = true
		return nil, nil
	}}
	s := NewStore(client, asUser)

	_, err := s.LoadUsers(context.Background())
	var authz apperr.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("got %v, want AuthorizationError", err)
	}
	if called {
		t.Fatalf("remote call must not run for a non-admin")
	}
}

func TestAnonymousRejected(t *testing.T) {
	s := NewStore(&fakeClient{}, func() (model.Role, bool) { return "", false })
	err := s.DeleteUser(context.Background(), "u1")
	var authz apperr.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("got %v, want AuthorizationError", err)
	}
	if authz.Role != "anonymous" {
		t.Fatalf("Role = %q, want anonymous", authz.Role)
	}
}

func TestLoadAndFilterUsers(t *testing.T) {
	client := &fakeClient{listUsersFn: func() ([]model.UserAccount, error) {
		return []model.UserAccount{
			{ID: "1", Name: "Ada", Surname: "Lovelace", Email: "ada@example.com", Username: "ada", Active: true},
			{ID: "2", Name: "Grace", Surname: "Hopper", Email: "grace@example.com", Username: "ghopper", Active: true},
		}, nil
	}}
	s := NewStore(client, asAdmin)

	users, err := s.LoadUsers(context.Background())
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d", len(users))
	}

	got := s.FilterUsers("HOPPER")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("FilterUsers(HOPPER) = %+v", got)
	}
	if got := s.FilterUsers("  "); len(got) != 2 {
		t.Fatalf("blank keyword should return everyone, got %d", len(got))
	}
	if got := s.FilterUsers("zzz"); len(got) != 0 {
		t.Fatalf("no-match keyword returned %d users", len(got))
	}
}

func TestToggleUserActiveUsesServerResponse(t *testing.T) {
	client := &fakeClient{
		listUsersFn: func() ([]model.UserAccount, error) {
			return []model.UserAccount{{ID: "1", Username: "ada", Active: true}}, nil
		},
		setActiveFn: func(id string, active bool) (model.UserAccount, error) {
			if active {
				t.Fatalf("toggle of an active user must request active=false")
			}
			// The server is authoritative; it may normalize other fields too.
			return model.UserAccount{ID: "1", Username: "ada.l", Active: false}, nil
		},
	}
	s := NewStore(client, asAdmin)
	if _, err := s.LoadUsers(context.Background()); err != nil {
		t.Fatal(err)
	}

	got, err := s.ToggleUserActive(context.Background(), "1")
	if err != nil {
		t.Fatalf("ToggleUserActive: %v", err)
	}
	if got.Active || got.Username != "ada.l" {
		t.Fatalf("got %+v, want the server's record", got)
	}

	cached := s.Users()
	if cached[0].Username != "ada.l" {
		t.Fatalf("cache not re-synced from the response: %+v", cached[0])
	}
}

func TestDeleteUserRemovesFromCacheOnlyOnSuccess(t *testing.T) {
	fail := errors.New("409 conflict")
	client := &fakeClient{
		listUsersFn: func() ([]model.UserAccount, error) {
			return []model.UserAccount{{ID: "1", Username: "ada"}}, nil
		},
		deleteUserFn: func(id string) error { return fail },
	}
	s := NewStore(client, asAdmin)
	if _, err := s.LoadUsers(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteUser(context.Background(), "1"); !errors.Is(err, fail) {
		t.Fatalf("got %v", err)
	}
	if len(s.Users()) != 1 {
		t.Fatalf("failed delete evicted the cached user")
	}

	client.deleteUserFn = func(id string) error { return nil }
	if err := s.DeleteUser(context.Background(), "1"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if len(s.Users()) != 0 {
		t.Fatalf("confirmed delete left the user cached")
	}
}

func TestClearEvictsBothLists(t *testing.T) {
	s := NewStore(&fakeClient{}, asAdmin)
	s.SetUsers([]model.UserAccount{{ID: "1"}})
	s.SetAdmins([]model.AdminAccount{{ID: "a1"}})

	s.Clear()
	if len(s.Users()) != 0 || len(s.Admins()) != 0 {
		t.Fatalf("Clear left cached accounts")
	}
}

func TestReplaceAdminLocalUpsertsByID(t *testing.T) {
	s := NewStore(&fakeClient{}, asAdmin)
	s.SetAdmins([]model.AdminAccount{{ID: "a1", Username: "root", Active: true}})

	s.ReplaceAdminLocal(model.AdminAccount{ID: "a1", Username: "root", Active: false})
	if s.Admins()[0].Active {
		t.Fatalf("existing admin not replaced")
	}

	s.ReplaceAdminLocal(model.AdminAccount{ID: "a2", Username: "second"})
	if len(s.Admins()) != 2 {
		t.Fatalf("new admin not appended")
	}
}
