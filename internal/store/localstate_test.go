package store

import (
	"context"
	"testing"

	"taskdeck/internal/model"
)

func TestSessionRoundTripKeepsToken(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	in := model.Session{
		Username:    "ada",
		DisplayName: "Ada L.",
		Email:       "ada@example.com",
		Role:        model.RoleAdmin,
		Phone:       "555",
		Token:       "jwt-789",
	}
	if err := s.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, ok, err := s.LoadSession(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadSession: %v %v", ok, err)
	}
	// Token is json:"-" on the model; the store must persist it anyway.
	if got.Token != "jwt-789" {
		t.Fatalf("Token = %q, want jwt-789", got.Token)
	}
	if got != in {
		t.Fatalf("round trip changed the session:\n got %+v\nwant %+v", got, in)
	}
}

func TestLoadSessionMissing(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	_, ok, err := s.LoadSession(context.Background())
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if ok {
		t.Fatalf("found a session in an empty store")
	}
}

func TestClearSession(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.SaveSession(ctx, model.Session{Username: "ada", Role: model.RoleUser, Token: "x"}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	if _, ok, _ := s.LoadSession(ctx); ok {
		t.Fatalf("session survived ClearSession")
	}
}

func TestCorruptedSessionTreatedAsMissing(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.put(ctx, "session", "{not json"); err != nil {
		t.Fatalf("put: %v", err)
	}
	_, ok, err := s.LoadSession(ctx)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	if ok {
		t.Fatalf("corrupted session should read as missing")
	}
}

func TestUIStateRoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	in := &UIState{View: "task-details", SelectedTaskID: "t42", StatusFilter: "TODO", SortKey: "title"}
	if err := s.SaveUIState(ctx, in); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}

	got, err := s.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if got.Version != 1 {
		t.Fatalf("Version = %d, want 1", got.Version)
	}
	if got.View != "task-details" || got.SelectedTaskID != "t42" || got.StatusFilter != "TODO" || got.SortKey != "title" {
		t.Fatalf("got %+v", got)
	}
}

func TestEmptyDirDisablesPersistence(t *testing.T) {
	s := Store{}
	ctx := context.Background()

	if err := s.SaveSession(ctx, model.Session{Username: "ada"}); err == nil {
		t.Fatalf("SaveSession without a dir should fail")
	}
	if err := s.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession without a dir should be a no-op: %v", err)
	}
	if _, err := s.LoadUIState(ctx); err != nil {
		t.Fatalf("LoadUIState without a dir should yield defaults: %v", err)
	}
}
