package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"taskdeck/internal/store"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user":  map[string]any{"username": "ada", "email": "ada@example.com", "role": "user"},
			"token": "jwt-secret",
		})
	})
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"username": "ada", "email": "ada@example.com", "role": "user", "phone": "555-0101",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCommand(t *testing.T, srv *httptest.Server, cfgPath string, args ...string) error {
	t.Helper()
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(args, "--config", cfgPath, "--server", srv.URL))
	return cmd.Execute()
}

func loginArgs() []string {
	return []string{"login", "--email", "ada@example.com", "--password", "secret1"}
}

func TestLoginPersistsSessionByDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)
	srv := newAuthServer(t)

	if err := runCommand(t, srv, filepath.Join(dir, "config.yaml"), loginArgs()...); err != nil {
		t.Fatalf("login: %v", err)
	}

	sess, ok, err := store.Store{Dir: dir}.LoadSession(t.Context())
	if err != nil || !ok {
		t.Fatalf("expected a persisted session; ok=%v err=%v", ok, err)
	}
	if sess.Token != "jwt-secret" {
		t.Fatalf("persisted token = %q", sess.Token)
	}
}

func TestLoginHonorsRememberSessionFalse(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("rememberSession: false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	srv := newAuthServer(t)

	if err := runCommand(t, srv, cfgPath, loginArgs()...); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, ok, _ := (store.Store{Dir: dir}).LoadSession(t.Context()); ok {
		t.Fatalf("rememberSession=false but the session was persisted")
	}
}

func TestLoginNoRememberFlag(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)
	srv := newAuthServer(t)

	args := append(loginArgs(), "--no-remember")
	if err := runCommand(t, srv, filepath.Join(dir, "config.yaml"), args...); err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, ok, _ := (store.Store{Dir: dir}).LoadSession(t.Context()); ok {
		t.Fatalf("--no-remember but the session was persisted")
	}
}

func TestProfileUpdateRefreshesPersistedSession(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKDECK_CONFIG_DIR", dir)
	cfgPath := filepath.Join(dir, "config.yaml")
	srv := newAuthServer(t)

	if err := runCommand(t, srv, cfgPath, loginArgs()...); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := runCommand(t, srv, cfgPath, "profile", "update", "--phone", "555-0101"); err != nil {
		t.Fatalf("profile update: %v", err)
	}

	sess, ok, err := store.Store{Dir: dir}.LoadSession(t.Context())
	if err != nil || !ok {
		t.Fatalf("expected a persisted session; ok=%v err=%v", ok, err)
	}
	if sess.Phone != "555-0101" {
		t.Fatalf("persisted phone = %q", sess.Phone)
	}
	if sess.Token != "jwt-secret" {
		t.Fatalf("token lost on profile refresh: %q", sess.Token)
	}
}
