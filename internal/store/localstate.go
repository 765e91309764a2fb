// Package store persists small client-side state between runs: the
// remembered session and the last TUI view. It is best effort; callers
// tolerate missing or invalid data.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"taskdeck/internal/model"
)

const stateFileName = "state.sqlite"

type Store struct {
	// Dir is the taskdeck config directory. Empty disables persistence.
	Dir string
}

// UIState restores the last screen on relaunch.
type UIState struct {
	Version int `json:"version"`

	// View is one of the navigation view names.
	View string `json:"view,omitempty"`

	// SelectedTaskID is used when View == "task-details".
	SelectedTaskID string `json:"selectedTaskId,omitempty"`

	// List parameters for the task-list view.
	StatusFilter string `json:"statusFilter,omitempty"`
	SortKey      string `json:"sortKey,omitempty"`
}

func (s Store) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, errors.New("no state dir")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(s.Dir, stateFileName))
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (s Store) get(ctx context.Context, key string) (string, error) {
	db, err := s.open(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func (s Store) put(ctx context.Context, key, value string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, key, value)
	return err
}

func (s Store) del(ctx context.Context, key string) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

// SaveSession remembers the session (including its token) for the next run.
func (s Store) SaveSession(ctx context.Context, sess model.Session) error {
	wire := struct {
		model.Session
		Token string `json:"token"`
	}{Session: sess, Token: sess.Token}
	b, err := json.Marshal(wire)
	if err != nil {
		return err
	}
	return s.put(ctx, "session", string(b))
}

// LoadSession returns the remembered session, or false when none exists.
func (s Store) LoadSession(ctx context.Context) (model.Session, bool, error) {
	raw, err := s.get(ctx, "session")
	if err != nil || strings.TrimSpace(raw) == "" {
		return model.Session{}, false, err
	}
	var wire struct {
		model.Session
		Token string `json:"token"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		// Corrupted state: treat as missing.
		return model.Session{}, false, nil
	}
	sess := wire.Session
	sess.Token = wire.Token
	if strings.TrimSpace(sess.Username) == "" {
		return model.Session{}, false, nil
	}
	return sess, true, nil
}

// ClearSession forgets the remembered session (logout).
func (s Store) ClearSession(ctx context.Context) error {
	if strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	return s.del(ctx, "session")
}

func (s Store) SaveUIState(ctx context.Context, st *UIState) error {
	if st == nil || strings.TrimSpace(s.Dir) == "" {
		return nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.put(ctx, "ui_state", string(b))
}

func (s Store) LoadUIState(ctx context.Context) (*UIState, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &UIState{Version: 1}, nil
	}
	raw, err := s.get(ctx, "ui_state")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return &UIState{Version: 1}, nil
	}
	var st UIState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return &UIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}
