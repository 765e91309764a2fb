// Package session owns the authenticated identity. No other component
// mutates it; dependents subscribe to change/logout notifications.
package session

import (
	"context"
	"regexp"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/apperr"
	"taskdeck/internal/model"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minLoginPassword = 6

type Store struct {
	client api.Client

	current *model.Session

	onChange []func(model.Session)
	onLogout []func()
}

func NewStore(client api.Client) *Store {
	return &Store{client: client}
}

// Current returns the active session, or false when signed out.
func (s *Store) Current() (model.Session, bool) {
	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

func (s *Store) Role() model.Role {
	if s.current == nil {
		return ""
	}
	return s.current.Role
}

// SignedRole reports the current role, or false while signed out. It is the
// shape the nav machine and the accounts store expect for their guards.
func (s *Store) SignedRole() (model.Role, bool) {
	if s.current == nil {
		return "", false
	}
	return s.current.Role, true
}

// OnChange registers a callback fired after every successful
// authenticate/updateProfile, so derived views can recompute.
func (s *Store) OnChange(fn func(model.Session)) {
	s.onChange = append(s.onChange, fn)
}

// OnLogout registers a callback fired when the session ends. Role-dependent
// caches (task collection, account lists) evict themselves here.
func (s *Store) OnLogout(fn func()) {
	s.onLogout = append(s.onLogout, fn)
}

// ValidateCredentials applies the local pre-flight login rules.
func ValidateCredentials(creds model.Credentials) error {
	if !emailRe.MatchString(strings.TrimSpace(creds.Email)) {
		return apperr.Validation("email", "enter a valid email")
	}
	if len(creds.Password) < minLoginPassword {
		return apperr.Validation("password", "password must be at least 6 characters")
	}
	return nil
}

// Authenticate validates credentials locally, then asks the remote service.
// On success the previous session, if any, is replaced entirely; on failure
// it is left untouched.
func (s *Store) Authenticate(ctx context.Context, creds model.Credentials) (model.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := ValidateCredentials(creds); err != nil {
		return model.Session{}, err
	}
	if creds.Role == "" {
		creds.Role = model.RoleUser
	}

	sess, err := s.client.Login(ctx, creds)
	if err != nil {
		return model.Session{}, err
	}
	s.install(sess)
	return sess, nil
}

// Register creates a new account and signs it in.
func (s *Store) Register(ctx context.Context, reg model.Registration, confirmPassword string) (model.Session, error) {
	if err := ValidateRegistration(reg, confirmPassword); err != nil {
		return model.Session{}, err
	}
	sess, err := s.client.Register(ctx, reg)
	if err != nil {
		return model.Session{}, err
	}
	s.install(sess)
	return sess, nil
}

// Resume installs a previously persisted session without contacting the
// remote service. Used at startup when a remembered token exists.
func (s *Store) Resume(sess model.Session) {
	if strings.TrimSpace(sess.Username) == "" {
		return
	}
	s.install(sess)
}

// UpdateProfile merges the partial update into the profile fields only.
// Role and username never change through this path.
func (s *Store) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.Session, error) {
	if s.current == nil {
		return model.Session{}, apperr.AuthError{Reason: "not signed in"}
	}
	if update.Email != nil && !emailRe.MatchString(strings.TrimSpace(*update.Email)) {
		return model.Session{}, apperr.Validation("email", "enter a valid email")
	}

	confirmed, err := s.client.UpdateProfile(ctx, update)
	if err != nil {
		return model.Session{}, err
	}
	return s.ApplyProfile(confirmed), nil
}

// ApplyProfile re-syncs profile fields from a confirmed record; identity
// (username, role) stays as it was at authentication.
func (s *Store) ApplyProfile(confirmed model.Session) model.Session {
	if s.current == nil {
		return model.Session{}
	}
	next := *s.current
	if v := strings.TrimSpace(confirmed.DisplayName); v != "" {
		next.DisplayName = v
	}
	if v := strings.TrimSpace(confirmed.Email); v != "" {
		next.Email = v
	}
	next.Phone = confirmed.Phone
	next.StudentNumber = confirmed.StudentNumber
	next.IDNumber = confirmed.IDNumber

	s.install(next)
	return next
}

// EndSession clears the session and notifies dependents to evict
// role-dependent cached data.
func (s *Store) EndSession() {
	if s.current == nil {
		return
	}
	s.current = nil
	for _, fn := range s.onLogout {
		fn()
	}
}

func (s *Store) install(sess model.Session) {
	s.current = &sess
	for _, fn := range s.onChange {
		fn(sess)
	}
}

// ValidateRegistration applies the local pre-flight rules: name, valid
// email, password of 8+ with upper/lower/digit, matching confirmation.
func ValidateRegistration(reg model.Registration, confirmPassword string) error {
	if strings.TrimSpace(reg.Name) == "" {
		return apperr.Validation("name", "name is required")
	}
	if strings.TrimSpace(reg.Username) == "" {
		return apperr.Validation("username", "username is required")
	}
	if !emailRe.MatchString(strings.TrimSpace(reg.Email)) {
		return apperr.Validation("email", "enter a valid email")
	}
	if err := validatePassword(reg.Password); err != nil {
		return err
	}
	if reg.Password != confirmPassword {
		return apperr.Validation("confirmPassword", "passwords do not match")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < 8 {
		return apperr.Validation("password", "password must be 8+ characters")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return apperr.Validation("password", "password needs an uppercase letter, a lowercase letter and a digit")
	}
	return nil
}
