// Package accounts caches the admin-visible user and admin lists. The
// remote service owns both; every mutation here re-syncs the cached entry
// from the service's response rather than trusting the local edit.
package accounts

import (
	"context"
	"strings"

	"taskdeck/internal/api"
	"taskdeck/internal/apperr"
	"taskdeck/internal/model"
)

// roleCheck reports the current session role; accounts operations require
// admin.
type roleCheck func() (model.Role, bool)

type Store struct {
	client api.Client
	role   roleCheck

	users  []model.UserAccount
	admins []model.AdminAccount
}

func NewStore(client api.Client, role roleCheck) *Store {
	return &Store{client: client, role: role}
}

func (s *Store) requireAdmin(target string) error {
	role, ok := model.Role(""), false
	if s.role != nil {
		role, ok = s.role()
	}
	if !ok || role != model.RoleAdmin {
		r := string(role)
		if !ok {
			r = "anonymous"
		}
		return apperr.AuthorizationError{Role: r, Required: string(model.RoleAdmin), Target: target}
	}
	return nil
}

func (s *Store) LoadUsers(ctx context.Context) ([]model.UserAccount, error) {
	if err := s.requireAdmin("user accounts"); err != nil {
		return nil, err
	}
	users, err := s.client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.users = users
	return s.Users(), nil
}

func (s *Store) LoadAdmins(ctx context.Context) ([]model.AdminAccount, error) {
	if err := s.requireAdmin("admin accounts"); err != nil {
		return nil, err
	}
	admins, err := s.client.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	s.admins = admins
	return s.Admins(), nil
}

func (s *Store) Users() []model.UserAccount {
	out := make([]model.UserAccount, len(s.users))
	copy(out, s.users)
	return out
}

func (s *Store) Admins() []model.AdminAccount {
	out := make([]model.AdminAccount, len(s.admins))
	copy(out, s.admins)
	return out
}

// SearchUsers asks the service, falling back to a local filter over the
// cache when the keyword is empty.
func (s *Store) SearchUsers(ctx context.Context, keyword string) ([]model.UserAccount, error) {
	if err := s.requireAdmin("user accounts"); err != nil {
		return nil, err
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.Users(), nil
	}
	return s.client.SearchUsers(ctx, keyword)
}

// FilterUsers is the local, offline keyword filter used while typing.
func (s *Store) FilterUsers(keyword string) []model.UserAccount {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return s.Users()
	}
	var out []model.UserAccount
	for _, u := range s.users {
		hay := strings.ToLower(strings.Join([]string{u.Name, u.Surname, u.Email, u.Username}, " "))
		if strings.Contains(hay, keyword) {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) FilterAdmins(keyword string) []model.AdminAccount {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return s.Admins()
	}
	var out []model.AdminAccount
	for _, a := range s.admins {
		hay := strings.ToLower(strings.Join([]string{a.Username, a.Email, a.FirstName, a.LastName}, " "))
		if strings.Contains(hay, keyword) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) UpdateUser(ctx context.Context, u model.UserAccount) (model.UserAccount, error) {
	if err := s.requireAdmin("user accounts"); err != nil {
		return model.UserAccount{}, err
	}
	confirmed, err := s.client.UpdateUser(ctx, u)
	if err != nil {
		return model.UserAccount{}, err
	}
	s.replaceUser(confirmed)
	return confirmed, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.requireAdmin("user accounts"); err != nil {
		return err
	}
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.RemoveUserLocal(id)
	return nil
}

func (s *Store) ToggleUserActive(ctx context.Context, id string) (model.UserAccount, error) {
	if err := s.requireAdmin("user accounts"); err != nil {
		return model.UserAccount{}, err
	}
	cur, ok := s.findUser(id)
	if !ok {
		return model.UserAccount{}, apperr.Validation("user", "unknown user: "+id)
	}
	confirmed, err := s.client.SetUserActive(ctx, id, !cur.Active)
	if err != nil {
		return model.UserAccount{}, err
	}
	s.replaceUser(confirmed)
	return confirmed, nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	if err := s.requireAdmin("admin accounts"); err != nil {
		return err
	}
	if err := s.client.DeleteAdmin(ctx, id); err != nil {
		return err
	}
	s.RemoveAdminLocal(id)
	return nil
}

func (s *Store) ToggleAdminActive(ctx context.Context, id string) (model.AdminAccount, error) {
	if err := s.requireAdmin("admin accounts"); err != nil {
		return model.AdminAccount{}, err
	}
	var cur *model.AdminAccount
	for i := range s.admins {
		if s.admins[i].ID == id {
			cur = &s.admins[i]
			break
		}
	}
	if cur == nil {
		return model.AdminAccount{}, apperr.Validation("admin", "unknown admin: "+id)
	}
	confirmed, err := s.client.SetAdminActive(ctx, id, !cur.Active)
	if err != nil {
		return model.AdminAccount{}, err
	}
	s.ReplaceAdminLocal(confirmed)
	return confirmed, nil
}

// SetUsers installs a freshly loaded user list. The TUI fetches in a
// command and applies here on its update loop.
func (s *Store) SetUsers(users []model.UserAccount) { s.users = users }

func (s *Store) SetAdmins(admins []model.AdminAccount) { s.admins = admins }

// ReplaceUserLocal reconciles one cached user from a confirmed record.
func (s *Store) ReplaceUserLocal(u model.UserAccount) { s.replaceUser(u) }

// RemoveUserLocal drops a user from the cache after a confirmed delete.
func (s *Store) RemoveUserLocal(id string) {
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

func (s *Store) ReplaceAdminLocal(a model.AdminAccount) {
	for i := range s.admins {
		if s.admins[i].ID == a.ID {
			s.admins[i] = a
			return
		}
	}
	s.admins = append(s.admins, a)
}

func (s *Store) RemoveAdminLocal(id string) {
	for i, a := range s.admins {
		if a.ID == id {
			s.admins = append(s.admins[:i], s.admins[i+1:]...)
			return
		}
	}
}

// Clear evicts both lists. The session store calls this on logout.
func (s *Store) Clear() {
	s.users = nil
	s.admins = nil
}

func (s *Store) findUser(id string) (model.UserAccount, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.UserAccount{}, false
}

func (s *Store) replaceUser(u model.UserAccount) {
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i] = u
			return
		}
	}
	s.users = append(s.users, u)
}
