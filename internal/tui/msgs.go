package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/model"
	"taskdeck/internal/mutate"
)

// Remote calls run as commands and come back as these messages. Each fetch
// carries the sequence number it was issued under; responses bearing a stale
// sequence (superseded fetch, or logout in between) are dropped on arrival.

type tasksLoadedMsg struct {
	seq   uint64
	tasks []model.Task
	err   error
}

type loginDoneMsg struct {
	sess model.Session
	err  error
}

type registerDoneMsg struct {
	sess model.Session
	err  error
}

type adminRegisteredMsg struct {
	admin model.AdminAccount
	err   error
}

type profileSavedMsg struct {
	sess model.Session
	err  error
}

type createDoneMsg struct {
	ticket    mutate.Ticket
	confirmed model.Task
	err       error
}

type updateDoneMsg struct {
	ticket    mutate.Ticket
	confirmed model.Task
	err       error
}

type deleteDoneMsg struct {
	ticket mutate.Ticket
	err    error
}

type usersLoadedMsg struct {
	seq   uint64
	users []model.UserAccount
	err   error
}

type adminsLoadedMsg struct {
	seq    uint64
	admins []model.AdminAccount
	err    error
}

type userSavedMsg struct {
	user model.UserAccount
	err  error
}

type userRemovedMsg struct {
	id  string
	err error
}

type adminSavedMsg struct {
	admin model.AdminAccount
	err   error
}

type adminRemovedMsg struct {
	id  string
	err error
}

func (m appModel) requestCtx() (context.Context, context.CancelFunc) {
	timeout := 10 * time.Second
	if m.deps.Config != nil && m.deps.Config.RequestTimeout > 0 {
		timeout = m.deps.Config.RequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (m appModel) loadTasksCmd(seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		tasks, err := m.deps.Client.ListTasks(ctx)
		return tasksLoadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func (m appModel) loginCmd(creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		sess, err := m.deps.Client.Login(ctx, creds)
		return loginDoneMsg{sess: sess, err: err}
	}
}

func (m appModel) registerCmd(reg model.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		sess, err := m.deps.Client.Register(ctx, reg)
		return registerDoneMsg{sess: sess, err: err}
	}
}

func (m appModel) registerAdminCmd(reg model.AdminRegistration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		admin, err := m.deps.Client.RegisterAdmin(ctx, reg)
		return adminRegisteredMsg{admin: admin, err: err}
	}
}

func (m appModel) saveProfileCmd(update model.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		sess, err := m.deps.Client.UpdateProfile(ctx, update)
		return profileSavedMsg{sess: sess, err: err}
	}
}

func (m appModel) createTaskCmd(t mutate.Ticket, draft model.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		confirmed, err := m.deps.Client.CreateTask(ctx, draft)
		return createDoneMsg{ticket: t, confirmed: confirmed, err: err}
	}
}

func (m appModel) updateTaskCmd(t mutate.Ticket, task model.Task) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		confirmed, err := m.deps.Client.UpdateTask(ctx, task)
		return updateDoneMsg{ticket: t, confirmed: confirmed, err: err}
	}
}

func (m appModel) deleteTaskCmd(t mutate.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		err := m.deps.Client.DeleteTask(ctx, t.TaskID)
		return deleteDoneMsg{ticket: t, err: err}
	}
}

func (m appModel) loadUsersCmd(seq uint64, keyword string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		var (
			users []model.UserAccount
			err   error
		)
		if keyword == "" {
			users, err = m.deps.Client.ListUsers(ctx)
		} else {
			users, err = m.deps.Client.SearchUsers(ctx, keyword)
		}
		return usersLoadedMsg{seq: seq, users: users, err: err}
	}
}

func (m appModel) loadAdminsCmd(seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		admins, err := m.deps.Client.ListAdmins(ctx)
		return adminsLoadedMsg{seq: seq, admins: admins, err: err}
	}
}

func (m appModel) toggleUserCmd(id string, active bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		user, err := m.deps.Client.SetUserActive(ctx, id, active)
		return userSavedMsg{user: user, err: err}
	}
}

func (m appModel) deleteUserCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		err := m.deps.Client.DeleteUser(ctx, id)
		return userRemovedMsg{id: id, err: err}
	}
}

func (m appModel) toggleAdminCmd(id string, active bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		admin, err := m.deps.Client.SetAdminActive(ctx, id, active)
		return adminSavedMsg{admin: admin, err: err}
	}
}

func (m appModel) deleteAdminCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestCtx()
		defer cancel()
		err := m.deps.Client.DeleteAdmin(ctx, id)
		return adminRemovedMsg{id: id, err: err}
	}
}
