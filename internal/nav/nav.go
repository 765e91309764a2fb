// Package nav tracks the current view and its payload. Transitions are
// driven by user navigation and by completed domain operations; admin-only
// views are guarded by the session role.
package nav

import (
	"taskdeck/internal/apperr"
	"taskdeck/internal/model"
)

type View string

const (
	ViewLogin           View = "login"
	ViewRegister        View = "register"
	ViewAdminRegister   View = "admin-register"
	ViewDashboard       View = "dashboard"
	ViewTaskList        View = "task-list"
	ViewNewTask         View = "new-task"
	ViewTaskDetails     View = "task-details"
	ViewUserManagement  View = "user-management"
	ViewAdminManagement View = "admin-management"
	ViewProfile         View = "profile"
)

// adminOnly views fail fast with AuthorizationError for non-admin sessions.
var adminOnly = map[View]bool{
	ViewUserManagement:  true,
	ViewAdminManagement: true,
	ViewAdminRegister:   true,
}

// authRequired views are unreachable while signed out.
var authRequired = map[View]bool{
	ViewDashboard:       true,
	ViewTaskList:        true,
	ViewNewTask:         true,
	ViewTaskDetails:     true,
	ViewUserManagement:  true,
	ViewAdminManagement: true,
	ViewProfile:         true,
}

// frame is one history entry: the view plus the payload it was showing.
type frame struct {
	view   View
	taskID string
}

// Machine runs for the life of the process; logout always returns it to
// the login view, which is also the initial state.
type Machine struct {
	role func() (model.Role, bool)

	current        View
	selectedTaskID string

	stack []frame
}

// NewMachine builds a machine starting at login. role reports the current
// session role, or false while signed out.
func NewMachine(role func() (model.Role, bool)) *Machine {
	return &Machine{role: role, current: ViewLogin}
}

func (m *Machine) Current() View { return m.current }

// SelectedTaskID is the task-details payload; empty outside that view.
func (m *Machine) SelectedTaskID() string { return m.selectedTaskID }

// Go navigates to a view, enforcing the role guards. On success the
// previous view is pushed for Back. An attempt a guard rejects leaves the
// machine at its prior view.
func (m *Machine) Go(v View) error {
	return m.goWithPayload(v, "")
}

// OpenTask navigates to task-details carrying the selected task.
func (m *Machine) OpenTask(taskID string) error {
	return m.goWithPayload(ViewTaskDetails, taskID)
}

func (m *Machine) goWithPayload(v View, taskID string) error {
	role, signedIn := model.Role(""), false
	if m.role != nil {
		role, signedIn = m.role()
	}
	if authRequired[v] && !signedIn {
		return apperr.AuthorizationError{Role: "anonymous", Required: "user", Target: string(v)}
	}
	if adminOnly[v] && role != model.RoleAdmin {
		return apperr.AuthorizationError{Role: string(role), Required: string(model.RoleAdmin), Target: string(v)}
	}
	if m.current != v {
		m.stack = append(m.stack, frame{view: m.current, taskID: m.selectedTaskID})
	}
	m.current = v
	m.selectedTaskID = taskID
	return nil
}

// Back returns to the previous view. At the bottom of the stack it stays
// put (login or dashboard, depending on session state).
func (m *Machine) Back() {
	if len(m.stack) == 0 {
		return
	}
	prev := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	// Re-check guards: the session may have changed since the view was pushed.
	if err := m.guard(prev.view); err != nil {
		m.current = m.fallback()
		m.selectedTaskID = ""
		m.stack = nil
		return
	}
	m.current = prev.view
	m.selectedTaskID = prev.taskID
}

func (m *Machine) guard(v View) error {
	role, signedIn := model.Role(""), false
	if m.role != nil {
		role, signedIn = m.role()
	}
	if authRequired[v] && !signedIn {
		return apperr.AuthorizationError{Role: "anonymous", Required: "user", Target: string(v)}
	}
	if adminOnly[v] && role != model.RoleAdmin {
		return apperr.AuthorizationError{Role: string(role), Required: string(model.RoleAdmin), Target: string(v)}
	}
	return nil
}

func (m *Machine) fallback() View {
	if m.role != nil {
		if _, ok := m.role(); ok {
			return ViewDashboard
		}
	}
	return ViewLogin
}

// LoginSucceeded moves to the dashboard with a fresh history. The caller
// schedules the task-collection load (and user list for admins).
func (m *Machine) LoginSucceeded() {
	m.current = ViewDashboard
	m.selectedTaskID = ""
	m.stack = nil
}

// LoggedOut returns to login and drops all history and payloads.
func (m *Machine) LoggedOut() {
	m.current = ViewLogin
	m.selectedTaskID = ""
	m.stack = nil
}

// TaskSaved is the task-created/task-updated transition: back to the
// dashboard.
func (m *Machine) TaskSaved() {
	m.current = ViewDashboard
	m.selectedTaskID = ""
	m.stack = nil
}
