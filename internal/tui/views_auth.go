package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/model"
	"taskdeck/internal/nav"
	"taskdeck/internal/session"
)

func newRegisterForm() form {
	return newForm(
		formField{label: "Name"},
		formField{label: "Surname"},
		formField{label: "Email", placeholder: "you@example.com"},
		formField{label: "Username"},
		formField{label: "Phone", placeholder: "optional"},
		formField{label: "Student number", placeholder: "optional"},
		formField{label: "ID number", placeholder: "optional"},
		formField{label: "Password", secret: true},
		formField{label: "Confirm password", secret: true},
	)
}

func newAdminRegisterForm() form {
	return newForm(
		formField{label: "First name"},
		formField{label: "Last name"},
		formField{label: "Email"},
		formField{label: "Username"},
		formField{label: "Password", secret: true},
	)
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+r":
		m.goTo(nav.ViewRegister)
		return m, nil
	}

	if m.loginForm.formSubmitted(msg) {
		role, err := model.ParseRole(m.loginForm.value(2))
		if err != nil {
			m.flashError(err.Error())
			return m, nil
		}
		creds := model.Credentials{
			Email:    m.loginForm.value(0),
			Password: m.loginForm.rawValue(1),
			Role:     role,
		}
		if err := session.ValidateCredentials(creds); err != nil {
			m.flashError(err.Error())
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.loginCmd(creds))
	}

	var cmd tea.Cmd
	m.loginForm, cmd = m.loginForm.update(msg)
	return m, cmd
}

func (m appModel) viewLogin() string {
	return m.loginForm.view()
}

func (m appModel) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.nav.Back()
		return m, nil
	}

	if m.registerForm.formSubmitted(msg) {
		f := m.registerForm
		reg := model.Registration{
			Name:          f.value(0),
			Surname:       f.value(1),
			Email:         f.value(2),
			Username:      f.value(3),
			Phone:         f.value(4),
			StudentNumber: f.value(5),
			IDNumber:      f.value(6),
			Password:      f.rawValue(7),
		}
		if err := session.ValidateRegistration(reg, f.rawValue(8)); err != nil {
			m.flashError(err.Error())
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.registerCmd(reg))
	}

	var cmd tea.Cmd
	m.registerForm, cmd = m.registerForm.update(msg)
	return m, cmd
}

func (m appModel) viewRegister() string {
	return m.registerForm.view()
}

func (m appModel) updateAdminRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.nav.Back()
		return m, nil
	}

	if m.adminRegisterForm.formSubmitted(msg) {
		f := m.adminRegisterForm
		reg := model.AdminRegistration{
			FirstName: f.value(0),
			LastName:  f.value(1),
			Email:     f.value(2),
			Username:  f.value(3),
			Password:  f.rawValue(4),
		}
		if reg.Username == "" || reg.Email == "" || reg.Password == "" {
			m.flashError("username, email and password are required")
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.registerAdminCmd(reg))
	}

	var cmd tea.Cmd
	m.adminRegisterForm, cmd = m.adminRegisterForm.update(msg)
	return m, cmd
}

func (m appModel) viewAdminRegister() string {
	return m.adminRegisterForm.view()
}

// enterProfile seeds the profile form from the live session before
// navigating.
func (m *appModel) enterProfile() {
	sess, ok := m.deps.Sessions.Current()
	if !ok {
		return
	}
	m.profileForm = newForm(
		formField{label: "Display name", value: sess.DisplayName},
		formField{label: "Email", value: sess.Email},
		formField{label: "Phone", value: sess.Phone},
		formField{label: "Student number", value: sess.StudentNumber},
		formField{label: "ID number", value: sess.IDNumber},
	)
	m.goTo(nav.ViewProfile)
}

func (m appModel) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.nav.Back()
		return m, nil
	}

	if m.profileForm.formSubmitted(msg) {
		sess, ok := m.deps.Sessions.Current()
		if !ok {
			m.nav.LoggedOut()
			return m, nil
		}
		update := model.ProfileUpdate{}
		if v := m.profileForm.value(0); v != sess.DisplayName {
			update.DisplayName = &v
		}
		if v := m.profileForm.value(1); v != sess.Email {
			update.Email = &v
		}
		if v := m.profileForm.value(2); v != sess.Phone {
			update.Phone = &v
		}
		if v := m.profileForm.value(3); v != sess.StudentNumber {
			update.StudentNumber = &v
		}
		if v := m.profileForm.value(4); v != sess.IDNumber {
			update.IDNumber = &v
		}
		if update == (model.ProfileUpdate{}) {
			m.flash("nothing to save")
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spin.Tick, m.saveProfileCmd(update))
	}

	var cmd tea.Cmd
	m.profileForm, cmd = m.profileForm.update(msg)
	return m, cmd
}

func (m appModel) viewProfile() string {
	sess, ok := m.deps.Sessions.Current()
	if !ok {
		return styleMuted().Render("signed out")
	}
	head := styleMuted().Render("Signed in as " + sess.Username + " (" + string(sess.Role) + ")")
	return head + "\n\n" + m.profileForm.view()
}
