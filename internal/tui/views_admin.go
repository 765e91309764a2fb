package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/nav"
)

func (m appModel) updateUsers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.userSearching {
		switch msg.String() {
		case "esc":
			m.userSearching = false
			m.userSearch.Blur()
			m.userSearch.SetValue("")
			m.refreshUserList()
			return m, nil
		case "enter":
			m.userSearching = false
			m.userSearch.Blur()
			// Ask the server too; the local filter already narrowed the view.
			m.userSeq++
			return m, m.loadUsersCmd(m.userSeq, strings.TrimSpace(m.userSearch.Value()))
		}
		var cmd tea.Cmd
		m.userSearch, cmd = m.userSearch.Update(msg)
		m.refreshUserList()
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.nav.Back()
		return m, nil
	case "/":
		m.userSearching = true
		m.userSearch.Focus()
		return m, nil
	case "r":
		m.userSeq++
		return m, m.loadUsersCmd(m.userSeq, "")
	case "x":
		if it, ok := m.userList.SelectedItem().(userItem); ok {
			return m, m.toggleUserCmd(it.user.ID, !it.user.Active)
		}
		return m, nil
	case "D":
		if it, ok := m.userList.SelectedItem().(userItem); ok {
			id := it.user.ID
			m.confirm = &confirmPrompt{
				prompt: fmt.Sprintf("Delete user %q? This cannot be undone.", it.user.FullName()),
				action: func(am *appModel) tea.Cmd {
					return am.deleteUserCmd(id)
				},
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.userList, cmd = m.userList.Update(msg)
	return m, cmd
}

func (m appModel) viewUsers() string {
	head := ""
	if m.userSearching || strings.TrimSpace(m.userSearch.Value()) != "" {
		head = m.userSearch.View() + "\n"
	}
	if len(m.userList.Items()) == 0 {
		return head + styleMuted().Render("no users")
	}
	return head + m.userList.View()
}

func (m appModel) updateAdmins(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.nav.Back()
		return m, nil
	case "n":
		m.adminRegisterForm.reset()
		m.goTo(nav.ViewAdminRegister)
		return m, nil
	case "r":
		m.adminSeq++
		return m, m.loadAdminsCmd(m.adminSeq)
	case "x":
		if it, ok := m.adminList.SelectedItem().(adminItem); ok {
			return m, m.toggleAdminCmd(it.admin.ID, !it.admin.Active)
		}
		return m, nil
	case "D":
		if it, ok := m.adminList.SelectedItem().(adminItem); ok {
			id := it.admin.ID
			m.confirm = &confirmPrompt{
				prompt: fmt.Sprintf("Delete administrator %q? This cannot be undone.", it.admin.FullName()),
				action: func(am *appModel) tea.Cmd {
					return am.deleteAdminCmd(id)
				},
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.adminList, cmd = m.adminList.Update(msg)
	return m, cmd
}

func (m appModel) viewAdmins() string {
	if len(m.adminList.Items()) == 0 {
		return styleMuted().Render("no administrators")
	}
	return m.adminList.View()
}
