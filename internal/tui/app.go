package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/apperr"
	"taskdeck/internal/derive"
	"taskdeck/internal/model"
	"taskdeck/internal/nav"
	"taskdeck/internal/store"
)

// confirmPrompt is a one-line yes/no modal; y runs the action on the update
// loop (so it can apply synchronous store changes before issuing a command),
// anything else cancels.
type confirmPrompt struct {
	prompt string
	action func(*appModel) tea.Cmd
}

type appModel struct {
	deps Deps
	nav  *nav.Machine

	width  int
	height int

	status    string
	statusErr bool
	busy      bool
	spin      spinner.Model

	loginForm         form
	registerForm      form
	adminRegisterForm form
	profileForm       form
	taskForm          form

	taskList    list.Model
	query       derive.Query
	searching   bool
	searchInput textinput.Model

	commenting  bool
	commentArea textarea.Model
	attaching   bool
	attachInput textinput.Model

	userList      list.Model
	userSearch    textinput.Model
	userSearching bool
	adminList     list.Model

	confirm *confirmPrompt

	// Fetch sequence numbers; a response whose seq no longer matches is
	// from a superseded request and is dropped.
	taskSeq  uint64
	userSeq  uint64
	adminSeq uint64
}

func newAppModel(deps Deps) appModel {
	sessions := deps.Sessions
	m := appModel{
		deps:  deps,
		nav:   nav.NewMachine(sessions.SignedRole),
		query: derive.Query{StatusFilter: derive.StatusFilterAll, SortKey: derive.SortByDueDate},
	}

	defaultRole := "user"
	if deps.Config != nil && deps.Config.DefaultRole != "" {
		defaultRole = deps.Config.DefaultRole
	}
	m.loginForm = newForm(
		formField{label: "Email", placeholder: "you@example.com"},
		formField{label: "Password", secret: true},
		formField{label: "Role", placeholder: "user or admin", value: defaultRole},
	)
	m.registerForm = newRegisterForm()
	m.adminRegisterForm = newAdminRegisterForm()
	m.taskForm = newTaskForm()

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "search titles"
	m.searchInput.Prompt = "/ "

	m.userSearch = textinput.New()
	m.userSearch.Placeholder = "search users"
	m.userSearch.Prompt = "/ "

	m.commentArea = textarea.New()
	m.commentArea.Placeholder = "write a comment (ctrl+s to post)"
	m.commentArea.SetHeight(4)

	m.attachInput = textinput.New()
	m.attachInput.Placeholder = "file name"
	m.attachInput.Prompt = "> "

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = styleMuted()

	m.taskList = newList("Tasks", nil)
	m.userList = newList("Users", nil)
	m.adminList = newCompactList("Administrators", nil)

	if st, err := deps.Local.LoadUIState(context.Background()); err == nil && st != nil {
		if st.StatusFilter != "" {
			m.query.StatusFilter = st.StatusFilter
		}
		if st.SortKey != "" {
			m.query.SortKey = st.SortKey
		}
	}

	// A remembered session was resumed before the program started; skip login.
	if _, ok := sessions.Current(); ok {
		m.nav.LoginSucceeded()
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if _, ok := m.deps.Sessions.Current(); ok {
		return m.loadTasksCmd(m.taskSeq)
	}
	return textinput.Blink
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		// Only keep ticking while a remote call is outstanding.
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		if msg.seq != m.taskSeq {
			return m, nil
		}
		if err := m.deps.Tasks.ApplyLoad(msg.tasks, msg.err); err != nil {
			m.flashError(fmt.Sprintf("couldn't refresh tasks: %v", err))
		}
		m.refreshTaskList()
		return m, nil

	case loginDoneMsg:
		return m.onLoginDone(msg.sess, msg.err)

	case registerDoneMsg:
		if msg.err != nil {
			m.busy = false
			m.flashError(msg.err.Error())
			return m, nil
		}
		return m.onLoginDone(msg.sess, nil)

	case adminRegisteredMsg:
		m.busy = false
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.flash(fmt.Sprintf("administrator %s created", msg.admin.Username))
		m.adminRegisterForm.reset()
		m.goTo(nav.ViewAdminManagement)
		m.adminSeq++
		return m, m.loadAdminsCmd(m.adminSeq)

	case profileSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.deps.Sessions.ApplyProfile(msg.sess)
		m.persistSession()
		m.flash("profile saved")
		m.nav.Back()
		return m, nil

	case createDoneMsg:
		if err := m.deps.Pipeline.FinishCreate(msg.ticket, msg.confirmed, msg.err); err != nil {
			m.flashError(fmt.Sprintf("task not created: %v", err))
		}
		m.refreshTaskList()
		return m, nil

	case updateDoneMsg:
		if err := m.deps.Pipeline.FinishUpdate(msg.ticket, msg.confirmed, msg.err); err != nil {
			m.flashError(fmt.Sprintf("change not saved: %v", err))
		}
		m.refreshTaskList()
		return m, nil

	case deleteDoneMsg:
		if err := m.deps.Pipeline.FinishDelete(msg.ticket, msg.err); err != nil {
			m.flashError(fmt.Sprintf("task not deleted: %v", err))
			return m, nil
		}
		if m.nav.Current() == nav.ViewTaskDetails && m.nav.SelectedTaskID() == msg.ticket.TaskID {
			m.nav.Back()
		}
		m.flash("task deleted")
		m.refreshTaskList()
		return m, nil

	case usersLoadedMsg:
		if msg.seq != m.userSeq {
			return m, nil
		}
		if msg.err != nil {
			m.flashError(fmt.Sprintf("couldn't load users: %v", msg.err))
			return m, nil
		}
		m.deps.Accounts.SetUsers(msg.users)
		m.refreshUserList()
		return m, nil

	case adminsLoadedMsg:
		if msg.seq != m.adminSeq {
			return m, nil
		}
		if msg.err != nil {
			m.flashError(fmt.Sprintf("couldn't load administrators: %v", msg.err))
			return m, nil
		}
		m.deps.Accounts.SetAdmins(msg.admins)
		m.refreshAdminList()
		return m, nil

	case userSavedMsg:
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.deps.Accounts.ReplaceUserLocal(msg.user)
		m.refreshUserList()
		return m, nil

	case userRemovedMsg:
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.deps.Accounts.RemoveUserLocal(msg.id)
		m.flash("user deleted")
		m.refreshUserList()
		return m, nil

	case adminSavedMsg:
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.deps.Accounts.ReplaceAdminLocal(msg.admin)
		m.refreshAdminList()
		return m, nil

	case adminRemovedMsg:
		if msg.err != nil {
			m.flashError(msg.err.Error())
			return m, nil
		}
		m.deps.Accounts.RemoveAdminLocal(msg.id)
		m.flash("administrator deleted")
		m.refreshAdminList()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	m.statusErr = false

	if m.confirm != nil {
		c := m.confirm
		m.confirm = nil
		if msg.String() == "y" || msg.String() == "Y" {
			return m, c.action(&m)
		}
		m.flash("cancelled")
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		m.saveUIState()
		return m, tea.Quit
	}

	switch m.nav.Current() {
	case nav.ViewLogin:
		return m.updateLogin(msg)
	case nav.ViewRegister:
		return m.updateRegister(msg)
	case nav.ViewAdminRegister:
		return m.updateAdminRegister(msg)
	case nav.ViewDashboard:
		return m.updateDashboard(msg)
	case nav.ViewTaskList:
		return m.updateTaskList(msg)
	case nav.ViewNewTask:
		return m.updateNewTask(msg)
	case nav.ViewTaskDetails:
		return m.updateTaskDetails(msg)
	case nav.ViewUserManagement:
		return m.updateUsers(msg)
	case nav.ViewAdminManagement:
		return m.updateAdmins(msg)
	case nav.ViewProfile:
		return m.updateProfile(msg)
	}
	return m, nil
}

func (m appModel) onLoginDone(sess model.Session, err error) (tea.Model, tea.Cmd) {
	m.busy = false
	if err != nil {
		m.flashError(err.Error())
		return m, nil
	}
	m.deps.Sessions.Resume(sess)
	m.setToken(sess.Token)
	m.persistSession()
	m.loginForm.reset()
	m.registerForm.reset()
	m.nav.LoginSucceeded()
	m.flash(fmt.Sprintf("signed in as %s", sess.Username))
	m.taskSeq++
	cmds := []tea.Cmd{m.loadTasksCmd(m.taskSeq)}
	if sess.Role == model.RoleAdmin {
		// Admin dashboards link straight into user management; warm the list.
		m.userSeq++
		cmds = append(cmds, m.loadUsersCmd(m.userSeq, ""))
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) logout() {
	m.deps.Sessions.EndSession()
	m.nav.LoggedOut()
	// Invalidate any in-flight fetches from the ended session.
	m.taskSeq++
	m.userSeq++
	m.adminSeq++
	m.refreshTaskList()
	m.refreshUserList()
	m.refreshAdminList()
	m.flash("signed out")
}

// goTo navigates and surfaces guard rejections without changing state.
func (m *appModel) goTo(v nav.View) {
	if err := m.nav.Go(v); err != nil {
		if apperr.IsAuthorization(err) {
			m.flashError("not allowed: administrator access required")
			return
		}
		m.flashError(err.Error())
	}
}

func (m *appModel) setToken(token string) {
	if ts, ok := m.deps.Client.(interface{ SetToken(string) }); ok {
		ts.SetToken(token)
	}
}

func (m *appModel) persistSession() {
	if m.deps.Config != nil && !m.deps.Config.RememberSession {
		return
	}
	if sess, ok := m.deps.Sessions.Current(); ok {
		_ = m.deps.Local.SaveSession(context.Background(), sess)
	}
}

func (m *appModel) saveUIState() {
	_ = m.deps.Local.SaveUIState(context.Background(), &store.UIState{
		View:           string(m.nav.Current()),
		SelectedTaskID: m.nav.SelectedTaskID(),
		StatusFilter:   m.query.StatusFilter,
		SortKey:        m.query.SortKey,
	})
}

func (m *appModel) flash(s string)      { m.status = s; m.statusErr = false }
func (m *appModel) flashError(s string) { m.status = s; m.statusErr = true }

func (m *appModel) refreshTaskList() {
	curID := ""
	if it, ok := m.taskList.SelectedItem().(taskItem); ok {
		curID = it.task.ID
	}
	visible := derive.FilterAndSort(m.deps.Tasks.Tasks(), m.query)
	m.taskList.SetItems(taskListItems(visible))
	if curID != "" {
		selectTask(&m.taskList, curID)
	}
}

func (m *appModel) refreshUserList() {
	m.userList.SetItems(userListItems(m.deps.Accounts.FilterUsers(strings.TrimSpace(m.userSearch.Value()))))
}

func (m *appModel) refreshAdminList() {
	m.adminList.SetItems(adminListItems(m.deps.Accounts.Admins()))
}

func selectTask(l *list.Model, id string) {
	for i, it := range l.Items() {
		if t, ok := it.(taskItem); ok && t.task.ID == id {
			l.Select(i)
			return
		}
	}
}

func (m *appModel) resize() {
	h := m.height - 6
	if h < 8 {
		h = 8
	}
	w := m.width
	if w < 40 {
		w = 40
	}
	m.taskList.SetSize(w, h)
	m.userList.SetSize(w, h)
	m.adminList.SetSize(w, h)
	m.commentArea.SetWidth(min(w-4, 80))
}

func (m appModel) View() string {
	var body string
	switch m.nav.Current() {
	case nav.ViewLogin:
		body = m.viewLogin()
	case nav.ViewRegister:
		body = m.viewRegister()
	case nav.ViewAdminRegister:
		body = m.viewAdminRegister()
	case nav.ViewDashboard:
		body = m.viewDashboard()
	case nav.ViewTaskList:
		body = m.viewTaskList()
	case nav.ViewNewTask:
		body = m.viewNewTask()
	case nav.ViewTaskDetails:
		body = m.viewTaskDetails()
	case nav.ViewUserManagement:
		body = m.viewUsers()
	case nav.ViewAdminManagement:
		body = m.viewAdmins()
	case nav.ViewProfile:
		body = m.viewProfile()
	}

	return strings.Join([]string{m.header(), body, m.footer()}, "\n\n")
}

func (m appModel) header() string {
	who := "signed out"
	if sess, ok := m.deps.Sessions.Current(); ok {
		who = sess.Username
		if sess.Role == model.RoleAdmin {
			who += " (admin)"
		}
	}
	title := styleTitle().Render("TaskDeck")
	crumb := styleMuted().Render(fmt.Sprintf("%s %s  %s %s", glyphArrow(), viewLabel(m.nav.Current()), glyphBullet(), who))
	return title + " " + crumb
}

func (m appModel) footer() string {
	if m.confirm != nil {
		return styleError().Render(m.confirm.prompt + "  (y/N)")
	}
	lines := []string{styleMuted().Render(m.keyHints())}
	if m.status != "" {
		st := lipgloss.NewStyle().Foreground(colorSuccessFg)
		if m.statusErr {
			st = styleError()
		}
		lines = append(lines, st.Render(m.status))
	}
	if m.busy {
		lines = append(lines, m.spin.View()+styleMuted().Render("working"))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) keyHints() string {
	switch m.nav.Current() {
	case nav.ViewLogin:
		return "tab: next field  enter: sign in  ctrl+r: register  ctrl+c: quit"
	case nav.ViewRegister, nav.ViewAdminRegister:
		return "tab: next field  enter: submit  esc: back"
	case nav.ViewDashboard:
		return "t: tasks  n: new task  p: profile  u: users  a: admins  r: refresh  o: sign out  q: quit"
	case nav.ViewTaskList:
		return "enter: open  n: new  x: cycle status  /: search  f: filter  s: sort  r: refresh  esc: back"
	case nav.ViewNewTask:
		return "tab: next field  enter: create  esc: cancel"
	case nav.ViewTaskDetails:
		return "s: status  p: priority  c: comment  a: attach  1-9: toggle attachment  D: delete  esc: back"
	case nav.ViewUserManagement:
		return "/: search  x: activate/deactivate  D: delete  r: refresh  esc: back"
	case nav.ViewAdminManagement:
		return "n: new admin  x: activate/deactivate  D: delete  r: refresh  esc: back"
	case nav.ViewProfile:
		return "tab: next field  enter: save  esc: back"
	}
	return ""
}

func viewLabel(v nav.View) string {
	switch v {
	case nav.ViewLogin:
		return "Sign in"
	case nav.ViewRegister:
		return "Register"
	case nav.ViewAdminRegister:
		return "New administrator"
	case nav.ViewDashboard:
		return "Dashboard"
	case nav.ViewTaskList:
		return "Tasks"
	case nav.ViewNewTask:
		return "New task"
	case nav.ViewTaskDetails:
		return "Task"
	case nav.ViewUserManagement:
		return "Users"
	case nav.ViewAdminManagement:
		return "Administrators"
	case nav.ViewProfile:
		return "Profile"
	}
	return string(v)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
