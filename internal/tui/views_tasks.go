package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/derive"
	"taskdeck/internal/model"
	"taskdeck/internal/nav"
)

func newTaskForm() form {
	return newForm(
		formField{label: "Title"},
		formField{label: "Description", placeholder: "markdown supported"},
		formField{label: "Priority", placeholder: "LOW, MEDIUM or HIGH", value: "MEDIUM"},
		formField{label: "Due date", placeholder: "YYYY-MM-DD"},
		formField{label: "Assignee id", placeholder: "optional"},
	)
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.saveUIState()
		return m, tea.Quit
	case "t":
		m.goTo(nav.ViewTaskList)
		m.refreshTaskList()
		return m, nil
	case "n":
		m.taskForm.reset()
		m.goTo(nav.ViewNewTask)
		return m, nil
	case "p":
		m.enterProfile()
		return m, nil
	case "u":
		m.goTo(nav.ViewUserManagement)
		if m.nav.Current() == nav.ViewUserManagement {
			m.refreshUserList()
			m.userSeq++
			return m, m.loadUsersCmd(m.userSeq, "")
		}
		return m, nil
	case "a":
		m.goTo(nav.ViewAdminManagement)
		if m.nav.Current() == nav.ViewAdminManagement {
			m.refreshAdminList()
			m.adminSeq++
			return m, m.loadAdminsCmd(m.adminSeq)
		}
		return m, nil
	case "r":
		m.taskSeq++
		return m, m.loadTasksCmd(m.taskSeq)
	case "o":
		m.logout()
		return m, nil
	}
	return m, nil
}

func (m appModel) viewDashboard() string {
	tasks := m.deps.Tasks.Tasks()
	st := derive.ComputeStats(tasks, time.Now())

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 2)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card.Render(fmt.Sprintf("Total\n%d", st.Total)),
		card.Render(styleSeverity(derive.SeveritySuccess).Render("Done")+fmt.Sprintf("\n%d", st.Done)),
		card.Render(styleSeverity(derive.SeverityWarning).Render("In Progress")+fmt.Sprintf("\n%d", st.InProgress)),
		card.Render(styleError().Render("Overdue")+fmt.Sprintf("\n%d", st.Overdue)),
	)

	var b strings.Builder
	if sess, ok := m.deps.Sessions.Current(); ok {
		name := sess.DisplayName
		if name == "" {
			name = sess.Username
		}
		b.WriteString(styleTitle().Render("Welcome back, " + name))
		b.WriteString("\n\n")
	}
	b.WriteString(cards)
	b.WriteString("\n\n")

	if m.deps.Tasks.Failed() {
		b.WriteString(styleError().Render("last refresh failed; showing cached tasks"))
		b.WriteString("\n\n")
	}

	b.WriteString(styleTitle().Render("Recent Tasks"))
	b.WriteString("\n")
	recent := derive.Recent(tasks, 5)
	if len(recent) == 0 {
		b.WriteString(styleMuted().Render("no tasks yet; press n to create one"))
	}
	for _, t := range recent {
		label, sev := derive.StatusLabel(t.Status)
		line := fmt.Sprintf("%s %s %s",
			styleSeverity(sev).Render("["+label+"]"),
			t.Title,
			styleMuted().Render(dueHint(t)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func dueHint(t model.Task) string {
	if t.DueDate == "" {
		return ""
	}
	return "due " + t.DueDate
}

func (m appModel) updateTaskList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.query.SearchText = ""
			m.searchInput.SetValue("")
			m.refreshTaskList()
			return m, nil
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.query.SearchText = m.searchInput.Value()
		m.refreshTaskList()
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.nav.Back()
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "f":
		m.query.StatusFilter = nextStatusFilter(m.query.StatusFilter)
		m.refreshTaskList()
		return m, nil
	case "s":
		if m.query.SortKey == derive.SortByDueDate {
			m.query.SortKey = derive.SortByTitle
		} else {
			m.query.SortKey = derive.SortByDueDate
		}
		m.refreshTaskList()
		return m, nil
	case "n":
		m.taskForm.reset()
		m.goTo(nav.ViewNewTask)
		return m, nil
	case "r":
		m.taskSeq++
		return m, m.loadTasksCmd(m.taskSeq)
	case "x":
		// Cycle the selected task's status without leaving the list.
		if it, ok := m.taskList.SelectedItem().(taskItem); ok {
			task := it.task
			task.Status = nextStatus(task.Status)
			return m.beginUpdate(task)
		}
		return m, nil
	case "enter":
		if it, ok := m.taskList.SelectedItem().(taskItem); ok {
			if err := m.nav.OpenTask(it.task.ID); err != nil {
				m.flashError(err.Error())
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func nextStatusFilter(cur string) string {
	switch cur {
	case derive.StatusFilterAll:
		return string(model.StatusTodo)
	case string(model.StatusTodo):
		return string(model.StatusInProgress)
	case string(model.StatusInProgress):
		return string(model.StatusDone)
	default:
		return derive.StatusFilterAll
	}
}

func (m appModel) viewTaskList() string {
	bar := fmt.Sprintf("filter: %s  %s  sort: %s", m.query.StatusFilter, glyphBullet(), m.query.SortKey)
	head := styleMuted().Render(bar)
	if m.searching || m.query.SearchText != "" {
		head += "\n" + m.searchInput.View()
	}
	if m.deps.Tasks.Failed() {
		head += "\n" + styleError().Render("last refresh failed; showing cached tasks")
	}
	return head + "\n" + m.taskList.View()
}

func (m appModel) updateNewTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.nav.Back()
		return m, nil
	}

	if m.taskForm.formSubmitted(msg) {
		f := m.taskForm
		priority, err := model.ParsePriority(f.value(2))
		if err != nil {
			m.flashError(err.Error())
			return m, nil
		}
		draft := model.TaskDraft{
			Title:       f.value(0),
			Description: f.value(1),
			Priority:    priority,
			DueDate:     f.value(3),
			AssigneeID:  f.value(4),
		}
		placeholder, ticket, err := m.deps.Pipeline.BeginCreate(draft)
		if err != nil {
			m.flashError(err.Error())
			return m, nil
		}
		// Optimistic: the placeholder is already visible; reconcile on reply.
		m.nav.TaskSaved()
		m.refreshTaskList()
		m.flash("creating " + placeholder.Title)
		return m, m.createTaskCmd(ticket, draft)
	}

	var cmd tea.Cmd
	m.taskForm, cmd = m.taskForm.update(msg)
	return m, cmd
}

func (m appModel) viewNewTask() string {
	return m.taskForm.view()
}

func (m appModel) updateTaskDetails(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	task, ok := m.deps.Tasks.Get(m.nav.SelectedTaskID())
	if !ok {
		if msg.String() == "esc" {
			m.nav.Back()
		}
		return m, nil
	}

	if m.commenting {
		switch msg.String() {
		case "esc":
			m.commenting = false
			m.commentArea.Blur()
			m.commentArea.Reset()
			return m, nil
		case "ctrl+s":
			body := strings.TrimSpace(m.commentArea.Value())
			m.commenting = false
			m.commentArea.Blur()
			m.commentArea.Reset()
			if body == "" {
				return m, nil
			}
			task.Comments = append(append([]string{}, task.Comments...), body)
			return m.beginUpdate(task)
		}
		var cmd tea.Cmd
		m.commentArea, cmd = m.commentArea.Update(msg)
		return m, cmd
	}

	if m.attaching {
		switch msg.String() {
		case "esc":
			m.attaching = false
			m.attachInput.Blur()
			m.attachInput.SetValue("")
			return m, nil
		case "enter":
			name := strings.TrimSpace(m.attachInput.Value())
			m.attaching = false
			m.attachInput.Blur()
			m.attachInput.SetValue("")
			if name == "" {
				return m, nil
			}
			task.Attachments = append(append([]model.Attachment{}, task.Attachments...), model.Attachment{Name: name})
			return m.beginUpdate(task)
		}
		var cmd tea.Cmd
		m.attachInput, cmd = m.attachInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		m.nav.Back()
		return m, nil
	case "s":
		task.Status = nextStatus(task.Status)
		return m.beginUpdate(task)
	case "p":
		task.Priority = nextPriority(task.Priority)
		return m.beginUpdate(task)
	case "c":
		m.commenting = true
		return m, m.commentArea.Focus()
	case "a":
		m.attaching = true
		m.attachInput.Focus()
		return m, nil
	case "D":
		id := task.ID
		title := task.Title
		m.confirm = &confirmPrompt{
			prompt: fmt.Sprintf("Delete %q? This cannot be undone.", title),
			action: func(am *appModel) tea.Cmd {
				ticket, err := am.deps.Pipeline.BeginDelete(id)
				if err != nil {
					am.flashError(err.Error())
					return nil
				}
				return am.deleteTaskCmd(ticket)
			},
		}
		return m, nil
	}

	if n := digitKey(msg.String()); n > 0 && n <= len(task.Attachments) {
		atts := append([]model.Attachment{}, task.Attachments...)
		atts[n-1].Checked = !atts[n-1].Checked
		task.Attachments = atts
		return m.beginUpdate(task)
	}
	return m, nil
}

// beginUpdate applies the optimistic half and schedules the remote call.
func (m appModel) beginUpdate(task model.Task) (tea.Model, tea.Cmd) {
	ticket, err := m.deps.Pipeline.BeginUpdate(task)
	if err != nil {
		m.flashError(err.Error())
		return m, nil
	}
	m.refreshTaskList()
	return m, m.updateTaskCmd(ticket, task)
}

func nextStatus(s model.Status) model.Status {
	switch s {
	case model.StatusTodo:
		return model.StatusInProgress
	case model.StatusInProgress:
		return model.StatusDone
	default:
		return model.StatusTodo
	}
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

func digitKey(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '0')
	}
	return 0
}

func (m appModel) viewTaskDetails() string {
	task, ok := m.deps.Tasks.Get(m.nav.SelectedTaskID())
	if !ok {
		return styleMuted().Render("task no longer exists (esc to go back)")
	}

	label, sev := derive.StatusLabel(task.Status)
	var b strings.Builder
	b.WriteString(styleTitle().Render(task.Title))
	if m.deps.Pipeline.Pending(task.ID) {
		b.WriteString("  " + styleMuted().Render("(saving)"))
	}
	b.WriteString("\n")
	b.WriteString(styleSeverity(sev).Render("[" + label + "]"))
	b.WriteString("  " + styleMuted().Render(string(task.Priority)))
	if task.DueDate != "" {
		b.WriteString("  " + styleMuted().Render("due "+task.DueDate))
	}
	b.WriteString("  " + styleMuted().Render(task.Assignee()))
	b.WriteString("\n")
	b.WriteString(styleMuted().Render(strings.Repeat(glyphHRule(), min(m.width, 60))))
	b.WriteString("\n")

	if task.Description != "" {
		b.WriteString(renderMarkdown(task.Description, min(m.width-2, 80)))
		b.WriteString("\n")
	}

	if len(task.Attachments) > 0 {
		b.WriteString("\n" + styleTitle().Render("Attachments") + "\n")
		for i, a := range task.Attachments {
			box := glyphCheckboxEmpty()
			if a.Checked {
				box = glyphCheckboxChecked()
			}
			b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, box, a.Name))
		}
	}

	if len(task.Comments) > 0 {
		b.WriteString("\n" + styleTitle().Render("Comments") + "\n")
		for _, c := range task.Comments {
			b.WriteString(glyphBullet() + " " + c + "\n")
		}
	}

	if m.commenting {
		b.WriteString("\n" + m.commentArea.View())
	}
	if m.attaching {
		b.WriteString("\n" + m.attachInput.View())
	}
	return b.String()
}
