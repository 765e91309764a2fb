package tui

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/derive"
	"taskdeck/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

func (i taskItem) Title() string {
	label, sev := derive.StatusLabel(i.task.Status)
	badge := styleSeverity(sev).Render("[" + label + "]")
	return badge + " " + i.task.Title
}

func (i taskItem) Description() string {
	parts := []string{string(i.task.Priority)}
	if i.task.DueDate != "" {
		parts = append(parts, "due "+i.task.DueDate)
	}
	parts = append(parts, i.task.Assignee())
	return strings.Join(parts, "  "+glyphBullet()+"  ")
}

type userItem struct {
	user model.UserAccount
}

func (i userItem) FilterValue() string {
	return i.user.FullName() + " " + i.user.Email + " " + i.user.Username
}

func (i userItem) Title() string {
	t := i.user.FullName()
	if !i.user.Active {
		t += " " + styleMuted().Render("(inactive)")
	}
	return t
}

func (i userItem) Description() string {
	return i.user.Email + "  " + glyphBullet() + "  " + i.user.Username
}

type adminItem struct {
	admin model.AdminAccount
}

func (i adminItem) FilterValue() string {
	return i.admin.FullName() + " " + i.admin.Email + " " + i.admin.Username
}

func (i adminItem) Title() string {
	t := i.admin.FullName()
	if !i.admin.Active {
		t += " " + styleMuted().Render("(inactive)")
	}
	return t
}

func (i adminItem) Description() string {
	return i.admin.Email + "  " + glyphBullet() + "  " + i.admin.Username
}

func (i adminItem) compactLine() string {
	return i.Title() + "  " + glyphBullet() + "  " + styleMuted().Render(i.admin.Email)
}

func taskListItems(tasks []model.Task) []list.Item {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	return items
}

func userListItems(users []model.UserAccount) []list.Item {
	items := make([]list.Item, 0, len(users))
	for _, u := range users {
		items = append(items, userItem{user: u})
	}
	return items
}

func adminListItems(admins []model.AdminAccount) []list.Item {
	items := make([]list.Item, 0, len(admins))
	for _, a := range admins {
		items = append(items, adminItem{admin: a})
	}
	return items
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// We render our own global header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Filtering is handled by the views themselves (the search box feeds the
	// derived query), not by bubbles' built-in fuzzy filter.
	l.SetFilteringEnabled(false)
	// Bubble list defaults to quitting on ESC; here ESC is "back/cancel".
	l.KeyMap.Quit.SetKeys("ctrl+c")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

// newCompactList renders one line per item; used where the row count matters
// more than the two-line detail (the administrators list).
func newCompactList(title string, items []list.Item) list.Model {
	l := newList(title, items)
	l.SetDelegate(newCompactItemDelegate())
	return l
}

type compactItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newCompactItemDelegate() compactItemDelegate {
	return compactItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d compactItemDelegate) Height() int  { return 1 }
func (d compactItemDelegate) Spacing() int { return 0 }
func (d compactItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d compactItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}

	txt := ""
	switch t := item.(type) {
	case interface{ compactLine() string }:
		txt = t.compactLine()
	case interface{ Title() string }:
		txt = t.Title()
	default:
		txt = fmt.Sprint(item)
	}

	line := txt
	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Cut(line, 0, contentW)
	}

	fmt.Fprint(w, style.Render(line))
}
