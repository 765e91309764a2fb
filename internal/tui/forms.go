package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// form is a vertical stack of labeled text inputs with tab/shift+tab focus
// cycling. Enter on the last field (or ctrl+s anywhere) submits; the caller
// watches formSubmitted.
type form struct {
	labels  []string
	initial []string
	inputs  []textinput.Model
	focus   int
}

type formField struct {
	label       string
	placeholder string
	secret      bool
	value       string
}

func newForm(fields ...formField) form {
	f := form{}
	for i, fd := range fields {
		in := textinput.New()
		in.Placeholder = fd.placeholder
		in.SetValue(fd.value)
		in.Prompt = "> "
		in.CharLimit = 256
		if fd.secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '*'
		}
		if i == 0 {
			in.Focus()
		}
		f.labels = append(f.labels, fd.label)
		f.initial = append(f.initial, fd.value)
		f.inputs = append(f.inputs, in)
	}
	return f
}

// formSubmitted reports whether the key message completes the form.
func (f form) formSubmitted(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "ctrl+s":
		return true
	case "enter":
		return f.focus == len(f.inputs)-1
	}
	return false
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down", "enter":
			f.focusField(f.focus + 1)
			return f, nil
		case "shift+tab", "up":
			f.focusField(f.focus - 1)
			return f, nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *form) focusField(i int) {
	if len(f.inputs) == 0 {
		return
	}
	if i < 0 {
		i = len(f.inputs) - 1
	}
	if i >= len(f.inputs) {
		i = 0
	}
	f.inputs[f.focus].Blur()
	f.focus = i
	f.inputs[f.focus].Focus()
}

func (f form) value(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return strings.TrimSpace(f.inputs[i].Value())
}

// rawValue keeps surrounding whitespace (passwords).
func (f form) rawValue(i int) string {
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].Value()
}

// reset restores every field to its initial value (defaults included), not
// to blank.
func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue(f.initial[i])
		f.inputs[i].Blur()
	}
	if len(f.inputs) > 0 {
		f.focus = 0
		f.inputs[0].Focus()
	}
}

func (f form) view() string {
	label := styleMuted()
	var b strings.Builder
	for i := range f.inputs {
		b.WriteString(label.Render(f.labels[i]))
		b.WriteString("\n")
		b.WriteString(f.inputs[i].View())
		if i < len(f.inputs)-1 {
			b.WriteString("\n\n")
		}
	}
	return lipgloss.NewStyle().Render(b.String())
}
