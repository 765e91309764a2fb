package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/accounts"
	"taskdeck/internal/api"
	"taskdeck/internal/collection"
	"taskdeck/internal/config"
	"taskdeck/internal/mutate"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
)

// Deps are the owned stores the TUI drives. All store mutations happen on
// the bubbletea update loop; remote calls run as commands and re-enter as
// messages.
type Deps struct {
	Config   *config.Config
	Client   api.Client
	Sessions *session.Store
	Tasks    *collection.Store
	Pipeline *mutate.Pipeline
	Accounts *accounts.Store
	Local    store.Store
}

func Run(deps Deps) error {
	applyColorProfilePreference(deps.Config)
	if deps.Config != nil {
		applyGlyphPreference(deps.Config.TUI.Glyphs)
	}
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
