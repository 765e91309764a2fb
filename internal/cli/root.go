package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskdeck/internal/accounts"
	"taskdeck/internal/api"
	"taskdeck/internal/collection"
	"taskdeck/internal/config"
	"taskdeck/internal/format"
	"taskdeck/internal/log"
	"taskdeck/internal/model"
	"taskdeck/internal/mutate"
	"taskdeck/internal/session"
	"taskdeck/internal/store"
	"taskdeck/internal/tui"
)

type App struct {
	ConfigPath string
	Server     string
	PrettyJSON bool

	cfg      *config.Config
	client   *api.HTTPClient
	sessions *session.Store
	tasks    *collection.Store
	pipeline *mutate.Pipeline
	accounts *accounts.Store
	local    store.Store
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "taskdeck",
		Short:        "Task-management client (CLI + TUI)",
		SilenceUsage: true,
		Example: `  # Start the interactive TUI
  taskdeck

  # Scriptable commands
  taskdeck login --email you@example.com
  taskdeck tasks list --status TODO --sort dueDate
  taskdeck stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("TASKDECK_CONFIG", ""), "Path to config.yaml (default: ~/.taskdeck/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("TASKDECK_SERVER", ""), "Base URL of the task-management API (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newProfileCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newStatsCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newAdminsCmd(app))

	return cmd
}

// init wires the stores. Logout eviction: the collection store, mutation
// pipeline, account caches and persisted session all hang off the session
// store's notifications, so no view logic ever clears them directly.
func (a *App) init() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	if a.Server != "" {
		cfg.ServerURL = a.Server
	}
	a.cfg = cfg
	log.InitFromEnvFallback(cfg.LogLevel)

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	a.local = store.Store{Dir: dir}

	a.client = api.New(cfg.ServerURL, cfg.RequestTimeout)
	a.sessions = session.NewStore(a.client)
	a.tasks = collection.NewStore(a.client)
	a.pipeline = mutate.NewPipeline(a.client, a.tasks)
	a.accounts = accounts.NewStore(a.client, a.sessions.SignedRole)

	a.sessions.OnLogout(func() {
		a.tasks.Clear()
		a.pipeline.Reset()
		a.accounts.Clear()
		a.client.SetToken("")
		_ = a.local.ClearSession(context.Background())
	})

	return nil
}

// persistSession saves the session for later commands. Persistence is
// opt-in: rememberSession=false in the config keeps the token in-process
// only, whatever the command.
func (a *App) persistSession(ctx context.Context, sess model.Session) error {
	if !a.cfg.RememberSession {
		return nil
	}
	return a.local.SaveSession(ctx, sess)
}

// refreshPersistedSession rewrites an already-persisted session so later
// commands see updated profile fields. It never starts persisting one.
func (a *App) refreshPersistedSession(ctx context.Context, sess model.Session) error {
	if !a.cfg.RememberSession {
		return nil
	}
	if _, ok, err := a.local.LoadSession(ctx); err != nil || !ok {
		return err
	}
	return a.local.SaveSession(ctx, sess)
}

// resumeSession installs a remembered session, if any, so authed commands
// work across processes.
func (a *App) resumeSession(ctx context.Context) {
	sess, ok, err := a.local.LoadSession(ctx)
	if err != nil || !ok {
		return
	}
	a.sessions.Resume(sess)
	a.client.SetToken(sess.Token)
}

// requireSession resumes and returns the session, or an actionable error.
func (a *App) requireSession(ctx context.Context) (model.Session, error) {
	if sess, ok := a.sessions.Current(); ok {
		return sess, nil
	}
	a.resumeSession(ctx)
	if sess, ok := a.sessions.Current(); ok {
		return sess, nil
	}
	return model.Session{}, errors.New("not signed in; run `taskdeck login --email <email>`")
}

// loadTasks resumes the session and fills the collection from the server.
func (a *App) loadTasks(ctx context.Context) error {
	if _, err := a.requireSession(ctx); err != nil {
		return err
	}
	return a.tasks.Load(ctx)
}

func runTUI(app *App) error {
	ctx := context.Background()
	app.resumeSession(ctx)
	return tui.Run(tui.Deps{
		Config:   app.cfg,
		Client:   app.client,
		Sessions: app.sessions,
		Tasks:    app.tasks,
		Pipeline: app.pipeline,
		Accounts: app.accounts,
		Local:    app.local,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
