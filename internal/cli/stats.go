package cli

import (
	"time"

	"github.com/spf13/cobra"

	"taskdeck/internal/derive"
)

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Dashboard statistics for the task collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			st := derive.ComputeStats(app.tasks.Tasks(), time.Now())
			return writeOut(cmd, app, map[string]any{"data": st})
		},
	}
}
