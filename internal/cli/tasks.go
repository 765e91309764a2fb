package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"taskdeck/internal/derive"
	"taskdeck/internal/model"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksCreateCmd(app))
	cmd.AddCommand(newTasksUpdateCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksCommentCmd(app))
	cmd.AddCommand(newTasksAttachCmd(app))
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var status, search, sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, optionally filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			out := derive.FilterAndSort(app.tasks.Tasks(), derive.Query{
				StatusFilter: status,
				SearchText:   search,
				SortKey:      sortKey,
			})
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"total": app.tasks.Len(), "returned": len(out)},
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", derive.StatusFilterAll, "Status filter (All|TODO|IN_PROGRESS|DONE)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive title search")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort key (dueDate|title)")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			task, ok := app.tasks.Get(args[0])
			if !ok {
				return writeErr(cmd, errors.New("task not found: "+args[0]))
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
}

func newTasksCreateCmd(app *App) *cobra.Command {
	var draft model.TaskDraft
	var priority string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			p, err := model.ParsePriority(priority)
			if err != nil {
				return writeErr(cmd, err)
			}
			draft.Priority = p
			task, err := app.pipeline.Create(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "MEDIUM", "Priority (LOW|MEDIUM|HIGH)")
	cmd.Flags().StringVar(&draft.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&draft.AssigneeID, "assignee", "", "Assignee user id")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksUpdateCmd(app *App) *cobra.Command {
	var title, description, status, priority, due, assignee string

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			task, ok := app.tasks.Get(args[0])
			if !ok {
				return writeErr(cmd, errors.New("task not found: "+args[0]))
			}

			if cmd.Flags().Changed("title") {
				task.Title = title
			}
			if cmd.Flags().Changed("description") {
				task.Description = description
			}
			if cmd.Flags().Changed("status") {
				st, err := model.ParseStatus(status)
				if err != nil {
					return writeErr(cmd, err)
				}
				task.Status = st
			}
			if cmd.Flags().Changed("priority") {
				p, err := model.ParsePriority(priority)
				if err != nil {
					return writeErr(cmd, err)
				}
				task.Priority = p
			}
			if cmd.Flags().Changed("due") {
				task.DueDate = due
			}
			if cmd.Flags().Changed("assignee") {
				task.AssigneeID = assignee
			}

			updated, err := app.pipeline.Update(cmd.Context(), task)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": updated})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&status, "status", "", "Status (TODO|IN_PROGRESS|DONE)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (LOW|MEDIUM|HIGH)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assignee user id")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task (asks the server first; no optimistic removal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.pipeline.Delete(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": "deleted", "meta": map[string]any{"id": args[0]}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newTasksCommentCmd(app *App) *cobra.Command {
	var body string

	cmd := &cobra.Command{
		Use:   "comment <task-id>",
		Short: "Append a comment to a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			task, err := app.pipeline.AddComment(cmd.Context(), args[0], body)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Comment body")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func newTasksAttachCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attachment commands",
	}

	var name string
	add := &cobra.Command{
		Use:   "add <task-id>",
		Short: "Record an attachment on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			task, err := app.pipeline.AddAttachment(cmd.Context(), args[0], name)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}
	add.Flags().StringVar(&name, "name", "", "File name")
	_ = add.MarkFlagRequired("name")

	toggle := &cobra.Command{
		Use:   "toggle <task-id> <index>",
		Short: "Flip the checked flag on an attachment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.loadTasks(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return writeErr(cmd, errors.New("index must be a number"))
			}
			task, err := app.pipeline.ToggleAttachment(cmd.Context(), args[0], idx)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": task})
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(toggle)
	return cmd
}
