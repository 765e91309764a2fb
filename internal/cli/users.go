package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"taskdeck/internal/model"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "User account commands (admin only)",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersSearchCmd(app))
	cmd.AddCommand(newUsersUpdateCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))
	cmd.AddCommand(newUsersToggleCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			users, err := app.accounts.LoadUsers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": users, "meta": map[string]any{"total": len(users)}})
		},
	}
}

func newUsersSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search user accounts by keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			users, err := app.accounts.SearchUsers(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": users, "meta": map[string]any{"total": len(users)}})
		},
	}
}

func newUsersUpdateCmd(app *App) *cobra.Command {
	var name, surname, email, phone, studentNumber, idNumber string

	cmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			users, err := app.accounts.LoadUsers(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			var target *model.UserAccount
			for i := range users {
				if users[i].ID == args[0] {
					target = &users[i]
					break
				}
			}
			if target == nil {
				return writeErr(cmd, errors.New("user not found: "+args[0]))
			}

			if cmd.Flags().Changed("name") {
				target.Name = name
			}
			if cmd.Flags().Changed("surname") {
				target.Surname = surname
			}
			if cmd.Flags().Changed("email") {
				target.Email = email
			}
			if cmd.Flags().Changed("phone") {
				target.Phone = phone
			}
			if cmd.Flags().Changed("student-number") {
				target.StudentNumber = studentNumber
			}
			if cmd.Flags().Changed("id-number") {
				target.IDNumber = idNumber
			}

			confirmed, err := app.accounts.UpdateUser(cmd.Context(), *target)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": confirmed})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "First name")
	cmd.Flags().StringVar(&surname, "surname", "", "Surname")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&studentNumber, "student-number", "", "Student number")
	cmd.Flags().StringVar(&idNumber, "id-number", "", "ID number")
	return cmd
}

func newUsersDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := app.accounts.LoadUsers(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.accounts.DeleteUser(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": "deleted", "meta": map[string]any{"id": args[0]}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newUsersToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-active <user-id>",
		Short: "Flip a user account's active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := app.accounts.LoadUsers(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			confirmed, err := app.accounts.ToggleUserActive(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": confirmed})
		},
	}
}
