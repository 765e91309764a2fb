package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"taskdeck/internal/model"
)

func newAdminsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admins",
		Short: "Administrator account commands (admin only)",
	}
	cmd.AddCommand(newAdminsListCmd(app))
	cmd.AddCommand(newAdminsCreateCmd(app))
	cmd.AddCommand(newAdminsDeleteCmd(app))
	cmd.AddCommand(newAdminsToggleCmd(app))
	return cmd
}

func newAdminsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List administrator accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			admins, err := app.accounts.LoadAdmins(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": admins, "meta": map[string]any{"total": len(admins)}})
		},
	}
}

func newAdminsCreateCmd(app *App) *cobra.Command {
	var reg model.AdminRegistration

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			if sess.Role != model.RoleAdmin {
				return writeErr(cmd, errors.New("only admins may create administrator accounts"))
			}
			created, err := app.client.RegisterAdmin(cmd.Context(), reg)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": created})
		},
	}

	cmd.Flags().StringVar(&reg.Username, "username", "", "Username")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAdminsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <admin-id>",
		Short: "Delete an administrator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("refusing to delete without --yes"))
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := app.accounts.LoadAdmins(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if err := app.accounts.DeleteAdmin(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": "deleted", "meta": map[string]any{"id": args[0]}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}

func newAdminsToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-active <admin-id>",
		Short: "Flip an administrator account's active flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			if _, err := app.accounts.LoadAdmins(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			confirmed, err := app.accounts.ToggleAdminActive(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": confirmed})
		},
	}
}
