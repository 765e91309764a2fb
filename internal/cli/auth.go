package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"taskdeck/internal/model"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password, role string
	var noRemember bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate against the task-management service",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRole(roleOr(role, app))
			if err != nil {
				return writeErr(cmd, err)
			}
			sess, err := app.sessions.Authenticate(cmd.Context(), model.Credentials{
				Email:    email,
				Password: password,
				Role:     r,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			if !noRemember {
				if err := app.persistSession(cmd.Context(), sess); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": sess})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	cmd.Flags().StringVar(&role, "role", "", "Login role (user|admin)")
	cmd.Flags().BoolVar(&noRemember, "no-remember", false, "Do not persist the session for later commands")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func roleOr(role string, app *App) string {
	if strings.TrimSpace(role) != "" {
		return role
	}
	return app.cfg.DefaultRole
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and evict cached data",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.resumeSession(cmd.Context())
			app.sessions.EndSession()
			// EndSession only notifies when a session existed; make the
			// persisted token go away regardless.
			if err := app.local.ClearSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": "signed out"})
		},
	}
}

func newRegisterCmd(app *App) *cobra.Command {
	var reg model.Registration
	var confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new user account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.sessions.Register(cmd.Context(), reg, confirm)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.persistSession(cmd.Context(), sess); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess})
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "First name")
	cmd.Flags().StringVar(&reg.Surname, "surname", "", "Surname")
	cmd.Flags().StringVar(&reg.Email, "email", "", "Email")
	cmd.Flags().StringVar(&reg.Username, "username", "", "Username")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password (8+ chars, upper/lower/digit)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "Password confirmation")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&reg.StudentNumber, "student-number", "", "Student number")
	cmd.Flags().StringVar(&reg.IDNumber, "id-number", "", "ID number")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := app.requireSession(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess})
		},
	}
	cmd.AddCommand(newProfileUpdateCmd(app))
	return cmd
}

func newProfileUpdateCmd(app *App) *cobra.Command {
	var displayName, email, phone, studentNumber, idNumber string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields (role and username are immutable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}

			var update model.ProfileUpdate
			if cmd.Flags().Changed("name") {
				update.DisplayName = &displayName
			}
			if cmd.Flags().Changed("email") {
				update.Email = &email
			}
			if cmd.Flags().Changed("phone") {
				update.Phone = &phone
			}
			if cmd.Flags().Changed("student-number") {
				update.StudentNumber = &studentNumber
			}
			if cmd.Flags().Changed("id-number") {
				update.IDNumber = &idNumber
			}

			sess, err := app.sessions.UpdateProfile(cmd.Context(), update)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := app.refreshPersistedSession(cmd.Context(), sess); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": sess})
		},
	}

	cmd.Flags().StringVar(&displayName, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&studentNumber, "student-number", "", "Student number")
	cmd.Flags().StringVar(&idNumber, "id-number", "", "ID number")
	return cmd
}
