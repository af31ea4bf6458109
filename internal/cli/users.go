package cli

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"edgelogin/internal/logger"
	"edgelogin/internal/userlist"
)

func newUsersCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users remembered on this device",
	}
	cmd.AddCommand(newUsersListCommand(app), newUsersForgetCommand(app))
	return cmd
}

func newUsersListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remembered users, most recent login first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List()
			if err != nil {
				app.Printer.Error("Failed to read users: %v", err)
				return NewExitError(ExitCodeError)
			}
			if len(users) == 0 {
				app.Printer.Line("No users remembered on this device.")
				return nil
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				last := "-"
				if !u.LastLogin.IsZero() {
					last = u.LastLogin.Local().Format(time.DateTime)
				}
				rows = append(rows, []string{u.Username, strconv.FormatBool(u.PINEnabled), last})
			}
			app.Printer.Table([]string{"USERNAME", "PIN", "LAST LOGIN"}, rows)
			return nil
		},
	}
}

func newUsersForgetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <username>",
		Short: "Forget a user on this device",
		Long: `Remove a user from this device's list and turn off PIN login for it.
The account itself is kept; log in with the password to remember it again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			err := app.Users.Remove(username)
			if errors.Is(err, userlist.ErrUserNotFound) {
				app.Printer.Error("%s is not remembered on this device", username)
				return NewExitError(ExitCodeError)
			}
			if err != nil {
				app.Printer.Error("Failed to update users: %v", err)
				return NewExitError(ExitCodeError)
			}
			if err := app.Session.DeleteLocalUser(cmd.Context(), username); err != nil {
				logger.Warn("failed to forget device login", "username", username, "error", err)
				app.Printer.Warning("Removed %s from the list, but the account store reported: %v", username, err)
				return nil
			}
			app.Printer.Success("Forgot %s", username)
			return nil
		},
	}
}
