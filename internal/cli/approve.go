package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"edgelogin/internal/logger"
	"edgelogin/internal/vault"
)

var errNoVault = errors.New("no local account store is configured")

func newApproveCommand(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "approve [voucher]",
		Short: "Approve a device waiting for two-factor approval",
		Long: `Approve a device that was refused a password login because two-factor
approval is enabled on the account. Without a voucher, list the pending ones.

Example:
  edgelogin approve 1f0c9a6e-4d2b-4c57-8e8f-3f1d2b7c9a10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Vault == nil {
				app.Printer.Error("%v", errNoVault)
				return NewExitError(ExitCodeError)
			}

			if len(args) == 0 {
				vouchers, err := app.Vault.Vouchers()
				if err != nil {
					app.Printer.Error("Failed to read vouchers: %v", err)
					return NewExitError(ExitCodeError)
				}
				var rows [][]string
				for _, v := range vouchers {
					if v.Approved && !all {
						continue
					}
					state := "pending"
					if v.Approved {
						state = "approved"
					}
					rows = append(rows, []string{v.ID, v.Username, v.DeviceID, v.ResetDate.Local().Format(time.DateTime), state})
				}
				if len(rows) == 0 {
					app.Printer.Line("No devices are waiting for approval.")
					return nil
				}
				app.Printer.Table([]string{"VOUCHER", "USERNAME", "DEVICE", "RESETS", "STATE"}, rows)
				return nil
			}

			v, err := app.Vault.Approve(args[0])
			if errors.Is(err, vault.ErrVoucherNotFound) {
				app.Printer.Error("No voucher %s", args[0])
				return NewExitError(ExitCodeError)
			}
			if err != nil {
				app.Printer.Error("Failed to approve: %v", err)
				return NewExitError(ExitCodeError)
			}
			logger.Info("device approved", "voucher", v.ID, "username", v.Username, "device", v.DeviceID)
			app.Printer.Success("Approved device %s for %s", v.DeviceID, v.Username)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include approved vouchers in the list")
	return cmd
}

func newOTPEnableCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "otp-enable <username>",
		Short: "Turn on two-factor approval for an account",
		Long: `Turn on two-factor approval for an account. This device stays approved;
other devices must be approved with "edgelogin approve" or the printed
backup code, or wait for the reset period.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Vault == nil {
				app.Printer.Error("%v", errNoVault)
				return NewExitError(ExitCodeError)
			}
			code, err := app.Vault.EnableOTP(args[0])
			if err != nil {
				app.Printer.Error("Failed to enable two-factor: %v", err)
				return NewExitError(ExitCodeError)
			}
			logger.Info("two-factor enabled", "username", args[0])
			app.Printer.Success("Two-factor approval enabled for %s", args[0])
			app.Printer.KeyValue([2]string{"Backup code", code})
			return nil
		},
	}
}
