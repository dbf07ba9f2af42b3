package auth

import (
	"errors"
	"time"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display authentication status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		store, err := cfg.Clients.Store()
		if err != nil {
			return err
		}

		snap := store.Snapshot()
		pterm.DefaultSection.Println("Authentication Status")

		if !snap.SessionPresent() {
			pterm.Warning.Println("Not logged in. Run `opsctl auth login`.")
			return nil
		}

		if snap.Identity != nil {
			pterm.Info.Printf("Identity: %s\n", snap.Identity.Email)
		}
		if snap.Role.Known() {
			pterm.Info.Printf("Role: %s\n", snap.Role)
		} else {
			pterm.Info.Println("Role: not yet resolved")
		}
		pterm.Info.Printf("Credentials updated: %s\n", snap.UpdatedAt.Format(time.RFC1123))

		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}
		check, err := sdkClient.TestAuth(cmd.Context())
		switch {
		case errors.Is(err, sdk.ErrUnauthorized):
			pterm.Warning.Println("Backend rejected the current token. Run `opsctl auth login` again.")
		case err != nil:
			pterm.Warning.Printf("Backend auth probe failed: %v\n", err)
		default:
			pterm.Success.Printf("Backend accepts the token (id=%s role=%s)\n", check.ID, check.Role)
		}
		return nil
	},
}
