package auth

import (
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of PhantomOps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		idp, err := cfg.Clients.IdentityProvider()
		if err != nil {
			return err
		}

		// The sign-out notification clears the credential store through
		// the observer; the file snapshot is removed explicitly.
		if err := idp.SignOut(cmd.Context()); err != nil {
			pterm.Warning.Printf("Provider sign-out reported an error: %v\n", err)
		}

		fileStore, err := cfg.Clients.FileStore()
		if err != nil {
			return err
		}
		if err := fileStore.Delete(); err != nil {
			return fmt.Errorf("failed to delete persisted session: %w", err)
		}

		pterm.Success.Println("Logged out successfully")
		return nil
	},
}
