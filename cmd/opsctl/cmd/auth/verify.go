package auth

import (
	"time"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// The provider may still be settling the confirmation flag when the
// verification link is followed; give it a moment before re-checking.
const verifySettleDelay = 1200 * time.Millisecond

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check whether the email verification has completed",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		idp, err := cfg.Clients.IdentityProvider()
		if err != nil {
			return err
		}

		sess, err := idp.GetSession(cmd.Context())
		if err != nil {
			return err
		}
		if sess == nil {
			pterm.Error.Println("Verification failed: this verification link is invalid, expired, or already used.")
			return nil
		}

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-time.After(verifySettleDelay):
		}

		ident, err := idp.GetUser(cmd.Context())
		if err != nil {
			pterm.Error.Println("Verification failed: this verification link is invalid, expired, or already used.")
			return err
		}

		if !ident.EmailConfirmed {
			pterm.Warning.Println("Verification pending: your link was detected, but the provider hasn't finished confirming it yet. Try again in a few seconds.")
			return nil
		}

		pterm.Success.Println("Email verified! Your account is now active. You can log in.")
		return nil
	},
}
