package auth

import (
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	signupName     string
	signupEmail    string
	signupPassword string
	signupRedirect string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a PhantomOps account",
	Long: `Registers a new identity. The account must be confirmed via the emailed
verification link before it can log in. The display name is staged
locally and written into the user record on the first login after
confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if signupEmail == "" || signupPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}

		idp, err := cfg.Clients.IdentityProvider()
		if err != nil {
			return err
		}

		ident, err := idp.SignUp(cmd.Context(), signupEmail, signupPassword, signupRedirect)
		if err != nil {
			pterm.Error.Println("Signup failed. Please check your details and try again.")
			return err
		}

		if signupName != "" {
			fileStore, err := cfg.Clients.FileStore()
			if err != nil {
				return err
			}
			if err := fileStore.StageName(signupName); err != nil {
				pterm.Warning.Printf("Could not stage display name: %v\n", err)
			}
		}

		pterm.Success.Println("Almost done!")
		pterm.Info.Printf("We've sent a confirmation link to %s. Please verify it to activate your account.\n", ident.Email)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "Display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&signupRedirect, "redirect-to", "http://localhost:5173/auth/callback", "Post-confirmation redirect URL")
}
