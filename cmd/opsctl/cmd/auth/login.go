package auth

import (
	"errors"
	"fmt"

	internalauth "github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/auth"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to PhantomOps",
	Long: `Signs in with the identity service and converges on a fully resolved
session: the credential check, session availability polling, the email
verification gate, and the authorization role lookup all run before the
command reports success.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		email, password := loginEmail, loginPassword
		if email == "" && !cfg.NonInteractive {
			email, _ = pterm.DefaultInteractiveTextInput.Show("Email")
		}
		if password == "" && !cfg.NonInteractive {
			password, _ = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
		}
		if email == "" || password == "" {
			return fmt.Errorf("email and password are required (use --email/--password in non-interactive mode)")
		}

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		acquirer, err := cfg.Clients.Acquirer()
		if err != nil {
			return err
		}

		result, err := acquirer.Acquire(cmd.Context(), email, password)
		switch {
		case errors.Is(err, authflow.ErrEmailUnverified):
			pterm.Warning.Println("Email not verified. Please verify your email before logging in.")
			return nil
		case errors.Is(err, authflow.ErrInvalidCredentials):
			pterm.Error.Println("Login failed: please check your credentials.")
			return err
		case errors.Is(err, authflow.ErrSessionNotReady):
			pterm.Error.Println("Session not initialized yet. Please try again.")
			return err
		case err != nil:
			pterm.Error.Println("Login failed: please check your credentials or server connection.")
			return err
		}

		// Confirm the backend accepts the freshly attached token.
		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}
		if _, err := sdkClient.TestAuth(cmd.Context()); err != nil {
			pterm.Warning.Printf("Backend auth probe failed: %v\n", err)
		}

		fileStore, err := cfg.Clients.FileStore()
		if err != nil {
			return err
		}
		ident := result.Session.Identity
		if err := fileStore.Save(&internalauth.Snapshot{
			AccessToken: result.Session.AccessToken,
			ExpiresAt:   result.Session.ExpiresAt,
			Role:        string(result.Role),
			Identity:    &ident,
		}); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}

		name := result.Name
		if name == "" {
			name = "User"
		}
		pterm.Success.Printf("Welcome %s!\n", name)
		if result.Role == authflow.RoleAdmin {
			pterm.Info.Println("Admin access granted.")
		} else {
			pterm.Info.Println("User access granted.")
		}
		pterm.Info.Printf("Dashboard: %s\n", authflow.HomeFor(result.Role))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
}
