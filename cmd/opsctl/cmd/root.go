package cmd

import (
	"fmt"
	"os"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/cmd/auth"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/cmd/feedback"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/cmd/incidents"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/cmd/routes"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/client"
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/internal/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL      string
	identityURL    string
	clientID       string
	nonInteractive bool
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "opsctl",
	Short: "PhantomOps CLI - incident reporting client",
	Long: `opsctl is the command-line client for PhantomOps, a citizen incident
reporting platform. Use it to sign in, report and triage incidents,
fetch incident enrichment, and look up nearby escape routes.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; flags and environment always win.
		_ = godotenv.Load()

		if v := os.Getenv("PHANTOMOPS_SERVER_URL"); v != "" && !cmd.Flags().Changed("server") {
			serverURL = v
		}
		if v := os.Getenv("PHANTOMOPS_IDENTITY_URL"); v != "" && !cmd.Flags().Changed("identity-url") {
			identityURL = v
		}
		if v := os.Getenv("PHANTOMOPS_CLIENT_ID"); v != "" && !cmd.Flags().Changed("client-id") {
			clientID = v
		}
		if os.Getenv("PHANTOMOPS_NON_INTERACTIVE") == "1" {
			nonInteractive = true
		}

		logger, err := observability.NewLogger(logLevel)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}

		cfg := &config.GlobalConfig{
			ServerURL:      serverURL,
			IdentityURL:    identityURL,
			ClientID:       clientID,
			NonInteractive: nonInteractive,
			Logger:         logger,
			Clients:        client.NewProvider(serverURL, identityURL, clientID, logger),
		}
		cmd.SetContext(config.InjectConfig(cmd.Context(), cfg))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:5000", "PhantomOps backend URL")
	rootCmd.PersistentFlags().StringVar(&identityURL, "identity-url", "http://localhost:9999", "Identity service URL")
	rootCmd.PersistentFlags().StringVar(&clientID, "client-id", "", "Public client ID for the identity service")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false, "Disable interactive prompts (also set via PHANTOMOPS_NON_INTERACTIVE=1)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(incidents.IncidentsCmd)
	rootCmd.AddCommand(routes.RoutesCmd)
	rootCmd.AddCommand(feedback.FeedbackCmd)
	rootCmd.AddCommand(dashboardCmd)
}
