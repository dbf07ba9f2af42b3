package incidents

import (
	"fmt"
	"strconv"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <incident-id>",
	Short: "Mark an incident as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := guardView(cmd.Context(), cfg, authflow.RoleAdmin); err != nil {
			return err
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid incident id %q", args[0])
		}

		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}
		updated, err := sdkClient.ResolveIncident(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to resolve incident %d: %w", id, err)
		}

		pterm.Success.Printf("Incident %d marked as %s\n", updated.ID, updated.Status)
		return nil
	},
}
