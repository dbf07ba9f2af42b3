package incidents

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all incidents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := guardView(cmd.Context(), cfg, ""); err != nil {
			return err
		}
		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}

		incidents, err := sdkClient.ListIncidents(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list incidents: %w", err)
		}
		if len(incidents) == 0 {
			pterm.Info.Println("No incidents reported.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tSEVERITY\tSTATUS\tLOCATION")
		for _, inc := range incidents {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%.4f,%.4f\n",
				inc.ID, inc.Name, inc.Type, inc.Severity, inc.Status, inc.Latitude, inc.Longitude)
		}
		return w.Flush()
	},
}
