package incidents

import (
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	reportName        string
	reportType        string
	reportDescription string
	reportLatitude    float64
	reportLongitude   float64
	reportSeverity    int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a new incident",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := guardView(cmd.Context(), cfg, ""); err != nil {
			return err
		}

		if err := validateReport(reportName, reportDescription, reportLatitude, reportLongitude, reportSeverity); err != nil {
			return err
		}

		store, err := cfg.Clients.Store()
		if err != nil {
			return err
		}
		snap := store.Snapshot()
		if snap.Identity == nil {
			return fmt.Errorf("no identity in session; run `opsctl auth login` again")
		}

		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}
		created, err := sdkClient.ReportIncident(cmd.Context(), sdk.ReportIncidentInput{
			UserID:      snap.Identity.ID,
			Name:        reportName,
			Type:        reportType,
			Description: reportDescription,
			Latitude:    reportLatitude,
			Longitude:   reportLongitude,
			Severity:    reportSeverity,
		})
		if err != nil {
			return fmt.Errorf("failed to report incident: %w", err)
		}

		pterm.Success.Printf("Incident reported successfully (id=%d)\n", created.ID)
		return nil
	},
}

// validateReport checks the report fields the backend would otherwise
// bounce.
func validateReport(name, description string, lat, lon float64, severity int) error {
	if name == "" || description == "" {
		return fmt.Errorf("--name and --description are required")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90 degrees")
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude must be between -180 and 180 degrees")
	}
	if severity < 1 || severity > 5 {
		return fmt.Errorf("severity must be between 1 and 5")
	}
	return nil
}

func init() {
	reportCmd.Flags().StringVar(&reportName, "name", "", "Short incident name")
	reportCmd.Flags().StringVar(&reportType, "type", "other", "Incident type (fire, flood, accident, other, ...)")
	reportCmd.Flags().StringVar(&reportDescription, "description", "", "What happened")
	reportCmd.Flags().Float64Var(&reportLatitude, "lat", 0, "Incident latitude")
	reportCmd.Flags().Float64Var(&reportLongitude, "lon", 0, "Incident longitude")
	reportCmd.Flags().IntVar(&reportSeverity, "severity", 3, "Severity 1-5")
}
