package routes

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	latitude  float64
	longitude float64
)

// RoutesCmd looks up emergency facilities near a coordinate.
var RoutesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Find escape routes near a location",
	Long: `Lists hospitals, police stations and fire stations within reach of the
given coordinates, nearest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lon") {
			return fmt.Errorf("--lat and --lon are required")
		}

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}

		plan, err := sdkClient.EscapeRoutes(cmd.Context(), latitude, longitude)
		if err != nil {
			return fmt.Errorf("failed to fetch escape routes: %w", err)
		}

		total := len(plan.Hospitals) + len(plan.PoliceStations) + len(plan.FireStations)
		if total == 0 {
			pterm.Info.Println("No emergency facilities found near this location.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tNAME\tDISTANCE\tLOCATION")
		printPlaces(w, plan.Hospitals)
		printPlaces(w, plan.PoliceStations)
		printPlaces(w, plan.FireStations)
		return w.Flush()
	},
}

func printPlaces(w *tabwriter.Writer, places []sdk.Place) {
	for _, p := range places {
		fmt.Fprintf(w, "%s\t%s\t%.2f km\t%.4f,%.4f\n",
			p.Type, p.Name, p.DistanceKM, p.Latitude, p.Longitude)
	}
}

func init() {
	RoutesCmd.Flags().Float64Var(&latitude, "lat", 0, "Latitude")
	RoutesCmd.Flags().Float64Var(&longitude, "lon", 0, "Longitude")
}
