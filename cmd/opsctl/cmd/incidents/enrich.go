package incidents

import (
	"fmt"
	"strconv"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <incident-id>",
	Short: "Fetch third-party context for an incident",
	Long: `Fetches social posts, current weather and news items around an incident's
location. The lookup is bounded by a 30 second client-side deadline;
sources that fail upstream are reported but do not fail the command.`,
	Args: cobra.ExactArgs(1),
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

		spinner, _ := pterm.DefaultSpinner.Start("Gathering incident intel...")
		report, err := sdkClient.EnrichIncident(cmd.Context(), id)
		if err != nil {
			spinner.Fail("Enrichment failed")
			return err
		}
		spinner.Success("Enrichment complete")

		pterm.DefaultSection.Printf("Incident #%d Intel\n", id)

		if report.WeatherData != nil {
			w := report.WeatherData
			pterm.Info.Printf("Weather in %s: %s, %.1f°C (feels like %.1f°C), wind %.1f m/s\n",
				w.Location, w.Description, w.Temperature, w.FeelsLike, w.WindSpeed)
		}
		for _, post := range report.RedditPosts {
			pterm.Printf("  %s [%s] %s\n", post.Username, post.Subreddit, post.Text)
		}
		for _, item := range report.NewsItems {
			pterm.Printf("  %s (%s)\n", item.Title, item.Link)
		}
		for source, msg := range report.Errors {
			pterm.Warning.Printf("Source %s unavailable: %s\n", source, msg)
		}
		return nil
	},
}
