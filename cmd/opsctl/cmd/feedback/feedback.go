package feedback

import (
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/Sarvesh5273/PhantomOps/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	name    string
	email   string
	rating  string
	message string
)

// FeedbackCmd submits user feedback. It is a shared authenticated view:
// any signed-in user may submit, regardless of role resolution state.
var FeedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Send feedback about PhantomOps",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.MustFromContext(cmd.Context())

		if err := cfg.Clients.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		store, err := cfg.Clients.Store()
		if err != nil {
			return err
		}

		snap := store.Snapshot()
		if decision := authflow.Decide(snap.SessionPresent(), snap.Role, ""); decision.Kind != authflow.DecisionServe {
			return fmt.Errorf("not logged in; run `opsctl auth login`")
		}

		sdkClient, err := cfg.Clients.SDKClient()
		if err != nil {
			return err
		}
		if err := sdkClient.SubmitFeedback(cmd.Context(), sdk.Feedback{
			Name:    name,
			Email:   email,
			Rating:  rating,
			Message: message,
		}); err != nil {
			return fmt.Errorf("feedback submission failed: %w", err)
		}

		pterm.Success.Println("Feedback submitted. Thanks for helping improve PhantomOps!")
		return nil
	},
}

func init() {
	FeedbackCmd.Flags().StringVar(&name, "name", "", "Your name")
	FeedbackCmd.Flags().StringVar(&email, "email", "", "Your email")
	FeedbackCmd.Flags().StringVar(&rating, "rating", "", "Rating 1-5")
	FeedbackCmd.Flags().StringVar(&message, "message", "", "Your feedback")
}
