package cmd

import (
	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard matching your role",
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
		decision := authflow.Decide(snap.SessionPresent(), snap.Role, authflow.RoleAdmin)

		switch {
		case !snap.SessionPresent():
			pterm.Warning.Println("Not logged in. Run `opsctl auth login` first.")
			return nil
		case decision.Kind == authflow.DecisionPending:
			pterm.Info.Println("Loading user profile... your role is still being provisioned. Try again shortly.")
			return nil
		case decision.Kind == authflow.DecisionServe:
			pterm.DefaultSection.Println("Admin Dashboard")
			pterm.Info.Println("Admin access granted. Try `opsctl incidents list` and `opsctl incidents resolve <id>`.")
		default:
			pterm.DefaultSection.Println("User Dashboard")
			pterm.Info.Println("User access granted. Try `opsctl incidents report` and `opsctl routes`.")
		}

		if snap.Identity != nil {
			pterm.Info.Printf("Signed in as %s\n", snap.Identity.Email)
		}
		return nil
	},
}
