package incidents

import (
	"context"
	"fmt"

	"github.com/Sarvesh5273/PhantomOps/cmd/opsctl/internal/config"
	"github.com/Sarvesh5273/PhantomOps/pkg/authflow"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// IncidentsCmd is the parent command for incident operations.
var IncidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "Report and triage incidents",
}

func init() {
	IncidentsCmd.AddCommand(listCmd)
	IncidentsCmd.AddCommand(reportCmd)
	IncidentsCmd.AddCommand(resolveCmd)
	IncidentsCmd.AddCommand(enrichCmd)
}

// guardView applies the route guard before a role-gated command runs.
// Pending and redirect outcomes resolve to errors with a next-step hint
// rather than proceeding with a request the backend would reject.
func guardView(ctx context.Context, cfg *config.GlobalConfig, required authflow.Role) error {
	if err := cfg.Clients.Bootstrap(ctx); err != nil {
		return err
	}
	store, err := cfg.Clients.Store()
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	decision := authflow.Decide(snap.SessionPresent(), snap.Role, required)
	switch decision.Kind {
	case authflow.DecisionServe:
		return nil
	case authflow.DecisionPending:
		pterm.Info.Println("Loading user profile... your role is still being provisioned.")
		return fmt.Errorf("role not yet resolved, try again shortly")
	default:
		if decision.Target == authflow.LoginRoute {
			return fmt.Errorf("not logged in; run `opsctl auth login`")
		}
		return fmt.Errorf("this command requires the %q role; your dashboard is %s", required, decision.Target)
	}
}
