package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	bridge "github.com/SophieMSL/hubspot-monday-sync"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/emoji"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/output"
	"github.com/SophieMSL/hubspot-monday-sync/internal/config"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

var (
	syncDirection string
	syncDryRun    bool
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:     "sync",
	GroupID: "core",
	Short:   "Run one reconciliation pass and exit",
	Long: `Run a single reconciliation pass against the configured platforms.

A full pass runs both directions in order: HubSpot pushes to Monday first,
then Monday pushes back to HubSpot. Use --direction to run only one side.
With --dry-run the pass computes its create/update plan but touches
neither platform.`,
	Example: `  # Full bidirectional pass
  hmsync sync

  # One direction only
  hmsync sync --direction monday_to_hubspot

  # Show what a pass would change
  hmsync sync --dry-run`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVarP(&syncDirection, "direction", "d", "", "Run a single direction (hubspot_to_monday or monday_to_hubspot)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Compute the plan without touching either platform")
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if syncDirection != "" && !records.Direction(syncDirection).IsValid() {
		cmd.SilenceUsage = true
		return &errors.ValidationError{
			Field:   "direction",
			Value:   syncDirection,
			Message: "unknown direction",
		}
	}

	b, err := buildSyncBridge(cfg)
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}
	defer func() { _ = b.Close() }()

	if syncDryRun && !globalFlags.Quiet {
		fmt.Printf("%s Dry run: computing the plan without applying it\n\n", emoji.Info)
	}

	var results bridge.Results
	var passErr error
	if syncDirection != "" {
		result, dirErr := b.SyncDirection(cmd.Context(), records.Direction(syncDirection))
		passErr = dirErr
		if result != nil {
			results = bridge.Results{result}
		}
	} else {
		results, passErr = b.Sync(cmd.Context())
	}

	if len(results) > 0 {
		if formatErr := output.FormatResults(results, globalFlags); formatErr != nil {
			return formatErr
		}
	}

	if passErr != nil {
		cmd.SilenceUsage = true
		if len(results) > 0 {
			fmt.Printf("\n%s Pass partially failed: %v\n", emoji.Warning, passErr)
		}
		return passErr
	}

	if !globalFlags.Quiet {
		fmt.Printf("\n%s %s\n", emoji.Success, results.Summary())
	}

	return nil
}

// buildSyncBridge wires a bridge for a one-shot pass: no schedule, no
// webhook debouncing, dry-run per flag.
func buildSyncBridge(cfg *config.Config) (bridge.Bridge, error) {
	hubspotClient, mondayClient := buildClients(cfg)

	return bridge.New(
		bridge.WithHubspot(hubspotClient),
		bridge.WithMonday(mondayClient),
		bridge.WithPolicyPath(cfg.PolicyPath),
		bridge.WithDryRun(syncDryRun),
	)
}
