package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/emoji"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/output"
	"github.com/SophieMSL/hubspot-monday-sync/internal/config"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/records"
)

var policyFile string

// policyCmd represents the policy command group.
var policyCmd = &cobra.Command{
	Use:     "policy",
	GroupID: "management",
	Short:   "Inspect or change the field ownership policy",
	Long: `The field ownership policy decides, per logical field, which platform
is authoritative: hubspot, monday, or both. A pass only pushes a field to
the target when the policy assigns it to the driving side.

The policy lives in a YAML snapshot file that a running bridge reads at
startup and rewrites on every change through the admin API.`,
}

// policyGetCmd shows the current policy.
var policyGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the field ownership policy",
	Example: `  hmsync policy get
  hmsync policy get -o yaml`,
	RunE: runPolicyGet,
}

// policySetCmd assigns field owners and saves the snapshot.
var policySetCmd = &cobra.Command{
	Use:   "set field=owner [field=owner ...]",
	Short: "Assign owners to fields and save the policy snapshot",
	Long: `Assign one or more field owners. Fields are title, description,
status, and priority; owners are hubspot, monday, or both. All assignments
are validated before any of them is applied.`,
	Example: `  # Monday owns the status field
  hmsync policy set status=monday

  # HubSpot owns everything except the description
  hmsync policy set title=hubspot description=both status=hubspot priority=hubspot`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPolicySet,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyGetCmd)
	policyCmd.AddCommand(policySetCmd)

	policyCmd.PersistentFlags().StringVar(&policyFile, "file", "", "Policy snapshot file (default from config)")
}

func runPolicyGet(cmd *cobra.Command, _ []string) error {
	path, err := resolvePolicyPath()
	if err != nil {
		return err
	}

	p, err := loadPolicyOrDefault(path)
	if err != nil {
		return err
	}

	return output.FormatPolicy(p, globalFlags)
}

func runPolicySet(cmd *cobra.Command, args []string) error {
	path, err := resolvePolicyPath()
	if err != nil {
		return err
	}

	p, err := loadPolicyOrDefault(path)
	if err != nil {
		return err
	}

	// Validate every assignment before applying any, so a bad pair
	// changes nothing
	type assignment struct {
		field records.Field
		owner policy.Owner
	}
	assignments := make([]assignment, 0, len(args))
	for _, arg := range args {
		field, rawOwner, ok := strings.Cut(arg, "=")
		if !ok {
			cmd.SilenceUsage = true
			return &errors.ValidationError{
				Field:   "assignment",
				Value:   arg,
				Message: "expected field=owner",
			}
		}
		if !records.Field(field).IsValid() {
			cmd.SilenceUsage = true
			return &errors.ValidationError{
				Field:   "field",
				Value:   field,
				Message: "unknown field (title, description, status, priority)",
			}
		}
		owner, err := policy.ParseOwner(rawOwner)
		if err != nil {
			cmd.SilenceUsage = true
			return err
		}
		assignments = append(assignments, assignment{field: records.Field(field), owner: owner})
	}

	for _, a := range assignments {
		if err := p.Set(a.field, a.owner); err != nil {
			return err
		}
	}

	if err := p.Save(path); err != nil {
		return err
	}

	if !globalFlags.Quiet {
		fmt.Printf("%s Policy saved to %s\n\n", emoji.Success, path)
	}
	return output.FormatPolicy(p, globalFlags)
}

// resolvePolicyPath picks the snapshot path: the --file flag wins over the
// config file setting.
func resolvePolicyPath() (string, error) {
	if policyFile != "" {
		return config.ExpandPath(policyFile), nil
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return "", err
	}
	return cfg.PolicyPath, nil
}

// loadPolicyOrDefault reads the snapshot, falling back to the default policy
// when no snapshot exists yet.
func loadPolicyOrDefault(path string) (policy.Policy, error) {
	p, err := policy.Load(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return policy.Default(), nil
		}
		return nil, err
	}
	return p, nil
}
