package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/globals"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/output"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
)

var (
	configFile  string
	logFormat   string
	globalFlags *globals.Flags

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "hmsync",
	Short: "HubSpot / Monday.com ticket sync bridge",
	Long: `hmsync keeps HubSpot tickets and the items of a Monday.com board
mutually consistent. Records are matched by name, and a per-field ownership
policy decides which platform's value wins for the title, description,
status, and priority of each matched pair.

Run a one-shot reconciliation pass with "hmsync sync", or start the
long-running bridge with "hmsync serve" to get scheduled passes, webhook
triggers, and the admin API.`,
	PersistentPreRunE: setupCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	// Set version information
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Pass context to root command
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Add command groups for better organization
	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands:",
	})

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches ./hmsync.yaml and $HOME/.hmsync/hmsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json, auto)")
	globalFlags = globals.AddFlags(rootCmd)
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	// Setup output format based on terminal detection
	if globalFlags.Output == "" {
		globalFlags.Output = string(output.DetectFormat(""))
	}

	return nil
}

// initLogging sets up the logging system based on flags and environment.
// Config files are read per command through internal/config, so only the
// flag- and env-driven logging setup happens this early.
func initLogging() {
	// Determine log level
	level := zerolog.InfoLevel
	if globalFlags != nil && globalFlags.Verbose {
		level = zerolog.DebugLevel
	}
	if globalFlags != nil && globalFlags.Quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	// The flag wins over the environment
	format := logFormat
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}

	// Configure the logger
	config := &logging.Config{
		Level:     level.String(),
		Format:    format,
		Output:    os.Getenv("LOG_OUTPUT"),
		NoColor:   (globalFlags != nil && globalFlags.NoColor) || os.Getenv("NO_COLOR") != "",
		AddCaller: level <= zerolog.DebugLevel,
	}

	// Use auto format detection if not specified
	if config.Format == "" {
		config.Format = "auto"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	logging.Configure(config)
}
