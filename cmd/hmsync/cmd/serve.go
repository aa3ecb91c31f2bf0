package cmd

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	bridge "github.com/SophieMSL/hubspot-monday-sync"
	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/emoji"
	"github.com/SophieMSL/hubspot-monday-sync/internal/config"
	"github.com/SophieMSL/hubspot-monday-sync/internal/platforms/hubspot"
	"github.com/SophieMSL/hubspot-monday-sync/internal/platforms/monday"
	"github.com/SophieMSL/hubspot-monday-sync/internal/server"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/policy"
)

var (
	serveAddr         string
	serveAuthToken    string
	serveRateLimit    int
	serveCORS         bool
	serveCORSOrigins  []string
	servePathPrefix   string
	serveReadTimeout  time.Duration
	serveWriteTimeout time.Duration
	serveIdleTimeout  time.Duration
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	GroupID: "core",
	Short:   "Start the bridge with the admin API and webhook receivers",
	Long: `Start the long-running bridge. Scheduled full passes run on the
configured interval, webhook notifications from either platform trigger
debounced passes, and the admin API exposes runtime controls.

Endpoints:
  - GET  /health                   liveness probe
  - GET  /api/v1/status            runtime status and counters
  - POST /api/v1/sync              trigger a pass (optional ?direction=)
  - GET|PUT /api/v1/policy         read or replace the field ownership policy
  - PUT  /api/v1/enabled           switch sync on or off
  - GET  /api/v1/logs              recent journal entries
  - GET  /api/v1/events/ws         websocket event stream
  - POST /webhooks/hubspot         HubSpot change notifications
  - POST /webhooks/monday          Monday change notifications (echoes challenge)`,
	Example: `  # Start on the configured address (default :8600)
  hmsync serve

  # Start on a custom address with an API token
  hmsync serve --addr :9000 --auth-token $HMSYNC_SERVER_AUTH_TOKEN

  # Enable CORS for a dashboard origin and rate limiting
  hmsync serve --cors --cors-origins "https://ops.example.com" --rate-limit 60`,
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle: runServe refers back to serveCmd.
	serveCmd.RunE = runServe

	rootCmd.AddCommand(serveCmd)

	// Server configuration flags; unset flags defer to the config file
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8600)")
	serveCmd.Flags().StringVar(&serveAuthToken, "auth-token", "", "API token guarding the admin routes (empty leaves them open)")
	serveCmd.Flags().IntVar(&serveRateLimit, "rate-limit", 0, "Requests per minute per IP (0 to disable)")

	// CORS flags
	serveCmd.Flags().BoolVar(&serveCORS, "cors", false, "Enable CORS")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Routing and timeout flags
	serveCmd.Flags().StringVar(&servePathPrefix, "prefix", "/api/v1", "API path prefix")
	serveCmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 10*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&serveWriteTimeout, "write-timeout", 10*time.Second, "HTTP write timeout")
	serveCmd.Flags().DurationVar(&serveIdleTimeout, "idle-timeout", 120*time.Second, "HTTP idle timeout")
}

// runServe starts the bridge and the admin API server.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Default()

	// Flags override the config file when set explicitly
	if serveCmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if serveCmd.Flags().Changed("auth-token") {
		cfg.Server.AuthToken = serveAuthToken
	}
	if serveCmd.Flags().Changed("rate-limit") {
		cfg.Server.RateLimit = serveRateLimit
	}

	logger.Info().
		Str("addr", cfg.Server.Addr).
		Str("prefix", servePathPrefix).
		Bool("cors", serveCORS).
		Bool("auth", cfg.Server.AuthToken != "").
		Int("rate_limit", cfg.Server.RateLimit).
		Dur("interval", cfg.Sync.Interval).
		Msg("Starting bridge")

	b, err := buildBridge(cfg)
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}

	// Hot reload the policy file while running. Losing the watcher is not
	// fatal; the policy stays editable through the API.
	if cfg.PolicyPath != "" {
		watcher, werr := config.NewWatcher()
		if werr != nil {
			logger.Warn().Err(werr).Msg("Policy hot reload unavailable")
		} else if werr := watcher.Start(cfg.PolicyPath); werr != nil {
			logger.Warn().Err(werr).Str("path", cfg.PolicyPath).Msg("Policy hot reload unavailable")
		} else {
			defer func() {
				if stopErr := watcher.Stop(); stopErr != nil {
					logger.Warn().Err(stopErr).Msg("Policy watcher stop had issues")
				}
			}()
			go watchPolicy(watcher, b, logger)
		}
	}

	// Assemble the admin server around the bridge
	serverCfg := server.DefaultConfig()
	serverCfg.Addr = cfg.Server.Addr
	serverCfg.PathPrefix = servePathPrefix
	serverCfg.CORSEnabled = serveCORS
	serverCfg.CORSOrigins = serveCORSOrigins
	serverCfg.AuthToken = cfg.Server.AuthToken
	serverCfg.RateLimit = cfg.Server.RateLimit
	serverCfg.ReadTimeout = serveReadTimeout
	serverCfg.WriteTimeout = serveWriteTimeout
	serverCfg.IdleTimeout = serveIdleTimeout
	serverCfg.Version = Version

	srv, err := server.New(b, serverCfg, logger)
	if err != nil {
		if closeErr := b.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("Bridge close failed during startup error")
		}
		return fmt.Errorf("creating server: %w", err)
	}

	// Start background services (event broker, websocket hub)
	srv.Start()

	httpServer := &http.Server{
		Addr:         serverCfg.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		IdleTimeout:  serverCfg.IdleTimeout,
	}

	// cmd.Context() carries the signal handling set up in Execute
	return startWithGracefulShutdown(cmd.Context(), httpServer, srv, b, logger)
}

// buildClients constructs the two platform clients from the loaded
// configuration.
func buildClients(cfg *config.Config) (*hubspot.Client, *monday.Client) {
	hubspotClient := hubspot.NewClient(cfg.Hubspot.Token)
	mondayClient := monday.NewClient(cfg.Monday.Token, cfg.Monday.BoardID,
		monday.WithColumns(monday.Columns{
			Description: cfg.Monday.Columns.Description,
			Status:      cfg.Monday.Columns.Status,
			Priority:    cfg.Monday.Columns.Priority,
		}),
	)
	return hubspotClient, mondayClient
}

// buildBridge wires the two platform clients into a bridge using the loaded
// configuration. The schedule always starts; a config with sync disabled
// starts the bridge switched off so the API can switch it back on.
func buildBridge(cfg *config.Config) (bridge.Bridge, error) {
	hubspotClient, mondayClient := buildClients(cfg)

	b, err := bridge.New(
		bridge.WithHubspot(hubspotClient),
		bridge.WithMonday(mondayClient),
		bridge.WithPolicyPath(cfg.PolicyPath),
		bridge.WithAutoSync(true),
		bridge.WithAutoSyncInterval(cfg.Sync.Interval),
		bridge.WithDebounceDelay(cfg.Sync.Debounce),
	)
	if err != nil {
		return nil, err
	}

	if !cfg.Sync.Enabled {
		b.SetEnabled(false)
	}

	return b, nil
}

// watchPolicy applies edits made to the policy file while the bridge runs.
// Applying a loaded policy re-saves the snapshot, which fires one more
// event; that event loads a policy identical to the current one and is
// skipped, so the cycle stops there.
func watchPolicy(w *config.Watcher, b bridge.Bridge, logger *zerolog.Logger) {
	for {
		select {
		case path, ok := <-w.Events():
			if !ok {
				return
			}
			next, err := policy.Load(path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Policy file changed but could not be loaded")
				continue
			}
			if maps.Equal(next, b.Policy()) {
				continue
			}
			if err := b.SetPolicy(next); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("Policy file changed but was rejected")
				continue
			}
			logger.Info().Str("path", path).Msg("Policy reloaded from file")

		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("Policy watcher error")
		}
	}
}

// startWithGracefulShutdown starts the HTTP server and drains it when the
// context is cancelled by a shutdown signal.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, b bridge.Bridge, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Msg("HTTP server listening")

		fmt.Printf("Bridge listening on %s\n", httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		if closeErr := b.Close(); closeErr != nil {
			logger.Warn().Err(closeErr).Msg("Bridge close failed after server error")
		}
		return err

	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Printf("\n%s Shutting down bridge...\n", emoji.Stop)

		// The parent context is already cancelled, so shutdown gets a
		// fresh one with its own deadline
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		if err := b.Close(); err != nil {
			logger.Warn().Err(err).Msg("Bridge close had issues")
		}

		logger.Info().Msg("Bridge stopped gracefully")
		fmt.Printf("%s Bridge stopped gracefully\n", emoji.Success)
		return nil
	}
}
