// Package config loads the bridge configuration from config files,
// environment variables, and .env files.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. HMSYNC_HUBSPOT_TOKEN for the hubspot.token key.
const envPrefix = "HMSYNC"

// Config holds the full bridge configuration.
type Config struct {
	Hubspot HubspotConfig
	Monday  MondayConfig
	Sync    SyncConfig
	Server  ServerConfig
	Logging LoggingConfig

	// PolicyPath is the location of the field ownership policy file.
	PolicyPath string

	// ConfigFile is the config file actually used, if any.
	ConfigFile string
}

// HubspotConfig holds HubSpot API settings.
type HubspotConfig struct {
	// Token is a private app access token.
	Token string
}

// MondayConfig holds Monday.com API settings.
type MondayConfig struct {
	Token   string
	BoardID string
	Columns ColumnsConfig
}

// ColumnsConfig names the board columns that carry the non-name fields.
type ColumnsConfig struct {
	Description string
	Status      string
	Priority    string
}

// SyncConfig holds reconciliation settings.
type SyncConfig struct {
	// Enabled controls whether sync passes run at all.
	Enabled bool

	// Interval is the periodic full-pass interval.
	Interval time.Duration

	// Debounce is the quiet window applied to webhook triggers.
	Debounce time.Duration
}

// ServerConfig holds admin server settings.
type ServerConfig struct {
	Addr string

	// AuthToken protects the API routes when set. Webhook and health
	// routes stay open.
	AuthToken string

	// RateLimit is the per-client requests-per-minute cap. Zero disables
	// rate limiting.
	RateLimit int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from all sources in order of precedence:
// environment variables, .env files, the config file, then defaults.
// An empty path searches ~/.hmsync and the working directory for hmsync.yaml.
func Load(path string) (*Config, error) {
	// Load .env files first so Viper's env binding sees them
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hmsync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hmsync"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !stderrors.As(err, &notFound) {
			return nil, errors.NewConfigError("file", "failed to read config file", err)
		}
	}

	cfg := &Config{
		Hubspot: HubspotConfig{
			Token: v.GetString("hubspot.token"),
		},
		Monday: MondayConfig{
			Token:   v.GetString("monday.token"),
			BoardID: v.GetString("monday.board_id"),
			Columns: ColumnsConfig{
				Description: v.GetString("monday.columns.description"),
				Status:      v.GetString("monday.columns.status"),
				Priority:    v.GetString("monday.columns.priority"),
			},
		},
		Sync: SyncConfig{
			Enabled:  v.GetBool("sync.enabled"),
			Interval: v.GetDuration("sync.interval"),
			Debounce: v.GetDuration("sync.debounce"),
		},
		Server: ServerConfig{
			Addr:      v.GetString("server.addr"),
			AuthToken: v.GetString("server.auth_token"),
			RateLimit: v.GetInt("server.rate_limit"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			Output: v.GetString("logging.output"),
		},
		PolicyPath: v.GetString("policy_path"),
		ConfigFile: v.ConfigFileUsed(),
	}

	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = constants.DefaultSyncInterval
	}
	if cfg.Sync.Debounce <= 0 {
		cfg.Sync.Debounce = constants.DefaultDebounceDelay
	}
	if cfg.PolicyPath == "" {
		cfg.PolicyPath = constants.DefaultPolicyPath
	}
	cfg.PolicyPath = ExpandPath(cfg.PolicyPath)

	return cfg, nil
}

// setDefaults registers defaults for every known key. Registering the key
// also makes AutomaticEnv resolve it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("hubspot.token", "")
	v.SetDefault("monday.token", "")
	v.SetDefault("monday.board_id", "")
	v.SetDefault("monday.columns.description", "")
	v.SetDefault("monday.columns.status", "")
	v.SetDefault("monday.columns.priority", "")
	v.SetDefault("sync.enabled", true)
	v.SetDefault("sync.interval", constants.DefaultSyncInterval)
	v.SetDefault("sync.debounce", constants.DefaultDebounceDelay)
	v.SetDefault("server.addr", ":8600")
	v.SetDefault("server.auth_token", "")
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("policy_path", "")
}

// Validate checks that the settings needed to reach both platforms are
// present. A configuration failing here is surfaced before any pass starts.
func (c *Config) Validate() error {
	if c.Hubspot.Token == "" {
		return errors.NewConfigError("hubspot", "token is required (set HMSYNC_HUBSPOT_TOKEN)", nil)
	}
	if c.Monday.Token == "" {
		return errors.NewConfigError("monday", "token is required (set HMSYNC_MONDAY_TOKEN)", nil)
	}
	if c.Monday.BoardID == "" {
		return errors.NewConfigError("monday", "board_id is required (set HMSYNC_MONDAY_BOARD_ID)", nil)
	}
	if c.Sync.Interval <= 0 {
		return errors.NewConfigError("sync", "interval must be positive", nil)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides keys that are already set, so the earlier file wins: .env.local
// first makes it override .env.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}
