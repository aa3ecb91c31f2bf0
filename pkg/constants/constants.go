// Package constants provides shared constants used throughout the
// hubspot-monday-sync codebase. This includes timeouts, limits, file
// permissions, and other configuration values that should be consistent
// across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to platform APIs
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultTimeout is the standard timeout for general operations
	DefaultTimeout = 10 * time.Second

	// PassContextTimeout is the timeout for one full bidirectional pass
	PassContextTimeout = 5 * time.Minute

	// DefaultSyncInterval is the default interval between automatic sync passes
	DefaultSyncInterval = 5 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 10 * time.Minute

	// ShutdownTimeout is the grace period for draining the HTTP server
	ShutdownTimeout = 10 * time.Second
)

// Debounce constants govern webhook-triggered passes
const (
	// DefaultDebounceDelay is how long a webhook trigger waits before firing,
	// so near-simultaneous notifications collapse into one pass
	DefaultDebounceDelay = 3 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for sensitive files like API tokens (rw-------)
	SecureFilePermissions = 0600
)

// Limit constants define various limits and capacities
const (
	// JournalCapacity is the number of entries the in-memory log ring retains
	JournalCapacity = 50

	// DefaultPageSize is the page size used when listing records from a platform
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size for paginated results
	MaxPageSize = 500

	// MaxTitleLength is the maximum allowed length for identity keys
	MaxTitleLength = 256

	// MaxDescriptionLength is the maximum allowed length for descriptions
	MaxDescriptionLength = 4096

	// ChannelBufferSize is the default buffer size for channels
	ChannelBufferSize = 100
)

// Logging constants
const (
	// LogRotationSize is the maximum size of a log file before rotation (10 MB), in megabytes
	LogRotationSize = 10

	// LogRotationAgeDays is the maximum age in days of log files before deletion
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Network constants
const (
	// MaxIdleConnections is the maximum number of idle connections in the pool
	MaxIdleConnections = 100

	// MaxConnectionsPerHost is the maximum number of connections per host
	MaxConnectionsPerHost = 10
)

// Platform endpoint constants
const (
	// HubspotAPIURL is the base URL for the HubSpot CRM API
	HubspotAPIURL = "https://api.hubapi.com"

	// MondayAPIURL is the Monday.com GraphQL endpoint
	MondayAPIURL = "https://api.monday.com/v2"
)

// Path constants
const (
	// DefaultConfigPath is the default path for configuration files
	DefaultConfigPath = "~/.hmsync/config.yaml"

	// DefaultPolicyPath is the default path for the policy snapshot
	DefaultPolicyPath = "~/.hmsync/policy.yaml"

	// DefaultLogsPath is the default path for log files
	DefaultLogsPath = "~/.hmsync/logs"
)

// Format constants
const (
	// TimeFormatISO8601 is the ISO 8601 time format
	TimeFormatISO8601 = time.RFC3339

	// TimeFormatHuman is a human-readable time format
	TimeFormatHuman = "Jan 2, 2006 at 3:04pm MST"

	// TimeFormatLog is the format used in log files
	TimeFormatLog = "2006-01-02 15:04:05.000"
)
