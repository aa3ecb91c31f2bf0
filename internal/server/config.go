package server

import "time"

// Config holds server configuration.
type Config struct {
	// Listen address, host:port
	Addr string

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Admin API token; empty leaves the API open
	AuthToken string

	// Requests per minute per IP (0 to disable)
	RateLimit int

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Version reported by the health endpoint
	Version string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8600",
		PathPrefix:   "/api/v1",
		CORSEnabled:  false,
		CORSOrigins:  []string{},
		AuthToken:    "",
		RateLimit:    100,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		Version:      "dev",
	}
}
