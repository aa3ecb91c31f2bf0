// Package emoji provides symbol constants for CLI output.
// These symbols create a consistent visual language across all command-line commands.
package emoji

// Symbol constants for CLI output provide a consistent visual language across commands.
const (
	// Success represents successful completion of an operation.
	// Used for: completed passes, saved policy files, clean shutdowns.
	Success = "✓"

	// Error represents failures or missing required configuration.
	// Used for: failed passes, missing tokens, validation errors.
	Error = "✗"

	// Stop represents critical stops, shutdowns, or blocking conditions.
	// Used for: graceful shutdowns, stop signals.
	Stop = "✗"

	// Warning represents warnings or non-critical issues.
	// Used for: partial passes, skipped directions.
	Warning = "!"

	// Info represents informational messages.
	// Used for: general information, tips, context.
	Info = "i"
)
