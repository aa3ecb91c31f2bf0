package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "board",
			ID:       "4567",
		}
		assert.Equal(t, "board with ID 4567 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("ticket", "901")
		assert.Equal(t, "ticket with ID 901 not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("item", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "api_key",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field api_key: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "invalid policy",
		}
		assert.Equal(t, "validation failed: invalid policy", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("board_id", "", "cannot be empty")
		assert.Contains(t, err.Error(), "board_id")
		assert.Contains(t, err.Error(), "cannot be empty")
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Platform:   "hubspot",
			StatusCode: 429,
			Message:    "rate limit exceeded",
			Endpoint:   "https://api.hubapi.com/crm/v3/objects/tickets",
		}
		assert.Contains(t, err.Error(), "hubspot")
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("connection timeout")
		err := &pkgerrors.APIError{
			Platform: "monday",
			Message:  "request failed",
			Err:      baseErr,
		}
		assert.Contains(t, err.Error(), "monday")
		assert.Contains(t, err.Error(), "request failed")
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewAPIError("monday", 500, "internal server error")
		assert.Contains(t, err.Error(), "monday")
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("status maps to sentinels", func(t *testing.T) {
		rateLimited := pkgerrors.NewAPIError("hubspot", 429, "slow down")
		assert.True(t, pkgerrors.IsRateLimited(rateLimited))

		unavailable := pkgerrors.NewAPIError("monday", 503, "maintenance")
		assert.True(t, pkgerrors.IsPlatformUnavailable(unavailable))
	})
}

func TestApplyError(t *testing.T) {
	t.Run("create failure", func(t *testing.T) {
		err := pkgerrors.NewApplyError("hubspot_to_monday", "create", "Bug 1", errors.New("board is locked"))
		assert.Contains(t, err.Error(), "create")
		assert.Contains(t, err.Error(), "Bug 1")
		assert.Contains(t, err.Error(), "hubspot_to_monday")
		assert.Contains(t, err.Error(), "board is locked")
		assert.True(t, pkgerrors.IsApplyError(err))
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("column not found")
		err := &pkgerrors.ApplyError{
			Direction: "monday_to_hubspot",
			Operation: "update",
			Key:       "Login broken",
			Err:       baseErr,
		}
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("not an apply error", func(t *testing.T) {
		assert.False(t, pkgerrors.IsApplyError(errors.New("plain")))
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "hubspot",
			Message:   "token: invalid format",
		}
		assert.Contains(t, err.Error(), "hubspot")
		assert.Contains(t, err.Error(), "token")
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewConfigError("monday", "board_id cannot be empty", nil)
		assert.Contains(t, err.Error(), "monday")
		assert.Contains(t, err.Error(), "board_id")
		assert.Contains(t, err.Error(), "cannot be empty")
		assert.True(t, pkgerrors.IsConfigError(err))
	})
}

func TestSyncError(t *testing.T) {
	t.Run("with stage", func(t *testing.T) {
		err := &pkgerrors.SyncError{
			Direction: "hubspot_to_monday",
			Stage:     "fetch_source",
			Err:       errors.New("API unavailable"),
		}
		assert.Contains(t, err.Error(), "hubspot_to_monday")
		assert.Contains(t, err.Error(), "fetch_source")
		assert.Contains(t, err.Error(), "API unavailable")
	})

	t.Run("without stage", func(t *testing.T) {
		err := pkgerrors.NewSyncError("monday_to_hubspot", "", errors.New("authentication failed"))
		assert.Contains(t, err.Error(), "monday_to_hubspot")
		assert.Contains(t, err.Error(), "authentication failed")
		assert.NotContains(t, err.Error(), "during")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("network error")
		err := &pkgerrors.SyncError{
			Direction: "hubspot_to_monday",
			Err:       baseErr,
		}
		assert.Equal(t, baseErr, err.Unwrap())
	})
}

func TestParseError(t *testing.T) {
	t.Run("with file and position", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "json",
			File:    "config.json",
			Line:    10,
			Column:  5,
			Message: "unexpected token",
		}
		assert.Contains(t, err.Error(), "json")
		assert.Contains(t, err.Error(), "config.json")
		assert.Contains(t, err.Error(), "10:5")
		assert.Contains(t, err.Error(), "unexpected token")
	})

	t.Run("with file only", func(t *testing.T) {
		err := &pkgerrors.ParseError{
			Format:  "yaml",
			File:    "policy.yaml",
			Message: "invalid indentation",
		}
		assert.Contains(t, err.Error(), "yaml")
		assert.Contains(t, err.Error(), "policy.yaml")
		assert.Contains(t, err.Error(), "invalid indentation")
	})

	t.Run("constructor and wrap", func(t *testing.T) {
		baseErr := errors.New("EOF")
		err := pkgerrors.NewParseError("yaml", "policy.yaml", "unexpected end", baseErr)
		assert.Contains(t, err.Error(), "yaml")
		assert.Equal(t, baseErr, err.Unwrap())

		wrapped := pkgerrors.WrapParse("json", "payload.json", baseErr)
		parseErr, ok := wrapped.(*pkgerrors.ParseError)
		require.True(t, ok)
		assert.Equal(t, "json", parseErr.Format)
		assert.Equal(t, "payload.json", parseErr.File)
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/policy.yaml",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Contains(t, err.Error(), "read")
		assert.Contains(t, err.Error(), "/tmp/policy.yaml")
		assert.Contains(t, err.Error(), "permission denied")
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/policy.yaml", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("network error")
		err := pkgerrors.WrapIO("open", "/etc/hmsync/policy.yaml", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "open", ioErr.Operation)
		assert.Equal(t, "/etc/hmsync/policy.yaml", ioErr.Path)
	})
}

func TestAuthenticationError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.AuthenticationError{
			Platform: "hubspot",
			Method:   "bearer",
			Message:  "invalid token format",
		}
		assert.Contains(t, err.Error(), "hubspot")
		assert.Contains(t, err.Error(), "bearer")
		assert.Contains(t, err.Error(), "invalid token format")
		assert.True(t, errors.Is(err, pkgerrors.ErrAPIKeyInvalid))
	})

	t.Run("with wrapped error", func(t *testing.T) {
		baseErr := errors.New("token expired")
		err := pkgerrors.NewAuthenticationError("monday", "api_key", "authentication failed", baseErr)
		assert.Contains(t, err.Error(), "monday")
		assert.Contains(t, err.Error(), "api_key")
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("is API key error", func(t *testing.T) {
		err := &pkgerrors.AuthenticationError{
			Platform: "hubspot",
			Method:   "bearer",
			Message:  "missing",
		}
		assert.True(t, pkgerrors.IsAPIKeyError(err))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("WrapValidation", func(t *testing.T) {
		err := pkgerrors.WrapValidation("priority", errors.New("unknown value"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "priority")
		assert.Contains(t, err.Error(), "unknown value")

		// nil error returns nil
		assert.Nil(t, pkgerrors.WrapValidation("field", nil))
	})

	t.Run("WrapIO", func(t *testing.T) {
		err := pkgerrors.WrapIO("write", "/tmp/file", errors.New("disk full"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "write")
		assert.Contains(t, err.Error(), "/tmp/file")

		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
	})

	t.Run("WrapAPI", func(t *testing.T) {
		err := pkgerrors.WrapAPI("hubspot", 429, errors.New("rate limit"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "hubspot")
		assert.Contains(t, err.Error(), "429")

		assert.Nil(t, pkgerrors.WrapAPI("monday", 200, nil))
	})

	t.Run("WrapSync", func(t *testing.T) {
		err := pkgerrors.WrapSync("hubspot_to_monday", "fetch_target", errors.New("boom"))
		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "hubspot_to_monday")
		assert.Contains(t, err.Error(), "fetch_target")

		assert.Nil(t, pkgerrors.WrapSync("monday_to_hubspot", "apply", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	t.Run("multiple wrapping", func(t *testing.T) {
		baseErr := errors.New("connection refused")
		apiErr := &pkgerrors.APIError{
			Platform: "monday",
			Message:  "failed to connect",
			Err:      baseErr,
		}
		syncErr := &pkgerrors.SyncError{
			Direction: "hubspot_to_monday",
			Stage:     "fetch_target",
			Err:       apiErr,
		}

		// Check unwrapping chain
		assert.Equal(t, apiErr, syncErr.Unwrap())
		assert.Equal(t, baseErr, apiErr.Unwrap())

		// errors.As should work through the chain
		var target *pkgerrors.APIError
		assert.True(t, errors.As(syncErr, &target))
		assert.Equal(t, "monday", target.Platform)
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrAlreadyExists", pkgerrors.ErrAlreadyExists},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrAPIKeyRequired", pkgerrors.ErrAPIKeyRequired},
		{"ErrAPIKeyInvalid", pkgerrors.ErrAPIKeyInvalid},
		{"ErrPlatformUnavailable", pkgerrors.ErrPlatformUnavailable},
		{"ErrRateLimited", pkgerrors.ErrRateLimited},
		{"ErrTimeout", pkgerrors.ErrTimeout},
		{"ErrCanceled", pkgerrors.ErrCanceled},
		{"ErrSyncDisabled", pkgerrors.ErrSyncDisabled},
		{"ErrPassInProgress", pkgerrors.ErrPassInProgress},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
