package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// AuthConfig holds token authentication configuration.
type AuthConfig struct {
	Enabled     bool
	Token       string
	HeaderName  string
	PublicPaths []string
}

// DefaultAuthConfig returns default authentication configuration.
// Health and webhook receiver paths stay public: HubSpot and Monday.com
// deliver webhooks with their own signing schemes, not our admin token.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:    false,
		Token:      "",
		HeaderName: "X-API-Token",
		PublicPaths: []string{
			"/health",
			"/api/v1/health",
			"/webhooks/hubspot",
			"/webhooks/monday",
		},
	}
}

// Auth middleware validates the admin token for protected endpoints.
func Auth(config AuthConfig, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip authentication if disabled
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			// Skip authentication for public paths
			if isPublicPath(r.URL.Path, config.PublicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			token := extractToken(r, config)

			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(config.Token)) != 1 {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Bool("token_provided", token != "").
					Msg("Authentication failed")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"data":null,"error":{"code":"UNAUTHORIZED","message":"Invalid or missing token","details":"Provide a valid token in the ` + config.HeaderName + ` header"}}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isPublicPath checks if a path is in the public paths list.
func isPublicPath(path string, publicPaths []string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}

// extractToken extracts the admin token from the request.
func extractToken(r *http.Request, config AuthConfig) string {
	// Try custom header first
	token := r.Header.Get(config.HeaderName)
	if token != "" {
		return token
	}

	// Try Authorization header
	auth := r.Header.Get("Authorization")
	if auth != "" {
		// Support both "Bearer <token>" and raw token
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
		return auth
	}

	return ""
}
