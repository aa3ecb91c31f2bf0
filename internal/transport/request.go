package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/SophieMSL/hubspot-monday-sync/pkg/errors"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/logging"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become an APIError carrying the platform, status, and body.
func DecodeResponse(platform string, resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Msg("failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &errors.APIError{
			Platform:   platform,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Path
		}
		return apiErr
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
