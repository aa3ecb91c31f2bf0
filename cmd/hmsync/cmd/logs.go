package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SophieMSL/hubspot-monday-sync/internal/cmd/output"
	"github.com/SophieMSL/hubspot-monday-sync/internal/config"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/constants"
	"github.com/SophieMSL/hubspot-monday-sync/pkg/journal"
)

var (
	logsAddr     string
	logsSeverity string
	logsLimit    int
)

// logsCmd represents the logs command.
var logsCmd = &cobra.Command{
	Use:     "logs",
	GroupID: "management",
	Short:   "Show recent journal entries from a running bridge",
	Long: `Fetch the activity journal from a running bridge over its admin API.

The journal is an in-memory ring of the 50 most recent entries, newest
first. Each pass, created or updated record, and failure produces one
entry.`,
	Example: `  hmsync logs

  # Only failures
  hmsync logs --severity error

  # The five most recent entries from a remote bridge
  hmsync logs --addr http://bridge.internal:8600 --limit 5`,
	RunE: runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().StringVar(&logsAddr, "addr", "", "Bridge base URL (default derived from config, http://localhost:8600)")
	logsCmd.Flags().StringVar(&logsSeverity, "severity", "", "Filter by severity (info, warn, error)")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 0, "Maximum entries to return (0 for all)")
}

func runLogs(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	base := logsAddr
	if base == "" {
		base = baseURL(cfg.Server.Addr)
	}

	endpoint, err := logsEndpoint(base)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if cfg.Server.AuthToken != "" {
		req.Header.Set("X-API-Token", cfg.Server.AuthToken)
	}

	client := &http.Client{Timeout: constants.DefaultTimeout}
	resp, err := client.Do(req)
	if err != nil {
		cmd.SilenceUsage = true
		return fmt.Errorf("reaching bridge at %s: %w (is it running?)", base, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Data struct {
			Entries []journal.Entry `json:"entries"`
			Count   int             `json:"count"`
		} `json:"data"`
		Error *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		cmd.SilenceUsage = true
		if envelope.Error != nil {
			return fmt.Errorf("bridge returned %s: %s", resp.Status, envelope.Error.Message)
		}
		return fmt.Errorf("bridge returned %s", resp.Status)
	}

	return output.FormatEntries(envelope.Data.Entries, globalFlags)
}

// logsEndpoint builds the journal endpoint URL with the filter parameters.
func logsEndpoint(base string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/api/v1/logs")
	if err != nil {
		return "", fmt.Errorf("invalid bridge address %q: %w", base, err)
	}

	query := u.Query()
	if logsSeverity != "" {
		query.Set("severity", logsSeverity)
	}
	if logsLimit > 0 {
		query.Set("limit", strconv.Itoa(logsLimit))
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

/// baseURL turns a listen address into a reachable base URL. A bare ":8600"
// listens on every interface, so localhost is the way to reach it.
func baseURL(addr string) string {
	if addr == "" {
		return "http://localhost:8600"
	}
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
