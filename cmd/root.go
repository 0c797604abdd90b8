// ABOUTME: Root command for the civicfix CLI
// ABOUTME: Handles global flags, configuration, and session wiring

package cmd

import (
	"os"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/civicfix/civicfix-cli/internal/session"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:5000"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "civicfix",
	Short: "CLI for the CivicFix issue-reporting platform",
	Long: `civicfix is a command-line interface for the CivicFix community
issue-reporting platform.

Report potholes, broken street lights, and other civic problems, track
their progress, and browse what your neighbours have reported. Run with
no subcommand arguments via 'civicfix tui' for the interactive interface.

Environment Variables:
  CIVICFIX_API_URL  Backend API URL (default: http://localhost:5000)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CIVICFIX_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("CIVICFIX_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// newSession wires the persisted token store, the API client reading from
// it, and the holder coordinating both
func newSession() (*client.Client, *session.Holder) {
	store := session.NewStore(session.DefaultConfigDir())
	api := client.New(GetAPIURL(), store)
	return api, session.NewHolder(store, api)
}
