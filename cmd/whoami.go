// ABOUTME: Whoami command verifying the stored session against the backend
// ABOUTME: Prints the account the persisted token belongs to

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged-in account",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami verifies the session and returns an exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	api, _ := newSession()

	user, err := api.Verify(ctx)
	if err != nil {
		if client.IsSessionExpired(err) {
			fmt.Fprintln(w, "Not logged in (session expired)")
			return 1
		}
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsAuth() {
			fmt.Fprintln(w, "Not logged in")
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	fmt.Fprintf(w, "%s <%s>\nRole: %s\n", user.FullName(), user.Email, user.Role)
	return 0
}
