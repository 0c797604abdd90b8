// ABOUTME: Logout command removing every persisted session artifact
// ABOUTME: Safe to run repeatedly; logging out twice is not an error

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and remove the persisted session",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns an exit code
func runLogout(w io.Writer) int {
	_, holder := newSession()
	holder.Logout()
	fmt.Fprintln(w, "Logged out")
	return 0
}
