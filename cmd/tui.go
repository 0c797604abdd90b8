// ABOUTME: TUI command launching the interactive terminal interface
// ABOUTME: Resumes any persisted session before handing over the screen

package cmd

import (
	"fmt"
	"os"

	"github.com/civicfix/civicfix-cli/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long:  `Launch the full-screen terminal interface for browsing the issue map, reporting issues, and administration.`,
	Run: func(cmd *cobra.Command, args []string) {
		api, holder := newSession()
		if err := tui.Run(api, holder); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
