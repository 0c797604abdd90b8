// ABOUTME: Upvote command toggling support for an issue
// ABOUTME: Add with 'upvote <id>', withdraw with --remove

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/spf13/cobra"
)

var upvoteRemove bool

var upvoteCmd = &cobra.Command{
	Use:   "upvote <issue-id>",
	Short: "Upvote an issue (or withdraw your upvote)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUpvote(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	upvoteCmd.Flags().BoolVar(&upvoteRemove, "remove", false, "Withdraw a previous upvote")
	rootCmd.AddCommand(upvoteCmd)
}

// runUpvote toggles the upvote and returns an exit code
func runUpvote(ctx context.Context, w io.Writer, arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Error: invalid issue id %q\n", arg)
		return 1
	}

	api, _ := newSession()

	if upvoteRemove {
		err = api.RemoveUpvote(ctx, id)
	} else {
		err = api.Upvote(ctx, id)
	}
	if err != nil {
		if client.IsSessionExpired(err) {
			fmt.Fprintln(w, "Session expired, please log in again")
			return 1
		}
		if apiErr, ok := client.AsAPIError(err); ok {
			if apiErr.IsAuth() {
				fmt.Fprintln(w, "Not logged in; run 'civicfix login' first")
				return 1
			}
			fmt.Fprintf(w, "Rejected: %s\n", apiErr.Message)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if upvoteRemove {
		fmt.Fprintf(w, "Upvote removed from issue #%d\n", id)
	} else {
		fmt.Fprintf(w, "Upvoted issue #%d\n", id)
	}
	return 0
}
