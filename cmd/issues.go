// ABOUTME: Issues command listing reported problems from the command line
// ABOUTME: Supports the same filters as the map plus a --mine shortcut

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
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	issuesStatus   string
	issuesType     string
	issuesPriority string
	issuesPage     int
	issuesPerPage  int
	issuesMine     bool
)

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List reported issues",
	Long: `List issues reported on the platform, newest first. Filters combine;
--mine restricts the listing to issues reported by the logged-in account.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runIssues(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	issuesCmd.Flags().StringVar(&issuesStatus, "status", "", "Filter by status (submitted, verified, in_progress, resolved, closed)")
	issuesCmd.Flags().StringVar(&issuesType, "type", "", "Filter by issue type")
	issuesCmd.Flags().StringVar(&issuesPriority, "priority", "", "Filter by priority (low, medium, high, urgent)")
	issuesCmd.Flags().IntVar(&issuesPage, "page", 1, "Page number")
	issuesCmd.Flags().IntVar(&issuesPerPage, "per-page", 20, "Results per page")
	issuesCmd.Flags().BoolVar(&issuesMine, "mine", false, "Only issues reported by the logged-in account")
	rootCmd.AddCommand(issuesCmd)
}

// runIssues lists issues and returns an exit code
func runIssues(ctx context.Context, w io.Writer) int {
	api, holder := newSession()

	filter := client.IssueFilter{
		Status:    issuesStatus,
		IssueType: issuesType,
		Priority:  issuesPriority,
		Page:      issuesPage,
		PerPage:   issuesPerPage,
	}

	if issuesMine {
		if err := holder.Resume(ctx); err != nil || !holder.IsAuthenticated() {
			fmt.Fprintln(w, "Not logged in; --mine needs a session")
			return 1
		}
		filter.UserID = holder.User().ID
	}

	list, err := api.ListIssues(ctx, filter)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(list, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(list.Issues) == 0 {
		fmt.Fprintln(w, "No issues match.")
		return 0
	}

	for _, issue := range list.Issues {
		age := ""
		if t, ok := client.ParseTimestamp(issue.CreatedAt); ok {
			age = humanize.Time(t)
		}
		fmt.Fprintf(w, "#%-5d %-12s %-8s %s  (%d upvotes, %d comments)  %s\n",
			issue.ID, issue.Status, issue.Priority, issue.Title,
			issue.UpvoteCount, issue.CommentCount, age)
	}

	p := list.Pagination
	if p.Pages > 1 {
		fmt.Fprintf(w, "\nPage %d of %d (%d total)\n", p.Page, p.Pages, p.Total)
	}

	return 0
}
