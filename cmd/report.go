// ABOUTME: Report command submitting a new issue non-interactively
// ABOUTME: Validates everything locally before the single multipart POST

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/spf13/cobra"
)

var reportInput client.ReportInput

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report a new issue",
	Long: `Report a new civic issue with a photo. All fields are required except
--priority (defaults to medium). The photo must be 5 MB or smaller.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runReport(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput.Title, "title", "", "Short summary of the problem")
	reportCmd.Flags().StringVar(&reportInput.Description, "description", "", "Full description")
	reportCmd.Flags().StringVar(&reportInput.IssueType, "type", "", "Issue type (e.g. pothole, street_light)")
	reportCmd.Flags().StringVar(&reportInput.Priority, "priority", client.PriorityMedium, "Priority (low, medium, high, urgent)")
	reportCmd.Flags().StringVar(&reportInput.Address, "address", "", "Street address of the problem")
	reportCmd.Flags().Float64Var(&reportInput.Latitude, "lat", 0, "Latitude")
	reportCmd.Flags().Float64Var(&reportInput.Longitude, "lon", 0, "Longitude")
	reportCmd.Flags().StringVar(&reportInput.ImagePath, "image", "", "Path to a photo of the problem")
	rootCmd.AddCommand(reportCmd)
}

// runReport validates and submits the report, returning an exit code
func runReport(ctx context.Context, w io.Writer) int {
	if err := validateReportFlags(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	api, _ := newSession()

	issue, err := api.CreateIssue(ctx, reportInput)
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

	fmt.Fprintf(w, "Reported issue #%d: %s (status: %s)\n", issue.ID, issue.Title, issue.Status)
	return 0
}

func validateReportFlags() error {
	if reportInput.Title == "" {
		return fmt.Errorf("--title is required")
	}
	if reportInput.Description == "" {
		return fmt.Errorf("--description is required")
	}
	if reportInput.IssueType == "" {
		return fmt.Errorf("--type is required")
	}
	if reportInput.Latitude == 0 && reportInput.Longitude == 0 {
		return fmt.Errorf("--lat and --lon are required")
	}
	if reportInput.ImagePath == "" {
		return fmt.Errorf("--image is required")
	}

	info, err := os.Stat(reportInput.ImagePath)
	if err != nil {
		return fmt.Errorf("cannot read image: %v", err)
	}
	switch strings.ToLower(filepath.Ext(reportInput.ImagePath)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return fmt.Errorf("--image must be a jpg, png, gif, or webp file")
	}
	if info.Size() > 5*1024*1024 {
		return fmt.Errorf("image is %.1f MB, the limit is 5 MB", float64(info.Size())/(1024*1024))
	}
	return nil
}
