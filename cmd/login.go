// ABOUTME: Login command establishing a persisted session
// ABOUTME: Regular accounts by email, admin accounts via --admin

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/civicfix/civicfix-cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginUsername string
	loginPassword string
	loginAdmin    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Long: `Log in to the CivicFix backend and store the session token for
subsequent commands. Use --admin with --username for staff accounts.
Missing credentials are prompted for interactively.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogin(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "Admin username (with --admin)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted if omitted)")
	loginCmd.Flags().BoolVar(&loginAdmin, "admin", false, "Log in against the admin endpoint")
	rootCmd.AddCommand(loginCmd)
}

// runLogin executes the login and returns an exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if err := promptCredentials(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	_, holder := newSession()

	var err error
	if loginAdmin {
		err = holder.LoginAdmin(ctx, loginUsername, loginPassword)
	} else {
		err = holder.Login(ctx, loginEmail, loginPassword)
	}
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok {
			fmt.Fprintf(w, "Login failed: %s\n", apiErr.Message)
			return 1
		}
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	user := holder.User()
	fmt.Fprintf(w, "Logged in as %s (%s)\n", user.FullName(), user.Role)
	return 0
}

// promptCredentials fills in whatever the flags left empty
func promptCredentials() error {
	var fields []huh.Field

	if loginAdmin && loginUsername == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&loginUsername))
	}
	if !loginAdmin && loginEmail == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&loginEmail))
	}
	if loginPassword == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&loginPassword))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeBase()).Run()
}
