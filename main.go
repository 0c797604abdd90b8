// ABOUTME: Entry point for the civicfix CLI
// ABOUTME: Terminal client for the CivicFix issue-reporting backend

package main

import (
	"fmt"
	"os"

	"github.com/civicfix/civicfix-cli/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development; a missing file is not an error
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
