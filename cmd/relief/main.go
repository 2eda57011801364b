package main

import (
	"fmt"
	"os"

	"github.com/relief-labs/reliefai/internal/cli"
	"github.com/relief-labs/reliefai/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "relief",
		Short: "Relief CLI - Disaster preparedness assistant",
		Long: `Relief CLI talks to the disaster preparedness API.

Environment variables:
  RELIEF_API_URL   API base URL (default: http://localhost:8080)
  RELIEF_USER_ID   User identity for session continuity`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.SessionCmd())
	rootCmd.AddCommand(client.SubscribeCmd())
	rootCmd.AddCommand(client.UnsubscribeCmd())
	rootCmd.AddCommand(client.DownloadsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
