package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SessionCmd creates the session command.
func SessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session [session-id]",
		Short: "Show a session transcript",
		Long:  "Prints the conversation transcript for a session. Defaults to the saved session.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			sessionID := ""
			if len(args) > 0 {
				sessionID = args[0]
			}
			return runSession(cmd, sessionID, outputJSON)
		},
	}

	return cmd
}

func runSession(cmd *cobra.Command, sessionID string, outputJSON bool) error {
	if sessionID == "" {
		config, err := LoadGlobalConfig()
		if err != nil {
			return err
		}
		if config == nil || config.SessionID == "" {
			return fmt.Errorf("no saved session; pass a session ID or run 'relief chat' first")
		}
		sessionID = config.SessionID
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/sessions/" + sessionID)
	if err != nil {
		return fmt.Errorf("failed to fetch session: %w", err)
	}

	var session SessionResponse
	if err := json.Unmarshal(resp.Data, &session); err != nil {
		return fmt.Errorf("failed to parse session response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(session, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Session %s (user %s)\n\n", session.SessionID, session.UserID)
	if len(session.Messages) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}
	for _, msg := range session.Messages {
		label := "You"
		if msg.Role == "model" {
			label = "Assistant"
		}
		fmt.Printf("%s: %s\n", label, msg.Text)
	}

	return nil
}
