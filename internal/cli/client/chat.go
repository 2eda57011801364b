package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ChatRequest represents the chat API request.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Message   string `json:"message"`
}

// ChatContextScore is one retrieved-context score in the debug block.
type ChatContextScore struct {
	Category string  `json:"category"`
	Score    float32 `json:"score"`
}

// ChatResponse represents the chat API response.
type ChatResponse struct {
	Response    string   `json:"response"`
	ContextUsed int      `json:"context_used"`
	Categories  []string `json:"categories"`
	Debug       struct {
		Query         string             `json:"query"`
		ContextScores []ChatContextScore `json:"context_scores"`
	} `json:"debug"`
	Warning string `json:"warning,omitempty"`
}

// SessionResponse represents the session API response.
type SessionResponse struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
	Messages  []struct {
		Text      string `json:"text"`
		Role      string `json:"role"`
		Timestamp string `json:"timestamp"`
	} `json:"messages"`
	CreatedAt string `json:"createdAt"`
}

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	var (
		userID     string
		newSession bool
	)

	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the preparedness assistant",
		Long:  "Sends a question to the disaster preparedness assistant and prints the grounded answer.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runChat(cmd, args[0], userID, newSession, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID (defaults to saved identity)")
	cmd.Flags().BoolVar(&newSession, "new", false, "Start a fresh session instead of continuing the saved one")

	return cmd
}

func runChat(cmd *cobra.Command, message, flagUserID string, newSession, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	userID, err := ResolveUserID(flagUserID)
	if err != nil {
		return err
	}
	if userID == "" {
		userID = uuid.New().String()
	}

	config, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	if config == nil {
		config = &GlobalConfig{}
	}

	sessionID := config.SessionID
	if newSession || sessionID == "" || config.UserID != userID {
		session, err := startSession(api, userID, newSession)
		if err != nil {
			return err
		}
		sessionID = session.SessionID
	}

	resp, err := api.Post("/api/chat", ChatRequest{
		SessionID: sessionID,
		UserID:    userID,
		Message:   message,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(resp.Data, &chatResp); err != nil {
		return fmt.Errorf("failed to parse chat response: %w", err)
	}

	// Remember the identity and session for the next invocation
	config.UserID = userID
	config.SessionID = sessionID
	if saveErr := SaveGlobalConfig(config); saveErr != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: failed to save session: %v\n", saveErr)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(chatResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(chatResp.Response)
	if len(chatResp.Categories) > 0 {
		fmt.Printf("\nSources: %s\n", strings.Join(chatResp.Categories, ", "))
	}
	if chatResp.Warning != "" {
		fmt.Printf("Warning: %s\n", chatResp.Warning)
	}

	return nil
}

func startSession(api *APIClient, userID string, reset bool) (*SessionResponse, error) {
	resp, err := api.Post("/api/sessions/new", map[string]interface{}{
		"userId": userID,
		"reset":  reset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	var session SessionResponse
	if err := json.Unmarshal(resp.Data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &session, nil
}
