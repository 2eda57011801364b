package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// SubscribeResponse represents the subscribe API response.
type SubscribeResponse struct {
	Message string `json:"message"`
}

// SubscribeCmd creates the subscribe command.
func SubscribeCmd() *cobra.Command {
	var location string

	cmd := &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Subscribe to emergency alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubscribe(cmd, args[0], location)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Location for regional alerts")

	return cmd
}

func runSubscribe(cmd *cobra.Command, email, location string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/subscribe", map[string]string{
		"email":    email,
		"location": location,
	})
	if err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}

	var subResp SubscribeResponse
	if err := json.Unmarshal(resp.Data, &subResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(subResp.Message)
	return nil
}

// UnsubscribeCmd creates the unsubscribe command.
func UnsubscribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unsubscribe <email>",
		Short: "Unsubscribe from emergency alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnsubscribe(cmd, args[0])
		},
	}

	return cmd
}

func runUnsubscribe(cmd *cobra.Command, email string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/api/unsubscribe", map[string]string{"email": email})
	if err != nil {
		return fmt.Errorf("unsubscribe failed: %w", err)
	}

	var subResp SubscribeResponse
	if err := json.Unmarshal(resp.Data, &subResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(subResp.Message)
	return nil
}
