package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// DownloadItem represents one entry in the downloads catalog.
type DownloadItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Filename    string `json:"filename"`
	Type        string `json:"type"`
	Size        string `json:"size"`
	DownloadURL string `json:"downloadUrl"`
}

// ListDownloadsResponse represents the downloads API response.
type ListDownloadsResponse struct {
	Downloads []DownloadItem `json:"downloads"`
}

// DownloadsCmd creates the downloads command.
func DownloadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "Browse and fetch preparedness guides",
	}

	cmd.AddCommand(DownloadsListCmd())
	cmd.AddCommand(DownloadsGetCmd())

	return cmd
}

// DownloadsListCmd creates the downloads list command.
func DownloadsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runDownloadsList(cmd, outputJSON)
		},
	}

	return cmd
}

func runDownloadsList(cmd *cobra.Command, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/downloads")
	if err != nil {
		return fmt.Errorf("failed to list downloads: %w", err)
	}

	var listResp ListDownloadsResponse
	if err := json.Unmarshal(resp.Data, &listResp); err != nil {
		return fmt.Errorf("failed to parse downloads response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(listResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	for i, item := range listResp.Downloads {
		fmt.Printf("%s (%s, %s)\n", item.Title, item.Type, item.Size)
		fmt.Printf("   %s\n", item.Description)
		fmt.Printf("   ID: %s\n", item.ID)
		if i < len(listResp.Downloads)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	return nil
}

// DownloadsGetCmd creates the downloads get command.
func DownloadsGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Download a guide by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownloadsGet(cmd, args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output-file", "f", "", "Output file path (defaults to the catalog filename)")

	return cmd
}

func runDownloadsGet(cmd *cobra.Command, id, outputPath string) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Get("/api/downloads")
	if err != nil {
		return fmt.Errorf("failed to list downloads: %w", err)
	}

	var listResp ListDownloadsResponse
	if err := json.Unmarshal(resp.Data, &listResp); err != nil {
		return fmt.Errorf("failed to parse downloads response: %w", err)
	}

	var item *DownloadItem
	for i := range listResp.Downloads {
		if listResp.Downloads[i].ID == id {
			item = &listResp.Downloads[i]
			break
		}
	}
	if item == nil {
		return fmt.Errorf("unknown download ID: %s", id)
	}

	if outputPath == "" {
		outputPath = item.Filename
	}

	fmt.Printf("Downloading %s...\n", item.Title)
	if err := api.DownloadFile(item.DownloadURL, outputPath); err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", outputPath)

	return nil
}
