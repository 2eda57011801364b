package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/relief-labs/reliefai/internal/config"
	"github.com/relief-labs/reliefai/internal/domain"
	"github.com/relief-labs/reliefai/internal/repository"
	"github.com/relief-labs/reliefai/internal/service"
	"github.com/spf13/cobra"
)

func KnowledgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Manage knowledge entries",
		Long:  "Add and list knowledge base entries",
	}

	cmd.AddCommand(KnowledgeAddCmd())
	cmd.AddCommand(KnowledgeListCmd())

	return cmd
}

func KnowledgeAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <content>",
		Short: "Add a knowledge entry",
		Long:  "Embeds the given content and inserts it into the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE:  runKnowledgeAdd,
	}

	cmd.Flags().StringP("category", "c", "", "Entry category (required)")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runKnowledgeAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	content := args[0]
	category, _ := cmd.Flags().GetString("category")
	outputFormat, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasModelProvider() {
		return fmt.Errorf("model provider not configured: set GEMINI_API_KEY or OPENAI_API_KEY")
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	seeder, err := newSeeder(cfg, pool)
	if err != nil {
		return err
	}

	entry, err := seeder.AddKnowledge(ctx, content, domain.Category(category), map[string]string{"addedBy": "admin"})
	if err != nil {
		return fmt.Errorf("failed to add knowledge: %w", err)
	}

	if outputFormat == "json" {
		output, _ := json.MarshalIndent(entry, "", "  ")
		fmt.Println(string(output))
	} else {
		fmt.Printf("Added entry %s (category: %s)\n", entry.ID, entry.Category)
	}

	return nil
}

func KnowledgeListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge entries",
		Long:  "List knowledge base entries, newest first",
		RunE:  runKnowledgeList,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of entries")
	cmd.Flags().String("cursor", "", "Pagination cursor from previous response")
	cmd.Flags().StringP("output", "o", "text", "Output format (text or json)")

	return cmd
}

func runKnowledgeList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	limit, _ := cmd.Flags().GetInt("limit")
	cursor, _ := cmd.Flags().GetString("cursor")
	outputFormat, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := getDBPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	knowledgeSvc := service.NewKnowledgeService(repository.NewKnowledgeRepository(pool))

	output, err := knowledgeSvc.ListKnowledge(ctx, service.ListKnowledgeInput{
		Cursor: cursor,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list knowledge: %w", err)
	}

	if outputFormat == "json" {
		data, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	if len(output.Items) == 0 {
		fmt.Println("No entries found.")
		return nil
	}

	for _, entry := range output.Items {
		content := entry.Content
		if len(content) > 80 {
			content = content[:77] + "..."
		}
		fmt.Printf("%s  [%s/%s]  %s\n", entry.ID, entry.Category, entry.Source, content)
	}
	if output.HasMore && output.Cursor != "" {
		fmt.Printf("\nMore entries available. Use --cursor %s\n", output.Cursor)
	}

	return nil
}
