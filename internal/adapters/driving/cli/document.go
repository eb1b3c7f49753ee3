package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	addForce   bool
	clearForce bool
)

var addCmd = &cobra.Command{
	Use:   "add [path...]",
	Short: "Add documents to the index",
	Long: `Reads files, normalises them to plain text, splits the text into
chunks, embeds each chunk, and stores the result in the local index.

A document whose content is already indexed is rejected unless --force
is given, in which case the stored copy is replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var showCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Long:  `Shows a document's metadata and content statistics with a short preview.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all documents from the index",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false, "replace documents whose content is already indexed")
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation prompt")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(clearCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	opts := driving.AddOptions{Force: addForce}

	added := make([]domain.Document, 0, len(args))
	for _, path := range args {
		doc, err := ingestService.AddPath(ctx, path, opts)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("already indexed: %s (use --force to replace)", path)
			}
			return fmt.Errorf("failed to add %s: %w", path, err)
		}
		added = append(added, *doc)
	}

	if outputJSON {
		return printJSON(cmd, added)
	}

	for i := range added {
		cmd.Printf("Added: %s (%s)\n", added[i].Name, added[i].ID)
		cmd.Printf("  Chunks: %d\n", added[i].ChunkCount)
		cmd.Printf("  Words:  %d\n", added[i].WordCount)
	}
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	removed, err := ingestService.Remove(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}
	if !removed {
		return fmt.Errorf("document not found: %s", docID)
	}

	cmd.Printf("Removed: %s\n", docID)
	return nil
}

func runList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	docs, err := ingestService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Name:   %s\n", docs[i].Name)
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		cmd.Printf("    Added:  %s\n", docs[i].AddedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	ctx := context.Background()

	doc, found, err := ingestService.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}
	if !found {
		return fmt.Errorf("document not found: %s", docID)
	}

	summary, _, err := ingestService.Summary(ctx, docID)
	if err != nil {
		return fmt.Errorf("failed to summarise document: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, struct {
			Document domain.Document
			Summary  *domain.DocumentSummary
		}{*doc, summary})
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Name:       %s\n", doc.Name)
	cmd.Printf("  URI:        %s\n", doc.URI)
	if location := connectors.ResolveLocation(doc.URI, nil); location != doc.URI {
		cmd.Printf("  Location:   %s\n", location)
	}
	cmd.Printf("  MIME type:  %s\n", doc.MIMEType)
	if doc.SourceID != "" {
		cmd.Printf("  Source:     %s\n", doc.SourceID)
	}
	cmd.Printf("  Added:      %s\n", doc.AddedAt.Format("2006-01-02 15:04:05"))

	if summary != nil {
		cmd.Println()
		cmd.Printf("  Size:       %d bytes\n", summary.SizeBytes)
		cmd.Printf("  Words:      %d\n", summary.WordCount)
		cmd.Printf("  Sentences:  %d\n", summary.SentenceCount)
		cmd.Printf("  Paragraphs: %d\n", summary.ParagraphCount)
		cmd.Printf("  Chunks:     %d\n", summary.ChunkCount)
		if summary.Preview != "" {
			cmd.Println()
			cmd.Printf("  Preview: %s\n", summary.Preview)
		}
	}
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	stats, err := ingestService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, stats)
	}

	cmd.Println("Index statistics")
	cmd.Println()
	cmd.Printf("  Documents:  %d\n", stats.DocumentCount)
	cmd.Printf("  Chunks:     %d\n", stats.TotalChunks)
	cmd.Printf("  Words:      %d\n", stats.TotalWords)
	cmd.Printf("  Size:       %d bytes\n", stats.TotalSizeBytes)
	if stats.EmbeddingDimension > 0 {
		cmd.Printf("  Dimensions: %d\n", stats.EmbeddingDimension)
	}
	cmd.Printf("  Created:    %s\n", stats.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:    %s\n", stats.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()

	stats, err := ingestService.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	if stats.DocumentCount == 0 {
		cmd.Println("Index is already empty.")
		return nil
	}

	if !clearForce {
		cmd.Printf("This removes all %d documents from the index. Continue? [y/N]: ", stats.DocumentCount)
		if !confirm(cmd) {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := ingestService.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear index: %w", err)
	}

	cmd.Printf("Removed %d documents.\n", stats.DocumentCount)
	return nil
}
