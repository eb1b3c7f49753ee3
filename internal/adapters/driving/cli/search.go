package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// snippetLength is how much chunk text a result row shows.
const snippetLength = 160

var (
	searchTopK int
	searchDocs []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search across indexed documents.
The query is embedded and compared against every stored chunk by cosine
similarity; the best matches are returned in ranked order.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (0 = configured default)")
	searchCmd.Flags().StringSliceVar(&searchDocs, "doc", nil, "restrict search to the given document IDs (repeatable)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := args[0]
	ctx := context.Background()

	results, err := retrievalService.Retrieve(ctx, query, searchTopK, searchDocs)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return errors.New("no embedding provider configured; run 'docqa config set embedding.provider'")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, results)
	}

	return printSearchResults(cmd, results)
}

func printSearchResults(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, res := range results {
		printResult(cmd, i+1, res)
	}
	return nil
}

// printResult writes one ranked hit: name and score, the location
// within the document, then a snippet.
func printResult(cmd *cobra.Command, rank int, res domain.SearchResult) {
	name := res.DocumentName
	if name == "" {
		name = res.DocumentID
	}
	cmd.Printf("  [%d] %s (%.2f)\n", rank, name, res.Score)

	if res.PageNumber > 0 {
		cmd.Printf("      Page %d, chunk %d\n", res.PageNumber, res.ChunkID)
	} else {
		cmd.Printf("      Chunk %d\n", res.ChunkID)
	}

	if snippet := truncateText(res.ChunkText, snippetLength); snippet != "" {
		cmd.Printf("      %s\n", snippet)
	}
	cmd.Println()
}
