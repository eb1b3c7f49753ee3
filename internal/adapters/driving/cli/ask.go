package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

var (
	askTopK int
	askDocs []string
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about indexed documents",
	Long: `Retrieves the chunks most relevant to the question and, with an LLM
configured, generates an answer grounded on them. Without an LLM the
retrieved passages are shown directly.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks (0 = configured default)")
	askCmd.Flags().StringSliceVar(&askDocs, "doc", nil, "restrict retrieval to the given document IDs (repeatable)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	question := args[0]
	ctx := context.Background()
	opts := driving.AskOptions{
		TopK:        askTopK,
		DocumentIDs: askDocs,
	}

	answer, err := answerService.Ask(ctx, question, opts)
	if err != nil {
		if errors.Is(err, domain.ErrEmbeddingUnavailable) {
			return errors.New("no embedding provider configured; run 'docqa config set embedding.provider'")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, answer)
	}

	return printAnswer(cmd, answer)
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) error {
	if len(answer.Sources) == 0 {
		cmd.Println("No relevant passages found.")
		return nil
	}

	if answer.Text != "" {
		cmd.Println(answer.Text)
		cmd.Println()
		cmd.Println("Sources:")
		for i := range answer.Sources {
			printSourceLine(cmd, i+1, &answer.Sources[i])
		}
		return nil
	}

	// Degraded mode: no LLM configured, show the passages themselves.
	cmd.Println("No LLM configured; showing the most relevant passages instead.")
	cmd.Println()
	for i := range answer.Sources {
		printSourceLine(cmd, i+1, &answer.Sources[i])
		cmd.Printf("      %s\n", truncateText(answer.Sources[i].ChunkText, snippetLength*2))
		cmd.Println()
	}
	return nil
}

func printSourceLine(cmd *cobra.Command, rank int, result *domain.SearchResult) {
	name := result.DocumentName
	if name == "" {
		name = result.DocumentID
	}
	if result.PageNumber > 0 {
		cmd.Printf("  [%d] %s, page %d (%.2f)\n", rank, name, result.PageNumber, result.Score)
	} else {
		cmd.Printf("  [%d] %s (%.2f)\n", rank, name, result.Score)
	}
}
