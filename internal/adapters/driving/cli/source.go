package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/connectors"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// sourceConfigPairs holds --config key=value flags for source add.
var sourceConfigPairs []string

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage document sources",
	Long: `Configure sources that feed documents into the index: local
folders, GitHub repositories, or Google Drive folders. Syncing a source
ingests every document it yields.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add [type] [name]",
	Short: "Add a source",
	Long: `Adds a source of the given connector type. Connector configuration
is passed as repeated --config key=value flags.

Run without arguments to list the available connector types and their
configuration keys.

Examples:
  docqa source add filesystem "Team docs" --config path=/srv/docs
  docqa source add github "CLI repo" --config owner=custodia-labs --config repo=docqa`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove [source-id]",
	Short: "Remove a source",
	Long:  `Removes a source configuration. Documents already ingested from it stay indexed.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceRemove,
}

var sourceSyncCmd = &cobra.Command{
	Use:   "sync [source-id]",
	Short: "Sync documents from sources",
	Long: `Ingests all documents from a source. Without a source ID, every
configured source is synced in turn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSourceSync,
}

var sourceWatchCmd = &cobra.Command{
	Use:   "watch [source-id]",
	Short: "Watch a source for changes",
	Long: `Watches a source and re-ingests documents as they change, until
interrupted. Only filesystem sources support watching.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceWatch,
}

func init() {
	sourceAddCmd.Flags().StringArrayVar(&sourceConfigPairs, "config", nil, "connector configuration as key=value (repeatable)")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceSyncCmd)
	sourceCmd.AddCommand(sourceWatchCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		printConnectorCatalog(cmd)
		return nil
	}

	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceType := args[0]
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	config, err := parseConfigPairs(sourceConfigPairs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	source := domain.Source{
		Type:   sourceType,
		Name:   name,
		Config: config,
	}

	created, err := sourceService.Add(ctx, source)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			return fmt.Errorf("unknown source type %q (run 'docqa source add' to list types)", sourceType)
		}
		return fmt.Errorf("failed to add source: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, created)
	}

	cmd.Printf("Added source: %s (%s)\n", created.Name, created.ID)
	cmd.Printf("Run 'docqa source sync %s' to ingest its documents.\n", created.ID)
	return nil
}

func printConnectorCatalog(cmd *cobra.Command) {
	cmd.Println("Available source types:")
	cmd.Println()
	for _, ct := range connectors.Catalog() {
		cmd.Printf("  %s - %s\n", ct.ID, ct.Description)
		for _, key := range ct.ConfigKeys {
			required := ""
			if key.Required {
				required = " (required)"
			}
			cmd.Printf("    %-14s %s%s\n", key.Key, key.Description, required)
		}
		cmd.Println()
	}
	cmd.Println(`Add one with: docqa source add [type] [name] --config key=value`)
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	sources, err := sourceService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if outputJSON {
		return printJSON(cmd, sources)
	}

	if len(sources) == 0 {
		cmd.Println("No sources configured.")
		return nil
	}

	cmd.Println("Sources:")
	cmd.Println()
	for i := range sources {
		cmd.Printf("  %s\n", sources[i].ID)
		cmd.Printf("    Name: %s\n", sources[i].Name)
		cmd.Printf("    Type: %s\n", sources[i].Type)
		cmd.Println()
	}
	cmd.Printf("Total: %d sources\n", len(sources))
	return nil
}

func runSourceRemove(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	sourceID := args[0]
	ctx := context.Background()

	if err := sourceService.Remove(ctx, sourceID); err != nil {
		return fmt.Errorf("failed to remove source: %w", err)
	}

	cmd.Printf("Removed source: %s\n", sourceID)
	cmd.Println("Documents already ingested from it stay indexed.")
	return nil
}

func runSourceSync(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		sourceID := args[0]
		cmd.Printf("Syncing source %s...\n", sourceID)

		if err := syncWithProgress(ctx, cmd, sourceService, sourceID); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Printf("Source %s synced.\n", sourceID)
		return nil
	}

	cmd.Println("Syncing all sources...")
	if err := sourceService.SyncAll(ctx); err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	cmd.Println("All sources synced.")
	return nil
}

func runSourceWatch(cmd *cobra.Command, args []string) error {
	if sourceService == nil {
		return errors.New("source service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sourceID := args[0]
	cmd.Printf("Watching source %s (press Ctrl+C to stop)...\n", sourceID)

	err := sourceService.Watch(ctx, sourceID)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped watching.")
	return nil
}

// syncWithProgress runs a sync while polling its status for progress.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	sources driving.SourceService,
	sourceID string,
) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- sources.Sync(ctx, sourceID)
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Final tally, best effort.
			status, statusErr := sources.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.DocumentsProcessed > 0 {
				cmd.Printf("\rProcessed %d documents (%d errors)\n",
					status.DocumentsProcessed, status.ErrorCount)
			}
			return err
		case <-ticker.C:
			status, statusErr := sources.Status(ctx, sourceID)
			if statusErr == nil && status != nil && status.DocumentsProcessed > lastCount {
				cmd.Printf("\rProcessing... %d documents", status.DocumentsProcessed)
				lastCount = status.DocumentsProcessed
			}
		}
	}
}

// parseConfigPairs turns repeated key=value flags into a config map.
func parseConfigPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	config := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --config value %q, want key=value", pair)
		}
		config[key] = value
	}
	return config, nil
}
