// Package cli implements the docqa command-line interface.
//
// Commands are package-level cobra vars wired to driving-port service
// variables. The composition root (cmd/docqa) builds the services and
// injects them via SetServices before calling Execute; commands guard
// against missing services so partial wiring fails with a clear message
// instead of a panic.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
	"github.com/custodia-labs/docqa/internal/logger"
)

// version is injected by the composition root at startup.
var version = "dev"

// Global flags.
var (
	verbose    bool
	outputJSON bool
)

// Services injected by the composition root.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	sourceService    driving.SourceService
	settingsService  driving.SettingsService
	schedulerService driving.Scheduler
	schedulerConfig  domain.SchedulerConfig
)

// Services bundles the driving ports the commands depend on.
// Nil entries are allowed: the corresponding commands report
// "not configured" when invoked.
type Services struct {
	Ingest    driving.IngestService
	Retrieval driving.RetrievalService
	Answer    driving.AnswerService
	Source    driving.SourceService
	Settings  driving.SettingsService

	// Scheduler runs background source refreshes during long-lived
	// commands (mcp, tui). One-shot commands never start it.
	Scheduler       driving.Scheduler
	SchedulerConfig domain.SchedulerConfig
}

// SetServices installs the service implementations used by the commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	answerService = s.Answer
	sourceService = s.Source
	settingsService = s.Settings
	schedulerService = s.Scheduler
	schedulerConfig = s.SchedulerConfig
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about your documents",
	Long: `docqa indexes documents and answers questions about them.

Documents are normalised to plain text, chunked, embedded, and stored in
a local vector index. Searches and questions are answered from the most
relevant chunks; with an LLM configured, answers are generated from the
retrieved passages.

Get started:
  docqa config set embedding.provider ollama
  docqa add report.md
  docqa ask "what does the report conclude?"`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output machine-readable JSON")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
