package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open the interactive terminal user interface.

Type a query and press Enter to search; press Tab to switch between
search and ask mode. Ask mode sends the query through the configured
LLM and shows a generated answer with its sources.

Controls:
  Enter  - Run the query
  Tab    - Toggle search / ask mode
  ↑/↓    - Scroll results
  Esc    - Clear input
  Ctrl+C - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// A rendering panic must not leave the terminal stuck in the alt
	// screen with no explanation; print the stack on the way out.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "tui panicked: %v\n\n%s\n", r, debug.Stack())
		}
	}()

	// The TUI is long-running, so background source refreshes run
	// alongside it.
	stopScheduler := startScheduler(cmd.Context())
	defer stopScheduler()

	app, err := tui.NewApp(&tui.Ports{
		Retrieval: retrievalService,
		Answer:    answerService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("TUI exited with error: %w", err)
	}
	return nil
}
