package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// App is the single-screen TUI application following the Elm architecture.
// A query line sits on top, results (or an answer with its sources) fill
// the middle, and a status bar closes the screen. Tab switches the query
// line between search and ask mode.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the active keybindings.
	keymap *keymap.KeyMap

	// input is the query input component.
	input *input.QueryInput

	// list is the result list component.
	list *list.ResultList

	// statusbar is the status bar component.
	statusbar *status.Bar

	// mode selects how a submitted query is executed.
	mode messages.Mode

	// answer holds the last generated answer, nil in search mode.
	answer *domain.Answer

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool

	// focusInput is true while typing, false while browsing results.
	focusInput bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		mode:       messages.ModeSearch,
		focusInput: true,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.input.Init(),
		tea.SetWindowTitle("docqa - Document Q&A"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.SearchCompleted:
		a.handleSearchCompleted(msg)
		return a, nil

	case messages.AnswerCompleted:
		a.handleAnswerCompleted(msg)
		return a, nil

	case messages.ErrorOccurred:
		a.setError(msg.Err)
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink etc.) to the input.
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}

	if keymap.Matches(keyStr, a.keymap.ToggleMode) {
		a.toggleMode()
		return a, nil
	}

	if keymap.Matches(keyStr, a.keymap.Clear) {
		a.input.Reset()
		a.err = nil
		a.focusInput = true
		return a, a.input.Focus()
	}

	if msg.Type == tea.KeyEnter {
		if a.focusInput {
			return a, a.submit()
		}
		// From the result list, Enter returns to the query line with the
		// previous query kept for editing.
		a.focusInput = true
		return a, a.input.Focus()
	}

	if a.focusInput {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}

	// Result list navigation.
	switch {
	case keymap.Matches(keyStr, a.keymap.Up):
		a.list.MoveUp()
	case keymap.Matches(keyStr, a.keymap.Down):
		a.list.MoveDown()
	case keymap.Matches(keyStr, a.keymap.NewQuery):
		a.input.Reset()
		a.focusInput = true
		return a, a.input.Focus()
	}
	return a, nil
}

// toggleMode switches between search and ask mode.
func (a *App) toggleMode() {
	a.mode = a.mode.Toggle()
	a.input.SetMode(a.mode)
	a.statusbar.SetMode(a.mode)
	a.err = nil
}

// submit runs the current query in the active mode.
func (a *App) submit() tea.Cmd {
	query := a.input.Value()
	if query == "" {
		return nil
	}

	a.err = nil
	a.focusInput = false
	a.input.Blur()

	if a.mode == messages.ModeAsk {
		a.statusbar.SetState(status.StateAsking)
		return a.performAsk(query)
	}
	a.statusbar.SetState(status.StateSearching)
	return a.performSearch(query)
}

// performSearch executes a similarity search off the update loop.
func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Retrieval.Retrieve(a.ctx, query, 0, nil)
		return messages.SearchCompleted{Results: results, Err: err}
	}
}

// performAsk sends the question through the answer service.
func (a *App) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if a.ports.Answer == nil {
			return messages.AnswerCompleted{Err: ErrNoAnswerService}
		}
		answer, err := a.ports.Answer.Ask(a.ctx, question, driving.AskOptions{WithHistory: true})
		return messages.AnswerCompleted{Answer: answer, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (a *App) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		a.setError(msg.Err)
		return
	}

	a.err = nil
	a.answer = nil
	a.list.SetTitle("Results")
	a.list.SetResults(msg.Results)
	a.statusbar.SetState(status.StateResults)
	a.statusbar.SetResultCount(len(msg.Results))
}

// handleAnswerCompleted processes a generated answer.
func (a *App) handleAnswerCompleted(msg messages.AnswerCompleted) {
	if msg.Err != nil {
		a.setError(msg.Err)
		return
	}

	a.err = nil
	a.answer = msg.Answer
	a.list.SetTitle("Sources")
	a.list.SetResults(msg.Answer.Sources)
	a.statusbar.SetState(status.StateAnswered)
	a.statusbar.SetResultCount(len(msg.Answer.Sources))
}

// setError records an error, refocuses the input, and updates the bar.
func (a *App) setError(err error) {
	a.err = err
	a.focusInput = true
	a.input.Focus()
	a.statusbar.SetState(status.StateError)
	if err != nil {
		a.statusbar.SetMessage(err.Error())
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	sections = append(sections, a.styles.Title.Render("docqa"), "")
	sections = append(sections, a.input.View(), "")

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()), "")
	}

	if a.answer != nil {
		sections = append(sections, a.viewAnswer(), "")
	}

	sections = append(sections, a.list.View(), "")
	sections = append(sections, a.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewAnswer renders the generated answer panel.
func (a *App) viewAnswer() string {
	header := a.styles.Subtitle.Render("Answer")

	text := a.answer.Text
	if text == "" {
		text = "No LLM configured; showing the most relevant passages instead."
	}

	panelWidth := a.width - 4
	if panelWidth < 20 {
		panelWidth = 20
	}
	body := a.styles.Answer.Width(panelWidth).Render(text)

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Query returns the current query text.
func (a *App) Query() string {
	return a.input.Value()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.list.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.list.Selected()
}

// Mode returns the active query mode.
func (a *App) Mode() messages.Mode {
	return a.mode
}

// Answer returns the last generated answer, or nil.
func (a *App) Answer() *domain.Answer {
	return a.answer
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	a.input.SetWidth(width)
	a.list.SetDimensions(width, height-10)
	a.statusbar.SetWidth(width)
}
