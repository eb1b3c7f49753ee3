// Package input provides the query input component for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

const (
	searchPlaceholder = "Search the index..."
	askPlaceholder    = "Ask a question..."
)

// QueryInput wraps a bubbles textinput and adjusts its label and
// placeholder to the active query mode. Unlike the other components
// it takes part in the tea message flow: the parent model forwards
// key events through Update so the cursor and editing keep working.
type QueryInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      messages.Mode
}

// NewQueryInput creates a focused input in search mode.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = searchPlaceholder
	ti.Focus()
	ti.CharLimit = 512
	ti.Width = 50

	return &QueryInput{
		textinput: ti,
		styles:    s,
		mode:      messages.ModeSearch,
	}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards messages to the wrapped textinput.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the labelled input line.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render(q.label())
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// label returns the mode-dependent input label.
func (q *QueryInput) label() string {
	if q.mode == messages.ModeAsk {
		return "Ask:    "
	}
	return "Search: "
}

// SetMode switches the input between search and ask mode.
func (q *QueryInput) SetMode(mode messages.Mode) {
	q.mode = mode
	if mode == messages.ModeAsk {
		q.textinput.Placeholder = askPlaceholder
	} else {
		q.textinput.Placeholder = searchPlaceholder
	}
}

// Value returns the current input text.
func (q *QueryInput) Value() string {
	return q.textinput.Value()
}

// Focus puts the cursor in the input.
func (q *QueryInput) Focus() tea.Cmd {
	return q.textinput.Focus()
}

// Blur removes focus while a query is in flight.
func (q *QueryInput) Blur() {
	q.textinput.Blur()
}

// SetWidth resizes the inner field, leaving room for the label and
// never shrinking below a usable minimum.
func (q *QueryInput) SetWidth(width int) {
	inner := width - 14
	if inner < 20 {
		inner = 20
	}
	q.textinput.Width = inner
}

// Reset clears the input.
func (q *QueryInput) Reset() {
	q.textinput.Reset()
}
