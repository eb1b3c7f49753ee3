// Package status renders the bottom bar of the TUI: the active query
// mode, what the application is doing, and context-sensitive key hints.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

// State tells the bar which activity summary to show.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateAsking    State = "asking"
	StateResults   State = "results"
	StateAnswered  State = "answered"
	StateError     State = "error"
)

// Bar is the one-line status strip under the result area. It is a
// plain view component: the parent model mutates it through setters
// and calls View every frame.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	mode    messages.Mode
	state   State
	message string
	count   int
	width   int
}

// NewBar builds a bar in the ready state. Nil styles or keymap fall
// back to the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		mode:   messages.ModeSearch,
		state:  StateReady,
		width:  80,
	}
}

// View renders the bar at its configured width, key hints pushed to
// the right edge.
func (s *Bar) View() string {
	left := s.stateLine()
	right := s.hintLine()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", gap) + right,
	)
}

// stateLine renders the mode tag followed by the activity summary.
func (s *Bar) stateLine() string {
	tag := s.styles.Subtitle.Render("[" + s.mode.String() + "]")
	return tag + " " + s.describeState()
}

func (s *Bar) describeState() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateAsking:
		return s.styles.Muted.Render("Thinking...")
	case StateResults:
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.count))
	case StateAnswered:
		return s.styles.Success.Render(fmt.Sprintf("Answered from %d passages", s.count))
	case StateError:
		text := "Error"
		if s.message != "" {
			text = "Error: " + s.message
		}
		return s.styles.Error.Render(text)
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// hintLine renders the keybindings that make sense right now: result
// navigation once results are on screen, the general set otherwise.
func (s *Bar) hintLine() string {
	bindings := s.keymap.ShortHelp()
	if s.count > 0 && (s.state == StateResults || s.state == StateAnswered) {
		bindings = s.keymap.ResultsHelp()
	}

	var sb strings.Builder
	for i, b := range bindings {
		if i > 0 {
			sb.WriteString(" | ")
		}
		h := b.Help()
		sb.WriteString(h.Key + ": " + h.Desc)
	}
	return s.styles.Muted.Render(sb.String())
}

// SetMode sets the displayed query mode.
func (s *Bar) SetMode(mode messages.Mode) {
	s.mode = mode
}

// SetState sets the activity state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// SetMessage sets the detail text shown alongside an error state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// SetResultCount sets the count reported in result states.
func (s *Bar) SetResultCount(count int) {
	s.count = count
}

// SetWidth sets the render width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
