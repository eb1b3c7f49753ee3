// Package styles centralises the colour palette and lipgloss styles
// the TUI components render with.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is a colour scheme for the TUI.
type Palette struct {
	// Primary accents the title and the selected result row.
	Primary lipgloss.Color

	// Secondary marks section headers and the answer panel border.
	Secondary lipgloss.Color

	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color

	// Border frames the query input.
	Border lipgloss.Color

	// Backdrop sits behind the status bar.
	Backdrop lipgloss.Color
}

// DefaultPalette is the built-in dark scheme (Catppuccin Mocha).
func DefaultPalette() Palette {
	return Palette{
		Primary:    "#89B4FA",
		Secondary:  "#94E2D5",
		Foreground: "#CDD6F4",
		Muted:      "#6C7086",
		Success:    "#A6E3A1",
		Error:      "#F38BA8",
		Border:     "#45475A",
		Backdrop:   "#181825",
	}
}

// Styles holds the pre-built lipgloss styles shared across components.
type Styles struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Selected   lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	InputField lipgloss.Style
	Answer     lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles builds the shared styles from a palette.
func NewStyles(p Palette) *Styles {
	return &Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(p.Foreground),
		Muted:    lipgloss.NewStyle().Foreground(p.Muted),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Foreground).
			Background(p.Primary),
		Error:   lipgloss.NewStyle().Foreground(p.Error),
		Success: lipgloss.NewStyle().Foreground(p.Success),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Answer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.Secondary).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Backdrop).
			Padding(0, 1),
	}
}

// DefaultStyles builds the shared styles from the default palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultPalette())
}
