// Package output provides the shared lipgloss palette and a printer for
// non-interactive commands.
//
// The TUI screens and the header chrome use the styles declared here so the
// interactive flow and the plain commands look the same.
package output

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorPrimary   = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorError     = "#EF4444"
	ColorWarning   = "#F59E0B"
	ColorInfo      = "#3B82F6"
	ColorGray      = "#6B7280"
	ColorLightGray = "#9CA3AF"
	ColorWhite     = "#F3F4F6"
)

var (
	// TitleStyle is used for headers and scene titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimary))

	// SubtitleStyle is used under titles.
	SubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLightGray))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorInfo))

	// LabelStyle is used for field labels and keys in key/value output.
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLightGray))

	// ValueStyle is used for values in key/value output.
	ValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)).Bold(true)

	// HintStyle is used for key hints and secondary text.
	HintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)).Italic(true)

	// FocusedStyle marks the selected option of a list.
	FocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary)).Bold(true)

	// BoxStyle frames a block of content.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorGray)).
			Padding(0, 2)
)
