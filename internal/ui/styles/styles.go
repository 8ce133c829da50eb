// Package styles holds the shared colors and styles of the TUI.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#E0E0E0"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	FocusColor         = lipgloss.Color("#54A0FF")
	StatusErrorColor   = lipgloss.Color("#FF6B6B")
	StatusWarningColor = lipgloss.Color("#FECA57")
	StatusSuccessColor = lipgloss.Color("#73F59F")
	InfoColor          = lipgloss.Color("#89DCEB")
	OverlayTitleColor  = lipgloss.Color("#7D56F4")
	OverlayBorderColor = lipgloss.Color("#7D56F4")
)

// Inline editor styles.
var (
	DisplayStyle     = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	PlaceholderStyle = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
	FocusedStyle     = lipgloss.NewStyle().Foreground(FocusColor).Underline(true)
	LabelStyle       = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	ErrorStyle       = lipgloss.NewStyle().Foreground(StatusErrorColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			Padding(0, 1)
	ButtonFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(FocusColor).
				Bold(true).
				Padding(0, 1)
)
