// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7C9EF4")
	// SuccessColor indicates organic or passing verdicts.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates review-worthy verdicts.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates filtered or failed items.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats organic/proceed verdicts.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats manual-review verdicts.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats filter-out verdicts and errors.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)
)

// VerdictStyle picks the style matching a recommended action.
func VerdictStyle(action string) lipgloss.Style {
	switch action {
	case "FILTER_OUT":
		return ErrorStyle
	case "MANUAL_REVIEW", "EXPERT_REVIEW", "PROCEED_WITH_CAUTION":
		return WarningStyle
	case "PROCEED":
		return SuccessStyle
	default:
		return SubtleStyle
	}
}
