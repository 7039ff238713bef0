package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Adaptive colors so output stays readable on light and dark terminals.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79F6"}
	ColorPass   = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#9E9E9E"}
)

var (
	TableHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent).
		Align(lipgloss.Center)

	TableWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarn)

	TableSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorPass)

	TableHintStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TableBorderStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	HeadingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorAccent)

	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
)

// StatusStyle returns the style for a path status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "active":
		return lipgloss.NewStyle().Foreground(ColorPass)
	case "on_hold":
		return lipgloss.NewStyle().Foreground(ColorWarn)
	case "completed":
		return lipgloss.NewStyle().Foreground(ColorAccent)
	case "archived":
		return lipgloss.NewStyle().Foreground(ColorMuted)
	default:
		return lipgloss.NewStyle()
	}
}

// PriorityStyle returns the style for a priority label.
func PriorityStyle(priority string) lipgloss.Style {
	switch priority {
	case "critical":
		return lipgloss.NewStyle().Bold(true).Foreground(ColorFail)
	case "high":
		return lipgloss.NewStyle().Foreground(ColorWarn)
	case "low":
		return lipgloss.NewStyle().Foreground(ColorMuted)
	default:
		return lipgloss.NewStyle()
	}
}

// ColorProfile reports the terminal's color capability, honoring the
// same environment conventions as ShouldUseColor.
func ColorProfile() termenv.Profile {
	if !ShouldUseColor() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
