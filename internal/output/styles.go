package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// Never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: component names, paths.
	ColorCyan = lipgloss.Color("14")

	// colorGreen is used for the "resolved" release status.
	colorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings and error positions.
	ColorYellow = lipgloss.Color("220")

	// colorBoldRed is used for the "invalid" release status (matches ERROR level).
	colorBoldRed = lipgloss.Color("204")

	// colorGreenCheck is used for the completion checkmark.
	colorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (component names, release folders, paths).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators, bullets).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleKind styles problem kinds in the validation report.
	StyleKind = lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// Release status constants.
const (
	StatusResolved  = "resolved"
	StatusValid     = "valid"
	StatusInvalid   = "invalid"
	StatusDuplicate = "duplicate"
	StatusSkipped   = "skipped"
)

// statusStyle returns the lipgloss style for a given release status string.
// Unknown statuses return an unstyled default.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case StatusResolved:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case StatusValid, StatusSkipped:
		return lipgloss.NewStyle().Faint(true)
	case StatusDuplicate:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusInvalid:
		return lipgloss.NewStyle().Bold(true).Foreground(colorBoldRed)
	default:
		return lipgloss.NewStyle()
	}
}

// minReleaseColumnWidth is the minimum width of the release column before the
// status suffix, so status words align.
const minReleaseColumnWidth = 40

// FormatReleaseLine renders a release identifier with a right-aligned,
// color-coded status suffix.
//
// Format: r:<component>/<release>  <status>
func FormatReleaseLine(component, release, status string) string {
	path := component
	if release != "" {
		path = fmt.Sprintf("%s/%s", component, release)
	}

	padding := minReleaseColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}

	prefix := StyleDim.Render("r:")
	styledPath := StyleNoun.Render(path)
	styledStatus := statusStyle(status).Render(status)

	return prefix + styledPath + strings.Repeat(" ", padding) + styledStatus
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(colorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatCross renders a red cross with a message.
func FormatCross(msg string) string {
	cross := lipgloss.NewStyle().Foreground(colorBoldRed).Render("✖")
	return cross + " " + msg
}
