package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/domain"
)

// Colors defines the color palette for the board view.
var Colors = struct {
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Error         lipgloss.Color
	TitleSelected lipgloss.Color

	Pending    lipgloss.Color
	InProgress lipgloss.Color
	Review     lipgloss.Color
	Done       lipgloss.Color
	Blocked    lipgloss.Color
	Cancelled  lipgloss.Color
	Deferred   lipgloss.Color
}{
	Primary:       lipgloss.Color("#6C5CE7"), // Purple
	Muted:         lipgloss.Color("#636E72"), // Gray
	Error:         lipgloss.Color("#D63031"), // Red
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow

	Pending:    lipgloss.Color("#74B9FF"), // Light blue
	InProgress: lipgloss.Color("#FDCB6E"), // Yellow
	Review:     lipgloss.Color("#A29BFE"), // Lavender
	Done:       lipgloss.Color("#00B894"), // Green
	Blocked:    lipgloss.Color("#D63031"), // Red
	Cancelled:  lipgloss.Color("#636E72"), // Gray
	Deferred:   lipgloss.Color("#B2BEC3"), // Light gray
}

// StatusColor returns the accent color for a status.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusPending:
		return Colors.Pending
	case domain.StatusInProgress:
		return Colors.InProgress
	case domain.StatusReview:
		return Colors.Review
	case domain.StatusDone:
		return Colors.Done
	case domain.StatusBlocked:
		return Colors.Blocked
	case domain.StatusCancelled:
		return Colors.Cancelled
	case domain.StatusDeferred:
		return Colors.Deferred
	default:
		return Colors.Muted
	}
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(Colors.Primary).Padding(0, 1)
	tabStyle    = lipgloss.NewStyle().Foreground(Colors.Muted).Padding(0, 1)
	activeTab   = lipgloss.NewStyle().Bold(true).Foreground(Colors.TitleSelected).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(Colors.Error).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(Colors.Muted).Padding(0, 1)
)
