// ABOUTME: Colors and lipgloss styles for the workout screen.
// ABOUTME: Exercise and rest phases get distinct accent colors.
package tui

import "github.com/charmbracelet/lipgloss"

type Color = lipgloss.Color

const (
	ColorPrimary   Color = "99"  // Purple - plan name
	ColorExercise  Color = "2"   // Green - working
	ColorRest      Color = "33"  // Blue - resting
	ColorPaused    Color = "3"   // Yellow - paused
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorSubtle    Color = "245" // Light gray - labels
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ItemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	ExerciseClockStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorExercise)

	RestClockStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorRest)

	PausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPaused)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FrameStyle = lipgloss.NewStyle().
			Padding(1, 2)
)
