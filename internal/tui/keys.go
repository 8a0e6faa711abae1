// ABOUTME: Key bindings for the workout screen.
// ABOUTME: Implements help.KeyMap so the bubbles help view can render them.
package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the workout screen key bindings.
type KeyMap struct {
	Finish       key.Binding
	SkipRest     key.Binding
	SkipExercise key.Binding
	Pause        key.Binding
	Restart      key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Finish: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "start / finish set"),
		),
		SkipRest: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "skip rest"),
		),
		SkipExercise: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "skip exercise"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Restart: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "restart"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Finish, k.Pause, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Finish, k.SkipRest, k.SkipExercise},
		{k.Pause, k.Restart},
		{k.Help, k.Quit},
	}
}
