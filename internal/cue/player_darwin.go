//go:build darwin

// ABOUTME: Sound cue commands for macOS.
// ABOUTME: Shells out to afplay with the system sound files.

package cue

// soundCommands plays sounds on macOS using afplay
func soundCommands(kind Kind) []command {
	var file string
	switch kind {
	case Complete:
		file = "/System/Library/Sounds/Glass.aiff"
	case Rest:
		file = "/System/Library/Sounds/Pop.aiff"
	default:
		file = "/System/Library/Sounds/Ping.aiff"
	}
	return []command{{"afplay", []string{file}}}
}

func speechCommands(text string) []command {
	return []command{{"say", []string{text}}}
}
