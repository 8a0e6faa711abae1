//go:build linux

// ABOUTME: Sound cue commands for Linux.
// ABOUTME: Tries paplay first and falls back to aplay.

package cue

// soundCommands plays sounds on Linux using paplay (PulseAudio) or aplay (ALSA)
func soundCommands(kind Kind) []command {
	switch kind {
	case Complete:
		return []command{
			{"paplay", []string{"/usr/share/sounds/freedesktop/stereo/complete.oga"}},
			{"aplay", []string{"/usr/share/sounds/freedesktop/stereo/complete.wav"}},
		}
	case Rest:
		return []command{
			{"paplay", []string{"/usr/share/sounds/freedesktop/stereo/message.oga"}},
			{"aplay", []string{"/usr/share/sounds/freedesktop/stereo/message.wav"}},
		}
	default:
		return []command{
			{"paplay", []string{"/usr/share/sounds/freedesktop/stereo/bell.oga"}},
			{"aplay", []string{"/usr/share/sounds/freedesktop/stereo/bell.wav"}},
		}
	}
}

// speechCommands speaks text with speech-dispatcher or espeak
func speechCommands(text string) []command {
	return []command{
		{"spd-say", []string{"--wait", text}},
		{"espeak", []string{text}},
	}
}
