//go:build windows

// ABOUTME: Sound cue commands for Windows.
// ABOUTME: Plays system sounds through PowerShell.

package cue

// soundCommands plays sounds on Windows using PowerShell
func soundCommands(kind Kind) []command {
	var sound string
	switch kind {
	case Complete:
		sound = "[System.Media.SystemSounds]::Asterisk.Play()"
	case Rest:
		sound = "[System.Media.SystemSounds]::Exclamation.Play()"
	default:
		sound = "[System.Media.SystemSounds]::Beep.Play()"
	}
	return []command{{"powershell", []string{"-c", sound}}}
}

func speechCommands(text string) []command {
	script := "Add-Type -AssemblyName System.Speech; " +
		"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak('" + escapeSingleQuotes(text) + "')"
	return []command{{"powershell", []string{"-c", script}}}
}

func escapeSingleQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\'' {
			out = append(out, '\'')
		}
		out = append(out, r)
	}
	return string(out)
}
