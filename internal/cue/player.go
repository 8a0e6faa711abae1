// ABOUTME: OS sound and speech player for workout cues.
// ABOUTME: Platform-specific commands live in player_*.go files with build tags.
package cue

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// SoundPlayer implements Player using system sound and speech commands.
type SoundPlayer struct {
	// Voice enables spoken announcements after the sound.
	Voice bool
	// Bell is where the terminal bell fallback is written.
	Bell io.Writer
}

// NewSoundPlayer creates a player that falls back to the terminal bell on stderr.
func NewSoundPlayer(voice bool) *SoundPlayer {
	return &SoundPlayer{Voice: voice, Bell: os.Stderr}
}

// Play plays the sound for the cue kind and optionally speaks its text.
func (p *SoundPlayer) Play(ctx context.Context, c Cue) error {
	if err := runFirst(ctx, soundCommands(c.Kind)); err != nil {
		if err := p.terminalBell(); err != nil {
			return err
		}
	}
	if p.Voice && c.Text != "" {
		if err := runFirst(ctx, speechCommands(c.Text)); err != nil {
			return fmt.Errorf("speak cue: %w", err)
		}
	}
	return nil
}

// terminalBell outputs a terminal bell character as fallback
func (p *SoundPlayer) terminalBell() error {
	if p.Bell == nil {
		return nil
	}
	_, err := fmt.Fprint(p.Bell, "\a")
	return err
}

type command struct {
	cmd  string
	args []string
}

// runFirst runs each candidate until one succeeds.
func runFirst(ctx context.Context, candidates []command) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no command available")
	}
	var lastErr error
	for _, c := range candidates {
		cmd := exec.CommandContext(ctx, c.cmd, c.args...)
		if err := cmd.Run(); err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		return nil
	}
	return lastErr
}
