//go:build !linux && !darwin && !windows

// ABOUTME: Sound cue stub for platforms without a known player.
// ABOUTME: Returns no commands so the player falls back to the terminal bell.

package cue

func soundCommands(Kind) []command { return nil }

func speechCommands(string) []command { return nil }
