// ABOUTME: Cue types and the Player capability used by the workout engine.
// ABOUTME: Includes a no-op player and a recording player for tests.
package cue

import (
	"context"
	"sync"
)

// Kind identifies which transition a cue announces.
type Kind string

const (
	NextSeries   Kind = "next_series"
	NextExercise Kind = "next_exercise"
	Rest         Kind = "rest"
	Complete     Kind = "complete"
)

// Cue is a fire-and-forget sound/voice announcement.
type Cue struct {
	Kind Kind
	Text string
}

// Player plays cues. Implementations may block until playback ends.
type Player interface {
	Play(ctx context.Context, c Cue) error
}

// Nop discards every cue.
type Nop struct{}

// Play implements Player.
func (Nop) Play(context.Context, Cue) error { return nil }

// Recorder keeps every cue it is asked to play.
type Recorder struct {
	mu   sync.Mutex
	cues []Cue
	Err  error
}

// Play implements Player.
func (r *Recorder) Play(_ context.Context, c Cue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cues = append(r.cues, c)
	return r.Err
}

// Cues returns a copy of the recorded cues.
func (r *Recorder) Cues() []Cue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Cue(nil), r.cues...)
}

// Kinds returns the recorded cue kinds in order.
func (r *Recorder) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]Kind, 0, len(r.cues))
	for _, c := range r.cues {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}
