// ABOUTME: Asynchronous cue playback that never blocks or fails the caller.
// ABOUTME: Completion cues pre-empt anything still playing; Close waits for release.
package cue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is how many cues may play at once before new ones are dropped.
const DefaultConcurrency = 2

// Async plays cues in the background. Errors and panics from the wrapped
// player are logged and swallowed.
//
// Ordinary cues are dropped when the player is saturated. A Complete cue is
// never dropped: it cancels whatever is still playing and plays outside the
// concurrency limit.
type Async struct {
	player Player
	log    *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
	urgent sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	nextID   int
	inFlight map[int]context.CancelFunc
}

// NewAsync wraps player. A nil logger discards log output.
func NewAsync(player Player, log *slog.Logger, concurrency int) *Async {
	if player == nil {
		player = Nop{}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Async{
		player:   player,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		inFlight: make(map[int]context.CancelFunc),
	}
	a.group.SetLimit(concurrency)
	return a
}

// Play schedules c and returns immediately. It reports false when the cue
// was dropped because the player is saturated or closed.
func (a *Async) Play(c Cue) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false
	}

	if c.Kind == Complete {
		for id, cancel := range a.inFlight {
			cancel()
			delete(a.inFlight, id)
		}
		a.urgent.Add(1)
		go func() {
			defer a.urgent.Done()
			a.playSafely(a.ctx, c)
		}()
		return true
	}

	id := a.nextID
	a.nextID++
	ctx, cancel := context.WithCancel(a.ctx)
	started := a.group.TryGo(func() error {
		defer a.release(id, cancel)
		a.playSafely(ctx, c)
		return nil
	})
	if !started {
		cancel()
		a.log.Debug("cue dropped", "kind", c.Kind)
		return false
	}
	a.inFlight[id] = cancel
	return true
}

func (a *Async) release(id int, cancel context.CancelFunc) {
	cancel()
	a.mu.Lock()
	delete(a.inFlight, id)
	a.mu.Unlock()
}

func (a *Async) playSafely(ctx context.Context, c Cue) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Warn("cue player panicked", "kind", c.Kind, "panic", fmt.Sprint(r))
		}
	}()
	if err := a.player.Play(ctx, c); err != nil && ctx.Err() == nil {
		a.log.Warn("cue playback failed", "kind", c.Kind, "error", err)
	}
}

// Close cancels in-flight playback and waits for it to stop.
// It is safe to call more than once.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	_ = a.group.Wait()
	a.urgent.Wait()
	return nil
}
