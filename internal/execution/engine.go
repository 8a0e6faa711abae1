// ABOUTME: Imperative workout engine wrapping the pure transition function.
// ABOUTME: Dispatches cues asynchronously and owns the cue player's lifetime.
package execution

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/harperreed/trainer/internal/cue"
	"github.com/harperreed/trainer/internal/models"
)

// Engine drives one session over an immutable plan. It is safe for
// concurrent use, though a single driver goroutine is the expected setup.
type Engine struct {
	mu     sync.Mutex
	plan   *models.WorkoutPlan
	state  State
	cues   *cue.Async
	log    *slog.Logger
	now    func() time.Time
	closed bool
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	player cue.Player
	log    *slog.Logger
	now    func() time.Time
}

// WithCuePlayer sets the player for sound and voice cues.
func WithCuePlayer(p cue.Player) Option {
	return func(c *engineConfig) { c.player = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *engineConfig) { c.log = l }
}

// WithClock overrides the wall clock used for start and completion times.
func WithClock(now func() time.Time) Option {
	return func(c *engineConfig) { c.now = now }
}

// NewEngine validates the plan and returns an engine in the not-started state.
func NewEngine(plan *models.WorkoutPlan, opts ...Option) (*Engine, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan is required")
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	cfg := engineConfig{player: cue.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = slog.New(slog.DiscardHandler)
	}

	return &Engine{
		plan:  plan,
		state: Initial(),
		cues:  cue.NewAsync(cfg.player, cfg.log, cue.DefaultConcurrency),
		log:   cfg.log.With("plan_id", plan.ID.String()),
		now:   cfg.now,
	}, nil
}

// Plan returns the plan being executed.
func (e *Engine) Plan() *models.WorkoutPlan {
	return e.plan
}

// Start begins the session.
func (e *Engine) Start() error { return e.apply(EventStart) }

// Pause suspends time accrual.
func (e *Engine) Pause() error { return e.apply(EventPause) }

// Resume continues a paused session.
func (e *Engine) Resume() error { return e.apply(EventResume) }

// FinishCurrentUnit marks the current exercise (or superset member) done.
func (e *Engine) FinishCurrentUnit() error { return e.apply(EventFinishUnit) }

// SkipRest ends the current rest period early.
func (e *Engine) SkipRest() error { return e.apply(EventSkipRest) }

// SkipExercise completes the current item regardless of phase or series.
func (e *Engine) SkipExercise() error { return e.apply(EventSkipExercise) }

// Restart clears everything back to not started.
func (e *Engine) Restart() error { return e.apply(EventRestart) }

// Tick advances one second. It is a no-op unless running.
func (e *Engine) Tick() error { return e.apply(EventTick) }

func (e *Engine) apply(kind EventKind) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	prev := e.state
	next, cues, err := Step(e.plan, e.state, On(kind, e.now()))
	if err != nil {
		e.log.Debug("event rejected", "event", kind, "error", err)
		return err
	}
	e.state = next

	if kind != EventTick || prev.Phase != next.Phase || prev.ItemIndex != next.ItemIndex {
		e.log.Debug("transition",
			"event", kind,
			"status", next.Status,
			"phase", next.Phase,
			"item", next.ItemIndex,
			"series", next.Series,
		)
	}
	for _, c := range cues {
		e.cues.Play(c)
	}
	return nil
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// View returns the derived display values.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Derive(e.plan, e.state)
}

// Progress returns completed items over total items.
func (e *Engine) Progress() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Progress(e.plan, e.state)
}

// Log attaches post-session data to an item.
func (e *Engine) Log(item int, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	next, err := Log(e.plan, e.state, item, entry)
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// SubmitLog merges entries, assembles the session summary and closes the engine.
func (e *Engine) SubmitLog(entries map[int]LogEntry, exertion int, comment string) (*models.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}

	s := e.state
	for item, entry := range entries {
		var err error
		if s, err = Log(e.plan, s, item, entry); err != nil {
			return nil, err
		}
	}

	next, session, err := Summarize(e.plan, s, exertion, comment, e.now())
	if err != nil {
		return nil, err
	}
	e.state = next
	e.log.Info("session summarized",
		"items", len(session.Items),
		"total_seconds", session.TotalSeconds,
	)
	e.closeLocked()
	return session, nil
}

// Close cancels pending cues and releases the player. Safe to call repeatedly.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
	return nil
}

func (e *Engine) closeLocked() {
	if e.closed {
		return
	}
	e.closed = true
	_ = e.cues.Close()
}
