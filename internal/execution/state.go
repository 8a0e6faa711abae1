// ABOUTME: Execution state for a guided workout session.
// ABOUTME: Plain value type; transitions copy rather than mutate shared slices.
package execution

import (
	"errors"
	"maps"
	"time"
)

// Status is the session-level state.
type Status string

const (
	NotStarted Status = "not_started"
	Running    Status = "running"
	Paused     Status = "paused"
	Completed  Status = "completed"
	Closed     Status = "closed"
)

// Phase is the sub-state inside a series.
type Phase string

const (
	PhaseExercise Phase = "exercise"
	PhaseRest     Phase = "rest"
)

var (
	// ErrInvalidTransition is returned when an event does not apply to the current status or phase.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotCompleted is returned when logging is attempted before the workout ends.
	ErrNotCompleted = errors.New("workout not completed")
	// ErrItemOutOfRange is returned when a log entry names an item the plan lacks.
	ErrItemOutOfRange = errors.New("item out of range")
	// ErrClosed is returned by an engine after Close or SubmitLog.
	ErrClosed = errors.New("session closed")
)

// Record is how one workout item went. Exactly one is appended per item.
type Record struct {
	ItemIndex       int  `json:"item_index"`
	ExerciseSeconds int  `json:"exercise_seconds"`
	RestSeconds     int  `json:"rest_seconds"`
	SeriesDone      int  `json:"series_done"`
	Skipped         bool `json:"skipped"`
}

// LogEntry is the data a trainee enters for an item after the session.
type LogEntry struct {
	LoadKg   float64 `json:"load_kg,omitempty"`
	Reps     int     `json:"reps,omitempty"`
	Exertion int     `json:"exertion,omitempty"`
	Notes    string  `json:"notes,omitempty"`
}

// State is the transient state of one session.
type State struct {
	Status        Status
	ItemIndex     int
	ExerciseIndex int
	Series        int
	Phase         Phase

	ExerciseElapsed int
	RestElapsed     int
	TotalElapsed    int

	// Per-item accumulators, moved into a Record when the item completes.
	ItemExercise int
	ItemRest     int

	Completed []Record
	Logs      map[int]LogEntry

	StartedAt   time.Time
	CompletedAt time.Time
}

// Initial returns the not-started state.
func Initial() State {
	return State{
		Status: NotStarted,
		Series: 1,
		Phase:  PhaseExercise,
	}
}

// Active reports whether the session is running or paused.
func (s State) Active() bool {
	return s.Status == Running || s.Status == Paused
}

func (s State) withRecord(r Record) State {
	completed := make([]Record, len(s.Completed), len(s.Completed)+1)
	copy(completed, s.Completed)
	s.Completed = append(completed, r)
	return s
}

func (s State) withLog(item int, e LogEntry) State {
	logs := maps.Clone(s.Logs)
	if logs == nil {
		logs = make(map[int]LogEntry)
	}
	logs[item] = e
	s.Logs = logs
	return s
}
