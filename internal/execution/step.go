// ABOUTME: Pure transition function for the guided workout state machine.
// ABOUTME: (plan, state, event) -> (state, cues); ticks are events so tests control time.
package execution

import (
	"fmt"
	"time"

	"github.com/harperreed/trainer/internal/cue"
	"github.com/harperreed/trainer/internal/models"
)

// EventKind names a user action or timer tick.
type EventKind string

const (
	EventStart        EventKind = "start"
	EventPause        EventKind = "pause"
	EventResume       EventKind = "resume"
	EventFinishUnit   EventKind = "finish_unit"
	EventSkipRest     EventKind = "skip_rest"
	EventSkipExercise EventKind = "skip_exercise"
	EventRestart      EventKind = "restart"
	EventTick         EventKind = "tick"
)

// Event is an input to Step. At is the wall-clock time it happened.
type Event struct {
	Kind EventKind
	At   time.Time
}

// On builds an event of the given kind at time at.
func On(kind EventKind, at time.Time) Event {
	return Event{Kind: kind, At: at}
}

// Step applies ev to s. On an invalid event it returns s unchanged with an
// error wrapping ErrInvalidTransition. Ticks outside the running status are
// ignored without error because a stale tick may still be in flight.
func Step(plan *models.WorkoutPlan, s State, ev Event) (State, []cue.Cue, error) {
	invalid := func() (State, []cue.Cue, error) {
		return s, nil, fmt.Errorf("%w: %s while %s/%s", ErrInvalidTransition, ev.Kind, s.Status, s.Phase)
	}

	switch ev.Kind {
	case EventRestart:
		return Initial(), nil, nil

	case EventStart:
		if s.Status != NotStarted {
			return invalid()
		}
		next := Initial()
		next.Status = Running
		next.StartedAt = ev.At
		if len(plan.Items) == 0 {
			next.Status = Completed
			next.CompletedAt = ev.At
			return next, []cue.Cue{completeCue()}, nil
		}
		return next, []cue.Cue{itemCue(plan.Items[0])}, nil

	case EventPause:
		if s.Status != Running {
			return invalid()
		}
		s.Status = Paused
		return s, nil, nil

	case EventResume:
		if s.Status != Paused {
			return invalid()
		}
		s.Status = Running
		return s, nil, nil

	case EventTick:
		if s.Status != Running {
			return s, nil, nil
		}
		return tick(plan, s)

	case EventFinishUnit:
		if s.Status != Running || s.Phase != PhaseExercise {
			return invalid()
		}
		return finishUnit(plan, s, ev.At)

	case EventSkipRest:
		if s.Status != Running || s.Phase != PhaseRest {
			return invalid()
		}
		next, c := nextSeries(plan, s)
		return next, []cue.Cue{c}, nil

	case EventSkipExercise:
		if !s.Active() {
			return invalid()
		}
		return completeItem(plan, s, true, ev.At)
	}

	return invalid()
}

func tick(plan *models.WorkoutPlan, s State) (State, []cue.Cue, error) {
	s.TotalElapsed++
	if s.Phase == PhaseExercise {
		s.ExerciseElapsed++
		s.ItemExercise++
		return s, nil, nil
	}

	s.RestElapsed++
	s.ItemRest++
	if s.RestElapsed >= plan.Items[s.ItemIndex].RestSeconds {
		next, c := nextSeries(plan, s)
		return next, []cue.Cue{c}, nil
	}
	return s, nil, nil
}

func finishUnit(plan *models.WorkoutPlan, s State, at time.Time) (State, []cue.Cue, error) {
	item := plan.Items[s.ItemIndex]

	// No rest between exercises of the same superset round.
	if item.Kind == models.ItemSuperset && s.ExerciseIndex < len(item.Exercises)-1 {
		s.ExerciseIndex++
		s.ExerciseElapsed = 0
		ex := item.Exercises[s.ExerciseIndex]
		return s, []cue.Cue{{Kind: cue.NextExercise, Text: ex.Name}}, nil
	}

	if s.Series < item.Series {
		if item.RestSeconds <= 0 {
			next, c := nextSeries(plan, s)
			return next, []cue.Cue{c}, nil
		}
		s.Phase = PhaseRest
		s.RestElapsed = 0
		s.ExerciseElapsed = 0
		return s, []cue.Cue{{Kind: cue.Rest, Text: fmt.Sprintf("Rest %d seconds", item.RestSeconds)}}, nil
	}

	return completeItem(plan, s, false, at)
}

// nextSeries is the single path for rest expiry, skip-rest and zero-rest advances.
func nextSeries(plan *models.WorkoutPlan, s State) (State, cue.Cue) {
	item := plan.Items[s.ItemIndex]
	s.Series++
	s.ExerciseIndex = 0
	s.Phase = PhaseExercise
	s.ExerciseElapsed = 0
	s.RestElapsed = 0
	return s, cue.Cue{Kind: cue.NextSeries, Text: fmt.Sprintf("Series %d of %d", s.Series, item.Series)}
}

// completeItem is the only place records are appended and plan completion is detected.
func completeItem(plan *models.WorkoutPlan, s State, skipped bool, at time.Time) (State, []cue.Cue, error) {
	seriesDone := s.Series
	if skipped {
		seriesDone = s.Series - 1
		if s.Phase == PhaseRest {
			seriesDone = s.Series
		}
	}

	s = s.withRecord(Record{
		ItemIndex:       s.ItemIndex,
		ExerciseSeconds: s.ItemExercise,
		RestSeconds:     s.ItemRest,
		SeriesDone:      seriesDone,
		Skipped:         skipped,
	})

	s.ItemIndex++
	s.ExerciseIndex = 0
	s.Series = 1
	s.Phase = PhaseExercise
	s.ExerciseElapsed = 0
	s.RestElapsed = 0
	s.ItemExercise = 0
	s.ItemRest = 0

	if s.ItemIndex == len(plan.Items) {
		s.Status = Completed
		s.CompletedAt = at
		return s, []cue.Cue{completeCue()}, nil
	}
	return s, []cue.Cue{itemCue(plan.Items[s.ItemIndex])}, nil
}

func itemCue(item models.WorkoutItem) cue.Cue {
	return cue.Cue{Kind: cue.NextExercise, Text: item.Name()}
}

func completeCue() cue.Cue {
	return cue.Cue{Kind: cue.Complete, Text: "Workout complete"}
}
