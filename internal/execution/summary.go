// ABOUTME: Post-session logging and SessionSummary assembly.
// ABOUTME: Sanitizes logged values and builds the history record handed to storage.
package execution

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/trainer/internal/models"
)

// Sanitize clamps malformed values to "absent" instead of failing.
func (e LogEntry) Sanitize() LogEntry {
	if e.LoadKg < 0 {
		e.LoadKg = 0
	}
	if e.Reps < 0 {
		e.Reps = 0
	}
	if !models.ValidExertion(e.Exertion) {
		e.Exertion = 0
	}
	e.Notes = strings.TrimSpace(e.Notes)
	return e
}

// Log attaches a log entry to a plan item. Only valid once the workout is completed.
func Log(plan *models.WorkoutPlan, s State, item int, entry LogEntry) (State, error) {
	if s.Status != Completed {
		return s, ErrNotCompleted
	}
	if item < 0 || item >= len(plan.Items) {
		return s, fmt.Errorf("%w: %d", ErrItemOutOfRange, item)
	}
	return s.withLog(item, entry.Sanitize()), nil
}

// Summarize assembles the session record. It moves the state to Closed.
// The exertion rating is dropped when outside 1-5.
func Summarize(plan *models.WorkoutPlan, s State, exertion int, comment string, now time.Time) (State, *models.Session, error) {
	if s.Status != Completed {
		return s, nil, ErrNotCompleted
	}

	session := models.NewSession(plan)
	session.StartedAt = s.StartedAt
	session.CompletedAt = s.CompletedAt
	if session.CompletedAt.IsZero() {
		session.CompletedAt = now
	}
	session.CreatedAt = now
	session.TotalSeconds = s.TotalElapsed

	records := make(map[int]Record, len(s.Completed))
	for _, r := range s.Completed {
		records[r.ItemIndex] = r
	}

	for i, item := range plan.Items {
		si := models.SessionItem{
			ItemIndex: i,
			Name:      item.Name(),
			Series:    item.Series,
		}
		if r, ok := records[i]; ok {
			si.Completed = true
			si.Skipped = r.Skipped
			si.ExerciseSeconds = r.ExerciseSeconds
			si.RestSeconds = r.RestSeconds
		}
		if e, ok := s.Logs[i]; ok {
			if e.LoadKg > 0 {
				load := e.LoadKg
				si.LoadKg = &load
			}
			if e.Reps > 0 {
				reps := e.Reps
				si.Reps = &reps
			}
			if e.Exertion > 0 {
				ex := e.Exertion
				si.Exertion = &ex
			}
			si.Notes = e.Notes
		}
		session.Items = append(session.Items, si)
	}

	if models.ValidExertion(exertion) {
		session.Exertion = &exertion
	}
	if c := strings.TrimSpace(comment); c != "" {
		session.Comment = &c
	}

	s.Status = Closed
	return s, session, nil
}
