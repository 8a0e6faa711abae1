// ABOUTME: Session model: the summary of one guided workout execution.
// ABOUTME: Holds per-item timings and the trainee's post-session log.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxExertion is the top of the 1-5 perceived exertion scale.
const MaxExertion = 5

// SessionItem records how one workout item went.
type SessionItem struct {
	ItemIndex       int      `json:"item_index" yaml:"item_index"`
	Name            string   `json:"name" yaml:"name"`
	Series          int      `json:"series" yaml:"series"`
	ExerciseSeconds int      `json:"exercise_seconds" yaml:"exercise_seconds"`
	RestSeconds     int      `json:"rest_seconds" yaml:"rest_seconds"`
	Skipped         bool     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Completed       bool     `json:"completed" yaml:"completed"`
	LoadKg          *float64 `json:"load_kg,omitempty" yaml:"load_kg,omitempty"`
	Reps            *int     `json:"reps,omitempty" yaml:"reps,omitempty"`
	Exertion        *int     `json:"exertion,omitempty" yaml:"exertion,omitempty"`
	Notes           string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Session is a completed workout (history record).
type Session struct {
	ID           uuid.UUID     `json:"id" yaml:"id"`
	PlanID       uuid.UUID     `json:"plan_id" yaml:"plan_id"`
	PlanName     string        `json:"plan_name" yaml:"plan_name"`
	ClientID     *uuid.UUID    `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	CompletedAt  time.Time     `json:"completed_at" yaml:"completed_at"`
	TotalSeconds int           `json:"total_seconds" yaml:"total_seconds"`
	Items        []SessionItem `json:"items" yaml:"items"`
	Exertion     *int          `json:"exertion,omitempty" yaml:"exertion,omitempty"`
	Comment      *string       `json:"comment,omitempty" yaml:"comment,omitempty"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
}

// NewSession creates a session for a plan with generated UUID.
func NewSession(plan *WorkoutPlan) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.New(),
		PlanID:      plan.ID,
		PlanName:    plan.Name,
		ClientID:    plan.ClientID,
		StartedAt:   now,
		CompletedAt: now,
		CreatedAt:   now,
	}
}

// WithClient attributes the session to a client.
func (s *Session) WithClient(id uuid.UUID) *Session {
	s.ClientID = &id
	return s
}

// CompletedItems counts items finished without skipping.
func (s *Session) CompletedItems() int {
	n := 0
	for _, it := range s.Items {
		if it.Completed && !it.Skipped {
			n++
		}
	}
	return n
}

// Volume sums load × reps across logged items.
func (s *Session) Volume() float64 {
	var v float64
	for _, it := range s.Items {
		if it.LoadKg != nil && it.Reps != nil {
			v += *it.LoadKg * float64(*it.Reps) * float64(it.Series)
		}
	}
	return v
}

// ValidExertion reports whether v is on the 1-5 scale.
func ValidExertion(v int) bool {
	return v >= 1 && v <= MaxExertion
}
