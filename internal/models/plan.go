// ABOUTME: WorkoutPlan model: an ordered list of single exercises and supersets.
// ABOUTME: Validates series counts, rep descriptors and timed durations.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemKind distinguishes single exercises from superset groups.
type ItemKind string

const (
	ItemSingle   ItemKind = "single"
	ItemSuperset ItemKind = "superset"
)

// ExecutionMode says whether an exercise is counted in reps or timed.
type ExecutionMode string

const (
	ModeReps ExecutionMode = "reps"
	ModeTime ExecutionMode = "time"
)

// Exercise is one movement inside a workout item.
type Exercise struct {
	Name            string        `json:"name" yaml:"name"`
	MuscleGroup     string        `json:"muscle_group,omitempty" yaml:"muscle_group,omitempty"`
	Mode            ExecutionMode `json:"mode" yaml:"mode"`
	Reps            string        `json:"reps,omitempty" yaml:"reps,omitempty"`
	DurationSeconds int           `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	Notes           string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	VideoURL        string        `json:"video_url,omitempty" yaml:"video_url,omitempty"`
}

// Target renders the rep descriptor or duration for display.
func (e Exercise) Target() string {
	if e.Mode == ModeTime {
		return fmt.Sprintf("%ds", e.DurationSeconds)
	}
	return e.Reps + " reps"
}

// WorkoutItem is a single exercise or a superset sharing series and rest.
type WorkoutItem struct {
	Kind        ItemKind   `json:"kind" yaml:"kind"`
	Series      int        `json:"series" yaml:"series"`
	RestSeconds int        `json:"rest_seconds,omitempty" yaml:"rest_seconds,omitempty"`
	Exercises   []Exercise `json:"exercises" yaml:"exercises"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewSingle creates a single-exercise item.
func NewSingle(ex Exercise, series, restSeconds int) WorkoutItem {
	return WorkoutItem{Kind: ItemSingle, Series: series, RestSeconds: restSeconds, Exercises: []Exercise{ex}}
}

// NewSuperset creates a superset item from two or more exercises.
func NewSuperset(series, restSeconds int, exercises ...Exercise) WorkoutItem {
	return WorkoutItem{Kind: ItemSuperset, Series: series, RestSeconds: restSeconds, Exercises: exercises}
}

// Name returns the exercise name, or the joined names for a superset.
func (it WorkoutItem) Name() string {
	names := make([]string, 0, len(it.Exercises))
	for _, e := range it.Exercises {
		names = append(names, e.Name)
	}
	return strings.Join(names, " + ")
}

// Label is "bi-set", "tri-set" or "giga-set" for supersets, empty otherwise.
func (it WorkoutItem) Label() string {
	if it.Kind != ItemSuperset {
		return ""
	}
	switch len(it.Exercises) {
	case 2:
		return "bi-set"
	case 3:
		return "tri-set"
	default:
		return "giga-set"
	}
}

// Validate checks the item's invariants.
func (it WorkoutItem) Validate() error {
	if it.Series <= 0 {
		return fmt.Errorf("series must be positive, got %d", it.Series)
	}
	if it.RestSeconds < 0 {
		return fmt.Errorf("rest must not be negative, got %d", it.RestSeconds)
	}
	switch it.Kind {
	case ItemSingle:
		if len(it.Exercises) != 1 {
			return fmt.Errorf("single item needs exactly one exercise, got %d", len(it.Exercises))
		}
	case ItemSuperset:
		if len(it.Exercises) < 2 {
			return fmt.Errorf("superset needs at least two exercises, got %d", len(it.Exercises))
		}
	default:
		return fmt.Errorf("unknown item kind: %q", it.Kind)
	}
	for i, e := range it.Exercises {
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("exercise %d: name is required", i+1)
		}
		switch e.Mode {
		case ModeReps:
			if strings.TrimSpace(e.Reps) == "" {
				return fmt.Errorf("exercise %q: reps are required", e.Name)
			}
		case ModeTime:
			if e.DurationSeconds <= 0 {
				return fmt.Errorf("exercise %q: duration must be positive", e.Name)
			}
		default:
			return fmt.Errorf("exercise %q: unknown mode %q", e.Name, e.Mode)
		}
	}
	return nil
}

// WorkoutPlan is an authored workout (treino), optionally assigned to a client.
type WorkoutPlan struct {
	ID          uuid.UUID     `json:"id" yaml:"id"`
	ClientID    *uuid.UUID    `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	Name        string        `json:"name" yaml:"name"`
	Description *string       `json:"description,omitempty" yaml:"description,omitempty"`
	Items       []WorkoutItem `json:"items" yaml:"items"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
}

// NewWorkoutPlan creates a plan with generated UUID and current timestamp.
func NewWorkoutPlan(name string, items ...WorkoutItem) *WorkoutPlan {
	return &WorkoutPlan{
		ID:        uuid.New(),
		Name:      name,
		Items:     items,
		CreatedAt: time.Now(),
	}
}

// WithClient assigns the plan to a client.
func (p *WorkoutPlan) WithClient(id uuid.UUID) *WorkoutPlan {
	p.ClientID = &id
	return p
}

// WithDescription sets the plan description.
func (p *WorkoutPlan) WithDescription(d string) *WorkoutPlan {
	p.Description = &d
	return p
}

// Validate checks the plan and every item.
func (p *WorkoutPlan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("plan name is required")
	}
	if len(p.Items) == 0 {
		return errors.New("plan has no items")
	}
	for i, it := range p.Items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return nil
}

// TotalSeries counts series across all items.
func (p *WorkoutPlan) TotalSeries() int {
	n := 0
	for _, it := range p.Items {
		n += it.Series
	}
	return n
}
