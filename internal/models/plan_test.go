// ABOUTME: Tests for WorkoutPlan, WorkoutItem, and Exercise models.
// ABOUTME: Validates constructors, superset labels, and plan invariants.
package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func squat() Exercise {
	return Exercise{Name: "Squat", MuscleGroup: "legs", Mode: ModeReps, Reps: "8-10"}
}

func plank() Exercise {
	return Exercise{Name: "Plank", MuscleGroup: "core", Mode: ModeTime, DurationSeconds: 45}
}

func TestNewWorkoutPlan(t *testing.T) {
	p := NewWorkoutPlan("Lower A", NewSingle(squat(), 3, 90))

	if p.ID == uuid.Nil {
		t.Error("expected UUID to be set")
	}
	if p.Name != "Lower A" {
		t.Errorf("Name = %s, want Lower A", p.Name)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
}

func TestWorkoutPlanWithClient(t *testing.T) {
	clientID := uuid.New()
	p := NewWorkoutPlan("Upper").WithClient(clientID)

	if p.ClientID == nil || *p.ClientID != clientID {
		t.Error("expected ClientID to match")
	}
}

func TestSupersetLabel(t *testing.T) {
	tests := []struct {
		item WorkoutItem
		want string
	}{
		{NewSingle(squat(), 3, 60), ""},
		{NewSuperset(3, 60, squat(), plank()), "bi-set"},
		{NewSuperset(3, 60, squat(), plank(), squat()), "tri-set"},
		{NewSuperset(3, 60, squat(), plank(), squat(), plank()), "giga-set"},
	}

	for _, tt := range tests {
		if got := tt.item.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestItemName(t *testing.T) {
	it := NewSuperset(3, 60, squat(), plank())
	if got := it.Name(); got != "Squat + Plank" {
		t.Errorf("Name() = %q, want %q", got, "Squat + Plank")
	}
}

func TestExerciseTarget(t *testing.T) {
	if got := squat().Target(); got != "8-10 reps" {
		t.Errorf("Target() = %q", got)
	}
	if got := plank().Target(); got != "45s" {
		t.Errorf("Target() = %q", got)
	}
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name      string
		plan      *WorkoutPlan
		errSubstr string
	}{
		{"valid", NewWorkoutPlan("A", NewSingle(squat(), 3, 60), NewSuperset(2, 0, squat(), plank())), ""},
		{"no name", NewWorkoutPlan(" ", NewSingle(squat(), 3, 60)), "name is required"},
		{"no items", NewWorkoutPlan("A"), "no items"},
		{"zero series", NewWorkoutPlan("A", NewSingle(squat(), 0, 60)), "series must be positive"},
		{"negative rest", NewWorkoutPlan("A", NewSingle(squat(), 3, -1)), "rest must not be negative"},
		{"short superset", NewWorkoutPlan("A", NewSuperset(3, 60, squat())), "at least two"},
		{"empty reps", NewWorkoutPlan("A", NewSingle(Exercise{Name: "Row", Mode: ModeReps}, 3, 60)), "reps are required"},
		{"zero duration", NewWorkoutPlan("A", NewSingle(Exercise{Name: "Hold", Mode: ModeTime}, 3, 60)), "duration must be positive"},
		{"unknown mode", NewWorkoutPlan("A", NewSingle(Exercise{Name: "Hold", Mode: "x"}, 3, 60)), "unknown mode"},
		{"unknown kind", NewWorkoutPlan("A", WorkoutItem{Kind: "circuit", Series: 1, Exercises: []Exercise{squat()}}), "unknown item kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.errSubstr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.errSubstr)
			}
		})
	}
}

func TestTotalSeries(t *testing.T) {
	p := NewWorkoutPlan("A", NewSingle(squat(), 3, 60), NewSuperset(4, 60, squat(), plank()))
	if got := p.TotalSeries(); got != 7 {
		t.Errorf("TotalSeries() = %d, want 7", got)
	}
}
