// ABOUTME: Pure derivation of display values from plan and execution state.
// ABOUTME: Clocks are MM:SS; progress is completed items over total items.
package execution

import (
	"fmt"

	"github.com/harperreed/trainer/internal/models"
)

// View is everything a UI needs to render the current moment.
type View struct {
	Status Status
	Phase  Phase

	ItemNumber int
	ItemCount  int
	ItemName   string
	Label      string
	Notes      string

	Exercise       *models.Exercise
	ExerciseNumber int
	ExerciseCount  int

	Series      int
	SeriesTotal int

	ExerciseClock string
	RestClock     string
	RestRemaining int
	TotalClock    string

	CompletedItems int
	Progress       float64
	NextItemName   string
}

// FormatClock renders whole seconds as zero-padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Progress is completed items divided by total items.
func Progress(plan *models.WorkoutPlan, s State) float64 {
	if len(plan.Items) == 0 {
		return 0
	}
	return float64(len(s.Completed)) / float64(len(plan.Items))
}

// Derive computes the view for s.
func Derive(plan *models.WorkoutPlan, s State) View {
	v := View{
		Status:         s.Status,
		Phase:          s.Phase,
		ItemCount:      len(plan.Items),
		ExerciseClock:  FormatClock(s.ExerciseElapsed),
		TotalClock:     FormatClock(s.TotalElapsed),
		CompletedItems: len(s.Completed),
		Progress:       Progress(plan, s),
	}

	if s.ItemIndex >= len(plan.Items) {
		v.ItemNumber = len(plan.Items)
		v.RestClock = FormatClock(0)
		return v
	}

	item := plan.Items[s.ItemIndex]
	v.ItemNumber = s.ItemIndex + 1
	v.ItemName = item.Name()
	v.Label = item.Label()
	v.Notes = item.Notes
	v.Series = s.Series
	v.SeriesTotal = item.Series
	v.ExerciseCount = len(item.Exercises)
	if s.ExerciseIndex < len(item.Exercises) {
		ex := item.Exercises[s.ExerciseIndex]
		v.Exercise = &ex
		v.ExerciseNumber = s.ExerciseIndex + 1
	}

	if s.Phase == PhaseRest {
		v.RestRemaining = max(item.RestSeconds-s.RestElapsed, 0)
	}
	v.RestClock = FormatClock(v.RestRemaining)

	if s.ItemIndex+1 < len(plan.Items) {
		v.NextItemName = plan.Items[s.ItemIndex+1].Name()
	}
	return v
}
