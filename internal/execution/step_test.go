// ABOUTME: Tests for the pure workout transition function.
// ABOUTME: Drives simulated ticks to check phases, rest expiry, skips and restarts.
package execution

import (
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/cue"
	"github.com/harperreed/trainer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)

func squat() models.Exercise {
	return models.Exercise{Name: "Squat", MuscleGroup: "legs", Mode: models.ModeReps, Reps: "10"}
}

func row() models.Exercise {
	return models.Exercise{Name: "Row", MuscleGroup: "back", Mode: models.ModeReps, Reps: "12"}
}

func plank() models.Exercise {
	return models.Exercise{Name: "Plank", MuscleGroup: "core", Mode: models.ModeTime, DurationSeconds: 30}
}

func singlePlan(series, rest int) *models.WorkoutPlan {
	return models.NewWorkoutPlan("Single", models.NewSingle(squat(), series, rest))
}

func mixedPlan() *models.WorkoutPlan {
	return models.NewWorkoutPlan("Mixed",
		models.NewSingle(squat(), 2, 10),
		models.NewSuperset(2, 5, row(), plank()),
		models.NewSingle(plank(), 1, 0),
	)
}

// run applies events and fails on the first rejection.
func run(t *testing.T, plan *models.WorkoutPlan, s State, kinds ...EventKind) (State, []cue.Cue) {
	t.Helper()
	var all []cue.Cue
	for _, k := range kinds {
		var cues []cue.Cue
		var err error
		s, cues, err = Step(plan, s, On(k, t0))
		require.NoError(t, err, "event %s", k)
		all = append(all, cues...)
	}
	return s, all
}

func ticks(n int) []EventKind {
	out := make([]EventKind, n)
	for i := range out {
		out[i] = EventTick
	}
	return out
}

func kinds(cues []cue.Cue) []cue.Kind {
	out := make([]cue.Kind, 0, len(cues))
	for _, c := range cues {
		out = append(out, c.Kind)
	}
	return out
}

func TestStart(t *testing.T) {
	plan := singlePlan(2, 10)
	s, cues, err := Step(plan, Initial(), On(EventStart, t0))
	require.NoError(t, err)

	assert.Equal(t, Running, s.Status)
	assert.Equal(t, PhaseExercise, s.Phase)
	assert.Equal(t, 1, s.Series)
	assert.Equal(t, 0, s.TotalElapsed)
	assert.Equal(t, t0, s.StartedAt)
	assert.Equal(t, []cue.Kind{cue.NextExercise}, kinds(cues))

	_, _, err = Step(plan, s, On(EventStart, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSingleExerciseOneRestPhase(t *testing.T) {
	plan := singlePlan(2, 10)
	s, _ := run(t, plan, Initial(), EventStart)
	s, _ = run(t, plan, s, ticks(4)...)
	assert.Equal(t, 4, s.ExerciseElapsed)

	s, cues := run(t, plan, s, EventFinishUnit)
	require.Equal(t, PhaseRest, s.Phase)
	assert.Equal(t, []cue.Kind{cue.Rest}, kinds(cues))

	restTicks := 0
	for s.Phase == PhaseRest {
		var tickCues []cue.Cue
		s, tickCues = run(t, plan, s, EventTick)
		restTicks++
		require.LessOrEqual(t, restTicks, 10, "rest never ended")
		if s.Phase == PhaseExercise {
			assert.Equal(t, []cue.Kind{cue.NextSeries}, kinds(tickCues))
		}
	}
	assert.Equal(t, 10, restTicks)
	assert.Equal(t, 2, s.Series)
	assert.Equal(t, 0, s.RestElapsed)
	assert.Equal(t, 0, s.ExerciseElapsed)

	s, _ = run(t, plan, s, ticks(3)...)
	s, cues = run(t, plan, s, EventFinishUnit)

	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, []cue.Kind{cue.Complete}, kinds(cues))
	require.Len(t, s.Completed, 1)
	assert.Equal(t, Record{ItemIndex: 0, ExerciseSeconds: 7, RestSeconds: 10, SeriesDone: 2}, s.Completed[0])
	assert.Equal(t, 17, s.TotalElapsed)
	assert.Equal(t, 1.0, Progress(plan, s))
}

func TestZeroRestSkipsRestPhase(t *testing.T) {
	plan := singlePlan(3, 0)
	s, _ := run(t, plan, Initial(), EventStart)

	s, cues := run(t, plan, s, EventFinishUnit)
	assert.Equal(t, PhaseExercise, s.Phase)
	assert.Equal(t, 2, s.Series)
	assert.Equal(t, []cue.Kind{cue.NextSeries}, kinds(cues))
}

func TestSkipRestMatchesRestExpiry(t *testing.T) {
	plan := singlePlan(3, 10)
	s, _ := run(t, plan, Initial(), EventStart, EventTick, EventFinishUnit)
	require.Equal(t, PhaseRest, s.Phase)

	skipped, skipCues := run(t, plan, s, EventSkipRest)

	expired, expiryCues := run(t, plan, s, ticks(10)...)

	assert.Equal(t, skipped.Phase, expired.Phase)
	assert.Equal(t, skipped.Series, expired.Series)
	assert.Equal(t, skipped.ExerciseIndex, expired.ExerciseIndex)
	assert.Equal(t, skipped.RestElapsed, expired.RestElapsed)
	assert.Equal(t, skipCues, expiryCues)
}

func TestSkipRestOutsideRest(t *testing.T) {
	plan := singlePlan(3, 10)
	s, _ := run(t, plan, Initial(), EventStart)

	next, _, err := Step(plan, s, On(EventSkipRest, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, next)
}

func TestSupersetNoRestBetweenMembers(t *testing.T) {
	plan := models.NewWorkoutPlan("SS", models.NewSuperset(2, 30, row(), plank(), squat()))
	s, _ := run(t, plan, Initial(), EventStart, EventTick, EventTick)

	s, cues := run(t, plan, s, EventFinishUnit)
	assert.Equal(t, PhaseExercise, s.Phase)
	assert.Equal(t, 1, s.ExerciseIndex)
	assert.Equal(t, 0, s.ExerciseElapsed)
	assert.Equal(t, 1, s.Series)
	assert.Equal(t, []cue.Cue{{Kind: cue.NextExercise, Text: "Plank"}}, cues)

	s, _ = run(t, plan, s, EventFinishUnit)
	assert.Equal(t, 2, s.ExerciseIndex)

	// Last member ends the round and starts the group rest.
	s, _ = run(t, plan, s, EventFinishUnit)
	assert.Equal(t, PhaseRest, s.Phase)

	s, _ = run(t, plan, s, EventSkipRest)
	assert.Equal(t, 2, s.Series)
	assert.Equal(t, 0, s.ExerciseIndex)

	s, _ = run(t, plan, s, EventFinishUnit, EventFinishUnit, EventFinishUnit)
	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, 2, s.Completed[0].ExerciseSeconds)
}

func TestSkipExerciseSamePathInAnyPhase(t *testing.T) {
	plan := mixedPlan()
	s, _ := run(t, plan, Initial(), EventStart, EventTick, EventTick)

	fromExercise, cuesA := run(t, plan, s, EventSkipExercise)

	inRest, _ := run(t, plan, s, EventFinishUnit)
	require.Equal(t, PhaseRest, inRest.Phase)
	fromRest, cuesB := run(t, plan, inRest, EventSkipExercise)

	for _, got := range []State{fromExercise, fromRest} {
		require.Len(t, got.Completed, 1)
		assert.Equal(t, 0, got.Completed[0].ItemIndex)
		assert.True(t, got.Completed[0].Skipped)
		assert.Equal(t, 2, got.Completed[0].ExerciseSeconds)
		assert.Equal(t, 1, got.ItemIndex)
		assert.Equal(t, 1, got.Series)
		assert.Equal(t, PhaseExercise, got.Phase)
		assert.Equal(t, 0, got.RestElapsed)
	}
	assert.Equal(t, cuesA, cuesB)
	assert.Equal(t, []cue.Cue{{Kind: cue.NextExercise, Text: "Row + Plank"}}, cuesA)
}

func TestSkipExerciseCompletesPlan(t *testing.T) {
	plan := mixedPlan()
	s, _ := run(t, plan, Initial(), EventStart, EventSkipExercise, EventSkipExercise)
	require.Equal(t, Running, s.Status)

	s, cues := run(t, plan, s, EventSkipExercise)
	assert.Equal(t, Completed, s.Status)
	assert.Equal(t, []cue.Kind{cue.Complete}, kinds(cues))
	assert.Len(t, s.Completed, 3)
	assert.Equal(t, 3, Derive(plan, s).CompletedItems)
}

func TestSkipExerciseWhilePaused(t *testing.T) {
	plan := mixedPlan()
	s, _ := run(t, plan, Initial(), EventStart, EventPause, EventSkipExercise)

	assert.Equal(t, Paused, s.Status)
	assert.Equal(t, 1, s.ItemIndex)
}

func TestPauseStopsAccrual(t *testing.T) {
	plan := singlePlan(2, 10)
	s, _ := run(t, plan, Initial(), EventStart)
	s, _ = run(t, plan, s, ticks(5)...)
	s, _ = run(t, plan, s, EventPause)

	paused := s
	s, _ = run(t, plan, s, ticks(30)...)
	assert.Equal(t, paused, s)

	s, _ = run(t, plan, s, EventResume)
	s, _ = run(t, plan, s, ticks(2)...)
	assert.Equal(t, 7, s.TotalElapsed)
	assert.Equal(t, 7, s.ExerciseElapsed)
}

func TestPauseDuringRestKeepsRemaining(t *testing.T) {
	plan := singlePlan(2, 10)
	s, _ := run(t, plan, Initial(), EventStart, EventFinishUnit)
	s, _ = run(t, plan, s, ticks(4)...)
	s, _ = run(t, plan, s, EventPause)
	s, _ = run(t, plan, s, ticks(20)...)
	s, _ = run(t, plan, s, EventResume)

	assert.Equal(t, PhaseRest, s.Phase)
	assert.Equal(t, 6, Derive(plan, s).RestRemaining)
}

func TestPauseResumeInvalid(t *testing.T) {
	plan := singlePlan(2, 10)

	_, _, err := Step(plan, Initial(), On(EventPause, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, _, err = Step(plan, Initial(), On(EventResume, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ := run(t, plan, Initial(), EventStart)
	_, _, err = Step(plan, s, On(EventResume, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFinishUnitRequiresRunningExercise(t *testing.T) {
	plan := singlePlan(2, 10)

	_, _, err := Step(plan, Initial(), On(EventFinishUnit, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ := run(t, plan, Initial(), EventStart, EventFinishUnit)
	_, _, err = Step(plan, s, On(EventFinishUnit, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s, _ = run(t, plan, Initial(), EventStart, EventPause)
	_, _, err = Step(plan, s, On(EventFinishUnit, t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTickIgnoredUnlessRunning(t *testing.T) {
	plan := singlePlan(1, 0)
	for _, s := range []State{Initial(), func() State { s, _ := run(t, plan, Initial(), EventStart, EventFinishUnit); return s }()} {
		next, cues, err := Step(plan, s, On(EventTick, t0))
		require.NoError(t, err)
		assert.Nil(t, cues)
		assert.Equal(t, s, next)
	}
}

func TestRestartFromAnyState(t *testing.T) {
	plan := mixedPlan()

	completed, _ := run(t, plan, Initial(), EventStart, EventSkipExercise, EventSkipExercise, EventSkipExercise)
	require.Equal(t, Completed, completed.Status)
	logged, err := Log(plan, completed, 0, LogEntry{LoadKg: 60, Reps: 10, Exertion: 4})
	require.NoError(t, err)

	running, _ := run(t, plan, Initial(), EventStart, EventTick, EventSkipExercise)
	resting, _ := run(t, plan, Initial(), EventStart, EventFinishUnit)
	paused, _ := run(t, plan, Initial(), EventStart, EventPause)

	for name, s := range map[string]State{
		"not started": Initial(),
		"running":     running,
		"resting":     resting,
		"paused":      paused,
		"completed":   completed,
		"logged":      logged,
	} {
		t.Run(name, func(t *testing.T) {
			next, _ := run(t, plan, s, EventRestart)
			assert.Equal(t, Initial(), next)
			assert.Equal(t, 0.0, Progress(plan, next))
			assert.Empty(t, next.Logs)
			assert.Empty(t, next.Completed)
		})
	}
}

func TestStepDoesNotShareCompletedSlices(t *testing.T) {
	plan := mixedPlan()
	base, _ := run(t, plan, Initial(), EventStart, EventSkipExercise)

	a, _ := run(t, plan, base, EventSkipExercise)
	b, _ := run(t, plan, base, EventPause, EventSkipExercise)

	require.Len(t, base.Completed, 1)
	require.Len(t, a.Completed, 2)
	require.Len(t, b.Completed, 2)
	assert.Equal(t, 1, a.Completed[1].ItemIndex)
	assert.Equal(t, 1, b.Completed[1].ItemIndex)
}

func TestUnknownEvent(t *testing.T) {
	_, _, err := Step(singlePlan(1, 0), Initial(), On("jump", t0))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
