// ABOUTME: Tests for post-session logging, summaries and derived display values.
// ABOUTME: Covers sanitizing, closed status, clocks and progress ratios.
package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedMixed(t *testing.T) State {
	t.Helper()
	plan := mixedPlan()
	s, _ := run(t, plan, Initial(), EventStart, EventTick, EventTick, EventTick, EventFinishUnit)
	s, _ = run(t, plan, s, ticks(10)...)
	s, _ = run(t, plan, s, EventTick, EventFinishUnit, EventSkipExercise, EventSkipExercise)
	require.Equal(t, Completed, s.Status)
	return s
}

func TestLogRequiresCompleted(t *testing.T) {
	plan := mixedPlan()
	s, _ := run(t, plan, Initial(), EventStart)

	_, err := Log(plan, s, 0, LogEntry{LoadKg: 50})
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestLogItemRange(t *testing.T) {
	plan := mixedPlan()
	s := completedMixed(t)

	_, err := Log(plan, s, 3, LogEntry{})
	assert.ErrorIs(t, err, ErrItemOutOfRange)
	_, err = Log(plan, s, -1, LogEntry{})
	assert.ErrorIs(t, err, ErrItemOutOfRange)
}

func TestLogSanitizes(t *testing.T) {
	plan := mixedPlan()
	s := completedMixed(t)

	next, err := Log(plan, s, 0, LogEntry{LoadKg: -5, Reps: -1, Exertion: 9, Notes: "  felt heavy  "})
	require.NoError(t, err)
	assert.Equal(t, LogEntry{Notes: "felt heavy"}, next.Logs[0])
	assert.Empty(t, s.Logs, "original state must not change")
}

func TestSummarize(t *testing.T) {
	plan := mixedPlan()
	s := completedMixed(t)

	s, err := Log(plan, s, 0, LogEntry{LoadKg: 60, Reps: 10, Exertion: 4})
	require.NoError(t, err)

	closed, session, err := Summarize(plan, s, 3, "  good  ", t0)
	require.NoError(t, err)

	assert.Equal(t, Closed, closed.Status)
	assert.Equal(t, plan.ID, session.PlanID)
	assert.Equal(t, "Mixed", session.PlanName)
	assert.Equal(t, s.TotalElapsed, session.TotalSeconds)
	require.Len(t, session.Items, 3)

	first := session.Items[0]
	assert.Equal(t, "Squat", first.Name)
	assert.True(t, first.Completed)
	assert.False(t, first.Skipped)
	assert.Equal(t, 4, first.ExerciseSeconds)
	assert.Equal(t, 10, first.RestSeconds)
	require.NotNil(t, first.LoadKg)
	assert.Equal(t, 60.0, *first.LoadKg)
	require.NotNil(t, first.Reps)
	assert.Equal(t, 10, *first.Reps)
	require.NotNil(t, first.Exertion)
	assert.Equal(t, 4, *first.Exertion)

	assert.True(t, session.Items[1].Skipped)
	assert.Nil(t, session.Items[1].LoadKg)
	assert.True(t, session.Items[2].Skipped)

	require.NotNil(t, session.Exertion)
	assert.Equal(t, 3, *session.Exertion)
	require.NotNil(t, session.Comment)
	assert.Equal(t, "good", *session.Comment)
	assert.Equal(t, 1, session.CompletedItems())

	_, _, err = Summarize(plan, closed, 3, "", t0)
	assert.ErrorIs(t, err, ErrNotCompleted)
}

func TestSummarizeDropsInvalidExertion(t *testing.T) {
	plan := mixedPlan()
	for _, exertion := range []int{0, -1, 6} {
		_, session, err := Summarize(plan, completedMixed(t), exertion, "   ", t0)
		require.NoError(t, err)
		assert.Nil(t, session.Exertion)
		assert.Nil(t, session.Comment)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "00:00"},
		{9, "00:09"},
		{65, "01:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "60:00"},
		{-3, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.seconds), "seconds=%d", tt.seconds)
	}
}

func TestDerive(t *testing.T) {
	plan := mixedPlan()

	v := Derive(plan, Initial())
	assert.Equal(t, NotStarted, v.Status)
	assert.Equal(t, 1, v.ItemNumber)
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "Squat", v.ItemName)
	assert.Equal(t, "Row + Plank", v.NextItemName)
	assert.Equal(t, "00:00", v.TotalClock)
	assert.Equal(t, 0.0, v.Progress)

	s, _ := run(t, plan, Initial(), EventStart, EventSkipExercise, EventTick, EventFinishUnit)
	v = Derive(plan, s)
	assert.Equal(t, 2, v.ItemNumber)
	assert.Equal(t, "bi-set", v.Label)
	assert.Equal(t, 2, v.ExerciseNumber)
	assert.Equal(t, 2, v.ExerciseCount)
	require.NotNil(t, v.Exercise)
	assert.Equal(t, "Plank", v.Exercise.Name)
	assert.Equal(t, 1, v.Series)
	assert.Equal(t, 2, v.SeriesTotal)
	assert.Equal(t, 1, v.CompletedItems)
	assert.InDelta(t, 1.0/3.0, v.Progress, 1e-9)
	assert.Equal(t, "00:01", v.TotalClock)

	s, _ = run(t, plan, s, EventFinishUnit, EventTick)
	v = Derive(plan, s)
	assert.Equal(t, PhaseRest, v.Phase)
	assert.Equal(t, 4, v.RestRemaining)
	assert.Equal(t, "00:04", v.RestClock)

	done := completedMixed(t)
	v = Derive(plan, done)
	assert.Equal(t, Completed, v.Status)
	assert.Equal(t, 3, v.ItemNumber)
	assert.Empty(t, v.ItemName)
	assert.Equal(t, 1.0, v.Progress)
}
