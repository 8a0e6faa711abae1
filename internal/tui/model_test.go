// ABOUTME: Tests for the workout screen model and the post-session log form.
// ABOUTME: Drives Update directly with key and tick messages; no terminal needed.
package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
)

func testPlan() *models.WorkoutPlan {
	return models.NewWorkoutPlan("Full Body",
		models.NewSingle(models.Exercise{Name: "Squat", Mode: models.ModeReps, Reps: "10"}, 2, 30),
		models.NewSingle(models.Exercise{Name: "Plank", Mode: models.ModeTime, DurationSeconds: 30}, 1, 0),
	)
}

func newTestModel(t *testing.T, save SaveFunc) *Model {
	t.Helper()
	engine, err := execution.NewEngine(testPlan())
	require.NoError(t, err)
	t.Cleanup(func() { _ = engine.Close() })
	return New(engine, save)
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func tick(m *Model, gen int) tea.Cmd {
	_, cmd := m.Update(tickMsg{gen: gen})
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestStartSchedulesTick(t *testing.T) {
	m := newTestModel(t, nil)

	cmd := press(m, "enter")
	assert.NotNil(t, cmd)
	assert.Equal(t, execution.Running, m.engine.State().Status)
	assert.Equal(t, 1, m.gen)
}

func TestTickAdvancesClock(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "enter")

	cmd := tick(m, m.gen)
	assert.NotNil(t, cmd, "running session keeps ticking")
	assert.Equal(t, 1, m.engine.State().ExerciseElapsed)
	assert.Equal(t, 1, m.engine.State().TotalElapsed)
}

func TestPauseDropsInFlightTicks(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "enter")
	first := m.gen
	tick(m, first)

	press(m, "p")
	require.Equal(t, execution.Paused, m.engine.State().Status)
	assert.Nil(t, tick(m, first))

	cmd := press(m, "p")
	require.Equal(t, execution.Running, m.engine.State().Status)
	assert.NotNil(t, cmd)
	assert.Greater(t, m.gen, first)

	// The pre-pause chain must not double-count.
	tick(m, first)
	assert.Equal(t, 1, m.engine.State().TotalElapsed)
	tick(m, m.gen)
	assert.Equal(t, 2, m.engine.State().TotalElapsed)
}

func TestEnterDuringRestSkipsRest(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "enter")
	press(m, "enter")
	require.Equal(t, execution.PhaseRest, m.engine.State().Phase)

	press(m, "enter")
	st := m.engine.State()
	assert.Equal(t, execution.PhaseExercise, st.Phase)
	assert.Equal(t, 2, st.Series)
}

func TestRestExpiresOnTicks(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "enter")
	press(m, "enter")

	for i := 0; i < 30; i++ {
		tick(m, m.gen)
	}
	st := m.engine.State()
	assert.Equal(t, execution.PhaseExercise, st.Phase)
	assert.Equal(t, 2, st.Series)
}

func TestInvalidKeysAreIgnored(t *testing.T) {
	m := newTestModel(t, nil)

	assert.Nil(t, press(m, "n"), "skip rest before start")
	assert.Nil(t, press(m, "p"), "pause before start")
	assert.Equal(t, execution.NotStarted, m.engine.State().Status)
	assert.NoError(t, m.Err())
}

func TestRestartReturnsToNotStarted(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "enter")
	gen := m.gen
	tick(m, gen)

	press(m, "R")
	assert.Equal(t, execution.NotStarted, m.engine.State().Status)
	tick(m, gen)
	assert.Equal(t, 0, m.engine.State().TotalElapsed)
}

func TestCompletionOpensLogFormAndSaves(t *testing.T) {
	var saved *models.Session
	m := newTestModel(t, func(s *models.Session) error {
		saved = s
		return nil
	})

	press(m, "enter")
	tick(m, m.gen)
	press(m, "x")
	press(m, "enter")

	require.Equal(t, stateLogging, m.state)
	require.NotNil(t, m.logForm)
	assert.Equal(t, []int{0, 1}, m.logForm.items, "every plan item is offered, skipped ones included")

	cmd := press(m, "esc")
	assert.True(t, isQuit(cmd))
	require.NotNil(t, saved)
	assert.Same(t, saved, m.Session())
	require.Len(t, saved.Items, 2)
	assert.True(t, saved.Items[0].Skipped)
	assert.True(t, saved.Items[1].Completed)
	assert.Equal(t, 1, saved.TotalSeconds)
	assert.Nil(t, saved.Exertion)
}

func TestLogFormEntriesReachSession(t *testing.T) {
	var saved *models.Session
	m := newTestModel(t, func(s *models.Session) error {
		saved = s
		return nil
	})

	press(m, "enter")
	press(m, "x")
	tick(m, m.gen)
	press(m, "enter")
	require.Equal(t, stateLogging, m.state)

	lf := m.logForm
	lf.loads[0] = "60"
	lf.efforts[0] = 3
	lf.notes[0] = "knee sore"
	lf.reps[1] = "1"
	lf.efforts[1] = 5
	lf.notes[1] = "held to failure"
	lf.exertion = 4
	lf.Completed = true

	_, cmd := m.submitLog()
	assert.True(t, isQuit(cmd))
	require.NoError(t, m.Err())
	require.NotNil(t, saved)
	require.Len(t, saved.Items, 2)

	squat := saved.Items[0]
	assert.True(t, squat.Skipped)
	require.NotNil(t, squat.LoadKg)
	assert.Equal(t, 60.0, *squat.LoadKg)
	require.NotNil(t, squat.Exertion)
	assert.Equal(t, 3, *squat.Exertion)
	assert.Equal(t, "knee sore", squat.Notes)

	plank := saved.Items[1]
	require.NotNil(t, plank.Reps)
	assert.Equal(t, 1, *plank.Reps)
	require.NotNil(t, plank.Exertion)
	assert.Equal(t, 5, *plank.Exertion)
	assert.Equal(t, "held to failure", plank.Notes)

	require.NotNil(t, saved.Exertion)
	assert.Equal(t, 4, *saved.Exertion)
}

func TestSaveErrorIsReported(t *testing.T) {
	m := newTestModel(t, func(*models.Session) error { return errors.New("disk full") })

	press(m, "enter")
	press(m, "x")
	press(m, "x")
	require.Equal(t, stateLogging, m.state)

	cmd := press(m, "esc")
	assert.True(t, isQuit(cmd))
	assert.EqualError(t, m.Err(), "disk full")
	assert.Nil(t, m.Session())
}

func TestQuitAbandonsSession(t *testing.T) {
	called := false
	m := newTestModel(t, func(*models.Session) error {
		called = true
		return nil
	})
	press(m, "enter")

	assert.True(t, isQuit(press(m, "q")))
	assert.False(t, called)
	assert.Nil(t, m.Session())
	assert.ErrorIs(t, m.engine.Tick(), execution.ErrClosed)
}

func TestViewRendersPhases(t *testing.T) {
	m := newTestModel(t, nil)
	assert.Contains(t, m.View(), "Press enter to start")

	press(m, "enter")
	out := m.View()
	assert.Contains(t, out, "Squat")
	assert.Contains(t, out, "Series 1/2")
	assert.Contains(t, out, "Next: Plank")

	press(m, "enter")
	assert.Contains(t, m.View(), "REST 00:30")

	press(m, "p")
	assert.Contains(t, m.View(), "PAUSED")
}

func TestLogFormEntries(t *testing.T) {
	plan := testPlan()
	state := execution.State{
		Status: execution.Completed,
		Completed: []execution.Record{
			{ItemIndex: 0, SeriesDone: 2},
			{ItemIndex: 1, SeriesDone: 1},
		},
	}
	lf := NewLogForm(plan, state)
	require.Equal(t, []int{0, 1}, lf.items)

	lf.loads[0] = " 42.5 "
	lf.reps[0] = "10"
	lf.efforts[1] = 5
	lf.notes[1] = "  shaky at the end "
	lf.exertion = 4
	lf.comment = "  felt strong  "

	entries := lf.Entries()
	assert.Equal(t, map[int]execution.LogEntry{
		0: {LoadKg: 42.5, Reps: 10},
		1: {Exertion: 5, Notes: "shaky at the end"},
	}, entries)
	assert.Equal(t, 4, lf.Exertion())
	assert.Equal(t, "felt strong", lf.Comment())

	lf.Cancelled = true
	assert.Empty(t, lf.Entries())
	assert.Zero(t, lf.Exertion())
	assert.Empty(t, lf.Comment())
}

func TestLogFormValidators(t *testing.T) {
	tests := []struct {
		in       string
		floatErr bool
		intErr   bool
	}{
		{"", false, false},
		{"12", false, false},
		{"12.5", false, true},
		{"-3", true, true},
		{"abc", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.floatErr, optionalFloat(tt.in) != nil)
			assert.Equal(t, tt.intErr, optionalInt(tt.in) != nil)
		})
	}
}
