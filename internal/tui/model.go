// ABOUTME: Bubble Tea model driving a guided workout through the execution engine.
// ABOUTME: Owns the one-second tick, key handling and the hand-off to the post-session log.
package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/logging"
	"github.com/harperreed/trainer/internal/models"
)

type uiState int

const (
	stateWorkout uiState = iota
	stateLogging
	stateDone
)

// SaveFunc persists the finished session.
type SaveFunc func(*models.Session) error

// tickMsg carries the generation that scheduled it. Pausing, restarting or
// finishing bumps the generation so ticks already in flight are dropped.
type tickMsg struct {
	gen int
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Model is the workout screen.
type Model struct {
	bar      progress.Model
	engine   *execution.Engine
	err      error
	gen      int
	help     help.Model
	keys     KeyMap
	logForm  *LogForm
	save     SaveFunc
	session  *models.Session
	state    uiState
	quitting bool
	width    int
}

// New returns a model for an engine that has not been started yet.
func New(engine *execution.Engine, save SaveFunc) *Model {
	return &Model{
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		engine: engine,
		help:   help.New(),
		keys:   DefaultKeyMap(),
		save:   save,
		state:  stateWorkout,
	}
}

// Session returns the saved session, or nil if the workout was abandoned.
func (m *Model) Session() *models.Session {
	return m.session
}

// Err returns the error that ended the program, if any.
func (m *Model) Err() error {
	return m.err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.help.Width = size.Width
		m.bar.Width = max(min(size.Width-8, 60), 10)
	}

	switch m.state {
	case stateWorkout:
		return m.updateWorkout(msg)
	case stateLogging:
		return m.updateLogging(msg)
	}
	return m, nil
}

func (m *Model) updateWorkout(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m.onTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.engine.State()

	switch {
	case key.Matches(msg, m.keys.Quit):
		logging.Logger.Info("workout abandoned", "status", st.Status, "item", st.ItemIndex)
		m.quitting = true
		_ = m.engine.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Finish):
		switch {
		case st.Status == execution.NotStarted:
			return m.apply(m.engine.Start, true)
		case st.Phase == execution.PhaseRest:
			return m.apply(m.engine.SkipRest, false)
		default:
			return m.apply(m.engine.FinishCurrentUnit, false)
		}

	case key.Matches(msg, m.keys.SkipRest):
		return m.apply(m.engine.SkipRest, false)

	case key.Matches(msg, m.keys.SkipExercise):
		return m.apply(m.engine.SkipExercise, false)

	case key.Matches(msg, m.keys.Pause):
		if st.Status == execution.Paused {
			return m.apply(m.engine.Resume, true)
		}
		m.gen++
		return m.apply(m.engine.Pause, false)

	case key.Matches(msg, m.keys.Restart):
		m.gen++
		return m.apply(m.engine.Restart, false)
	}
	return m, nil
}

// apply runs an engine event. Rejected transitions are ignored; the key
// simply does nothing in that state. startTicks begins a new tick chain,
// used by Start and Resume.
func (m *Model) apply(event func() error, startTicks bool) (tea.Model, tea.Cmd) {
	if err := event(); err != nil {
		if errors.Is(err, execution.ErrInvalidTransition) {
			return m, nil
		}
		return m.fail(err)
	}

	if m.checkCompleted() {
		return m, m.logForm.Init()
	}
	if startTicks && m.engine.State().Status == execution.Running {
		m.gen++
		return m, tickCmd(m.gen)
	}
	return m, nil
}

func (m *Model) onTick() (tea.Model, tea.Cmd) {
	if err := m.engine.Tick(); err != nil {
		return m.fail(err)
	}
	if m.checkCompleted() {
		return m, m.logForm.Init()
	}
	if m.engine.State().Status == execution.Running {
		return m, tickCmd(m.gen)
	}
	return m, nil
}

// checkCompleted switches to the log form once the workout completes.
func (m *Model) checkCompleted() bool {
	st := m.engine.State()
	if st.Status != execution.Completed {
		return false
	}
	m.gen++
	m.state = stateLogging
	m.logForm = NewLogForm(m.engine.Plan(), st)
	logging.Logger.Info("workout completed", "total_seconds", st.TotalElapsed, "items", len(st.Completed))
	return true
}

func (m *Model) updateLogging(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.logForm.Update(msg)
	if !m.logForm.Completed {
		return m, cmd
	}
	return m.submitLog()
}

// submitLog hands the finished form to the engine and saves the session.
func (m *Model) submitLog() (tea.Model, tea.Cmd) {
	session, err := m.engine.SubmitLog(m.logForm.Entries(), m.logForm.Exertion(), m.logForm.Comment())
	if err != nil {
		return m.fail(err)
	}
	if m.save != nil {
		if err := m.save(session); err != nil {
			return m.fail(err)
		}
	}
	logging.Logger.Info("session saved", "session_id", session.ID.String())
	m.session = session
	m.state = stateDone
	return m, tea.Quit
}

func (m *Model) fail(err error) (tea.Model, tea.Cmd) {
	logging.Logger.Error("workout failed", "error", err)
	m.err = err
	m.state = stateDone
	_ = m.engine.Close()
	return m, tea.Quit
}
