// ABOUTME: Post-session log form built with huh.
// ABOUTME: Collects session exertion, a comment and optional load, reps, exertion and notes per plan item.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
)

// LogForm is a Bubble Tea component for the post-session log.
type LogForm struct {
	Completed bool
	Cancelled bool

	form     *huh.Form
	exertion int
	comment  string
	items    []int // plan indexes offered for logging
	loads    []string
	reps     []string
	efforts  []int
	notes    []string
}

// NewLogForm builds the form with one group per plan item, skipped ones
// included, after a session-wide exertion and comment.
func NewLogForm(plan *models.WorkoutPlan, state execution.State) *LogForm {
	lf := &LogForm{}
	skipped := make(map[int]bool, len(state.Completed))
	for _, r := range state.Completed {
		skipped[r.ItemIndex] = r.Skipped
	}
	for i := range plan.Items {
		lf.items = append(lf.items, i)
	}
	lf.loads = make([]string, len(lf.items))
	lf.reps = make([]string, len(lf.items))
	lf.efforts = make([]int, len(lf.items))
	lf.notes = make([]string, len(lf.items))

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How hard was it?").
				Options(exertionOptions()...).
				Value(&lf.exertion),
			huh.NewText().
				Title("Comment").
				Description("Optional").
				CharLimit(500).
				Value(&lf.comment),
		).Title("Workout complete"),
	}

	for i, idx := range lf.items {
		item := plan.Items[idx]
		title := fmt.Sprintf("%d. %s", idx+1, item.Name())
		if skipped[idx] {
			title += " (skipped)"
		}
		groups = append(groups, huh.NewGroup(
			huh.NewInput().
				Title("Load (kg)").
				Placeholder("blank to skip").
				Value(&lf.loads[i]).
				Validate(optionalFloat),
			huh.NewInput().
				Title("Reps").
				Placeholder("blank to skip").
				Value(&lf.reps[i]).
				Validate(optionalInt),
			huh.NewSelect[int]().
				Title("Exertion").
				Options(exertionOptions()...).
				Value(&lf.efforts[i]),
			huh.NewInput().
				Title("Notes").
				Placeholder("optional").
				CharLimit(200).
				Value(&lf.notes[i]),
		).Title(title))
	}

	lf.form = huh.NewForm(groups...).WithShowHelp(true)
	return lf
}

func exertionOptions() []huh.Option[int] {
	opts := []huh.Option[int]{huh.NewOption("skip", 0)}
	for _, o := range []string{"very easy", "easy", "moderate", "hard", "maximal"} {
		n := len(opts)
		opts = append(opts, huh.NewOption(fmt.Sprintf("%d - %s", n, o), n))
	}
	return opts
}

func (lf *LogForm) Init() tea.Cmd {
	return lf.form.Init()
}

func (lf *LogForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "esc" || keyMsg.String() == "ctrl+c" {
			lf.Cancelled = true
			lf.Completed = true
			return lf, nil
		}
	}

	form, cmd := lf.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		lf.form = f
	}

	switch lf.form.State {
	case huh.StateCompleted:
		lf.Completed = true
		return lf, nil
	case huh.StateAborted:
		lf.Cancelled = true
		lf.Completed = true
		return lf, nil
	}
	return lf, cmd
}

func (lf *LogForm) View() string {
	return lf.form.View()
}

// Entries returns the per-item logs keyed by plan item index. Items left
// blank are omitted. A cancelled form yields nothing.
func (lf *LogForm) Entries() map[int]execution.LogEntry {
	entries := make(map[int]execution.LogEntry)
	if lf.Cancelled {
		return entries
	}
	for i, idx := range lf.items {
		load, _ := strconv.ParseFloat(strings.TrimSpace(lf.loads[i]), 64)
		reps, _ := strconv.Atoi(strings.TrimSpace(lf.reps[i]))
		e := execution.LogEntry{
			LoadKg:   max(load, 0),
			Reps:     max(reps, 0),
			Exertion: lf.efforts[i],
			Notes:    strings.TrimSpace(lf.notes[i]),
		}
		if e == (execution.LogEntry{}) {
			continue
		}
		entries[idx] = e
	}
	return entries
}

// Exertion is the 1-5 rating, or 0 when skipped.
func (lf *LogForm) Exertion() int {
	if lf.Cancelled {
		return 0
	}
	return lf.exertion
}

// Comment is the trimmed free-text comment.
func (lf *LogForm) Comment() string {
	if lf.Cancelled {
		return ""
	}
	return strings.TrimSpace(lf.comment)
}

func optionalFloat(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

func optionalInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a whole number")
	}
	return nil
}
