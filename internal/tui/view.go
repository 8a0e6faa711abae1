// ABOUTME: Rendering of the workout screen from the engine's derived view.
// ABOUTME: Shows the current item, series, clocks, overall progress and key help.
package tui

import (
	"fmt"
	"strings"

	"github.com/harperreed/trainer/internal/execution"
)

func (m *Model) View() string {
	switch m.state {
	case stateLogging:
		return FrameStyle.Render(m.logForm.View())
	case stateDone:
		if m.err != nil {
			return ErrorStyle.Render("Error: "+m.err.Error()) + "\n"
		}
		return ""
	}
	if m.quitting {
		return ""
	}

	v := m.engine.View()
	var b strings.Builder

	b.WriteString(TitleStyle.Render(m.engine.Plan().Name))
	b.WriteString("  ")
	b.WriteString(statusBadge(v))
	b.WriteString("\n\n")

	if v.Status == execution.NotStarted {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%d items. Press enter to start.", v.ItemCount)))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		return FrameStyle.Render(b.String())
	}

	name := v.ItemName
	if v.Label != "" {
		name += MutedStyle.Render(" (" + v.Label + ")")
	}
	b.WriteString(LabelStyle.Render(fmt.Sprintf("Item %d/%d  ", v.ItemNumber, v.ItemCount)))
	b.WriteString(ItemStyle.Render(name))
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(fmt.Sprintf("Series %d/%d", v.Series, v.SeriesTotal)))
	if v.Exercise != nil {
		if v.ExerciseCount > 1 {
			b.WriteString(LabelStyle.Render(fmt.Sprintf("  ·  %d/%d ", v.ExerciseNumber, v.ExerciseCount)))
		} else {
			b.WriteString(LabelStyle.Render("  ·  "))
		}
		b.WriteString(v.Exercise.Name + " " + MutedStyle.Render(v.Exercise.Target()))
	}
	b.WriteString("\n")
	if v.Notes != "" {
		b.WriteString(MutedStyle.Render(v.Notes))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.Phase == execution.PhaseRest {
		b.WriteString(RestClockStyle.Render("REST " + v.RestClock))
	} else {
		b.WriteString(ExerciseClockStyle.Render("WORK " + v.ExerciseClock))
	}
	b.WriteString(LabelStyle.Render("   total " + v.TotalClock))
	b.WriteString("\n\n")

	b.WriteString(m.bar.ViewAs(v.Progress))
	b.WriteString(LabelStyle.Render(fmt.Sprintf("  %d/%d", v.CompletedItems, v.ItemCount)))
	b.WriteString("\n")
	if v.NextItemName != "" {
		b.WriteString(MutedStyle.Render("Next: " + v.NextItemName))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return FrameStyle.Render(b.String())
}

func statusBadge(v execution.View) string {
	switch v.Status {
	case execution.Paused:
		return PausedStyle.Render("PAUSED")
	case execution.Running:
		if v.Phase == execution.PhaseRest {
			return RestClockStyle.Render("resting")
		}
		return ExerciseClockStyle.Render("working")
	}
	return MutedStyle.Render(string(v.Status))
}
