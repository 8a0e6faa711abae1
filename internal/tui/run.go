// ABOUTME: Entry point that runs the workout screen as a full-screen program.
// ABOUTME: Returns the saved session, or nil when the trainee quits early.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
)

// Run drives engine until the session is logged or abandoned.
func Run(ctx context.Context, engine *execution.Engine, save SaveFunc) (*models.Session, error) {
	m := New(engine, save)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("workout screen: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return fm.Session(), fm.Err()
}
