// ABOUTME: Saves an assessment together with the progress entries derived from it.
// ABOUTME: Shared by the CLI and MCP so both record the same history.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/trainer/internal/models"
)

// RecordAssessment recomputes a, stores it and creates its derived progress
// entries. It returns the progress entries that were written.
//
// If a progress entry fails, the entries already written and the assessment
// are deleted again so no half-recorded assessment is left behind.
func RecordAssessment(repo Repository, a *models.Assessment) ([]*models.Progress, error) {
	a.Recompute()
	if err := repo.CreateAssessment(a); err != nil {
		return nil, err
	}
	entries := models.ProgressFromAssessment(a)
	for i, p := range entries {
		if err := repo.CreateProgress(p); err != nil {
			err = fmt.Errorf("record %s: %w", p.Type, err)
			return nil, errors.Join(err, rollbackAssessment(repo, a, entries[:i]))
		}
	}
	return entries, nil
}

func rollbackAssessment(repo Repository, a *models.Assessment, written []*models.Progress) error {
	var errs []error
	for _, p := range written {
		if err := repo.DeleteProgress(p.ID.String()); err != nil && !errors.Is(err, ErrNotFound) {
			errs = append(errs, fmt.Errorf("rollback %s: %w", p.Type, err))
		}
	}
	if err := repo.DeleteAssessment(a.ID.String()); err != nil && !errors.Is(err, ErrNotFound) {
		errs = append(errs, fmt.Errorf("rollback assessment: %w", err))
	}
	return errors.Join(errs...)
}
