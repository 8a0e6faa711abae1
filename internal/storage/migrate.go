// ABOUTME: Data migration between trainer storage backends.
// ABOUTME: Copies clients, plans, assessments, sessions and progress from source to destination.

package storage

import (
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Clients     int
	Plans       int
	Assessments int
	Sessions    int
	Progress    int
}

// Total returns the number of migrated records.
func (m *MigrateSummary) Total() int {
	return m.Clients + m.Plans + m.Assessments + m.Sessions + m.Progress
}

// MigrateData copies all data from src to dst storage.
// Entities are created parents first so foreign keys hold in the
// destination. The destination should be empty before calling this function.
func MigrateData(src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	clients, err := src.ListClients(false)
	if err != nil {
		return nil, fmt.Errorf("list source clients: %w", err)
	}
	for _, c := range clients {
		if err := dst.CreateClient(c); err != nil {
			return nil, fmt.Errorf("create client %s: %w", c.ID, err)
		}
		summary.Clients++
	}

	plans, err := src.ListPlans(nil)
	if err != nil {
		return nil, fmt.Errorf("list source plans: %w", err)
	}
	for _, p := range plans {
		if err := dst.CreatePlan(p); err != nil {
			return nil, fmt.Errorf("create plan %s: %w", p.ID, err)
		}
		summary.Plans++
	}

	assessments, err := src.ListAssessments(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source assessments: %w", err)
	}
	for _, a := range assessments {
		if err := dst.CreateAssessment(a); err != nil {
			return nil, fmt.Errorf("create assessment %s: %w", a.ID, err)
		}
		summary.Assessments++
	}

	sessions, err := src.ListSessions(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source sessions: %w", err)
	}
	for _, s := range sessions {
		if err := dst.CreateSession(s); err != nil {
			return nil, fmt.Errorf("create session %s: %w", s.ID, err)
		}
		summary.Sessions++
	}

	progress, err := src.ListProgress(nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list source progress: %w", err)
	}
	for _, p := range progress {
		if err := dst.CreateProgress(p); err != nil {
			return nil, fmt.Errorf("create progress %s: %w", p.ID, err)
		}
		summary.Progress++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
