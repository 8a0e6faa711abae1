// ABOUTME: Shared ID-prefix resolution, errors and ordering helpers for all backends.
// ABOUTME: Keeps not-found and ambiguous-prefix semantics identical across stores.
package storage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
)

var (
	// ErrNotFound is returned when no record matches an ID or prefix.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when a prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// NotFound wraps ErrNotFound with the lookup key.
func NotFound(idOrPrefix string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, idOrPrefix)
}

// Ambiguous wraps ErrAmbiguous with the lookup key.
func Ambiguous(idOrPrefix string) error {
	return fmt.Errorf("%w %s: matches multiple records", ErrAmbiguous, idOrPrefix)
}

// IsFullID reports whether s looks like a complete UUID string.
func IsFullID(s string) bool {
	return len(s) == 36 && strings.Count(s, "-") == 4
}

// MatchID reports whether id matches a full ID or an ID prefix.
func MatchID(id uuid.UUID, idOrPrefix string) bool {
	if IsFullID(idOrPrefix) {
		return id.String() == idOrPrefix
	}
	return strings.HasPrefix(id.String(), idOrPrefix)
}

// FindOne returns the single item whose ID matches idOrPrefix.
func FindOne[T any](items []T, idOf func(T) uuid.UUID, idOrPrefix string) (T, error) {
	var zero T
	var found []T
	for _, it := range items {
		if MatchID(idOf(it), idOrPrefix) {
			found = append(found, it)
		}
	}
	switch len(found) {
	case 0:
		return zero, NotFound(idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return zero, Ambiguous(idOrPrefix)
	}
}

// Limit truncates items to n entries when n is positive.
func Limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// NewestFirst sorts items by the given timestamp, most recent first.
func NewestFirst[T any](items []T, at func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return at(b).Compare(at(a))
	})
}

// SortClients orders clients by name, case-insensitively.
func SortClients(clients []*models.Client) {
	slices.SortStableFunc(clients, func(a, b *models.Client) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

func sameClient(ref *uuid.UUID, id uuid.UUID) bool {
	return ref == nil || *ref == id
}

func sameOptionalClient(ref *uuid.UUID, id *uuid.UUID) bool {
	return ref == nil || (id != nil && *id == *ref)
}

// FilterAssessments keeps a client's assessments, newest first, limited to n.
func FilterAssessments(all []*models.Assessment, clientID *uuid.UUID, n int) []*models.Assessment {
	var out []*models.Assessment
	for _, a := range all {
		if sameClient(clientID, a.ClientID) {
			out = append(out, a)
		}
	}
	NewestFirst(out, func(a *models.Assessment) time.Time { return a.AssessedAt })
	return Limit(out, n)
}

// FilterSessions keeps a client's sessions, newest first, limited to n.
func FilterSessions(all []*models.Session, clientID *uuid.UUID, n int) []*models.Session {
	var out []*models.Session
	for _, s := range all {
		if sameOptionalClient(clientID, s.ClientID) {
			out = append(out, s)
		}
	}
	NewestFirst(out, func(s *models.Session) time.Time { return s.StartedAt })
	return Limit(out, n)
}

// FilterPlans keeps plans assigned to a client, ordered by name.
func FilterPlans(all []*models.WorkoutPlan, clientID *uuid.UUID) []*models.WorkoutPlan {
	var out []*models.WorkoutPlan
	for _, p := range all {
		if sameOptionalClient(clientID, p.ClientID) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *models.WorkoutPlan) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out
}

// FilterProgress keeps progress entries by client and type, newest first, limited to n.
func FilterProgress(all []*models.Progress, clientID *uuid.UUID, pt *models.ProgressType, n int) []*models.Progress {
	var out []*models.Progress
	for _, p := range all {
		if !sameClient(clientID, p.ClientID) {
			continue
		}
		if pt != nil && p.Type != *pt {
			continue
		}
		out = append(out, p)
	}
	NewestFirst(out, func(p *models.Progress) time.Time { return p.RecordedAt })
	return Limit(out, n)
}

// NoProgress is the error for an empty GetLatestProgress result.
func NoProgress(pt models.ProgressType) error {
	return fmt.Errorf("%w: no %s entries", ErrNotFound, pt)
}
