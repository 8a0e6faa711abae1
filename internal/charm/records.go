// ABOUTME: Repository operations for clients, plans, assessments, sessions and progress.
// ABOUTME: Handles cascade deletes manually since KV has no foreign keys.
package charm

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

func (c *Client) resolve(typePrefix, idPrefix string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resolveLocked(typePrefix, idPrefix)
}

// keysWhere returns the keys of records under prefix that match pred.
func keysWhere[T any](c *Client, prefix string, id func(*T) uuid.UUID, pred func(*T) bool) ([][]byte, error) {
	all, err := listByPrefix[T](c, prefix)
	if err != nil {
		return nil, err
	}
	var keys [][]byte
	for _, v := range all {
		if pred(v) {
			keys = append(keys, recordKey(prefix, id(v)))
		}
	}
	return keys, nil
}

// CreateClient stores a new client.
func (c *Client) CreateClient(cl *models.Client) error {
	if err := c.insert(ClientPrefix, cl.ID, cl); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID or ID prefix.
func (c *Client) GetClient(idOrPrefix string) (*models.Client, error) {
	return getByIDPrefix[models.Client](c, ClientPrefix, idOrPrefix)
}

// ListClients returns clients ordered by name.
func (c *Client) ListClients(activeOnly bool) ([]*models.Client, error) {
	all, err := listByPrefix[models.Client](c, ClientPrefix)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	var out []*models.Client
	for _, cl := range all {
		if !activeOnly || cl.Active {
			out = append(out, cl)
		}
	}
	storage.SortClients(out)
	return out, nil
}

// DeleteClient removes a client with its assessments, sessions and progress.
// Plans assigned to the client are kept and unassigned.
func (c *Client) DeleteClient(idOrPrefix string) error {
	cl, err := c.GetClient(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	owned := func(id uuid.UUID) bool { return id == cl.ID }

	var doomed [][]byte
	keys, err := keysWhere(c, AssessmentPrefix,
		func(a *models.Assessment) uuid.UUID { return a.ID },
		func(a *models.Assessment) bool { return owned(a.ClientID) })
	if err != nil {
		return fmt.Errorf("delete client assessments: %w", err)
	}
	doomed = append(doomed, keys...)

	keys, err = keysWhere(c, SessionPrefix,
		func(s *models.Session) uuid.UUID { return s.ID },
		func(s *models.Session) bool { return s.ClientID != nil && owned(*s.ClientID) })
	if err != nil {
		return fmt.Errorf("delete client sessions: %w", err)
	}
	doomed = append(doomed, keys...)

	keys, err = keysWhere(c, ProgressPrefix,
		func(p *models.Progress) uuid.UUID { return p.ID },
		func(p *models.Progress) bool { return owned(p.ClientID) })
	if err != nil {
		return fmt.Errorf("delete client progress: %w", err)
	}
	doomed = append(doomed, keys...)

	plans, err := listByPrefix[models.WorkoutPlan](c, PlanPrefix)
	if err != nil {
		return err
	}
	for _, p := range plans {
		if p.ClientID != nil && owned(*p.ClientID) {
			p.ClientID = nil
			if err := c.put(PlanPrefix, p.ID, p); err != nil {
				return fmt.Errorf("unassign plan %s: %w", p.ID, err)
			}
		}
	}

	doomed = append(doomed, recordKey(ClientPrefix, cl.ID))
	return c.remove(doomed...)
}

// CreatePlan validates and stores a new plan.
func (c *Client) CreatePlan(p *models.WorkoutPlan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	if err := c.insert(PlanPrefix, p.ID, p); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan retrieves a plan by ID or ID prefix.
func (c *Client) GetPlan(idOrPrefix string) (*models.WorkoutPlan, error) {
	return getByIDPrefix[models.WorkoutPlan](c, PlanPrefix, idOrPrefix)
}

// ListPlans returns plans ordered by name, optionally for one client.
func (c *Client) ListPlans(clientID *uuid.UUID) ([]*models.WorkoutPlan, error) {
	all, err := listByPrefix[models.WorkoutPlan](c, PlanPrefix)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return storage.FilterPlans(all, clientID), nil
}

// DeletePlan removes a plan. Sessions that ran it are kept.
func (c *Client) DeletePlan(idOrPrefix string) error {
	key, err := c.resolve(PlanPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return c.remove(key)
}

// CreateAssessment stores a new assessment.
func (c *Client) CreateAssessment(a *models.Assessment) error {
	if err := c.insert(AssessmentPrefix, a.ID, a); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// GetAssessment retrieves an assessment by ID or ID prefix.
func (c *Client) GetAssessment(idOrPrefix string) (*models.Assessment, error) {
	return getByIDPrefix[models.Assessment](c, AssessmentPrefix, idOrPrefix)
}

// ListAssessments returns assessments, most recent first.
func (c *Client) ListAssessments(clientID *uuid.UUID, limit int) ([]*models.Assessment, error) {
	all, err := listByPrefix[models.Assessment](c, AssessmentPrefix)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return storage.FilterAssessments(all, clientID, limit), nil
}

// DeleteAssessment removes an assessment and the progress derived from it.
func (c *Client) DeleteAssessment(idOrPrefix string) error {
	a, err := c.GetAssessment(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	doomed, err := keysWhere(c, ProgressPrefix,
		func(p *models.Progress) uuid.UUID { return p.ID },
		func(p *models.Progress) bool { return p.AssessmentID != nil && *p.AssessmentID == a.ID })
	if err != nil {
		return fmt.Errorf("delete assessment progress: %w", err)
	}
	return c.remove(append(doomed, recordKey(AssessmentPrefix, a.ID))...)
}

// CreateSession stores a completed session.
func (c *Client) CreateSession(s *models.Session) error {
	if err := c.insert(SessionPrefix, s.ID, s); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID or ID prefix.
func (c *Client) GetSession(idOrPrefix string) (*models.Session, error) {
	return getByIDPrefix[models.Session](c, SessionPrefix, idOrPrefix)
}

// ListSessions returns sessions, most recent first.
func (c *Client) ListSessions(clientID *uuid.UUID, limit int) ([]*models.Session, error) {
	all, err := listByPrefix[models.Session](c, SessionPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return storage.FilterSessions(all, clientID, limit), nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(idOrPrefix string) error {
	key, err := c.resolve(SessionPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return c.remove(key)
}

// CreateProgress stores a progress entry.
func (c *Client) CreateProgress(p *models.Progress) error {
	if err := c.insert(ProgressPrefix, p.ID, p); err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// GetProgress retrieves a progress entry by ID or ID prefix.
func (c *Client) GetProgress(idOrPrefix string) (*models.Progress, error) {
	return getByIDPrefix[models.Progress](c, ProgressPrefix, idOrPrefix)
}

// ListProgress returns entries filtered by client and type, most recent first.
func (c *Client) ListProgress(clientID *uuid.UUID, progressType *models.ProgressType, limit int) ([]*models.Progress, error) {
	all, err := listByPrefix[models.Progress](c, ProgressPrefix)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return storage.FilterProgress(all, clientID, progressType, limit), nil
}

// DeleteProgress removes a progress entry.
func (c *Client) DeleteProgress(idOrPrefix string) error {
	key, err := c.resolve(ProgressPrefix, idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return c.remove(key)
}

// GetLatestProgress returns the most recent entry of a type for a client.
func (c *Client) GetLatestProgress(clientID uuid.UUID, progressType models.ProgressType) (*models.Progress, error) {
	entries, err := c.ListProgress(&clientID, &progressType, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, storage.NoProgress(progressType)
	}
	return entries[0], nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	return storage.CollectAll(c)
}

// ImportData imports data from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	return storage.ImportAll(c, data)
}
