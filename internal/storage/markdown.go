// ABOUTME: MarkdownStore: file-based trainer storage, one markdown file per record.
// ABOUTME: Records live in YAML frontmatter; the body is a human-readable summary.

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
	"gopkg.in/yaml.v3"
)

// MarkdownStore provides file-based storage for trainer data using markdown files.
//
// Layout under dataDir:
//
//	clients/<name>-<id8>.md
//	plans/<name>-<id8>.md
//	assessments/YYYY/MM/YYYY-MM-DD-<id8>.md
//	sessions/YYYY/MM/YYYY-MM-DD-<plan>-<id8>.md
//	progress/YYYY/MM/YYYY-MM-DD-<type>-<id8>.md
type MarkdownStore struct {
	dataDir string
	mu      sync.Mutex

	clients     collection[models.Client]
	plans       collection[models.WorkoutPlan]
	assessments collection[models.Assessment]
	sessions    collection[models.Session]
	progress    collection[models.Progress]
}

// Compile-time check that MarkdownStore implements Repository.
var _ Repository = (*MarkdownStore)(nil)

// NewMarkdownStore creates a new markdown-backed store rooted at dataDir.
func NewMarkdownStore(dataDir string) (*MarkdownStore, error) {
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	s := &MarkdownStore{dataDir: dataDir}
	s.clients = collection[models.Client]{
		dir: filepath.Join(dataDir, "clients"),
		id:  func(c *models.Client) uuid.UUID { return c.ID },
		path: func(c *models.Client) string {
			return fmt.Sprintf("%s-%s.md", slugify(c.Name), shortID(c.ID))
		},
		body: clientBody,
	}
	s.plans = collection[models.WorkoutPlan]{
		dir: filepath.Join(dataDir, "plans"),
		id:  func(p *models.WorkoutPlan) uuid.UUID { return p.ID },
		path: func(p *models.WorkoutPlan) string {
			return fmt.Sprintf("%s-%s.md", slugify(p.Name), shortID(p.ID))
		},
		body: planBody,
	}
	s.assessments = collection[models.Assessment]{
		dir: filepath.Join(dataDir, "assessments"),
		id:  func(a *models.Assessment) uuid.UUID { return a.ID },
		path: func(a *models.Assessment) string {
			return datedPath(a.AssessedAt, "", a.ID)
		},
		body: assessmentBody,
	}
	s.sessions = collection[models.Session]{
		dir: filepath.Join(dataDir, "sessions"),
		id:  func(se *models.Session) uuid.UUID { return se.ID },
		path: func(se *models.Session) string {
			return datedPath(se.StartedAt, slugify(se.PlanName), se.ID)
		},
		body: sessionBody,
	}
	s.progress = collection[models.Progress]{
		dir: filepath.Join(dataDir, "progress"),
		id:  func(p *models.Progress) uuid.UUID { return p.ID },
		path: func(p *models.Progress) string {
			return datedPath(p.RecordedAt, string(p.Type), p.ID)
		},
		body: progressBody,
	}
	return s, nil
}

// Close releases resources. For MarkdownStore this is a no-op.
func (s *MarkdownStore) Close() error {
	return nil
}

// DataDir returns the root directory of the store.
func (s *MarkdownStore) DataDir() string {
	return s.dataDir
}

// datedPath builds YYYY/MM/YYYY-MM-DD[-label]-<id8>.md.
func datedPath(at time.Time, label string, id uuid.UUID) string {
	at = at.UTC()
	name := at.Format("2006-01-02")
	if label != "" {
		name += "-" + label
	}
	return filepath.Join(at.Format("2006"), at.Format("01"), fmt.Sprintf("%s-%s.md", name, shortID(id)))
}

// collection stores one record type as markdown files under dir.
type collection[E any] struct {
	dir  string
	id   func(*E) uuid.UUID
	path func(*E) string
	body func(*E) string
}

func (c collection[E]) write(v *E) error {
	var body string
	if c.body != nil {
		body = c.body(v)
	}
	content, err := renderFrontmatter(v, body)
	if err != nil {
		return err
	}
	return atomicWrite(filepath.Join(c.dir, c.path(v)), []byte(content))
}

func (c collection[E]) read(path string) (*E, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	header, _ := parseFrontmatter(string(data))
	if header == "" {
		return nil, fmt.Errorf("no frontmatter in %s", path)
	}
	var v E
	if err := yaml.Unmarshal([]byte(header), &v); err != nil {
		return nil, fmt.Errorf("parse frontmatter in %s: %w", path, err)
	}
	return &v, nil
}

// walk calls fn for every record file under dir.
func (c collection[E]) walk(fn func(path string, v *E) error) error {
	if _, err := os.Stat(c.dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		v, err := c.read(path)
		if err != nil {
			return err
		}
		return fn(path, v)
	})
}

func (c collection[E]) all() ([]*E, error) {
	var out []*E
	err := c.walk(func(_ string, v *E) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// find resolves a full ID or unique prefix to a record and its file path.
func (c collection[E]) find(idOrPrefix string) (string, *E, error) {
	var paths []string
	var found []*E
	err := c.walk(func(path string, v *E) error {
		if MatchID(c.id(v), idOrPrefix) {
			paths = append(paths, path)
			found = append(found, v)
			if IsFullID(idOrPrefix) {
				return filepath.SkipAll
			}
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	switch len(found) {
	case 0:
		return "", nil, NotFound(idOrPrefix)
	case 1:
		return paths[0], found[0], nil
	default:
		return "", nil, Ambiguous(idOrPrefix)
	}
}

func (c collection[E]) create(v *E) error {
	if _, _, err := c.find(c.id(v).String()); err == nil {
		return fmt.Errorf("duplicate id %s", c.id(v))
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return c.write(v)
}

func (c collection[E]) remove(idOrPrefix string) error {
	path, _, err := c.find(idOrPrefix)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// removeWhere deletes every record matching pred.
func (c collection[E]) removeWhere(pred func(*E) bool) error {
	var doomed []string
	err := c.walk(func(path string, v *E) error {
		if pred(v) {
			doomed = append(doomed, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range doomed {
		if err := os.Remove(p); err != nil {
			return err
		}
	}
	return nil
}

// CreateClient writes a client file.
func (s *MarkdownStore) CreateClient(c *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.clients.create(c); err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient finds a client by ID or prefix.
func (s *MarkdownStore) GetClient(idOrPrefix string) (*models.Client, error) {
	_, c, err := s.clients.find(idOrPrefix)
	return c, err
}

// ListClients returns clients ordered by name.
func (s *MarkdownStore) ListClients(activeOnly bool) ([]*models.Client, error) {
	all, err := s.clients.all()
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	var out []*models.Client
	for _, c := range all {
		if !activeOnly || c.Active {
			out = append(out, c)
		}
	}
	SortClients(out)
	return out, nil
}

// DeleteClient removes a client and its assessments, sessions and progress,
// and unassigns its plans.
func (s *MarkdownStore) DeleteClient(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, c, err := s.clients.find(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	owned := func(id uuid.UUID) bool { return id == c.ID }
	if err := s.assessments.removeWhere(func(a *models.Assessment) bool { return owned(a.ClientID) }); err != nil {
		return fmt.Errorf("delete client assessments: %w", err)
	}
	if err := s.sessions.removeWhere(func(se *models.Session) bool { return se.ClientID != nil && owned(*se.ClientID) }); err != nil {
		return fmt.Errorf("delete client sessions: %w", err)
	}
	if err := s.progress.removeWhere(func(p *models.Progress) bool { return owned(p.ClientID) }); err != nil {
		return fmt.Errorf("delete client progress: %w", err)
	}

	plans, err := s.plans.all()
	if err != nil {
		return err
	}
	for _, p := range plans {
		if p.ClientID != nil && owned(*p.ClientID) {
			p.ClientID = nil
			if err := s.plans.write(p); err != nil {
				return fmt.Errorf("unassign plan: %w", err)
			}
		}
	}

	return os.Remove(path)
}

// CreatePlan validates and writes a plan file.
func (s *MarkdownStore) CreatePlan(p *models.WorkoutPlan) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.plans.create(p); err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// GetPlan finds a plan by ID or prefix.
func (s *MarkdownStore) GetPlan(idOrPrefix string) (*models.WorkoutPlan, error) {
	_, p, err := s.plans.find(idOrPrefix)
	return p, err
}

// ListPlans returns plans ordered by name.
func (s *MarkdownStore) ListPlans(clientID *uuid.UUID) ([]*models.WorkoutPlan, error) {
	all, err := s.plans.all()
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return FilterPlans(all, clientID), nil
}

// DeletePlan removes a plan file.
func (s *MarkdownStore) DeletePlan(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.plans.remove(idOrPrefix); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// CreateAssessment writes an assessment file.
func (s *MarkdownStore) CreateAssessment(a *models.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.assessments.create(a); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// GetAssessment finds an assessment by ID or prefix.
func (s *MarkdownStore) GetAssessment(idOrPrefix string) (*models.Assessment, error) {
	_, a, err := s.assessments.find(idOrPrefix)
	return a, err
}

// ListAssessments returns assessments, most recent first.
func (s *MarkdownStore) ListAssessments(clientID *uuid.UUID, limit int) ([]*models.Assessment, error) {
	all, err := s.assessments.all()
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	return FilterAssessments(all, clientID, limit), nil
}

// DeleteAssessment removes an assessment and the progress derived from it.
func (s *MarkdownStore) DeleteAssessment(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, a, err := s.assessments.find(idOrPrefix)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	err = s.progress.removeWhere(func(p *models.Progress) bool {
		return p.AssessmentID != nil && *p.AssessmentID == a.ID
	})
	if err != nil {
		return fmt.Errorf("delete assessment progress: %w", err)
	}
	return os.Remove(path)
}

// CreateSession writes a session file.
func (s *MarkdownStore) CreateSession(se *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.create(se); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession finds a session by ID or prefix.
func (s *MarkdownStore) GetSession(idOrPrefix string) (*models.Session, error) {
	_, se, err := s.sessions.find(idOrPrefix)
	return se, err
}

// ListSessions returns sessions, most recent first.
func (s *MarkdownStore) ListSessions(clientID *uuid.UUID, limit int) ([]*models.Session, error) {
	all, err := s.sessions.all()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return FilterSessions(all, clientID, limit), nil
}

// DeleteSession removes a session file.
func (s *MarkdownStore) DeleteSession(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.remove(idOrPrefix); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CreateProgress writes a progress file.
func (s *MarkdownStore) CreateProgress(p *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.progress.create(p); err != nil {
		return fmt.Errorf("create progress: %w", err)
	}
	return nil
}

// GetProgress finds a progress entry by ID or prefix.
func (s *MarkdownStore) GetProgress(idOrPrefix string) (*models.Progress, error) {
	_, p, err := s.progress.find(idOrPrefix)
	return p, err
}

// ListProgress returns entries filtered by client and type, most recent first.
func (s *MarkdownStore) ListProgress(clientID *uuid.UUID, progressType *models.ProgressType, limit int) ([]*models.Progress, error) {
	all, err := s.progress.all()
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return FilterProgress(all, clientID, progressType, limit), nil
}

// DeleteProgress removes a progress file.
func (s *MarkdownStore) DeleteProgress(idOrPrefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.progress.remove(idOrPrefix); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	return nil
}

// GetLatestProgress returns a client's most recent entry of a type.
func (s *MarkdownStore) GetLatestProgress(clientID uuid.UUID, progressType models.ProgressType) (*models.Progress, error) {
	entries, err := s.ListProgress(&clientID, &progressType, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, NoProgress(progressType)
	}
	return entries[0], nil
}

// GetAllData retrieves all data for export.
func (s *MarkdownStore) GetAllData() (*ExportData, error) {
	return CollectAll(s)
}

// ImportData imports data from an export file.
func (s *MarkdownStore) ImportData(data *ExportData) error {
	return ImportAll(s, data)
}

func clientBody(c *models.Client) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n# %s\n", c.Name)
	if c.Goal != nil && *c.Goal != "" {
		fmt.Fprintf(&sb, "\nGoal: %s\n", *c.Goal)
	}
	if c.Notes != nil && *c.Notes != "" {
		fmt.Fprintf(&sb, "\n%s\n", *c.Notes)
	}
	return sb.String()
}

func planBody(p *models.WorkoutPlan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n# %s\n\n", p.Name)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", *p.Description)
	}
	for i, it := range p.Items {
		label := ""
		if l := it.Label(); l != "" {
			label = " (" + l + ")"
		}
		fmt.Fprintf(&sb, "%d. %s%s: %d series, rest %ds\n", i+1, it.Name(), label, it.Series, it.RestSeconds)
		for _, ex := range it.Exercises {
			fmt.Fprintf(&sb, "   - %s %s\n", ex.Name, ex.Target())
		}
	}
	return sb.String()
}

func assessmentBody(a *models.Assessment) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n# Assessment %s\n", a.AssessedAt.Format("2006-01-02"))
	if a.Result != nil {
		fmt.Fprintf(&sb, "\n%s: %.1f%% body fat, %.1f kg lean, %.1f kg fat\n",
			a.Result.Protocol, a.Result.BodyFatPct, a.Result.LeanMassKg, a.Result.FatMassKg)
	}
	if a.Notes != nil && *a.Notes != "" {
		fmt.Fprintf(&sb, "\n%s\n", *a.Notes)
	}
	return sb.String()
}

func sessionBody(se *models.Session) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n# %s\n\n", se.PlanName)
	fmt.Fprintf(&sb, "Duration %s, %d/%d items\n", execution.FormatClock(se.TotalSeconds), se.CompletedItems(), len(se.Items))
	if se.Comment != nil && *se.Comment != "" {
		fmt.Fprintf(&sb, "\n%s\n", *se.Comment)
	}
	return sb.String()
}

func progressBody(p *models.Progress) string {
	if p.Notes == nil || *p.Notes == "" {
		return ""
	}
	return "\n" + *p.Notes + "\n"
}
