// ABOUTME: Export and import functionality for trainer data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats over any Repository.
package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion is written into every export and checked on import.
const ExportVersion = "1.0"

// ExportData represents the full export format for trainer data.
type ExportData struct {
	Version     string                `json:"version" yaml:"version"`
	ExportedAt  time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool        string                `json:"tool" yaml:"tool"`
	Clients     []*models.Client      `json:"clients" yaml:"clients"`
	Plans       []*models.WorkoutPlan `json:"plans" yaml:"plans"`
	Assessments []*models.Assessment  `json:"assessments" yaml:"assessments"`
	Sessions    []*models.Session     `json:"sessions" yaml:"sessions"`
	Progress    []*models.Progress    `json:"progress" yaml:"progress"`
}

// CollectAll gathers every record from repo. Backends use it for GetAllData.
func CollectAll(repo Repository) (*ExportData, error) {
	clients, err := repo.ListClients(false)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	plans, err := repo.ListPlans(nil)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	assessments, err := repo.ListAssessments(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	sessions, err := repo.ListSessions(nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	progress, err := repo.ListProgress(nil, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  time.Now(),
		Tool:        "trainer",
		Clients:     clients,
		Plans:       plans,
		Assessments: assessments,
		Sessions:    sessions,
		Progress:    progress,
	}, nil
}

// ImportAll writes data into repo in dependency order (clients first).
func ImportAll(repo Repository, data *ExportData) error {
	for _, c := range data.Clients {
		if err := repo.CreateClient(c); err != nil {
			return fmt.Errorf("import client: %w", err)
		}
	}
	for _, p := range data.Plans {
		if err := repo.CreatePlan(p); err != nil {
			return fmt.Errorf("import plan: %w", err)
		}
	}
	for _, a := range data.Assessments {
		if err := repo.CreateAssessment(a); err != nil {
			return fmt.Errorf("import assessment: %w", err)
		}
	}
	for _, s := range data.Sessions {
		if err := repo.CreateSession(s); err != nil {
			return fmt.Errorf("import session: %w", err)
		}
	}
	for _, p := range data.Progress {
		if err := repo.CreateProgress(p); err != nil {
			return fmt.Errorf("import progress: %w", err)
		}
	}
	return nil
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	return CollectAll(d)
}

// ImportData imports data from an export file.
func (d *DB) ImportData(data *ExportData) error {
	return ImportAll(d, data)
}

// ExportJSON exports all data as JSON.
func ExportJSON(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, with records grouped under their client.
func ExportYAML(repo Repository) ([]byte, error) {
	data, err := repo.GetAllData()
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string       `yaml:"version"`
		ExportedAt string       `yaml:"exported_at"`
		Tool       string       `yaml:"tool"`
		Clients    []yamlClient `yaml:"clients"`
		Plans      []yamlPlan   `yaml:"plans"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Clients:    make([]yamlClient, 0, len(data.Clients)),
		Plans:      make([]yamlPlan, 0, len(data.Plans)),
	}

	for _, c := range data.Clients {
		yc := yamlClient{
			ID:       shortID(c.ID),
			Name:     c.Name,
			Sex:      string(c.Sex),
			Progress: make(map[string][]yamlProgress),
		}
		if c.Goal != nil {
			yc.Goal = *c.Goal
		}

		for _, a := range data.Assessments {
			if a.ClientID != c.ID {
				continue
			}
			ya := yamlAssessment{
				ID:         shortID(a.ID),
				AssessedAt: a.AssessedAt.Format(time.RFC3339),
				WeightKg:   a.WeightKg,
			}
			if a.Result != nil {
				ya.Protocol = string(a.Result.Protocol)
				ya.BodyFatPct = &a.Result.BodyFatPct
			}
			yc.Assessments = append(yc.Assessments, ya)
		}

		for _, s := range data.Sessions {
			if s.ClientID == nil || *s.ClientID != c.ID {
				continue
			}
			yc.Sessions = append(yc.Sessions, yamlSession{
				ID:        shortID(s.ID),
				Plan:      s.PlanName,
				StartedAt: s.StartedAt.Format(time.RFC3339),
				Duration:  execution.FormatClock(s.TotalSeconds),
				Completed: s.CompletedItems(),
				Exertion:  s.Exertion,
			})
		}

		for _, p := range data.Progress {
			if p.ClientID != c.ID {
				continue
			}
			yp := yamlProgress{
				Value:      p.Value,
				Unit:       p.Unit,
				RecordedAt: p.RecordedAt.Format(time.RFC3339),
			}
			if p.Notes != nil {
				yp.Notes = *p.Notes
			}
			yc.Progress[string(p.Type)] = append(yc.Progress[string(p.Type)], yp)
		}

		yamlData.Clients = append(yamlData.Clients, yc)
	}

	for _, p := range data.Plans {
		yp := yamlPlan{ID: shortID(p.ID), Name: p.Name}
		for _, it := range p.Items {
			yp.Items = append(yp.Items, fmt.Sprintf("%s %dx (rest %ds)", it.Name(), it.Series, it.RestSeconds))
		}
		yamlData.Plans = append(yamlData.Plans, yp)
	}

	return yaml.Marshal(yamlData)
}

type yamlClient struct {
	ID          string                    `yaml:"id"`
	Name        string                    `yaml:"name"`
	Sex         string                    `yaml:"sex,omitempty"`
	Goal        string                    `yaml:"goal,omitempty"`
	Assessments []yamlAssessment          `yaml:"assessments,omitempty"`
	Sessions    []yamlSession             `yaml:"sessions,omitempty"`
	Progress    map[string][]yamlProgress `yaml:"progress,omitempty"`
}

type yamlAssessment struct {
	ID         string   `yaml:"id"`
	AssessedAt string   `yaml:"assessed_at"`
	WeightKg   *float64 `yaml:"weight_kg,omitempty"`
	Protocol   string   `yaml:"protocol,omitempty"`
	BodyFatPct *float64 `yaml:"body_fat_pct,omitempty"`
}

type yamlSession struct {
	ID        string `yaml:"id"`
	Plan      string `yaml:"plan"`
	StartedAt string `yaml:"started_at"`
	Duration  string `yaml:"duration"`
	Completed int    `yaml:"completed_items"`
	Exertion  *int   `yaml:"exertion,omitempty"`
}

type yamlProgress struct {
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	RecordedAt string  `yaml:"recorded_at"`
	Notes      string  `yaml:"notes,omitempty"`
}

type yamlPlan struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

// ExportMarkdown renders assessments, sessions and progress as Markdown tables.
// A nil clientID exports every client; since filters by record date.
func ExportMarkdown(repo Repository, clientID *uuid.UUID, since *time.Time) (string, error) {
	clients, err := repo.ListClients(false)
	if err != nil {
		return "", err
	}
	if clientID != nil {
		c, err := repo.GetClient(clientID.String())
		if err != nil {
			return "", err
		}
		clients = []*models.Client{c}
	}

	keep := func(t time.Time) bool {
		return since == nil || !t.Before(*since)
	}

	var sb strings.Builder
	now := time.Now()

	fmt.Fprintf(&sb, "# Trainer Export - %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC3339))

	for _, c := range clients {
		fmt.Fprintf(&sb, "## %s\n\n", c.Name)

		assessments, err := repo.ListAssessments(&c.ID, 0)
		if err != nil {
			return "", err
		}
		var rows []string
		for _, a := range assessments {
			if !keep(a.AssessedAt) {
				continue
			}
			rows = append(rows, fmt.Sprintf("| %s | %s | %s | %s | %s |",
				a.AssessedAt.Format("2006-01-02"),
				optFloat(a.WeightKg, "%.1f kg"),
				bodyFatOf(a),
				leanMassOf(a),
				protocolOf(a)))
		}
		if len(rows) > 0 {
			sb.WriteString("### Assessments\n\n")
			sb.WriteString("| Date | Weight | Body Fat | Lean Mass | Protocol |\n")
			sb.WriteString("|------|--------|----------|-----------|----------|\n")
			sb.WriteString(strings.Join(rows, "\n"))
			sb.WriteString("\n\n")
		}

		sessions, err := repo.ListSessions(&c.ID, 0)
		if err != nil {
			return "", err
		}
		rows = rows[:0]
		for _, s := range sessions {
			if !keep(s.StartedAt) {
				continue
			}
			exertion := ""
			if s.Exertion != nil {
				exertion = fmt.Sprintf("%d/%d", *s.Exertion, models.MaxExertion)
			}
			rows = append(rows, fmt.Sprintf("| %s | %s | %s | %d/%d | %s |",
				s.StartedAt.Format("2006-01-02 15:04"),
				s.PlanName,
				execution.FormatClock(s.TotalSeconds),
				s.CompletedItems(), len(s.Items),
				exertion))
		}
		if len(rows) > 0 {
			sb.WriteString("### Sessions\n\n")
			sb.WriteString("| Date | Plan | Duration | Items | Exertion |\n")
			sb.WriteString("|------|------|----------|-------|----------|\n")
			sb.WriteString(strings.Join(rows, "\n"))
			sb.WriteString("\n\n")
		}

		progress, err := repo.ListProgress(&c.ID, nil, 0)
		if err != nil {
			return "", err
		}
		rows = rows[:0]
		for _, p := range progress {
			if !keep(p.RecordedAt) {
				continue
			}
			notes := ""
			if p.Notes != nil {
				notes = *p.Notes
			}
			rows = append(rows, fmt.Sprintf("| %s | %s | %.2f %s | %s |",
				p.RecordedAt.Format("2006-01-02"), p.Type, p.Value, p.Unit, notes))
		}
		if len(rows) > 0 {
			sb.WriteString("### Progress\n\n")
			sb.WriteString("| Date | Type | Value | Notes |\n")
			sb.WriteString("|------|------|-------|-------|\n")
			sb.WriteString(strings.Join(rows, "\n"))
			sb.WriteString("\n\n")
		}
	}

	return sb.String(), nil
}

func optFloat(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}

func bodyFatOf(a *models.Assessment) string {
	if a.Result == nil {
		return ""
	}
	return fmt.Sprintf("%.1f%%", a.Result.BodyFatPct)
}

func leanMassOf(a *models.Assessment) string {
	if a.Result == nil {
		return ""
	}
	return fmt.Sprintf("%.1f kg", a.Result.LeanMassKg)
}

func protocolOf(a *models.Assessment) string {
	if a.Result == nil {
		return ""
	}
	return string(a.Result.Protocol)
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(repo Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	if exportData.Version != "" && exportData.Version != ExportVersion {
		return fmt.Errorf("unsupported export version %q", exportData.Version)
	}
	return repo.ImportData(&exportData)
}
