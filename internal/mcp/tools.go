// ABOUTME: MCP tool implementations for the trainer.
// ABOUTME: Exposes the composition estimator plus client, assessment, plan, session and progress records.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/execution"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compute_composition",
		Description: "Estimate body composition from skinfolds (Jackson-Pollock 7/3-site or Durnin-Womersley 4-site). Nothing is stored.",
	}, s.handleComputeComposition)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_client",
		Description: "Register a new client",
	}, s.handleAddClient)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_clients",
		Description: "List clients ordered by name",
	}, s.handleListClients)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_assessment",
		Description: "Record a body-composition assessment for a client; weight, BMI and composition progress are derived from it",
	}, s.handleAddAssessment)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_assessments",
		Description: "List a client's assessments, most recent first",
	}, s.handleListAssessments)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_plans",
		Description: "List workout plans, optionally for one client",
	}, s.handleListPlans)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_plan",
		Description: "Get a workout plan with all its items",
	}, s.handleGetPlan)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List completed workout sessions, most recent first",
	}, s.handleListSessions)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Get a completed session with per-item timing and logs",
	}, s.handleGetSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_progress",
		Description: "Record a progress measurement (weight, waist, resting_hr, etc.) for a client",
	}, s.handleAddProgress)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_latest",
		Description: "Get a client's most recent value for one or more progress types",
	}, s.handleGetLatest)
}

// Tool input/output types

type skinfoldInput struct {
	Site    string  `json:"site" jsonschema:"Site: chest, abdomen, triceps, subscapular, midaxillary, suprailiac or thigh"`
	MM      float64 `json:"mm" jsonschema:"Thickness in millimeters (left side for bilateral sites)"`
	RightMM float64 `json:"right_mm,omitempty" jsonschema:"Right side thickness for bilateral sites"`
}

type computeCompositionInput struct {
	Sex       string          `json:"sex" jsonschema:"male or female"`
	Age       int             `json:"age" jsonschema:"Age in years"`
	WeightKg  float64         `json:"weight_kg" jsonschema:"Body weight in kilograms"`
	HeightCm  float64         `json:"height_cm,omitempty" jsonschema:"Height in centimeters, enables BMI"`
	Skinfolds []skinfoldInput `json:"skinfolds" jsonschema:"Skinfold readings"`
}

type compositionOutput struct {
	Result  *composition.Result `json:"result,omitempty"`
	BMI     *float64            `json:"bmi,omitempty"`
	Message string              `json:"message"`
}

type addClientInput struct {
	Name      string `json:"name" jsonschema:"Client name"`
	Email     string `json:"email,omitempty" jsonschema:"Contact email"`
	Phone     string `json:"phone,omitempty" jsonschema:"Contact phone"`
	Sex       string `json:"sex,omitempty" jsonschema:"male or female"`
	BirthDate string `json:"birth_date,omitempty" jsonschema:"Birth date (YYYY-MM-DD)"`
	Goal      string `json:"goal,omitempty" jsonschema:"Training goal"`
	Notes     string `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type clientOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

type listClientsInput struct {
	ActiveOnly bool `json:"active_only,omitempty" jsonschema:"Only list active clients"`
}

type clientsOutput struct {
	Clients []*models.Client `json:"clients"`
	Count   int              `json:"count"`
}

type addAssessmentInput struct {
	ClientID   string          `json:"client_id" jsonschema:"Client ID or prefix"`
	AssessedAt string          `json:"assessed_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Age        int             `json:"age,omitempty" jsonschema:"Age in years, defaults to the client's age from birth date"`
	WeightKg   float64         `json:"weight_kg" jsonschema:"Body weight in kilograms"`
	HeightCm   float64         `json:"height_cm,omitempty" jsonschema:"Height in centimeters"`
	Skinfolds  []skinfoldInput `json:"skinfolds,omitempty" jsonschema:"Skinfold readings"`
	Notes      string          `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type assessmentOutput struct {
	ID       string              `json:"id"`
	Result   *composition.Result `json:"result,omitempty"`
	BMI      *float64            `json:"bmi,omitempty"`
	Progress int                 `json:"progress_entries"`
	Message  string              `json:"message"`
}

type listByClientInput struct {
	ClientID string `json:"client_id,omitempty" jsonschema:"Client ID or prefix"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type assessmentsOutput struct {
	Assessments []*models.Assessment `json:"assessments"`
	Count       int                  `json:"count"`
}

type plansOutput struct {
	Plans []planSummary `json:"plans"`
	Count int           `json:"count"`
}

type planSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Items       int    `json:"items"`
	TotalSeries int    `json:"total_series"`
}

type getByIDInput struct {
	ID string `json:"id" jsonschema:"ID or prefix"`
}

type sessionsOutput struct {
	Sessions []sessionSummary `json:"sessions"`
	Count    int              `json:"count"`
}

type sessionSummary struct {
	ID        string `json:"id"`
	PlanName  string `json:"plan_name"`
	StartedAt string `json:"started_at"`
	Duration  string `json:"duration"`
	Completed int    `json:"completed_items"`
	Items     int    `json:"items"`
	Exertion  *int   `json:"exertion,omitempty"`
}

type addProgressInput struct {
	ClientID   string  `json:"client_id" jsonschema:"Client ID or prefix"`
	Type       string  `json:"type" jsonschema:"Progress type (weight, body_fat, lean_mass, fat_mass, bmi, waist, hip, chest, arm, thigh, resting_hr)"`
	Value      float64 `json:"value" jsonschema:"The measured value"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"Timestamp (ISO 8601), defaults to now"`
	Notes      string  `json:"notes,omitempty" jsonschema:"Optional notes"`
}

type progressOutput struct {
	ID      string  `json:"id"`
	Type    string  `json:"type"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Message string  `json:"message"`
}

type getLatestInput struct {
	ClientID string   `json:"client_id" jsonschema:"Client ID or prefix"`
	Types    []string `json:"types,omitempty" jsonschema:"Progress types to fetch, defaults to all"`
}

type latestValue struct {
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	RecordedAt string  `json:"recorded_at"`
}

type latestOutput struct {
	Client string                 `json:"client"`
	Latest map[string]latestValue `json:"latest"`
}

// Tool handlers

func (s *Server) handleComputeComposition(ctx context.Context, req *mcp.CallToolRequest, input computeCompositionInput) (*mcp.CallToolResult, compositionOutput, error) {
	sex, _ := composition.ParseSex(input.Sex)
	a := models.NewAssessment(uuid.Nil, sex)
	if input.Age > 0 {
		a.WithAge(input.Age)
	}
	if input.WeightKg > 0 {
		a.WithWeight(input.WeightKg)
	}
	if input.HeightCm > 0 {
		a.WithHeight(input.HeightCm)
	}
	if err := applySkinfolds(a.Skinfolds, input.Skinfolds); err != nil {
		return nil, compositionOutput{}, err
	}
	a.Recompute()

	out := compositionOutput{Result: a.Result, BMI: a.BMI()}
	if a.Result == nil {
		out.Message = "Insufficient data: sex, age, weight and a complete protocol's sites are required."
	} else {
		out.Message = describeResult(a.Result)
	}
	return nil, out, nil
}

func (s *Server) handleAddClient(ctx context.Context, req *mcp.CallToolRequest, input addClientInput) (*mcp.CallToolResult, clientOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, clientOutput{}, fmt.Errorf("name is required")
	}

	c := models.NewClient(strings.TrimSpace(input.Name))
	if input.Email != "" {
		c.WithEmail(input.Email)
	}
	if input.Phone != "" {
		c.WithPhone(input.Phone)
	}
	if input.Sex != "" {
		sex, ok := composition.ParseSex(input.Sex)
		if !ok {
			return nil, clientOutput{}, fmt.Errorf("unknown sex: %s", input.Sex)
		}
		c.WithSex(sex)
	}
	if input.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			return nil, clientOutput{}, fmt.Errorf("invalid birth_date %q: use YYYY-MM-DD", input.BirthDate)
		}
		c.WithBirthDate(bd)
	}
	if input.Goal != "" {
		c.WithGoal(input.Goal)
	}
	if input.Notes != "" {
		c.WithNotes(input.Notes)
	}

	if err := s.repo.CreateClient(c); err != nil {
		return nil, clientOutput{}, fmt.Errorf("failed to create client: %w", err)
	}

	return nil, clientOutput{
		ID:      c.ID.String()[:8],
		Name:    c.Name,
		Message: fmt.Sprintf("Added client %s (ID: %s)", c.Name, c.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListClients(ctx context.Context, req *mcp.CallToolRequest, input listClientsInput) (*mcp.CallToolResult, any, error) {
	clients, err := s.repo.ListClients(input.ActiveOnly)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list clients: %w", err)
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	return nil, clientsOutput{Clients: clients, Count: len(clients)}, nil
}

func (s *Server) handleAddAssessment(ctx context.Context, req *mcp.CallToolRequest, input addAssessmentInput) (*mcp.CallToolResult, assessmentOutput, error) {
	c, err := s.repo.GetClient(input.ClientID)
	if err != nil {
		return nil, assessmentOutput{}, fmt.Errorf("client not found: %w", err)
	}

	a := models.NewAssessment(c.ID, c.Sex)
	if input.AssessedAt != "" {
		a.WithAssessedAt(parseTime(input.AssessedAt, a.AssessedAt))
	}
	switch {
	case input.Age > 0:
		a.WithAge(input.Age)
	case c.Age(a.AssessedAt) != nil:
		a.Age = c.Age(a.AssessedAt)
	}
	if input.WeightKg > 0 {
		a.WithWeight(input.WeightKg)
	}
	if input.HeightCm > 0 {
		a.WithHeight(input.HeightCm)
	}
	if input.Notes != "" {
		a.WithNotes(input.Notes)
	}
	if err := applySkinfolds(a.Skinfolds, input.Skinfolds); err != nil {
		return nil, assessmentOutput{}, err
	}

	entries, err := storage.RecordAssessment(s.repo, a)
	if err != nil {
		return nil, assessmentOutput{}, fmt.Errorf("failed to record assessment: %w", err)
	}

	msg := fmt.Sprintf("Recorded assessment for %s (ID: %s)", c.Name, a.ID.String()[:8])
	if a.Result != nil {
		msg += ": " + describeResult(a.Result)
	}
	return nil, assessmentOutput{
		ID:       a.ID.String()[:8],
		Result:   a.Result,
		BMI:      a.BMI(),
		Progress: len(entries),
		Message:  msg,
	}, nil
}

func (s *Server) handleListAssessments(ctx context.Context, req *mcp.CallToolRequest, input listByClientInput) (*mcp.CallToolResult, any, error) {
	clientID, err := s.optionalClient(input.ClientID)
	if err != nil {
		return nil, nil, err
	}
	assessments, err := s.repo.ListAssessments(clientID, limitOrDefault(input.Limit))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	if assessments == nil {
		assessments = []*models.Assessment{}
	}
	return nil, assessmentsOutput{Assessments: assessments, Count: len(assessments)}, nil
}

func (s *Server) handleListPlans(ctx context.Context, req *mcp.CallToolRequest, input listByClientInput) (*mcp.CallToolResult, plansOutput, error) {
	clientID, err := s.optionalClient(input.ClientID)
	if err != nil {
		return nil, plansOutput{}, err
	}
	plans, err := s.repo.ListPlans(clientID)
	if err != nil {
		return nil, plansOutput{}, fmt.Errorf("failed to list plans: %w", err)
	}

	out := plansOutput{Plans: []planSummary{}}
	for _, p := range storage.Limit(plans, input.Limit) {
		out.Plans = append(out.Plans, planSummary{
			ID:          p.ID.String()[:8],
			Name:        p.Name,
			Items:       len(p.Items),
			TotalSeries: p.TotalSeries(),
		})
	}
	out.Count = len(out.Plans)
	return nil, out, nil
}

func (s *Server) handleGetPlan(ctx context.Context, req *mcp.CallToolRequest, input getByIDInput) (*mcp.CallToolResult, any, error) {
	p, err := s.repo.GetPlan(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("plan not found: %w", err)
	}
	return nil, p, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listByClientInput) (*mcp.CallToolResult, sessionsOutput, error) {
	clientID, err := s.optionalClient(input.ClientID)
	if err != nil {
		return nil, sessionsOutput{}, err
	}
	sessions, err := s.repo.ListSessions(clientID, limitOrDefault(input.Limit))
	if err != nil {
		return nil, sessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := sessionsOutput{Sessions: []sessionSummary{}}
	for _, se := range sessions {
		out.Sessions = append(out.Sessions, summarizeSession(se))
	}
	out.Count = len(out.Sessions)
	return nil, out, nil
}

func (s *Server) handleGetSession(ctx context.Context, req *mcp.CallToolRequest, input getByIDInput) (*mcp.CallToolResult, any, error) {
	se, err := s.repo.GetSession(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("session not found: %w", err)
	}
	return nil, se, nil
}

func (s *Server) handleAddProgress(ctx context.Context, req *mcp.CallToolRequest, input addProgressInput) (*mcp.CallToolResult, progressOutput, error) {
	if !models.IsValidProgressType(input.Type) {
		return nil, progressOutput{}, fmt.Errorf("unknown progress type: %s", input.Type)
	}
	c, err := s.repo.GetClient(input.ClientID)
	if err != nil {
		return nil, progressOutput{}, fmt.Errorf("client not found: %w", err)
	}

	p := models.NewProgress(c.ID, models.ProgressType(input.Type), input.Value)
	if input.RecordedAt != "" {
		p.WithRecordedAt(parseTime(input.RecordedAt, p.RecordedAt))
	}
	if input.Notes != "" {
		p.WithNotes(input.Notes)
	}
	if err := s.repo.CreateProgress(p); err != nil {
		return nil, progressOutput{}, fmt.Errorf("failed to create progress: %w", err)
	}

	return nil, progressOutput{
		ID:      p.ID.String()[:8],
		Type:    input.Type,
		Value:   p.Value,
		Unit:    p.Unit,
		Message: fmt.Sprintf("Added %s for %s: %.2f %s (ID: %s)", input.Type, c.Name, p.Value, p.Unit, p.ID.String()[:8]),
	}, nil
}

func (s *Server) handleGetLatest(ctx context.Context, req *mcp.CallToolRequest, input getLatestInput) (*mcp.CallToolResult, latestOutput, error) {
	c, err := s.repo.GetClient(input.ClientID)
	if err != nil {
		return nil, latestOutput{}, fmt.Errorf("client not found: %w", err)
	}

	types := input.Types
	if len(types) == 0 {
		for _, pt := range models.AllProgressTypes {
			types = append(types, string(pt))
		}
	}

	out := latestOutput{Client: c.Name, Latest: map[string]latestValue{}}
	for _, t := range types {
		if !models.IsValidProgressType(t) {
			return nil, latestOutput{}, fmt.Errorf("unknown progress type: %s", t)
		}
		p, err := s.repo.GetLatestProgress(c.ID, models.ProgressType(t))
		if err != nil {
			continue
		}
		out.Latest[t] = latestValue{Value: p.Value, Unit: p.Unit, RecordedAt: p.RecordedAt.Format(time.RFC3339)}
	}
	return nil, out, nil
}

// Helpers

func (s *Server) optionalClient(ref string) (*uuid.UUID, error) {
	if ref == "" {
		return nil, nil
	}
	c, err := s.repo.GetClient(ref)
	if err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}
	return &c.ID, nil
}

func applySkinfolds(m composition.Measurements, readings []skinfoldInput) error {
	for _, r := range readings {
		if !composition.IsValidSite(r.Site) {
			return fmt.Errorf("unknown site: %s", r.Site)
		}
		site := composition.Site(r.Site)
		if site.IsBilateral() && r.RightMM > 0 {
			m.SetSides(site, r.MM, r.RightMM)
		} else {
			m.Set(site, r.MM)
		}
	}
	return nil
}

func describeResult(r *composition.Result) string {
	return fmt.Sprintf("%.1f%% body fat, %.1f kg lean, %.1f kg fat (%s, sum %.1f mm)",
		r.BodyFatPct, r.LeanMassKg, r.FatMassKg, r.Protocol, r.SumMM)
}

func summarizeSession(se *models.Session) sessionSummary {
	return sessionSummary{
		ID:        se.ID.String()[:8],
		PlanName:  se.PlanName,
		StartedAt: se.StartedAt.Format(time.RFC3339),
		Duration:  execution.FormatClock(se.TotalSeconds),
		Completed: se.CompletedItems(),
		Items:     len(se.Items),
		Exertion:  se.Exertion,
	}
}

func limitOrDefault(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	return n
}

// parseTime accepts RFC 3339, "2006-01-02 15:04" or a bare date, else returns fallback.
func parseTime(s string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return fallback
}
