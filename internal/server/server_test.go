// ABOUTME: httptest coverage for the trainer HTTP API routes and middleware.
// ABOUTME: Runs against a temp-dir SQLite repository.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

type fixture struct {
	srv     *Server
	client  *models.Client
	plan    *models.WorkoutPlan
	session *models.Session
}

func setup(t *testing.T, apiKey string) fixture {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "trainer.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	c := models.NewClient("Ana").WithSex(composition.Female)
	if err := db.CreateClient(c); err != nil {
		t.Fatalf("CreateClient failed: %v", err)
	}
	plan := models.NewWorkoutPlan("Upper B",
		models.NewSingle(models.Exercise{Name: "Push-up", Mode: models.ModeReps, Reps: "12"}, 3, 45),
	).WithClient(c.ID)
	if err := db.CreatePlan(plan); err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	a := models.NewAssessment(c.ID, composition.Female).WithAge(30).WithWeight(60)
	a.Skinfolds.Set(composition.Triceps, 18).Set(composition.Suprailiac, 14).Set(composition.Thigh, 22)
	a.Recompute()
	if err := db.CreateAssessment(a); err != nil {
		t.Fatalf("CreateAssessment failed: %v", err)
	}
	for _, p := range models.ProgressFromAssessment(a) {
		if err := db.CreateProgress(p); err != nil {
			t.Fatalf("CreateProgress failed: %v", err)
		}
	}
	s := models.NewSession(plan)
	s.TotalSeconds = 600
	if err := db.CreateSession(s); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	return fixture{srv: New(db, apiKey, nil), client: c, plan: plan, session: s}
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return v
}

func TestComposition(t *testing.T) {
	f := setup(t, "")
	body := `{"sex":"M","age":25,"weight_kg":80,"height_cm":180,
		"skinfolds":{"chest":{"left":10},"abdomen":{"left":20},"thigh":{"left":15,"right":15}}}`

	rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	resp := decode[CompositionResponse](t, rec)
	if resp.Result == nil {
		t.Fatal("Expected a result")
	}
	if resp.Result.Protocol != composition.JacksonPollock3 || resp.Result.BodyFatPct != 13.1 {
		t.Errorf("Unexpected result: %+v", resp.Result)
	}
	if resp.BMI == nil || *resp.BMI != 24.7 {
		t.Errorf("Expected BMI 24.7, got %v", resp.BMI)
	}
}

func TestCompositionLenientReadings(t *testing.T) {
	f := setup(t, "")

	tests := []struct {
		name      string
		skinfolds string
		wantFat   *float64
	}{
		{"strings with comma decimals", `{"chest":{"left":"10"},"abdomen":{"left":"20,0"},"thigh":{"left":"15","right":"15"}}`, ptr(13.1)},
		{"bare values", `{"chest":10,"abdomen":"20","thigh":"15,0"}`, ptr(13.1)},
		{"unparseable side is absent", `{"chest":{"left":10},"abdomen":{"left":20},"thigh":{"left":15,"right":"abc"}}`, ptr(13.1)},
		{"unparseable site is absent", `{"chest":{"left":"abc"},"abdomen":{"left":20},"thigh":{"left":15}}`, nil},
		{"negative is absent", `{"chest":{"left":-10},"abdomen":{"left":20},"thigh":{"left":15}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"sex":"m","age":25,"weight_kg":80,"skinfolds":` + tt.skinfolds + `}`
			rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			resp := decode[CompositionResponse](t, rec)
			if tt.wantFat == nil {
				if resp.Result != nil {
					t.Errorf("Expected no result, got %+v", resp.Result)
				}
				return
			}
			if resp.Result == nil || resp.Result.BodyFatPct != *tt.wantFat {
				t.Errorf("Expected body fat %v, got %+v", *tt.wantFat, resp.Result)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }

func TestCompositionInsufficientDataIsNotAnError(t *testing.T) {
	f := setup(t, "")

	rec := do(t, f.srv, http.MethodPost, "/api/v1/composition",
		`{"sex":"x","age":25,"weight_kg":80,"skinfolds":{"chest":{"left":10}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"result":null`) {
		t.Errorf("Expected null result, got %s", rec.Body)
	}
}

func TestCompositionRejectsBadInput(t *testing.T) {
	f := setup(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"sex":`},
		{"unknown site", `{"sex":"m","skinfolds":{"forearm":{"left":3}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestCompositionAPIKey(t *testing.T) {
	f := setup(t, "s3cret")
	body := `{"sex":"m"}`

	if rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key status = %d, want 401", rec.Code)
	}
	if rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", body, "X-API-Key", "nope"); rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
	if rec := do(t, f.srv, http.MethodPost, "/api/v1/composition", body, "X-API-Key", "s3cret"); rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}
	// Reads stay open.
	if rec := do(t, f.srv, http.MethodGet, "/api/v1/clients", ""); rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rec.Code)
	}
}

func TestListClients(t *testing.T) {
	f := setup(t, "")

	rec := do(t, f.srv, http.MethodGet, "/api/v1/clients?active=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	clients := decode[[]models.Client](t, rec)
	if len(clients) != 1 || clients[0].Name != "Ana" {
		t.Errorf("Unexpected clients: %+v", clients)
	}
}

func TestClientAssessmentsAndProgress(t *testing.T) {
	f := setup(t, "")
	prefix := f.client.ID.String()[:8]

	rec := do(t, f.srv, http.MethodGet, "/api/v1/clients/"+prefix+"/assessments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	assessments := decode[[]models.Assessment](t, rec)
	if len(assessments) != 1 || assessments[0].Result == nil {
		t.Fatalf("Expected one computed assessment, got %+v", assessments)
	}
	if assessments[0].Result.Protocol != composition.JacksonPollock3 {
		t.Errorf("Expected female 3-site protocol, got %s", assessments[0].Result.Protocol)
	}

	rec = do(t, f.srv, http.MethodGet, "/api/v1/clients/"+prefix+"/progress?type=body_fat", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	entries := decode[[]models.Progress](t, rec)
	if len(entries) != 1 || entries[0].Type != models.ProgressBodyFat {
		t.Errorf("Expected one body_fat entry, got %+v", entries)
	}

	if rec := do(t, f.srv, http.MethodGet, "/api/v1/clients/"+prefix+"/progress?type=shoe_size", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", rec.Code)
	}
}

func TestUnknownClientIs404(t *testing.T) {
	f := setup(t, "")

	rec := do(t, f.srv, http.MethodGet, "/api/v1/clients/zzzz/assessments", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSessions(t *testing.T) {
	f := setup(t, "")

	rec := do(t, f.srv, http.MethodGet, "/api/v1/sessions?client="+f.client.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	sessions := decode[[]models.Session](t, rec)
	if len(sessions) != 1 || sessions[0].PlanName != "Upper B" {
		t.Fatalf("Unexpected sessions: %+v", sessions)
	}

	rec = do(t, f.srv, http.MethodGet, "/api/v1/sessions/"+f.session.ID.String()[:8], "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[models.Session](t, rec)
	if got.TotalSeconds != 600 {
		t.Errorf("TotalSeconds = %d, want 600", got.TotalSeconds)
	}

	if rec := do(t, f.srv, http.MethodGet, "/api/v1/sessions?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestEmptyListIsArray(t *testing.T) {
	db, err := storage.Open(filepath.Join(t.TempDir(), "trainer.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	rec := do(t, New(db, "", nil), http.MethodGet, "/api/v1/sessions", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("Expected [], got %s", rec.Body)
	}
}

func TestGetPlan(t *testing.T) {
	f := setup(t, "")

	rec := do(t, f.srv, http.MethodGet, "/api/v1/plans/"+f.plan.ID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	plan := decode[models.WorkoutPlan](t, rec)
	if plan.Name != "Upper B" || len(plan.Items) != 1 {
		t.Errorf("Unexpected plan: %+v", plan)
	}

	rec = do(t, f.srv, http.MethodGet, "/api/v1/plans", "")
	if plans := decode[[]models.WorkoutPlan](t, rec); len(plans) != 1 {
		t.Errorf("Expected one plan, got %d", len(plans))
	}
}

func TestCORSPreflight(t *testing.T) {
	f := setup(t, "key")

	rec := do(t, f.srv, http.MethodOptions, "/api/v1/composition", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	f := setup(t, "")
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.srv.Serve(ctx, listener) }()

	resp, err := http.Get("http://" + listener.Addr().String() + "/api/v1/clients")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
