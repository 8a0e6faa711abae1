// ABOUTME: HTTP handlers for composition estimates and read-only trainer history.
// ABOUTME: Lookup errors map to 404 (not found) and 400 (ambiguous prefix).
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/harperreed/trainer/internal/composition"
	"github.com/harperreed/trainer/internal/models"
	"github.com/harperreed/trainer/internal/storage"
)

const defaultListLimit = 50

// CompositionRequest is the body of POST /api/v1/composition.
// Skinfolds maps site names to readings in millimeters.
type CompositionRequest struct {
	Sex       string                         `json:"sex"`
	Age       *int                           `json:"age,omitempty"`
	WeightKg  *float64                       `json:"weight_kg,omitempty"`
	HeightCm  *float64                       `json:"height_cm,omitempty"`
	Skinfolds map[string]ReadingInput `json:"skinfolds"`
}

// ReadingInput is a skinfold reading as sent by clients. Sides may be JSON
// numbers or strings such as "12,5"; a bare value sets every side of the site.
// Anything unparseable is treated as absent rather than rejected.
type ReadingInput struct {
	Left  lenientMM `json:"left"`
	Right lenientMM `json:"right"`
	bare  *float64
}

// UnmarshalJSON accepts {"left":..,"right":..} or a single number or string.
func (ri *ReadingInput) UnmarshalJSON(data []byte) error {
	var sides struct {
		Left  lenientMM `json:"left"`
		Right lenientMM `json:"right"`
	}
	if err := json.Unmarshal(data, &sides); err == nil {
		ri.Left, ri.Right = sides.Left, sides.Right
		return nil
	}
	var v lenientMM
	if err := v.UnmarshalJSON(data); err != nil {
		return err
	}
	mm := float64(v)
	ri.bare = &mm
	return nil
}

func (ri ReadingInput) apply(m composition.Measurements, site composition.Site) {
	if ri.bare != nil {
		m.Set(site, *ri.bare)
		return
	}
	m.SetSides(site, float64(ri.Left), float64(ri.Right))
}

// lenientMM decodes a millimeter value through composition.ParseReading.
type lenientMM float64

func (v *lenientMM) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = lenientMM(composition.ParseReading(x))
	case float64:
		*v = lenientMM(composition.ParseReading(strconv.FormatFloat(x, 'f', -1, 64)))
	default:
		*v = 0
	}
	return nil
}

// CompositionResponse carries the estimate. Result is null when the
// measurements are insufficient for every protocol.
type CompositionResponse struct {
	Result *composition.Result `json:"result"`
	BMI    *float64            `json:"bmi,omitempty"`
}

func (s *Server) handleComposition(w http.ResponseWriter, r *http.Request) {
	var req CompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	sex, _ := composition.ParseSex(req.Sex)
	a := models.NewAssessment(uuid.Nil, sex)
	a.Age = req.Age
	a.WeightKg = req.WeightKg
	a.HeightCm = req.HeightCm
	for name, reading := range req.Skinfolds {
		if !composition.IsValidSite(name) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown site %q", name))
			return
		}
		reading.apply(a.Skinfolds, composition.Site(name))
	}
	a.Recompute()

	writeJSON(w, http.StatusOK, CompositionResponse{Result: a.Result, BMI: a.BMI()})
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	clients, err := s.repo.ListClients(activeOnly)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(clients))
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetClient(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleClientAssessments(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetClient(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	assessments, err := s.repo.ListAssessments(&c.ID, limit)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(assessments))
}

func (s *Server) handleClientProgress(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.GetClient(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var pt *models.ProgressType
	if v := r.URL.Query().Get("type"); v != "" {
		if !models.IsValidProgressType(v) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown progress type %q", v))
			return
		}
		t := models.ProgressType(v)
		pt = &t
	}

	entries, err := s.repo.ListProgress(&c.ID, pt, limit)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.repo.ListPlans(nil)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(plans))
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	p, err := s.repo.GetPlan(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var sessions []*models.Session
	if ref := r.URL.Query().Get("client"); ref != "" {
		c, err := s.repo.GetClient(ref)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
		sessions, err = s.repo.ListSessions(&c.ID, limit)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
	} else {
		sessions, err = s.repo.ListSessions(nil, limit)
		if err != nil {
			s.writeRepoError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, nonNil(sessions))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	se, err := s.repo.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, se)
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrAmbiguous):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("repository error", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return n, nil
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
