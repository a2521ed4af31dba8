package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/vital360/internal/domain/panels"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

// GET /v1/visits/{visit}/dashboard
func (r *Router) handleDashboard(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, panels.NewDashboard(v.Summary()))
}

// GET /v1/recommendations
func (r *Router) handleRecommendations(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, panels.DefaultRecommendations())
}

// GET /v1/personality?visit=
func (r *Router) handlePersonality(w http.ResponseWriter, req *http.Request) error {
	visitID := req.URL.Query().Get("visit")
	if visitID != "" {
		if err := middleware.ValidateVisitID(visitID); err != nil {
			return badRequest(err)
		}
	}
	return writeJSON(w, http.StatusOK, r.Insight.Personality(req.Context(), visitID))
}

type checkupResponse struct {
	Tasks []panels.Task `json:"tasks"`
	Done  int           `json:"done"`
	Total int           `json:"total"`
}

func checkupOf(c *panels.Checklist) checkupResponse {
	done, total := c.Progress()
	return checkupResponse{Tasks: c.Tasks(), Done: done, Total: total}
}

// GET /v1/visits/{visit}/checkup
func (r *Router) handleCheckup(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, checkupOf(v.Checkup))
}

// POST /v1/visits/{visit}/checkup/{task}/toggle
func (r *Router) handleToggleTask(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	id, err := middleware.ParseTaskID(chi.URLParam(req, "task"))
	if err != nil {
		return badRequest(err)
	}
	if _, err := v.Checkup.Toggle(id); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, checkupOf(v.Checkup))
}
