package httpserver

import (
	"net/http"
	"time"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	"github.com/bryanwahyu/vital360/internal/domain/profile"
	"github.com/bryanwahyu/vital360/internal/domain/shell"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

type visitResponse struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	ActiveTab shell.Tab        `json:"activeTab"`
	Tabs      []shell.Entry    `json:"tabs"`
	Organs    []bodyscan.Organ `json:"organs"`
	Layer     bodyscan.Layer   `json:"layer"`
}

// POST /v1/visits
func (r *Router) handleCreateVisit(w http.ResponseWriter, req *http.Request) error {
	v := r.Visits.Create()
	return writeJSON(w, http.StatusCreated, visitResponse{
		ID:        v.ID,
		CreatedAt: v.CreatedAt,
		ActiveTab: v.Shell.Active(),
		Tabs:      shell.Tabs(),
		Organs:    bodyscan.Organs(),
		Layer:     v.Scan.Layer(),
	})
}

// DELETE /v1/visits/{visit}
func (r *Router) handleEndVisit(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	if err := r.Visits.End(v.ID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type profileResponse struct {
	Completed bool             `json:"completed"`
	Profile   *profile.Profile `json:"profile,omitempty"`
	Goals     []string         `json:"goals"`
	Genders   []string         `json:"genders"`
}

// GET /v1/visits/{visit}/profile
func (r *Router) handleGetProfile(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	resp := profileResponse{Goals: profile.Goals, Genders: profile.Genders}
	if p, ok := v.Profile(); ok {
		resp.Completed, resp.Profile = true, &p
	}
	return writeJSON(w, http.StatusOK, resp)
}

// PUT /v1/visits/{visit}/profile
// Body: {"name":"Ada","age":"36","gender":"Female","goal":"Longevity"}
func (r *Router) handlePutProfile(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	var body profile.Profile
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	body.Name = middleware.SanitizeString(body.Name)
	p, err := v.SetProfile(body)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusCreated, p)
}

type tabResponse struct {
	Active shell.Tab     `json:"active"`
	Tabs   []shell.Entry `json:"tabs"`
}

// GET /v1/visits/{visit}/tab
func (r *Router) handleGetTab(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tabResponse{Active: v.Shell.Active(), Tabs: shell.Tabs()})
}

// PUT /v1/visits/{visit}/tab
// Body: {"tab":"body"}
func (r *Router) handlePutTab(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	var body struct {
		Tab string `json:"tab"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	tab, err := shell.ParseTab(body.Tab)
	if err != nil {
		return err
	}
	if err := v.SelectTab(tab, r.Clock.Now()); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, tabResponse{Active: v.Shell.Active(), Tabs: shell.Tabs()})
}
