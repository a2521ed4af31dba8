package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appbodyscan "github.com/bryanwahyu/vital360/internal/application/bodyscan"
	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

func organParam(req *http.Request) (bodyscan.OrganID, error) {
	return bodyscan.ParseOrganID(chi.URLParam(req, "organ"))
}

type organsResponse struct {
	Organs    []bodyscan.OrganState `json:"organs"`
	Focused   bodyscan.OrganID      `json:"focused,omitempty"`
	Analyzing bodyscan.OrganID      `json:"analyzing,omitempty"`
	Layer     bodyscan.Layer        `json:"layer"`
}

// GET /v1/visits/{visit}/organs
func (r *Router) handleOrgans(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	focused, _ := v.Scan.Focused()
	analyzing, _ := v.Scan.Analyzing()
	return writeJSON(w, http.StatusOK, organsResponse{
		Organs:    v.Scan.Organs(),
		Focused:   focused,
		Analyzing: analyzing,
		Layer:     v.Scan.Layer(),
	})
}

// GET /v1/visits/{visit}/organs/{organ}
func (r *Router) handleOrganView(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	organ, err := organParam(req)
	if err != nil {
		return err
	}
	view, err := v.Scan.View(organ)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// POST /v1/visits/{visit}/organs/{organ}/diagnose
func (r *Router) handleDiagnose(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	organ, err := organParam(req)
	if err != nil {
		return err
	}
	res, err := r.diagnose(func() (appbodyscan.Result, error) {
		return r.BodyScan.RequestDiagnosis(req.Context(), v, organ)
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, res)
}

// POST /v1/visits/{visit}/organs/{organ}/touch
func (r *Router) handleTouch(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	organ, err := organParam(req)
	if err != nil {
		return err
	}

	var diagnosed bool
	res, err := r.diagnose(func() (appbodyscan.Result, error) {
		res, d, err := r.BodyScan.Touch(req.Context(), v, organ)
		diagnosed = d
		return res, err
	})
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, struct {
		appbodyscan.Result
		Diagnosed bool `json:"diagnosed"`
	}{res, diagnosed})
}

// diagnose runs fn under the diagnosis counters
func (r *Router) diagnose(fn func() (appbodyscan.Result, error)) (appbodyscan.Result, error) {
	done := middleware.DiagnosisStarted()
	res, err := fn()
	if errors.Is(err, bodyscan.ErrDiagnosisInFlight) {
		middleware.IncrementDiagnosesRejected()
	}
	done(err == nil && res.Failed)
	return res, err
}

// PUT /v1/visits/{visit}/organs/{organ}/select
func (r *Router) handleSelect(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	organ, err := organParam(req)
	if err != nil {
		return err
	}
	if err := v.SelectOrgan(organ, r.Clock.Now()); err != nil {
		return err
	}
	view, err := v.Scan.View(organ)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, view)
}

// GET /v1/visits/{visit}/layer
func (r *Router) handleGetLayer(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]bodyscan.Layer{"layer": v.Scan.Layer()})
}

// PUT /v1/visits/{visit}/layer
// Body: {"layer":"nervous"}
func (r *Router) handlePutLayer(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	var body struct {
		Layer string `json:"layer"`
	}
	if err := decodeJSON(w, req, &body); err != nil {
		return err
	}
	if err := v.Scan.SetLayer(bodyscan.Layer(body.Layer)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]bodyscan.Layer{"layer": v.Scan.Layer()})
}

// GET /v1/visits/{visit}/timeline
func (r *Router) handleTimeline(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string][]bodyscan.TimelineEntry{"entries": v.Scan.Timeline()})
}

// GET /v1/visits/{visit}/issues
func (r *Router) handleIssues(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string][]bodyscan.DetectedIssue{"issues": v.Scan.Issues()})
}

// GET /v1/visits/{visit}/audit?limit=
func (r *Router) handleAudit(w http.ResponseWriter, req *http.Request) error {
	v, err := r.visit(req)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	recs, err := r.AI.History(req.Context(), v.ID, middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"records": recs})
}
