package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	appbodyscan "github.com/bryanwahyu/vital360/internal/application/bodyscan"
	"github.com/bryanwahyu/vital360/internal/application/insight"
	"github.com/bryanwahyu/vital360/internal/application/scanner"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/application/voicelog"
	domai "github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	"github.com/bryanwahyu/vital360/internal/domain/media"
	"github.com/bryanwahyu/vital360/internal/domain/panels"
	"github.com/bryanwahyu/vital360/internal/domain/profile"
	"github.com/bryanwahyu/vital360/internal/domain/shell"
	"github.com/bryanwahyu/vital360/internal/middleware"
)

// Deps are the services behind the HTTP API.
type Deps struct {
	Visits         *visit.Registry
	BodyScan       *appbodyscan.Service
	Scanner        *scanner.Service
	VoiceLog       *voicelog.Service
	Insight        *insight.Service
	AI             *appai.Service
	Clock          application.Clock
	AllowedOrigins []string
	Limiter        *middleware.RateLimiter
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	Deps
}

func NewRouter(d Deps) http.Handler {
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if len(d.AllowedOrigins) == 0 {
		d.AllowedOrigins = []string{"*"}
	}
	r := &Router{Deps: d}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	mux.Use(middleware.RateLimit(d.Limiter))

	mux.Get("/health", middleware.HealthHandler(d.HealthCheckers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler(d.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/visits", r.wrap(r.handleCreateVisit))
		rt.Post("/media/failures", r.wrap(r.handleMediaFailure))
		rt.Get("/recommendations", r.wrap(r.handleRecommendations))
		rt.Get("/personality", r.wrap(r.handlePersonality))

		rt.Route("/visits/{visit}", func(vr chi.Router) {
			vr.Delete("/", r.wrap(r.handleEndVisit))
			vr.Get("/profile", r.wrap(r.handleGetProfile))
			vr.Put("/profile", r.wrap(r.handlePutProfile))
			vr.Get("/tab", r.wrap(r.handleGetTab))
			vr.Put("/tab", r.wrap(r.handlePutTab))
			vr.Post("/scanner/capture", r.wrap(r.handleScannerCapture))

			vr.Get("/organs", r.wrap(r.handleOrgans))
			vr.Get("/organs/{organ}", r.wrap(r.handleOrganView))
			vr.Post("/organs/{organ}/touch", r.wrap(r.handleTouch))
			vr.Post("/organs/{organ}/diagnose", r.wrap(r.handleDiagnose))
			vr.Put("/organs/{organ}/select", r.wrap(r.handleSelect))
			vr.Get("/layer", r.wrap(r.handleGetLayer))
			vr.Put("/layer", r.wrap(r.handlePutLayer))
			vr.Get("/timeline", r.wrap(r.handleTimeline))
			vr.Get("/issues", r.wrap(r.handleIssues))
			vr.Get("/audit", r.wrap(r.handleAudit))
			vr.Get("/events", r.handleEvents)

			vr.Post("/voice-log", r.wrap(r.handleVoiceLog))
			vr.Get("/dashboard", r.wrap(r.handleDashboard))
			vr.Get("/checkup", r.wrap(r.handleCheckup))
			vr.Post("/checkup/{task}/toggle", r.wrap(r.handleToggleTask))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var failure *media.Failure
		switch {
		case errors.As(err, &failure):
			status := http.StatusServiceUnavailable
			if failure.Blocked {
				status = http.StatusForbidden
			}
			writeJSON(w, status, failure)
		case errors.Is(err, visit.ErrVisitNotFound),
			errors.Is(err, panels.ErrUnknownTask),
			errors.Is(err, appai.ErrAuditDisabled):
			writeError(w, http.StatusNotFound, err)
		case errors.Is(err, bodyscan.ErrDiagnosisInFlight),
			errors.Is(err, profile.ErrProfileExists):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusGatewayTimeout, err)
		case errors.Is(err, context.Canceled):
			// client sudah pergi
			writeError(w, http.StatusRequestTimeout, err)
		case errors.Is(err, appai.ErrTranscriptionDisabled):
			writeError(w, http.StatusServiceUnavailable, err)
		case errors.Is(err, domai.ErrQuotaExceeded):
			writeError(w, http.StatusTooManyRequests, errors.New("ai quota exceeded"))
		case errors.Is(err, voicelog.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err)
		case errors.Is(err, errBadRequest),
			errors.Is(err, bodyscan.ErrUnknownOrgan),
			errors.Is(err, bodyscan.ErrUnknownLayer),
			errors.Is(err, shell.ErrUnknownTab),
			errors.Is(err, profile.ErrInvalidProfile),
			errors.Is(err, voicelog.ErrEmptyRecording):
			writeError(w, http.StatusBadRequest, err)
		default:
			slog.ErrorContext(req.Context(), "request failed", "path", req.URL.Path, "err", err)
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	_ = writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(w http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid JSON body: %w", err))
	}
	return nil
}

// visit resolves the {visit} path parameter
func (r *Router) visit(req *http.Request) (*visit.Visit, error) {
	id := strings.ToLower(chi.URLParam(req, "visit"))
	if err := middleware.ValidateVisitID(id); err != nil {
		return nil, visit.ErrVisitNotFound
	}
	return r.Visits.Get(id)
}
