package bodyscan

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
	domain "github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	"github.com/bryanwahyu/vital360/internal/infra/ai/prompt"
)

// Gateway is the part of the ai service used here.
type Gateway interface {
	Complete(ctx context.Context, call appai.Call, p ai.Prompt) (string, error)
}

// Service runs organ diagnoses against a visit's scan session.
type Service struct {
	Gateway Gateway
	Clock   application.Clock
	Model   string
}

// Result of one diagnosis. Failed means the gateway answer was unusable and the
// entry was recorded as optimal.
type Result struct {
	Organ  domain.OrganID        `json:"organ"`
	Entry  domain.HistoryEntry   `json:"entry"`
	Issue  *domain.DetectedIssue `json:"issue,omitempty"`
	Failed bool                  `json:"failed"`
}

// RequestDiagnosis claims the in-flight slot, asks the gateway, folds the outcome
// into the session exactly once and releases the slot. Only an unknown organ or a
// busy slot is returned as an error; gateway failures become an optimal entry.
func (s *Service) RequestDiagnosis(ctx context.Context, v *visit.Visit, organ domain.OrganID) (Result, error) {
	if err := v.Scan.Begin(organ); err != nil {
		return Result{}, err
	}
	defer v.Scan.Finish(organ)

	v.Events.Publish(visit.Event{Type: visit.EventDiagnosisStarted, Organ: organ, At: s.Clock.Now()})

	raw, err := s.complete(ctx, v, organ)
	var outcome domain.Outcome
	if err != nil {
		outcome = domain.Failure(err)
	} else {
		outcome = domain.OutcomeOf(domain.ParseDiagnosis(raw))
		if outcome.Failed() {
			slog.WarnContext(ctx, "discarding malformed diagnosis", "organ", organ, "visit", v.ID, "err", outcome.Err)
		}
	}

	at := s.Clock.Now()
	entry, err := v.Scan.Apply(organ, outcome, at)
	if err != nil {
		return Result{}, err
	}

	res := Result{Organ: organ, Entry: entry, Failed: outcome.Failed()}
	if view, err := v.Scan.View(organ); err == nil {
		res.Issue = view.Issue
	}
	v.Events.Publish(visit.Event{
		Type:   visit.EventDiagnosisCompleted,
		Organ:  organ,
		Entry:  &res.Entry,
		Issue:  res.Issue,
		Failed: res.Failed,
		At:     at,
	})
	return res, nil
}

// complete asks the gateway; a panicking gateway is reported as an error so the
// outcome is still recorded.
func (s *Service) complete(ctx context.Context, v *visit.Visit, organ domain.OrganID) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			raw, err = "", fmt.Errorf("diagnosis gateway panicked: %v", r)
		}
	}()
	return s.Gateway.Complete(ctx, appai.Call{VisitID: v.ID, Kind: audit.KindDiagnosis, Subject: string(organ)}, ai.Prompt{
		Model:  s.Model,
		System: prompt.DiagnosisSystem(),
		User:   prompt.DiagnosisUser(organ),
		JSON:   true,
	})
}

// Touch reproduces a tap on the body map: an organ never scanned is diagnosed,
// a scanned one is only focused. Diagnosed reports which path ran.
func (s *Service) Touch(ctx context.Context, v *visit.Visit, organ domain.OrganID) (res Result, diagnosed bool, err error) {
	if !organ.Valid() {
		return Result{}, false, domain.ErrUnknownOrgan
	}
	if !v.Scan.Scanned(organ) {
		res, err = s.RequestDiagnosis(ctx, v, organ)
		return res, err == nil, err
	}
	if err := v.SelectOrgan(organ, s.Clock.Now()); err != nil {
		return Result{}, false, err
	}
	view, _ := v.Scan.View(organ)
	res = Result{Organ: organ, Issue: view.Issue}
	if len(view.History) > 0 {
		res.Entry = view.History[0]
	}
	return res, false, nil
}
