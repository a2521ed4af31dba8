package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bryanwahyu/vital360/internal/application"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
)

// Service wraps the gateway with a per-call timeout, panic recovery and the audit trail.
// Service is safe for concurrent use.
type Service struct {
	client      ai.Client
	transcriber ai.Transcriber
	audit       audit.Repository // nil = disabled
	timeout     time.Duration
	clock       application.Clock
	log         *slog.Logger
}

func NewService(client ai.Client, transcriber ai.Transcriber, repo audit.Repository, timeout time.Duration, clock application.Clock) *Service {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &Service{
		client:      client,
		transcriber: transcriber,
		audit:       repo,
		timeout:     timeout,
		clock:       clock,
		log:         slog.Default().With("component", "ai"),
	}
}

// Call identifies one gateway exchange for the audit trail.
type Call struct {
	VisitID string
	Kind    audit.Kind
	Subject string
}

// Complete sends p and returns the trimmed text. An empty answer is ErrEmptyResponse.
func (s *Service) Complete(ctx context.Context, call Call, p ai.Prompt) (string, error) {
	if s.client == nil {
		return "", errors.New("ai client not configured")
	}
	return s.do(ctx, call, func(ctx context.Context) (string, error) {
		return s.client.Complete(ctx, p)
	})
}

// Transcribe converts a recorded clip into text.
func (s *Service) Transcribe(ctx context.Context, call Call, a ai.Audio) (string, error) {
	if s.transcriber == nil {
		return "", ErrTranscriptionDisabled
	}
	return s.do(ctx, call, func(ctx context.Context) (string, error) {
		return s.transcriber.Transcribe(ctx, a)
	})
}

func (s *Service) do(ctx context.Context, call Call, fn func(context.Context) (string, error)) (out string, err error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := s.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("ai %s panicked: %v", call.Kind, r)
		}
		s.record(ctx, call, start, out, err)
	}()

	out, err = fn(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ai.ErrEmptyResponse
	}
	return out, nil
}

func (s *Service) record(ctx context.Context, call Call, start time.Time, out string, err error) {
	now := s.clock.Now()
	if err != nil {
		s.log.WarnContext(ctx, "gateway call failed", "kind", call.Kind, "subject", call.Subject, "visit", call.VisitID, "err", err)
	}
	if s.audit == nil {
		return
	}
	rec := &audit.Record{
		VisitID:   call.VisitID,
		Kind:      call.Kind,
		Subject:   call.Subject,
		Outcome:   audit.OutcomeOK,
		Response:  out,
		LatencyMS: now.Sub(start).Milliseconds(),
		CreatedAt: now,
	}
	if err != nil {
		rec.Outcome = audit.OutcomeError
		rec.Error = err.Error()
	}
	// tetap simpan walau request sudah cancel
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if serr := s.audit.Save(saveCtx, rec); serr != nil {
		s.log.ErrorContext(ctx, "failed to save gateway exchange", "kind", call.Kind, "err", serr)
	}
}

// History returns the recorded exchanges of a visit. ErrAuditDisabled when no store is configured.
func (s *Service) History(ctx context.Context, visitID string, limit int) ([]*audit.Record, error) {
	if s.audit == nil {
		return nil, ErrAuditDisabled
	}
	return s.audit.ListByVisit(ctx, visitID, limit)
}

var (
	ErrAuditDisabled = errors.New("audit disabled")
	// ErrTranscriptionDisabled means no speech-to-text endpoint is configured.
	ErrTranscriptionDisabled = errors.New("voice transcription not configured")
)
