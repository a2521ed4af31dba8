package scanner

import (
	"context"

	"github.com/bryanwahyu/vital360/internal/application"
	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	"github.com/bryanwahyu/vital360/internal/application/visit"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
	"github.com/bryanwahyu/vital360/internal/domain/panels"
	"github.com/bryanwahyu/vital360/internal/domain/shell"
	"github.com/bryanwahyu/vital360/internal/infra/ai/prompt"
)

type Gateway interface {
	Complete(ctx context.Context, call appai.Call, p ai.Prompt) (string, error)
}

// Service runs the master biometric scan.
type Service struct {
	Gateway Gateway
	Clock   application.Clock
	Model   string
}

// CaptureAndAnalyze produces the scan summary, stores it on the visit and moves
// the shell to the body tab. Gateway failures use the canned summary text.
func (s *Service) CaptureAndAnalyze(ctx context.Context, v *visit.Visit) (panels.ScanSummary, error) {
	text, err := s.Gateway.Complete(ctx, appai.Call{VisitID: v.ID, Kind: audit.KindScanSummary}, ai.Prompt{
		Model: s.Model,
		User:  prompt.ScanSummary,
	})
	if err != nil {
		text = ""
	}

	now := s.Clock.Now()
	summary := panels.BaselineSummary(text, now)
	v.SetSummary(summary)
	v.Events.Publish(visit.Event{Type: visit.EventScanCompleted, Failed: summary.Fallback, At: now})

	if err := v.SelectTab(shell.TabBody, now); err != nil {
		return summary, err
	}
	return summary, nil
}
