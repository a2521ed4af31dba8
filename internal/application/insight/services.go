package insight

import (
	"context"

	appai "github.com/bryanwahyu/vital360/internal/application/ai"
	"github.com/bryanwahyu/vital360/internal/domain/ai"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
	"github.com/bryanwahyu/vital360/internal/domain/panels"
	"github.com/bryanwahyu/vital360/internal/infra/ai/prompt"
)

type Gateway interface {
	Complete(ctx context.Context, call appai.Call, p ai.Prompt) (string, error)
}

type Service struct {
	Gateway Gateway
	Model   string
}

// Personality returns the growth panel with a fresh forecast, or the canned
// forecast when the gateway fails. visitID may be empty.
func (s *Service) Personality(ctx context.Context, visitID string) panels.Personality {
	text, err := s.Gateway.Complete(ctx, appai.Call{VisitID: visitID, Kind: audit.KindInsight}, ai.Prompt{
		Model: s.Model,
		User:  prompt.Insight,
	})
	if err != nil {
		text = ""
	}
	return panels.NewPersonality(text)
}
