package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/coach-ledger/internal/domain/attribution"
	"github.com/riskibarqy/coach-ledger/internal/domain/match"
	"github.com/riskibarqy/coach-ledger/internal/domain/tenure"
	"github.com/riskibarqy/coach-ledger/internal/platform/logging"
)

// AttributedMatch is a stored match with the tenure in charge on its date; Tenure is nil for
// matches outside every recorded tenure.
type AttributedMatch struct {
	Match  match.Match
	Tenure *tenure.Tenure
}

type attributor struct {
	tenureRepo tenure.Repository
	metrics    Metrics
	logger     *logging.Logger
}

func (a attributor) timeline(ctx context.Context) (*attribution.Timeline, error) {
	items, err := a.tenureRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenures: %w", err)
	}
	return attribution.NewTimeline(items), nil
}

func (a attributor) attribute(ctx context.Context, timeline *attribution.Timeline, items []match.Match) []AttributedMatch {
	out := make([]AttributedMatch, 0, len(items))
	for _, item := range items {
		result := timeline.Attribute(item.Date)
		if result.Ambiguous() {
			a.metrics.AttributionAmbiguous()
			a.logger.WarnContext(ctx, "overlapping tenures on match date",
				"match_id", item.ID,
				"match_date", item.Date.Format("2006-01-02"),
				"active_tenures", result.Active,
				"picked_tenure_id", result.Tenure.ID,
			)
		}
		out = append(out, AttributedMatch{Match: item, Tenure: result.Tenure})
	}
	return out
}
