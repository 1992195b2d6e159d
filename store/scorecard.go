package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/stumpvision/crickapi/scoring"
)

// BuildScorecard computes the batting lines, bowling lines and fall of
// wickets for an innings. Duplicate dismissal rows are tolerated: the first
// by id wins and the inconsistency is logged as a warning.
func (s *Store) BuildScorecard(ctx context.Context, inningsID int) (*scoring.Scorecard, error) {
	deliveries, err := s.DeliveriesByInnings(ctx, inningsID)
	if err != nil {
		return nil, err
	}

	names, err := s.PlayerNames(ctx, participantIDs(deliveries))
	if err != nil {
		return nil, err
	}

	batting, warnings := scoring.BattingLines(deliveries, names)
	for _, w := range warnings {
		zap.L().Warn("scorecard integrity", zap.Int("innings_id", inningsID), zap.String("detail", w))
	}

	return &scoring.Scorecard{
		Batting:       batting,
		Bowling:       scoring.BowlingLines(deliveries, names),
		FallOfWickets: scoring.FallOfWickets(deliveries, names),
	}, nil
}
