package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/scoring"
)

// RecomputeTotals rebuilds an innings' denormalized totals from its
// deliveries and overwrites the stored block. Safe to call at any time; every
// delivery mutation already triggers it internally.
func (s *Store) RecomputeTotals(ctx context.Context, inningsID int) (*models.Innings, error) {
	lock := s.inningsLock(inningsID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.recomputeTotalsLocked(ctx, inningsID); err != nil {
		return nil, err
	}

	innings := new(models.Innings)
	err := s.db.NewSelect().Model(innings).Where("i.id = ?", inningsID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: innings %d", ErrNotFound, inningsID)
	}
	if err != nil {
		return nil, err
	}
	return innings, nil
}

// recomputeTotalsLocked requires the caller to hold the innings lock.
func (s *Store) recomputeTotalsLocked(ctx context.Context, inningsID int) error {
	deliveries, err := s.DeliveriesByInnings(ctx, inningsID)
	if err != nil {
		return err
	}

	t := scoring.ComputeTotals(deliveries)

	_, err = s.db.NewUpdate().Model((*models.Innings)(nil)).
		Set("total_runs = ?", t.Runs).
		Set("total_wickets = ?", t.Wickets).
		Set("total_overs = ?", t.Overs).
		Set("extras_total = ?", t.ExtrasTotal).
		Set("extras_wides = ?", t.Wides).
		Set("extras_noballs = ?", t.NoBalls).
		Set("extras_byes = ?", t.Byes).
		Set("extras_legbyes = ?", t.LegByes).
		Where("id = ?", inningsID).
		Exec(ctx)
	return err
}
