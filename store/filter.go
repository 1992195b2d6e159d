package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
)

// DeliveryFilter is a conjunctive predicate set over deliveries. Zero-value
// fields impose no constraint; an empty filter matches every delivery.
type DeliveryFilter struct {
	InningsID   *int    `json:"inningsID"`
	MatchID     *int    `json:"matchID"`
	BatsmanID   *int    `json:"batsmanID"`
	BowlerID    *int    `json:"bowlerID"`
	BowlingType *string `json:"bowlingType"`
	ShotType    *string `json:"shotType"`
	Line        *string `json:"line"`
	Length      *string `json:"length"`
	Phase       *string `json:"phase"`
	OverFrom    *int    `json:"overFrom"`
	OverTo      *int    `json:"overTo"`
	WagonZone   *int    `json:"wagonZone"`
	RunsMin     *int    `json:"runsMin"`

	// Flag predicates: false means "no constraint", not "must be false".
	WicketsOnly    bool `json:"isWicket"`
	BoundariesOnly bool `json:"isBoundary"`
	DotsOnly       bool `json:"isDot"`
	HighlightsOnly bool `json:"highlight"`
}

func (f *DeliveryFilter) apply(q *bun.SelectQuery) *bun.SelectQuery {
	if f.InningsID != nil {
		q = q.Where("d.innings_id = ?", *f.InningsID)
	}
	if f.MatchID != nil {
		q = q.Where("d.match_id = ?", *f.MatchID)
	}
	if f.BatsmanID != nil {
		q = q.Where("d.batsman_id = ?", *f.BatsmanID)
	}
	if f.BowlerID != nil {
		q = q.Where("d.bowler_id = ?", *f.BowlerID)
	}
	if f.BowlingType != nil {
		q = q.Where("d.bowling_type = ?", *f.BowlingType)
	}
	if f.ShotType != nil {
		q = q.Where("d.shot_type = ?", *f.ShotType)
	}
	if f.Line != nil {
		q = q.Where("d.line = ?", *f.Line)
	}
	if f.Length != nil {
		q = q.Where("d.length = ?", *f.Length)
	}
	if f.Phase != nil {
		q = q.Where("d.phase = ?", *f.Phase)
	}
	if f.OverFrom != nil {
		q = q.Where("d.over_number >= ?", *f.OverFrom)
	}
	if f.OverTo != nil {
		q = q.Where("d.over_number <= ?", *f.OverTo)
	}
	if f.WagonZone != nil {
		q = q.Where("d.wagon_zone = ?", *f.WagonZone)
	}
	if f.RunsMin != nil {
		q = q.Where("d.runs_scored >= ?", *f.RunsMin)
	}
	if f.WicketsOnly {
		q = q.Where("d.is_wicket")
	}
	if f.BoundariesOnly {
		q = q.Where("(d.is_boundary OR d.is_six)")
	}
	if f.DotsOnly {
		q = q.Where("d.is_dot")
	}
	if f.HighlightsOnly {
		q = q.Where("d.highlight")
	}
	return q
}

// FilterDeliveries lists all deliveries matching the filter in scorebook
// order.
func (s *Store) FilterDeliveries(ctx context.Context, f *DeliveryFilter) ([]models.Delivery, error) {
	var ds []models.Delivery
	q := f.apply(s.db.NewSelect().Model(&ds))
	err := q.OrderExpr("d.over_number, d.ball_number, d.id").Scan(ctx)
	return ds, err
}

// PitchMapDeliveries is the pitch-map projection: user filters plus the
// implicit requirement that pitch coordinates are recorded. The optional
// batting-style predicate joins through the batsman.
func (s *Store) PitchMapDeliveries(ctx context.Context, f *DeliveryFilter, battingStyle *string) ([]models.Delivery, error) {
	var ds []models.Delivery
	q := f.apply(s.db.NewSelect().Model(&ds)).
		Where("d.pitch_x IS NOT NULL").
		Where("d.pitch_y IS NOT NULL")
	if battingStyle != nil {
		q = q.Join("INNER JOIN players AS bp ON bp.id = d.batsman_id").
			Where("bp.batting_style = ?", *battingStyle)
	}
	err := q.OrderExpr("d.over_number, d.ball_number, d.id").Scan(ctx)
	return ds, err
}

// WagonWheelDeliveries is the wagon-wheel projection: user filters plus the
// implicit requirement that wagon coordinates are recorded. runsOffBatMin
// constrains runs off the bat, not team runs, matching the shot chart.
func (s *Store) WagonWheelDeliveries(ctx context.Context, f *DeliveryFilter, runsOffBatMin *int) ([]models.Delivery, error) {
	var ds []models.Delivery
	q := f.apply(s.db.NewSelect().Model(&ds)).
		Where("d.wagon_x IS NOT NULL").
		Where("d.wagon_y IS NOT NULL")
	if runsOffBatMin != nil {
		q = q.Where("d.runs_off_bat >= ?", *runsOffBatMin)
	}
	err := q.OrderExpr("d.over_number, d.ball_number, d.id").Scan(ctx)
	return ds, err
}
