package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/scoring"
)

// legalExtraTypes is the extra-type set counted toward the 6-ball over.
var legalExtraTypes = []string{models.ExtraNone, models.ExtraBye, models.ExtraLegBye}

// CreateDelivery derives the write-time fields for d, persists it and
// recomputes the owning innings' totals, all under the innings lock.
// d.ID and the derived fields are filled in on return.
func (s *Store) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	if err := validateDelivery(d); err != nil {
		return err
	}

	lock := s.inningsLock(d.InningsID)
	lock.Lock()
	defer lock.Unlock()

	innings := new(models.Innings)
	err := s.db.NewSelect().Model(innings).Where("i.id = ?", d.InningsID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: innings %d", ErrNotFound, d.InningsID)
	}
	if err != nil {
		return err
	}
	if innings.MatchID != d.MatchID {
		return fmt.Errorf("%w: delivery match %d does not match innings match %d",
			ErrValidation, d.MatchID, innings.MatchID)
	}

	// Legal-ball rank is order dependent: count what is already recorded for
	// this over before the new row goes in.
	d.LegalBallNumber = nil
	if scoring.IsLegalBall(d.ExtraType) {
		prior, err := s.db.NewSelect().Model((*models.Delivery)(nil)).
			Where("d.innings_id = ?", d.InningsID).
			Where("d.over_number = ?", d.OverNumber).
			Where("d.extra_type IN (?)", bun.In(legalExtraTypes)).
			Count(ctx)
		if err != nil {
			return err
		}
		n := prior + 1
		d.LegalBallNumber = &n
	}

	d.IsDot = scoring.IsDot(d.RunsScored, d.ExtraType)
	d.IsScoringShot = scoring.IsScoringShot(d.RunsOffBat)

	format := ""
	match := new(models.Match)
	err = s.db.NewSelect().Model(match).Column("m.match_format").
		Where("m.id = ?", d.MatchID).Scan(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err == nil {
		format = match.MatchFormat
	}
	d.Phase = scoring.PhaseFor(format, d.OverNumber)
	d.Powerplay = d.Phase == models.PhasePowerplay

	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(d).Exec(ctx); err != nil {
		return err
	}

	return s.recomputeTotalsLocked(ctx, d.InningsID)
}

// DeliveryPatch is the sparse allow-list of fields mutable after creation.
// Identity and position fields stay fixed; the totals recompute keeps the
// innings consistent whatever scoring fields change.
type DeliveryPatch struct {
	BowlingType  *string  `json:"bowlingType"`
	DeliveryType *string  `json:"deliveryType"`
	Line         *string  `json:"line"`
	Length       *string  `json:"length"`
	PitchX       *float64 `json:"pitchX"`
	PitchY       *float64 `json:"pitchY"`
	Movement     *string  `json:"movement"`
	Pace         *float64 `json:"pace"`

	ShotType          *string  `json:"shotType"`
	ShotConnection    *string  `json:"shotConnection"`
	WagonX            *float64 `json:"wagonX"`
	WagonY            *float64 `json:"wagonY"`
	WagonZone         *int     `json:"wagonZone"`
	ControlPercentage *float64 `json:"controlPercentage"`

	RunsScored *int    `json:"runsScored"`
	RunsOffBat *int    `json:"runsOffBat"`
	Extras     *int    `json:"extras"`
	ExtraType  *string `json:"extraType"`

	IsBoundary    *bool `json:"isBoundary"`
	IsSix         *bool `json:"isSix"`
	IsDot         *bool `json:"isDot"`
	IsScoringShot *bool `json:"isScoringShot"`

	IsWicket           *bool   `json:"isWicket"`
	WicketType         *string `json:"wicketType"`
	FielderID          *int    `json:"fielderID"`
	DismissedBatsmanID *int    `json:"dismissedBatsmanID"`
	Appeal             *bool   `json:"appeal"`
	DRSReview          *bool   `json:"drsReview"`
	DRSOutcome         *string `json:"drsOutcome"`

	IsFalseShot   *bool `json:"isFalseShot"`
	IsBeaten      *bool `json:"isBeaten"`
	IsPlayAndMiss *bool `json:"isPlayAndMiss"`

	VideoTimestampStart *float64 `json:"videoTimestampStart"`
	VideoTimestampEnd   *float64 `json:"videoTimestampEnd"`
	VideoBookmark       *string  `json:"videoBookmark"`

	Tags      *[]string `json:"tags"`
	Notes     *string   `json:"notes"`
	Highlight *bool     `json:"highlight"`
}

func (p *DeliveryPatch) apply(q *bun.UpdateQuery) *bun.UpdateQuery {
	set := func(col string, v interface{}) {
		q = q.Set(col+" = ?", v)
	}

	if p.BowlingType != nil {
		set("bowling_type", *p.BowlingType)
	}
	if p.DeliveryType != nil {
		set("delivery_type", *p.DeliveryType)
	}
	if p.Line != nil {
		set("line", *p.Line)
	}
	if p.Length != nil {
		set("length", *p.Length)
	}
	if p.PitchX != nil {
		set("pitch_x", *p.PitchX)
	}
	if p.PitchY != nil {
		set("pitch_y", *p.PitchY)
	}
	if p.Movement != nil {
		set("movement", *p.Movement)
	}
	if p.Pace != nil {
		set("pace", *p.Pace)
	}
	if p.ShotType != nil {
		set("shot_type", *p.ShotType)
	}
	if p.ShotConnection != nil {
		set("shot_connection", *p.ShotConnection)
	}
	if p.WagonX != nil {
		set("wagon_x", *p.WagonX)
	}
	if p.WagonY != nil {
		set("wagon_y", *p.WagonY)
	}
	if p.WagonZone != nil {
		set("wagon_zone", *p.WagonZone)
	}
	if p.ControlPercentage != nil {
		set("control_percentage", *p.ControlPercentage)
	}
	if p.RunsScored != nil {
		set("runs_scored", *p.RunsScored)
	}
	if p.RunsOffBat != nil {
		set("runs_off_bat", *p.RunsOffBat)
	}
	if p.Extras != nil {
		set("extras", *p.Extras)
	}
	if p.ExtraType != nil {
		set("extra_type", *p.ExtraType)
	}
	if p.IsBoundary != nil {
		set("is_boundary", *p.IsBoundary)
	}
	if p.IsSix != nil {
		set("is_six", *p.IsSix)
	}
	if p.IsDot != nil {
		set("is_dot", *p.IsDot)
	}
	if p.IsScoringShot != nil {
		set("is_scoring_shot", *p.IsScoringShot)
	}
	if p.IsWicket != nil {
		set("is_wicket", *p.IsWicket)
	}
	if p.WicketType != nil {
		set("wicket_type", *p.WicketType)
	}
	if p.FielderID != nil {
		set("fielder_id", *p.FielderID)
	}
	if p.DismissedBatsmanID != nil {
		set("dismissed_batsman_id", *p.DismissedBatsmanID)
	}
	if p.Appeal != nil {
		set("appeal", *p.Appeal)
	}
	if p.DRSReview != nil {
		set("drs_review", *p.DRSReview)
	}
	if p.DRSOutcome != nil {
		set("drs_outcome", *p.DRSOutcome)
	}
	if p.IsFalseShot != nil {
		set("is_false_shot", *p.IsFalseShot)
	}
	if p.IsBeaten != nil {
		set("is_beaten", *p.IsBeaten)
	}
	if p.IsPlayAndMiss != nil {
		set("is_play_and_miss", *p.IsPlayAndMiss)
	}
	if p.VideoTimestampStart != nil {
		set("video_timestamp_start", *p.VideoTimestampStart)
	}
	if p.VideoTimestampEnd != nil {
		set("video_timestamp_end", *p.VideoTimestampEnd)
	}
	if p.VideoBookmark != nil {
		set("video_bookmark", *p.VideoBookmark)
	}
	if p.Tags != nil {
		// Stored as a JSON document, same representation bun writes for the
		// model's []string field.
		if b, err := json.Marshal(*p.Tags); err == nil {
			set("tags", string(b))
		}
	}
	if p.Notes != nil {
		set("notes", *p.Notes)
	}
	if p.Highlight != nil {
		set("highlight", *p.Highlight)
	}

	return q.Set("updated_at = CURRENT_TIMESTAMP")
}

// UpdateDelivery applies a sparse patch to one delivery and recomputes the
// innings totals under the innings lock.
func (s *Store) UpdateDelivery(ctx context.Context, id int, patch *DeliveryPatch) error {
	if patch.ExtraType != nil && !models.ValidExtraType(*patch.ExtraType) {
		return fmt.Errorf("%w: unknown extra_type %q", ErrValidation, *patch.ExtraType)
	}

	existing, err := s.GetDelivery(ctx, id)
	if err != nil {
		return err
	}

	lock := s.inningsLock(existing.InningsID)
	lock.Lock()
	defer lock.Unlock()

	q := s.db.NewUpdate().Model((*models.Delivery)(nil)).Where("id = ?", id)
	q = patch.apply(q)
	if _, err := q.Exec(ctx); err != nil {
		return err
	}

	return s.recomputeTotalsLocked(ctx, existing.InningsID)
}

// DeleteDelivery removes one delivery and recomputes the innings totals.
func (s *Store) DeleteDelivery(ctx context.Context, id int) error {
	existing, err := s.GetDelivery(ctx, id)
	if err != nil {
		return err
	}

	lock := s.inningsLock(existing.InningsID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.db.NewDelete().Model((*models.Delivery)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return err
	}

	return s.recomputeTotalsLocked(ctx, existing.InningsID)
}

// GetDelivery fetches one delivery by id.
func (s *Store) GetDelivery(ctx context.Context, id int) (*models.Delivery, error) {
	d := new(models.Delivery)
	err := s.db.NewSelect().Model(d).Where("d.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: delivery %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// DeliveriesByInnings lists an innings' deliveries in scorebook order.
func (s *Store) DeliveriesByInnings(ctx context.Context, inningsID int) ([]models.Delivery, error) {
	var ds []models.Delivery
	err := s.db.NewSelect().Model(&ds).
		Where("d.innings_id = ?", inningsID).
		OrderExpr("d.over_number, d.ball_number, d.id").
		Scan(ctx)
	return ds, err
}

// DeliveriesByOver lists the deliveries of one over in scorebook order.
func (s *Store) DeliveriesByOver(ctx context.Context, inningsID, overNumber int) ([]models.Delivery, error) {
	var ds []models.Delivery
	err := s.db.NewSelect().Model(&ds).
		Where("d.innings_id = ?", inningsID).
		Where("d.over_number = ?", overNumber).
		OrderExpr("d.ball_number, d.id").
		Scan(ctx)
	return ds, err
}

// LastDelivery returns the most recently inserted delivery of an innings,
// or nil if the innings has none.
func (s *Store) LastDelivery(ctx context.Context, inningsID int) (*models.Delivery, error) {
	d := new(models.Delivery)
	err := s.db.NewSelect().Model(d).
		Where("d.innings_id = ?", inningsID).
		OrderExpr("d.id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func validateDelivery(d *models.Delivery) error {
	switch {
	case d.InningsID <= 0:
		return fmt.Errorf("%w: innings_id is required", ErrValidation)
	case d.MatchID <= 0:
		return fmt.Errorf("%w: match_id is required", ErrValidation)
	case d.BatsmanID <= 0:
		return fmt.Errorf("%w: batsman_id is required", ErrValidation)
	case d.BowlerID <= 0:
		return fmt.Errorf("%w: bowler_id is required", ErrValidation)
	case d.OverNumber < 0:
		return fmt.Errorf("%w: over_number must be >= 0", ErrValidation)
	case d.BallNumber < 1:
		return fmt.Errorf("%w: ball_number must be >= 1", ErrValidation)
	case d.RunsScored < 0 || d.RunsOffBat < 0 || d.Extras < 0:
		return fmt.Errorf("%w: run counts must be non-negative", ErrValidation)
	}
	if d.ExtraType == "" {
		d.ExtraType = models.ExtraNone
	}
	if !models.ValidExtraType(d.ExtraType) {
		return fmt.Errorf("%w: unknown extra_type %q", ErrValidation, d.ExtraType)
	}
	return nil
}
