package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Extra types. ExtraNone marks a delivery with no extras at all.
const (
	ExtraNone   = "None"
	ExtraWide   = "Wide"
	ExtraNoBall = "No Ball"
	ExtraBye    = "Bye"
	ExtraLegBye = "Leg Bye"
)

// Match phases derived from over number and match format.
const (
	PhasePowerplay = "Powerplay"
	PhaseMiddle    = "Middle"
	PhaseDeath     = "Death"
)

// WicketRunOut is the only dismissal type not credited to the bowler.
const WicketRunOut = "Run Out"

// Delivery is one ball bowled, legal or not. It is the source of truth for
// every derived statistic in the system: innings totals, scorecards, fall of
// wickets and the visualization projections are all recomputed from delivery
// rows on demand.
type Delivery struct {
	bun.BaseModel `bun:"table:deliveries,alias:d"`

	ID        int `bun:"id,pk,autoincrement" json:"id"`
	InningsID int `bun:"innings_id,notnull" json:"inningsID"`
	MatchID   int `bun:"match_id,notnull" json:"matchID"`

	// OverNumber is 0-based; BallNumber is 1-based as recorded by the scorer,
	// not adjusted for extras. LegalBallNumber is the 1-based rank among
	// legal deliveries of the over and is nil for Wides and No Balls.
	OverNumber      int  `bun:"over_number,notnull" json:"overNumber"`
	BallNumber      int  `bun:"ball_number,notnull" json:"ballNumber"`
	LegalBallNumber *int `bun:"legal_ball_number" json:"legalBallNumber,omitempty"`

	BatsmanID          int  `bun:"batsman_id,notnull" json:"batsmanID"`
	NonStrikerID       *int `bun:"non_striker_id" json:"nonStrikerID,omitempty"`
	BowlerID           int  `bun:"bowler_id,notnull" json:"bowlerID"`
	FielderID          *int `bun:"fielder_id" json:"fielderID,omitempty"`
	DismissedBatsmanID *int `bun:"dismissed_batsman_id" json:"dismissedBatsmanID,omitempty"`

	// Ball-tracking fields used only by the visualization endpoints.
	BowlingType  *string  `bun:"bowling_type" json:"bowlingType,omitempty"`
	DeliveryType *string  `bun:"delivery_type" json:"deliveryType,omitempty"`
	Line         *string  `bun:"line" json:"line,omitempty"`
	Length       *string  `bun:"length" json:"length,omitempty"`
	PitchX       *float64 `bun:"pitch_x" json:"pitchX,omitempty"`
	PitchY       *float64 `bun:"pitch_y" json:"pitchY,omitempty"`
	Movement     *string  `bun:"movement" json:"movement,omitempty"`
	Pace         *float64 `bun:"pace" json:"pace,omitempty"`

	ShotType          *string  `bun:"shot_type" json:"shotType,omitempty"`
	ShotConnection    *string  `bun:"shot_connection" json:"shotConnection,omitempty"`
	WagonX            *float64 `bun:"wagon_x" json:"wagonX,omitempty"`
	WagonY            *float64 `bun:"wagon_y" json:"wagonY,omitempty"`
	WagonZone         *int     `bun:"wagon_zone" json:"wagonZone,omitempty"`
	ControlPercentage *float64 `bun:"control_percentage" json:"controlPercentage,omitempty"`

	RunsScored int    `bun:"runs_scored,notnull,default:0" json:"runsScored"`
	RunsOffBat int    `bun:"runs_off_bat,notnull,default:0" json:"runsOffBat"`
	Extras     int    `bun:"extras,notnull,default:0" json:"extras"`
	ExtraType  string `bun:"extra_type,notnull,default:'None'" json:"extraType"`

	IsBoundary    bool `bun:"is_boundary,notnull,default:false" json:"isBoundary"`
	IsSix         bool `bun:"is_six,notnull,default:false" json:"isSix"`
	IsDot         bool `bun:"is_dot,notnull,default:false" json:"isDot"`
	IsScoringShot bool `bun:"is_scoring_shot,notnull,default:false" json:"isScoringShot"`

	IsWicket   bool    `bun:"is_wicket,notnull,default:false" json:"isWicket"`
	WicketType *string `bun:"wicket_type" json:"wicketType,omitempty"`
	Appeal     bool    `bun:"appeal,notnull,default:false" json:"appeal"`
	DRSReview  bool    `bun:"drs_review,notnull,default:false" json:"drsReview"`
	DRSOutcome *string `bun:"drs_outcome" json:"drsOutcome,omitempty"`

	IsFalseShot   bool `bun:"is_false_shot,notnull,default:false" json:"isFalseShot"`
	IsBeaten      bool `bun:"is_beaten,notnull,default:false" json:"isBeaten"`
	IsPlayAndMiss bool `bun:"is_play_and_miss,notnull,default:false" json:"isPlayAndMiss"`

	VideoTimestampStart *float64 `bun:"video_timestamp_start" json:"videoTimestampStart,omitempty"`
	VideoTimestampEnd   *float64 `bun:"video_timestamp_end" json:"videoTimestampEnd,omitempty"`
	VideoBookmark       *string  `bun:"video_bookmark" json:"videoBookmark,omitempty"`

	Tags      []string `bun:"tags,nullzero" json:"tags,omitempty"`
	Notes     *string  `bun:"notes" json:"notes,omitempty"`
	Highlight bool     `bun:"highlight,notnull,default:false" json:"highlight"`
	Powerplay bool     `bun:"powerplay,notnull,default:false" json:"powerplay"`
	Phase     string   `bun:"phase,notnull,default:'Middle'" json:"phase"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// ValidExtraType reports whether s is one of the recognized extra types.
func ValidExtraType(s string) bool {
	switch s {
	case ExtraNone, ExtraWide, ExtraNoBall, ExtraBye, ExtraLegBye:
		return true
	}
	return false
}
