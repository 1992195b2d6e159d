package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Match formats. The format decides phase boundaries for deliveries.
const (
	FormatT20   = "T20"
	FormatODI   = "ODI"
	FormatOther = "Other"
)

// Toss decisions.
const (
	TossBat   = "Bat"
	TossField = "Field"
)

// Match is a fixture between two teams. A standard limited-overs match owns
// two innings, pre-created when the match is created.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID            int      `bun:"id,pk,autoincrement" json:"id"`
	MatchTitle    *string  `bun:"match_title" json:"matchTitle,omitempty"`
	MatchFormat   string   `bun:"match_format,notnull,default:'T20'" json:"matchFormat"`
	TeamHomeID    *int     `bun:"team_home_id" json:"teamHomeID,omitempty"`
	TeamAwayID    *int     `bun:"team_away_id" json:"teamAwayID,omitempty"`
	Venue         *string  `bun:"venue" json:"venue,omitempty"`
	MatchDate     *string  `bun:"match_date,type:date" json:"matchDate,omitempty"`
	Status        *string  `bun:"status" json:"status,omitempty"`
	MatchResult   *string  `bun:"match_result" json:"matchResult,omitempty"`
	WinnerID      *int     `bun:"winner_id" json:"winnerID,omitempty"`
	TossWinnerID  *int     `bun:"toss_winner_id" json:"tossWinnerID,omitempty"`
	TossDecision  *string  `bun:"toss_decision" json:"tossDecision,omitempty"`
	VideoPath     *string  `bun:"video_path" json:"videoPath,omitempty"`
	VideoDuration *float64 `bun:"video_duration" json:"videoDuration,omitempty"`
	Notes         *string  `bun:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Innings []*Innings `bun:"rel:has-many,join:id=match_id" json:"innings,omitempty"`
}
