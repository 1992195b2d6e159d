package models

import "github.com/uptrace/bun"

// Innings is one team's batting effort in a match. The totals block is a
// denormalized projection over the innings' deliveries: it is recomputed in
// full by the totals aggregator after every delivery write and is never
// edited independently.
type Innings struct {
	bun.BaseModel `bun:"table:innings,alias:i"`

	ID            int `bun:"id,pk,autoincrement" json:"id"`
	MatchID       int `bun:"match_id,notnull" json:"matchID"`
	InningsNumber int `bun:"innings_number,notnull" json:"inningsNumber"`
	BattingTeamID int `bun:"batting_team_id,notnull" json:"battingTeamID"`
	BowlingTeamID int `bun:"bowling_team_id,notnull" json:"bowlingTeamID"`

	TotalRuns     int    `bun:"total_runs,notnull,default:0" json:"totalRuns"`
	TotalWickets  int    `bun:"total_wickets,notnull,default:0" json:"totalWickets"`
	TotalOvers    string `bun:"total_overs,notnull,default:'0.0'" json:"totalOvers"`
	ExtrasTotal   int    `bun:"extras_total,notnull,default:0" json:"extrasTotal"`
	ExtrasWides   int    `bun:"extras_wides,notnull,default:0" json:"extrasWides"`
	ExtrasNoBalls int    `bun:"extras_noballs,notnull,default:0" json:"extrasNoBalls"`
	ExtrasByes    int    `bun:"extras_byes,notnull,default:0" json:"extrasByes"`
	ExtrasLegByes int    `bun:"extras_legbyes,notnull,default:0" json:"extrasLegByes"`

	Match *Match `bun:"rel:belongs-to,join:match_id=id" json:"-"`
}
