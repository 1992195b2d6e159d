package models

import "github.com/uptrace/bun"

// Player belongs to at most one team at a time.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID           int     `bun:"id,pk,autoincrement" json:"id"`
	FirstName    string  `bun:"first_name,notnull" json:"firstName"`
	LastName     string  `bun:"last_name,notnull" json:"lastName"`
	TeamID       *int    `bun:"team_id" json:"teamID,omitempty"`
	BattingStyle *string `bun:"batting_style" json:"battingStyle,omitempty"`
	BowlingStyle *string `bun:"bowling_style" json:"bowlingStyle,omitempty"`
	PlayerRole   *string `bun:"player_role" json:"playerRole,omitempty"`
	JerseyNumber *int    `bun:"jersey_number" json:"jerseyNumber,omitempty"`

	Team *Team `bun:"rel:belongs-to,join:team_id=id" json:"-"`
}

// FullName joins first and last name the way scorecards display batsmen.
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}
