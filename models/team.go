package models

import "github.com/uptrace/bun"

// Team is a reference entity for match and innings sides.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        int     `bun:"id,pk,autoincrement" json:"id"`
	Name      string  `bun:"name,notnull,unique" json:"name"`
	ShortName *string `bun:"short_name" json:"shortName,omitempty"`
}
