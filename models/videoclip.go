package models

import (
	"time"

	"github.com/uptrace/bun"
)

// VideoClip is metadata for a clip cut out of a match's source video.
// The file itself is produced by the external media tool.
type VideoClip struct {
	bun.BaseModel `bun:"table:video_clips,alias:vc"`

	ID          int      `bun:"id,pk,autoincrement" json:"id"`
	MatchID     int      `bun:"match_id,notnull" json:"matchID"`
	Title       string   `bun:"title,notnull" json:"title"`
	StartTime   float64  `bun:"start_time,notnull" json:"startTime"`
	EndTime     float64  `bun:"end_time,notnull" json:"endTime"`
	ClipType    string   `bun:"clip_type,notnull,default:'Custom'" json:"clipType"`
	FilePath    *string  `bun:"file_path" json:"filePath,omitempty"`
	Tags        []string `bun:"tags,nullzero" json:"tags,omitempty"`
	Description *string  `bun:"description" json:"description,omitempty"`
	PlaylistID  *int     `bun:"playlist_id" json:"playlistID,omitempty"`
	SortOrder   int      `bun:"sort_order,notnull,default:0" json:"sortOrder"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// Playlist groups clips for review sessions.
type Playlist struct {
	bun.BaseModel `bun:"table:playlists,alias:pl"`

	ID          int     `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,notnull" json:"name"`
	Description *string `bun:"description" json:"description,omitempty"`
	MatchID     *int    `bun:"match_id" json:"matchID,omitempty"`
	CreatedBy   *string `bun:"created_by" json:"createdBy,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
