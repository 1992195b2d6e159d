package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
)

type createMatchRequest struct {
	MatchTitle   *string `json:"matchTitle"`
	MatchFormat  string  `json:"matchFormat"`
	TeamHomeID   *int    `json:"teamHomeID"`
	TeamAwayID   *int    `json:"teamAwayID"`
	Venue        *string `json:"venue"`
	MatchDate    *string `json:"matchDate"`
	TossWinnerID *int    `json:"tossWinnerID"`
	TossDecision *string `json:"tossDecision"`
	VideoPath    *string `json:"videoPath"`
	Notes        *string `json:"notes"`
}

// Matches lists all matches, newest first.
func (h *Handler) Matches(c echo.Context) error {
	var matches []models.Match
	err := h.db.NewSelect().Model(&matches).
		OrderExpr("m.created_at DESC").
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, matches)
}

// GetMatch returns one match with its innings.
func (h *Handler) GetMatch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	match := new(models.Match)
	err = h.db.NewSelect().Model(match).
		Relation("Innings", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("innings_number")
		}).
		Where("m.id = ?", id).
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, match)
}

// CreateMatch inserts a match and pre-creates both innings, with the batting
// order resolved from the toss: the toss winner bats first when it elects to
// bat, otherwise it bowls first.
func (h *Handler) CreateMatch(c echo.Context) error {
	var req createMatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MatchFormat == "" {
		req.MatchFormat = models.FormatT20
	}
	switch req.MatchFormat {
	case models.FormatT20, models.FormatODI, models.FormatOther:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "matchFormat must be T20, ODI or Other")
	}

	now := time.Now()
	match := &models.Match{
		MatchTitle:   req.MatchTitle,
		MatchFormat:  req.MatchFormat,
		TeamHomeID:   req.TeamHomeID,
		TeamAwayID:   req.TeamAwayID,
		Venue:        req.Venue,
		MatchDate:    req.MatchDate,
		TossWinnerID: req.TossWinnerID,
		TossDecision: req.TossDecision,
		VideoPath:    req.VideoPath,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.NewInsert().Model(match).Exec(ctx); err != nil {
		return httpError(err)
	}

	if req.TeamHomeID != nil && req.TeamAwayID != nil {
		battingFirst, bowlingFirst := *req.TeamHomeID, *req.TeamAwayID

		if req.TossWinnerID != nil && req.TossDecision != nil {
			other := *req.TeamAwayID
			if *req.TossWinnerID == *req.TeamAwayID {
				other = *req.TeamHomeID
			}
			if *req.TossDecision == models.TossBat {
				battingFirst, bowlingFirst = *req.TossWinnerID, other
			} else {
				battingFirst, bowlingFirst = other, *req.TossWinnerID
			}
		}

		innings := []*models.Innings{
			{MatchID: match.ID, InningsNumber: 1, BattingTeamID: battingFirst, BowlingTeamID: bowlingFirst, TotalOvers: "0.0"},
			{MatchID: match.ID, InningsNumber: 2, BattingTeamID: bowlingFirst, BowlingTeamID: battingFirst, TotalOvers: "0.0"},
		}
		if _, err := tx.NewInsert().Model(&innings).Exec(ctx); err != nil {
			return httpError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return httpError(err)
	}
	committed = true

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":      match.ID,
		"message": "match created",
	})
}

type updateMatchRequest struct {
	MatchTitle  *string `json:"matchTitle"`
	MatchFormat *string `json:"matchFormat"`
	Venue       *string `json:"venue"`
	MatchDate   *string `json:"matchDate"`
	Status      *string `json:"status"`
	MatchResult *string `json:"matchResult"`
	WinnerID    *int    `json:"winnerID"`
	Notes       *string `json:"notes"`
}

// UpdateMatch patches match metadata.
func (h *Handler) UpdateMatch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateMatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	q := h.db.NewUpdate().Model((*models.Match)(nil)).Where("id = ?", id)
	if req.MatchTitle != nil {
		q = q.Set("match_title = ?", *req.MatchTitle)
	}
	if req.MatchFormat != nil {
		switch *req.MatchFormat {
		case models.FormatT20, models.FormatODI, models.FormatOther:
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "matchFormat must be T20, ODI or Other")
		}
		q = q.Set("match_format = ?", *req.MatchFormat)
	}
	if req.Venue != nil {
		q = q.Set("venue = ?", *req.Venue)
	}
	if req.MatchDate != nil {
		q = q.Set("match_date = ?", *req.MatchDate)
	}
	if req.Status != nil {
		q = q.Set("status = ?", *req.Status)
	}
	if req.MatchResult != nil {
		q = q.Set("match_result = ?", *req.MatchResult)
	}
	if req.WinnerID != nil {
		q = q.Set("winner_id = ?", *req.WinnerID)
	}
	if req.Notes != nil {
		q = q.Set("notes = ?", *req.Notes)
	}
	q = q.Set("updated_at = CURRENT_TIMESTAMP")

	res, err := q.Exec(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "match not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "match updated"})
}

// DeleteMatch removes a match and everything hanging off it.
func (h *Handler) DeleteMatch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return httpError(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, model := range []interface{}{
		(*models.Delivery)(nil),
		(*models.Innings)(nil),
		(*models.VideoClip)(nil),
	} {
		if _, err := tx.NewDelete().Model(model).Where("match_id = ?", id).Exec(ctx); err != nil {
			return httpError(err)
		}
	}
	if _, err := tx.NewDelete().Model((*models.Match)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return httpError(err)
	}

	if err := tx.Commit(); err != nil {
		return httpError(err)
	}
	committed = true

	return c.JSON(http.StatusOK, map[string]string{"message": "match deleted"})
}
