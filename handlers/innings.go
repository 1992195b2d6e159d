package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
)

// inningsRow is an innings joined with team display names.
type inningsRow struct {
	models.Innings
	BattingTeamName string `json:"battingTeamName,omitempty"`
	BowlingTeamName string `json:"bowlingTeamName,omitempty"`
}

func (h *Handler) teamNames(c echo.Context, innings []models.Innings) (map[int]string, error) {
	seen := map[int]bool{}
	var ids []int
	for _, in := range innings {
		for _, id := range []int{in.BattingTeamID, in.BowlingTeamID} {
			if id > 0 && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	names := map[int]string{}
	if len(ids) == 0 {
		return names, nil
	}
	var teams []models.Team
	err := h.db.NewSelect().Model(&teams).Where("t.id IN (?)", bun.In(ids)).Scan(c.Request().Context())
	if err != nil {
		return nil, err
	}
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	return names, nil
}

// InningsForMatch lists a match's innings in batting order.
func (h *Handler) InningsForMatch(c echo.Context) error {
	matchID, err := pathID(c, "matchID")
	if err != nil {
		return err
	}

	var innings []models.Innings
	err = h.db.NewSelect().Model(&innings).
		Where("i.match_id = ?", matchID).
		OrderExpr("i.innings_number").
		Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	names, err := h.teamNames(c, innings)
	if err != nil {
		return httpError(err)
	}
	rows := make([]inningsRow, len(innings))
	for i, in := range innings {
		rows[i] = inningsRow{
			Innings:         in,
			BattingTeamName: names[in.BattingTeamID],
			BowlingTeamName: names[in.BowlingTeamID],
		}
	}
	return c.JSON(http.StatusOK, rows)
}

// GetInnings returns one innings with its current totals block.
func (h *Handler) GetInnings(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	innings := new(models.Innings)
	err = h.db.NewSelect().Model(innings).Where("i.id = ?", id).Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	names, err := h.teamNames(c, []models.Innings{*innings})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, inningsRow{
		Innings:         *innings,
		BattingTeamName: names[innings.BattingTeamID],
		BowlingTeamName: names[innings.BowlingTeamID],
	})
}

// Scorecard returns the batting lines, bowling lines and fall of wickets for
// an innings, each derived fresh from the delivery rows.
func (h *Handler) Scorecard(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	card, err := h.store.BuildScorecard(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, card)
}

// UpdateTotals forces a totals recompute for an innings and returns the
// refreshed block. Delivery writes already do this; the endpoint exists for
// manual reconciliation.
func (h *Handler) UpdateTotals(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	innings, err := h.store.RecomputeTotals(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "totals updated",
		"innings": innings,
	})
}
