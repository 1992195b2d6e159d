package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/scoring"
	"github.com/stumpvision/crickapi/store"
)

// Players lists players, optionally restricted to one team.
func (h *Handler) Players(c echo.Context) error {
	var players []models.Player
	q := h.db.NewSelect().Model(&players)

	if teamID := c.QueryParam("teamID"); teamID != "" {
		q = q.Where("p.team_id = ?", teamID).OrderExpr("p.first_name")
	} else {
		q = q.OrderExpr("p.team_id, p.first_name")
	}

	if err := q.Scan(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, players)
}

// GetPlayer returns one player.
func (h *Handler) GetPlayer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	player := new(models.Player)
	err = h.db.NewSelect().Model(player).Where("p.id = ?", id).Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, player)
}

type playerRequest struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	TeamID       *int    `json:"teamID"`
	BattingStyle *string `json:"battingStyle"`
	BowlingStyle *string `json:"bowlingStyle"`
	PlayerRole   *string `json:"playerRole"`
	JerseyNumber *int    `json:"jerseyNumber"`
}

// CreatePlayer inserts a new player.
func (h *Handler) CreatePlayer(c echo.Context) error {
	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "firstName and lastName are required")
	}

	player := &models.Player{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		TeamID:       req.TeamID,
		BattingStyle: req.BattingStyle,
		BowlingStyle: req.BowlingStyle,
		PlayerRole:   req.PlayerRole,
		JerseyNumber: req.JerseyNumber,
	}
	if _, err := h.db.NewInsert().Model(player).Exec(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, player)
}

// UpdatePlayer replaces a player's editable fields.
func (h *Handler) UpdatePlayer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req playerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "firstName and lastName are required")
	}

	res, err := h.db.NewUpdate().Model((*models.Player)(nil)).
		Set("first_name = ?", strings.TrimSpace(req.FirstName)).
		Set("last_name = ?", strings.TrimSpace(req.LastName)).
		Set("team_id = ?", req.TeamID).
		Set("batting_style = ?", req.BattingStyle).
		Set("bowling_style = ?", req.BowlingStyle).
		Set("player_role = ?", req.PlayerRole).
		Set("jersey_number = ?", req.JerseyNumber).
		Where("id = ?", id).
		Exec(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "player not found")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "player updated"})
}

type playerBattingStats struct {
	Balls      int      `json:"balls"`
	Runs       int      `json:"runs"`
	Fours      int      `json:"fours"`
	Sixes      int      `json:"sixes"`
	Dots       int      `json:"dots"`
	Singles    int      `json:"singles"`
	Twos       int      `json:"twos"`
	Threes     int      `json:"threes"`
	StrikeRate *float64 `json:"strikeRate"`
	FalseShots int      `json:"falseShots"`
	Beaten     int      `json:"beaten"`
	AvgControl *float64 `json:"avgControl"`
}

type playerBowlingStats struct {
	LegalBalls    int     `json:"legalBalls"`
	Overs         string  `json:"overs"`
	RunsConceded  int     `json:"runsConceded"`
	Wickets       int     `json:"wickets"`
	Dots          int     `json:"dots"`
	FoursConceded int     `json:"foursConceded"`
	SixesConceded int     `json:"sixesConceded"`
	Wides         int     `json:"wides"`
	NoBalls       int     `json:"noBalls"`
	Economy       float64 `json:"economy"`
}

// PlayerStats aggregates a player's batting and bowling numbers, optionally
// scoped to one innings or one match.
func (h *Handler) PlayerStats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	scope := store.DeliveryFilter{}
	if v := c.QueryParam("inningsID"); v != "" {
		var n int
		if err := echo.QueryParamsBinder(c).Int("inningsID", &n).BindError(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid inningsID")
		}
		scope.InningsID = &n
	} else if v := c.QueryParam("matchID"); v != "" {
		var n int
		if err := echo.QueryParamsBinder(c).Int("matchID", &n).BindError(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid matchID")
		}
		scope.MatchID = &n
	}

	ctx := c.Request().Context()

	asBatsman := scope
	asBatsman.BatsmanID = &id
	faced, err := h.store.FilterDeliveries(ctx, &asBatsman)
	if err != nil {
		return httpError(err)
	}

	asBowler := scope
	asBowler.BowlerID = &id
	bowled, err := h.store.FilterDeliveries(ctx, &asBowler)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"batting": battingStats(faced),
		"bowling": bowlingStats(bowled),
	})
}

func battingStats(ds []models.Delivery) playerBattingStats {
	var st playerBattingStats
	ballsFaced := 0
	controlSum, controlN := 0.0, 0

	for _, d := range ds {
		st.Balls++
		st.Runs += d.RunsOffBat
		if scoring.FacedByBatsman(d.ExtraType) {
			ballsFaced++
		}
		if d.IsBoundary {
			st.Fours++
		}
		if d.IsSix {
			st.Sixes++
		}
		if d.IsDot {
			st.Dots++
		}
		switch d.RunsOffBat {
		case 1:
			st.Singles++
		case 2:
			st.Twos++
		case 3:
			st.Threes++
		}
		if d.IsFalseShot {
			st.FalseShots++
		}
		if d.IsBeaten {
			st.Beaten++
		}
		if d.ControlPercentage != nil {
			controlSum += *d.ControlPercentage
			controlN++
		}
	}

	if ballsFaced > 0 {
		sr := scoring.Round2(float64(st.Runs) * 100 / float64(ballsFaced))
		st.StrikeRate = &sr
	}
	if controlN > 0 {
		avg := scoring.Round2(controlSum / float64(controlN))
		st.AvgControl = &avg
	}
	return st
}

func bowlingStats(ds []models.Delivery) playerBowlingStats {
	var st playerBowlingStats
	for _, d := range ds {
		if scoring.IsLegalBall(d.ExtraType) {
			st.LegalBalls++
		}
		st.RunsConceded += d.RunsScored
		if d.IsWicket && d.WicketType != nil && *d.WicketType != models.WicketRunOut {
			st.Wickets++
		}
		if d.IsDot {
			st.Dots++
		}
		if d.IsBoundary {
			st.FoursConceded++
		}
		if d.IsSix {
			st.SixesConceded++
		}
		switch d.ExtraType {
		case models.ExtraWide:
			st.Wides++
		case models.ExtraNoBall:
			st.NoBalls++
		}
	}
	st.Overs = scoring.OversString(st.LegalBalls)
	if st.LegalBalls > 0 {
		st.Economy = scoring.Round2(float64(st.RunsConceded) * 6 / float64(st.LegalBalls))
	}
	return st
}
