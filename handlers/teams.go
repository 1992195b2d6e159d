package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stumpvision/crickapi/models"
)

type createTeamRequest struct {
	Name      string  `json:"name"`
	ShortName *string `json:"shortName"`
}

// Teams lists all teams alphabetically.
func (h *Handler) Teams(c echo.Context) error {
	var teams []models.Team
	err := h.db.NewSelect().Model(&teams).OrderExpr("t.name").Scan(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, teams)
}

// CreateTeam inserts a new team.
func (h *Handler) CreateTeam(c echo.Context) error {
	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	team := &models.Team{Name: req.Name, ShortName: req.ShortName}
	if _, err := h.db.NewInsert().Model(team).Exec(c.Request().Context()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return echo.NewHTTPError(http.StatusConflict, "team already exists")
		}
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, team)
}
