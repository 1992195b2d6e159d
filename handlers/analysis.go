package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/scoring"
	"github.com/stumpvision/crickapi/store"
)

type pitchMapRequest struct {
	store.DeliveryFilter
	BattingStyle *string `json:"battingStyle"`
}

type pitchMapPoint struct {
	PitchX              float64  `json:"pitchX"`
	PitchY              float64  `json:"pitchY"`
	Line                *string  `json:"line,omitempty"`
	Length              *string  `json:"length,omitempty"`
	DeliveryType        *string  `json:"deliveryType,omitempty"`
	BowlingType         *string  `json:"bowlingType,omitempty"`
	Movement            *string  `json:"movement,omitempty"`
	Pace                *float64 `json:"pace,omitempty"`
	RunsScored          int      `json:"runsScored"`
	RunsOffBat          int      `json:"runsOffBat"`
	IsWicket            bool     `json:"isWicket"`
	IsBoundary          bool     `json:"isBoundary"`
	IsSix               bool     `json:"isSix"`
	IsDot               bool     `json:"isDot"`
	OverNumber          int      `json:"overNumber"`
	BallNumber          int      `json:"ballNumber"`
	BattingStyle        *string  `json:"battingStyle,omitempty"`
	VideoTimestampStart *float64 `json:"videoTimestampStart,omitempty"`
}

// PitchMap returns pitch-coordinate points for the pitch map visualization.
// Only deliveries with recorded pitch coordinates qualify.
func (h *Handler) PitchMap(c echo.Context) error {
	var req pitchMapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	ds, err := h.store.PitchMapDeliveries(ctx, &req.DeliveryFilter, req.BattingStyle)
	if err != nil {
		return httpError(err)
	}

	styles, err := h.battingStyles(c, ds)
	if err != nil {
		return httpError(err)
	}

	points := make([]pitchMapPoint, 0, len(ds))
	for _, d := range ds {
		if d.PitchX == nil || d.PitchY == nil {
			continue
		}
		points = append(points, pitchMapPoint{
			PitchX:              *d.PitchX,
			PitchY:              *d.PitchY,
			Line:                d.Line,
			Length:              d.Length,
			DeliveryType:        d.DeliveryType,
			BowlingType:         d.BowlingType,
			Movement:            d.Movement,
			Pace:                d.Pace,
			RunsScored:          d.RunsScored,
			RunsOffBat:          d.RunsOffBat,
			IsWicket:            d.IsWicket,
			IsBoundary:          d.IsBoundary,
			IsSix:               d.IsSix,
			IsDot:               d.IsDot,
			OverNumber:          d.OverNumber,
			BallNumber:          d.BallNumber,
			BattingStyle:        styles[d.BatsmanID],
			VideoTimestampStart: d.VideoTimestampStart,
		})
	}
	return c.JSON(http.StatusOK, points)
}

type wagonWheelRequest struct {
	store.DeliveryFilter
	RunsOffBatMin *int `json:"runsOffBatMin"`
}

type wagonWheelPoint struct {
	WagonX              float64  `json:"wagonX"`
	WagonY              float64  `json:"wagonY"`
	WagonZone           *int     `json:"wagonZone,omitempty"`
	RunsOffBat          int      `json:"runsOffBat"`
	RunsScored          int      `json:"runsScored"`
	IsBoundary          bool     `json:"isBoundary"`
	IsSix               bool     `json:"isSix"`
	ShotType            *string  `json:"shotType,omitempty"`
	ShotConnection      *string  `json:"shotConnection,omitempty"`
	OverNumber          int      `json:"overNumber"`
	BallNumber          int      `json:"ballNumber"`
	BatsmanName         string   `json:"batsmanName,omitempty"`
	VideoTimestampStart *float64 `json:"videoTimestampStart,omitempty"`
}

// WagonWheel returns shot-placement points for the wagon wheel. Only
// deliveries with recorded wagon coordinates qualify.
func (h *Handler) WagonWheel(c echo.Context) error {
	var req wagonWheelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	ds, err := h.store.WagonWheelDeliveries(ctx, &req.DeliveryFilter, req.RunsOffBatMin)
	if err != nil {
		return httpError(err)
	}

	rows, err := h.withNames(c, ds)
	if err != nil {
		return httpError(err)
	}

	points := make([]wagonWheelPoint, 0, len(rows))
	for _, r := range rows {
		if r.WagonX == nil || r.WagonY == nil {
			continue
		}
		points = append(points, wagonWheelPoint{
			WagonX:              *r.WagonX,
			WagonY:              *r.WagonY,
			WagonZone:           r.WagonZone,
			RunsOffBat:          r.RunsOffBat,
			RunsScored:          r.RunsScored,
			IsBoundary:          r.IsBoundary,
			IsSix:               r.IsSix,
			ShotType:            r.ShotType,
			ShotConnection:      r.ShotConnection,
			OverNumber:          r.OverNumber,
			BallNumber:          r.BallNumber,
			BatsmanName:         r.BatsmanName,
			VideoTimestampStart: r.VideoTimestampStart,
		})
	}
	return c.JSON(http.StatusOK, points)
}

// OverByOver returns the run progression: per-over sums with cumulative
// totals and the naive cumulative run rate.
func (h *Handler) OverByOver(c echo.Context) error {
	inningsID, err := pathID(c, "inningsID")
	if err != nil {
		return err
	}

	ds, err := h.store.DeliveriesByInnings(c.Request().Context(), inningsID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, scoring.OverByOver(ds))
}

type zoneStats struct {
	WagonZone  *int `json:"wagonZone"`
	Runs       int  `json:"runs"`
	Balls      int  `json:"balls"`
	Boundaries int  `json:"boundaries"`
	Sixes      int  `json:"sixes"`
	Dots       int  `json:"dots"`
}

type phaseStats struct {
	Phase      string   `json:"phase"`
	Balls      int      `json:"balls"`
	Runs       int      `json:"runs"`
	Boundaries int      `json:"boundaries"`
	Sixes      int      `json:"sixes"`
	Dots       int      `json:"dots"`
	StrikeRate *float64 `json:"strikeRate"`
}

// BatsmanAnalysis breaks one batsman's innings down by wagon zone and by
// match phase.
func (h *Handler) BatsmanAnalysis(c echo.Context) error {
	inningsID, err := pathID(c, "inningsID")
	if err != nil {
		return err
	}
	batsmanID, err := pathID(c, "batsmanID")
	if err != nil {
		return err
	}

	f := store.DeliveryFilter{InningsID: &inningsID, BatsmanID: &batsmanID}
	ds, err := h.store.FilterDeliveries(c.Request().Context(), &f)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"zones":  zoneBreakdown(ds),
		"phases": phaseBreakdown(ds),
	})
}

func zoneBreakdown(ds []models.Delivery) []zoneStats {
	byZone := map[int]*zoneStats{}
	const noZone = -1
	var order []int

	for _, d := range ds {
		key := noZone
		if d.WagonZone != nil {
			key = *d.WagonZone
		}
		z, ok := byZone[key]
		if !ok {
			z = &zoneStats{WagonZone: d.WagonZone}
			byZone[key] = z
			order = append(order, key)
		}
		z.Runs += d.RunsOffBat
		z.Balls++
		if d.IsBoundary {
			z.Boundaries++
		}
		if d.RunsOffBat == 6 {
			z.Sixes++
		}
		if d.RunsOffBat == 0 {
			z.Dots++
		}
	}

	sort.Ints(order)
	out := make([]zoneStats, 0, len(order))
	for _, k := range order {
		out = append(out, *byZone[k])
	}
	return out
}

func phaseBreakdown(ds []models.Delivery) []phaseStats {
	phases := []string{models.PhasePowerplay, models.PhaseMiddle, models.PhaseDeath}
	byPhase := map[string]*phaseStats{}

	for _, d := range ds {
		p, ok := byPhase[d.Phase]
		if !ok {
			p = &phaseStats{Phase: d.Phase}
			byPhase[d.Phase] = p
		}
		p.Balls++
		p.Runs += d.RunsOffBat
		if d.IsBoundary {
			p.Boundaries++
		}
		if d.IsSix {
			p.Sixes++
		}
		if d.IsDot {
			p.Dots++
		}
	}

	out := make([]phaseStats, 0, len(byPhase))
	for _, name := range phases {
		p, ok := byPhase[name]
		if !ok {
			continue
		}
		if p.Balls > 0 {
			sr := scoring.Round2(float64(p.Runs) * 100 / float64(p.Balls))
			p.StrikeRate = &sr
		}
		out = append(out, *p)
	}
	return out
}

// battingStyles maps batsman ids in the deliveries to their batting style.
func (h *Handler) battingStyles(c echo.Context, ds []models.Delivery) (map[int]*string, error) {
	seen := map[int]bool{}
	var ids []int
	for _, d := range ds {
		if d.BatsmanID > 0 && !seen[d.BatsmanID] {
			seen[d.BatsmanID] = true
			ids = append(ids, d.BatsmanID)
		}
	}

	styles := map[int]*string{}
	if len(ids) == 0 {
		return styles, nil
	}
	var players []models.Player
	err := h.db.NewSelect().Model(&players).Where("p.id IN (?)", bun.In(ids)).Scan(c.Request().Context())
	if err != nil {
		return nil, err
	}
	for i := range players {
		styles[players[i].ID] = players[i].BattingStyle
	}
	return styles, nil
}
