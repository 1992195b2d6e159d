package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stumpvision/crickapi/models"
	"github.com/stumpvision/crickapi/store"
)

// deliveryRow is a delivery joined with participant display names.
type deliveryRow struct {
	models.Delivery
	BatsmanName    string `json:"batsmanName,omitempty"`
	NonStrikerName string `json:"nonStrikerName,omitempty"`
	BowlerName     string `json:"bowlerName,omitempty"`
	FielderName    string `json:"fielderName,omitempty"`
	DismissedName  string `json:"dismissedName,omitempty"`
}

// withNames decorates deliveries with player names in one lookup.
func (h *Handler) withNames(c echo.Context, ds []models.Delivery) ([]deliveryRow, error) {
	ids := make([]int, 0, len(ds)*2)
	seen := map[int]bool{}
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range ds {
		add(d.BatsmanID)
		add(d.BowlerID)
		if d.NonStrikerID != nil {
			add(*d.NonStrikerID)
		}
		if d.FielderID != nil {
			add(*d.FielderID)
		}
		if d.DismissedBatsmanID != nil {
			add(*d.DismissedBatsmanID)
		}
	}

	names, err := h.store.PlayerNames(c.Request().Context(), ids)
	if err != nil {
		return nil, err
	}

	optName := func(id *int) string {
		if id == nil {
			return ""
		}
		return names[*id]
	}

	rows := make([]deliveryRow, len(ds))
	for i, d := range ds {
		rows[i] = deliveryRow{
			Delivery:       d,
			BatsmanName:    names[d.BatsmanID],
			BowlerName:     names[d.BowlerID],
			NonStrikerName: optName(d.NonStrikerID),
			FielderName:    optName(d.FielderID),
			DismissedName:  optName(d.DismissedBatsmanID),
		}
	}
	return rows, nil
}

// DeliveriesByInnings returns every delivery of an innings in scorebook order.
func (h *Handler) DeliveriesByInnings(c echo.Context) error {
	inningsID, err := pathID(c, "inningsID")
	if err != nil {
		return err
	}

	ds, err := h.store.DeliveriesByInnings(c.Request().Context(), inningsID)
	if err != nil {
		return httpError(err)
	}
	rows, err := h.withNames(c, ds)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// GetDelivery returns a single delivery.
func (h *Handler) GetDelivery(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	d, err := h.store.GetDelivery(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	rows, err := h.withNames(c, []models.Delivery{*d})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows[0])
}

// CreateDelivery records one ball. Derived fields (legal-ball number, dot and
// scoring-shot flags, phase, powerplay) are computed server-side; the innings
// totals are refreshed before the response goes out.
func (h *Handler) CreateDelivery(c echo.Context) error {
	var d models.Delivery
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = 0

	if err := h.store.CreateDelivery(c.Request().Context(), &d); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"id":      d.ID,
		"message": "delivery recorded",
	})
}

// UpdateDelivery patches the allow-listed fields of one delivery and
// refreshes the innings totals.
func (h *Handler) UpdateDelivery(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var patch store.DeliveryPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.UpdateDelivery(c.Request().Context(), id, &patch); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "delivery updated"})
}

// DeleteDelivery removes one delivery and refreshes the innings totals.
func (h *Handler) DeleteDelivery(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.store.DeleteDelivery(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "delivery deleted"})
}

// LastDelivery returns the most recently recorded delivery of an innings, or
// null if none exist yet.
func (h *Handler) LastDelivery(c echo.Context) error {
	inningsID, err := pathID(c, "inningsID")
	if err != nil {
		return err
	}

	d, err := h.store.LastDelivery(c.Request().Context(), inningsID)
	if err != nil {
		return httpError(err)
	}
	if d == nil {
		return c.JSON(http.StatusOK, nil)
	}
	rows, err := h.withNames(c, []models.Delivery{*d})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows[0])
}

// DeliveriesByOver returns one over's deliveries.
func (h *Handler) DeliveriesByOver(c echo.Context) error {
	inningsID, err := pathID(c, "inningsID")
	if err != nil {
		return err
	}
	var overNumber int
	if err := echo.PathParamsBinder(c).Int("overNumber", &overNumber).BindError(); err != nil || overNumber < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid overNumber")
	}

	ds, err := h.store.DeliveriesByOver(c.Request().Context(), inningsID, overNumber)
	if err != nil {
		return httpError(err)
	}
	rows, err := h.withNames(c, ds)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// FilterDeliveries runs an ad-hoc conjunctive filter over deliveries.
// Absent keys impose no constraint.
func (h *Handler) FilterDeliveries(c echo.Context) error {
	var f store.DeliveryFilter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ds, err := h.store.FilterDeliveries(c.Request().Context(), &f)
	if err != nil {
		return httpError(err)
	}
	rows, err := h.withNames(c, ds)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
