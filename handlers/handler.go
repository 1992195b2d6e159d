package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/media"
	"github.com/stumpvision/crickapi/store"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	db      *bun.DB
	store   *store.Store
	clipper media.Clipper
	videos  string
	JWTKey  []byte
}

// New creates a Handler around the delivery store. videoDir is where uploads
// and generated clips live.
func New(st *store.Store, clipper media.Clipper, videoDir string, jwtKey []byte) *Handler {
	return &Handler{
		db:      st.DB(),
		store:   st,
		clipper: clipper,
		videos:  videoDir,
		JWTKey:  jwtKey,
	}
}

// httpError maps store errors onto HTTP statuses: validation failures are
// 400s, missing ids are 404s, external tool failures are 502s, anything else
// is a 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, store.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDependency):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int, error) {
	var id int
	if err := echo.PathParamsBinder(c).Int(name, &id).BindError(); err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
