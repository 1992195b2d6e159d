package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/stumpvision/crickapi/config"
	"github.com/stumpvision/crickapi/db"
	"github.com/stumpvision/crickapi/handlers"
	applog "github.com/stumpvision/crickapi/logger"
	"github.com/stumpvision/crickapi/media"
	mw "github.com/stumpvision/crickapi/middleware"
	"github.com/stumpvision/crickapi/store"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.VideoDir, 0o755); err != nil {
		logger.Fatal("create video dir failed", zap.Error(err))
	}

	st := store.New(bdb)
	clipper := media.New(cfg.FFmpegPath, cfg.FFprobePath)
	h := handlers.New(st, clipper, cfg.VideoDir, cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.POST("/password-hash", h.PasswordHash)

	api.GET("/deliveries/innings/:inningsID", h.DeliveriesByInnings)
	api.GET("/deliveries/last/:inningsID", h.LastDelivery)
	api.GET("/deliveries/over/:inningsID/:overNumber", h.DeliveriesByOver)
	api.POST("/deliveries/filter", h.FilterDeliveries)
	api.POST("/deliveries", h.CreateDelivery)
	api.GET("/deliveries/:id", h.GetDelivery)
	api.PUT("/deliveries/:id", h.UpdateDelivery)
	api.DELETE("/deliveries/:id", h.DeleteDelivery)
	api.POST("/deliveries/:id/tags", h.TagDelivery)

	api.GET("/innings/match/:matchID", h.InningsForMatch)
	api.GET("/innings/:id", h.GetInnings)
	api.GET("/innings/:id/scorecard", h.Scorecard)
	api.POST("/innings/:id/update-totals", h.UpdateTotals)

	api.GET("/matches", h.Matches)
	api.POST("/matches", h.CreateMatch)
	api.GET("/matches/:id", h.GetMatch)
	api.PUT("/matches/:id", h.UpdateMatch)
	api.DELETE("/matches/:id", h.DeleteMatch)

	api.GET("/teams", h.Teams)
	api.POST("/teams", h.CreateTeam)

	api.GET("/players", h.Players)
	api.POST("/players", h.CreatePlayer)
	api.GET("/players/:id", h.GetPlayer)
	api.PUT("/players/:id", h.UpdatePlayer)
	api.GET("/players/:id/stats", h.PlayerStats)

	api.POST("/analysis/pitch-map", h.PitchMap)
	api.POST("/analysis/wagon-wheel", h.WagonWheel)
	api.GET("/analysis/over-by-over/:inningsID", h.OverByOver)
	api.GET("/analysis/batsman/:inningsID/:batsmanID", h.BatsmanAnalysis)

	api.POST("/video/upload/:matchID", h.UploadVideo)
	api.GET("/video/stream/:file", h.StreamVideo)
	api.POST("/clips", h.CreateClip)
	api.GET("/clips/match/:matchID", h.Clips)
	api.DELETE("/clips/:id", h.DeleteClip)
	api.PUT("/clips/:id/playlist", h.AssignClip)
	api.POST("/clips/auto/:matchID", h.AutoClips)
	api.GET("/playlists", h.Playlists)
	api.POST("/playlists", h.CreatePlaylist)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
