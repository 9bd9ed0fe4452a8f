// Command server runs the roster windowing backend: it generates the
// synthetic roster, starts the cooperative run loop and window controller,
// and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-roster-backend/internal/config"
	"github.com/tbourn/go-roster-backend/internal/dataset"
	"github.com/tbourn/go-roster-backend/internal/engine"
	httpapi "github.com/tbourn/go-roster-backend/internal/http"
	"github.com/tbourn/go-roster-backend/internal/observability"
	"github.com/tbourn/go-roster-backend/internal/sysutil"
	"github.com/tbourn/go-roster-backend/internal/window"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Local development convenience; missing .env is not an error.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Run loop and windowing pipeline.
	lp := engine.NewLoop()
	lp.Start()
	defer lp.Stop()

	ds := dataset.New(cfg.Roster.TotalRecords, cfg.Roster.Seed)
	ctrl := window.NewController(lp, ds, window.Config{
		PageSize:      cfg.Roster.PageSize,
		ChunkSize:     cfg.Roster.ChunkSize,
		FrameBudget:   cfg.Roster.FrameBudget,
		DebounceDelay: cfg.Roster.DebounceDelay,
	})

	populate := func() {
		ds.Populate(time.Now())
		ctrl.AttachDataset()
	}
	if sysutil.IsTruthy(os.Getenv("EAGER_GENERATE")) {
		// Block until the roster exists; /health reports ready from
		// the first request.
		populate()
	} else {
		// Serve immediately; /health and the data endpoints report
		// "generating" until the roster is up.
		go populate()
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, ds, ctrl, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
