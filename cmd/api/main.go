package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/firstmover/alert-api/internal/adapter/acs"
	"github.com/firstmover/alert-api/internal/adapter/censusgeo"
	"github.com/firstmover/alert-api/internal/adapter/freetxt"
	"github.com/firstmover/alert-api/internal/adapter/httpapi"
	"github.com/firstmover/alert-api/internal/adapter/hud"
	"github.com/firstmover/alert-api/internal/adapter/nominatim"
	"github.com/firstmover/alert-api/internal/adapter/resend"
	"github.com/firstmover/alert-api/internal/alerts"
	"github.com/firstmover/alert-api/internal/config"
	"github.com/firstmover/alert-api/internal/explain"
	"github.com/firstmover/alert-api/internal/geocode"
	"github.com/firstmover/alert-api/internal/listings"
	"github.com/firstmover/alert-api/internal/observability"
	"github.com/firstmover/alert-api/internal/risk"
	"github.com/firstmover/alert-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Geocoding: Census Bureau first, Nominatim as fallback.
	geocoder := geocode.NewChain(logger).
		Append("census", censusgeo.NewClient(cfg.GeocoderTimeout, metrics, logger)).
		Append("nominatim", nominatim.NewClient(cfg.GeocoderTimeout, metrics, logger))

	census := acs.NewCachedFetcher(
		acs.NewClient(cfg.CensusTimeout, metrics, logger),
		cfg.CensusCacheTTL, metrics, logger)

	rules := risk.NewRulesStore(cfg.RulesPath(), logger)
	engine := risk.NewEngine(rules, geocoder, census, metrics, logger)

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	sms := freetxt.NewClient(cfg.SMSTimeout, logger)
	email := resend.NewClient(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailTimeout, logger)
	alertSvc := alerts.NewService(db, sms, email, metrics, logger)

	listingSvc := listings.NewService(db, engine, geocoder,
		cfg.MockListingsPath(), cfg.MapMarkerCount, metrics, logger)

	counselors := hud.NewClient(cfg.HUDTimeout, logger)

	rewriterKey := ""
	if cfg.ExplainEnabled {
		rewriterKey = cfg.OpenAIAPIKey
		logger.Info("explanation rewriting enabled", "model", cfg.ExplainModel)
	} else {
		logger.Info("explanation rewriting disabled")
	}
	rewriter := explain.NewRewriter(rewriterKey, cfg.ExplainModel, logger)

	srv := httpapi.NewServer(cfg.HTTPAddr, engine, rules, rewriter, alertSvc, listingSvc, counselors, db, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
