package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/mktintel/dashboard-go/internal/config"
	"github.com/mktintel/dashboard-go/internal/export"
	"github.com/mktintel/dashboard-go/internal/httpx"
	"github.com/mktintel/dashboard-go/internal/ingest"
	"github.com/mktintel/dashboard-go/internal/metrics"
	"github.com/mktintel/dashboard-go/internal/store"
	"github.com/mktintel/dashboard-go/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	st := store.NewMemoryStore()
	cl := ingest.NewHTTPClient(cfg.Feeds.FetchTimeout)
	ing := ingest.NewIngestor(cfg.Feeds, cl, st, logger)
	svc := metrics.NewService(st)
	snk := export.NewSink(cfg.Sink, &http.Client{Timeout: cfg.Feeds.FetchTimeout})
	dash := web.NewDashboard(svc, logger)

	// Load whatever is on disk now; a failed load is recoverable later via
	// POST /ingest/run once the feeds appear.
	if _, err := ing.Run(context.Background()); err != nil {
		logger.Error("initial ingest failed", slog.String("err", err.Error()))
	}

	r := httpx.NewRouter(logger, ing, svc, snk, dash)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
