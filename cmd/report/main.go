// Command report loads the four feeds and writes an XLSX performance report
// without starting the server.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/mktintel/dashboard-go/internal/config"
	"github.com/mktintel/dashboard-go/internal/export"
	"github.com/mktintel/dashboard-go/internal/ingest"
	"github.com/mktintel/dashboard-go/internal/metrics"
	"github.com/mktintel/dashboard-go/internal/store"
)

func main() {
	dataDir := flag.String("data", "data", "directory containing the feed CSVs")
	out := flag.String("out", "marketing-report.xlsx", "output workbook path")
	from := flag.String("from", "", "start date (YYYY-MM-DD)")
	to := flag.String("to", "", "end date (YYYY-MM-DD)")
	channel := flag.String("channel", "", "restrict to channels (comma separated)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st := store.NewMemoryStore()
	feeds := config.FeedConfig{DataDir: *dataDir, RetryBase: 100 * time.Millisecond, RetryMax: 2}
	ing := ingest.NewIngestor(feeds, ingest.NewHTTPClient(15*time.Second), st, logger)
	if _, err := ing.Run(context.Background()); err != nil {
		logger.Error("ingest failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	svc := metrics.NewService(st)
	v := url.Values{}
	v.Set("from", *from)
	v.Set("to", *to)
	v.Set("channel", *channel)
	v.Set("limit", "-1")

	rep, err := gather(svc, v)
	if err != nil {
		logger.Error("report build failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Error("create output", slog.String("err", err.Error()))
		os.Exit(1)
	}
	defer f.Close()
	if err := export.WriteWorkbook(f, rep); err != nil {
		logger.Error("write workbook", slog.String("err", err.Error()))
		os.Exit(1)
	}
	logger.Info("report written", slog.String("path", *out))
}

func gather(svc *metrics.Service, v url.Values) (export.Report, error) {
	var rep export.Report
	var err error
	if rep.Summary, err = svc.Summary(v); err != nil {
		return rep, err
	}
	if rep.Channels, err = svc.Channels(v); err != nil {
		return rep, err
	}
	if rep.Campaigns, err = svc.Campaigns(v); err != nil {
		return rep, err
	}
	if rep.Daily, err = svc.Combined(v); err != nil {
		return rep, err
	}
	if rep.Insights, err = svc.Insights(v); err != nil {
		return rep, err
	}
	return rep, nil
}
