package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mktintel/dashboard-go/internal/config"
	"github.com/mktintel/dashboard-go/internal/models"
	"github.com/mktintel/dashboard-go/internal/store"
	"github.com/mktintel/dashboard-go/internal/utils"
)

var ingestedRows = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "dashboard_ingest_rows_total",
	Help: "Rows accepted per feed.",
}, []string{"feed"})

// feed describes one source: a channel export or the business feed.
type feed struct {
	name    string // metric label / log name
	channel string // empty for the business feed
	file    string
	url     string
}

// Stats summarizes one ingest run.
type Stats struct {
	ChannelRows  int `json:"channel_rows"`
	BusinessRows int `json:"business_rows"`
	Skipped      int `json:"skipped"`
	Duplicates   int `json:"duplicates"`
}

// Ingestor loads the four feeds into the store. Feeds come from the data
// directory, or over HTTP when an export URL is configured.
type Ingestor struct {
	cfg config.FeedConfig
	c   HTTPClient
	st  *store.MemoryStore
	log *slog.Logger
	bo  utils.Backoff
}

func NewIngestor(cfg config.FeedConfig, c HTTPClient, st *store.MemoryStore, log *slog.Logger) *Ingestor {
	return &Ingestor{
		cfg: cfg,
		c:   c,
		st:  st,
		log: log,
		bo:  utils.NewBackoff(cfg.RetryBase, cfg.RetryMax),
	}
}

func (in *Ingestor) feeds() []feed {
	return []feed{
		{name: "facebook", channel: "Facebook", file: "Facebook.csv", url: in.cfg.FacebookURL},
		{name: "google", channel: "Google", file: "Google.csv", url: in.cfg.GoogleURL},
		{name: "tiktok", channel: "TikTok", file: "TikTok.csv", url: in.cfg.TikTokURL},
		{name: "business", file: "Business.csv", url: in.cfg.BusinessURL},
	}
}

// Run replaces the dataset with a fresh load of all four feeds. A missing or
// unreadable feed fails the whole run and leaves the previous dataset in
// place; bad rows inside a feed are skipped.
func (in *Ingestor) Run(ctx context.Context) (Stats, error) {
	staged := store.NewMemoryStore()
	var stats Stats
	for _, f := range in.feeds() {
		if err := in.loadFeed(ctx, f, staged, &stats); err != nil {
			return stats, fmt.Errorf("feed %s: %w", f.name, err)
		}
	}
	in.st.Adopt(staged)
	in.log.Info("ingest complete",
		slog.Int("channel_rows", stats.ChannelRows),
		slog.Int("business_rows", stats.BusinessRows),
		slog.Int("skipped", stats.Skipped),
		slog.Int("duplicates", stats.Duplicates))
	return stats, nil
}

func (in *Ingestor) loadFeed(ctx context.Context, f feed, dst *store.MemoryStore, stats *Stats) error {
	r, err := in.open(ctx, f)
	if err != nil {
		return err
	}
	defer r.Close()

	if f.channel == "" {
		rows, skipped, err := parseBusinessFeed(r)
		if err != nil {
			return err
		}
		stats.Skipped += skipped
		for _, rec := range rows {
			key := "business|" + rec.Date.Format("2006-01-02")
			if !dst.MarkSeen(key) {
				stats.Duplicates++
				continue
			}
			dst.AddBusiness(rec)
			stats.BusinessRows++
		}
		ingestedRows.WithLabelValues(f.name).Add(float64(len(rows)))
		return nil
	}

	rows, skipped, err := parseChannelFeed(r, f.channel)
	if err != nil {
		return err
	}
	stats.Skipped += skipped
	for _, rec := range rows {
		if !dst.MarkSeen(rowKey(rec)) {
			stats.Duplicates++
			continue
		}
		dst.AddChannel(rec)
		stats.ChannelRows++
	}
	ingestedRows.WithLabelValues(f.name).Add(float64(len(rows)))
	return nil
}

func rowKey(r models.ChannelRecord) string {
	return strings.Join([]string{
		r.Channel, r.Date.Format("2006-01-02"), r.Campaign, r.Tactic, r.State,
	}, "|")
}

func (in *Ingestor) open(ctx context.Context, f feed) (io.ReadCloser, error) {
	if f.url != "" {
		body, err := fetchFeed(ctx, in.c, f.url, in.bo)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(body)), nil
	}
	path := filepath.Join(in.cfg.DataDir, f.file)
	fh, err := os.Open(path)
	if os.IsNotExist(err) {
		// some exports ship lowercase file names
		fh, err = os.Open(filepath.Join(in.cfg.DataDir, strings.ToLower(f.file)))
	}
	if err != nil {
		return nil, err
	}
	return fh, nil
}
