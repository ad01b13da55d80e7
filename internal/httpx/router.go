package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mktintel/dashboard-go/internal/export"
	"github.com/mktintel/dashboard-go/internal/ingest"
	"github.com/mktintel/dashboard-go/internal/metrics"
	"github.com/mktintel/dashboard-go/internal/utils"
)

// NewRouter wires the dashboard page, the analytics API, ingest control and
// the export endpoints.
func NewRouter(log *slog.Logger, ing *ingest.Ingestor, svc *metrics.Service, snk *export.Sink, dash http.Handler) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(utils.Metrics)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !svc.HasData() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("no data loaded"))
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/", dash.ServeHTTP)

	mux.Post("/ingest/run", func(w http.ResponseWriter, r *http.Request) {
		stats, err := ing.Run(r.Context())
		if err != nil {
			log.Error("ingest failed", slog.String("err", err.Error()))
			apiError(w, r, http.StatusBadGateway, err.Error())
			return
		}
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, stats)
	})

	mux.Route("/api", func(api chi.Router) {
		api.Get("/summary", handle(svc.Summary))
		api.Get("/channels", handle(svc.Channels))
		api.Get("/campaigns", handle(svc.Campaigns))
		api.Get("/daily", handle(svc.Combined))
		api.Get("/timeseries", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("period") == "weekly" {
				handle(svc.Weekly)(w, r)
				return
			}
			handle(svc.TimeSeries)(w, r)
		})
		api.Get("/funnel", handle(svc.Funnel))
		api.Get("/geo", handle(svc.Geo))
		api.Get("/seasonality", handle(svc.Seasonality))
		api.Get("/top", handle(svc.Top))
		api.Get("/correlations", handle(svc.Correlations))
		api.Get("/insights", handle(svc.Insights))
		api.Get("/filters", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, svc.FilterOptions(r.URL.Query().Get("channel")))
		})
	})

	mux.Get("/export/csv", func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Combined(unbounded(r.URL.Query()))
		if err != nil {
			apiError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="combined.csv"`)
		if err := export.WriteCombinedCSV(w, rows); err != nil {
			log.Error("csv export failed", slog.String("err", err.Error()))
		}
	})

	mux.Get("/export/xlsx", func(w http.ResponseWriter, r *http.Request) {
		rep, err := buildReport(svc, r.URL.Query())
		if err != nil {
			apiError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		name := "marketing-report-" + time.Now().Format("2006-01-02") + ".xlsx"
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		if err := export.WriteWorkbook(w, rep); err != nil {
			log.Error("xlsx export failed", slog.String("err", err.Error()))
		}
	})

	mux.Post("/export/sink", func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Combined(unbounded(r.URL.Query()))
		if err != nil {
			apiError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		n, err := snk.Push(r.Context(), rows)
		if err != nil {
			apiError(w, r, http.StatusBadGateway, err.Error())
			return
		}
		render.JSON(w, r, map[string]any{"exported": n})
	})

	return mux
}

// buildReport gathers every section the workbook carries, bypassing
// pagination so exports are complete.
func buildReport(svc *metrics.Service, v url.Values) (export.Report, error) {
	v = unbounded(v)
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

// unbounded strips pagination so exports carry the whole filtered dataset.
func unbounded(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = vals
	}
	out.Set("limit", "-1")
	out.Set("offset", "0")
	return out
}

func handle[T any](fn func(url.Values) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out, err := fn(r.URL.Query())
		if err != nil {
			apiError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		render.JSON(w, r, out)
	}
}

func apiError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, map[string]string{"error": msg})
}
