package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/mktintel/dashboard-go/internal/metrics"
	"github.com/mktintel/dashboard-go/internal/models"
)

// Dashboard renders the server-side view of the analytics data: KPI badges,
// channel/campaign tables and insight cards, with sidebar-style filters
// carried in query parameters.
type Dashboard struct {
	svc *metrics.Service
	log *slog.Logger
	tpl *template.Template
}

func NewDashboard(svc *metrics.Service, log *slog.Logger) *Dashboard {
	return &Dashboard{svc: svc, log: log, tpl: pageTpl}
}

type viewData struct {
	Err              string
	Filters          metrics.Filters
	SelectedChannel  string
	SelectedCampaign string
	From             string
	To               string
	Summary          models.Summary
	Channels         []models.ChannelSummary
	Campaigns        []models.CampaignSummary
	Insights         []models.Insight
	Geo              []models.StateSummary
	Season           models.Seasonality
}

func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !d.svc.HasData() {
		d.log.Error("dashboard unavailable: no data loaded")
		w.WriteHeader(http.StatusServiceUnavailable)
		d.render(w, viewData{Err: "no data loaded: feeds are missing or the last ingest failed"})
		return
	}

	q := r.URL.Query()
	data := viewData{
		Filters:          d.svc.FilterOptions(q.Get("channel")),
		SelectedChannel:  q.Get("channel"),
		SelectedCampaign: q.Get("campaign"),
		From:             q.Get("from"),
		To:               q.Get("to"),
	}

	var err error
	if data.Summary, err = d.svc.Summary(q); err != nil {
		d.renderError(w, err)
		return
	}
	if data.Channels, err = d.svc.Channels(q); err != nil {
		d.renderError(w, err)
		return
	}
	cq := withLimit(q, 25)
	if data.Campaigns, err = d.svc.Campaigns(cq); err != nil {
		d.renderError(w, err)
		return
	}
	if data.Insights, err = d.svc.Insights(q); err != nil {
		d.renderError(w, err)
		return
	}
	if data.Geo, err = d.svc.Geo(q); err != nil {
		d.renderError(w, err)
		return
	}
	if len(data.Geo) > 10 {
		data.Geo = data.Geo[:10]
	}
	if data.Season, err = d.svc.Seasonality(q); err != nil {
		d.renderError(w, err)
		return
	}

	d.render(w, data)
}

func (d *Dashboard) renderError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusBadRequest)
	d.render(w, viewData{Err: err.Error()})
}

func (d *Dashboard) render(w http.ResponseWriter, data viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := d.tpl.Execute(w, data); err != nil {
		d.log.Error("dashboard render failed", slog.String("err", err.Error()))
	}
}

func withLimit(v url.Values, limit int) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = vals
	}
	out.Set("limit", fmt.Sprintf("%d", limit))
	return out
}

var pageTpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"money": func(f float64) string { return fmt.Sprintf("$%.2f", f) },
	"pct":   func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
	"mult":  func(f float64) string { return fmt.Sprintf("%.2fx", f) },
}).Parse(page))

const page = `<!doctype html><html><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Marketing Intelligence</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Inter,Arial;background:#0b1020;color:#e8ecff;margin:0;padding:20px}
.card{background:#111837;border:1px solid #203063;border-radius:14px;padding:16px;margin:12px 0}
h1{margin:0 0 10px 0} .muted{color:#9aa7cf} table{width:100%;border-collapse:collapse}
th,td{border-bottom:1px solid #22305f;padding:8px;text-align:left;vertical-align:top}
.badge{display:inline-block;background:#1b2a59;padding:4px 8px;border-radius:8px;margin:3px 6px 3px 0}
.insight{background:#0e2236;border-left:4px solid #17a2b8;border-radius:8px;padding:10px;margin:8px 0}
select,input{background:#0b1430;color:#e8ecff;border:1px solid #203063;border-radius:8px;padding:6px}
button{background:#7aa2ff;color:#04102a;border:none;padding:8px 12px;border-radius:10px;cursor:pointer}
a{color:#7aa2ff}
</style>
</head><body>
<h1>Marketing Intelligence</h1>

{{if .Err}}<div class="card"><strong>Error:</strong> {{.Err}}</div>{{else}}

<div class="card">
  <form method="GET" action="/">
    <label>From <input type="date" name="from" value="{{.From}}" min="{{.Filters.From}}" max="{{.Filters.To}}"></label>
    <label>To <input type="date" name="to" value="{{.To}}" min="{{.Filters.From}}" max="{{.Filters.To}}"></label>
    <label>Channel
      <select name="channel">
        <option value="">All</option>
        {{$sel := .SelectedChannel}}
        {{range .Filters.Channels}}<option value="{{.}}" {{if eq . $sel}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <label>Campaign
      <select name="campaign">
        <option value="">All</option>
        {{$selc := .SelectedCampaign}}
        {{range .Filters.Campaigns}}<option value="{{.}}" {{if eq . $selc}}selected{{end}}>{{.}}</option>{{end}}
      </select>
    </label>
    <button type="submit">Apply</button>
    <span class="muted">Data: {{.Filters.From}} → {{.Filters.To}} · <a href="/export/csv">CSV</a> · <a href="/export/xlsx">XLSX</a></span>
  </form>
</div>

<div class="card">
  <h3>Executive Summary ({{.Summary.From}} → {{.Summary.To}})</h3>
  <div class="badge">Total Revenue: {{money .Summary.TotalRevenue}}</div>
  <div class="badge">Marketing Spend: {{money .Summary.TotalSpend}}</div>
  <div class="badge">ROAS: {{mult .Summary.ROAS}}</div>
  <div class="badge">CAC: {{money .Summary.CAC}}</div>
  <div class="badge">AOV: {{money .Summary.AOV}}</div>
  <div class="badge">Gross Margin: {{pct .Summary.GrossMargin}}</div>
  <div class="badge">Efficiency: {{mult .Summary.MarketingEfficiency}}</div>
  <div class="badge">New Customers: {{.Summary.NewCustomers}}</div>
  <p class="muted">{{money .Summary.AvgDailyRevenue}}/day revenue · {{money .Summary.AvgDailySpend}}/day spend over {{.Summary.Days}} days</p>
</div>

{{if .Insights}}
<div class="card">
  <h3>Key Insights</h3>
  {{range .Insights}}<div class="insight"><strong>{{.Title}}</strong><br>{{.Description}}</div>{{end}}
</div>
{{end}}

<div class="card">
  <h3>Channel Performance</h3>
  <table>
    <tr><th>Channel</th><th>Impressions</th><th>Clicks</th><th>CTR</th><th>CPC</th><th>Spend</th><th>Revenue</th><th>ROAS</th><th>Active Days</th></tr>
    {{range .Channels}}
    <tr><td>{{.Channel}}</td><td>{{.Impressions}}</td><td>{{.Clicks}}</td><td>{{pct .CTR}}</td><td>{{money .CPC}}</td><td>{{money .Spend}}</td><td>{{money .AttributedRevenue}}</td><td>{{mult .ROAS}}</td><td>{{.ActiveDays}}</td></tr>
    {{end}}
  </table>
</div>

<div class="card">
  <h3>Campaign Performance</h3>
  <table>
    <tr><th>Channel</th><th>Campaign</th><th>Impressions</th><th>Clicks</th><th>CTR</th><th>CPC</th><th>Spend</th><th>Revenue</th><th>ROAS</th></tr>
    {{range .Campaigns}}
    <tr><td>{{.Channel}}</td><td>{{.Campaign}}</td><td>{{.Impressions}}</td><td>{{.Clicks}}</td><td>{{pct .CTR}}</td><td>{{money .CPC}}</td><td>{{money .Spend}}</td><td>{{money .AttributedRevenue}}</td><td>{{mult .ROAS}}</td></tr>
    {{end}}
  </table>
</div>

{{if .Geo}}
<div class="card">
  <h3>Top States by Attributed Revenue</h3>
  <table>
    <tr><th>State</th><th>Impressions</th><th>Clicks</th><th>CTR</th><th>Spend</th><th>Revenue</th><th>ROAS</th></tr>
    {{range .Geo}}
    <tr><td>{{.State}}</td><td>{{.Impressions}}</td><td>{{.Clicks}}</td><td>{{pct .CTR}}</td><td>{{money .Spend}}</td><td>{{money .AttributedRevenue}}</td><td>{{mult .ROAS}}</td></tr>
    {{end}}
  </table>
</div>
{{end}}

{{if .Season.Weekdays}}
<div class="card">
  <h3>Seasonality</h3>
  <p class="muted">Best day: <strong>{{.Season.BestDay}}</strong> · Worst day: <strong>{{.Season.WorstDay}}</strong> ·
  Weekend avg {{money .Season.WeekendAvgRevenue}} vs weekday avg {{money .Season.WeekdayAvgRevenue}}</p>
  <table>
    <tr><th>Day</th><th>Avg Revenue</th><th>Avg Spend</th><th>Avg New Customers</th></tr>
    {{range .Season.Weekdays}}
    <tr><td>{{.Day}}</td><td>{{money .AvgRevenue}}</td><td>{{money .AvgSpend}}</td><td>{{.AvgNewCustomers}}</td></tr>
    {{end}}
  </table>
</div>
{{end}}

{{end}}
</body></html>`
