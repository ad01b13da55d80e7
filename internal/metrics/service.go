package metrics

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mktintel/dashboard-go/internal/models"
	"github.com/mktintel/dashboard-go/internal/store"
)

// Service answers analytics queries against the store. Every result is a
// fresh snapshot computed from the current dataset.
type Service struct{ st *store.MemoryStore }

func NewService(st *store.MemoryStore) *Service { return &Service{st: st} }

// HasData reports whether an ingest run has populated the store.
func (s *Service) HasData() bool { return !s.st.Empty() }

type query struct {
	from, to time.Time
	channels map[string]struct{}
	campaign string
	limit    int
	offset   int
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func csvSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range strings.Split(s, ",") {
		if p = norm(p); p != "" {
			out[p] = struct{}{}
		}
	}
	return out
}

// parseQuery validates filter parameters. Absent date bounds default to the
// dataset's own range.
func (s *Service) parseQuery(v url.Values) (query, error) {
	q := query{
		channels: csvSet(v.Get("channel")),
		campaign: norm(v.Get("campaign")),
		limit:    atoiDef(v.Get("limit"), 100),
		offset:   atoiDef(v.Get("offset"), 0),
	}
	var err error
	if q.from, err = parseBound(v.Get("from")); err != nil {
		return q, err
	}
	if q.to, err = parseBound(v.Get("to")); err != nil {
		return q, err
	}
	if q.from.IsZero() || q.to.IsZero() {
		if min, max, ok := s.st.DateRange(); ok {
			if q.from.IsZero() {
				q.from = min
			}
			if q.to.IsZero() {
				q.to = max
			}
		}
	}
	return q, nil
}

func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func (q query) match(r models.ChannelRecord) bool {
	if len(q.channels) > 0 {
		if _, ok := q.channels[norm(r.Channel)]; !ok {
			return false
		}
	}
	if q.campaign != "" && norm(r.Campaign) != q.campaign {
		return false
	}
	return true
}

// combinedRows joins the business feed with daily marketing totals over the
// query window. The join is by date only; channel/campaign filters apply to
// marketing-side views, not the business baseline.
func (s *Service) combinedRows(q query) []models.CombinedRow {
	biz := s.st.BusinessRows(q.from, q.to)
	totals := s.st.DailyChannelTotals(q.from, q.to, nil)
	rows := make([]models.CombinedRow, 0, len(biz))
	for _, b := range biz {
		rows = append(rows, DeriveCombined(b, totals[b.Date]))
	}
	return rows
}

// Combined exposes the joined dataset, paginated.
func (s *Service) Combined(v url.Values) ([]models.CombinedRow, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	rows := s.combinedRows(q)
	limit, offset := clampLimitOffset(q.limit, q.offset, len(rows))
	return paginate(rows, limit, offset), nil
}

// Summary computes the executive roll-up for the window.
func (s *Service) Summary(v url.Values) (models.Summary, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return models.Summary{}, err
	}
	biz := s.st.BusinessRows(q.from, q.to)
	mkt := s.st.ChannelRows(q.from, q.to, q.match)

	var out models.Summary
	for _, b := range biz {
		out.TotalRevenue += b.TotalRevenue
		out.TotalOrders += b.Orders
		out.NewCustomers += b.NewCustomers
		out.GrossProfit += b.GrossProfit
	}
	for _, m := range mkt {
		out.TotalSpend += m.Spend
		out.AttributedRevenue += m.AttributedRevenue
	}
	out.Days = len(biz)
	if !q.from.IsZero() {
		out.From = q.from.Format("2006-01-02")
	}
	if !q.to.IsZero() {
		out.To = q.to.Format("2006-01-02")
	}
	out.ROAS = Round2(SafeDiv(out.AttributedRevenue, out.TotalSpend))
	out.AOV = Round2(SafeDiv(out.TotalRevenue, float64(out.TotalOrders)))
	out.CAC = Round2(SafeDiv(out.TotalSpend, float64(out.NewCustomers)))
	out.MarketingEfficiency = Round2(SafeDiv(out.TotalRevenue, out.TotalSpend))
	out.GrossMargin = Round2(SafeDiv(out.GrossProfit, out.TotalRevenue) * 100)
	out.AvgDailyRevenue = Round2(SafeDiv(out.TotalRevenue, float64(out.Days)))
	out.AvgDailySpend = Round2(SafeDiv(out.TotalSpend, float64(out.Days)))
	out.TotalRevenue = Round2(out.TotalRevenue)
	out.TotalSpend = Round2(out.TotalSpend)
	out.AttributedRevenue = Round2(out.AttributedRevenue)
	out.GrossProfit = Round2(out.GrossProfit)
	return out, nil
}

// Channels aggregates the filtered marketing rows per channel.
func (s *Service) Channels(v url.Values) ([]models.ChannelSummary, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	rows := s.st.ChannelRows(q.from, q.to, q.match)

	type acc struct {
		models.ChannelSummary
		days      map[time.Time]struct{}
		campaigns map[string]struct{}
	}
	byChannel := map[string]*acc{}
	for _, r := range rows {
		a, ok := byChannel[r.Channel]
		if !ok {
			a = &acc{days: map[time.Time]struct{}{}, campaigns: map[string]struct{}{}}
			a.Channel = r.Channel
			byChannel[r.Channel] = a
		}
		a.Impressions += r.Impressions
		a.Clicks += r.Clicks
		a.Spend += r.Spend
		a.AttributedRevenue += r.AttributedRevenue
		a.days[r.Date] = struct{}{}
		a.campaigns[r.Campaign] = struct{}{}
	}

	out := make([]models.ChannelSummary, 0, len(byChannel))
	for _, a := range byChannel {
		cs := a.ChannelSummary
		cs.ActiveDays = len(a.days)
		cs.Campaigns = len(a.campaigns)
		cs.CTR = Round2(CTR(cs.Clicks, cs.Impressions))
		cs.CPC = Round3(CPC(cs.Spend, cs.Clicks))
		cs.ROAS = Round2(ROAS(cs.AttributedRevenue, cs.Spend))
		cs.AvgDailySpend = Round2(SafeDiv(cs.Spend, float64(cs.ActiveDays)))
		cs.Spend = Round2(cs.Spend)
		cs.AttributedRevenue = Round2(cs.AttributedRevenue)
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Channel < out[j].Channel })
	return out, nil
}

// Campaigns aggregates per (channel, campaign), paginated.
func (s *Service) Campaigns(v url.Values) ([]models.CampaignSummary, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	rows := s.campaignSummaries(q)
	limit, offset := clampLimitOffset(q.limit, q.offset, len(rows))
	return paginate(rows, limit, offset), nil
}

func (s *Service) campaignSummaries(q query) []models.CampaignSummary {
	rows := s.st.ChannelRows(q.from, q.to, q.match)

	type key struct{ channel, campaign string }
	type acc struct {
		models.CampaignSummary
		days map[time.Time]struct{}
	}
	byKey := map[key]*acc{}
	for _, r := range rows {
		k := key{r.Channel, r.Campaign}
		a, ok := byKey[k]
		if !ok {
			a = &acc{days: map[time.Time]struct{}{}}
			a.Channel, a.Campaign = r.Channel, r.Campaign
			byKey[k] = a
		}
		a.Impressions += r.Impressions
		a.Clicks += r.Clicks
		a.Spend += r.Spend
		a.AttributedRevenue += r.AttributedRevenue
		a.days[r.Date] = struct{}{}
	}

	out := make([]models.CampaignSummary, 0, len(byKey))
	for _, a := range byKey {
		cs := a.CampaignSummary
		cs.ActiveDays = len(a.days)
		cs.CTR = Round2(CTR(cs.Clicks, cs.Impressions))
		cs.CPC = Round3(CPC(cs.Spend, cs.Clicks))
		cs.ROAS = Round2(ROAS(cs.AttributedRevenue, cs.Spend))
		cs.Efficiency = Round2(SafeDiv(cs.AttributedRevenue, cs.Spend))
		cs.Spend = Round2(cs.Spend)
		cs.AttributedRevenue = Round2(cs.AttributedRevenue)
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Channel != out[j].Channel {
			return out[i].Channel < out[j].Channel
		}
		return out[i].Campaign < out[j].Campaign
	})
	return out
}

// TimeSeries returns the daily combined rows with trailing 7-day statistics.
// The window shrinks at the head of the series rather than emitting NaN.
func (s *Service) TimeSeries(v url.Values) ([]models.TimeSeriesPoint, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	rows := s.combinedRows(q)
	out := make([]models.TimeSeriesPoint, len(rows))
	var revSum, spendSum, attrSum float64
	for i, r := range rows {
		revSum += r.TotalRevenue
		spendSum += r.Spend
		attrSum += r.AttributedRevenue
		if i >= 7 {
			revSum -= rows[i-7].TotalRevenue
			spendSum -= rows[i-7].Spend
			attrSum -= rows[i-7].AttributedRevenue
		}
		n := float64(min(i+1, 7))
		out[i] = models.TimeSeriesPoint{
			CombinedRow:  r,
			Revenue7dAvg: Round2(revSum / n),
			Spend7dAvg:   Round2(spendSum / n),
			ROAS7d:       Round2(SafeDiv(attrSum, spendSum)),
		}
	}
	return out, nil
}

// Weekly re-buckets the combined rows by ISO week.
func (s *Service) Weekly(v url.Values) ([]models.WeeklyBucket, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	return weeklyBuckets(s.combinedRows(q)), nil
}

func weeklyBuckets(rows []models.CombinedRow) []models.WeeklyBucket {
	type key struct{ year, week int }
	byWeek := map[key]*models.WeeklyBucket{}
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		y, w := d.ISOWeek()
		k := key{y, w}
		b, ok := byWeek[k]
		if !ok {
			b = &models.WeeklyBucket{Year: y, Week: w}
			byWeek[k] = b
		}
		b.TotalRevenue += r.TotalRevenue
		b.Orders += r.Orders
		b.NewCustomers += r.NewCustomers
		b.Spend += r.Spend
		b.AttributedRevenue += r.AttributedRevenue
		b.Impressions += r.Impressions
		b.Clicks += r.Clicks
	}
	out := make([]models.WeeklyBucket, 0, len(byWeek))
	for _, b := range byWeek {
		b.TotalRevenue = Round2(b.TotalRevenue)
		b.Spend = Round2(b.Spend)
		b.AttributedRevenue = Round2(b.AttributedRevenue)
		b.ROAS = Round2(SafeDiv(b.AttributedRevenue, b.Spend))
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

// Funnel estimates the impressions -> clicks -> conversions path. Conversions
// are attributed revenue divided by the window's mean AOV, the same estimate
// the storefront data supports without order-level attribution.
func (s *Service) Funnel(v url.Values) (models.Funnel, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return models.Funnel{}, err
	}
	combined := s.combinedRows(q)
	var aovSum float64
	for _, r := range combined {
		aovSum += r.AOV
	}
	avgAOV := SafeDiv(aovSum, float64(len(combined)))

	rows := s.st.ChannelRows(q.from, q.to, q.match)
	out := models.Funnel{AvgAOV: Round2(avgAOV)}
	byChannel := map[string]*models.ChannelFunnel{}
	for _, r := range rows {
		out.Impressions += r.Impressions
		out.Clicks += r.Clicks
		cf, ok := byChannel[r.Channel]
		if !ok {
			cf = &models.ChannelFunnel{Channel: r.Channel}
			byChannel[r.Channel] = cf
		}
		cf.Impressions += r.Impressions
		cf.Clicks += r.Clicks
		cf.AttributedRevenue += r.AttributedRevenue
	}
	var attr float64
	for _, cf := range byChannel {
		attr += cf.AttributedRevenue
	}
	out.EstConversions = Round2(SafeDiv(attr, avgAOV))
	out.CTR = Round2(CTR(out.Clicks, out.Impressions))
	out.CVR = Round2(SafeDiv(SafeDiv(attr, avgAOV), float64(out.Clicks)) * 100)
	for _, cf := range byChannel {
		cf.CTR = Round2(CTR(cf.Clicks, cf.Impressions))
		cf.EstConversions = Round2(SafeDiv(cf.AttributedRevenue, avgAOV))
		cf.CVR = Round2(SafeDiv(cf.EstConversions, float64(cf.Clicks)) * 100)
		cf.AttributedRevenue = Round2(cf.AttributedRevenue)
		out.Channels = append(out.Channels, *cf)
	}
	sort.Slice(out.Channels, func(i, j int) bool { return out.Channels[i].Channel < out.Channels[j].Channel })
	return out, nil
}

// Geo aggregates delivery by reported state. Feeds without real state data
// yield an empty result rather than a single "Unknown" bucket.
func (s *Service) Geo(v url.Values) ([]models.StateSummary, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return nil, err
	}
	rows := s.st.ChannelRows(q.from, q.to, q.match)
	byState := map[string]*models.StateSummary{}
	for _, r := range rows {
		ss, ok := byState[r.State]
		if !ok {
			ss = &models.StateSummary{State: r.State}
			byState[r.State] = ss
		}
		ss.Impressions += r.Impressions
		ss.Clicks += r.Clicks
		ss.Spend += r.Spend
		ss.AttributedRevenue += r.AttributedRevenue
	}
	if len(byState) == 1 {
		if _, only := byState["Unknown"]; only {
			return nil, nil
		}
	}
	out := make([]models.StateSummary, 0, len(byState))
	for _, ss := range byState {
		ss.CTR = Round2(CTR(ss.Clicks, ss.Impressions))
		ss.ROAS = Round2(ROAS(ss.AttributedRevenue, ss.Spend))
		ss.Spend = Round2(ss.Spend)
		ss.AttributedRevenue = Round2(ss.AttributedRevenue)
		out = append(out, *ss)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AttributedRevenue != out[j].AttributedRevenue {
			return out[i].AttributedRevenue > out[j].AttributedRevenue
		}
		return out[i].State < out[j].State
	})
	return out, nil
}

// Seasonality reports weekday patterns and weekly totals.
func (s *Service) Seasonality(v url.Values) (models.Seasonality, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return models.Seasonality{}, err
	}
	rows := s.combinedRows(q)

	type acc struct {
		days                    int
		revenue, spend, newCust float64
	}
	var byDay [7]acc
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			continue
		}
		wd := int(d.Weekday())
		byDay[wd].days++
		byDay[wd].revenue += r.TotalRevenue
		byDay[wd].spend += r.Spend
		byDay[wd].newCust += float64(r.NewCustomers)
	}

	out := models.Seasonality{Weeks: weeklyBuckets(rows)}
	var weekendSum, weekendDays, weekdaySum, weekdayDays float64
	bestRev, worstRev := -1.0, -1.0
	// Monday-first ordering for display
	for i := 0; i < 7; i++ {
		wd := (i + 1) % 7
		a := byDay[wd]
		if a.days == 0 {
			continue
		}
		stat := models.WeekdayStat{
			Weekday:         wd,
			Day:             time.Weekday(wd).String(),
			Days:            a.days,
			AvgRevenue:      Round2(a.revenue / float64(a.days)),
			AvgSpend:        Round2(a.spend / float64(a.days)),
			AvgNewCustomers: Round2(a.newCust / float64(a.days)),
		}
		out.Weekdays = append(out.Weekdays, stat)
		if wd == 0 || wd == 6 {
			weekendSum += a.revenue
			weekendDays += float64(a.days)
		} else {
			weekdaySum += a.revenue
			weekdayDays += float64(a.days)
		}
		if bestRev < 0 || stat.AvgRevenue > bestRev {
			bestRev = stat.AvgRevenue
			out.BestDay = stat.Day
		}
		if worstRev < 0 || stat.AvgRevenue < worstRev {
			worstRev = stat.AvgRevenue
			out.WorstDay = stat.Day
		}
	}
	out.WeekendAvgRevenue = Round2(SafeDiv(weekendSum, weekendDays))
	out.WeekdayAvgRevenue = Round2(SafeDiv(weekdaySum, weekdayDays))
	return out, nil
}

// Top lists the leading campaigns by ROAS, revenue and efficiency.
func (s *Service) Top(v url.Values) (models.TopPerformers, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return models.TopPerformers{}, err
	}
	all := s.campaignSummaries(q)
	return models.TopPerformers{
		ByROAS:       topBy(all, 5, func(c models.CampaignSummary) float64 { return c.ROAS }),
		ByRevenue:    topBy(all, 5, func(c models.CampaignSummary) float64 { return c.AttributedRevenue }),
		ByEfficiency: topBy(all, 5, func(c models.CampaignSummary) float64 { return c.Efficiency }),
	}, nil
}

func topBy(all []models.CampaignSummary, n int, score func(models.CampaignSummary) float64) []models.CampaignSummary {
	out := make([]models.CampaignSummary, len(all))
	copy(out, all)
	sort.SliceStable(out, func(i, j int) bool { return score(out[i]) > score(out[j]) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Filters exposes the vocabulary the dashboard's sidebar needs.
type Filters struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Channels  []string `json:"channels"`
	Campaigns []string `json:"campaigns"`
}

func (s *Service) FilterOptions(channel string) Filters {
	f := Filters{
		Channels:  s.st.Channels(),
		Campaigns: s.st.Campaigns(channel),
	}
	if min, max, ok := s.st.DateRange(); ok {
		f.From = min.Format("2006-01-02")
		f.To = max.Format("2006-01-02")
	}
	return f
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

// clampLimitOffset bounds API pagination at 1000 rows. A negative limit is
// the uncapped path reserved for exports.
func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = n
	} else {
		if limit == 0 {
			limit = n
		}
		if limit > 1000 {
			limit = 1000
		}
	}
	if offset > n {
		offset = n
	}
	return limit, offset
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
