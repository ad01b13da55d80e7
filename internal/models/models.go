package models

import "time"

// ChannelRecord is one reporting row for one channel/campaign/day as
// delivered by a platform export, after header normalization and cleaning.
type ChannelRecord struct {
	Date              time.Time
	Channel           string
	Campaign          string
	Tactic            string
	State             string
	Impressions       int
	Clicks            int
	Spend             float64
	AttributedRevenue float64
}

// BusinessRecord is one day of storefront performance.
type BusinessRecord struct {
	Date         time.Time
	Orders       int
	NewOrders    int
	NewCustomers int
	TotalRevenue float64
	GrossProfit  float64
	COGS         float64
}

// DailyChannelTotals holds channel activity summed across campaigns for one
// day. This is the marketing side of the date join.
type DailyChannelTotals struct {
	Date              time.Time
	Impressions       int
	Clicks            int
	Spend             float64
	AttributedRevenue float64
}

// CombinedRow is a business day left-joined with that day's marketing totals.
// Days without marketing activity carry zeros, never missing fields.
type CombinedRow struct {
	Date                string  `json:"date"`
	Orders              int     `json:"orders"`
	NewOrders           int     `json:"new_orders"`
	RepeatOrders        int     `json:"repeat_orders"`
	NewCustomers        int     `json:"new_customers"`
	TotalRevenue        float64 `json:"total_revenue"`
	GrossProfit         float64 `json:"gross_profit"`
	COGS                float64 `json:"cogs"`
	AOV                 float64 `json:"aov"`
	GrossMargin         float64 `json:"gross_margin"`
	Impressions         int     `json:"impressions"`
	Clicks              int     `json:"clicks"`
	Spend               float64 `json:"spend"`
	AttributedRevenue   float64 `json:"attributed_revenue"`
	CTR                 float64 `json:"ctr"`
	CPC                 float64 `json:"cpc"`
	ROAS                float64 `json:"roas"`
	MarketingEfficiency float64 `json:"marketing_efficiency"`
	CPA                 float64 `json:"cpa"`
}

// TimeSeriesPoint is a combined day plus trailing 7-day statistics.
type TimeSeriesPoint struct {
	CombinedRow
	Revenue7dAvg float64 `json:"revenue_7d_avg"`
	Spend7dAvg   float64 `json:"spend_7d_avg"`
	ROAS7d       float64 `json:"roas_7d"`
}

// WeeklyBucket re-groups combined days by ISO week.
type WeeklyBucket struct {
	Year              int     `json:"year"`
	Week              int     `json:"week"`
	TotalRevenue      float64 `json:"total_revenue"`
	Orders            int     `json:"orders"`
	NewCustomers      int     `json:"new_customers"`
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	ROAS              float64 `json:"roas"`
}

// Summary is the executive roll-up over the filtered window.
type Summary struct {
	From                string  `json:"from"`
	To                  string  `json:"to"`
	Days                int     `json:"days"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalSpend          float64 `json:"total_spend"`
	AttributedRevenue   float64 `json:"attributed_revenue"`
	TotalOrders         int     `json:"total_orders"`
	NewCustomers        int     `json:"new_customers"`
	GrossProfit         float64 `json:"gross_profit"`
	ROAS                float64 `json:"roas"`
	AOV                 float64 `json:"aov"`
	CAC                 float64 `json:"cac"`
	MarketingEfficiency float64 `json:"marketing_efficiency"`
	GrossMargin         float64 `json:"gross_margin"`
	AvgDailyRevenue     float64 `json:"avg_daily_revenue"`
	AvgDailySpend       float64 `json:"avg_daily_spend"`
}

// ChannelSummary aggregates one channel over the filtered window.
type ChannelSummary struct {
	Channel           string  `json:"channel"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	ROAS              float64 `json:"roas"`
	ActiveDays        int     `json:"active_days"`
	AvgDailySpend     float64 `json:"avg_daily_spend"`
	Campaigns         int     `json:"campaigns"`
}

// CampaignSummary aggregates one (channel, campaign) pair.
type CampaignSummary struct {
	Channel           string  `json:"channel"`
	Campaign          string  `json:"campaign"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	ROAS              float64 `json:"roas"`
	Efficiency        float64 `json:"efficiency"`
	ActiveDays        int     `json:"active_days"`
}

// StateSummary aggregates marketing delivery by reported state/region.
type StateSummary struct {
	State             string  `json:"state"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	Spend             float64 `json:"spend"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	CTR               float64 `json:"ctr"`
	ROAS              float64 `json:"roas"`
}

// ChannelFunnel is the impressions -> clicks -> conversions path for one
// channel. Conversions are estimated from attributed revenue and mean AOV.
type ChannelFunnel struct {
	Channel           string  `json:"channel"`
	Impressions       int     `json:"impressions"`
	Clicks            int     `json:"clicks"`
	AttributedRevenue float64 `json:"attributed_revenue"`
	CTR               float64 `json:"ctr"`
	EstConversions    float64 `json:"est_conversions"`
	CVR               float64 `json:"cvr"`
}

// Funnel is the overall path plus the per-channel comparison.
type Funnel struct {
	Impressions    int             `json:"impressions"`
	Clicks         int             `json:"clicks"`
	EstConversions float64         `json:"est_conversions"`
	CTR            float64         `json:"ctr"`
	CVR            float64         `json:"cvr"`
	AvgAOV         float64         `json:"avg_aov"`
	Channels       []ChannelFunnel `json:"channels"`
}

// WeekdayStat is the average performance for one day of the week.
type WeekdayStat struct {
	Weekday         int     `json:"weekday"`
	Day             string  `json:"day"`
	Days            int     `json:"days"`
	AvgRevenue      float64 `json:"avg_revenue"`
	AvgSpend        float64 `json:"avg_spend"`
	AvgNewCustomers float64 `json:"avg_new_customers"`
}

// Seasonality groups time-of-period patterns in the combined data.
type Seasonality struct {
	Weekdays          []WeekdayStat  `json:"weekdays"`
	BestDay           string         `json:"best_day"`
	WorstDay          string         `json:"worst_day"`
	WeekendAvgRevenue float64        `json:"weekend_avg_revenue"`
	WeekdayAvgRevenue float64        `json:"weekday_avg_revenue"`
	Weeks             []WeeklyBucket `json:"weeks"`
}

// TopPerformers lists the leading campaigns under three orderings.
type TopPerformers struct {
	ByROAS       []CampaignSummary `json:"by_roas"`
	ByRevenue    []CampaignSummary `json:"by_revenue"`
	ByEfficiency []CampaignSummary `json:"by_efficiency"`
}

// Correlations is the Pearson matrix over the combined daily series, with
// the headline pairs pulled out.
type Correlations struct {
	Fields               []string    `json:"fields"`
	Matrix               [][]float64 `json:"matrix"`
	SpendVsRevenue       float64     `json:"spend_vs_revenue"`
	SpendVsOrders        float64     `json:"spend_vs_orders"`
	ImpressionsVsRevenue float64     `json:"impressions_vs_revenue"`
	AttributedVsTotalRev float64     `json:"attributed_vs_total_revenue"`
}

// Insight is one narrative card for the dashboard.
type Insight struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
}
