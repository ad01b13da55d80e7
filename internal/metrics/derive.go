package metrics

import (
	"math"

	"github.com/mktintel/dashboard-go/internal/models"
)

// SafeDiv implements the ratio invariant: any non-positive denominator yields
// 0, never NaN or Inf.
func SafeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return a / b
}

func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func Round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

// CTR returns the click-through rate as a percentage.
func CTR(clicks, impressions int) float64 {
	return SafeDiv(float64(clicks), float64(impressions)) * 100
}

// CPC returns the cost per click.
func CPC(spend float64, clicks int) float64 {
	return SafeDiv(spend, float64(clicks))
}

// ROAS returns attributed revenue per unit of spend.
func ROAS(attributedRevenue, spend float64) float64 {
	return SafeDiv(attributedRevenue, spend)
}

// DeriveCombined joins one business day with that day's marketing totals and
// derives the joint metrics. A zero-valued totals argument represents a day
// with no marketing activity.
func DeriveCombined(b models.BusinessRecord, t models.DailyChannelTotals) models.CombinedRow {
	return models.CombinedRow{
		Date:                b.Date.Format("2006-01-02"),
		Orders:              b.Orders,
		NewOrders:           b.NewOrders,
		RepeatOrders:        b.Orders - b.NewOrders,
		NewCustomers:        b.NewCustomers,
		TotalRevenue:        Round2(b.TotalRevenue),
		GrossProfit:         Round2(b.GrossProfit),
		COGS:                Round2(b.COGS),
		AOV:                 Round2(SafeDiv(b.TotalRevenue, float64(b.Orders))),
		GrossMargin:         Round2(SafeDiv(b.GrossProfit, b.TotalRevenue) * 100),
		Impressions:         t.Impressions,
		Clicks:              t.Clicks,
		Spend:               Round2(t.Spend),
		AttributedRevenue:   Round2(t.AttributedRevenue),
		CTR:                 Round2(CTR(t.Clicks, t.Impressions)),
		CPC:                 Round3(CPC(t.Spend, t.Clicks)),
		ROAS:                Round2(ROAS(t.AttributedRevenue, t.Spend)),
		MarketingEfficiency: Round2(SafeDiv(b.TotalRevenue, t.Spend)),
		CPA:                 Round2(SafeDiv(t.Spend, float64(b.NewCustomers))),
	}
}
