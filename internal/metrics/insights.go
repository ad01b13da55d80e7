package metrics

import (
	"fmt"
	"net/url"

	"github.com/mktintel/dashboard-go/internal/models"
)

// Insights builds the narrative cards: channel leader, marketing efficiency,
// revenue trend and acquisition economics. Cards whose inputs are missing are
// simply omitted.
func (s *Service) Insights(v url.Values) ([]models.Insight, error) {
	summary, err := s.Summary(v)
	if err != nil {
		return nil, err
	}
	channels, err := s.Channels(v)
	if err != nil {
		return nil, err
	}
	series, err := s.TimeSeries(v)
	if err != nil {
		return nil, err
	}

	var out []models.Insight

	if best := bestChannel(channels); best != nil {
		out = append(out, models.Insight{
			Type:        "channel_performance",
			Title:       fmt.Sprintf("%s is the Top Performing Channel", best.Channel),
			Description: fmt.Sprintf("%s delivers the highest ROAS at %.2fx", best.Channel, best.ROAS),
			Metric:      "ROAS",
			Value:       best.ROAS,
		})
	}

	if summary.TotalSpend > 0 {
		out = append(out, models.Insight{
			Type:        "efficiency",
			Title:       "Marketing Efficiency",
			Description: fmt.Sprintf("Every $1 spent on marketing generates $%.2f in total revenue", summary.MarketingEfficiency),
			Metric:      "Revenue per $ spent",
			Value:       summary.MarketingEfficiency,
		})
	}

	if growth, ok := revenueTrend(series); ok {
		direction := "Increasing"
		if growth < 0 {
			direction = "Decreasing"
		}
		out = append(out, models.Insight{
			Type:        "trend",
			Title:       fmt.Sprintf("Revenue Trend is %s", direction),
			Description: fmt.Sprintf("Daily revenue has changed by %.1f%% over the period", growth),
			Metric:      "Revenue Growth",
			Value:       Round2(growth),
		})
	}

	if summary.AOV > 0 && summary.CAC > 0 {
		ratio := Round2(summary.CAC / summary.AOV)
		out = append(out, models.Insight{
			Type:        "customer_acquisition",
			Title:       "Customer Acquisition Efficiency",
			Description: fmt.Sprintf("Customer acquisition cost ($%.2f) is %.1fx the average order value", summary.CAC, ratio),
			Metric:      "CAC to AOV Ratio",
			Value:       ratio,
		})
	}

	return out, nil
}

func bestChannel(channels []models.ChannelSummary) *models.ChannelSummary {
	var best *models.ChannelSummary
	for i := range channels {
		if best == nil || channels[i].ROAS > best.ROAS {
			best = &channels[i]
		}
	}
	return best
}

// revenueTrend compares the mean daily revenue of the trailing window against
// the leading one. The window is 30 days, shrinking to half the series when
// shorter; under two weeks of data there is no trend worth reporting.
func revenueTrend(series []models.TimeSeriesPoint) (float64, bool) {
	window := 30
	if len(series)/2 < window {
		window = len(series) / 2
	}
	if window < 7 {
		return 0, false
	}
	var early, recent float64
	for i := 0; i < window; i++ {
		early += series[i].TotalRevenue
		recent += series[len(series)-window+i].TotalRevenue
	}
	early /= float64(window)
	recent /= float64(window)
	if early <= 0 {
		return 0, false
	}
	return (recent - early) / early * 100, true
}
