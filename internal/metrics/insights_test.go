package metrics

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktintel/dashboard-go/internal/models"
	"github.com/mktintel/dashboard-go/internal/store"
)

func insightTypes(ins []models.Insight) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.Type
	}
	return out
}

func TestInsights(t *testing.T) {
	svc := NewService(seedStore(t))

	out, err := svc.Insights(url.Values{})
	require.NoError(t, err)

	// three days of data: no trend card yet
	assert.Equal(t, []string{"channel_performance", "efficiency", "customer_acquisition"}, insightTypes(out))

	assert.Equal(t, "Google is the Top Performing Channel", out[0].Title)
	assert.Equal(t, 5.0, out[0].Value)
	assert.Contains(t, out[1].Description, "$32.50 in total revenue")
}

func TestInsightsEmptyDataset(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	out, err := svc.Insights(url.Values{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInsightsTrendCard(t *testing.T) {
	st := store.NewMemoryStore()
	for i := 0; i < 30; i++ {
		st.AddBusiness(models.BusinessRecord{
			Date:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Orders: 10, NewOrders: 6, NewCustomers: 5,
			TotalRevenue: 1000 + float64(i)*100, GrossProfit: 400, COGS: 600,
		})
	}
	svc := NewService(st)

	out, err := svc.Insights(url.Values{})
	require.NoError(t, err)
	require.NotEmpty(t, out)

	var trend *models.Insight
	for i := range out {
		if out[i].Type == "trend" {
			trend = &out[i]
		}
	}
	require.NotNil(t, trend)
	assert.Equal(t, "Revenue Trend is Increasing", trend.Title)
	assert.Greater(t, trend.Value, 0.0)
}

func TestRevenueTrendTooShort(t *testing.T) {
	series := make([]models.TimeSeriesPoint, 10)
	_, ok := revenueTrend(series)
	assert.False(t, ok)
}
