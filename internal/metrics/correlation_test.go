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

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{40, 30, 20, 10}, -1},
		{"flat series", []float64{1, 2, 3, 4}, []float64{5, 5, 5, 5}, 0},
		{"too short", []float64{1, 2}, []float64{2, 4}, 0},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, pearson(tt.x, tt.y), 1e-9)
		})
	}
}

func TestCorrelations(t *testing.T) {
	st := store.NewMemoryStore()
	for i := 1; i <= 4; i++ {
		d := time.Date(2024, 3, i, 0, 0, 0, 0, time.UTC)
		st.AddChannel(models.ChannelRecord{
			Date: d, Channel: "Facebook", Campaign: "FB_A", Tactic: "Video", State: "CA",
			Impressions: i * 100, Clicks: i * 10, Spend: float64(i * 10), AttributedRevenue: float64(i * 50),
		})
		st.AddBusiness(models.BusinessRecord{
			Date: d, Orders: 10, NewOrders: 6, NewCustomers: 5,
			TotalRevenue: float64(i * 100), GrossProfit: float64(i * 40), COGS: float64(i * 60),
		})
	}
	svc := NewService(st)

	out, err := svc.Correlations(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, correlationFields, out.Fields)
	require.Len(t, out.Matrix, len(correlationFields))

	// spend and total revenue scale together day by day
	assert.Equal(t, 1.0, out.SpendVsRevenue)
	assert.Equal(t, 1.0, out.ImpressionsVsRevenue)
	assert.Equal(t, 1.0, out.AttributedVsTotalRev)
	// orders are flat, so the pair degrades to 0 instead of NaN
	assert.Equal(t, 0.0, out.SpendVsOrders)
}

func TestCorrelationsEmptyDataset(t *testing.T) {
	svc := NewService(store.NewMemoryStore())

	out, err := svc.Correlations(url.Values{})
	require.NoError(t, err)
	for _, row := range out.Matrix {
		for _, v := range row {
			assert.Zero(t, v)
		}
	}
}
