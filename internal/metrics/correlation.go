package metrics

import (
	"math"
	"net/url"

	"github.com/mktintel/dashboard-go/internal/models"
)

// correlationFields are the series compared pairwise, in matrix order.
var correlationFields = []string{
	"spend", "impressions", "clicks", "attributed_revenue",
	"total_revenue", "orders", "new_customers", "gross_profit",
}

// Correlations computes the Pearson matrix over the combined daily rows.
// Short or flat series yield 0 for the affected pairs, per the ratio
// invariant (no NaN escapes).
func (s *Service) Correlations(v url.Values) (models.Correlations, error) {
	q, err := s.parseQuery(v)
	if err != nil {
		return models.Correlations{}, err
	}
	rows := s.combinedRows(q)

	series := make([][]float64, len(correlationFields))
	for i := range series {
		series[i] = make([]float64, len(rows))
	}
	for j, r := range rows {
		vals := []float64{
			r.Spend, float64(r.Impressions), float64(r.Clicks), r.AttributedRevenue,
			r.TotalRevenue, float64(r.Orders), float64(r.NewCustomers), r.GrossProfit,
		}
		for i, val := range vals {
			series[i][j] = val
		}
	}

	out := models.Correlations{Fields: correlationFields}
	out.Matrix = make([][]float64, len(series))
	for i := range series {
		out.Matrix[i] = make([]float64, len(series))
		for j := range series {
			out.Matrix[i][j] = Round3(pearson(series[i], series[j]))
		}
	}
	out.SpendVsRevenue = out.Matrix[0][4]
	out.SpendVsOrders = out.Matrix[0][5]
	out.ImpressionsVsRevenue = out.Matrix[1][4]
	out.AttributedVsTotalRev = out.Matrix[3][4]
	return out, nil
}

// pearson returns the sample correlation coefficient, or 0 when either
// series is too short or has no variance.
func pearson(x, y []float64) float64 {
	n := len(x)
	if n < 3 || n != len(y) {
		return 0
	}
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)
	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-meanX, y[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
