package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/mktintel/dashboard-go/internal/models"
)

var combinedHeader = []string{
	"date", "orders", "new_orders", "repeat_orders", "new_customers",
	"total_revenue", "gross_profit", "cogs", "aov", "gross_margin",
	"impressions", "clicks", "spend", "attributed_revenue",
	"ctr", "cpc", "roas", "marketing_efficiency", "cpa",
}

// WriteCombinedCSV streams the joined dataset with the canonical header.
func WriteCombinedCSV(w io.Writer, rows []models.CombinedRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(combinedHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date,
			strconv.Itoa(r.Orders),
			strconv.Itoa(r.NewOrders),
			strconv.Itoa(r.RepeatOrders),
			strconv.Itoa(r.NewCustomers),
			ffmt(r.TotalRevenue),
			ffmt(r.GrossProfit),
			ffmt(r.COGS),
			ffmt(r.AOV),
			ffmt(r.GrossMargin),
			strconv.Itoa(r.Impressions),
			strconv.Itoa(r.Clicks),
			ffmt(r.Spend),
			ffmt(r.AttributedRevenue),
			ffmt(r.CTR),
			ffmt(r.CPC),
			ffmt(r.ROAS),
			ffmt(r.MarketingEfficiency),
			ffmt(r.CPA),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ffmt(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
