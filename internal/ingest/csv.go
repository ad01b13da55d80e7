package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mktintel/dashboard-go/internal/models"
)

// Vendor exports disagree on column naming; everything maps onto the
// canonical schema before parsing.
var headerAliases = map[string]string{
	"impression":         "impressions",
	"attributed revenue": "attributed_revenue",
	"attributed_revenue": "attributed_revenue",
	"region":             "state",
	"# of orders":        "orders",
	"# of new orders":    "new_orders",
	"new customers":      "new_customers",
	"total revenue":      "total_revenue",
	"gross profit":       "gross_profit",
}

var dateFormats = []string{
	"2006-01-02", "01/02/2006", "02/01/2006", "2006/01/02", time.RFC3339,
}

func canonical(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := headerAliases[n]; ok {
		return alias
	}
	return n
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[canonical(col)] = i
	}
	return idx
}

func field(row []string, idx map[string]int, key string) string {
	i, ok := idx[key]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDateFlexible(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseFloat coerces a numeric cell, tolerating currency symbols and
// thousands separators. Unparseable cells report false.
func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// parseFloatLoose is for delivery metrics, which cannot be negative; bad or
// negative cells become 0.
func parseFloatLoose(s string) float64 {
	f, ok := parseFloat(s)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// parseFloatSigned keeps the sign: the business feed can legitimately report
// a negative gross profit day.
func parseFloatSigned(s string) float64 {
	f, _ := parseFloat(s)
	return f
}

func parseIntLoose(s string) int {
	return int(parseFloatLoose(s))
}

func coalesce(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// parseChannelFeed reads one platform export, tagging every row with the
// channel name. Rows without a parseable date are skipped and counted.
func parseChannelFeed(r io.Reader, channel string) ([]models.ChannelRecord, int, error) {
	rows, idx, err := readAll(r)
	if err != nil {
		return nil, 0, err
	}
	var out []models.ChannelRecord
	skipped := 0
	for _, row := range rows {
		d := parseDateFlexible(field(row, idx, "date"))
		if d.IsZero() {
			skipped++
			continue
		}
		out = append(out, models.ChannelRecord{
			Date:              d,
			Channel:           channel,
			Campaign:          coalesce(field(row, idx, "campaign"), "Unknown"),
			Tactic:            coalesce(field(row, idx, "tactic"), "Unknown"),
			State:             coalesce(field(row, idx, "state"), "Unknown"),
			Impressions:       parseIntLoose(field(row, idx, "impressions")),
			Clicks:            parseIntLoose(field(row, idx, "clicks")),
			Spend:             parseFloatLoose(field(row, idx, "spend")),
			AttributedRevenue: parseFloatLoose(field(row, idx, "attributed_revenue")),
		})
	}
	return out, skipped, nil
}

// parseBusinessFeed reads the storefront performance export.
func parseBusinessFeed(r io.Reader) ([]models.BusinessRecord, int, error) {
	rows, idx, err := readAll(r)
	if err != nil {
		return nil, 0, err
	}
	var out []models.BusinessRecord
	skipped := 0
	for _, row := range rows {
		d := parseDateFlexible(field(row, idx, "date"))
		if d.IsZero() {
			skipped++
			continue
		}
		out = append(out, models.BusinessRecord{
			Date:         d,
			Orders:       parseIntLoose(field(row, idx, "orders")),
			NewOrders:    parseIntLoose(field(row, idx, "new_orders")),
			NewCustomers: parseIntLoose(field(row, idx, "new_customers")),
			TotalRevenue: parseFloatSigned(field(row, idx, "total_revenue")),
			GrossProfit:  parseFloatSigned(field(row, idx, "gross_profit")),
			COGS:         parseFloatSigned(field(row, idx, "cogs")),
		})
	}
	return out, skipped, nil
}

func readAll(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("csv read: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("csv has no data rows")
	}
	return records[1:], headerIndex(records[0]), nil
}
