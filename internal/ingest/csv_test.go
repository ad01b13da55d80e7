package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"impression", "impressions"},
		{" Impression ", "impressions"},
		{"attributed revenue", "attributed_revenue"},
		{"region", "state"},
		{"# of orders", "orders"},
		{"# of new orders", "new_orders"},
		{"Total Revenue", "total_revenue"},
		{"COGS", "cogs"},
		{"clicks", "clicks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, canonical(tt.in), "canonical(%q)", tt.in)
	}
}

func TestParseDateFlexible(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-05", "03/05/2024", "2024/03/05", " 2024-03-05 "} {
		assert.Equal(t, want, parseDateFlexible(in), "parseDateFlexible(%q)", in)
	}
	assert.True(t, parseDateFlexible("not-a-date").IsZero())
	assert.True(t, parseDateFlexible("").IsZero())
}

func TestParseFloatLoose(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"150.5", 150.5},
		{"$150.50", 150.5},
		{"1,200", 1200},
		{"$1,200.75", 1200.75},
		{" 42 ", 42},
		{"-40", 0},
		{"n/a", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFloatLoose(tt.in), "parseFloatLoose(%q)", tt.in)
	}
}

func TestParseChannelFeed(t *testing.T) {
	data := "date,tactic,state,campaign,impression,clicks,spend,attributed revenue\n" +
		"2024-03-04,Video,CA,Spring_Sale,\"1,200\",30,$150.50,\"$1,000.00\"\n" +
		"03/05/2024,Image,,Spring_Sale,500,10,25,-40\n" +
		"not-a-date,Video,NY,Bad_Row,1,1,1,1\n"

	rows, skipped, err := parseChannelFeed(strings.NewReader(data), "Facebook")
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, "Facebook", r.Channel)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "Spring_Sale", r.Campaign)
	assert.Equal(t, "CA", r.State)
	assert.Equal(t, 1200, r.Impressions)
	assert.Equal(t, 30, r.Clicks)
	assert.Equal(t, 150.5, r.Spend)
	assert.Equal(t, 1000.0, r.AttributedRevenue)

	// blank state falls back, negative revenue clamps to 0
	assert.Equal(t, "Unknown", rows[1].State)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rows[1].Date)
	assert.Zero(t, rows[1].AttributedRevenue)
}

func TestParseChannelFeedRegionAlias(t *testing.T) {
	data := "date,campaign,region,impressions,clicks,spend,attributed_revenue\n" +
		"2024-03-04,Brand,TX,100,5,10,40\n"

	rows, _, err := parseChannelFeed(strings.NewReader(data), "Google")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "TX", rows[0].State)
	assert.Equal(t, "Unknown", rows[0].Tactic)
}

func TestParseFloatSigned(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"3200", 3200},
		{"-500", -500},
		{"-$1,200.50", -1200.5},
		{"$3,200", 3200},
		{"n/a", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFloatSigned(tt.in), "parseFloatSigned(%q)", tt.in)
	}
}

func TestParseBusinessFeed(t *testing.T) {
	data := "date,# of orders,# of new orders,new customers,total revenue,gross profit,COGS\n" +
		"2024-03-04,100,60,50,\"8,000\",3200,4800\n" +
		"2024-03-05,20,10,8,1000,-500,1500\n" +
		"garbage,1,1,1,1,1,1\n"

	rows, skipped, err := parseBusinessFeed(strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, rows, 2)

	r := rows[0]
	assert.Equal(t, 100, r.Orders)
	assert.Equal(t, 60, r.NewOrders)
	assert.Equal(t, 50, r.NewCustomers)
	assert.Equal(t, 8000.0, r.TotalRevenue)
	assert.Equal(t, 3200.0, r.GrossProfit)
	assert.Equal(t, 4800.0, r.COGS)

	// a loss-making day keeps its sign
	assert.Equal(t, -500.0, rows[1].GrossProfit)
}

func TestReadAllHeaderOnly(t *testing.T) {
	_, _, err := readAll(strings.NewReader("date,clicks\n"))
	assert.ErrorContains(t, err, "no data rows")
}
