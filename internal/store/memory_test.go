package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mktintel/dashboard-go/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddChannelNormalizesToDay(t *testing.T) {
	st := NewMemoryStore()
	loc := time.FixedZone("X", 3*3600)
	st.AddChannel(models.ChannelRecord{
		Date: time.Date(2024, 3, 4, 17, 45, 12, 0, loc), Channel: "Facebook",
	})

	rows := st.ChannelRows(time.Time{}, time.Time{}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, date(2024, 3, 4), rows[0].Date)
}

func TestChannelRowsRangeAndFilter(t *testing.T) {
	st := NewMemoryStore()
	for d := 1; d <= 5; d++ {
		st.AddChannel(models.ChannelRecord{Date: date(2024, 3, d), Channel: "Facebook", Spend: float64(d)})
	}
	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 3), Channel: "Google", Spend: 100})

	assert.Len(t, st.ChannelRows(time.Time{}, time.Time{}, nil), 6)
	assert.Len(t, st.ChannelRows(date(2024, 3, 2), date(2024, 3, 4), nil), 4)
	// open bounds
	assert.Len(t, st.ChannelRows(date(2024, 3, 4), time.Time{}, nil), 2)
	assert.Len(t, st.ChannelRows(time.Time{}, date(2024, 3, 2), nil), 2)

	fb := st.ChannelRows(time.Time{}, time.Time{}, func(r models.ChannelRecord) bool {
		return r.Channel == "Facebook"
	})
	assert.Len(t, fb, 5)
}

func TestBusinessRowsSorted(t *testing.T) {
	st := NewMemoryStore()
	st.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 5), Orders: 2})
	st.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 3), Orders: 1})
	st.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 4), Orders: 3})

	rows := st.BusinessRows(time.Time{}, time.Time{})
	require.Len(t, rows, 3)
	assert.Equal(t, date(2024, 3, 3), rows[0].Date)
	assert.Equal(t, date(2024, 3, 4), rows[1].Date)
	assert.Equal(t, date(2024, 3, 5), rows[2].Date)
}

func TestDailyChannelTotalsCollapsesCampaigns(t *testing.T) {
	st := NewMemoryStore()
	d := date(2024, 3, 4)
	st.AddChannel(models.ChannelRecord{Date: d, Channel: "Facebook", Campaign: "A", Impressions: 100, Clicks: 10, Spend: 50, AttributedRevenue: 200})
	st.AddChannel(models.ChannelRecord{Date: d, Channel: "Facebook", Campaign: "B", Impressions: 300, Clicks: 20, Spend: 25, AttributedRevenue: 100})
	st.AddChannel(models.ChannelRecord{Date: d, Channel: "Google", Campaign: "C", Impressions: 600, Clicks: 30, Spend: 25, AttributedRevenue: 300})

	totals := st.DailyChannelTotals(time.Time{}, time.Time{}, nil)
	require.Len(t, totals, 1)

	got := totals[d]
	assert.Equal(t, 1000, got.Impressions)
	assert.Equal(t, 60, got.Clicks)
	assert.Equal(t, 100.0, got.Spend)
	assert.Equal(t, 600.0, got.AttributedRevenue)
}

func TestDateRange(t *testing.T) {
	st := NewMemoryStore()
	_, _, ok := st.DateRange()
	assert.False(t, ok)

	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 4), Channel: "Facebook"})
	st.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 8)})
	st.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 2)})

	min, max, ok := st.DateRange()
	require.True(t, ok)
	assert.Equal(t, date(2024, 3, 2), min)
	assert.Equal(t, date(2024, 3, 8), max)
}

func TestChannelsAndCampaigns(t *testing.T) {
	st := NewMemoryStore()
	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 4), Channel: "Google", Campaign: "G_B"})
	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 4), Channel: "Facebook", Campaign: "FB_A"})
	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 5), Channel: "Facebook", Campaign: "FB_A"})

	assert.Equal(t, []string{"Facebook", "Google"}, st.Channels())
	assert.Equal(t, []string{"FB_A", "G_B"}, st.Campaigns(""))
	assert.Equal(t, []string{"G_B"}, st.Campaigns("Google"))
}

func TestMarkSeen(t *testing.T) {
	st := NewMemoryStore()
	assert.True(t, st.MarkSeen("a"))
	assert.False(t, st.MarkSeen("a"))
}

func TestAdoptReplacesDataset(t *testing.T) {
	st := NewMemoryStore()
	assert.True(t, st.Empty())
	st.AddChannel(models.ChannelRecord{Date: date(2024, 3, 4), Channel: "Facebook"})
	st.MarkSeen("old")
	assert.False(t, st.Empty())

	staged := NewMemoryStore()
	staged.AddBusiness(models.BusinessRecord{Date: date(2024, 3, 5), Orders: 7})
	staged.MarkSeen("new")

	st.Adopt(staged)
	assert.Empty(t, st.ChannelRows(time.Time{}, time.Time{}, nil))
	require.Len(t, st.BusinessRows(time.Time{}, time.Time{}), 1)
	// the seen-set swaps with the data
	assert.True(t, st.MarkSeen("old"))
	assert.False(t, st.MarkSeen("new"))
}
