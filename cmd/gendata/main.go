// Command gendata writes deterministic sample feeds for local development,
// using the vendor header quirks the real exports ship with.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	tactics = []string{"Video", "Image", "Carousel", "Text", "Shopping"}
	states  = []string{"CA", "NY", "TX", "FL", "IL", "PA", "OH", "MI", "GA", "NC"}

	facebookCampaigns = []string{"FB_Brand_Awareness", "FB_Conversion", "FB_Retargeting", "FB_Lookalike"}
	googleCampaigns   = []string{"Google_Search_Brand", "Google_Search_Generic", "Google_Display", "Google_Shopping"}
	tiktokCampaigns   = []string{"TT_Video_Ads", "TT_Spark_Ads", "TT_Brand_Takeover"}
)

func main() {
	out := flag.String("out", "data", "output directory")
	days := flag.Int("days", 120, "days of history")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal(err)
	}
	rng := rand.New(rand.NewSource(*seed))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	writeChannel(rng, *out, "Facebook.csv", facebookCampaigns, tactics, start, *days, 0.10, facebookRow)
	writeChannel(rng, *out, "Google.csv", googleCampaigns, tactics, start, *days, 0.10, googleRow)
	writeChannel(rng, *out, "TikTok.csv", tiktokCampaigns, []string{"Video", "Image"}, start, *days, 0.15, tiktokRow)
	writeBusiness(rng, *out, start, *days)

	fmt.Println("sample feeds written to", *out)
}

type rowFn func(rng *rand.Rand, campaign string) (impressions, clicks int, spend, revenue float64)

func facebookRow(rng *rand.Rand, campaign string) (int, int, float64, float64) {
	impressions := rng.ExpFloat64() * 5000
	ctr := maxF(0.001, rng.NormFloat64()*0.005+0.015)
	clicks := int(impressions * ctr)
	cpc := maxF(0.1, rng.NormFloat64()*0.3+0.8)
	spend := float64(clicks) * cpc
	roas := 2.5 + rng.NormFloat64()*0.8
	switch {
	case strings.Contains(campaign, "Conversion"):
		roas = 4.0 + rng.NormFloat64()*1.0
	case strings.Contains(campaign, "Retargeting"):
		roas = 6.0 + rng.NormFloat64()*1.5
	}
	return int(impressions), clicks, spend, spend * maxF(0.5, roas)
}

func googleRow(rng *rand.Rand, campaign string) (int, int, float64, float64) {
	impressions := rng.ExpFloat64() * 3000
	ctr := maxF(0.001, rng.NormFloat64()*0.008+0.025)
	clicks := int(impressions * ctr)
	cpc := maxF(0.1, rng.NormFloat64()*0.2+0.6)
	if strings.Contains(campaign, "Search") {
		cpc = maxF(0.1, rng.NormFloat64()*0.4+1.2)
	}
	spend := float64(clicks) * cpc
	roas := 3.5 + rng.NormFloat64()*1.0
	switch {
	case strings.Contains(campaign, "Brand"):
		roas = 8.0 + rng.NormFloat64()*2.0
	case strings.Contains(campaign, "Shopping"):
		roas = 5.0 + rng.NormFloat64()*1.5
	}
	return int(impressions), clicks, spend, spend * maxF(0.5, roas)
}

func tiktokRow(rng *rand.Rand, _ string) (int, int, float64, float64) {
	impressions := rng.ExpFloat64() * 8000
	ctr := maxF(0.001, rng.NormFloat64()*0.006+0.02)
	clicks := int(impressions * ctr)
	cpc := maxF(0.1, rng.NormFloat64()*0.2+0.5)
	spend := float64(clicks) * cpc
	roas := 3.0 + rng.NormFloat64()*1.5
	return int(impressions), clicks, spend, spend * maxF(0.5, roas)
}

func writeChannel(rng *rand.Rand, dir, name string, campaigns, tacticPool []string, start time.Time, days int, gap float64, fn rowFn) {
	w, f := newWriter(dir, name)
	defer f.Close()
	// vendor exports use singular "impression" and a spaced revenue column
	must(w.Write([]string{"date", "tactic", "state", "campaign", "impression", "clicks", "spend", "attributed revenue"}))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		for _, campaign := range campaigns {
			if rng.Float64() < gap {
				continue
			}
			imp, clicks, spend, revenue := fn(rng, campaign)
			must(w.Write([]string{
				date,
				tacticPool[rng.Intn(len(tacticPool))],
				states[rng.Intn(len(states))],
				campaign,
				strconv.Itoa(imp),
				strconv.Itoa(clicks),
				money(spend),
				money(revenue),
			}))
		}
	}
	w.Flush()
	must(w.Error())
}

func writeBusiness(rng *rand.Rand, dir string, start time.Time, days int) {
	w, f := newWriter(dir, "Business.csv")
	defer f.Close()
	must(w.Write([]string{"date", "# of orders", "# of new orders", "new customers", "total revenue", "gross profit", "COGS"}))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		base := 150 + float64(i)*0.5 + rng.NormFloat64()*20
		switch date.Weekday() {
		case time.Saturday, time.Sunday:
			base *= 1.3
		case time.Monday:
			base *= 0.8
		}
		orders := int(maxF(50, base))
		newOrders := int(float64(orders) * (0.6 + rng.Float64()*0.2))
		newCustomers := int(float64(newOrders) * (0.85 + rng.Float64()*0.10))
		aov := maxF(50, rng.NormFloat64()*15+85)
		revenue := float64(orders) * aov
		margin := maxF(0.2, rng.NormFloat64()*0.05+0.4)
		profit := revenue * margin
		must(w.Write([]string{
			date.Format("2006-01-02"),
			strconv.Itoa(orders),
			strconv.Itoa(newOrders),
			strconv.Itoa(newCustomers),
			money(revenue),
			money(profit),
			money(revenue - profit),
		}))
	}
	w.Flush()
	must(w.Error())
}

func newWriter(dir, name string) (*csv.Writer, *os.File) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.Fatal(err)
	}
	return csv.NewWriter(f), f
}

func money(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
