package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mktintel/dashboard-go/internal/models"
)

// Report bundles everything the workbook export carries.
type Report struct {
	Summary   models.Summary
	Channels  []models.ChannelSummary
	Campaigns []models.CampaignSummary
	Daily     []models.CombinedRow
	Insights  []models.Insight
}

// WriteWorkbook renders the report as an XLSX workbook with Summary,
// Channels, Campaigns and Daily sheets.
func WriteWorkbook(w io.Writer, rep Report) error {
	f, err := buildWorkbook(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func buildWorkbook(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}

	summaryRows := [][]any{
		{"From", rep.Summary.From},
		{"To", rep.Summary.To},
		{"Days", rep.Summary.Days},
		{"Total Revenue", rep.Summary.TotalRevenue},
		{"Marketing Spend", rep.Summary.TotalSpend},
		{"Attributed Revenue", rep.Summary.AttributedRevenue},
		{"Orders", rep.Summary.TotalOrders},
		{"New Customers", rep.Summary.NewCustomers},
		{"Gross Profit", rep.Summary.GrossProfit},
		{"ROAS", rep.Summary.ROAS},
		{"AOV", rep.Summary.AOV},
		{"CAC", rep.Summary.CAC},
		{"Marketing Efficiency", rep.Summary.MarketingEfficiency},
		{"Gross Margin %", rep.Summary.GrossMargin},
	}
	for i, kv := range summaryRows {
		if err := setRow(f, "Summary", i+1, kv...); err != nil {
			return nil, err
		}
	}
	row := len(summaryRows) + 2
	for _, ins := range rep.Insights {
		if err := setRow(f, "Summary", row, ins.Title, ins.Description); err != nil {
			return nil, err
		}
		row++
	}

	if err := channelSheet(f, rep.Channels); err != nil {
		return nil, err
	}
	if err := campaignSheet(f, rep.Campaigns); err != nil {
		return nil, err
	}
	if err := dailySheet(f, rep.Daily); err != nil {
		return nil, err
	}
	return f, nil
}

func channelSheet(f *excelize.File, channels []models.ChannelSummary) error {
	if _, err := f.NewSheet("Channels"); err != nil {
		return err
	}
	if err := setRow(f, "Channels", 1,
		"Channel", "Impressions", "Clicks", "Spend", "Attributed Revenue",
		"CTR %", "CPC", "ROAS", "Active Days", "Avg Daily Spend", "Campaigns"); err != nil {
		return err
	}
	for i, c := range channels {
		if err := setRow(f, "Channels", i+2,
			c.Channel, c.Impressions, c.Clicks, c.Spend, c.AttributedRevenue,
			c.CTR, c.CPC, c.ROAS, c.ActiveDays, c.AvgDailySpend, c.Campaigns); err != nil {
			return err
		}
	}
	return nil
}

func campaignSheet(f *excelize.File, campaigns []models.CampaignSummary) error {
	if _, err := f.NewSheet("Campaigns"); err != nil {
		return err
	}
	if err := setRow(f, "Campaigns", 1,
		"Channel", "Campaign", "Impressions", "Clicks", "Spend",
		"Attributed Revenue", "CTR %", "CPC", "ROAS", "Active Days"); err != nil {
		return err
	}
	for i, c := range campaigns {
		if err := setRow(f, "Campaigns", i+2,
			c.Channel, c.Campaign, c.Impressions, c.Clicks, c.Spend,
			c.AttributedRevenue, c.CTR, c.CPC, c.ROAS, c.ActiveDays); err != nil {
			return err
		}
	}
	return nil
}

func dailySheet(f *excelize.File, daily []models.CombinedRow) error {
	if _, err := f.NewSheet("Daily"); err != nil {
		return err
	}
	if err := setRow(f, "Daily", 1,
		"Date", "Orders", "New Orders", "New Customers", "Total Revenue",
		"Gross Profit", "AOV", "Gross Margin %", "Impressions", "Clicks",
		"Spend", "Attributed Revenue", "CTR %", "CPC", "ROAS",
		"Marketing Efficiency", "CPA"); err != nil {
		return err
	}
	for i, d := range daily {
		if err := setRow(f, "Daily", i+2,
			d.Date, d.Orders, d.NewOrders, d.NewCustomers, d.TotalRevenue,
			d.GrossProfit, d.AOV, d.GrossMargin, d.Impressions, d.Clicks,
			d.Spend, d.AttributedRevenue, d.CTR, d.CPC, d.ROAS,
			d.MarketingEfficiency, d.CPA); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell %d,%d: %w", col+1, row, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
