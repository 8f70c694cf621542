package testutil

import (
	"adpulse/pkg/contracts/domain"
)

// AdsRow describes one export row for fixtures. Cells holds raw text keyed by
// column; columns left out are written as empty cells.
type AdsRow struct {
	Date     string
	Campaign string
	Age      string
	Gender   string
	Cells    map[domain.Column]string
}

// FixtureHeader is the full export header in source order.
func FixtureHeader() []string {
	header := []string{
		string(domain.ColumnDate),
		string(domain.ColumnCampaignName),
		string(domain.ColumnAge),
		string(domain.ColumnGender),
	}
	for _, c := range domain.NumericColumns() {
		header = append(header, string(c))
	}
	return header
}

// BuildTable renders rows as a raw string table with a header row.
func BuildTable(rows ...AdsRow) [][]string {
	header := FixtureHeader()
	table := [][]string{header}
	for _, r := range rows {
		line := make([]string, len(header))
		line[0] = r.Date
		line[1] = r.Campaign
		line[2] = r.Age
		line[3] = r.Gender
		for i := 4; i < len(header); i++ {
			line[i] = r.Cells[domain.Column(header[i])]
		}
		table = append(table, line)
	}
	return table
}

// SampleRows is a small two-day, two-campaign export used across tests.
func SampleRows() []AdsRow {
	return []AdsRow{
		{
			Date: "2024-01-05", Campaign: "Winter Sale", Age: "25-34", Gender: "female",
			Cells: map[domain.Column]string{
				domain.ColumnCost: "100", domain.ColumnReach: "1000", domain.ColumnImpressions: "1500",
				domain.ColumnFrequency: "1.5", domain.ColumnLinkClicks: "40", domain.ColumnPostEngagements: "60",
				domain.ColumnPurchases: "2", domain.ColumnPurchaseValue: "500",
				domain.ColumnWebsitePurchaseValue: "120", domain.ColumnVideoWatches25: "300",
			},
		},
		{
			Date: "2024-01-05", Campaign: "Brand Awareness", Age: "35-44", Gender: "male",
			Cells: map[domain.Column]string{
				domain.ColumnCost: "50", domain.ColumnReach: "800", domain.ColumnImpressions: "900",
				domain.ColumnFrequency: "", domain.ColumnLinkClicks: "10", domain.ColumnPostEngagements: "abc",
				domain.ColumnPurchases: "0", domain.ColumnPurchaseValue: "0",
			},
		},
		{
			Date: "2024-02-10", Campaign: "Winter Sale", Age: "25-34", Gender: "female",
			Cells: map[domain.Column]string{
				domain.ColumnCost: "1,200.50", domain.ColumnReach: "5000", domain.ColumnImpressions: "7000",
				domain.ColumnFrequency: "1.4", domain.ColumnPurchases: "10", domain.ColumnPurchaseValue: "3000",
			},
		},
	}
}
