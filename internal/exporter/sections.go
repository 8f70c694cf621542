package exporter

import (
	"adpulse/pkg/contracts/domain"
)

// Section is one titled table of a report. Cells hold a string, a float64
// or a domain.Number.
type Section struct {
	Title   string
	Headers []string
	Rows    [][]any
}

// Sections flattens a report into its nine display tables, in dashboard
// order.
func Sections(r *domain.Report) []Section {
	return []Section{
		{
			Title:   "Spend Overview",
			Headers: []string{"Metric", "Value"},
			Rows: [][]any{
				{"Total Spend (Selected)", r.Spend.TotalCost},
				{"Total Spend (Month)", r.Spend.MonthlyCost},
			},
		},
		{
			Title:   "Reach & Impressions",
			Headers: []string{"Metric", "Value"},
			Rows: [][]any{
				{string(domain.ColumnReach), r.Reach.Reach},
				{string(domain.ColumnImpressions), r.Reach.Impressions},
				{string(domain.ColumnFrequency), r.Reach.Frequency},
			},
		},
		totalsSection("Engagement Metrics", r.Engagement),
		totalsSection("Conversion Metrics", r.Conversion),
		{
			Title:   "Revenue & ROAS",
			Headers: []string{"Metric", "Value"},
			Rows: [][]any{
				{string(domain.ColumnPurchaseValue), r.Revenue.Revenue},
				{string(domain.ColumnWebsitePurchaseValue), r.Revenue.WebsiteRevenue},
				{"ROAS", r.Revenue.ROAS},
			},
		},
		totalsSection("Video Metrics", r.Video),
		demographicsSection(r.Demographics),
		campaignsSection(r.TopCampaigns),
		costPerPurchaseSection(r.CostPerPurchase),
	}
}

func totalsSection(title string, totals []domain.MetricTotal) Section {
	s := Section{Title: title, Headers: []string{"Metric", "Total"}}
	for _, t := range totals {
		s.Rows = append(s.Rows, []any{string(t.Metric), t.Total})
	}
	return s
}

func demographicsSection(rows []domain.DemographicRow) Section {
	s := Section{
		Title: "Audience Demographics",
		Headers: []string{
			string(domain.ColumnAge), string(domain.ColumnGender), string(domain.ColumnCost),
			string(domain.ColumnReach), string(domain.ColumnImpressions), string(domain.ColumnPurchases),
		},
	}
	for _, d := range rows {
		s.Rows = append(s.Rows, []any{d.Age, d.Gender, d.Cost, d.Reach, d.Impressions, d.Purchases})
	}
	return s
}

func campaignsSection(rows []domain.CampaignROAS) Section {
	s := Section{
		Title: "Top Campaigns by ROAS",
		Headers: []string{
			string(domain.ColumnCampaignName), string(domain.ColumnCost),
			string(domain.ColumnPurchaseValue), "ROAS",
		},
	}
	for _, c := range rows {
		s.Rows = append(s.Rows, []any{c.CampaignName, c.Cost, c.PurchaseValue, c.ROAS})
	}
	return s
}

func costPerPurchaseSection(rows []domain.CostPerPurchaseRow) Section {
	s := Section{
		Title: "Cost per Purchase",
		Headers: []string{
			string(domain.ColumnCampaignName), string(domain.ColumnCost),
			string(domain.ColumnPurchases), "Cost per purchase",
		},
	}
	for _, c := range rows {
		s.Rows = append(s.Rows, []any{c.CampaignName, c.Cost, c.Purchases, c.CostPerPurchase})
	}
	return s
}

// cellString renders a section cell for text-based formats.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatFloat(x)
	case domain.Number:
		return formatNumber(x)
	default:
		return ""
	}
}
