package dataprocessing

import (
	"adpulse/pkg/contracts/domain"
)

// BuildCharts returns the grouped bar chart datasets for the selected rows.
func BuildCharts(rows []domain.Record) []domain.ChartSet {
	return []domain.ChartSet{
		campaignChart(rows, domain.ChartCampaignReach, "Reach & Impressions by Campaign",
			domain.ColumnReach, domain.ColumnImpressions),
		campaignChart(rows, domain.ChartCampaignEngagement, "Link Clicks & Engagements by Campaign",
			domain.ColumnLinkClicks, domain.ColumnPostEngagements),
		demographicChart(rows),
	}
}

// campaignChart sums each series column per campaign, in order of first
// appearance.
func campaignChart(rows []domain.Record, name, title string, series ...domain.Column) domain.ChartSet {
	set := domain.ChartSet{
		Name:      name,
		Title:     title,
		Dimension: string(domain.ColumnCampaignName),
		Series:    columnNames(series),
		Points:    []domain.ChartPoint{},
	}

	index := make(map[string]int)
	for _, r := range rows {
		i, ok := index[r.CampaignName]
		if !ok {
			i = len(set.Points)
			index[r.CampaignName] = i
			set.Points = append(set.Points, domain.ChartPoint{
				Label:  r.CampaignName,
				Values: make([]float64, len(series)),
			})
		}
		for s, col := range series {
			set.Points[i].Values[s] += r.Metric(col).OrZero()
		}
	}
	return set
}

// demographicChart plots purchases by age with one bar per gender.
func demographicChart(rows []domain.Record) domain.ChartSet {
	set := domain.ChartSet{
		Name:      domain.ChartDemographicPurchase,
		Title:     "Purchases by Age & Gender",
		Dimension: string(domain.ColumnAge),
		GroupBy:   string(domain.ColumnGender),
		Series:    []string{string(domain.ColumnPurchases)},
		Points:    []domain.ChartPoint{},
	}
	for _, d := range AggregateDemographics(rows) {
		set.Points = append(set.Points, domain.ChartPoint{
			Label:  d.Age,
			Group:  d.Gender,
			Values: []float64{d.Purchases},
		})
	}
	return set
}

func columnNames(cols []domain.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = string(c)
	}
	return out
}
