package dataprocessing

import (
	"sort"

	"adpulse/pkg/contracts/domain"
)

// sum adds col across rows. Absent cells contribute nothing.
func sum(rows []domain.Record, col domain.Column) float64 {
	var total float64
	for _, r := range rows {
		total += r.Metric(col).OrZero()
	}
	return total
}

// mean averages the present values of col, absent when there are none.
func mean(rows []domain.Record, col domain.Column) domain.Number {
	var total float64
	var n int
	for _, r := range rows {
		if v := r.Metric(col); v.Valid {
			total += v.Value
			n++
		}
	}
	if n == 0 {
		return domain.Absent()
	}
	return domain.Present(total / float64(n))
}

// AggregateSpend sums cost over the selected rows and the month window.
func AggregateSpend(filtered, month []domain.Record) domain.SpendSection {
	return domain.SpendSection{
		TotalCost:   sum(filtered, domain.ColumnCost),
		MonthlyCost: sum(month, domain.ColumnCost),
	}
}

// AggregateReach sums reach and impressions and averages frequency.
func AggregateReach(rows []domain.Record) domain.ReachSection {
	return domain.ReachSection{
		Reach:       sum(rows, domain.ColumnReach),
		Impressions: sum(rows, domain.ColumnImpressions),
		Frequency:   mean(rows, domain.ColumnFrequency),
	}
}

// SumColumns totals each column, preserving the order of cols.
func SumColumns(rows []domain.Record, cols []domain.Column) []domain.MetricTotal {
	out := make([]domain.MetricTotal, len(cols))
	for i, col := range cols {
		out[i] = domain.MetricTotal{Metric: col, Total: sum(rows, col)}
	}
	return out
}

// AggregateEngagement totals the engagement columns.
func AggregateEngagement(rows []domain.Record) []domain.MetricTotal {
	return SumColumns(rows, domain.EngagementColumns)
}

// AggregateConversion totals the conversion columns.
func AggregateConversion(rows []domain.Record) []domain.MetricTotal {
	return SumColumns(rows, domain.ConversionColumns)
}

// AggregateVideo totals the video columns.
func AggregateVideo(rows []domain.Record) []domain.MetricTotal {
	return SumColumns(rows, domain.VideoColumns)
}

// AggregateRevenue sums conversion value. ROAS is revenue over totalCost and
// 0 when there was no spend.
func AggregateRevenue(rows []domain.Record, totalCost float64) domain.RevenueSection {
	revenue := sum(rows, domain.ColumnPurchaseValue)
	var roas float64
	if totalCost > 0 {
		roas = revenue / totalCost
	}
	return domain.RevenueSection{
		Revenue:        revenue,
		WebsiteRevenue: sum(rows, domain.ColumnWebsitePurchaseValue),
		ROAS:           roas,
	}
}

type demographicKey struct {
	age, gender string
}

// AggregateDemographics groups rows by (age, gender), sorted by age then
// gender.
func AggregateDemographics(rows []domain.Record) []domain.DemographicRow {
	groups := make(map[demographicKey]*domain.DemographicRow)
	for _, r := range rows {
		key := demographicKey{r.Age, r.Gender}
		g, ok := groups[key]
		if !ok {
			g = &domain.DemographicRow{Age: r.Age, Gender: r.Gender}
			groups[key] = g
		}
		g.Cost += r.Cost().OrZero()
		g.Reach += r.Metric(domain.ColumnReach).OrZero()
		g.Impressions += r.Metric(domain.ColumnImpressions).OrZero()
		g.Purchases += r.Purchases().OrZero()
	}

	out := make([]domain.DemographicRow, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Age != out[j].Age {
			return out[i].Age < out[j].Age
		}
		return out[i].Gender < out[j].Gender
	})
	return out
}

// AggregateCampaignROAS ranks campaigns by purchase value over cost and keeps
// the first limit. Campaigns without spend have no ROAS and rank last; ties
// are ordered by name.
func AggregateCampaignROAS(rows []domain.Record, limit int) []domain.CampaignROAS {
	index := make(map[string]int)
	var out []domain.CampaignROAS
	for _, r := range rows {
		i, ok := index[r.CampaignName]
		if !ok {
			i = len(out)
			index[r.CampaignName] = i
			out = append(out, domain.CampaignROAS{CampaignName: r.CampaignName})
		}
		out[i].Cost += r.Cost().OrZero()
		out[i].PurchaseValue += r.PurchaseValue().OrZero()
	}

	for i := range out {
		out[i].ROAS = domain.Present(out[i].PurchaseValue).Div(domain.Present(out[i].Cost))
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].ROAS, out[j].ROAS
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Value != b.Value {
			return a.Value > b.Value
		}
		return out[i].CampaignName < out[j].CampaignName
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []domain.CampaignROAS{}
	}
	return out
}

// AggregateCostPerPurchase divides cost by purchases row by row, dropping
// rows where either side or the ratio is undefined. Input order is kept.
func AggregateCostPerPurchase(rows []domain.Record) []domain.CostPerPurchaseRow {
	out := make([]domain.CostPerPurchaseRow, 0, len(rows))
	for _, r := range rows {
		cost, purchases := r.Cost(), r.Purchases()
		cpp := cost.Div(purchases)
		if !cost.Valid || !purchases.Valid || !cpp.Valid {
			continue
		}
		out = append(out, domain.CostPerPurchaseRow{
			CampaignName:    r.CampaignName,
			Cost:            cost.Value,
			Purchases:       purchases.Value,
			CostPerPurchase: cpp.Value,
		})
	}
	return out
}
