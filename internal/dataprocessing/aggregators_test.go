package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/pkg/contracts/domain"
)

func TestAggregateSpend(t *testing.T) {
	filtered := []domain.Record{
		rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnCost: "100"}),
		rec("2024-01-05", "B", "", "", map[domain.Column]string{domain.ColumnCost: "abc"}),
	}
	month := append(filtered,
		rec("2024-01-09", "C", "", "", map[domain.Column]string{domain.ColumnCost: "1,000"}))

	got := AggregateSpend(filtered, month)
	assert.Equal(t, 100.0, got.TotalCost)
	assert.Equal(t, 1100.0, got.MonthlyCost)
}

func TestAggregateReach(t *testing.T) {
	tests := []struct {
		name     string
		rows     []domain.Record
		wantFreq domain.Number
	}{
		{
			name: "mean skips absent values",
			rows: []domain.Record{
				rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnReach: "10", domain.ColumnImpressions: "20", domain.ColumnFrequency: "2"}),
				rec("2024-01-05", "B", "", "", map[domain.Column]string{domain.ColumnReach: "5", domain.ColumnImpressions: "5", domain.ColumnFrequency: "n/a"}),
				rec("2024-01-05", "C", "", "", map[domain.Column]string{domain.ColumnFrequency: "1"}),
			},
			wantFreq: domain.Present(1.5),
		},
		{
			name: "no frequency values",
			rows: []domain.Record{
				rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnReach: "10", domain.ColumnImpressions: "20"}),
			},
			wantFreq: domain.Absent(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateReach(tt.rows)
			assert.Equal(t, tt.wantFreq, got.Frequency)
		})
	}

	got := AggregateReach(tests[0].rows)
	assert.Equal(t, 15.0, got.Reach)
	assert.Equal(t, 25.0, got.Impressions)
}

func TestSumColumns_PreservesOrder(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnLinkClicks: "3", domain.ColumnPostShares: "1"}),
		rec("2024-01-05", "B", "", "", map[domain.Column]string{domain.ColumnLinkClicks: "4", domain.ColumnPostShares: "x"}),
	}

	got := AggregateEngagement(rows)
	require.Len(t, got, len(domain.EngagementColumns))
	for i, col := range domain.EngagementColumns {
		assert.Equal(t, col, got[i].Metric)
	}
	assert.Equal(t, 7.0, got[0].Total)
	assert.Equal(t, 1.0, got[7].Total)

	assert.Len(t, AggregateConversion(rows), 7)
	assert.Len(t, AggregateVideo(rows), 6)
}

func TestAggregateRevenue(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnPurchaseValue: "300", domain.ColumnWebsitePurchaseValue: "40"}),
		rec("2024-01-05", "B", "", "", map[domain.Column]string{domain.ColumnPurchaseValue: "100"}),
	}

	tests := []struct {
		name      string
		totalCost float64
		wantROAS  float64
	}{
		{"positive spend", 200, 2},
		{"zero spend", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateRevenue(rows, tt.totalCost)
			assert.Equal(t, 400.0, got.Revenue)
			assert.Equal(t, 40.0, got.WebsiteRevenue)
			assert.Equal(t, tt.wantROAS, got.ROAS)
		})
	}
}

func TestAggregateDemographics(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "A", "35-44", "male", map[domain.Column]string{domain.ColumnCost: "10", domain.ColumnPurchases: "1"}),
		rec("2024-01-05", "A", "25-34", "male", map[domain.Column]string{domain.ColumnCost: "20"}),
		rec("2024-01-05", "B", "25-34", "female", map[domain.Column]string{domain.ColumnCost: "5", domain.ColumnReach: "50", domain.ColumnPurchases: "2"}),
		rec("2024-01-05", "C", "35-44", "male", map[domain.Column]string{domain.ColumnCost: "bad", domain.ColumnPurchases: "3"}),
	}

	got := AggregateDemographics(rows)
	require.Len(t, got, 3)
	assert.Equal(t, domain.DemographicRow{Age: "25-34", Gender: "female", Cost: 5, Reach: 50, Purchases: 2}, got[0])
	assert.Equal(t, domain.DemographicRow{Age: "25-34", Gender: "male", Cost: 20}, got[1])
	assert.Equal(t, domain.DemographicRow{Age: "35-44", Gender: "male", Cost: 10, Purchases: 4}, got[2])
}

func TestAggregateCampaignROAS(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "Zero", "", "", map[domain.Column]string{domain.ColumnCost: "0", domain.ColumnPurchaseValue: "100"}),
		rec("2024-01-05", "Low", "", "", map[domain.Column]string{domain.ColumnCost: "100", domain.ColumnPurchaseValue: "50"}),
		rec("2024-01-05", "High", "", "", map[domain.Column]string{domain.ColumnCost: "10", domain.ColumnPurchaseValue: "40"}),
		rec("2024-01-05", "High", "", "", map[domain.Column]string{domain.ColumnCost: "10", domain.ColumnPurchaseValue: "40"}),
		rec("2024-01-05", "AlsoLow", "", "", map[domain.Column]string{domain.ColumnCost: "2", domain.ColumnPurchaseValue: "1"}),
	}

	got := AggregateCampaignROAS(rows, 10)
	require.Len(t, got, 4)
	assert.Equal(t, "High", got[0].CampaignName)
	assert.Equal(t, domain.Present(4), got[0].ROAS)
	assert.Equal(t, 20.0, got[0].Cost)
	// equal ROAS ties break on name
	assert.Equal(t, "AlsoLow", got[1].CampaignName)
	assert.Equal(t, "Low", got[2].CampaignName)
	assert.Equal(t, "Zero", got[3].CampaignName)
	assert.False(t, got[3].ROAS.Valid)

	top := AggregateCampaignROAS(rows, 2)
	assert.Equal(t, []string{"High", "AlsoLow"}, []string{top[0].CampaignName, top[1].CampaignName})

	assert.Empty(t, AggregateCampaignROAS(nil, 10))
	assert.NotNil(t, AggregateCampaignROAS(nil, 10))
}

func TestAggregateCostPerPurchase(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "A", "", "", map[domain.Column]string{domain.ColumnCost: "100", domain.ColumnPurchases: "4"}),
		rec("2024-01-05", "B", "", "", map[domain.Column]string{domain.ColumnCost: "100", domain.ColumnPurchases: "0"}),
		rec("2024-01-05", "C", "", "", map[domain.Column]string{domain.ColumnCost: "100", domain.ColumnPurchases: ""}),
		rec("2024-01-05", "D", "", "", map[domain.Column]string{domain.ColumnCost: "x", domain.ColumnPurchases: "2"}),
		rec("2024-01-05", "E", "", "", map[domain.Column]string{domain.ColumnCost: "9", domain.ColumnPurchases: "3"}),
	}

	got := AggregateCostPerPurchase(rows)
	require.Len(t, got, 2)
	assert.Equal(t, domain.CostPerPurchaseRow{CampaignName: "A", Cost: 100, Purchases: 4, CostPerPurchase: 25}, got[0])
	assert.Equal(t, domain.CostPerPurchaseRow{CampaignName: "E", Cost: 9, Purchases: 3, CostPerPurchase: 3}, got[1])
}

func TestBuildCharts(t *testing.T) {
	rows := []domain.Record{
		rec("2024-01-05", "A", "25-34", "female", map[domain.Column]string{
			domain.ColumnReach: "10", domain.ColumnImpressions: "20", domain.ColumnLinkClicks: "1", domain.ColumnPostEngagements: "2", domain.ColumnPurchases: "1",
		}),
		rec("2024-01-05", "B", "25-34", "male", map[domain.Column]string{domain.ColumnReach: "5"}),
		rec("2024-01-05", "A", "25-34", "female", map[domain.Column]string{
			domain.ColumnReach: "1", domain.ColumnImpressions: "abc", domain.ColumnPurchases: "2",
		}),
	}

	charts := BuildCharts(rows)
	require.Len(t, charts, 3)

	reach := charts[0]
	assert.Equal(t, domain.ChartCampaignReach, reach.Name)
	assert.Equal(t, []string{"Reach", "Impressions"}, reach.Series)
	require.Len(t, reach.Points, 2)
	assert.Equal(t, domain.ChartPoint{Label: "A", Values: []float64{11, 20}}, reach.Points[0])
	assert.Equal(t, domain.ChartPoint{Label: "B", Values: []float64{5, 0}}, reach.Points[1])

	engagement := charts[1]
	assert.Equal(t, domain.ChartCampaignEngagement, engagement.Name)
	assert.Equal(t, []string{"Link clicks", "Post engagements"}, engagement.Series)
	assert.Equal(t, []float64{1, 2}, engagement.Points[0].Values)

	demo := charts[2]
	assert.Equal(t, domain.ChartDemographicPurchase, demo.Name)
	assert.Equal(t, "Gender", demo.GroupBy)
	require.Len(t, demo.Points, 2)
	assert.Equal(t, domain.ChartPoint{Label: "25-34", Group: "female", Values: []float64{3}}, demo.Points[0])
}
