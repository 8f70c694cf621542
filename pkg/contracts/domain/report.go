package domain

import "time"

// Report is the assembled output of one pipeline run. It is built once and
// not mutated afterwards.
type Report struct {
	View          ViewSelection `json:"view"`
	MonthAnchor   time.Month    `json:"month_anchor"`
	RowCount      int           `json:"row_count"`
	MonthRowCount int           `json:"month_row_count"`

	Spend           SpendSection         `json:"spend"`
	Reach           ReachSection         `json:"reach"`
	Engagement      []MetricTotal        `json:"engagement"`
	Conversion      []MetricTotal        `json:"conversion"`
	Revenue         RevenueSection       `json:"revenue"`
	Video           []MetricTotal        `json:"video"`
	Demographics    []DemographicRow     `json:"demographics"`
	TopCampaigns    []CampaignROAS       `json:"top_campaigns"`
	CostPerPurchase []CostPerPurchaseRow `json:"cost_per_purchase"`
	Charts          []ChartSet           `json:"charts"`
}

// SpendSection holds spend over the selected rows and over the month window.
type SpendSection struct {
	TotalCost   float64 `json:"total_cost"`
	MonthlyCost float64 `json:"monthly_cost"`
}

// ReachSection holds delivery totals. Frequency is the mean over rows that
// carry a value and is absent when none do.
type ReachSection struct {
	Reach       float64 `json:"reach"`
	Impressions float64 `json:"impressions"`
	Frequency   Number  `json:"frequency"`
}

// MetricTotal is the sum of one source column.
type MetricTotal struct {
	Metric Column  `json:"metric"`
	Total  float64 `json:"total"`
}

// RevenueSection holds conversion value and return on ad spend.
type RevenueSection struct {
	Revenue        float64 `json:"revenue"`
	WebsiteRevenue float64 `json:"website_revenue"`
	ROAS           float64 `json:"roas"`
}

// DemographicRow aggregates one (age, gender) audience bucket.
type DemographicRow struct {
	Age         string  `json:"age"`
	Gender      string  `json:"gender"`
	Cost        float64 `json:"cost"`
	Reach       float64 `json:"reach"`
	Impressions float64 `json:"impressions"`
	Purchases   float64 `json:"purchases"`
}

// CampaignROAS is one campaign ranked by return on ad spend. ROAS is absent
// when the campaign has no spend.
type CampaignROAS struct {
	CampaignName  string  `json:"campaign_name"`
	Cost          float64 `json:"cost"`
	PurchaseValue float64 `json:"purchase_value"`
	ROAS          Number  `json:"roas"`
}

// CostPerPurchaseRow is one source row with a defined cost per purchase.
type CostPerPurchaseRow struct {
	CampaignName    string  `json:"campaign_name"`
	Cost            float64 `json:"cost"`
	Purchases       float64 `json:"purchases"`
	CostPerPurchase float64 `json:"cost_per_purchase"`
}

// Chart dataset names
const (
	ChartCampaignReach       = "campaign_reach_impressions"
	ChartCampaignEngagement  = "campaign_clicks_engagements"
	ChartDemographicPurchase = "demographic_purchases"
)

// ChartSet is tabular data for one grouped bar chart. Each point carries one
// value per entry in Series.
type ChartSet struct {
	Name      string       `json:"name"`
	Title     string       `json:"title"`
	Dimension string       `json:"dimension"`
	GroupBy   string       `json:"group_by,omitempty"`
	Series    []string     `json:"series"`
	Points    []ChartPoint `json:"points"`
}

// ChartPoint is one bar group.
type ChartPoint struct {
	Label  string    `json:"label"`
	Group  string    `json:"group,omitempty"`
	Values []float64 `json:"values"`
}

// Chart returns the chart dataset with the given name.
func (r *Report) Chart(name string) (ChartSet, bool) {
	for _, c := range r.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return ChartSet{}, false
}
