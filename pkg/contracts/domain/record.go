package domain

import (
	"sort"
	"time"
)

// Column is a source spreadsheet header, matched by name.
type Column string

// Identity columns
const (
	ColumnDate         Column = "Date"
	ColumnCampaignName Column = "Campaign name"
	ColumnAge          Column = "Age"
	ColumnGender       Column = "Gender"
)

// Delivery columns
const (
	ColumnCost        Column = "Cost"
	ColumnReach       Column = "Reach"
	ColumnImpressions Column = "Impressions"
	ColumnFrequency   Column = "Frequency"
)

// Engagement columns
const (
	ColumnLinkClicks             Column = "Link clicks"
	ColumnUniqueLinkClicks       Column = "Unique link clicks"
	ColumnLinkCTR                Column = "CTR (link click-through rate)"
	ColumnCostPerUniqueLinkClick Column = "Cost per unique link click"
	ColumnPostEngagements        Column = "Post engagements"
	ColumnPostReactions          Column = "Post reactions"
	ColumnPostComments           Column = "Post comments"
	ColumnPostShares             Column = "Post shares"
	ColumnPageEngagements        Column = "Page engagements"
)

// Conversion columns
const (
	ColumnPurchases               Column = "On-Facebook purchases"
	ColumnWebsiteAddsToCart       Column = "Website adds to cart"
	ColumnViewContent             Column = "On-Facebook view content"
	ColumnLeads                   Column = "On-Facebook leads"
	ColumnLandingPageViews        Column = "Landing page views"
	ColumnCostPerWebsitePurchase  Column = "Cost per website purchase"
	ColumnCostPerWebsiteAddToCart Column = "Cost per website add to cart"
	ColumnPurchaseValue           Column = "Purchase conversion value"
	ColumnWebsitePurchaseValue    Column = "Website purchases conversion value"
)

// Video columns
const (
	ColumnVideoWatches25  Column = "Video watches at 25%"
	ColumnVideoWatches50  Column = "Video watches at 50%"
	ColumnVideoWatches75  Column = "Video watches at 75%"
	ColumnVideoWatches100 Column = "Video watches at 100%"
	ColumnThruPlays       Column = "ThruPlay actions"
	ColumnCostPerThruPlay Column = "Cost per ThruPlay"
)

// EngagementColumns are summed into the engagement section, in display order.
var EngagementColumns = []Column{
	ColumnLinkClicks,
	ColumnUniqueLinkClicks,
	ColumnLinkCTR,
	ColumnCostPerUniqueLinkClick,
	ColumnPostEngagements,
	ColumnPostReactions,
	ColumnPostComments,
	ColumnPostShares,
	ColumnPageEngagements,
}

// ConversionColumns are summed into the conversion section, in display order.
var ConversionColumns = []Column{
	ColumnPurchases,
	ColumnWebsiteAddsToCart,
	ColumnViewContent,
	ColumnLeads,
	ColumnLandingPageViews,
	ColumnCostPerWebsitePurchase,
	ColumnCostPerWebsiteAddToCart,
}

// RevenueColumns are the conversion value columns.
var RevenueColumns = []Column{
	ColumnPurchaseValue,
	ColumnWebsitePurchaseValue,
}

// VideoColumns are summed into the video section, in display order.
var VideoColumns = []Column{
	ColumnVideoWatches25,
	ColumnVideoWatches50,
	ColumnVideoWatches75,
	ColumnVideoWatches100,
	ColumnThruPlays,
	ColumnCostPerThruPlay,
}

// NumericColumns returns every column coerced to a Number.
func NumericColumns() []Column {
	cols := []Column{ColumnCost, ColumnReach, ColumnImpressions, ColumnFrequency}
	cols = append(cols, EngagementColumns...)
	cols = append(cols, ConversionColumns...)
	cols = append(cols, RevenueColumns...)
	cols = append(cols, VideoColumns...)
	return cols
}

// Record is one row of the ads export: a date, campaign and audience bucket
// with its delivery metrics.
type Record struct {
	Date         time.Time         `json:"date"`
	CampaignName string            `json:"campaign_name"`
	Age          string            `json:"age"`
	Gender       string            `json:"gender"`
	Metrics      map[Column]Number `json:"metrics"`
}

// Metric returns the coerced value of col, absent when the column is unknown.
func (r Record) Metric(col Column) Number {
	if r.Metrics == nil {
		return Absent()
	}
	return r.Metrics[col]
}

// Cost returns the row spend.
func (r Record) Cost() Number { return r.Metric(ColumnCost) }

// Purchases returns the on-platform purchase count.
func (r Record) Purchases() Number { return r.Metric(ColumnPurchases) }

// PurchaseValue returns the purchase conversion value.
func (r Record) PurchaseValue() Number { return r.Metric(ColumnPurchaseValue) }

// Dataset is the ordered set of records loaded from one source read. It is
// treated as read-only once built.
type Dataset struct {
	Source   string    `json:"source"`
	Header   []string  `json:"header"`
	Records  []Record  `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Dates returns the distinct record dates in ascending order.
func (d *Dataset) Dates() []time.Time {
	if d == nil {
		return nil
	}
	seen := make(map[time.Time]struct{}, len(d.Records))
	dates := make([]time.Time, 0)
	for _, r := range d.Records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
