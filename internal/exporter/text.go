package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	apperrors "adpulse/internal/errors"
	"adpulse/pkg/contracts/domain"
)

// TableConfig sets the column widths of the terminal tables
type TableConfig struct {
	NameWidth  int
	ValueWidth int
}

// DefaultTableConfig returns widths that fit the longest metric names
func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:  36,
		ValueWidth: 18,
	}
}

// TextReporter renders a report as plain text tables for the terminal.
type TextReporter struct {
	config TableConfig
	tmpl   *template.Template
}

// NewTextReporter creates a text reporter with the default table widths
func NewTextReporter() *TextReporter {
	r := &TextReporter{config: DefaultTableConfig()}
	r.tmpl = template.Must(template.New("report").Funcs(r.funcs()).Parse(reportTemplate))
	return r
}

// ContentType implements Writer
func (r *TextReporter) ContentType() string { return "text/plain; charset=utf-8" }

// Extension implements Writer
func (r *TextReporter) Extension() string { return "txt" }

// Write implements Writer
func (r *TextReporter) Write(w io.Writer, report *domain.Report) error {
	if err := r.tmpl.Execute(w, report); err != nil {
		return apperrors.NewExportError("render text report", err)
	}
	return nil
}

func (r *TextReporter) funcs() template.FuncMap {
	return template.FuncMap{
		"row": func(name string, value string) string {
			return fmt.Sprintf("| %-*s | %*s |", r.config.NameWidth, name, r.config.ValueWidth, value)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+",
				strings.Repeat("-", r.config.NameWidth+2),
				strings.Repeat("-", r.config.ValueWidth+2))
		},
		"currency": formatCurrency,
		"count":    formatCount,
		"decimal":  func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"ratio":    formatRatio,
		"frequency": func(n domain.Number) string {
			return fmt.Sprintf("%.2f", n.OrZero())
		},
		"viewLabel": func(v domain.ViewSelection) string {
			if v.Type == domain.ViewRealTime {
				return "Real-time view for " + v.Anchor.Format(domain.DateLayout)
			}
			return "Historical view (all data)"
		},
		"str":   func(c domain.Column) string { return string(c) },
		"inc":   func(i int) int { return i + 1 },
		"total": formatTotal,
	}
}

const reportTemplate = `Meta Ads Dashboard
{{viewLabel .View}} | {{.RowCount}} rows | month {{.MonthAnchor}} ({{.MonthRowCount}} rows)

=== 1. Spend Overview ===
{{separator}}
{{row "Total Spend (Selected)" (currency .Spend.TotalCost)}}
{{row "Total Spend (Month)" (currency .Spend.MonthlyCost)}}
{{separator}}

=== 2. Reach & Impressions ===
{{separator}}
{{row "Reach" (count .Reach.Reach)}}
{{row "Impressions" (count .Reach.Impressions)}}
{{row "Frequency" (frequency .Reach.Frequency)}}
{{separator}}

=== 3. Engagement Metrics ===
{{separator}}
{{range .Engagement}}{{row (str .Metric) (total .Total)}}
{{end}}{{separator}}

=== 4. Conversion Metrics ===
{{separator}}
{{range .Conversion}}{{row (str .Metric) (total .Total)}}
{{end}}{{separator}}

=== 5. Revenue & ROAS ===
{{separator}}
{{row "Purchase Conversion Value" (currency .Revenue.Revenue)}}
{{row "Website Purchases Conversion Value" (currency .Revenue.WebsiteRevenue)}}
{{row "ROAS" (decimal .Revenue.ROAS)}}
{{separator}}

=== 6. Video Metrics ===
{{separator}}
{{range .Video}}{{row (str .Metric) (total .Total)}}
{{end}}{{separator}}

=== 7. Audience Demographics ===
{{range .Demographics}}{{.Age}} / {{.Gender}}: cost {{currency .Cost}}, reach {{count .Reach}}, impressions {{count .Impressions}}, purchases {{count .Purchases}}
{{else}}no audience rows
{{end}}
=== 8. Top Campaigns by ROAS ===
{{range $i, $c := .TopCampaigns}}{{inc $i}}. {{$c.CampaignName}}: ROAS {{ratio $c.ROAS}} (cost {{currency $c.Cost}}, value {{currency $c.PurchaseValue}})
{{else}}no campaigns
{{end}}
=== 9. Cost per Purchase ===
{{range .CostPerPurchase}}{{.CampaignName}}: {{currency .CostPerPurchase}} ({{count .Purchases}} purchases, cost {{currency .Cost}})
{{else}}no rows with purchases
{{end}}`
