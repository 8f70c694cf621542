package dataprocessing

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"adpulse/pkg/contracts/domain"
)

// Pipeline computes reports from datasets. It holds no state between runs
// and is safe for concurrent use.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

var _ Generator = (*Pipeline)(nil)

// NewPipeline creates a pipeline. A non-positive TopCampaigns falls back to
// the default.
func NewPipeline(opts Options, logger *slog.Logger) *Pipeline {
	if opts.TopCampaigns <= 0 {
		opts.TopCampaigns = DefaultOptions().TopCampaigns
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:   opts,
		logger: logger.With(slog.String("component", "pipeline")),
	}
}

// Run selects the rows for sel and assembles the report. It returns
// ErrNoDataForSelection when the view matches nothing.
func (p *Pipeline) Run(ctx context.Context, ds *domain.Dataset, sel domain.ViewSelection) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := Select(ds, sel)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		View:          sel,
		MonthAnchor:   s.MonthAnchor,
		RowCount:      len(s.Filtered),
		MonthRowCount: len(s.Month),
	}

	if p.opts.Parallel {
		err = p.aggregateParallel(ctx, s, report)
	} else {
		err = p.aggregate(ctx, s, report)
	}
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "report assembled",
		slog.String("view", sel.String()),
		slog.Int("rows", report.RowCount),
		slog.Int("month_rows", report.MonthRowCount),
		slog.Bool("parallel", p.opts.Parallel))

	return report, nil
}

// steps returns one closure per report section. Each writes only its own
// field, so they may run in any order.
func (p *Pipeline) steps(s Selection, r *domain.Report) []func() {
	rows := s.Filtered
	return []func(){
		func() {
			r.Spend = AggregateSpend(rows, s.Month)
			r.Revenue = AggregateRevenue(rows, r.Spend.TotalCost)
		},
		func() { r.Reach = AggregateReach(rows) },
		func() { r.Engagement = AggregateEngagement(rows) },
		func() { r.Conversion = AggregateConversion(rows) },
		func() { r.Video = AggregateVideo(rows) },
		func() { r.Demographics = AggregateDemographics(rows) },
		func() { r.TopCampaigns = AggregateCampaignROAS(rows, p.opts.TopCampaigns) },
		func() { r.CostPerPurchase = AggregateCostPerPurchase(rows) },
		func() { r.Charts = BuildCharts(rows) },
	}
}

func (p *Pipeline) aggregate(ctx context.Context, s Selection, r *domain.Report) error {
	for _, step := range p.steps(s, r) {
		if err := ctx.Err(); err != nil {
			return err
		}
		step()
	}
	return nil
}

func (p *Pipeline) aggregateParallel(ctx context.Context, s Selection, r *domain.Report) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, step := range p.steps(s, r) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			step()
			return nil
		})
	}
	return g.Wait()
}
