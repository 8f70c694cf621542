package dataprocessing

import (
	"context"

	"adpulse/pkg/contracts/domain"
)

// Generator produces a report for a view of a dataset.
type Generator interface {
	Run(ctx context.Context, ds *domain.Dataset, sel domain.ViewSelection) (*domain.Report, error)
}

// Options configures report generation
type Options struct {
	// Parallel runs the aggregators concurrently
	Parallel bool

	// TopCampaigns limits the campaign ROAS ranking
	TopCampaigns int
}

// DefaultOptions returns default pipeline options
func DefaultOptions() Options {
	return Options{
		Parallel:     false,
		TopCampaigns: 10,
	}
}
