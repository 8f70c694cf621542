package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"adpulse/internal/shared/testutil"
	"adpulse/pkg/contracts/domain"
)

func day(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// rec builds a record from raw cell text, coercing like the parser does.
func rec(date, campaign, age, gender string, cells map[domain.Column]string) domain.Record {
	r := domain.Record{
		Date:         day(date),
		CampaignName: campaign,
		Age:          age,
		Gender:       gender,
		Metrics:      make(map[domain.Column]domain.Number),
	}
	for col, v := range cells {
		r.Metrics[col] = CoerceNumber(v)
	}
	return r
}

func dataset(records ...domain.Record) *domain.Dataset {
	return &domain.Dataset{Source: "test", Records: records}
}

func sampleDataset(t *testing.T) *domain.Dataset {
	t.Helper()
	table := domain.StringTable(testutil.BuildTable(testutil.SampleRows()...))
	ds, err := NewParser(nil).ParseTable(context.Background(), "fixture", table)
	require.NoError(t, err)
	return ds
}
