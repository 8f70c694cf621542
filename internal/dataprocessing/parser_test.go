package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "adpulse/internal/errors"
	"adpulse/internal/shared/testutil"
	"adpulse/pkg/contracts/domain"
)

func TestParser_ParseTable(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	p := NewParser(logger)

	ds, err := p.ParseTable(context.Background(), "fixture", domain.StringTable(testutil.BuildTable(testutil.SampleRows()...)))
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	assert.Equal(t, "fixture", ds.Source)
	assert.Equal(t, testutil.FixtureHeader(), ds.Header)

	first := ds.Records[0]
	assert.Equal(t, "2024-01-05", first.Date.Format(domain.DateLayout))
	assert.Equal(t, "Winter Sale", first.CampaignName)
	assert.Equal(t, "25-34", first.Age)
	assert.Equal(t, "female", first.Gender)
	assert.Equal(t, domain.Present(100), first.Cost())
	assert.Equal(t, domain.Present(2), first.Purchases())

	second := ds.Records[1]
	assert.False(t, second.Metric(domain.ColumnFrequency).Valid, "blank cell is absent")
	assert.False(t, second.Metric(domain.ColumnPostEngagements).Valid, "non-numeric cell is absent")

	third := ds.Records[2]
	assert.Equal(t, domain.Present(1200.5), third.Cost())
}

func TestParser_HeaderDetection(t *testing.T) {
	table := domain.Table{
		{"Meta export", nil},
		{},
		{" date ", "Campaign name", "Cost", "Unrelated"},
		{"2024-01-05", "A", "10", "x"},
		{"", "", "", ""},
		{float64(45297), "B", 5.5, nil},
	}

	ds, err := NewParser(nil).ParseTable(context.Background(), "sheet", table)
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len(), "title row and blank rows are skipped")
	assert.Equal(t, "A", ds.Records[0].CampaignName)
	assert.Equal(t, "2024-01-06", ds.Records[1].Date.Format(domain.DateLayout))
	assert.Equal(t, domain.Present(5.5), ds.Records[1].Cost())

	// columns absent from the header read as absent for every row
	assert.False(t, ds.Records[0].Metric(domain.ColumnReach).Valid)
	assert.Empty(t, ds.Records[0].Age)
}

func TestParser_ColumnOrderIrrelevant(t *testing.T) {
	table := domain.Table{
		{"Cost", "On-Facebook purchases", "Campaign name", "Date"},
		{"90", "3", "C", "2024-03-01"},
	}

	ds, err := NewParser(nil).ParseTable(context.Background(), "sheet", table)
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, domain.Present(90), ds.Records[0].Cost())
	assert.Equal(t, domain.Present(3), ds.Records[0].Purchases())
	assert.Equal(t, "C", ds.Records[0].CampaignName)
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name  string
		table domain.Table
		check func(*testing.T, error)
	}{
		{
			name:  "missing date column",
			table: domain.Table{{"Campaign name", "Cost"}, {"A", "1"}},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingDateColumn)
			},
		},
		{
			name:  "empty table",
			table: domain.Table{},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMissingDateColumn)
			},
		},
		{
			name: "malformed date",
			table: domain.Table{
				{"Date", "Cost"},
				{"2024-01-05", "1"},
				{"32/13/2024", "2"},
			},
			check: func(t *testing.T, err error) {
				var mde *MalformedDateError
				require.True(t, errors.As(err, &mde))
				assert.Equal(t, 3, mde.Row)
				assert.Equal(t, "32/13/2024", mde.Value)
				assert.True(t, errors.Is(err, &apperrors.AppError{Type: apperrors.ErrTypeParsing}))
			},
		},
		{
			name: "blank date on a data row",
			table: domain.Table{
				{"Date", "Cost"},
				{"", "5"},
			},
			check: func(t *testing.T, err error) {
				var mde *MalformedDateError
				require.True(t, errors.As(err, &mde))
				assert.Equal(t, 2, mde.Row)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseTable(context.Background(), "sheet", tt.table)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestParser_LogsMissingColumns(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	table := domain.Table{{"Date", "Cost"}, {"2024-01-05", "1"}}

	_, err := NewParser(logger).ParseTable(context.Background(), "sheet", table)
	require.NoError(t, err)
	assert.True(t, logs.ContainsMessage("columns missing from header, values treated as absent"))
}
