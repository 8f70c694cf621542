package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adpulse/pkg/contracts/domain"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "₹0.00"},
		{12.5, "₹12.50"},
		{999.999, "₹1,000.00"},
		{1234.5, "₹1,234.50"},
		{1234567.891, "₹1,234,567.89"},
		{-4500, "₹-4,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCurrency(tt.in))
		})
	}
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "0", formatCount(0))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1,000", formatCount(999.6))
	assert.Equal(t, "12,345,678", formatCount(12345678))
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "1,500", formatTotal(1500))
	assert.Equal(t, "2.35", formatTotal(2.346))
	assert.Equal(t, "1,234.50", formatTotal(1234.5))
}

func TestFormatNumberAndRatio(t *testing.T) {
	assert.Equal(t, "", formatNumber(domain.Absent()))
	assert.Equal(t, "1.50", formatNumber(domain.Present(1.5)))
	assert.Equal(t, "n/a", formatRatio(domain.Absent()))
	assert.Equal(t, "5.00", formatRatio(domain.Present(5)))
}

func TestGroupThousands(t *testing.T) {
	tests := map[string]string{
		"1":          "1",
		"123":        "123",
		"1234":       "1,234",
		"123456":     "123,456",
		"1234567.00": "1,234,567.00",
		"-123456.5":  "-123,456.5",
	}
	for in, want := range tests {
		assert.Equal(t, want, groupThousands(in), in)
	}
}
