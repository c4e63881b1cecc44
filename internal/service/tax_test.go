package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/subcycle/subcycle/internal/config"
)

func newTestTaxService() TaxService {
	return NewTaxService(config.GetDefaultConfig().Tax)
}

func TestTaxService_RateFor(t *testing.T) {
	svc := newTestTaxService()

	tests := []struct {
		name     string
		country  string
		expected string
	}{
		{"iso_code", "ES", "21"},
		{"full_name", "Spain", "21"},
		{"lowercase", "de", "19"},
		{"mixed_case_name", "gErMaNy", "19"},
		{"surrounding_whitespace", "  FR  ", "20"},
		{"zero_rate_country", "US", "0"},
		{"usa_alias", "USA", "0"},
		{"english_long_name", "United States", "0"},
		{"spanish_name", "España", "21"},
		{"spanish_name_with_accent", "méxico", "16"},
		{"spanish_name_brazil", "Brasil", "17"},
		{"spanish_long_name", "Estados Unidos", "0"},
		{"fractional_rate", "CH", "7.7"},
		{"unknown_falls_back_to_default", "XX", "21"},
		{"blank_falls_back_to_default", "", "21"},
		{"whitespace_only_falls_back_to_default", "   ", "21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expected := decimal.RequireFromString(tt.expected)
			rate := svc.RateFor(tt.country)
			assert.True(t, expected.Equal(rate),
				"rate for %q: expected %s, got %s", tt.country, expected, rate)
		})
	}
}

func TestTaxService_TaxAmount(t *testing.T) {
	svc := newTestTaxService()

	tests := []struct {
		name     string
		subtotal string
		rate     string
		expected string
	}{
		{"spain_standard", "10.00", "21", "2.10"},
		{"rounds_half_up", "9.99", "21", "2.10"},   // 2.0979
		{"switzerland_fraction", "100", "7.7", "7.70"},
		{"zero_rate", "49.99", "0", "0"},
		{"zero_subtotal", "0", "21", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal := decimal.RequireFromString(tt.subtotal)
			rate := decimal.RequireFromString(tt.rate)
			expected := decimal.RequireFromString(tt.expected)

			amount := svc.TaxAmount(subtotal, rate)
			assert.True(t, expected.Equal(amount),
				"tax on %s at %s%%: expected %s, got %s", subtotal, rate, expected, amount)
		})
	}
}

func TestTaxService_Total(t *testing.T) {
	svc := newTestTaxService()

	subtotal := decimal.RequireFromString("10.00")
	taxAmount := svc.TaxAmount(subtotal, svc.RateFor("ES"))
	total := svc.Total(subtotal, taxAmount)

	assert.True(t, decimal.RequireFromString("12.10").Equal(total))
	// Total is the exact sum of the stored parts, never re-rounded.
	assert.True(t, total.Equal(subtotal.Add(taxAmount)))
}
