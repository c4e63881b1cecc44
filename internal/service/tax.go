package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/subcycle/subcycle/internal/config"
)

// TaxService resolves VAT rates by country and computes tax amounts.
// It is pure: the rate table is fixed at construction from configuration.
type TaxService interface {
	// RateFor returns the VAT percentage for a country identifier. The
	// lookup is case-insensitive and whitespace-tolerant; unknown or
	// blank countries resolve to the default rate.
	RateFor(country string) decimal.Decimal

	// TaxAmount computes the tax on a subtotal at the given percentage,
	// rounded half up to cents.
	TaxAmount(subtotal, rate decimal.Decimal) decimal.Decimal

	// Total returns subtotal + taxAmount. No re-rounding: the invoice
	// total must equal the sum of its stored parts exactly.
	Total(subtotal, taxAmount decimal.Decimal) decimal.Decimal
}

type taxService struct {
	rates       map[string]decimal.Decimal
	defaultRate decimal.Decimal
}

func NewTaxService(cfg config.TaxConfig) TaxService {
	rates := make(map[string]decimal.Decimal, len(cfg.Rates))
	for country, rate := range cfg.Rates {
		rates[normalizeCountry(country)] = decimal.NewFromFloat(rate)
	}
	return &taxService{
		rates:       rates,
		defaultRate: decimal.NewFromFloat(cfg.DefaultRate),
	}
}

func (s *taxService) RateFor(country string) decimal.Decimal {
	key := normalizeCountry(country)
	if key == "" {
		return s.defaultRate
	}
	if rate, ok := s.rates[key]; ok {
		return rate
	}
	return s.defaultRate
}

func (s *taxService) TaxAmount(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

func (s *taxService) Total(subtotal, taxAmount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(taxAmount)
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}
