package models

import (
	"fmt"
	"strings"
)

// Currency is a supported ISO-4217 currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyMXN Currency = "MXN"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// DefaultCurrency is used when a caller does not name a reporting currency
const DefaultCurrency = CurrencyUSD

// Currencies returns every supported currency. Validation and conversion
// both read this set so they cannot drift apart.
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencyMXN, CurrencyEUR, CurrencyGBP}
}

// ParseCurrency normalizes a code to its canonical uppercase form and
// rejects codes outside the supported set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CurrencyUSD, CurrencyMXN, CurrencyEUR, CurrencyGBP:
		return c, nil
	}
	return "", fmt.Errorf("unsupported currency %q", s)
}

// IsValid reports whether c is one of the supported currencies
func (c Currency) IsValid() bool {
	_, err := ParseCurrency(string(c))
	return err == nil
}

func (c Currency) String() string {
	return string(c)
}
