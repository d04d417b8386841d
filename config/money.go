package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Currencies whose minor unit is not 1/100 of the major unit.
var currencyExponents = map[string]int32{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0, "KRW": 0,
	"MGA": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0, "XOF": 0, "XPF": 0,
	"BHD": 3, "JOD": 3, "KWD": 3, "OMR": 3, "TND": 3,
}

// CurrencyExponent returns the number of minor-unit digits of an ISO 4217 code.
func CurrencyExponent(currency string) int32 {
	if exp, ok := currencyExponents[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return exp
	}
	return 2
}

// MinorUnits converts a decimal amount in major units ("10.50") to minor
// units (1050). The amount must be positive and must not have more
// fractional digits than the currency allows.
func MinorUnits(amount, currency string) (int64, error) {
	if strings.TrimSpace(currency) == "" {
		return 0, errors.New("currency is not set")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", amount)
	}
	if !d.IsPositive() {
		return 0, errors.Errorf("amount %s must be positive", d)
	}
	exp := CurrencyExponent(currency)
	minor := d.Shift(exp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, errors.Errorf("amount %s has more than %d decimal places for %s", d, exp, strings.ToUpper(currency))
	}
	if minor.GreaterThan(decimal.New(1, 18)) {
		return 0, errors.Errorf("amount %s is too large", d)
	}
	return minor.IntPart(), nil
}
