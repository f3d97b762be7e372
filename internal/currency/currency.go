package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponents lists the ISO 4217 currencies whose minor unit is not
// the common two decimal places.
var minorUnitExponents = map[string]int32{
	// zero-decimal currencies
	"BIF": 0,
	"CLP": 0,
	"DJF": 0,
	"GNF": 0,
	"ISK": 0,
	"JPY": 0,
	"KMF": 0,
	"KRW": 0,
	"PYG": 0,
	"RWF": 0,
	"UGX": 0,
	"VND": 0,
	"VUV": 0,
	"XAF": 0,
	"XOF": 0,
	"XPF": 0,

	// three-decimal currencies
	"BHD": 3,
	"IQD": 3,
	"JOD": 3,
	"KWD": 3,
	"LYD": 3,
	"OMR": 3,
	"TND": 3,
}

const defaultExponent = 2

// Exponent returns the minor-unit exponent for an ISO 4217 currency code.
// Unrecognized codes fall back to two decimal places.
func Exponent(code string) int32 {
	if exp, ok := minorUnitExponents[strings.ToUpper(code)]; ok {
		return exp
	}
	return defaultExponent
}

// ToMinorUnits converts a major-unit decimal amount into the gateway's
// integer minor-unit encoding, formatted without a decimal point or grouping.
func ToMinorUnits(amount decimal.Decimal, code string) string {
	return amount.Shift(Exponent(code)).Round(0).String()
}

// FromMinorUnits converts a minor-unit amount back to a major-unit decimal
// with currency-appropriate precision.
func FromMinorUnits(amount decimal.Decimal, code string) decimal.Decimal {
	exp := Exponent(code)
	return amount.Shift(-exp).Round(exp)
}
