package report

import (
	"fmt"
	"strconv"
	"strings"

	"kas/internal/core"
)

// MoneyFormat controls currency rendering. Precision and separators come
// from configuration, never hard-coded in the formatters.
type MoneyFormat struct {
	Precision    int
	DecimalSep   string
	ThousandsSep string
	Symbol       string
}

// DefaultMoneyFormat is the Indonesian Rupiah rendering: no decimals,
// dot-separated thousands.
func DefaultMoneyFormat() MoneyFormat {
	return MoneyFormat{
		Precision:    0,
		DecimalSep:   ",",
		ThousandsSep: ".",
		Symbol:       "Rp",
	}
}

// Format renders an amount as digits with separators, e.g. 100000 units as
// "100.000". Negative values render with a separating space after the
// minus ("- 100.000"). Integer arithmetic only; rounding to the configured
// precision is half-up.
func (f MoneyFormat) Format(m core.Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	rem := cents % 100

	var frac string
	switch {
	case f.Precision <= 0:
		if rem >= 50 {
			whole++
		}
	case f.Precision == 1:
		d := rem / 10
		if rem%10 >= 5 {
			d++
		}
		if d == 10 {
			d = 0
			whole++
		}
		frac = strconv.FormatInt(d, 10)
	default:
		frac = fmt.Sprintf("%02d", rem) + strings.Repeat("0", f.Precision-2)
	}

	s := groupThousands(strconv.FormatInt(whole, 10), f.ThousandsSep)
	if frac != "" {
		s += f.DecimalSep + frac
	}
	if neg {
		s = "- " + s
	}
	return s
}

// WithSymbol prefixes the currency symbol: "Rp 100.000".
func (f MoneyFormat) WithSymbol(m core.Money) string {
	return f.Symbol + " " + f.Format(m)
}

// AmountString renders a transaction amount for lists: spending rows carry
// the "- " prefix.
func AmountString(t core.Transaction, f MoneyFormat) string {
	s := f.Format(t.Amount)
	if !t.Direction.IsIncome() {
		s = "- " + s
	}
	return s
}

// Percent renders numerator/denominator as a percentage with two decimals,
// "0" when the denominator is zero.
func Percent(numerator, denominator int64) string {
	if denominator == 0 {
		return "0"
	}
	// Half-up rounding at the fourth digit (value * 100, two decimals).
	scaled := (numerator*10000 + denominator/2) / denominator
	return fmt.Sprintf("%d.%02d", scaled/100, scaled%100)
}

func groupThousands(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
