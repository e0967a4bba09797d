package report

import (
	"testing"

	"kas/internal/core"
)

func TestFormatDefault(t *testing.T) {
	f := DefaultMoneyFormat()

	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{"zero", 0, "0"},
		{"small", 50000, "500"},
		{"thousands", 10000000, "100.000"},
		{"millions", 123456700, "1.234.567"},
		{"rounds half up", 150, "2"},
		{"rounds down", 149, "1"},
		{"negative gets spaced minus", -10000000, "- 100.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Format(core.Money{Cents: tt.cents}); got != tt.want {
				t.Errorf("Format(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestFormatPrecision(t *testing.T) {
	two := MoneyFormat{Precision: 2, DecimalSep: ",", ThousandsSep: "."}
	if got := two.Format(core.Money{Cents: 123456}); got != "1.234,56" {
		t.Errorf("precision 2 = %q, want 1.234,56", got)
	}
	if got := two.Format(core.Money{Cents: 100}); got != "1,00" {
		t.Errorf("precision 2 = %q, want 1,00", got)
	}

	one := MoneyFormat{Precision: 1, DecimalSep: ",", ThousandsSep: "."}
	if got := one.Format(core.Money{Cents: 155}); got != "1,6" {
		t.Errorf("precision 1 = %q, want 1,6", got)
	}
	// Carrying into the whole part.
	if got := one.Format(core.Money{Cents: 195}); got != "2,0" {
		t.Errorf("precision 1 carry = %q, want 2,0", got)
	}
}

func TestWithSymbol(t *testing.T) {
	f := DefaultMoneyFormat()
	if got := f.WithSymbol(core.Money{Cents: 10000000}); got != "Rp 100.000" {
		t.Errorf("WithSymbol = %q, want Rp 100.000", got)
	}
	if got := f.WithSymbol(core.Money{Cents: -10000000}); got != "Rp - 100.000" {
		t.Errorf("WithSymbol negative = %q, want Rp - 100.000", got)
	}
}

func TestAmountString(t *testing.T) {
	f := DefaultMoneyFormat()
	in := core.Transaction{Amount: core.Money{Cents: 5000000}, Direction: core.Income}
	out := core.Transaction{Amount: core.Money{Cents: 5000000}, Direction: core.Spending}

	if got := AmountString(in, f); got != "50.000" {
		t.Errorf("income AmountString = %q, want 50.000", got)
	}
	if got := AmountString(out, f); got != "- 50.000" {
		t.Errorf("spending AmountString = %q, want - 50.000", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{1, 2, "50.00"},
		{1, 3, "33.33"},
		{2, 3, "66.67"},
		{5, 5, "100.00"},
		{0, 7, "0.00"},
		{1, 0, "0"},
	}
	for _, tt := range tests {
		if got := Percent(tt.num, tt.den); got != tt.want {
			t.Errorf("Percent(%d, %d) = %q, want %q", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestGroupThousandsNoSeparator(t *testing.T) {
	f := MoneyFormat{Precision: 0, ThousandsSep: ""}
	if got := f.Format(core.Money{Cents: 10000000}); got != "100000" {
		t.Errorf("Format without separator = %q, want 100000", got)
	}
}
