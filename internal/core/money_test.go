package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"whole amount", "100000", 10000000, false},
		{"zero", "0", 0, false},
		{"dot decimals", "12.34", 1234, false},
		{"comma decimals", "12,34", 1234, false},
		{"one decimal digit", "12.3", 1230, false},
		{"rounds half up", "12.345", 1235, false},
		{"rounds up", "12.346", 1235, false},
		{"rounds down", "12.344", 1234, false},
		{"leading dot", ".5", 50, false},
		{"whitespace trimmed", " 42 ", 4200, false},
		{"empty", "", 0, true},
		{"negative rejected", "-5", 0, true},
		{"plus rejected", "+5", 0, true},
		{"two separators", "1.2.3", 0, true},
		{"letters", "abc", 0, true},
		{"mixed", "12a.34", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDecimalToCentsOverflow(t *testing.T) {
	if _, err := ParseDecimalToCents("99999999999999999999"); err == nil {
		t.Error("expected error for overflowing amount")
	}
}

func TestFromUnits(t *testing.T) {
	if got := FromUnits(100000); got.Cents != 10000000 {
		t.Errorf("FromUnits(100000).Cents = %d, want 10000000", got.Cents)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 200}

	if got := a.Add(b); got.Cents != 700 {
		t.Errorf("Add = %d, want 700", got.Cents)
	}
	if got := a.Sub(b); got.Cents != 300 {
		t.Errorf("Sub = %d, want 300", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -300 {
		t.Errorf("Sub = %d, want -300", got.Cents)
	}
}
