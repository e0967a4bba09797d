package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-08-08")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.String() != "2025-08-08" {
		t.Errorf("String() = %q, want 2025-08-08", d.String())
	}

	for _, bad := range []string{"", "08-08-2025", "2025/08/08", "2025-13-01", "not a date"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestPrevDay(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2025-09-14", "2025-09-13"},
		{"2025-09-01", "2025-08-31"},
		{"2025-01-01", "2024-12-31"},
		{"2024-03-01", "2024-02-29"}, // leap year
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if got := d.PrevDay().String(); got != tt.want {
			t.Errorf("PrevDay(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-09-14", "2025-09-20")
	if err != nil {
		t.Fatalf("ParsePeriod: %v", err)
	}
	if p.Start.String() != "2025-09-14" || p.End.String() != "2025-09-20" {
		t.Errorf("period = %s..%s", p.Start, p.End)
	}

	// Single-day periods are valid.
	if _, err := ParsePeriod("2025-09-14", "2025-09-14"); err != nil {
		t.Errorf("single-day period rejected: %v", err)
	}

	if _, err := ParsePeriod("2025-09-20", "2025-09-14"); !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("reversed period error = %v, want ErrInvalidPeriod", err)
	}
	if _, err := ParsePeriod("bad", "2025-09-14"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad start error = %v, want ErrInvalidDate", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Date:      NewDate(2025, 8, 8),
		Amount:    Money{Cents: 10000000},
		Direction: Income,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	zeroAmount := valid
	zeroAmount.Amount = Money{}
	if err := zeroAmount.Validate(); err != nil {
		t.Errorf("zero amount should be allowed: %v", err)
	}

	negative := valid
	negative.Amount = Money{Cents: -1}
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}

	badDirection := valid
	badDirection.Direction = Direction(2)
	if err := badDirection.Validate(); !errors.Is(err, ErrInvalidDirection) {
		t.Errorf("bad direction error = %v, want ErrInvalidDirection", err)
	}

	noDate := valid
	noDate.Date = Date{}
	if err := noDate.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("zero date error = %v, want ErrInvalidDate", err)
	}
}

func TestDirection(t *testing.T) {
	if !Income.IsIncome() || Spending.IsIncome() {
		t.Error("IsIncome mismatch")
	}
	if Income.InOut() != 1 || Spending.InOut() != 0 {
		t.Error("InOut mapping mismatch")
	}
}
