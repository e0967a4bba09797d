package report

import (
	"testing"
	"time"

	"kas/internal/core"
)

func TestDayName(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-08-08", "Jumat"},
		{"2025-08-09", "Sabtu"},
		{"2025-08-10", "Ahad"}, // Sunday never renders as Minggu
		{"2025-08-11", "Senin"},
		{"2025-08-12", "Selasa"},
		{"2025-08-13", "Rabu"},
		{"2025-08-14", "Kamis"},
	}
	for _, tt := range tests {
		d, err := core.ParseDate(tt.date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.date, err)
		}
		if got := DayName(d); got != tt.want {
			t.Errorf("DayName(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMonthName(t *testing.T) {
	if got := MonthName(time.January); got != "Januari" {
		t.Errorf("MonthName(January) = %q", got)
	}
	if got := MonthName(time.August); got != "Agustus" {
		t.Errorf("MonthName(August) = %q", got)
	}
	if got := MonthName(time.December); got != "Desember" {
		t.Errorf("MonthName(December) = %q", got)
	}
}

func TestFormatDayDate(t *testing.T) {
	d := core.NewDate(2025, 8, 8)
	if got := FormatDayDate(d); got != "Jumat, 8 Agustus 2025" {
		t.Errorf("FormatDayDate = %q, want Jumat, 8 Agustus 2025", got)
	}
	// Single-digit days stay unpadded here.
	d = core.NewDate(2025, 9, 1)
	if got := FormatDayDate(d); got != "Senin, 1 September 2025" {
		t.Errorf("FormatDayDate = %q, want Senin, 1 September 2025", got)
	}
}

func TestFormatPaddedDate(t *testing.T) {
	if got := FormatPaddedDate(core.NewDate(2025, 8, 8)); got != "08 Agustus 2025" {
		t.Errorf("FormatPaddedDate = %q, want 08 Agustus 2025", got)
	}
	if got := FormatPaddedDate(core.NewDate(2025, 9, 13)); got != "13 September 2025" {
		t.Errorf("FormatPaddedDate = %q, want 13 September 2025", got)
	}
}

func TestLabelsFor(t *testing.T) {
	if got := LabelsFor("id").AnonymousPartner; got != "Hamba Allah" {
		t.Errorf("id AnonymousPartner = %q", got)
	}
	if got := LabelsFor("en").AnonymousPartner; got != "Anonymous" {
		t.Errorf("en AnonymousPartner = %q", got)
	}
	// Unknown locales fall back to Indonesian.
	if got := LabelsFor("fr").Cash; got != "Tunai" {
		t.Errorf("fallback Cash = %q", got)
	}
}

func TestTypeLabel(t *testing.T) {
	l := LabelsID()
	in := core.Transaction{Direction: core.Income}
	out := core.Transaction{Direction: core.Spending}
	if got := TypeLabel(in, l); got != "Pemasukan" {
		t.Errorf("TypeLabel income = %q", got)
	}
	if got := TypeLabel(out, l); got != "Pengeluaran" {
		t.Errorf("TypeLabel spending = %q", got)
	}
}
