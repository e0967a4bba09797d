// Package report renders transactions and period summaries as
// WhatsApp-formatted text. Everything in here is a pure projection from
// already-resolved transactions plus formatting configuration; no data is
// fetched and no state is kept between calls.
package report

import (
	"fmt"
	"strconv"
	"time"

	"kas/internal/core"
)

// Labels holds the localized strings the formatters substitute for
// missing optional fields.
type Labels struct {
	Cash             string
	NoCategory       string
	Income           string
	Spending         string
	AnonymousPartner string

	// Period-report category fallbacks. The source app hard-codes these
	// literals in the period report while the single-transaction message
	// uses NoCategory; the asymmetry is intentional here too.
	FallbackIncomeCategory   string
	FallbackSpendingCategory string
}

// LabelsID is the Indonesian label set (the default locale).
func LabelsID() Labels {
	return Labels{
		Cash:                     "Tunai",
		NoCategory:               "Tanpa Kategori",
		Income:                   "Pemasukan",
		Spending:                 "Pengeluaran",
		AnonymousPartner:         "Hamba Allah",
		FallbackIncomeCategory:   "Infaq",
		FallbackSpendingCategory: "Pengeluaran",
	}
}

// LabelsEN is the English label set.
func LabelsEN() Labels {
	return Labels{
		Cash:                     "Cash",
		NoCategory:               "No Category",
		Income:                   "Income",
		Spending:                 "Spending",
		AnonymousPartner:         "Anonymous",
		FallbackIncomeCategory:   "Infaq",
		FallbackSpendingCategory: "Pengeluaran",
	}
}

// LabelsFor returns the label set for a locale code, defaulting to
// Indonesian.
func LabelsFor(locale string) Labels {
	if locale == "en" {
		return LabelsEN()
	}
	return LabelsID()
}

// Indonesian day names indexed by time.Weekday (Sunday first).
var dayNames = [...]string{
	"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu",
}

// Indonesian month names indexed by time.Month - 1.
var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

const (
	sundayName     = "Minggu"
	sundayOverride = "Ahad"
)

// DayName returns the Indonesian weekday name for a date. Sunday is
// rendered with the Islamic-calendar term "Ahad" instead of "Minggu"; the
// override is a post-lookup substitution so every caller gets it.
func DayName(d core.Date) string {
	name := dayNames[d.Weekday()]
	if name == sundayName {
		name = sundayOverride
	}
	return name
}

// MonthName returns the Indonesian month name.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}

// FormatDayDate renders "Jumat, 8 Agustus 2025" (unpadded day), the form
// used for day headers in both formatters.
func FormatDayDate(d core.Date) string {
	return DayName(d) + ", " + strconv.Itoa(d.Day()) + " " + MonthName(d.Month()) + " " + strconv.Itoa(d.Year())
}

// FormatPaddedDate renders "08 Agustus 2025" (zero-padded day), the form
// used for balance lines and the period header.
func FormatPaddedDate(d core.Date) string {
	return fmt.Sprintf("%02d %s %d", d.Day(), MonthName(d.Month()), d.Year())
}

// TypeLabel returns the localized direction label for a transaction.
func TypeLabel(t core.Transaction, l Labels) string {
	if t.Direction.IsIncome() {
		return l.Income
	}
	return l.Spending
}
