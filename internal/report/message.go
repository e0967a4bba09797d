package report

import (
	"strings"

	"kas/internal/core"
)

// WhatsAppMessage renders a single transaction as a short WhatsApp
// notification:
//
//	*Jumat, 8 Agustus 2025*
//	* Infaq dari John Doe: Rp 100.000 (QRIS)
//	  Keterangan: Donasi untuk masjid
//
// Missing relations fall back to localized defaults; the payment method is
// appended only when it differs from the cash label. Always returns a
// non-empty string.
func WhatsAppMessage(t core.Transaction, f MoneyFormat, l Labels) string {
	category := t.CategoryName
	if category == "" {
		category = l.NoCategory
	}
	partner := t.PartnerName
	if partner == "" {
		partner = l.AnonymousPartner
	}
	method := t.PaymentMethodName
	if method == "" {
		method = l.Cash
	}

	var b strings.Builder
	b.WriteString("*" + FormatDayDate(t.Date) + "*\n")
	b.WriteString("* " + category + " dari " + partner + ": " + f.WithSymbol(t.Amount))
	if method != l.Cash {
		b.WriteString(" (" + method + ")")
	}
	if t.Description != "" {
		b.WriteString("\n  Keterangan: " + t.Description)
	}
	return b.String()
}
