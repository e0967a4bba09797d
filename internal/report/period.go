package report

import (
	"fmt"
	"strings"

	"kas/internal/core"
)

// DefaultOrganizationName is used when no organization is configured.
const DefaultOrganizationName = "MUSHOLLA/MASJID"

// PeriodParams are the caller-supplied report parameters. StartBalance nil
// means no starting-balance line; zero means a balance of zero.
type PeriodParams struct {
	Period               core.Period
	StartBalance         *core.Money
	OrganizationName     string
	OrganizationLocation string
}

// dayGroup keeps transactions of one calendar date in their query order.
type dayGroup struct {
	date core.Date
	txs  []core.Transaction
}

// groupByDate groups in insertion order. The input arrives sorted by date
// ascending with income before spending on ties, and that ordering must
// survive grouping, so this is a slice keyed by first occurrence, never a
// map iteration.
func groupByDate(txs []core.Transaction) []dayGroup {
	var groups []dayGroup
	index := make(map[string]int)
	for _, t := range txs {
		key := t.Date.String()
		if i, ok := index[key]; ok {
			groups[i].txs = append(groups[i].txs, t)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, dayGroup{date: t.Date, txs: []core.Transaction{t}})
	}
	return groups
}

// WhatsAppReport renders all transactions of a period as a WhatsApp
// financial report: greeting and title, optional starting balance dated the
// day before the period, income and spending sections grouped by day with
// section totals, the ending balance dated at the period end, and a closing
// block naming the organization. Sections for an empty direction are
// omitted entirely; an empty transaction set still yields the header,
// footer and a balance line equal to the starting balance.
func WhatsAppReport(txs []core.Transaction, p PeriodParams, f MoneyFormat, l Labels) string {
	orgName := p.OrganizationName
	if orgName == "" {
		orgName = DefaultOrganizationName
	}

	var income, spending []core.Transaction
	var totalIncome, totalSpending core.Money
	for _, t := range txs {
		if t.Direction.IsIncome() {
			income = append(income, t)
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			spending = append(spending, t)
			totalSpending = totalSpending.Add(t.Amount)
		}
	}

	var b strings.Builder
	b.WriteString("Assalamualaikum Warahmatullahi Wabarakatuh\n\n\n\n")
	b.WriteString("*LAPORAN KEUANGAN*\n\n")
	b.WriteString("*" + orgName + "*\n\n")
	if p.OrganizationLocation != "" {
		b.WriteString("🕌 " + p.OrganizationLocation + "\n\n\n\n")
	}

	b.WriteString("*🗓️ Periode: " + paddedDay(p.Period.Start) + " - " + FormatPaddedDate(p.Period.End) + "*\n\n\n\n")
	b.WriteString("Berikut kami sampaikan rincian keuangan " + orgName + " untuk periode ini:\n\n\n\n")

	if p.StartBalance != nil {
		prev := p.Period.Start.PrevDay()
		b.WriteString("*Saldo Awal (per " + FormatPaddedDate(prev) + "):*\n")
		b.WriteString("*" + f.WithSymbol(*p.StartBalance) + "*\n\n\n\n")
	}

	if len(income) > 0 {
		b.WriteString("*🤲 PEMASUKAN*\n")
		b.WriteString("Berikut rincian infaq yang masuk:\n\n\n\n")

		for _, g := range groupByDate(income) {
			b.WriteString("*" + FormatDayDate(g.date) + "*\n")
			for _, t := range g.txs {
				category := t.CategoryName
				if category == "" {
					category = l.FallbackIncomeCategory
				}
				partner := t.PartnerName
				if partner == "" {
					partner = l.AnonymousPartner
				}
				method := t.PaymentMethodName
				if method == "" {
					method = l.Cash
				}
				b.WriteString("* " + category + " dari " + partner + ": " + f.WithSymbol(t.Amount))
				if method != l.Cash {
					b.WriteString(" (" + method + ")")
				}
				b.WriteString("\n")
			}
			b.WriteString("\n\n")
		}

		b.WriteString("*Total Pemasukan: " + f.WithSymbol(totalIncome) + "*\n\n\n\n")
	}

	if len(spending) > 0 {
		b.WriteString("*📤 PENGELUARAN*\n")
		b.WriteString("Berikut rincian pengeluaran:\n\n\n\n")

		for _, g := range groupByDate(spending) {
			b.WriteString("*" + FormatDayDate(g.date) + "*\n")

			var dayTotal core.Money
			for _, t := range g.txs {
				category := t.CategoryName
				if category == "" {
					category = l.FallbackSpendingCategory
				}
				// Spending lines omit the partner, and an unset payment
				// method stays empty rather than defaulting to cash.
				method := t.PaymentMethodName
				b.WriteString("* " + category + ": " + f.WithSymbol(t.Amount))
				if method != "" && method != l.Cash {
					b.WriteString(" (" + method + ")")
				}
				b.WriteString("\n")
				dayTotal = dayTotal.Add(t.Amount)
			}

			if len(g.txs) > 1 {
				b.WriteString("\nTotal: *" + f.WithSymbol(dayTotal) + "*\n")
			}
			b.WriteString("\n\n")
		}

		b.WriteString("*Total Pengeluaran: " + f.WithSymbol(totalSpending) + "*\n\n\n\n")
	}

	var endBalance core.Money
	if p.StartBalance != nil {
		endBalance = *p.StartBalance
	}
	endBalance = endBalance.Add(totalIncome).Sub(totalSpending)

	b.WriteString("*💰 SALDO AKHIR KAS (per " + FormatPaddedDate(p.Period.End) + ")*\n")
	b.WriteString("*" + f.WithSymbol(endBalance) + "*\n\n\n\n")

	b.WriteString("Demikian laporan kas ini kami sampaikan.\n\n\n\n")
	b.WriteString("Terima kasih kepada para jama'ah dan donatur yang telah menyisihkan hartanya untuk kemakmuran " + orgName + ". ")
	b.WriteString("Semoga Allah SWT membalas setiap kebaikan yang diberikan.\n\n\n\n")
	b.WriteString("Jazakumullahu Khairan Katsiran.\n\n\n\n")
	b.WriteString("Hormat kami,\n")
	b.WriteString("*DKM " + orgName + "*")

	return b.String()
}

func paddedDay(d core.Date) string {
	return fmt.Sprintf("%02d", d.Day())
}
