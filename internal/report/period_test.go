package report

import (
	"strings"
	"testing"

	"kas/internal/core"
)

func mustPeriod(t *testing.T, start, end string) core.Period {
	t.Helper()
	p, err := core.ParsePeriod(start, end)
	if err != nil {
		t.Fatalf("ParsePeriod(%s, %s): %v", start, end, err)
	}
	return p
}

func TestWhatsAppReportWeek(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	txs := []core.Transaction{
		{
			Date:         core.NewDate(2025, 9, 14),
			Amount:       core.Money{Cents: 7500000},
			Direction:    core.Income,
			CategoryName: "Infaq",
			PartnerName:  "Hamba Allah",
		},
		{
			Date:         core.NewDate(2025, 9, 16),
			Amount:       core.Money{Cents: 15000000},
			Direction:    core.Spending,
			CategoryName: "Konsumsi",
		},
		{
			Date:              core.NewDate(2025, 9, 16),
			Amount:            core.Money{Cents: 10000000},
			Direction:         core.Spending,
			CategoryName:      "Kebersihan",
			PaymentMethodName: "Transfer Bank",
		},
		{
			Date:         core.NewDate(2025, 9, 18),
			Amount:       core.Money{Cents: 15000000},
			Direction:    core.Spending,
			CategoryName: "Listrik",
		},
		{
			Date:              core.NewDate(2025, 9, 19),
			Amount:            core.Money{Cents: 5000000},
			Direction:         core.Income,
			CategoryName:      "Infaq Jumat",
			PartnerName:       "Bapak Ahmad",
			PaymentMethodName: "QRIS",
		},
	}

	start := core.Money{Cents: 83850000}
	got := WhatsAppReport(txs, PeriodParams{
		Period:               mustPeriod(t, "2025-09-14", "2025-09-20"),
		StartBalance:         &start,
		OrganizationName:     "Musholla An-Nur",
		OrganizationLocation: "Jl. Melati No. 1, Bandung",
	}, f, l)

	wantParts := []string{
		"Assalamualaikum Warahmatullahi Wabarakatuh\n\n\n\n",
		"*LAPORAN KEUANGAN*\n\n*Musholla An-Nur*\n\n",
		"🕌 Jl. Melati No. 1, Bandung\n\n\n\n",
		"*🗓️ Periode: 14 - 20 September 2025*\n\n\n\n",
		"*Saldo Awal (per 13 September 2025):*\n*Rp 838.500*\n\n\n\n",
		"*🤲 PEMASUKAN*\nBerikut rincian infaq yang masuk:\n\n\n\n",
		"*Ahad, 14 September 2025*\n* Infaq dari Hamba Allah: Rp 75.000\n",
		"*Jumat, 19 September 2025*\n* Infaq Jumat dari Bapak Ahmad: Rp 50.000 (QRIS)\n",
		"*Total Pemasukan: Rp 125.000*\n\n\n\n",
		"*📤 PENGELUARAN*\nBerikut rincian pengeluaran:\n\n\n\n",
		"*Selasa, 16 September 2025*\n* Konsumsi: Rp 150.000\n* Kebersihan: Rp 100.000 (Transfer Bank)\n\nTotal: *Rp 250.000*\n",
		"*Kamis, 18 September 2025*\n* Listrik: Rp 150.000\n",
		"*Total Pengeluaran: Rp 400.000*\n\n\n\n",
		"*💰 SALDO AKHIR KAS (per 20 September 2025)*\n*Rp 563.500*\n\n\n\n",
		"Hormat kami,\n*DKM Musholla An-Nur*",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("report missing part:\n%q\n\nfull report:\n%s", part, got)
		}
	}

	// Income section must come before spending.
	if strings.Index(got, "*🤲 PEMASUKAN*") > strings.Index(got, "*📤 PENGELUARAN*") {
		t.Error("income section should precede spending section")
	}

	// Single-transaction days get no per-day subtotal.
	if strings.Contains(got, "*Kamis, 18 September 2025*\n* Listrik: Rp 150.000\n\nTotal:") {
		t.Error("single-transaction day should not have a subtotal")
	}

	if !strings.HasSuffix(got, "*DKM Musholla An-Nur*") {
		t.Errorf("report should end with the committee signature, got:\n%q", got[len(got)-60:])
	}
}

func TestWhatsAppReportEmptyPeriod(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	start := core.Money{Cents: 50000000}
	got := WhatsAppReport(nil, PeriodParams{
		Period:           mustPeriod(t, "2025-09-01", "2025-09-07"),
		StartBalance:     &start,
		OrganizationName: "Musholla An-Nur",
	}, f, l)

	want := "Assalamualaikum Warahmatullahi Wabarakatuh\n\n\n\n" +
		"*LAPORAN KEUANGAN*\n\n" +
		"*Musholla An-Nur*\n\n" +
		"*🗓️ Periode: 01 - 07 September 2025*\n\n\n\n" +
		"Berikut kami sampaikan rincian keuangan Musholla An-Nur untuk periode ini:\n\n\n\n" +
		"*Saldo Awal (per 31 Agustus 2025):*\n" +
		"*Rp 500.000*\n\n\n\n" +
		"*💰 SALDO AKHIR KAS (per 07 September 2025)*\n" +
		"*Rp 500.000*\n\n\n\n" +
		"Demikian laporan kas ini kami sampaikan.\n\n\n\n" +
		"Terima kasih kepada para jama'ah dan donatur yang telah menyisihkan hartanya untuk kemakmuran Musholla An-Nur. " +
		"Semoga Allah SWT membalas setiap kebaikan yang diberikan.\n\n\n\n" +
		"Jazakumullahu Khairan Katsiran.\n\n\n\n" +
		"Hormat kami,\n" +
		"*DKM Musholla An-Nur*"

	if got != want {
		t.Errorf("empty period report mismatch\ngot:\n%q\n\nwant:\n%q", got, want)
	}
}

func TestWhatsAppReportNoStartBalance(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	txs := []core.Transaction{
		{
			Date:         core.NewDate(2025, 9, 2),
			Amount:       core.Money{Cents: 3000000},
			Direction:    core.Income,
			CategoryName: "Infaq",
		},
	}

	got := WhatsAppReport(txs, PeriodParams{
		Period: mustPeriod(t, "2025-09-01", "2025-09-07"),
	}, f, l)

	if strings.Contains(got, "Saldo Awal") {
		t.Error("report without a starting balance should omit the Saldo Awal block")
	}
	// Ending balance equals income alone.
	if !strings.Contains(got, "*💰 SALDO AKHIR KAS (per 07 September 2025)*\n*Rp 30.000*") {
		t.Errorf("ending balance mismatch:\n%s", got)
	}
	// Default organization applies everywhere, footer included.
	if !strings.Contains(got, "*"+DefaultOrganizationName+"*") {
		t.Error("default organization name missing from header")
	}
	if !strings.HasSuffix(got, "*DKM "+DefaultOrganizationName+"*") {
		t.Error("default organization name missing from footer")
	}
}

func TestWhatsAppReportSpendingExceedsFunds(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	txs := []core.Transaction{
		{
			Date:         core.NewDate(2025, 9, 3),
			Amount:       core.Money{Cents: 20000000},
			Direction:    core.Spending,
			CategoryName: "Renovasi",
		},
	}

	start := core.Money{Cents: 5000000}
	got := WhatsAppReport(txs, PeriodParams{
		Period:           mustPeriod(t, "2025-09-01", "2025-09-07"),
		StartBalance:     &start,
		OrganizationName: "Musholla An-Nur",
	}, f, l)

	// Negative balances render with the spaced minus, never silently clamp.
	if !strings.Contains(got, "*💰 SALDO AKHIR KAS (per 07 September 2025)*\n*Rp - 150.000*") {
		t.Errorf("negative ending balance mismatch:\n%s", got)
	}
}

func TestWhatsAppReportGroupingPreservesOrder(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	// Same-day income entries must stay in query order within the group.
	txs := []core.Transaction{
		{Date: core.NewDate(2025, 9, 5), Amount: core.Money{Cents: 100000}, Direction: core.Income, CategoryName: "Infaq", PartnerName: "A"},
		{Date: core.NewDate(2025, 9, 5), Amount: core.Money{Cents: 200000}, Direction: core.Income, CategoryName: "Infaq", PartnerName: "B"},
		{Date: core.NewDate(2025, 9, 6), Amount: core.Money{Cents: 300000}, Direction: core.Income, CategoryName: "Infaq", PartnerName: "C"},
	}

	got := WhatsAppReport(txs, PeriodParams{
		Period:           mustPeriod(t, "2025-09-01", "2025-09-07"),
		OrganizationName: "Musholla An-Nur",
	}, f, l)

	iA := strings.Index(got, "dari A:")
	iB := strings.Index(got, "dari B:")
	iC := strings.Index(got, "dari C:")
	if iA < 0 || iB < 0 || iC < 0 || !(iA < iB && iB < iC) {
		t.Errorf("entries out of order: A=%d B=%d C=%d\n%s", iA, iB, iC, got)
	}

	// One day header per date.
	if strings.Count(got, "*Jumat, 5 September 2025*") != 1 {
		t.Errorf("expected exactly one header for September 5:\n%s", got)
	}
}
