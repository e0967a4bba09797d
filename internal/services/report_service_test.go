package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kas/internal/core"
	"kas/internal/ledger"
	"kas/internal/ledger/memory"
	"kas/internal/report"
)

func newTestReportService(store *memory.Store) *ReportService {
	return NewReportService(
		store, store, store, store,
		report.DefaultMoneyFormat(), report.LabelsID(),
		"Musholla An-Nur", "",
	)
}

func seed(t *testing.T, store *memory.Store, date string, cents int64, dir core.Direction, category, partner string) int64 {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatal(err)
	}
	id, err := store.Append(context.Background(), core.Transaction{
		Date:         d,
		Amount:       core.Money{Cents: cents},
		Direction:    dir,
		CategoryName: category,
		PartnerName:  partner,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestTransactionMessage(t *testing.T) {
	store := memory.New()
	svc := newTestReportService(store)

	id := seed(t, store, "2025-08-08", 10000000, core.Income, "Infaq", "John Doe")

	got, err := svc.TransactionMessage(context.Background(), id)
	if err != nil {
		t.Fatalf("TransactionMessage: %v", err)
	}
	if !strings.HasPrefix(got, "*Jumat, 8 Agustus 2025*\n") {
		t.Errorf("unexpected message header:\n%s", got)
	}
	if !strings.Contains(got, "Infaq dari John Doe: Rp 100.000") {
		t.Errorf("unexpected message body:\n%s", got)
	}

	if _, err := svc.TransactionMessage(context.Background(), 42); !errors.Is(err, ledger.ErrNotFound) {
		t.Errorf("missing id error = %v, want ErrNotFound", err)
	}
}

func TestPeriodReportExplicitBalance(t *testing.T) {
	store := memory.New()
	svc := newTestReportService(store)

	seed(t, store, "2025-09-14", 7500000, core.Income, "Infaq", "Hamba Allah")
	seed(t, store, "2025-09-19", 5000000, core.Income, "Infaq Jumat", "Bapak Ahmad")
	seed(t, store, "2025-09-16", 40000000, core.Spending, "Renovasi", "")

	period, _ := core.ParsePeriod("2025-09-14", "2025-09-20")
	start := core.Money{Cents: 83850000}

	rep, err := svc.PeriodReport(context.Background(), PeriodRequest{
		Period:       period,
		StartBalance: &start,
	})
	if err != nil {
		t.Fatalf("PeriodReport: %v", err)
	}

	if rep.TotalIncome.Cents != 12500000 {
		t.Errorf("total income = %d, want 12500000", rep.TotalIncome.Cents)
	}
	if rep.TotalSpending.Cents != 40000000 {
		t.Errorf("total spending = %d, want 40000000", rep.TotalSpending.Cents)
	}
	if rep.EndingBalance.Cents != 56350000 {
		t.Errorf("ending balance = %d, want 56350000", rep.EndingBalance.Cents)
	}
	if !strings.Contains(rep.Body, "*Saldo Awal (per 13 September 2025):*\n*Rp 838.500*") {
		t.Errorf("starting balance block missing:\n%s", rep.Body)
	}
	if !strings.Contains(rep.Body, "*Rp 563.500*") {
		t.Errorf("ending balance missing:\n%s", rep.Body)
	}
	if rep.ID == "" {
		t.Error("report id should be set")
	}

	// The report is archived with matching totals.
	reports := store.Reports()
	if len(reports) != 1 {
		t.Fatalf("archived reports = %d, want 1", len(reports))
	}
	if reports[0].ID != rep.ID || reports[0].EndingBalance.Cents != 56350000 {
		t.Errorf("archived report = %+v", reports[0])
	}
	if reports[0].Body != rep.Body {
		t.Error("archived body should match the rendered report")
	}
}

func TestPeriodReportAutoBalance(t *testing.T) {
	store := memory.New()
	svc := newTestReportService(store)

	// Recorded before the period: makes up the computed starting balance.
	seed(t, store, "2025-09-01", 90000000, core.Income, "Infaq", "")
	seed(t, store, "2025-09-10", 6150000, core.Spending, "Listrik", "")
	// Inside the period.
	seed(t, store, "2025-09-15", 2000000, core.Income, "Infaq", "")

	period, _ := core.ParsePeriod("2025-09-14", "2025-09-20")
	rep, err := svc.PeriodReport(context.Background(), PeriodRequest{
		Period:           period,
		AutoStartBalance: true,
	})
	if err != nil {
		t.Fatalf("PeriodReport: %v", err)
	}

	// 900.000 - 61.500 carried in, plus 20.000 income.
	if !strings.Contains(rep.Body, "*Saldo Awal (per 13 September 2025):*\n*Rp 838.500*") {
		t.Errorf("auto starting balance missing:\n%s", rep.Body)
	}
	if rep.EndingBalance.Cents != 85850000 {
		t.Errorf("ending balance = %d, want 85850000", rep.EndingBalance.Cents)
	}
}

func TestPeriodReportNoBalance(t *testing.T) {
	store := memory.New()
	svc := newTestReportService(store)

	period, _ := core.ParsePeriod("2025-09-14", "2025-09-20")
	rep, err := svc.PeriodReport(context.Background(), PeriodRequest{Period: period})
	if err != nil {
		t.Fatalf("PeriodReport: %v", err)
	}

	if strings.Contains(rep.Body, "Saldo Awal") {
		t.Error("report without balance should omit the Saldo Awal block")
	}
	if rep.EndingBalance.Cents != 0 {
		t.Errorf("ending balance = %d, want 0", rep.EndingBalance.Cents)
	}
}

func TestCreateTransactionWithoutAMQP(t *testing.T) {
	store := memory.New()
	svc := NewLedgerService(store, store, nil)

	d, _ := core.ParseDate("2025-09-14")
	id, err := svc.CreateTransaction(context.Background(), core.Transaction{
		Date:      d,
		Amount:    core.Money{Cents: 100},
		Direction: core.Income,
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := svc.GetTransaction(context.Background(), id)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Amount.Cents != 100 {
		t.Errorf("stored amount = %d, want 100", got.Amount.Cents)
	}
}
