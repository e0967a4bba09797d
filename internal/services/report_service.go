package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kas/internal/core"
	"kas/internal/ledger"
	"kas/internal/report"
)

// PeriodRequest carries the parameters of one period report.
// StartBalance nil with AutoStartBalance set computes the starting
// balance from everything recorded before the period; both unset means
// no starting-balance line.
type PeriodRequest struct {
	Period           core.Period
	StartBalance     *core.Money
	AutoStartBalance bool
	BookID           int64

	// Organization overrides for this report only; empty keeps the
	// service-wide values.
	OrganizationName     string
	OrganizationLocation string
}

// Report is a rendered period report plus its totals.
type Report struct {
	ID            string
	Body          string
	TotalIncome   core.Money
	TotalSpending core.Money
	EndingBalance core.Money
}

// ReportService renders WhatsApp texts from stored transactions and
// archives the period reports it generates.
type ReportService struct {
	reader   ledger.TransactionReader
	lister   ledger.TransactionLister
	balances ledger.BalanceReader
	archiver ledger.ReportArchiver

	format report.MoneyFormat
	labels report.Labels

	orgName     string
	orgLocation string
}

func NewReportService(
	reader ledger.TransactionReader,
	lister ledger.TransactionLister,
	balances ledger.BalanceReader,
	archiver ledger.ReportArchiver,
	format report.MoneyFormat,
	labels report.Labels,
	orgName, orgLocation string,
) *ReportService {
	return &ReportService{
		reader:      reader,
		lister:      lister,
		balances:    balances,
		archiver:    archiver,
		format:      format,
		labels:      labels,
		orgName:     orgName,
		orgLocation: orgLocation,
	}
}

// TransactionMessage renders the WhatsApp notification for one stored
// transaction.
func (s *ReportService) TransactionMessage(ctx context.Context, id int64) (string, error) {
	t, err := s.reader.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("get transaction: %w", err)
	}
	return report.WhatsAppMessage(t, s.format, s.labels), nil
}

// PeriodReport lists the period's transactions, renders the WhatsApp
// report and archives it. Archive failures are logged, not returned; the
// caller already has the rendered text.
func (s *ReportService) PeriodReport(ctx context.Context, req PeriodRequest) (Report, error) {
	startBalance := req.StartBalance
	if startBalance == nil && req.AutoStartBalance {
		prev := req.Period.Start.PrevDay()
		balance, err := s.balances.Balance(ctx, ledger.BalanceQuery{AsOf: &prev, BookID: req.BookID})
		if err != nil {
			return Report{}, fmt.Errorf("starting balance: %w", err)
		}
		startBalance = &balance
	}

	txs, err := s.lister.ListPeriod(ctx, req.Period, req.BookID)
	if err != nil {
		return Report{}, fmt.Errorf("list period transactions: %w", err)
	}

	var totalIncome, totalSpending core.Money
	for _, t := range txs {
		if t.Direction.IsIncome() {
			totalIncome = totalIncome.Add(t.Amount)
		} else {
			totalSpending = totalSpending.Add(t.Amount)
		}
	}

	var endingBalance core.Money
	if startBalance != nil {
		endingBalance = *startBalance
	}
	endingBalance = endingBalance.Add(totalIncome).Sub(totalSpending)

	orgName := s.orgName
	if req.OrganizationName != "" {
		orgName = req.OrganizationName
	}
	orgLocation := s.orgLocation
	if req.OrganizationLocation != "" {
		orgLocation = req.OrganizationLocation
	}

	body := report.WhatsAppReport(txs, report.PeriodParams{
		Period:               req.Period,
		StartBalance:         startBalance,
		OrganizationName:     orgName,
		OrganizationLocation: orgLocation,
	}, s.format, s.labels)

	rep := Report{
		ID:            uuid.NewString(),
		Body:          body,
		TotalIncome:   totalIncome,
		TotalSpending: totalSpending,
		EndingBalance: endingBalance,
	}

	s.archive(ctx, req.Period, orgName, rep)

	return rep, nil
}

func (s *ReportService) archive(ctx context.Context, period core.Period, orgName string, rep Report) {
	if s.archiver == nil {
		return
	}

	if orgName == "" {
		orgName = report.DefaultOrganizationName
	}

	err := s.archiver.ArchiveReport(ctx, ledger.ArchivedReport{
		ID:               rep.ID,
		Period:           period,
		OrganizationName: orgName,
		TotalIncome:      rep.TotalIncome,
		TotalSpending:    rep.TotalSpending,
		EndingBalance:    rep.EndingBalance,
		Body:             rep.Body,
		GeneratedAt:      time.Now(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to archive report",
			"id", rep.ID,
			"start", period.Start.String(),
			"end", period.End.String(),
			"error", err)
	}
}
