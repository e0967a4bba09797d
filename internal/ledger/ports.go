// Package ledger defines the ports between the report core and its
// collaborators: transaction storage and the report archive.
package ledger

import (
	"context"
	"errors"
	"time"

	"kas/internal/core"
)

// ErrNotFound is returned when a transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

// BalanceQuery filters the balance aggregate. Zero values mean "no
// filter". The result is sum(income) - sum(spending) over the matching
// transactions.
type BalanceQuery struct {
	AsOf       *core.Date // date <= AsOf
	RangeStart *core.Date // date >= RangeStart
	Category   string     // exact category name
	BookID     int64
}

// ArchivedReport is one generated period report, kept for the committee
// record.
type ArchivedReport struct {
	ID               string
	Period           core.Period
	OrganizationName string
	TotalIncome      core.Money
	TotalSpending    core.Money
	EndingBalance    core.Money
	Body             string
	GeneratedAt      time.Time
}

// Ports for outbound adapters.
type (
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (id int64, err error)
	}

	TransactionReader interface {
		Get(ctx context.Context, id int64) (core.Transaction, error)
	}

	// TransactionLister returns all transactions of an inclusive period,
	// ordered by date ascending with income before spending on equal
	// dates. BookID zero means all books.
	TransactionLister interface {
		ListPeriod(ctx context.Context, p core.Period, bookID int64) ([]core.Transaction, error)
	}

	BalanceReader interface {
		Balance(ctx context.Context, q BalanceQuery) (core.Money, error)
	}

	// SummaryReader provides the per-category month aggregate for the
	// dashboard endpoint.
	SummaryReader interface {
		ReadMonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error)
	}

	// ReportArchiver records generated period reports.
	ReportArchiver interface {
		ArchiveReport(ctx context.Context, r ArchivedReport) error
	}
)
