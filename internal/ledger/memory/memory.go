// Package memory is an in-memory ledger used for tests and local
// development without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"kas/internal/core"
	"kas/internal/ledger"
)

type Store struct {
	mu      sync.Mutex
	nextID  int64
	items   []core.Transaction
	reports []ledger.ArchivedReport
}

func New() *Store {
	return &Store{nextID: 1}
}

// Append stores the transaction and returns its id.
func (s *Store) Append(_ context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, t)
	return t.ID, nil
}

func (s *Store) Get(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.items {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, ledger.ErrNotFound
}

// ListPeriod returns the period's transactions ordered by date ascending,
// income before spending on equal dates. The sort is stable so insertion
// order survives within a day and direction.
func (s *Store) ListPeriod(_ context.Context, p core.Period, bookID int64) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.items {
		if t.Date.Before(p.Start.Time) || t.Date.After(p.End.Time) {
			continue
		}
		if bookID != 0 && t.BookID != bookID {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].Direction.InOut() > out[j].Direction.InOut()
	})
	return out, nil
}

// Balance computes sum(income) - sum(spending) over the matching
// transactions.
func (s *Store) Balance(_ context.Context, q ledger.BalanceQuery) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var balance core.Money
	for _, t := range s.items {
		if q.AsOf != nil && t.Date.After(q.AsOf.Time) {
			continue
		}
		if q.RangeStart != nil && t.Date.Before(q.RangeStart.Time) {
			continue
		}
		if q.Category != "" && t.CategoryName != q.Category {
			continue
		}
		if q.BookID != 0 && t.BookID != q.BookID {
			continue
		}
		if t.Direction.IsIncome() {
			balance = balance.Add(t.Amount)
		} else {
			balance = balance.Sub(t.Amount)
		}
	}
	return balance, nil
}

// ReadMonthSummary aggregates totals and per-category sums for a month.
// Categories appear in first-seen order.
func (s *Store) ReadMonthSummary(_ context.Context, year, month int) (core.MonthSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := core.MonthSummary{Year: year, Month: month}
	incomeIdx := make(map[string]int)
	spendingIdx := make(map[string]int)

	for _, t := range s.items {
		if t.Date.Year() != year || int(t.Date.Month()) != month {
			continue
		}
		name := t.CategoryName
		if t.Direction.IsIncome() {
			summary.TotalIncome = summary.TotalIncome.Add(t.Amount)
			if i, ok := incomeIdx[name]; ok {
				summary.IncomeByCategory[i].Amount = summary.IncomeByCategory[i].Amount.Add(t.Amount)
			} else {
				incomeIdx[name] = len(summary.IncomeByCategory)
				summary.IncomeByCategory = append(summary.IncomeByCategory, core.CategoryAmount{Name: name, Amount: t.Amount})
			}
		} else {
			summary.TotalSpending = summary.TotalSpending.Add(t.Amount)
			if i, ok := spendingIdx[name]; ok {
				summary.SpendingByCategory[i].Amount = summary.SpendingByCategory[i].Amount.Add(t.Amount)
			} else {
				spendingIdx[name] = len(summary.SpendingByCategory)
				summary.SpendingByCategory = append(summary.SpendingByCategory, core.CategoryAmount{Name: name, Amount: t.Amount})
			}
		}
	}
	return summary, nil
}

// ArchiveReport keeps the generated report in memory.
func (s *Store) ArchiveReport(_ context.Context, r ledger.ArchivedReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, r)
	return nil
}

// Reports returns a copy of the archived reports, oldest first.
func (s *Store) Reports() []ledger.ArchivedReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.ArchivedReport, len(s.reports))
	copy(out, s.reports)
	return out
}
