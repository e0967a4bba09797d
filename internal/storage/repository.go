// Package storage is the SQLite ledger adapter.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"kas/internal/core"
	"kas/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

// Interface conformance against the ledger ports.
var (
	_ ledger.TransactionWriter = (*SQLiteRepository)(nil)
	_ ledger.TransactionReader = (*SQLiteRepository)(nil)
	_ ledger.TransactionLister = (*SQLiteRepository)(nil)
	_ ledger.BalanceReader     = (*SQLiteRepository)(nil)
	_ ledger.SummaryReader     = (*SQLiteRepository)(nil)
	_ ledger.ReportArchiver    = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionWriter.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Date.String(), t.Amount.Cents, t.Direction.InOut(), t.Description,
		nullable(t.CategoryName), nullable(t.PartnerName), nullable(t.PaymentMethodName), t.BookID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date.String(),
		"amount_cents", t.Amount.Cents,
		"in_out", t.Direction.InOut())

	return id, nil
}

// Get implements ledger.TransactionReader.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id
		FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListPeriod implements ledger.TransactionLister. The ordering (date
// ascending, income before spending on ties, then insertion order) is what
// the period report relies on; grouping downstream must not reorder it.
func (r *SQLiteRepository) ListPeriod(ctx context.Context, p core.Period, bookID int64) ([]core.Transaction, error) {
	query := `
		SELECT id, date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id
		FROM transactions
		WHERE date >= ? AND date <= ?`
	args := []any{p.Start.String(), p.End.String()}
	if bookID != 0 {
		query += ` AND book_id = ?`
		args = append(args, bookID)
	}
	query += ` ORDER BY date ASC, in_out DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list period transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Balance implements ledger.BalanceReader: sum(income) - sum(spending)
// over the filtered set, in one aggregate query.
func (r *SQLiteRepository) Balance(ctx context.Context, q ledger.BalanceQuery) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN in_out = 1 THEN amount_cents ELSE -amount_cents END), 0)
		FROM transactions WHERE 1 = 1`
	var args []any
	if q.AsOf != nil {
		query += ` AND date <= ?`
		args = append(args, q.AsOf.String())
	}
	if q.RangeStart != nil {
		query += ` AND date >= ?`
		args = append(args, q.RangeStart.String())
	}
	if q.Category != "" {
		query += ` AND category_name = ?`
		args = append(args, q.Category)
	}
	if q.BookID != 0 {
		query += ` AND book_id = ?`
		args = append(args, q.BookID)
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("balance query: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// ReadMonthSummary implements ledger.SummaryReader.
func (r *SQLiteRepository) ReadMonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{Year: year, Month: month}

	rows, err := r.db.QueryContext(ctx, `
		SELECT in_out, COALESCE(category_name, ''), SUM(amount_cents)
		FROM transactions
		WHERE strftime('%Y', date) = ? AND strftime('%m', date) = ?
		GROUP BY in_out, category_name
		ORDER BY SUM(amount_cents) DESC`,
		fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month))
	if err != nil {
		return summary, fmt.Errorf("month summary query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var inOut int64
		var name string
		var cents int64
		if err := rows.Scan(&inOut, &name, &cents); err != nil {
			return summary, fmt.Errorf("scan summary row: %w", err)
		}
		amount := core.Money{Cents: cents}
		if core.Direction(inOut).IsIncome() {
			summary.TotalIncome = summary.TotalIncome.Add(amount)
			summary.IncomeByCategory = append(summary.IncomeByCategory, core.CategoryAmount{Name: name, Amount: amount})
		} else {
			summary.TotalSpending = summary.TotalSpending.Add(amount)
			summary.SpendingByCategory = append(summary.SpendingByCategory, core.CategoryAmount{Name: name, Amount: amount})
		}
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("iterate summary rows: %w", err)
	}
	return summary, nil
}

// ArchiveReport implements ledger.ReportArchiver.
func (r *SQLiteRepository) ArchiveReport(ctx context.Context, rep ledger.ArchivedReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, start_date, end_date, organization_name, total_income_cents, total_spending_cents, ending_balance_cents, body, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Period.Start.String(), rep.Period.End.String(), rep.OrganizationName,
		rep.TotalIncome.Cents, rep.TotalSpending.Cents, rep.EndingBalance.Cents,
		rep.Body, rep.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	slog.InfoContext(ctx, "Report archived",
		"id", rep.ID,
		"start", rep.Period.Start.String(),
		"end", rep.Period.End.String())
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var date string
	var inOut int64
	var category, partner, method sql.NullString

	if err := row.Scan(&t.ID, &date, &t.Amount.Cents, &inOut, &t.Description, &category, &partner, &method, &t.BookID); err != nil {
		return core.Transaction{}, err
	}

	d, err := core.ParseDate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date %q: %w", date, err)
	}
	t.Date = d
	t.Direction = core.Direction(inOut)
	t.CategoryName = category.String
	t.PartnerName = partner.String
	t.PaymentMethodName = method.String
	return t, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
