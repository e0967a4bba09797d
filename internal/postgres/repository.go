// Package postgres is the PostgreSQL ledger adapter, for deployments that
// outgrow the embedded SQLite database.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"kas/internal/core"
	"kas/internal/ledger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Repository struct {
	db *sql.DB
}

var (
	_ ledger.TransactionWriter = (*Repository)(nil)
	_ ledger.TransactionReader = (*Repository)(nil)
	_ ledger.TransactionLister = (*Repository)(nil)
	_ ledger.BalanceReader     = (*Repository)(nil)
	_ ledger.SummaryReader     = (*Repository)(nil)
	_ ledger.ReportArchiver    = (*Repository)(nil)
)

func NewRepository(dsn string) (*Repository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	d, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", d, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append implements ledger.TransactionWriter.
func (r *Repository) Append(ctx context.Context, t core.Transaction) (int64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO transactions (date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		t.Date.Time, t.Amount.Cents, t.Direction.InOut(), t.Description,
		nullable(t.CategoryName), nullable(t.PartnerName), nullable(t.PaymentMethodName), t.BookID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date.String(),
		"amount_cents", t.Amount.Cents,
		"in_out", t.Direction.InOut())

	return id, nil
}

// Get implements ledger.TransactionReader.
func (r *Repository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id
		FROM transactions WHERE id = $1`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListPeriod implements ledger.TransactionLister.
func (r *Repository) ListPeriod(ctx context.Context, p core.Period, bookID int64) ([]core.Transaction, error) {
	query := `
		SELECT id, date, amount_cents, in_out, description, category_name, partner_name, payment_method_name, book_id
		FROM transactions
		WHERE date >= $1 AND date <= $2`
	args := []any{p.Start.Time, p.End.Time}
	if bookID != 0 {
		query += ` AND book_id = $3`
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

// Balance implements ledger.BalanceReader.
func (r *Repository) Balance(ctx context.Context, q ledger.BalanceQuery) (core.Money, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN in_out = 1 THEN amount_cents ELSE -amount_cents END), 0)
		FROM transactions WHERE TRUE`
	var args []any
	if q.AsOf != nil {
		args = append(args, q.AsOf.Time)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if q.RangeStart != nil {
		args = append(args, q.RangeStart.Time)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if q.Category != "" {
		args = append(args, q.Category)
		query += fmt.Sprintf(" AND category_name = $%d", len(args))
	}
	if q.BookID != 0 {
		args = append(args, q.BookID)
		query += fmt.Sprintf(" AND book_id = $%d", len(args))
	}

	var cents int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&cents); err != nil {
		return core.Money{}, fmt.Errorf("balance query: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// ReadMonthSummary implements ledger.SummaryReader.
func (r *Repository) ReadMonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{Year: year, Month: month}

	rows, err := r.db.QueryContext(ctx, `
		SELECT in_out, COALESCE(category_name, ''), SUM(amount_cents)
		FROM transactions
		WHERE EXTRACT(YEAR FROM date) = $1 AND EXTRACT(MONTH FROM date) = $2
		GROUP BY in_out, category_name
		ORDER BY SUM(amount_cents) DESC`, year, month)
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
func (r *Repository) ArchiveReport(ctx context.Context, rep ledger.ArchivedReport) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, start_date, end_date, organization_name, total_income_cents, total_spending_cents, ending_balance_cents, body, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rep.ID, rep.Period.Start.Time, rep.Period.End.Time, rep.OrganizationName,
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
	var date time.Time
	var inOut int64
	var category, partner, method sql.NullString

	if err := row.Scan(&t.ID, &date, &t.Amount.Cents, &inOut, &t.Description, &category, &partner, &method, &t.BookID); err != nil {
		return core.Transaction{}, err
	}

	t.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
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
