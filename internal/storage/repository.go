package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"anita/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists transactions and the worker-maintained
// category summary snapshots.
type SQLiteRepository struct {
	db *sql.DB
}

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

	// Run migrations
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

// Append implements dataset.TransactionWriter
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (date, year, month, description, amount_cents, category)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Date.Format("2006-01-02"), t.Date.Year(), t.Date.Month(),
		t.Description, t.Amount.Cents, t.Category)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return strconv.FormatInt(id, 10), nil
}

// SoftDeleteTransaction marks a transaction deleted without removing the row.
func (r *SQLiteRepository) SoftDeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions SET deleted_at = datetime('now')
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetTransaction returns a single transaction by ID, deleted ones included.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var (
		t       core.Transaction
		dateStr string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, date, description, amount_cents, category
		FROM transactions WHERE id = ?`, id).
		Scan(&t.ID, &dateStr, &t.Description, &t.Amount.Cents, &t.Category)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
	}
	t.Date = core.Date{Time: parsed}
	return t, nil
}

// ListTransactions implements dataset.TransactionLister
func (r *SQLiteRepository) ListTransactions(ctx context.Context, year, month int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, description, amount_cents, category
		FROM transactions
		WHERE year = ? AND month = ? AND deleted_at IS NULL
		ORDER BY date DESC, id DESC`, year, month)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Description, &t.Amount.Cents, &t.Category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		t.Date = core.Date{Time: parsed}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReadCategoryBreakdown implements dataset.BreakdownReader by
// aggregating live transaction rows for the month, largest category
// first so the donut draws big wedges before small ones.
func (r *SQLiteRepository) ReadCategoryBreakdown(ctx context.Context, year, month int) (core.CategoryBreakdown, error) {
	breakdown := core.CategoryBreakdown{Year: year, Month: month}

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, SUM(amount_cents) AS total
		FROM transactions
		WHERE year = ? AND month = ? AND deleted_at IS NULL
		GROUP BY category
		ORDER BY total DESC, category ASC`, year, month)
	if err != nil {
		return breakdown, fmt.Errorf("aggregate category breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return breakdown, fmt.Errorf("scan category total: %w", err)
		}
		breakdown.ByCategory = append(breakdown.ByCategory, ca)
		breakdown.Total.Cents += ca.Amount.Cents
	}
	return breakdown, rows.Err()
}

// ReadSummaryBreakdown reads the materialized snapshot maintained by the
// worker. Returns an empty breakdown when no snapshot exists yet.
func (r *SQLiteRepository) ReadSummaryBreakdown(ctx context.Context, year, month int) (core.CategoryBreakdown, error) {
	breakdown := core.CategoryBreakdown{Year: year, Month: month}

	rows, err := r.db.QueryContext(ctx, `
		SELECT category, total_cents
		FROM category_summaries
		WHERE year = ? AND month = ?
		ORDER BY position ASC`, year, month)
	if err != nil {
		return breakdown, fmt.Errorf("read summary snapshot: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return breakdown, fmt.Errorf("scan summary row: %w", err)
		}
		breakdown.ByCategory = append(breakdown.ByCategory, ca)
		breakdown.Total.Cents += ca.Amount.Cents
	}
	return breakdown, rows.Err()
}

// ReplaceSummary atomically replaces the snapshot for the breakdown's
// month with its current categories.
func (r *SQLiteRepository) ReplaceSummary(ctx context.Context, b core.CategoryBreakdown) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin summary replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM category_summaries WHERE year = ? AND month = ?`,
		b.Year, b.Month); err != nil {
		return fmt.Errorf("clear summary snapshot: %w", err)
	}

	for i, ca := range b.ByCategory {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO category_summaries (year, month, category, total_cents, position, updated_at)
			VALUES (?, ?, ?, ?, ?, datetime('now'))`,
			b.Year, b.Month, ca.Name, ca.Amount.Cents, i); err != nil {
			return fmt.Errorf("insert summary row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit summary replace: %w", err)
	}

	slog.InfoContext(ctx, "Category summary snapshot replaced",
		"year", b.Year,
		"month", b.Month,
		"categories", len(b.ByCategory),
		"total_cents", b.Total.Cents)

	return nil
}

// ListCategories returns the distinct category names seen in live
// transactions, alphabetically.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM transactions
		WHERE deleted_at IS NULL
		ORDER BY category ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
