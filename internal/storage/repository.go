package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"

	"subtrack/internal/core"

	_ "modernc.org/sqlite"
)

const subscriptionsTable = "subscriptions"

var subscriptionColumns = []string{
	"id", "name", "amount_cents", "billing_cycle", "category", "start_date", "renewal_date",
}

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection serializes every request on the database file.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// List implements Repository
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Subscription, error) {
	query, args, err := sq.Select(subscriptionColumns...).
		From(subscriptionsTable).
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}
	return r.query(ctx, query, args...)
}

// ListRenewingBetween implements Repository. Dates are stored as ISO strings,
// so lexical comparison matches calendar order.
func (r *SQLiteRepository) ListRenewingBetween(ctx context.Context, from, to core.Date) ([]core.Subscription, error) {
	query, args, err := sq.Select(subscriptionColumns...).
		From(subscriptionsTable).
		Where(sq.GtOrEq{"renewal_date": from.String()}).
		Where(sq.LtOrEq{"renewal_date": to.String()}).
		OrderBy("renewal_date", "name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build renewals query: %w", err)
	}
	return r.query(ctx, query, args...)
}

// Insert implements Repository
func (r *SQLiteRepository) Insert(ctx context.Context, s core.Subscription) (int64, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	query, args, err := sq.Insert(subscriptionsTable).
		Columns("name", "amount_cents", "billing_cycle", "category", "start_date", "renewal_date").
		Values(s.Name, s.Amount.Cents, string(s.Cycle), s.Category, s.StartDate.String(), s.RenewalDate.String()).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert subscription: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}

	slog.InfoContext(ctx, "Subscription saved to SQLite",
		"id", id,
		"name", s.Name,
		"amount_cents", s.Amount.Cents,
		"billing_cycle", s.Cycle,
		"renewal_date", s.RenewalDate.String())

	return id, nil
}

// Delete implements Repository
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(subscriptionsTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		slog.DebugContext(ctx, "Delete matched no subscription", "id", id)
	}
	return nil
}

// Count implements Repository
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(subscriptionsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscriptions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return out, nil
}

func scanSubscription(rows *sql.Rows) (core.Subscription, error) {
	var (
		s                    core.Subscription
		cycle, start, renews string
	)
	if err := rows.Scan(&s.ID, &s.Name, &s.Amount.Cents, &cycle, &s.Category, &start, &renews); err != nil {
		return s, fmt.Errorf("scan subscription: %w", err)
	}
	s.Cycle = core.BillingCycle(cycle)

	var err error
	if s.StartDate, err = core.ParseDate(start); err != nil {
		return s, fmt.Errorf("subscription %d start_date %q: %w", s.ID, start, err)
	}
	if s.RenewalDate, err = core.ParseDate(renews); err != nil {
		return s, fmt.Errorf("subscription %d renewal_date %q: %w", s.ID, renews, err)
	}
	return s, nil
}
