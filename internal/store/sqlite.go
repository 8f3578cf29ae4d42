package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the database-backed Store. It serves two roles: an alternate
// primary backend (DATA_BACKEND=sqlite) and the mirror target the sync worker
// reconciles from the CSV ledger.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at dbPath and brings
// the schema up to date.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
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

	return &SQLiteStore{db: db}, nil
}

// Add implements Store.
func (s *SQLiteStore) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer dbtx.Rollback()

	if err := dbtx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM transactions`).Scan(&tx.ID); err != nil {
		return core.Transaction{}, fmt.Errorf("next id: %w", err)
	}

	_, err = dbtx.ExecContext(ctx,
		`INSERT INTO transactions (id, date, type, category, amount_cents, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.Date.String(), tx.Type.String(), tx.Category, tx.Amount.Cents, tx.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	if err := dbtx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"date", tx.Date.String(),
		"type", tx.Type.String(),
		"amount_cents", tx.Amount.Cents)

	return tx, nil
}

// List implements Store. ISO dates compare correctly as text, so the range
// filter maps straight onto WHERE clauses.
func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if !f.Start.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, f.Start.String())
	}
	if !f.End.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, f.End.String())
	}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, f.Type.String())
	}
	if f.Category != "" {
		where = append(where, "category = ? COLLATE NOCASE")
		args = append(args, f.Category)
	}

	query := `SELECT id, date, type, category, amount_cents, description FROM transactions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.SortByDateDesc {
		query += " ORDER BY date DESC, id ASC"
	} else {
		query += " ORDER BY id ASC"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		var (
			tx      core.Transaction
			dateStr string
			typeStr string
		)
		if err := rows.Scan(&tx.ID, &dateStr, &typeStr, &tx.Category, &tx.Amount.Cents, &tx.Description); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.Date, err = core.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d: bad date %q", ErrCorruptRow, tx.ID, dateStr)
		}
		tx.Type, err = core.ParseTransactionType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("%w: id %d: bad type %q", ErrCorruptRow, tx.ID, typeStr)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "Transaction deleted from SQLite", "id", id)
	}
	return n > 0, nil
}

// Balance implements Store.
func (s *SQLiteStore) Balance(ctx context.Context) (core.Money, error) {
	var cents int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount_cents ELSE -amount_cents END), 0)
		 FROM transactions`).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("compute balance: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// ReplaceAll implements Mirror: the table is swapped wholesale for the given
// set inside one database transaction, mirroring the ledger's
// rewrite-everything semantics.
func (s *SQLiteStore) ReplaceAll(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	for _, tx := range txs {
		_, err := dbtx.ExecContext(ctx,
			`INSERT INTO transactions (id, date, type, category, amount_cents, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			tx.ID, tx.Date.String(), tx.Type.String(), tx.Category, tx.Amount.Cents, tx.Description)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
		}
	}
	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}

	slog.InfoContext(ctx, "Mirror replaced", "count", len(txs))
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
