package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"budget/internal/core"
	applog "budget/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the collection in a single table ordered by position.
type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
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

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(applog.ComponentStorage),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load returns every row in position order. Rows with an unknown type tag are
// kept verbatim, as the file repository does.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, type, amount_cents, category, notes FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		var (
			t       core.Transaction
			rawType string
		)
		if err := rows.Scan(&t.ID, &t.Date, &rawType, &t.Amount.Cents, &t.Category, &t.Notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if typ, err := core.ParseType(rawType); err == nil {
			t.Type = typ
		} else {
			t.Type = core.TxType(rawType)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Save replaces the table contents in one SQL transaction.
func (r *SQLiteRepository) Save(ctx context.Context, txs []core.Transaction) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback() // no-op after commit

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO transactions (position, id, date, type, amount_cents, category, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Date, t.Type.String(), t.Amount.Cents, t.Category, t.Notes); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transactions: %w", err)
	}

	r.logger.DebugContext(ctx, "Transactions saved to SQLite", applog.FieldCount, len(txs))
	return nil
}
