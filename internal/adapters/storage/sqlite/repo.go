package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/tabula/internal/app"
	"github.com/evanschultz/tabula/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository persists sheet snapshots.
type Repository struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the sheet tables.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS sheets (
			name TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS sheet_columns (
			sheet_name TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			values_json TEXT NOT NULL DEFAULT '[]',
			PRIMARY KEY (sheet_name, key)
		);`,
		`CREATE TABLE IF NOT EXISTS sheet_rows (
			sheet_name TEXT NOT NULL REFERENCES sheets(name) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			row_id TEXT NOT NULL,
			PRIMARY KEY (sheet_name, row_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sheet_columns_position ON sheet_columns(sheet_name, position);`,
		`CREATE INDEX IF NOT EXISTS idx_sheet_rows_position ON sheet_rows(sheet_name, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// SaveSheet replaces the stored snapshot for sheet.Name, keeping its creation time.
func (r *Repository) SaveSheet(ctx context.Context, sheet domain.Sheet) (err error) {
	if err := sheet.Validate(); err != nil {
		return err
	}
	now := sheet.UpdatedAt
	if now.IsZero() {
		now = time.Now()
	}
	created := sheet.CreatedAt
	if created.IsZero() {
		created = now
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sheets(name, created_at, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, sheet.Name, ts(created), ts(now))
	if err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sheet_columns WHERE sheet_name = ?`, sheet.Name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet_name = ?`, sheet.Name); err != nil {
		return err
	}
	for i, col := range sheet.Columns {
		var valuesJSON []byte
		valuesJSON, err = json.Marshal(col.Values)
		if err != nil {
			return fmt.Errorf("encode column %q: %w", col.Key, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheet_columns(sheet_name, position, key, values_json) VALUES(?, ?, ?, ?)
		`, sheet.Name, i, col.Key, string(valuesJSON))
		if err != nil {
			return err
		}
	}
	for i, id := range sheet.RowIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sheet_rows(sheet_name, position, row_id) VALUES(?, ?, ?)
		`, sheet.Name, i, id)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

// LoadSheet loads one snapshot by name.
func (r *Repository) LoadSheet(ctx context.Context, name string) (domain.Sheet, error) {
	name = strings.TrimSpace(name)
	var createdRaw, updatedRaw string
	row := r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM sheets WHERE name = ?`, name)
	if err := row.Scan(&createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Sheet{}, app.ErrNotFound
		}
		return domain.Sheet{}, err
	}
	sheet := domain.Sheet{
		Name:      name,
		CreatedAt: parseTS(createdRaw),
		UpdatedAt: parseTS(updatedRaw),
	}

	cols, err := r.db.QueryContext(ctx, `
		SELECT key, values_json FROM sheet_columns WHERE sheet_name = ? ORDER BY position ASC
	`, name)
	if err != nil {
		return domain.Sheet{}, err
	}
	defer cols.Close()
	for cols.Next() {
		var (
			key        string
			valuesJSON string
		)
		if err := cols.Scan(&key, &valuesJSON); err != nil {
			return domain.Sheet{}, err
		}
		col := domain.SheetColumn{Key: key}
		if err := json.Unmarshal([]byte(valuesJSON), &col.Values); err != nil {
			return domain.Sheet{}, fmt.Errorf("decode column %q: %w", key, err)
		}
		if col.Values == nil {
			col.Values = []any{}
		}
		sheet.Columns = append(sheet.Columns, col)
	}
	if err := cols.Err(); err != nil {
		return domain.Sheet{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT row_id FROM sheet_rows WHERE sheet_name = ? ORDER BY position ASC
	`, name)
	if err != nil {
		return domain.Sheet{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return domain.Sheet{}, err
		}
		sheet.RowIDs = append(sheet.RowIDs, id)
	}
	if err := rows.Err(); err != nil {
		return domain.Sheet{}, err
	}
	return sheet, nil
}

// ListSheets returns stored sheet names in alphabetical order.
func (r *Repository) ListSheets(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM sheets ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// DeleteSheet removes a snapshot and its columns and rows.
func (r *Repository) DeleteSheet(ctx context.Context, name string) (err error) {
	name = strings.TrimSpace(name)
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM sheet_columns WHERE sheet_name = ?`, name); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet_name = ?`, name); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sheets WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if err = translateNoRows(res); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// translateNoRows maps zero affected rows to app.ErrNotFound.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts formats a timestamp for storage.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses a stored timestamp.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

var _ app.SheetRepository = (*Repository)(nil)
