package sqlitegrid

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"perfreview/internal/platform/grid"
)

type Store struct {
	DB *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS grid_tables (
		name       TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS grid_cells (
		table_name TEXT    NOT NULL,
		row_num    INTEGER NOT NULL,
		col_num    INTEGER NOT NULL,
		kind       TEXT    NOT NULL,
		value      TEXT    NOT NULL,
		PRIMARY KEY (table_name, row_num, col_num)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{DB: db}, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) CreateTable(ctx context.Context, table string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO grid_tables (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, table)
	return err
}

func (s *Store) ensureTable(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, table string) error {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM grid_tables WHERE name = ?`, table).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return grid.NotFound(table)
	}
	return nil
}

func (s *Store) Dimensions(ctx context.Context, table string) (int, int, error) {
	if err := s.ensureTable(ctx, s.DB, table); err != nil {
		return 0, 0, err
	}
	var lastRow, lastCol int
	err := s.DB.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(row_num), 0), COALESCE(MAX(col_num), 0)
		FROM grid_cells
		WHERE table_name = ?`, table).Scan(&lastRow, &lastCol)
	return lastRow, lastCol, err
}

func (s *Store) ReadRange(ctx context.Context, table string, row, col, numRows, numCols int) ([][]any, error) {
	if err := grid.CheckRange(row, col, numRows, numCols); err != nil {
		return nil, err
	}
	if err := s.ensureTable(ctx, s.DB, table); err != nil {
		return nil, err
	}
	out := make([][]any, numRows)
	for i := range out {
		out[i] = make([]any, numCols)
	}
	if numRows == 0 || numCols == 0 {
		return out, nil
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT row_num, col_num, kind, value
		FROM grid_cells
		WHERE table_name = ? AND row_num BETWEEN ? AND ? AND col_num BETWEEN ? AND ?`,
		table, row, row+numRows-1, col, col+numCols-1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r, c int
		var kind, value string
		if err := rows.Scan(&r, &c, &kind, &value); err != nil {
			return nil, err
		}
		out[r-row][c-col] = grid.Decode(kind, value)
	}
	return out, rows.Err()
}

func (s *Store) WriteRange(ctx context.Context, table string, row, col int, values [][]any) error {
	if err := grid.CheckWrite(row, col, values); err != nil {
		return err
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.ensureTable(ctx, tx, table); err != nil {
		return err
	}

	upsert, err := tx.PrepareContext(ctx, `
		INSERT INTO grid_cells (table_name, row_num, col_num, kind, value)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (table_name, row_num, col_num) DO UPDATE SET kind = excluded.kind, value = excluded.value`)
	if err != nil {
		return err
	}
	defer upsert.Close()

	remove, err := tx.PrepareContext(ctx, `DELETE FROM grid_cells WHERE table_name = ? AND row_num = ? AND col_num = ?`)
	if err != nil {
		return err
	}
	defer remove.Close()

	for i, r := range values {
		for j, v := range r {
			kind, text, ok := grid.Encode(v)
			if !ok {
				if _, err := remove.ExecContext(ctx, table, row+i, col+j); err != nil {
					return err
				}
				continue
			}
			if _, err := upsert.ExecContext(ctx, table, row+i, col+j, kind, text); err != nil {
				return fmt.Errorf("write %s r%dc%d: %w", table, row+i, col+j, err)
			}
		}
	}
	return tx.Commit()
}
