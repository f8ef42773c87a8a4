package pggrid

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"perfreview/internal/platform/grid"
)

type Store struct {
	DB *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) CreateTable(ctx context.Context, table string) error {
	_, err := s.DB.Exec(ctx, "INSERT INTO grid_tables (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", table)
	return err
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func ensureTable(ctx context.Context, q queryRower, table string) error {
	var exists bool
	if err := q.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM grid_tables WHERE name = $1)", table).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return grid.NotFound(table)
	}
	return nil
}

func (s *Store) Dimensions(ctx context.Context, table string) (int, int, error) {
	if err := ensureTable(ctx, s.DB, table); err != nil {
		return 0, 0, err
	}
	var lastRow, lastCol int
	err := s.DB.QueryRow(ctx, `
		SELECT COALESCE(MAX(row_num), 0), COALESCE(MAX(col_num), 0)
		FROM grid_cells
		WHERE table_name = $1`, table).Scan(&lastRow, &lastCol)
	return lastRow, lastCol, err
}

func (s *Store) ReadRange(ctx context.Context, table string, row, col, numRows, numCols int) ([][]any, error) {
	if err := grid.CheckRange(row, col, numRows, numCols); err != nil {
		return nil, err
	}
	if err := ensureTable(ctx, s.DB, table); err != nil {
		return nil, err
	}
	out := make([][]any, numRows)
	for i := range out {
		out[i] = make([]any, numCols)
	}
	if numRows == 0 || numCols == 0 {
		return out, nil
	}

	rows, err := s.DB.Query(ctx, `
		SELECT row_num, col_num, kind, value
		FROM grid_cells
		WHERE table_name = $1 AND row_num BETWEEN $2 AND $3 AND col_num BETWEEN $4 AND $5`,
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
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := ensureTable(ctx, tx, table); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i, r := range values {
		for j, v := range r {
			kind, text, ok := grid.Encode(v)
			if !ok {
				batch.Queue("DELETE FROM grid_cells WHERE table_name = $1 AND row_num = $2 AND col_num = $3",
					table, row+i, col+j)
				continue
			}
			batch.Queue(`
				INSERT INTO grid_cells (table_name, row_num, col_num, kind, value)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (table_name, row_num, col_num)
				DO UPDATE SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_at = now()`,
				table, row+i, col+j, kind, text)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("write %s at r%dc%d: %w", table, row, col, err)
	}
	return tx.Commit(ctx)
}
