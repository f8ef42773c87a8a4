package grid

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrInvalidRange  = errors.New("invalid range")
)

type Grid interface {
	ReadRange(ctx context.Context, table string, row, col, numRows, numCols int) ([][]any, error)
	WriteRange(ctx context.Context, table string, row, col int, values [][]any) error
	Dimensions(ctx context.Context, table string) (lastRow, lastCol int, err error)
}

type TableCreator interface {
	CreateTable(ctx context.Context, table string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func ReadAll(ctx context.Context, g Grid, table string) ([][]any, error) {
	lastRow, lastCol, err := g.Dimensions(ctx, table)
	if err != nil {
		return nil, err
	}
	if lastRow == 0 || lastCol == 0 {
		return nil, nil
	}
	return g.ReadRange(ctx, table, 1, 1, lastRow, lastCol)
}

func CheckRange(row, col, numRows, numCols int) error {
	if row < 1 || col < 1 || numRows < 0 || numCols < 0 {
		return fmt.Errorf("%w: row=%d col=%d rows=%d cols=%d", ErrInvalidRange, row, col, numRows, numCols)
	}
	return nil
}

func CheckWrite(row, col int, values [][]any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row=%d col=%d", ErrInvalidRange, row, col)
	}
	for i, r := range values {
		if len(r) != len(values[0]) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidRange, i, len(r), len(values[0]))
		}
	}
	return nil
}

func NotFound(table string) error {
	return fmt.Errorf("%w: %s", ErrTableNotFound, table)
}
