package xlsxgrid

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"perfreview/internal/platform/grid"
)

type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
}

func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("create workbook %s: %w", path, err)
		}
		return &Workbook{path: path, file: f}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Workbook) hasSheet(name string) bool {
	idx, err := w.file.GetSheetIndex(name)
	return err == nil && idx >= 0
}

func (w *Workbook) CreateTable(_ context.Context, table string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hasSheet(table) {
		return nil
	}
	if _, err := w.file.NewSheet(table); err != nil {
		return err
	}
	return w.file.Save()
}

func (w *Workbook) rows(table string) ([][]string, error) {
	if !w.hasSheet(table) {
		return nil, grid.NotFound(table)
	}
	return w.file.GetRows(table)
}

func (w *Workbook) Dimensions(_ context.Context, table string) (int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return 0, 0, err
	}
	lastCol := 0
	for _, r := range rows {
		if len(r) > lastCol {
			lastCol = len(r)
		}
	}
	return len(rows), lastCol, nil
}

func (w *Workbook) ReadRange(_ context.Context, table string, row, col, numRows, numCols int) ([][]any, error) {
	if err := grid.CheckRange(row, col, numRows, numCols); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, err := w.rows(table)
	if err != nil {
		return nil, err
	}
	out := make([][]any, numRows)
	for i := range out {
		out[i] = make([]any, numCols)
		r := row - 1 + i
		if r >= len(rows) {
			continue
		}
		for j := range out[i] {
			c := col - 1 + j
			if c < len(rows[r]) && rows[r][c] != "" {
				out[i][j] = rows[r][c]
			}
		}
	}
	return out, nil
}

func (w *Workbook) WriteRange(_ context.Context, table string, row, col int, values [][]any) error {
	if err := grid.CheckWrite(row, col, values); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.hasSheet(table) {
		return grid.NotFound(table)
	}
	for i, r := range values {
		for j, v := range r {
			cell, err := excelize.CoordinatesToCellName(col+j, row+i)
			if err != nil {
				return fmt.Errorf("%w: %v", grid.ErrInvalidRange, err)
			}
			if err := w.file.SetCellValue(table, cell, v); err != nil {
				return fmt.Errorf("set %s!%s: %w", table, cell, err)
			}
		}
	}
	return w.file.Save()
}
