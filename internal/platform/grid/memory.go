package grid

import (
	"context"
	"sync"
)

type Memory struct {
	mu     sync.RWMutex
	tables map[string][][]any
}

func NewMemory() *Memory {
	return &Memory{tables: map[string][][]any{}}
}

func (m *Memory) Put(table string, rows [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]any, len(rows))
	for i, r := range rows {
		copied[i] = append([]any(nil), r...)
	}
	m.tables[table] = copied
}

func (m *Memory) CreateTable(_ context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tables[table]; !ok {
		m.tables[table] = nil
	}
	return nil
}

func (m *Memory) Dimensions(_ context.Context, table string) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.tables[table]
	if !ok {
		return 0, 0, NotFound(table)
	}
	lastCol := 0
	for _, r := range rows {
		if len(r) > lastCol {
			lastCol = len(r)
		}
	}
	return len(rows), lastCol, nil
}

func (m *Memory) ReadRange(_ context.Context, table string, row, col, numRows, numCols int) ([][]any, error) {
	if err := CheckRange(row, col, numRows, numCols); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.tables[table]
	if !ok {
		return nil, NotFound(table)
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
			if c < len(rows[r]) {
				out[i][j] = rows[r][c]
			}
		}
	}
	return out, nil
}

func (m *Memory) WriteRange(_ context.Context, table string, row, col int, values [][]any) error {
	if err := CheckWrite(row, col, values); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rows, ok := m.tables[table]
	if !ok {
		return NotFound(table)
	}
	for i, r := range values {
		target := row - 1 + i
		for len(rows) <= target {
			rows = append(rows, nil)
		}
		need := col - 1 + len(r)
		if len(rows[target]) < need {
			grown := make([]any, need)
			copy(grown, rows[target])
			rows[target] = grown
		}
		copy(rows[target][col-1:], r)
	}
	m.tables[table] = rows
	return nil
}
