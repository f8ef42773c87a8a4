package evaluation

import (
	"context"
	"errors"
	"log/slog"

	"perfreview/internal/domain/schema"
	"perfreview/internal/platform/grid"
)

type headerTable struct {
	name   string
	schema schema.Schema
	rows   [][]any
}

func (s *Service) loadHeaders(ctx context.Context) (headerTable, error) {
	rows, err := s.readTable(ctx, s.Tables.Headers)
	if err != nil {
		return headerTable{}, err
	}
	h := headerTable{name: s.Tables.Headers, rows: rows}
	if len(rows) > 0 {
		names := make([]string, len(rows[0]))
		for i, v := range rows[0] {
			names[i] = grid.Text(v)
		}
		h.schema = schema.Resolve(names)
	}
	return h, nil
}

func (h headerTable) records() []headerRecord {
	var out []headerRecord
	for i := 1; i < len(h.rows); i++ {
		out = append(out, headerRecord{rowNum: i + 1, cells: h.rows[i], schema: h.schema})
	}
	return out
}

func (h headerTable) find(evaluationID string) (headerRecord, bool) {
	for _, rec := range h.records() {
		if rec.text(fieldEvaluationID) == evaluationID {
			return rec, true
		}
	}
	return headerRecord{}, false
}

type headerRecord struct {
	rowNum int
	cells  []any
	schema schema.Schema
}

func (r headerRecord) value(f field) any {
	return f.value(r.schema, r.cells)
}

func (r headerRecord) text(f field) string {
	return f.text(r.schema, r.cells)
}

func (r headerRecord) raw(f field) string {
	return grid.Text(f.value(r.schema, r.cells))
}

func (r headerRecord) status() (Status, string) {
	raw := r.text(fieldStatus)
	st, _ := ParseStatus(raw)
	return st, raw
}

func (s *Service) writeCell(ctx context.Context, h headerTable, rec headerRecord, f field, value any) (bool, error) {
	col, ok := f.writeColumn(h.schema)
	if !ok {
		slog.Warn("header column not found, value not written", "table", h.name, "field", f.label(), "row", rec.rowNum)
		return false, nil
	}
	if err := s.Grid.WriteRange(ctx, h.name, rec.rowNum, col+1, [][]any{{value}}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) readTable(ctx context.Context, table string) ([][]any, error) {
	rows, err := grid.ReadAll(ctx, s.Grid, table)
	if errors.Is(err, grid.ErrTableNotFound) {
		return nil, notFound(errors.Join(ErrTableNotFound, err), "table not found: %s", table)
	}
	return rows, err
}
