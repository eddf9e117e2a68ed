// Package spreadsheet is the workbook fallback data source: one fixed-name
// .xlsx file per table in a known directory, first sheet only, first row as
// headers. It produces the same rowset shape as the primary store.
package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
	"github.com/finboard/finboard/internal/store"
)

type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) Fetch(_ context.Context, table schema.Table) store.Result {
	table = schema.Normalize(string(table))
	path := filepath.Join(s.dir, string(table)+".xlsx")

	f, err := excelize.OpenFile(path)
	if err != nil {
		// A missing workbook is an empty table, not a failure.
		if errors.Is(err, fs.ErrNotExist) {
			return store.Result{}
		}
		s.logger.Error("open workbook failed", "path", path, "error", err)
		return store.Result{Message: fmt.Sprintf("Не удалось открыть файл %s: %v", filepath.Base(path), err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return store.Result{}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return store.Result{Message: fmt.Sprintf("Не удалось прочитать лист %q: %v", sheets[0], err)}
	}
	if len(rows) < 1 {
		return store.Result{}
	}

	headers := rows[0]
	records := make([]map[string]interface{}, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		rec := make(map[string]interface{}, len(headers)+1)
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(cells) && cells[i] != "" {
				rec[h] = cells[i]
			} else {
				rec[h] = nil
			}
		}
		rowset.SetKeyOrder(rec, headers)
		records = append(records, rec)
	}

	rs := rowset.BuildFromRecords(table, records)
	return store.Result{Columns: rs.Columns, Rows: rs.Rows}
}

// FetchByDescriptor reads the whole sheet; filtering happens downstream in the
// table engine since a workbook has no query surface to push anything into.
func (s *Store) FetchByDescriptor(ctx context.Context, d descriptor.QueryDescriptor) store.Result {
	return s.Fetch(ctx, schema.Normalize(d.Table))
}
