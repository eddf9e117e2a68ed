package engine

import (
	"strings"

	"github.com/finboard/finboard/internal/rowset"
)

// ExportCSV serializes the filtered and sorted row set (all pages) restricted
// to visible columns. Fields are semicolon-delimited and always quoted, with
// embedded quotes doubled; nulls become empty cells and date cells are
// trimmed to YYYY-MM-DD.
func (s *State) ExportCSV() string {
	cols := s.VisibleColumns()
	var b strings.Builder

	writeRecord := func(fields []string) {
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	writeRecord(header)

	for _, row := range s.Matching() {
		fields := make([]string, len(cols))
		for i, c := range cols {
			fields[i] = exportCell(c.Type, row.Value(c.Key))
		}
		writeRecord(fields)
	}
	return b.String()
}

func exportCell(t rowset.ColumnType, v interface{}) string {
	s := cellString(v)
	if t == rowset.TypeDate && rowset.IsDateString(s) {
		return s[:10]
	}
	return s
}
