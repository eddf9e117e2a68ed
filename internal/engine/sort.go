package engine

import (
	"sort"

	"github.com/finboard/finboard/internal/rowset"
)

// sortRows orders rows in place by the active sort column. Nulls sort before
// all values ascending and after them descending; numbers compare numerically
// with string coercion, dates by instant, strings by Russian collation. The
// sort is stable so equal rows keep their source order.
func (s *State) sortRows(rows []rowset.Row) {
	if s.sortKey == "" {
		return
	}
	col, ok := s.column(s.sortKey)
	if !ok {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		c := s.compareCells(col.Type, rows[i].Value(col.Key), rows[j].Value(col.Key))
		if s.sortDesc {
			return c > 0
		}
		return c < 0
	})
}

func (s *State) compareCells(t rowset.ColumnType, a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	switch t {
	case rowset.TypeNumber:
		na, aok := rowset.ParseNumber(a)
		nb, bok := rowset.ParseNumber(b)
		if aok && bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	case rowset.TypeDate:
		da, aok := parseDate(cellString(a))
		db, bok := parseDate(cellString(b))
		if aok && bok {
			switch {
			case da.Before(db):
				return -1
			case da.After(db):
				return 1
			default:
				return 0
			}
		}
	}
	return s.collator.CompareString(cellString(a), cellString(b))
}
