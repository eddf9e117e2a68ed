package engine

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/rowset"
)

// rowPasses evaluates every active predicate against the row. Absence of a
// filter on a column is a pass.
func (s *State) rowPasses(row rowset.Row) bool {
	if len(s.selected) > 0 {
		v := row.Value(MultiSelectField)
		if v == nil || !s.selected[cellString(v)] {
			return false
		}
	}
	for key, r := range s.ranges {
		if !evalDateRange(row.Value(key), r) {
			return false
		}
	}
	for key, f := range s.filters {
		col, _ := s.column(key)
		if !evalValueFilter(col.Type, row.Value(key), f) {
			return false
		}
	}
	return true
}

func evalValueFilter(t rowset.ColumnType, v interface{}, f ValueFilter) bool {
	if f.Op == descriptor.OpIn {
		return evalMembership(v, f.Members)
	}
	switch t {
	case rowset.TypeNumber:
		return evalNumber(v, f)
	case rowset.TypeDate:
		return evalDateSingle(v, f)
	default:
		return evalString(v, f)
	}
}

// Numeric filters fail open: a row or filter value that does not parse as a
// number passes rather than silently hiding data.
func evalNumber(v interface{}, f ValueFilter) bool {
	if v == nil {
		return false
	}
	want, ok := rowset.ParseNumber(f.Value)
	if !ok {
		return true
	}
	got, ok := rowset.ParseNumber(v)
	if !ok {
		return true
	}
	switch f.Op {
	case descriptor.OpEq:
		return got == want
	case descriptor.OpGt:
		return got > want
	case descriptor.OpLt:
		return got < want
	case descriptor.OpLte:
		return got <= want
	default: // gte is the default numeric comparison
		return got >= want
	}
}

// evalMembership is set membership, case-insensitive like the string filter.
// An empty candidate set constrains nothing; a null cell never matches.
func evalMembership(v interface{}, members []string) bool {
	if len(members) == 0 {
		return true
	}
	if v == nil {
		return false
	}
	got := strings.ToLower(strings.TrimSpace(cellString(v)))
	for _, m := range members {
		if strings.ToLower(strings.TrimSpace(m)) == got {
			return true
		}
	}
	return false
}

func evalString(v interface{}, f ValueFilter) bool {
	if v == nil {
		return false
	}
	want := strings.ToLower(strings.TrimSpace(f.Value))
	want = strings.Trim(want, "%")
	if want == "" {
		return true
	}
	got := strings.ToLower(cellString(v))
	if f.Op == descriptor.OpEq {
		return got == want
	}
	return strings.Contains(got, want)
}

// evalDateSingle handles a legacy single-value filter on a date column: the
// operator defaults to "on or after".
func evalDateSingle(v interface{}, f ValueFilter) bool {
	if v == nil {
		return false
	}
	bound, ok := parseDate(f.Value)
	if !ok {
		return true
	}
	got, ok := parseDate(cellString(v))
	if !ok {
		return false
	}
	got = truncateToDay(got)
	bound = truncateToDay(bound)
	switch f.Op {
	case descriptor.OpEq:
		return got.Equal(bound)
	case descriptor.OpLte:
		return !got.After(bound)
	case descriptor.OpLt:
		return got.Before(bound)
	case descriptor.OpGt:
		return got.After(bound)
	default:
		return !got.Before(bound)
	}
}

// evalDateRange applies inclusive bounds unless the originating operator was
// strict. Unparseable bounds constrain nothing; a null row value is excluded
// once any bound is active.
func evalDateRange(v interface{}, r DateRange) bool {
	if r.empty() {
		return true
	}
	if v == nil {
		return false
	}
	got, ok := parseDate(cellString(v))
	if !ok {
		return false
	}
	got = truncateToDay(got)
	if from, ok := parseDate(r.From); ok {
		from = truncateToDay(from)
		if r.FromExclusive {
			if !got.After(from) {
				return false
			}
		} else if got.Before(from) {
			return false
		}
	}
	if to, ok := parseDate(r.To); ok {
		to = truncateToDay(to)
		if r.ToExclusive {
			if !got.Before(to) {
				return false
			}
		} else if got.After(to) {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// cellString renders a cell for comparison, selection sets and export. Nulls
// become the empty string; numbers keep their wire form.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%v", x)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", x)
	}
}
