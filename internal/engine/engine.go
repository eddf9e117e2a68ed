// Package engine applies query descriptors and interactive grid state to an
// in-memory rowset. It is pure and synchronous: filtering, sorting, column
// visibility, multi-select, date ranges, limit, pagination and CSV export all
// happen here, independent of whether the row store already filtered.
package engine

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
)

// MultiSelectField is the one categorical column that gets set-membership
// filtering instead of a single-value filter.
const MultiSelectField = "agency"

// Page size options offered by the grid. PageSizeAll disables pagination.
var PageSizeOptions = []int{10, 25, 50, 100}

const PageSizeAll = 0

// ValueFilter is a single-column filter. Op remembers the operator the
// originating descriptor used; filters typed into the grid carry OpContains.
// For OpIn the candidate set lives in Members and Value is unused.
type ValueFilter struct {
	Value   string
	Members []string
	Op      descriptor.Operator
}

// DateRange bounds a date column. A zero bound means unconstrained from that
// side; FromExclusive/ToExclusive distinguish gt/lt from gte/lte.
type DateRange struct {
	From          string
	To            string
	FromExclusive bool
	ToExclusive   bool
}

func (r DateRange) empty() bool { return r.From == "" && r.To == "" }

// State is the grid state for one active table view. A descriptor resync
// replaces the whole derived part atomically; user interactions mutate
// individual pieces and the engine never reverts them until the next
// descriptor arrives.
type State struct {
	data rowset.Rowset

	visible  []string
	sortKey  string
	sortDesc bool
	filters  map[string]ValueFilter
	ranges   map[string]DateRange
	selected map[string]bool
	limit    int
	page     int
	pageSize int

	collator *collate.Collator
}

func New(rs rowset.Rowset) *State {
	s := &State{
		pageSize: PageSizeOptions[0],
		page:     1,
		collator: collate.New(language.Russian),
	}
	s.SetRowset(rs)
	return s
}

// SetRowset swaps the underlying data, as happens on a table switch. All
// filter and sort state is dropped; the new rowset is a whole-value
// replacement.
func (s *State) SetRowset(rs rowset.Rowset) {
	s.data = rs
	s.visible = s.allVisibleKeys()
	s.sortKey = ""
	s.sortDesc = false
	s.filters = map[string]ValueFilter{}
	s.ranges = map[string]DateRange{}
	s.selected = map[string]bool{}
	s.limit = 0
	s.page = 1
}

func (s *State) Table() schema.Table      { return s.data.Table }
func (s *State) Columns() []rowset.Column { return s.data.Columns }

func (s *State) allVisibleKeys() []string {
	var keys []string
	for _, c := range s.data.Columns {
		if !c.Hidden {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func (s *State) column(key string) (rowset.Column, bool) {
	for _, c := range s.data.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return rowset.Column{}, false
}

// ApplyDescriptor resynchronizes the grid from a descriptor. Every derived
// piece of state is replaced at once: unresolved references are dropped
// silently, an empty resolved column list keeps the previous visible set, and
// the page resets to 1.
func (s *State) ApplyDescriptor(d descriptor.QueryDescriptor) {
	filters := map[string]ValueFilter{}
	ranges := map[string]DateRange{}
	selected := map[string]bool{}

	for _, f := range d.Filters {
		key, ok := s.resolveField(f.Field)
		if !ok {
			continue
		}
		if key == MultiSelectField {
			for _, v := range filterValues(f.Value) {
				selected[v] = true
			}
			continue
		}
		if f.Op == descriptor.OpIn {
			// Membership on any column, not just the multi-select one.
			filters[key] = ValueFilter{Members: filterValues(f.Value), Op: f.Op}
			continue
		}
		col, _ := s.column(key)
		if col.Type == rowset.TypeDate {
			r := ranges[key]
			applyDateBound(&r, f.Op, cellString(f.Value))
			ranges[key] = r
			continue
		}
		filters[key] = ValueFilter{Value: cellString(f.Value), Op: f.Op}
	}

	s.filters = filters
	s.ranges = ranges
	s.selected = selected

	if len(d.Columns) > 0 {
		var keys []string
		for _, ref := range d.Columns {
			if key, ok := s.resolveField(ref); ok {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			s.visible = keys
		}
	} else {
		s.visible = s.allVisibleKeys()
	}

	s.sortKey = ""
	s.sortDesc = false
	if d.Sort != nil {
		if key, ok := s.resolveField(d.Sort.Field); ok {
			s.sortKey = key
			s.sortDesc = d.Sort.Descending()
		}
	}

	s.limit = d.Limit
	s.page = 1
}

func applyDateBound(r *DateRange, op descriptor.Operator, value string) {
	switch op {
	case descriptor.OpGte:
		r.From, r.FromExclusive = value, false
	case descriptor.OpGt:
		r.From, r.FromExclusive = value, true
	case descriptor.OpLte:
		r.To, r.ToExclusive = value, false
	case descriptor.OpLt:
		r.To, r.ToExclusive = value, true
	case descriptor.OpEq:
		r.From, r.FromExclusive = value, false
		r.To, r.ToExclusive = value, false
	default:
		// A bare value on a date column means "on or after".
		r.From, r.FromExclusive = value, false
	}
}

// filterValues flattens a filter value into member strings: arrays become
// their elements, scalars a single-element set.
func filterValues(v interface{}) []string {
	if arr, ok := v.([]interface{}); ok {
		var out []string
		for _, item := range arr {
			if s := cellString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := cellString(v); s != "" {
		return []string{s}
	}
	return nil
}

// --- user interactions -----------------------------------------------------

func (s *State) ToggleColumn(key string) {
	for i, k := range s.visible {
		if k == key {
			s.visible = append(s.visible[:i], s.visible[i+1:]...)
			return
		}
	}
	if _, ok := s.column(key); ok {
		s.visible = append(s.visible, key)
	}
}

// SetSort sorts by key ascending, or flips direction when key is already the
// sort column.
func (s *State) SetSort(key string) {
	if _, ok := s.column(key); !ok {
		return
	}
	if s.sortKey == key {
		s.sortDesc = !s.sortDesc
		return
	}
	s.sortKey = key
	s.sortDesc = false
}

func (s *State) SetFilter(key, value string) {
	if strings.TrimSpace(value) == "" {
		delete(s.filters, key)
	} else {
		s.filters[key] = ValueFilter{Value: value, Op: descriptor.OpContains}
	}
	s.page = 1
}

func (s *State) SetDateRange(key, from, to string) {
	r := DateRange{From: from, To: to}
	if r.empty() {
		delete(s.ranges, key)
	} else {
		s.ranges[key] = r
	}
	s.page = 1
}

// SetSelection replaces the multi-select set wholesale. An empty selection
// removes the filter.
func (s *State) SetSelection(values []string) {
	s.selected = map[string]bool{}
	for _, v := range values {
		s.selected[v] = true
	}
	s.page = 1
}

func (s *State) SetPageSize(size int) {
	for _, opt := range PageSizeOptions {
		if size == opt {
			s.pageSize = size
			s.page = 1
			return
		}
	}
	if size == PageSizeAll {
		s.pageSize = PageSizeAll
		s.page = 1
	}
}

func (s *State) SetPage(page int) { s.page = page }

// --- evaluation pipeline ---------------------------------------------------

// Matching returns the filtered, sorted and limit-capped rows, before
// pagination. This is also the export set.
func (s *State) Matching() []rowset.Row {
	var out []rowset.Row
	for _, row := range s.data.Rows {
		if s.rowPasses(row) {
			out = append(out, row)
		}
	}
	s.sortRows(out)
	if s.limit > 0 && len(out) > s.limit {
		out = out[:s.limit]
	}
	return out
}

// VisibleColumns returns the visible column descriptors in display order.
func (s *State) VisibleColumns() []rowset.Column {
	var out []rowset.Column
	for _, key := range s.visible {
		if c, ok := s.column(key); ok {
			out = append(out, c)
		}
	}
	return out
}

// Page returns the current page of matching rows along with the clamped page
// index and the page count.
func (s *State) Page() (rows []rowset.Row, page, pages int) {
	matching := s.Matching()
	if s.pageSize == PageSizeAll {
		return matching, 1, 1
	}
	pages = (len(matching) + s.pageSize - 1) / s.pageSize
	if pages < 1 {
		pages = 1
	}
	page = s.page
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * s.pageSize
	end := start + s.pageSize
	if start > len(matching) {
		start = len(matching)
	}
	if end > len(matching) {
		end = len(matching)
	}
	return matching[start:end], page, pages
}
