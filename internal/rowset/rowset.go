// Package rowset turns raw record maps from any data source into the typed
// column/row shape the table layer works with. Column order, labels, visibility
// and the per-column type sniff all live here so every source produces an
// identical rowset for identical records.
package rowset

import (
	"encoding/json"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/finboard/finboard/internal/schema"
)

type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

type Column struct {
	Key    string     `json:"key"`
	Label  string     `json:"label"`
	Type   ColumnType `json:"type"`
	Hidden bool       `json:"hidden,omitempty"`
}

type Row map[string]interface{}

type Rowset struct {
	Table   schema.Table `json:"table"`
	Columns []Column     `json:"columns"`
	Rows    []Row        `json:"rows"`
}

// System bookkeeping columns are carried in the rows but never shown or
// exported unless explicitly requested.
var hiddenKeys = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"inserted_at": true,
}

func IsHiddenKey(key string) bool { return hiddenKeys[key] }

// BuildFromRecords assembles a rowset from raw records. Column order follows
// the key order of the first record, with keys that only appear in later
// records appended in first-seen order. Types are sniffed from the first
// non-null value per column; a column with only nulls stays a string column.
func BuildFromRecords(t schema.Table, records []map[string]interface{}) Rowset {
	rs := Rowset{Table: t, Rows: make([]Row, 0, len(records))}
	seen := map[string]bool{}
	var order []string
	for _, rec := range records {
		for _, key := range recordKeyOrder(rec) {
			if !seen[key] {
				seen[key] = true
				order = append(order, key)
			}
		}
		row := make(Row, len(rec))
		for k, v := range rec {
			if k != keyOrderField {
				row[k] = v
			}
		}
		rs.Rows = append(rs.Rows, row)
	}
	for _, key := range order {
		rs.Columns = append(rs.Columns, Column{
			Key:    key,
			Label:  schema.LabelFor(t, key),
			Type:   sniffColumn(key, records),
			Hidden: IsHiddenKey(key),
		})
	}
	return rs
}

// recordKeyOrder recovers declaration order for a record. Go maps do not keep
// it, so records decoded through this package's Record type carry their own
// order; plain maps fall back to the registry's field order plus leftovers
// sorted lexically for determinism.
func recordKeyOrder(rec map[string]interface{}) []string {
	if ord, ok := rec[keyOrderField].([]string); ok {
		return ord
	}
	var keys []string
	for k := range rec {
		if k != keyOrderField {
			keys = append(keys, k)
		}
	}
	// Registry order first so the grid is stable even without wire order.
	var ordered []string
	used := map[string]bool{}
	for _, k := range []string{"id", "created_at", "updated_at", "inserted_at"} {
		if slices.Contains(keys, k) {
			ordered = append(ordered, k)
			used[k] = true
		}
	}
	for _, tab := range schema.Tables() {
		for _, f := range schema.Describe(tab).Fields {
			if slices.Contains(keys, f.Name) && !used[f.Name] {
				ordered = append(ordered, f.Name)
				used[f.Name] = true
			}
		}
	}
	var rest []string
	for _, k := range keys {
		if !used[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

const keyOrderField = "__key_order"

// SetKeyOrder attaches explicit column order to a record built from a source
// that reports order out of band (SQL result sets, spreadsheet headers).
func SetKeyOrder(rec map[string]interface{}, keys []string) {
	rec[keyOrderField] = append([]string(nil), keys...)
}

// DecodeRecords parses a JSON array of objects while preserving each object's
// key order under keyOrderField, so BuildFromRecords can reproduce the wire
// column order exactly.
func DecodeRecords(raw []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var out []map[string]interface{}
	if _, err := dec.Token(); err != nil { // opening [
		return nil, err
	}
	for dec.More() {
		rec, err := decodeOrderedObject(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func decodeOrderedObject(dec *json.Decoder) (map[string]interface{}, error) {
	if _, err := dec.Token(); err != nil { // opening {
		return nil, err
	}
	rec := map[string]interface{}{}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		rec[key] = val
		order = append(order, key)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, err
	}
	rec[keyOrderField] = order
	return rec, nil
}

func (r Row) Value(key string) interface{} { return r[key] }

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// IsDateString reports whether s starts with a YYYY-MM-DD date.
func IsDateString(s string) bool { return dateRe.MatchString(s) }

// ParseNumber parses numeric cell text the way the dashboards record it:
// comma or dot decimal separator, spaces (including non-breaking) as thousand
// separators.
func ParseNumber(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sniffColumn inspects records top to bottom and classifies the column from
// the first non-null value it finds.
func sniffColumn(key string, records []map[string]interface{}) ColumnType {
	for _, rec := range records {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64, int, int64, json.Number:
			return TypeNumber
		case bool:
			return TypeString
		case string:
			if IsDateString(x) {
				return TypeDate
			}
			if _, ok := ParseNumber(x); ok {
				return TypeNumber
			}
			return TypeString
		default:
			return TypeString
		}
	}
	return TypeString
}

