// Package descriptor defines the structured query contract shared by the
// assistant, the row store and the table engine. A descriptor is what a
// natural-language request is translated into, and the only thing the engine
// accepts as external state input.
package descriptor

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Operator string

const (
	OpEq       Operator = "eq"
	OpGt       Operator = "gt"
	OpGte      Operator = "gte"
	OpLt       Operator = "lt"
	OpLte      Operator = "lte"
	OpContains Operator = "contains"
	OpIn       Operator = "in"
)

// ParseOperator validates a wire operator. The in operator is accepted even
// though the prompt does not advertise it; models occasionally emit it and
// rejecting the whole descriptor over it is worse than honoring it.
func ParseOperator(s string) (Operator, bool) {
	switch op := Operator(strings.ToLower(strings.TrimSpace(s))); op {
	case OpEq, OpGt, OpGte, OpLt, OpLte, OpContains, OpIn:
		return op, true
	default:
		return "", false
	}
}

type Filter struct {
	Field string      `json:"field"`
	Op    Operator    `json:"operator"`
	Value interface{} `json:"value"`
}

type Sort struct {
	Field     string `json:"field"`
	Direction string `json:"direction,omitempty"` // "asc" or "desc"
}

func (s Sort) Descending() bool {
	return strings.EqualFold(s.Direction, "desc")
}

// QueryDescriptor is the full structured form of one request. Zero values mean
// "not specified": empty Columns shows every non-hidden column, Limit 0
// applies no cap, nil Sort keeps the current ordering. Description is a
// display label only.
type QueryDescriptor struct {
	Table       string   `json:"table"`
	Description string   `json:"description,omitempty"`
	Filters     []Filter `json:"filters,omitempty"`
	Columns     []string `json:"columns,omitempty"`
	Sort        *Sort    `json:"sort,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

// Sanitize drops malformed parts instead of failing: filters with a blank
// field or an unknown operator are removed, a sort without a field is cleared
// and negative limits are zeroed. A filter with no operator at all is kept
// with Op empty; consumers apply their type default (containment for strings,
// "at least" for numbers and dates). The descriptor that remains is always
// safe to apply.
func (d *QueryDescriptor) Sanitize() {
	kept := d.Filters[:0]
	for _, f := range d.Filters {
		if strings.TrimSpace(f.Field) == "" {
			continue
		}
		if raw := strings.TrimSpace(string(f.Op)); raw == "" {
			f.Op = ""
		} else if op, ok := ParseOperator(raw); ok {
			f.Op = op
		} else {
			continue
		}
		f.Field = strings.TrimSpace(f.Field)
		kept = append(kept, f)
	}
	d.Filters = kept
	if d.Sort != nil && strings.TrimSpace(d.Sort.Field) == "" {
		d.Sort = nil
	}
	if d.Limit < 0 {
		d.Limit = 0
	}
}

// envelope covers both wire shapes the assistant produces: a bare descriptor
// object, or one wrapped in "tableRequest" next to a display message. When
// the wrapper is present it wins.
type envelope struct {
	Message      string           `json:"message"`
	TableRequest *QueryDescriptor `json:"tableRequest"`
	QueryDescriptor
}

// Decode parses raw descriptor JSON in either wire shape and sanitizes the
// result.
func Decode(raw []byte) (QueryDescriptor, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return QueryDescriptor{}, fmt.Errorf("decode descriptor: %w", err)
	}
	d := env.QueryDescriptor
	if env.TableRequest != nil {
		d = *env.TableRequest
	}
	d.Sanitize()
	return d, nil
}
