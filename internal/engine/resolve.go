package engine

import (
	"strings"

	"github.com/finboard/finboard/internal/schema"
)

// resolveField maps a descriptor field reference onto a concrete column key.
// Precedence: exact case-insensitive match on key or label, then registry
// aliases, then bidirectional substring containment against keys and labels.
// A miss is not an error; callers drop the reference.
func (s *State) resolveField(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	lower := strings.ToLower(ref)

	for _, c := range s.data.Columns {
		if strings.EqualFold(c.Key, ref) || strings.EqualFold(c.Label, ref) {
			return c.Key, true
		}
	}
	if key, ok := schema.ResolveField(s.data.Table, ref); ok {
		if _, present := s.column(key); present {
			return key, true
		}
	}
	for _, c := range s.data.Columns {
		key := strings.ToLower(c.Key)
		label := strings.ToLower(c.Label)
		if strings.Contains(key, lower) || strings.Contains(lower, key) ||
			strings.Contains(label, lower) || strings.Contains(lower, label) {
			return c.Key, true
		}
	}
	return "", false
}
