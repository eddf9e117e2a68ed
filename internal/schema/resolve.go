package schema

import "strings"

// ResolveField maps a loosely specified field reference (exact key, label,
// alias, or a unique substring of a key) onto the canonical column key of t.
// Resolution is deterministic: exact key match wins, then exact label or alias
// match, then the first declared field whose key contains the reference. The
// second return is false when nothing matches.
func ResolveField(t Table, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	s := Describe(t)
	lower := strings.ToLower(ref)

	for _, f := range s.Fields {
		if strings.EqualFold(f.Name, ref) {
			return f.Name, true
		}
	}
	for _, f := range s.Fields {
		if strings.EqualFold(f.Label, ref) {
			return f.Name, true
		}
		for _, a := range f.Aliases {
			if strings.EqualFold(a, ref) {
				return f.Name, true
			}
		}
	}
	// Substring pass runs in declaration order so that "client" resolves to
	// the client field, not client_category, on every call.
	for _, f := range s.Fields {
		if strings.Contains(strings.ToLower(f.Name), lower) {
			return f.Name, true
		}
	}
	return "", false
}

// LabelFor returns the human label for a canonical key, or the key itself for
// columns the registry does not describe.
func LabelFor(t Table, key string) string {
	for _, f := range Describe(t).Fields {
		if f.Name == key {
			return f.Label
		}
	}
	return key
}

// FieldByName returns the registry entry for a canonical key.
func FieldByName(t Table, key string) (Field, bool) {
	for _, f := range Describe(t).Fields {
		if f.Name == key {
			return f, true
		}
	}
	return Field{}, false
}
