package translate

import (
	"regexp"
	"strings"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
)

var fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// extractJSON recovers the descriptor payload from free model text: a fenced
// code block wins, otherwise the span from the first '{' to the last '}'.
func extractJSON(text string) string {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end >= start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

// finishTranslation is the shared tail of every translation: extract and
// decode the descriptor, apply table continuity and run the phrase resolvers.
func finishTranslation(req Request, content string, resolvers []PhraseResolver) (Result, error) {
	d, err := descriptor.Decode([]byte(extractJSON(content)))
	if err != nil {
		return Result{}, &ParseError{Raw: content, Err: err}
	}

	// Continuity: a descriptor that names no table keeps the caller's active
	// table; anything it does name is normalized into the closed set.
	table := req.Table
	if strings.TrimSpace(d.Table) != "" {
		table = schema.Normalize(d.Table)
	} else if !schema.IsValid(table) {
		table = schema.DefaultTable
	}
	d.Table = string(table)

	for _, r := range resolvers {
		r.Resolve(req.Message, &d)
	}
	table = schema.Normalize(d.Table)

	return Result{
		Reply:      content,
		Descriptor: d,
		Table:      table,
		Raw:        content,
	}, nil
}
