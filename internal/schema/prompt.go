package schema

import (
	"fmt"
	"strings"
)

// PromptContext renders the registry as Russian grounding text for the
// assistant prompt: one block per table with the field keys, labels, types and
// alias lists the model is allowed to reference.
func PromptContext() string {
	var b strings.Builder
	for _, s := range All() {
		fmt.Fprintf(&b, "Таблица %q — %s\n", s.Table, s.Title)
		fmt.Fprintf(&b, "%s\n", s.Description)
		if s.DefaultDateField != "" {
			fmt.Fprintf(&b, "Поле даты по умолчанию: %s\n", s.DefaultDateField)
		}
		b.WriteString("Поля:\n")
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "- %s (%s, тип %s): %s", f.Name, f.Label, f.Type, f.Description)
			if len(f.Aliases) > 0 {
				fmt.Fprintf(&b, " Синонимы: %s.", strings.Join(f.Aliases, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
