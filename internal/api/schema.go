package api

import (
	"net/http"

	"github.com/finboard/finboard/internal/schema"
)

type schemaField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type schemaTable struct {
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	DefaultDateField string        `json:"default_date_field,omitempty"`
	Fields           []schemaField `json:"fields"`
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	tables := make([]schemaTable, 0, len(schema.Tables()))
	for _, ts := range schema.All() {
		fields := make([]schemaField, 0, len(ts.Fields))
		for _, f := range ts.Fields {
			fields = append(fields, schemaField{
				Name:        f.Name,
				Label:       f.Label,
				Type:        string(f.Type),
				Description: f.Description,
			})
		}
		tables = append(tables, schemaTable{
			Name:             string(ts.Table),
			Description:      ts.Description,
			DefaultDateField: ts.DefaultDateField,
			Fields:           fields,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}
