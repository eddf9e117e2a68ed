package migrations

import (
	"strings"
	"testing"

	"github.com/finboard/finboard/internal/schema"
)

func TestDashboardMigrationContainsRequiredTablesAndIndexes(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_dashboard.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(body)
	requiredSnippets := []string{
		"CREATE TABLE clients",
		"CREATE TABLE contacts",
		"CREATE TABLE tenders",
		"CREATE INDEX idx_tenders_agency",
		"CREATE INDEX idx_tenders_tender_start",
		"CREATE INDEX idx_contacts_company",
	}
	for _, snippet := range requiredSnippets {
		if !strings.Contains(sql, snippet) {
			t.Fatalf("migration missing required snippet: %s", snippet)
		}
	}
}

// Every field the registry serves must exist as a column, so the SQL source
// and the registry cannot drift apart silently.
func TestDashboardMigrationCoversRegistryFields(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_dashboard.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	sql := string(body)

	for _, ts := range schema.All() {
		for _, field := range ts.Fields {
			if !strings.Contains(sql, field.Name) {
				t.Fatalf("table %s field %q missing from migration", ts.Table, field.Name)
			}
		}
	}
}

func TestDashboardMigrationDownDropsTables(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_dashboard.down.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	for _, table := range []string{"clients", "contacts", "tenders"} {
		if !strings.Contains(string(body), "DROP TABLE IF EXISTS "+table) {
			t.Fatalf("down migration missing drop for %s", table)
		}
	}
}
