package storage

import (
	"fmt"
	"path"
	"regexp"
	"time"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildExportFilePath places an archived export snapshot under a per-table,
// per-day layout: exports/<table>/date=YYYY-MM-DD/export-<unix_ms>.parquet.
func BuildExportFilePath(tableName string, exportedAt time.Time) (string, error) {
	if err := validatePathComponent(tableName, "table name"); err != nil {
		return "", err
	}
	ts := exportedAt.UTC()
	return path.Join(
		"exports",
		tableName,
		fmt.Sprintf("date=%04d-%02d-%02d", ts.Year(), ts.Month(), ts.Day()),
		fmt.Sprintf("export-%d.parquet", ts.UnixMilli()),
	), nil
}

// ExportTablePrefix is the listing prefix covering every archived snapshot of
// one table.
func ExportTablePrefix(tableName string) (string, error) {
	if err := validatePathComponent(tableName, "table name"); err != nil {
		return "", err
	}
	return path.Join("exports", tableName) + "/", nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
