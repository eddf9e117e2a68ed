// Package export archives dashboard export snapshots to object storage.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/finboard/finboard/internal/rowset"
)

type ParquetEncodeResult struct {
	Data     []byte
	RowCount int64
}

// snapshotRow keeps the archive schema-independent of the source tables:
// each visible row is stored as a JSON document alongside its metadata.
type snapshotRow struct {
	TableName      string `parquet:"table_name"`
	RowIndex       int64  `parquet:"row_index"`
	RowJSON        string `parquet:"row_json"`
	ExportedUnixMs int64  `parquet:"exported_at_unix_ms"`
	CreatedBy      string `parquet:"created_by"`
}

func EncodeSnapshotToParquet(tableName string, rows []rowset.Row, exportedAt time.Time, createdBy string) (ParquetEncodeResult, error) {
	if len(rows) == 0 {
		return ParquetEncodeResult{}, fmt.Errorf("rows are required")
	}

	exportedUnixMs := exportedAt.UTC().UnixMilli()
	encoded := make([]snapshotRow, 0, len(rows))
	for i, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return ParquetEncodeResult{}, fmt.Errorf("marshal row %d: %w", i, err)
		}
		encoded = append(encoded, snapshotRow{
			TableName:      tableName,
			RowIndex:       int64(i),
			RowJSON:        string(payload),
			ExportedUnixMs: exportedUnixMs,
			CreatedBy:      createdBy,
		})
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[snapshotRow](buf)
	if _, err := writer.Write(encoded); err != nil {
		return ParquetEncodeResult{}, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return ParquetEncodeResult{}, fmt.Errorf("close parquet writer: %w", err)
	}

	return ParquetEncodeResult{Data: buf.Bytes(), RowCount: int64(len(encoded))}, nil
}
