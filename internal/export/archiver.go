package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/observability"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
	"github.com/finboard/finboard/internal/storage"
)

const parquetContentType = "application/vnd.apache.parquet"

// Archiver writes parquet snapshots of exports to the object store and
// prunes old snapshots down to the configured retention count.
type Archiver struct {
	store     storage.ObjectStore
	keep      int
	createdBy string
	logger    *slog.Logger
	now       func() time.Time
}

func NewArchiver(store storage.ObjectStore, cfg config.ExportConfig, logger *slog.Logger) (*Archiver, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	keep := cfg.KeepSnapshots
	if keep < 1 {
		keep = 1
	}
	createdBy := strings.TrimSpace(cfg.CreatedBy)
	if createdBy == "" {
		createdBy = "finboard-api"
	}
	return &Archiver{
		store:     store,
		keep:      keep,
		createdBy: createdBy,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (a *Archiver) Archive(ctx context.Context, table schema.Table, rows []rowset.Row) (storage.ObjectInfo, error) {
	exportedAt := a.now().UTC()
	encoded, err := EncodeSnapshotToParquet(string(table), rows, exportedAt, a.createdBy)
	if err != nil {
		observability.ObserveExportArchive(false)
		return storage.ObjectInfo{}, fmt.Errorf("encode snapshot for %q: %w", table, err)
	}

	key, err := storage.BuildExportFilePath(string(table), exportedAt)
	if err != nil {
		observability.ObserveExportArchive(false)
		return storage.ObjectInfo{}, err
	}

	info, err := a.store.Put(ctx, key, bytes.NewReader(encoded.Data), int64(len(encoded.Data)), storage.PutOptions{ContentType: parquetContentType})
	if err != nil {
		observability.ObserveExportArchive(false)
		return storage.ObjectInfo{}, fmt.Errorf("archive snapshot %q: %w", key, err)
	}
	observability.ObserveExportArchive(true)

	a.logger.InfoContext(ctx, "export snapshot archived",
		slog.String("table", string(table)),
		slog.String("key", key),
		slog.Int64("rows", encoded.RowCount),
	)

	if err := a.prune(ctx, table); err != nil {
		// Retention failures must not fail the export itself.
		a.logger.WarnContext(ctx, "snapshot retention failed",
			slog.String("table", string(table)),
			slog.String("error", err.Error()),
		)
	}
	return info, nil
}

func (a *Archiver) prune(ctx context.Context, table schema.Table) error {
	prefix, err := storage.ExportTablePrefix(string(table))
	if err != nil {
		return err
	}
	objects, err := a.store.List(ctx, prefix)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(objects) <= a.keep {
		return nil
	}

	// Newest first. Keys embed the export timestamp, so they order the same
	// way LastModified does when the clock is unavailable.
	sort.Slice(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Key > objects[j].Key
	})

	for _, obj := range objects[a.keep:] {
		if err := a.store.Delete(ctx, obj.Key); err != nil {
			return fmt.Errorf("delete snapshot %q: %w", obj.Key, err)
		}
		a.logger.InfoContext(ctx, "export snapshot pruned",
			slog.String("table", string(table)),
			slog.String("key", obj.Key),
		)
	}
	return nil
}
