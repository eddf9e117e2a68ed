package api

import (
	"fmt"
	"net/http"

	"github.com/finboard/finboard/internal/observability"
)

// handleExport renders the current view as a semicolon-delimited CSV. When
// the body asks for archival and an archiver is wired, the matching rows are
// also written to the object store as a parquet snapshot.
func handleExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "STORE_NOT_CONFIGURED", "data source is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	state, _, ok := queryState(deps, w, r)
	if !ok {
		return
	}
	observability.ObserveExport(string(state.Table()))

	if r.URL.Query().Get("archive") == "true" {
		if deps.Archiver == nil {
			writeError(r.Context(), w, http.StatusNotImplemented, "ARCHIVE_NOT_CONFIGURED", "snapshot archival is not configured", false, nil)
			return
		}
		info, err := deps.Archiver.Archive(r.Context(), state.Table(), state.Matching())
		if err != nil {
			writeError(r.Context(), w, http.StatusBadGateway, "ARCHIVE_FAILED", "failed to archive export snapshot", true, map[string]any{"details": err.Error()})
			return
		}
		w.Header().Set("X-Snapshot-Key", info.Key)
	}

	csv := state.ExportCSV()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", string(state.Table())+".csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csv))
}
