package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/engine"
	"github.com/finboard/finboard/internal/observability"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
)

// maxQueryBodyBytes bounds descriptor bodies; grids travel the other way.
const maxQueryBodyBytes = 1 << 20

func handleData(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "STORE_NOT_CONFIGURED", "data source is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	table := schema.Normalize(r.URL.Query().Get("table"))
	result := deps.Store.Fetch(r.Context(), table)
	observability.ObserveStoreFetch(string(table), result.OK(), len(result.Rows))

	writeJSON(w, http.StatusOK, map[string]any{
		"table": table,
		"data":  result,
	})
}

// queryEnvelope carries the view parameters that ride alongside the
// descriptor in the same body. PageSize is a pointer so that an explicit
// zero selects the "all rows" page size.
type queryEnvelope struct {
	Page     int  `json:"page"`
	PageSize *int `json:"page_size"`
}

func handleDataQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Store == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "STORE_NOT_CONFIGURED", "data source is not configured", false, nil)
		return
	}
	if err := requireRole(r, "analyst"); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	state, d, ok := queryState(deps, w, r)
	if !ok {
		return
	}

	rows, page, pages := state.Page()
	writeJSON(w, http.StatusOK, map[string]any{
		"table":   state.Table(),
		"columns": state.VisibleColumns(),
		"rows":    rows,
		"page":    page,
		"pages":   pages,
		"total":   len(state.Matching()),
		"applied": d,
	})
}

// queryState fetches the descriptor's table and replays the descriptor on an
// in-memory view, mirroring what the dashboard grid does client-side.
func queryState(deps Dependencies, w http.ResponseWriter, r *http.Request) (*engine.State, descriptor.QueryDescriptor, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxQueryBodyBytes))
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_BODY", "failed to read request body", false, nil)
		return nil, descriptor.QueryDescriptor{}, false
	}

	d, err := descriptor.Decode(body)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query descriptor", false, map[string]any{"details": err.Error()})
		return nil, descriptor.QueryDescriptor{}, false
	}

	table := schema.Normalize(d.Table)
	d.Table = string(table)

	result := deps.Store.FetchByDescriptor(r.Context(), d)
	observability.ObserveStoreFetch(string(table), result.OK(), len(result.Rows))
	if !result.OK() {
		writeError(r.Context(), w, http.StatusBadGateway, "STORE_FETCH_FAILED", result.Message, true, nil)
		return nil, descriptor.QueryDescriptor{}, false
	}

	state := engine.New(rowset.Rowset{Table: table, Columns: result.Columns, Rows: result.Rows})
	state.ApplyDescriptor(d)

	// View parameters are optional; a bare descriptor body is fine.
	var env queryEnvelope
	_ = json.Unmarshal(body, &env)
	if env.PageSize != nil {
		state.SetPageSize(*env.PageSize)
	}
	if env.Page > 0 {
		state.SetPage(env.Page)
	}
	return state, d, true
}
