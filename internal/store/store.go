// Package store defines the data access surface over the row sources. All
// failure modes below this boundary are folded into the Result shape: an empty
// rowset with a diagnostic message, so callers can tell "not configured" from
// "query ran, zero rows" without exception plumbing.
package store

import (
	"context"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/rowset"
	"github.com/finboard/finboard/internal/schema"
)

// FetchPageSize is the per-call row ceiling respected against the source;
// fetches page internally in chunks of this size in strictly increasing
// offset order and stop on the first short page.
const FetchPageSize = 500

// MaxFetchRows caps any single fetch regardless of descriptor limits.
const MaxFetchRows = 2000

type Result struct {
	Columns []rowset.Column `json:"columns"`
	Rows    []rowset.Row    `json:"rows"`
	// Message is a human-readable diagnostic rendered instead of the grid
	// when the source is unreachable or misconfigured. Empty on success,
	// including the zero-rows case.
	Message string `json:"error,omitempty"`
}

func (r Result) OK() bool { return r.Message == "" }

type Store interface {
	// Fetch retrieves the full row set for a table, up to MaxFetchRows.
	Fetch(ctx context.Context, table schema.Table) Result
	// FetchByDescriptor pushes the descriptor's filters, sort and limit down
	// to the source where its query surface allows it.
	FetchByDescriptor(ctx context.Context, d descriptor.QueryDescriptor) Result
}

// NotConfigured is the stub used when no source credentials are present.
type NotConfigured struct{}

const notConfiguredMessage = "Источник данных не настроен. Проверьте параметры подключения."

func (NotConfigured) Fetch(context.Context, schema.Table) Result {
	return Result{Message: notConfiguredMessage}
}

func (NotConfigured) FetchByDescriptor(context.Context, descriptor.QueryDescriptor) Result {
	return Result{Message: notConfiguredMessage}
}
