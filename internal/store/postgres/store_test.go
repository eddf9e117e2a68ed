package postgres

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/finboard/finboard/internal/descriptor"
	"github.com/finboard/finboard/internal/schema"
	"github.com/finboard/finboard/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db, nil), mock
}

func TestFetchSinglePage(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clients" LIMIT $1 OFFSET $2`)).
		WithArgs(store.FetchPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mgc_client", "Inn"}).
			AddRow(1, "Ромашка", "7701234567").
			AddRow(2, "Василёк", nil))

	res := s.Fetch(context.Background(), schema.TableClients)
	if !res.OK() {
		t.Fatalf("unexpected message: %q", res.Message)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	if res.Columns[0].Key != "id" || res.Columns[1].Key != "mgc_client" {
		t.Fatalf("column order = %+v", res.Columns)
	}
	if !res.Columns[0].Hidden {
		t.Fatal("id column must be hidden")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchPagesUntilShortPage(t *testing.T) {
	s, mock := newMockStore(t)

	full := sqlmock.NewRows([]string{"id", "mgc_client"})
	for i := 0; i < store.FetchPageSize; i++ {
		full.AddRow(i, fmt.Sprintf("Клиент %d", i))
	}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clients" LIMIT $1 OFFSET $2`)).
		WithArgs(store.FetchPageSize, 0).
		WillReturnRows(full)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clients" LIMIT $1 OFFSET $2`)).
		WithArgs(store.FetchPageSize, store.FetchPageSize).
		WillReturnRows(sqlmock.NewRows([]string{"id", "mgc_client"}).AddRow(9999, "Последний"))

	res := s.Fetch(context.Background(), schema.TableClients)
	if len(res.Rows) != store.FetchPageSize+1 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchByDescriptorPushdown(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenders" WHERE "agency" ILIKE $1 AND "tender_start" >= $2 ORDER BY "tender_budget" DESC LIMIT $3 OFFSET $4`)).
		WithArgs("%МГК%", "2024-02-01", 50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "agency"}).AddRow(1, "МГК"))

	res := s.FetchByDescriptor(context.Background(), descriptor.QueryDescriptor{
		Table: "tenders",
		Filters: []descriptor.Filter{
			{Field: "agency", Op: descriptor.OpContains, Value: "МГК"},
			{Field: "tender_start", Op: descriptor.OpGte, Value: "2024-02-01"},
			{Field: "неизвестное_поле", Op: descriptor.OpEq, Value: "x"},
		},
		Sort:  &descriptor.Sort{Field: "бюджет", Direction: "desc"},
		Limit: 50,
	})
	if !res.OK() || len(res.Rows) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchByDescriptorOperatorlessDefaults(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenders" WHERE "client" ILIKE $1 AND "tender_budget" >= $2 LIMIT $3 OFFSET $4`)).
		WithArgs("%Ромашка%", 500000, store.FetchPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "client"}).AddRow(1, "Ромашка"))

	res := s.FetchByDescriptor(context.Background(), descriptor.QueryDescriptor{
		Table: "tenders",
		Filters: []descriptor.Filter{
			{Field: "client", Value: "Ромашка"},
			{Field: "tender_budget", Value: 500000},
		},
	})
	if !res.OK() || len(res.Rows) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchByDescriptorUnknownTableFallsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clients" LIMIT $1 OFFSET $2`)).
		WithArgs(store.FetchPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	res := s.FetchByDescriptor(context.Background(), descriptor.QueryDescriptor{Table: "orders"})
	if !res.OK() || len(res.Rows) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFetchByDescriptorMembership(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenders" WHERE "agency" IN ($1, $2) LIMIT $3 OFFSET $4`)).
		WithArgs("МГК", "Параллель", store.FetchPageSize, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	res := s.FetchByDescriptor(context.Background(), descriptor.QueryDescriptor{
		Table: "tenders",
		Filters: []descriptor.Filter{
			{Field: "agency", Op: descriptor.OpIn, Value: []interface{}{"МГК", "Параллель"}},
		},
	})
	if !res.OK() {
		t.Fatalf("message = %q", res.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestQueryFailureBecomesMessage(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "contacts"`)).
		WillReturnError(fmt.Errorf("connection refused"))

	res := s.Fetch(context.Background(), schema.TableContacts)
	if res.OK() {
		t.Fatal("expected a diagnostic message")
	}
	if len(res.Rows) != 0 || len(res.Columns) != 0 {
		t.Fatalf("failed fetch must be empty, got %+v", res)
	}
}

func TestEmptyResultIsNotAnError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "contacts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	res := s.Fetch(context.Background(), schema.TableContacts)
	if !res.OK() {
		t.Fatalf("zero rows must not carry a message, got %q", res.Message)
	}
	if len(res.Rows) != 0 {
		t.Fatalf("rows = %d", len(res.Rows))
	}
}
