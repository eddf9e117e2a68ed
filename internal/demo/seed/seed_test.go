package seed

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestGeneratorIsDeterministic(t *testing.T) {
	first := NewGenerator(42)
	second := NewGenerator(42)

	a := first.Tenders(5)
	b := second.Tenders(5)
	for i := range a {
		if a[i].Agency != b[i].Agency || a[i].TenderBudget != b[i].TenderBudget {
			t.Fatalf("run diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGeneratorTenderDatesAreOrdered(t *testing.T) {
	gen := NewGenerator(7)
	for _, tender := range gen.Tenders(20) {
		if tender.TenderDl.Before(tender.TenderStart) {
			t.Fatalf("deadline before start: %+v", tender)
		}
		if tender.TenderEnd.Before(tender.TenderDl) {
			t.Fatalf("end before deadline: %+v", tender)
		}
		if tender.TenderKPEnd.Before(tender.TenderKPStart) {
			t.Fatalf("KP end before KP start: %+v", tender)
		}
	}
}

func TestGeneratorClientInns(t *testing.T) {
	innPattern := regexp.MustCompile(`^77\d{8}$`)
	for _, client := range NewGenerator(1).Clients(10) {
		if !innPattern.MatchString(client.Inn) {
			t.Fatalf("bad INN %q", client.Inn)
		}
	}
}

func TestSeederInsertsAllTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO clients").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for i := 0; i < 3; i++ {
		mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	for i := 0; i < 4; i++ {
		mock.ExpectExec("INSERT INTO tenders").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	seeder, err := NewSeeder(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewSeeder() error = %v", err)
	}
	gen := NewGenerator(3)
	gen.now = func() time.Time { return time.Date(2026, time.February, 19, 0, 0, 0, 0, time.UTC) }

	if err := seeder.Seed(context.Background(), gen, Counts{Clients: 2, Contacts: 3, Tenders: 4}); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSeederRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO clients").WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	seeder, err := NewSeeder(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewSeeder() error = %v", err)
	}
	if err := seeder.Seed(context.Background(), NewGenerator(3), Counts{Clients: 1}); err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
