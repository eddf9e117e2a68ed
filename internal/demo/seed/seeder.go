package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Seeder loads generated demo rows into the dashboard tables.
type Seeder struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSeeder(db *sql.DB, logger *slog.Logger) (*Seeder, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger}, nil
}

type Counts struct {
	Clients  int
	Contacts int
	Tenders  int
}

func (s *Seeder) Seed(ctx context.Context, gen *Generator, counts Counts) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.seedClients(ctx, tx, gen.Clients(counts.Clients)); err != nil {
		return err
	}
	if err := s.seedContacts(ctx, tx, gen.Contacts(counts.Contacts)); err != nil {
		return err
	}
	if err := s.seedTenders(ctx, tx, gen.Tenders(counts.Tenders)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "demo data seeded",
		slog.Int("clients", counts.Clients),
		slog.Int("contacts", counts.Contacts),
		slog.Int("tenders", counts.Tenders),
	)
	return nil
}

func (s *Seeder) seedClients(ctx context.Context, tx *sql.Tx, clients []Client) error {
	const query = `INSERT INTO clients (mgc_client, "Ul", "Client_category", description, top_30, id_pf, "Inn", pf_client)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, c := range clients {
		if _, err := tx.ExecContext(ctx, query, c.MgcClient, c.Ul, c.ClientCategory, c.Description, c.Top30, c.IDPf, c.Inn, c.PfClient); err != nil {
			return fmt.Errorf("insert client %q: %w", c.MgcClient, err)
		}
	}
	return nil
}

func (s *Seeder) seedContacts(ctx context.Context, tx *sql.Tx, contacts []Contact) error {
	const query = `INSERT INTO contacts (id_pf, gender, site, name, phone, "e-mail", work_position, company, telegram, date_birth, adress)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	for _, c := range contacts {
		if _, err := tx.ExecContext(ctx, query, c.IDPf, c.Gender, c.Site, c.Name, c.Phone, c.Email, c.WorkPosition, c.Company, c.Telegram, c.DateBirth, c.Adress); err != nil {
			return fmt.Errorf("insert contact %q: %w", c.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedTenders(ctx context.Context, tx *sql.Tx, tenders []Tender) error {
	const query = `INSERT INTO tenders (id_pf, agency, client, project, client_category, tender_ist, tender_budget, tender_start, tender_dl, tender_end, tender_status, "tender_KP_start", "tender_KP_end")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for _, t := range tenders {
		if _, err := tx.ExecContext(ctx, query, t.IDPf, t.Agency, t.Client, t.Project, t.ClientCategory, t.TenderIst, t.TenderBudget, t.TenderStart, t.TenderDl, t.TenderEnd, t.TenderStatus, t.TenderKPStart, t.TenderKPEnd); err != nil {
			return fmt.Errorf("insert tender %q: %w", t.Project, err)
		}
	}
	return nil
}
