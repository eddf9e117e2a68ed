package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/demo/seed"
	"github.com/finboard/finboard/internal/observability"
	pgstore "github.com/finboard/finboard/internal/store/postgres"
)

func main() {
	clients := flag.Int("clients", 20, "number of demo clients")
	contacts := flag.Int("contacts", 50, "number of demo contacts")
	tenders := flag.Int("tenders", 100, "number of demo tenders")
	randSeed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	cfg, err := config.LoadFromEnv("finboard-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Store.DSN == "" {
		fmt.Fprintln(os.Stderr, "FINBOARD_STORE_DSN is required")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := pgstore.Open(ctx, pgstore.DBConfig{DSN: cfg.Store.DSN})
	if err != nil {
		fmt.Fprintf(os.Stderr, "database open error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	seeder, err := seed.NewSeeder(db, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seeder error: %v\n", err)
		os.Exit(1)
	}
	counts := seed.Counts{Clients: *clients, Contacts: *contacts, Tenders: *tenders}
	if err := seeder.Seed(ctx, seed.NewGenerator(*randSeed), counts); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d clients, %d contacts, %d tenders\n", counts.Clients, counts.Contacts, counts.Tenders)
}
