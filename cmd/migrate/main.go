package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"ethnicityfacts/adapters/postgres"
	"ethnicityfacts/adapters/tabular"
	"ethnicityfacts/app"
	"ethnicityfacts/domain/core"
	"ethnicityfacts/internal/migration"
)

var errMissingColumns = errors.New("header needs from_uri and to_uri columns")

// migrate brings a database up to the current schema and, optionally, loads
// redirect rules exported from the old site as a CSV or XLSX sheet with
// from_uri and to_uri columns.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <driver> <database_url> [redirects.csv]")
	}

	driver := os.Args[1]
	databaseURL := os.Args[2]

	db, err := postgres.Open(driver, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Printf("Schema is up to date")

	if len(os.Args) < 4 {
		return
	}

	rows, err := readRedirects(os.Args[3])
	if err != nil {
		log.Fatalf("Failed to read redirects: %v", err)
	}
	log.Printf("Found %d redirect rules to import", len(rows))

	migrated, skipped := importRedirects(ctx, app.NewRedirectService(postgres.NewRedirectRepository(db)), rows)
	log.Printf("Import complete: %d migrated, %d skipped", migrated, skipped)
}

// readRedirects returns (from, to) pairs from a sheet whose header names
// from_uri and to_uri columns
func readRedirects(path string) ([][2]string, error) {
	reader, err := tabular.NewDataReader(path)
	if err != nil {
		return nil, err
	}
	rows, err := reader.ReadRows()
	if err != nil {
		return nil, err
	}

	fromIdx, toIdx := -1, -1
	for i, cell := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "from_uri", "from":
			fromIdx = i
		case "to_uri", "to":
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 {
		return nil, core.NewDataFormatError(path, errMissingColumns)
	}

	pairs := make([][2]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= fromIdx || len(row) <= toIdx {
			continue
		}
		pairs = append(pairs, [2]string{row[fromIdx], row[toIdx]})
	}
	return pairs, nil
}

func importRedirects(ctx context.Context, svc *app.RedirectService, pairs [][2]string) (migrated, skipped int) {
	for _, p := range pairs {
		rd, err := svc.Create(ctx, p[0], p[1])
		if err != nil {
			log.Printf("Skipping %s -> %s: %v", p[0], p[1], err)
			skipped++
			continue
		}
		migrated++
		log.Printf("Migrated %s -> %s", rd.FromURI, rd.ToURI)
	}
	return migrated, skipped
}
