package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"ethnicityfacts/adapters/postgres"
	"ethnicityfacts/app"
	"ethnicityfacts/internal"
	"ethnicityfacts/internal/api"
	"ethnicityfacts/internal/config"
	"ethnicityfacts/internal/errors"
	"ethnicityfacts/internal/ethnicity"
	"ethnicityfacts/internal/metrics"
	"ethnicityfacts/internal/migration"
	"ethnicityfacts/internal/storage"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// initDatabase opens the configured database and creates any missing tables
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	db, err := postgres.Open(appConfig.Database.Driver, appConfig.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	logger := internal.DefaultLogger.WithPrefix("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := initDatabase(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	lookups, err := config.LoadLookups(appConfig.Lookups.File)
	if err != nil {
		log.Fatalf("Failed to load lookup catalogue: %v", err)
	}
	registry, err := ethnicity.BuildRegistry(lookups, filepath.Dir(appConfig.Lookups.File))
	if err != nil {
		log.Fatalf("Failed to build lookups: %v", err)
	}

	store, err := storage.New(ctx, appConfig.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("storing files with the %s driver", store.Driver())

	m := metrics.New()
	server := api.NewServer(api.Config{
		Standardise: app.NewStandardiseService(registry, store, m),
		Measures:    app.NewMeasureService(postgres.NewMeasureRepository(db), postgres.NewMeasureVersionRepository(db), m),
		Redirects:   app.NewRedirectService(postgres.NewRedirectRepository(db)),
		Metrics:     m,
		MaxUploadMB: appConfig.Server.MaxUploadMB,
	})

	if err := server.ListenAndServe(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
