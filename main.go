package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"drawdock/adapters/funding"
	"drawdock/adapters/postgres"
	"drawdock/app"
	"drawdock/internal/config"
	"drawdock/internal/errors"
	heuristics "drawdock/internal/ingest"
	"drawdock/internal/migration"
	"drawdock/internal/notify"
	"drawdock/ports"
	"drawdock/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

// buildEngine constructs the ingestion engine, applying the optional
// keyword vocabulary override file when configured
func buildEngine(appConfig *config.Config) (*heuristics.Engine, error) {
	if appConfig.Ingest.VocabularyFile == "" {
		return heuristics.NewEngine(), nil
	}
	vocab, err := heuristics.LoadVocabulary(appConfig.Ingest.VocabularyFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load vocabulary override")
	}
	log.Printf("[Main] Loaded vocabulary override from %s", appConfig.Ingest.VocabularyFile)
	return heuristics.NewEngineWithConfig(heuristics.DefaultConfig(), vocab), nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	engine, err := buildEngine(appConfig)
	if err != nil {
		log.Fatalf("Failed to build ingestion engine: %v", err)
	}

	builders := postgres.NewBuilderRepository(db)
	projects := postgres.NewProjectRepository(db)
	draws := postgres.NewDrawRepository(db)
	importRepo := postgres.NewImportRepository(db)

	var dispatcher ports.FundingDispatcher
	if appConfig.Funding.BaseURL != "" {
		dispatcher, err = funding.NewDispatcher(funding.Config{
			BaseURL: appConfig.Funding.BaseURL,
			APIKey:  appConfig.Funding.APIKey,
			Timeout: appConfig.Funding.Timeout,
		})
		if err != nil {
			log.Fatalf("Failed to build funding dispatcher: %v", err)
		}
	} else {
		log.Println("FUNDING_BASE_URL not set, dispatch is disabled")
		dispatcher = &funding.MockDispatcher{}
	}

	registry := notify.NewRegistry()

	importService := app.NewImportService(
		importRepo, projects, draws, dispatcher, registry, engine,
		app.ImportConfig{
			UploadDir:   appConfig.Uploads.Dir,
			MaxFileSize: appConfig.Uploads.MaxFileSize,
		},
	)

	server := ui.NewApp(
		ui.Config{Port: appConfig.Server.Port},
		builders, projects, draws, importService, registry,
	)

	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
