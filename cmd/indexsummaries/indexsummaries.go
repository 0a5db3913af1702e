package main

import (
	"context"
	"time"

	"aimentor/config"
	"aimentor/db"
	"aimentor/logger"
	"aimentor/services/docindex"
)

// indexsummaries creates the summary index if needed and re-embeds every
// stored summary into it.
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	log.Info("Starting summary indexing process")

	if cfg.DatabaseURL == "" {
		log.Fatal("DB_URL environment variable is required")
	}
	if !cfg.SearchEnabled() {
		log.Fatal("PINECONE_API_KEY and OPENAI_API_KEY environment variables are required")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer conn.Close()

	index, err := docindex.NewService(cfg.PineconeAPIKey, cfg.OpenAIAPIKey, cfg.PineconeIndexName, log)
	if err != nil {
		log.Fatalf("Failed to initialize summary index: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if err := index.EnsureIndex(ctx); err != nil {
		log.Fatalf("Failed to prepare index %s: %v", cfg.PineconeIndexName, err)
	}

	summaries, err := db.NewPostgresSummaryRepository(conn).ListAllSummaries(ctx)
	if err != nil {
		log.Fatalf("Failed to load summaries: %v", err)
	}
	log.Infof("Found %d summaries to index", len(summaries))

	indexed, failed := 0, 0
	for i, summary := range summaries {
		if err := index.IndexSummary(ctx, summary); err != nil {
			log.Errorf("Failed to index summary %d: %v", summary.ID, err)
			failed++
			continue
		}
		indexed++
		if (i+1)%25 == 0 {
			log.Infof("Progress: %d/%d summaries processed", i+1, len(summaries))
		}
	}

	log.Infof("Indexing complete: %d indexed, %d failed", indexed, failed)
}
