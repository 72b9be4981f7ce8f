package main

import (
	"context"
	"database/sql"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"delivery_reviews/internal/adapters/observability"
	redisad "delivery_reviews/internal/adapters/redis"
	"delivery_reviews/internal/app"
	"delivery_reviews/internal/classify"
	"delivery_reviews/internal/shared"
	mysqlrepo "delivery_reviews/internal/storage/mysql"
)

// Bulk loader: ingests the CSV files named on the command line, a few at a
// time. Each file is removed after its rows are stored.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	files := os.Args[1:]
	if len(files) == 0 {
		log.Fatal().Msg("usage: ingestor <file.csv> [file.csv ...]")
	}
	log.Info().
		Int("files", len(files)).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(repo, cache, classify.New(nil))

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, path := range files {
		path := path

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer sem.Release(int64(1))

			res, err := ing.IngestFile(ctx, p)
			if err != nil {
				log.Warn().Str("file", p).Err(err).Msg("ingest failed")
				return
			}
			log.Info().
				Str("file", p).
				Int("inserted", res.InsertedCount).
				Int("failed", len(res.FailedRows)).
				Msg("ingest ok")
		}(path)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
