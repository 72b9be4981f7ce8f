package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	server "delivery_reviews/internal/adapters/http_server"
	"delivery_reviews/internal/adapters/observability"
	redisad "delivery_reviews/internal/adapters/redis"
	"delivery_reviews/internal/app"
	"delivery_reviews/internal/classify"
	"delivery_reviews/internal/shared"
	mysqlrepo "delivery_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	classifier := classify.New(nil)

	q := app.NewQueryService(repo, cache, cfg.CacheTTL, app.MetricsScope(cfg.MetricsScope))
	u := app.NewUpdateService(repo, cache)
	ing := app.NewIngestionService(repo, cache, classifier)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:              q,
		U:              u,
		Ing:            ing,
		APIToken:       cfg.APIToken,
		UploadLimiter:  rate.NewLimiter(rate.Limit(cfg.UploadRPS), cfg.UploadBurst),
		MaxUploadBytes: cfg.MaxUpload,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
