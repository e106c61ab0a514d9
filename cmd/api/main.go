package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	google "flex_reviews/internal/adapters/google"
	"flex_reviews/internal/adapters/hostaway"
	server "flex_reviews/internal/adapters/http_server"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/adapters/storage"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// review sources
	var source domain.ReviewSource
	if cfg.HostawayMockPath != "" {
		source = hostaway.NewFileSource(cfg.HostawayMockPath)
		log.Info().Str("path", cfg.HostawayMockPath).Msg("using file-backed hostaway source")
	} else {
		client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayKey, 5, cfg.ReviewCount)
		if err != nil {
			log.Fatal().Err(err).Msg("hostaway client init failed")
		}
		source = client
	}

	var places domain.PlacesClient
	if cfg.GoogleKey != "" {
		client, err := google.New(cfg.GoogleBase, cfg.GoogleKey, 5)
		if err != nil {
			log.Fatal().Err(err).Msg("google client init failed")
		}
		places = client
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	approvals := app.NewApprovalStore(storage.New(cfg.ApprovalPath))
	q := app.NewQueryService(source, places, cache, domain.SystemClock{}, cfg.CacheTTL, cfg.Workers)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Approvals: approvals})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
