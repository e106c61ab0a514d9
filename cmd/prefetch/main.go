// Command prefetch warms the raw-payload cache so the first dashboard
// request after a deploy does not pay the upstream round trips. Stale
// entries are evicted first so the warm data is fresh.
package main

import (
	"context"

	"github.com/rs/zerolog/log"

	google "flex_reviews/internal/adapters/google"
	"flex_reviews/internal/adapters/hostaway"
	"flex_reviews/internal/adapters/observability"
	redisad "flex_reviews/internal/adapters/redis"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
	"flex_reviews/internal/shared"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.Workers).
		Int("places", len(cfg.PlaceIDs)).
		Msg("prefetch starting")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	var source domain.ReviewSource
	if cfg.HostawayMockPath != "" {
		source = hostaway.NewFileSource(cfg.HostawayMockPath)
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

	q := app.NewQueryService(source, places, cache, domain.SystemClock{}, cfg.CacheTTL, cfg.Workers)

	// Evict first so the warm fetch repopulates with fresh payloads.
	_ = cache.Del(ctx, "raw:hostaway")
	for _, id := range cfg.PlaceIDs {
		_ = cache.Del(ctx, "raw:google:"+id)
	}

	if resp, err := q.HostawayReviews(ctx); err != nil {
		log.Warn().Err(err).Msg("hostaway prefetch failed")
	} else {
		log.Info().Int("reviews", len(resp.Reviews)).Int("listings", len(resp.Aggregates)).Msg("hostaway prefetch ok")
	}

	if places == nil {
		if len(cfg.PlaceIDs) > 0 {
			log.Warn().Msg("place IDs configured but google client disabled")
		}
	} else {
		for _, res := range q.GoogleReviews(ctx, cfg.PlaceIDs) {
			if res.Status != "success" {
				log.Warn().Str("place_id", res.PlaceID).Str("error", res.Error).Msg("place prefetch failed")
				continue
			}
			log.Info().Str("place_id", res.PlaceID).Int("reviews", len(res.Reviews)).Msg("place prefetch ok")
		}
	}

	log.Info().Msg("prefetch completed")
}
