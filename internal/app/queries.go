package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"flex_reviews/internal/domain"
)

// QueryService drives the fetch -> normalize -> aggregate pipeline for the
// HTTP layer. Only raw provider payloads are cached; the canonical
// collection and the aggregates are recomputed on every call so freshness
// comes from recomputation, not invalidation.
type QueryService struct {
	source   domain.ReviewSource
	places   domain.PlacesClient
	cache    domain.Cache
	clock    domain.Clock
	cacheTTL time.Duration
	parallel int64 // bound on concurrent place fetches
}

func NewQueryService(src domain.ReviewSource, places domain.PlacesClient, cache domain.Cache, clock domain.Clock, ttl time.Duration, parallel int) *QueryService {
	if parallel <= 0 {
		parallel = 4
	}
	return &QueryService{
		source:   src,
		places:   places,
		cache:    cache,
		clock:    clock,
		cacheTTL: ttl,
		parallel: int64(parallel),
	}
}

// PlacesConfigured reports whether a Google client was wired in.
func (s *QueryService) PlacesConfigured() bool { return s.places != nil }

// ReviewsResponse is the wire shape of the dashboard data endpoint.
type ReviewsResponse struct {
	Status     string                    `json:"status"`
	Reviews    []domain.Review           `json:"reviews"`
	Aggregates []domain.ListingAggregate `json:"aggregates"`
}

const hostawayCacheKey = "raw:hostaway"

// HostawayReviews fetches the raw Hostaway batch (cache-aside), then
// normalizes and aggregates it.
func (s *QueryService) HostawayReviews(ctx context.Context) (ReviewsResponse, error) {
	var raw []domain.RawHostawayReview
	hit := false
	if s.cache != nil {
		hit, _ = s.cache.Get(ctx, hostawayCacheKey, &raw)
	}
	if !hit {
		var err error
		raw, err = s.source.FetchReviews(ctx)
		if err != nil {
			return ReviewsResponse{}, err
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, hostawayCacheKey, raw, s.cacheTTL)
		}
	}

	reviews := NormalizeHostaway(raw)
	return ReviewsResponse{
		Status:     "success",
		Reviews:    reviews,
		Aggregates: AggregateByListing(reviews, s.clock),
	}, nil
}

// PlaceMeta carries the place-level rating context alongside its reviews.
type PlaceMeta struct {
	Rating       *float64 `json:"rating,omitempty"`
	TotalRatings *int     `json:"total,omitempty"`
	URL          *string  `json:"url,omitempty"`
}

// PlaceReviews is the per-place slice of the Google endpoint response.
// A failed place carries Error and no reviews; siblings are unaffected.
type PlaceReviews struct {
	PlaceID string          `json:"placeId"`
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Reviews []domain.Review `json:"reviews,omitempty"`
	Meta    *PlaceMeta      `json:"meta,omitempty"`
}

// GoogleReviews fetches several places concurrently with bounded
// parallelism. Failures are isolated per place ID: one place erroring
// still yields results for the others.
func (s *QueryService) GoogleReviews(ctx context.Context, placeIDs []string) []PlaceReviews {
	out := make([]PlaceReviews, len(placeIDs))
	sem := semaphore.NewWeighted(s.parallel)
	var wg sync.WaitGroup

	for i, id := range placeIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			out[i] = PlaceReviews{PlaceID: id, Status: "error", Error: err.Error()}
			continue
		}
		wg.Add(1)
		go func(i int, placeID string) {
			defer wg.Done()
			defer sem.Release(1)
			out[i] = s.fetchPlace(ctx, placeID)
		}(i, id)
	}

	wg.Wait()
	return out
}

func (s *QueryService) fetchPlace(ctx context.Context, placeID string) PlaceReviews {
	key := "raw:google:" + placeID
	var res domain.PlaceResult
	hit := false
	if s.cache != nil {
		hit, _ = s.cache.Get(ctx, key, &res)
	}
	if !hit {
		var err error
		res, err = s.places.PlaceDetails(ctx, placeID)
		if err != nil {
			log.Warn().Str("place_id", placeID).Err(err).Msg("place details fetch failed")
			return PlaceReviews{PlaceID: placeID, Status: "error", Error: err.Error()}
		}
		if s.cache != nil {
			_ = s.cache.Set(ctx, key, res, s.cacheTTL)
		}
	}

	return PlaceReviews{
		PlaceID: placeID,
		Status:  "success",
		Reviews: NormalizeGoogle(res.Name, res.Reviews),
		Meta: &PlaceMeta{
			Rating:       res.Rating,
			TotalRatings: res.TotalRatings,
			URL:          res.URL,
		},
	}
}
