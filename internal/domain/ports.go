package domain

import (
	"context"
	"time"
)

// ReviewSource hands back one raw Hostaway review batch per call.
// Implementations: live API client, file-backed sample source.
type ReviewSource interface {
	FetchReviews(ctx context.Context) ([]RawHostawayReview, error)
}

// PlacesClient fetches the review slice of one Google place.
type PlacesClient interface {
	PlaceDetails(ctx context.Context, placeID string) (PlaceResult, error)
}

// Cache is a TTL'd raw-payload cache. Canonical reviews and aggregates are
// never cached; they are recomputed from raw data on every request.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// KVStore is the small persisted key-value capability backing the approval
// set (the localStorage analog). Get reports ok=false for an absent key.
type KVStore interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, val []byte) error
	Clear(key string) error
}

// Clock decouples time-dependent computations (trailing windows, presets)
// from the wall clock so tests can pin a fixed instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockAt returns a Clock frozen at t.
func ClockAt(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
