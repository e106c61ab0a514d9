package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	RedisAddr string
	RedisDB   int
	RedisPass string

	HostawayBase     string
	HostawayKey      string
	HostawayMockPath string // when set, reviews come from this file instead of the API
	ReviewCount      int

	GoogleBase string
	GoogleKey  string
	PlaceIDs   []string

	ApprovalPath string
	CacheTTL     time.Duration
	Workers      int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:           env("APP_ENV", "prod"),
		HTTPAddr:         env("HTTP_ADDR", ":8080"),
		MetricsAddr:      env("METRICS_ADDR", ":9100"),
		RedisAddr:        env("REDIS_ADDR", "localhost:6379"),
		RedisPass:        env("REDIS_PASSWORD", ""),
		RedisDB:          atoi("REDIS_DB", 0),
		HostawayBase:     env("HOSTAWAY_BASE_URL", "https://api.hostaway.com/v1"),
		HostawayKey:      env("HOSTAWAY_API_KEY", ""),
		HostawayMockPath: os.Getenv("HOSTAWAY_MOCK_PATH"),
		ReviewCount:      atoi("HOSTAWAY_REVIEW_COUNT", 100),
		GoogleBase:       env("GOOGLE_BASE_URL", "https://maps.googleapis.com"),
		GoogleKey:        env("GOOGLE_MAPS_API_KEY", ""),
		PlaceIDs:         splitCSV(os.Getenv("GOOGLE_PLACE_IDS")),
		ApprovalPath:     env("APPROVAL_STORE_PATH", "data/approvals.json"),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		Workers:          atoi("FETCH_WORKERS", 4),
	}
	// With neither a key nor an explicit mock path, fall back to the
	// bundled sample data so a bare `go run ./cmd/api` still serves.
	if c.HostawayMockPath == "" && c.HostawayKey == "" {
		c.HostawayMockPath = "data/hostaway_reviews.sample.json"
		log.Warn().Str("path", c.HostawayMockPath).
			Msg("HOSTAWAY_API_KEY is empty; serving bundled sample reviews")
	}
	if c.GoogleKey == "" {
		log.Warn().Msg("GOOGLE_MAPS_API_KEY is empty; google reviews disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
