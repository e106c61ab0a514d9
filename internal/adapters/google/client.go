package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

var ErrPlaceNotFound = errors.New("google: place not found")

// Client fetches Place Details restricted to the review fields. Places
// returns at most a handful of reviews per place and not in time order;
// normalization downstream does not assume otherwise.
type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		Name             string                   `json:"name"`
		Rating           *float64                 `json:"rating"`
		UserRatingsTotal *int                     `json:"user_ratings_total"`
		URL              *string                  `json:"url"`
		Reviews          []domain.RawGoogleReview `json:"reviews"`
	} `json:"result"`
}

func (c *Client) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceResult, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.PlaceResult{}, err
	}

	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "name,reviews,rating,user_ratings_total,url")
	q.Set("key", c.key)
	u := c.base + "/maps/api/place/details/json?" + q.Encode()

	var last error
	for i := 0; i < 3; i++ {
		if i > 0 && !sleepCtx(ctx, time.Duration(1<<i)*150*time.Millisecond) {
			return domain.PlaceResult{}, ctx.Err()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return domain.PlaceResult{}, err
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return domain.PlaceResult{}, ctx.Err()
			}
			last = err
			continue
		}
		observability.ObserveExternal("google", "place_details", resp.StatusCode, time.Since(start))

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			last = fmt.Errorf("remote %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return domain.PlaceResult{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}

		var dr detailsResponse
		err = json.NewDecoder(resp.Body).Decode(&dr)
		resp.Body.Close()
		if err != nil {
			return domain.PlaceResult{}, err
		}

		switch dr.Status {
		case "OK":
			return domain.PlaceResult{
				Name:         dr.Result.Name,
				Rating:       dr.Result.Rating,
				TotalRatings: dr.Result.UserRatingsTotal,
				URL:          dr.Result.URL,
				Reviews:      dr.Result.Reviews,
			}, nil
		case "NOT_FOUND", "INVALID_REQUEST", "ZERO_RESULTS":
			return domain.PlaceResult{}, fmt.Errorf("%w: %s", ErrPlaceNotFound, placeID)
		default:
			msg := dr.Status
			if dr.ErrorMessage != "" {
				msg += ": " + dr.ErrorMessage
			}
			return domain.PlaceResult{}, fmt.Errorf("google: %s", msg)
		}
	}

	return domain.PlaceResult{}, last
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
