package google_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	google "flex_reviews/internal/adapters/google"
)

func TestClient_PlaceDetails_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("place_id"); got != "place-1" {
			t.Errorf("place_id = %q", got)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"result": {
				"name": "Cozy Flat",
				"rating": 4.6,
				"user_ratings_total": 128,
				"url": "https://maps.google.com/?cid=1",
				"reviews": [
					{"author_name": "Ben", "rating": 5, "text": "Great location.", "time": 1714557600}
				]
			}
		}`))
	}))
	defer ts.Close()

	cl, err := google.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	res, err := cl.PlaceDetails(context.Background(), "place-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Name != "Cozy Flat" {
		t.Errorf("name = %q", res.Name)
	}
	if res.Rating == nil || *res.Rating != 4.6 {
		t.Errorf("rating = %v", res.Rating)
	}
	if res.TotalRatings == nil || *res.TotalRatings != 128 {
		t.Errorf("total = %v", res.TotalRatings)
	}
	if len(res.Reviews) != 1 || res.Reviews[0].AuthorName != "Ben" {
		t.Errorf("reviews = %+v", res.Reviews)
	}
}

func TestClient_PlaceDetails_NotFoundStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	}))
	defer ts.Close()

	cl, _ := google.New(ts.URL, "test-key", 100)
	_, err := cl.PlaceDetails(context.Background(), "missing")
	if !errors.Is(err, google.ErrPlaceNotFound) {
		t.Fatalf("expected ErrPlaceNotFound, got %v", err)
	}
}

func TestClient_PlaceDetails_DeniedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`))
	}))
	defer ts.Close()

	cl, _ := google.New(ts.URL, "test-key", 100)
	_, err := cl.PlaceDetails(context.Background(), "place-1")
	if err == nil {
		t.Fatalf("expected error for REQUEST_DENIED")
	}
}

func TestClient_RequiresKey(t *testing.T) {
	if _, err := google.New("http://example.com", "", 5); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}
