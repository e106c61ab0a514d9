package app_test

import (
	"encoding/json"
	"testing"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestSlugify(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Modern 2 Bed Flat in Primrose Hill", "modern-2-bed-flat-in-primrose-hill"},
		{"Modern 2 Bed Flat!", "modern-2-bed-flat"},
		{"modern-2-bed-flat", "modern-2-bed-flat"},
		{"  --Cozy   Flat-- ", "cozy-flat"},
		{"!!!", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := app.Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
		// idempotence
		if got := app.Slugify(app.Slugify(c.in)); got != c.want {
			t.Errorf("Slugify not idempotent for %q: got %q", c.in, got)
		}
	}
}

func TestSlugify_CollisionConsistent(t *testing.T) {
	a := app.Slugify("Modern 2 Bed Flat!")
	b := app.Slugify("modern-2-bed-flat")
	if a != b {
		t.Fatalf("expected identical listing IDs, got %q vs %q", a, b)
	}
}

// The canonical end-to-end mapping, raw JSON in.
func TestNormalizeHostaway_FullRecord(t *testing.T) {
	payload := `[{
		"id": 1,
		"type": "guest-to-host",
		"status": "published",
		"rating": null,
		"publicReview": "Lovely stay, spotless flat.",
		"reviewCategory": [
			{"category": "cleanliness", "rating": 10},
			{"category": "location", "rating": 8}
		],
		"submittedAt": "2024-05-01 10:00:00",
		"guestName": "Ana",
		"listingName": "Cozy Flat"
	}]`
	var raw []domain.RawHostawayReview
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	out := app.NormalizeHostaway(raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 review, got %d", len(out))
	}
	r := out[0]

	if r.ReviewID != "1" {
		t.Errorf("reviewId = %q, want %q", r.ReviewID, "1")
	}
	if r.ListingID != "cozy-flat" {
		t.Errorf("listingId = %q, want %q", r.ListingID, "cozy-flat")
	}
	if r.ListingName != "Cozy Flat" {
		t.Errorf("listingName = %q", r.ListingName)
	}
	if r.Channel != domain.ChannelHostaway {
		t.Errorf("channel = %q", r.Channel)
	}
	if r.RatingOverall == nil || *r.RatingOverall != 9.0 {
		t.Errorf("ratingOverall = %v, want 9.0", r.RatingOverall)
	}
	if r.SubmittedAt == nil || *r.SubmittedAt != "2024-05-01T10:00:00.000Z" {
		t.Errorf("submittedAt = %v, want 2024-05-01T10:00:00.000Z", r.SubmittedAt)
	}
	if len(r.Categories) != 2 || r.Categories[0].Name != "cleanliness" || r.Categories[1].Name != "location" {
		t.Errorf("categories out of order: %+v", r.Categories)
	}
	if r.GuestName == nil || *r.GuestName != "Ana" {
		t.Errorf("guestName = %v", r.GuestName)
	}
	if r.Text != "Lovely stay, spotless flat." {
		t.Errorf("text = %q", r.Text)
	}
}

func TestNormalizeHostaway_ExplicitRatingWins(t *testing.T) {
	raw := []domain.RawHostawayReview{{
		ID:     "42",
		Rating: ptr(7.0),
		ReviewCategory: []domain.RawHostawayCategory{
			{Category: "cleanliness", Rating: 10},
		},
	}}
	out := app.NormalizeHostaway(raw)
	if out[0].RatingOverall == nil || *out[0].RatingOverall != 7.0 {
		t.Fatalf("expected explicit rating 7.0, got %v", out[0].RatingOverall)
	}
}

func TestNormalizeHostaway_NoRatingsAtAll(t *testing.T) {
	out := app.NormalizeHostaway([]domain.RawHostawayReview{{ID: "x"}})
	r := out[0]
	if r.RatingOverall != nil {
		t.Errorf("expected nil ratingOverall, got %v", *r.RatingOverall)
	}
	if r.ListingName != "Unknown Listing" {
		t.Errorf("expected sentinel listing name, got %q", r.ListingName)
	}
	if r.SubmittedAt != nil {
		t.Errorf("expected nil submittedAt")
	}
	if r.Text != "" {
		t.Errorf("expected empty text, got %q", r.Text)
	}
	if r.Categories == nil || len(r.Categories) != 0 {
		t.Errorf("expected empty category slice, got %v", r.Categories)
	}
}

func TestNormalizeHostaway_BadDateYieldsNil(t *testing.T) {
	out := app.NormalizeHostaway([]domain.RawHostawayReview{{
		ID:          "1",
		SubmittedAt: ptr("yesterday-ish"),
	}})
	if out[0].SubmittedAt != nil {
		t.Fatalf("expected nil submittedAt for unparseable input, got %q", *out[0].SubmittedAt)
	}
}

func TestNormalizeHostaway_OrderPreserving(t *testing.T) {
	raw := []domain.RawHostawayReview{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out := app.NormalizeHostaway(raw)
	if len(out) != 3 || out[0].ReviewID != "a" || out[1].ReviewID != "b" || out[2].ReviewID != "c" {
		t.Fatalf("order not preserved: %+v", out)
	}
}

func TestNormalizeGoogle_ScaleAndTimestamp(t *testing.T) {
	raw := []domain.RawGoogleReview{{
		AuthorName: "Ben",
		Rating:     ptr(4.0),
		Text:       ptr("Great location."),
		Time:       ptr(int64(1714557600)), // 2024-05-01T10:00:00Z
	}}
	out := app.NormalizeGoogle("Cozy Flat", raw)
	if len(out) != 1 {
		t.Fatalf("expected 1 review, got %d", len(out))
	}
	r := out[0]
	if r.Channel != domain.ChannelGoogle {
		t.Errorf("channel = %q", r.Channel)
	}
	if r.ListingID != "cozy-flat" {
		t.Errorf("listingId = %q", r.ListingID)
	}
	if r.RatingOverall == nil || *r.RatingOverall != 8.0 {
		t.Errorf("ratingOverall = %v, want 8.0 (4 stars doubled)", r.RatingOverall)
	}
	if r.SubmittedAt == nil || *r.SubmittedAt != "2024-05-01T10:00:00.000Z" {
		t.Errorf("submittedAt = %v", r.SubmittedAt)
	}
	if r.ReviewID == "" {
		t.Errorf("expected synthesized review ID")
	}
	if r.GuestName == nil || *r.GuestName != "Ben" {
		t.Errorf("guestName = %v", r.GuestName)
	}
}

func TestNormalizeGoogle_StableSyntheticIDs(t *testing.T) {
	raw := []domain.RawGoogleReview{
		{AuthorName: "Ben", Time: ptr(int64(100)), Text: ptr("a")},
		{AuthorName: "Ben", Time: ptr(int64(200)), Text: ptr("b")},
	}
	a := app.NormalizeGoogle("X", raw)
	b := app.NormalizeGoogle("X", raw)
	if a[0].ReviewID != b[0].ReviewID {
		t.Fatalf("synthetic ID not stable")
	}
	if a[0].ReviewID == a[1].ReviewID {
		t.Fatalf("distinct reviews share an ID")
	}
}
