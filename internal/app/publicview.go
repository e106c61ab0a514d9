package app

import (
	"encoding/base64"
	"encoding/json"

	"flex_reviews/internal/domain"
)

// PublicPayload rides in the `pub` query parameter as base64-encoded JSON
// and switches the page into the restricted single-listing public view.
type PublicPayload struct {
	ListingID   string   `json:"listingId"`
	ApprovedIDs []string `json:"approvedIds"`
}

// EncodePubParam renders the payload for embedding in a share link.
func EncodePubParam(p PublicPayload) string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}

// DecodePubParam parses a `pub` parameter. Any failure (bad base64, bad
// JSON, empty input) yields nil so callers fall back to the dashboard view.
func DecodePubParam(s string) *PublicPayload {
	if s == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil
	}
	var p PublicPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil
	}
	return &p
}

// VisibleReviews computes the public view's review set: the canonical
// collection intersected with the approved IDs, optionally narrowed to one
// listing. Order follows the input collection.
func VisibleReviews(reviews []domain.Review, approved map[string]struct{}, listingID string) []domain.Review {
	out := make([]domain.Review, 0, len(approved))
	for _, r := range reviews {
		if _, ok := approved[r.ReviewID]; !ok {
			continue
		}
		if listingID != "" && listingID != "all" && r.ListingID != listingID {
			continue
		}
		out = append(out, r)
	}
	return out
}

// DisplaySummary is the public page's overview box.
type DisplaySummary struct {
	Count     int      `json:"count"`
	AvgRating *float64 `json:"avgRating"`
}

// SummarizeVisible averages the rated reviews of a visible set.
func SummarizeVisible(visible []domain.Review) DisplaySummary {
	sum := 0.0
	n := 0
	for _, r := range visible {
		if r.RatingOverall != nil {
			sum += *r.RatingOverall
			n++
		}
	}
	out := DisplaySummary{Count: len(visible)}
	if n > 0 {
		v := round1(sum / float64(n))
		out.AvgRating = &v
	}
	return out
}

// IDSet builds a lookup set from a list of review IDs.
func IDSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
