package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

const (
	// Canonical instant format: UTC with millisecond precision.
	isoInstant = "2006-01-02T15:04:05.000Z"
	// Hostaway local timestamp form, read as UTC.
	hostawayTime = "2006-01-02 15:04:05"

	unknownListing = "Unknown Listing"
)

// Slugify derives the listing identifier from a display name: lowercase,
// runs of non-alphanumeric ASCII collapse to a single '-', edges trimmed.
// Idempotent, and intentionally collision-prone: same name, same listing.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pendingSep = false
		} else {
			pendingSep = true
		}
	}
	return b.String()
}

// round1 rounds half away from zero at one decimal, matching how the
// ratings are printed.
func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// stringifyID renders whatever JSON type the source used for its review ID.
func stringifyID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// overallRating applies the derivation rule: explicit rating wins, else the
// rounded mean of category ratings, else nil. Never touches the categories.
func overallRating(explicit *float64, cats []domain.Category) *float64 {
	if explicit != nil {
		return explicit
	}
	if len(cats) == 0 {
		return nil
	}
	sum := 0.0
	for _, c := range cats {
		sum += c.Rating
	}
	v := round1(sum / float64(len(cats)))
	return &v
}

// NormalizeHostaway maps a raw Hostaway batch onto the canonical shape,
// one-to-one and order-preserving. Malformed records degrade to defaults;
// this function never fails.
func NormalizeHostaway(raw []domain.RawHostawayReview) []domain.Review {
	out := make([]domain.Review, 0, len(raw))
	for _, r := range raw {
		name := unknownListing
		if r.ListingName != nil && strings.TrimSpace(*r.ListingName) != "" {
			name = *r.ListingName
		}

		cats := make([]domain.Category, 0, len(r.ReviewCategory))
		for _, c := range r.ReviewCategory {
			cats = append(cats, domain.Category{Name: c.Category, Rating: c.Rating})
		}

		var submitted *string
		if r.SubmittedAt != nil {
			if t, err := time.Parse(hostawayTime, strings.TrimSpace(*r.SubmittedAt)); err == nil {
				s := t.UTC().Format(isoInstant)
				submitted = &s
			}
		}

		text := ""
		if r.PublicReview != nil {
			text = *r.PublicReview
		}

		out = append(out, domain.Review{
			ReviewID:      stringifyID(r.ID),
			ListingID:     Slugify(name),
			ListingName:   name,
			Channel:       domain.ChannelHostaway,
			Type:          r.Type,
			Status:        r.Status,
			RatingOverall: overallRating(r.Rating, cats),
			Categories:    cats,
			SubmittedAt:   submitted,
			GuestName:     r.GuestName,
			Text:          text,
		})
	}
	return out
}

// NormalizeGoogle maps the reviews of one place onto the canonical shape.
// Places ratings are 1-5 stars; they are doubled onto the shared 0-10
// scale. Google reviews carry no stable ID, so one is synthesized from the
// review content.
func NormalizeGoogle(placeName string, raw []domain.RawGoogleReview) []domain.Review {
	name := unknownListing
	if strings.TrimSpace(placeName) != "" {
		name = placeName
	}
	listingID := Slugify(name)

	out := make([]domain.Review, 0, len(raw))
	for _, r := range raw {
		var overall *float64
		if r.Rating != nil {
			v := round1(*r.Rating * 2)
			overall = &v
		}

		var submitted *string
		if r.Time != nil {
			s := time.Unix(*r.Time, 0).UTC().Format(isoInstant)
			submitted = &s
		}

		text := ""
		if r.Text != nil {
			text = *r.Text
		}

		var guest *string
		if r.AuthorName != "" {
			g := r.AuthorName
			guest = &g
		}

		out = append(out, domain.Review{
			ReviewID:      googleReviewID(r),
			ListingID:     listingID,
			ListingName:   name,
			Channel:       domain.ChannelGoogle,
			RatingOverall: overall,
			Categories:    []domain.Category{},
			SubmittedAt:   submitted,
			GuestName:     guest,
			Text:          text,
		})
	}
	return out
}

// googleReviewID hashes author, timestamp and text into a stable synthetic
// ID, unique within a batch for any realistic payload.
func googleReviewID(r domain.RawGoogleReview) string {
	ts := ""
	if r.Time != nil {
		ts = strconv.FormatInt(*r.Time, 10)
	}
	text := ""
	if r.Text != nil {
		text = *r.Text
	}
	sig := strings.Join([]string{r.AuthorName, ts, text}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}
