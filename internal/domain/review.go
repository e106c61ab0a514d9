package domain

// Review channels. Fixed at normalization time, never rewritten.
const (
	ChannelHostaway = "hostaway"
	ChannelGoogle   = "google"
)

// Category is one sub-dimension score attached to a review. Ratings are
// passed through exactly as the source supplied them; only the overall
// rating is held to the 0-10 scale.
type Category struct {
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// Review is the canonical review shape shared by every channel.
// Optional source fields stay nil rather than defaulting, except Text
// (always a string, possibly empty) and ListingName (sentinel when absent).
type Review struct {
	ReviewID      string     `json:"reviewId"`
	ListingID     string     `json:"listingId"` // slug of ListingName
	ListingName   string     `json:"listingName"`
	Channel       string     `json:"channel"`
	Type          *string    `json:"type"`
	Status        *string    `json:"status"`
	RatingOverall *float64   `json:"ratingOverall"` // 0-10 when set
	Categories    []Category `json:"categories"`
	SubmittedAt   *string    `json:"submittedAt"` // ISO-8601 UTC instant
	GuestName     *string    `json:"guestName"`
	Text          string     `json:"text"`
}

// RawHostawayReview mirrors one record of the Hostaway reviews payload.
// Every field may be absent or null; normalization tolerates all of it.
type RawHostawayReview struct {
	ID             any                   `json:"id"` // number or string upstream
	Type           *string               `json:"type"`
	Status         *string               `json:"status"`
	Rating         *float64              `json:"rating"`
	PublicReview   *string               `json:"publicReview"`
	ReviewCategory []RawHostawayCategory `json:"reviewCategory"`
	SubmittedAt    *string               `json:"submittedAt"` // "2020-08-21 22:45:14"
	GuestName      *string               `json:"guestName"`
	ListingName    *string               `json:"listingName"`
	Channel        *string               `json:"channel"`
}

type RawHostawayCategory struct {
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// RawGoogleReview mirrors one review of a Places Details response.
// Ratings come in on a 1-5 star scale.
type RawGoogleReview struct {
	AuthorName   string   `json:"author_name"`
	Rating       *float64 `json:"rating"`
	Text         *string  `json:"text"`
	Time         *int64   `json:"time"` // unix seconds
	Language     *string  `json:"language"`
	RelativeTime string   `json:"relative_time_description"`
}

// PlaceResult is the slice of a Places Details response we consume.
type PlaceResult struct {
	Name         string
	Rating       *float64
	TotalRatings *int
	URL          *string
	Reviews      []RawGoogleReview
}
