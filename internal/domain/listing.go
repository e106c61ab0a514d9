package domain

// CategoryAvg is a category name with its mean rating across a listing's
// reviews, rounded to one decimal.
type CategoryAvg struct {
	Name string  `json:"name"`
	Avg  float64 `json:"avg"`
}

// ListingAggregate is the per-listing summary derived from a canonical
// review collection. ListingName comes from the first review seen for the
// listing, not from re-slugging.
type ListingAggregate struct {
	ListingID    string        `json:"listingId"`
	ListingName  string        `json:"listingName"`
	ReviewCount  int           `json:"reviewCount"`
	AvgRating    *float64      `json:"avgRating"` // nil when no review is rated
	Last30dCount int           `json:"last30dCount"`
	TopIssues    []CategoryAvg `json:"topIssues"` // lowest means first, max 3
}
