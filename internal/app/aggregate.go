package app

import (
	"sort"
	"time"

	"flex_reviews/internal/domain"
)

const trailingWindow = 30 * 24 * time.Hour

// AggregateByListing groups a canonical collection by listing and derives
// one summary per listing. The function only sees the slice it is given;
// calling it on a filtered subset yields aggregates for that subset alone.
// The clock parameterizes the trailing-30-day count.
//
// Output is ordered by average rating descending; listings without any
// rated review sort as if their average were 0, which deliberately ranks
// them below every positively rated listing.
func AggregateByListing(reviews []domain.Review, clock domain.Clock) []domain.ListingAggregate {
	type group struct {
		name  string
		items []domain.Review
	}
	byListing := make(map[string]*group)
	order := make([]string, 0) // first-seen listing order

	for _, r := range reviews {
		g, ok := byListing[r.ListingID]
		if !ok {
			g = &group{name: r.ListingName}
			byListing[r.ListingID] = g
			order = append(order, r.ListingID)
		}
		g.items = append(g.items, r)
	}

	now := clock.Now()
	out := make([]domain.ListingAggregate, 0, len(order))
	for _, id := range order {
		g := byListing[id]

		var ratingSum float64
		ratingCount := 0
		last30d := 0
		for _, r := range g.items {
			if r.RatingOverall != nil {
				ratingSum += *r.RatingOverall
				ratingCount++
			}
			if t, ok := parseInstant(r.SubmittedAt); ok && now.Sub(t) <= trailingWindow {
				last30d++
			}
		}
		var avg *float64
		if ratingCount > 0 {
			v := round1(ratingSum / float64(ratingCount))
			avg = &v
		}

		out = append(out, domain.ListingAggregate{
			ListingID:    id,
			ListingName:  g.name,
			ReviewCount:  len(g.items),
			AvgRating:    avg,
			Last30dCount: last30d,
			TopIssues:    topIssues(g.items),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return avgOrZero(out[i].AvgRating) > avgOrZero(out[j].AvgRating)
	})
	return out
}

// topIssues returns up to three categories with the lowest mean rating
// across the listing's reviews, lowest first. Ties keep the order the
// categories first appeared in.
func topIssues(items []domain.Review) []domain.CategoryAvg {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, r := range items {
		for _, c := range r.Categories {
			if _, seen := counts[c.Name]; !seen {
				order = append(order, c.Name)
			}
			sums[c.Name] += c.Rating
			counts[c.Name]++
		}
	}

	out := make([]domain.CategoryAvg, 0, len(order))
	for _, name := range order {
		out = append(out, domain.CategoryAvg{
			Name: name,
			Avg:  round1(sums[name] / float64(counts[name])),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Avg < out[j].Avg })
	if len(out) > 3 {
		out = out[:3]
	}
	return out
}

func avgOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// parseInstant reads a canonical ISO timestamp; ok=false for nil or junk.
func parseInstant(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
