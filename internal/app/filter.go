package app

import (
	"sort"
	"strings"
	"time"

	"flex_reviews/internal/domain"
)

// Time window presets.
type TimePreset string

const (
	TimeAll    TimePreset = "all"
	TimeLast7  TimePreset = "7d"
	TimeLast30 TimePreset = "30d"
	TimeLast90 TimePreset = "90d"
	TimeCustom TimePreset = "custom"
)

type SortField string

const (
	SortByDate     SortField = "date"
	SortByRating   SortField = "rating"
	SortByChannel  SortField = "channel"
	SortByCategory SortField = "category"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// FilterParams is one snapshot of the dashboard's selection state. Filters
// are AND-combined; membership filters are OR within themselves. The zero
// value selects everything, sorted by date descending.
type FilterParams struct {
	ListingID    string   // "" or "all" selects every listing
	MinRating    float64  // inclusive threshold on RatingOverall
	Categories   []string // review passes if any of its categories matches
	Channels     []string
	TimePreset   TimePreset
	CustomStart  string // "2006-01-02", inclusive
	CustomEnd    string // "2006-01-02", extended to end of day
	SortField    SortField
	SortDir      SortDir
	SortCategory string // category name when SortField == SortByCategory
}

// FilterAndSort computes the visible ordered view of a canonical
// collection. Pure over its inputs: the input slice is never mutated and
// the result is always freshly derived in full.
func FilterAndSort(reviews []domain.Review, p FilterParams, clock domain.Clock) []domain.Review {
	start, end, timed := p.timeRange(clock)

	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if p.ListingID != "" && p.ListingID != "all" && r.ListingID != p.ListingID {
			continue
		}
		// nil ratings cannot satisfy a positive threshold.
		if p.MinRating > 0 && (r.RatingOverall == nil || *r.RatingOverall < p.MinRating) {
			continue
		}
		if len(p.Categories) > 0 && !hasAnyCategory(r, p.Categories) {
			continue
		}
		if len(p.Channels) > 0 && !contains(p.Channels, r.Channel) {
			continue
		}
		if timed {
			t, ok := parseInstant(r.SubmittedAt)
			if !ok || t.Before(start) || t.After(end) {
				continue
			}
		}
		out = append(out, r)
	}

	p.sortInPlace(out)
	return out
}

// timeRange resolves the active window. active=false means no time filter.
func (p FilterParams) timeRange(clock domain.Clock) (start, end time.Time, active bool) {
	switch p.TimePreset {
	case TimeLast7, TimeLast30, TimeLast90:
		days := map[TimePreset]int{TimeLast7: 7, TimeLast30: 30, TimeLast90: 90}[p.TimePreset]
		now := clock.Now().UTC()
		end = endOfDay(now)
		start = startOfDay(now.AddDate(0, 0, -days))
		return start, end, true
	case TimeCustom:
		// Unset bounds stay open-ended.
		start = time.Time{}
		end = time.Date(9999, 12, 31, 23, 59, 59, 999000000, time.UTC)
		var have bool
		if t, err := time.Parse("2006-01-02", p.CustomStart); err == nil {
			start, have = t, true
		}
		if t, err := time.Parse("2006-01-02", p.CustomEnd); err == nil {
			end, have = endOfDay(t), true
		}
		return start, end, have
	default:
		return time.Time{}, time.Time{}, false
	}
}

func (p FilterParams) sortInPlace(rs []domain.Review) {
	field := p.SortField
	if field == "" {
		field = SortByDate
	}
	// Unset category key makes the category sort a no-op.
	if field == SortByCategory && p.SortCategory == "" {
		return
	}

	desc := p.SortDir != SortAsc

	key := func(r domain.Review) float64 {
		switch field {
		case SortByDate:
			if t, ok := parseInstant(r.SubmittedAt); ok {
				return float64(t.UnixMilli())
			}
			return 0 // nil dates sort as the epoch
		case SortByRating:
			if r.RatingOverall != nil {
				return *r.RatingOverall
			}
			return negInf
		default: // SortByCategory
			if v, ok := categoryRating(r, p.SortCategory); ok {
				return v
			}
			return negInf
		}
	}

	sort.SliceStable(rs, func(i, j int) bool {
		if field == SortByChannel {
			c := strings.Compare(rs[i].Channel, rs[j].Channel)
			if desc {
				return c > 0
			}
			return c < 0
		}
		a, b := key(rs[i]), key(rs[j])
		if desc {
			return a > b
		}
		return a < b
	})
}

const negInf = -1 << 60 // below any real rating or epoch-millis key

func categoryRating(r domain.Review, name string) (float64, bool) {
	for _, c := range r.Categories {
		if c.Name == name {
			return c.Rating, true
		}
	}
	return 0, false
}

func hasAnyCategory(r domain.Review, names []string) bool {
	for _, c := range r.Categories {
		if contains(names, c.Name) {
			return true
		}
	}
	return false
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}
