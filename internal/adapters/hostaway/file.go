package hostaway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"flex_reviews/internal/domain"
)

// FileSource serves a raw review batch from a local JSON file. The
// Hostaway sandbox returns no data, so development runs off a sample
// payload instead of the live API. Accepts either a bare array or the
// API's {status, result} envelope.
type FileSource struct{ path string }

func NewFileSource(path string) *FileSource { return &FileSource{path: path} }

func (f *FileSource) FetchReviews(ctx context.Context) ([]domain.RawHostawayReview, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read mock reviews: %w", err)
	}

	var raw []domain.RawHostawayReview
	if err := json.Unmarshal(b, &raw); err == nil {
		return raw, nil
	}

	var env reviewsEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("parse mock reviews: %w", err)
	}
	return env.Result, nil
}
