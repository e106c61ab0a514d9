package app

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"flex_reviews/internal/domain"
)

// approvalKey is the fixed storage key shared with the public view.
const approvalKey = "approvedReviews"

// ApprovalStore holds the manager-curated set of approved review IDs on
// top of an injected KVStore. The in-memory set is authoritative; the
// persisted copy is written best-effort on every mutation. A corrupted or
// missing persisted value resets the set to empty instead of failing.
type ApprovalStore struct {
	mu  sync.Mutex
	kv  domain.KVStore
	ids []string // insertion order, mirrors the persisted JSON array
}

func NewApprovalStore(kv domain.KVStore) *ApprovalStore {
	s := &ApprovalStore{kv: kv}
	s.ids = s.load()
	return s
}

func (s *ApprovalStore) load() []string {
	b, ok, err := s.kv.Get(approvalKey)
	if err != nil {
		log.Warn().Err(err).Msg("approval store unreadable, resetting")
		_ = s.kv.Clear(approvalKey)
		return nil
	}
	if !ok {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(b, &ids); err != nil {
		log.Warn().Err(err).Msg("approval store corrupted, resetting")
		_ = s.kv.Clear(approvalKey)
		return nil
	}
	return ids
}

// Toggle flips membership of reviewID and reports the new state. Toggling
// twice restores the original set.
func (s *ApprovalStore) Toggle(reviewID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	approved := true
	next := make([]string, 0, len(s.ids)+1)
	for _, id := range s.ids {
		if id == reviewID {
			approved = false
			continue
		}
		next = append(next, id)
	}
	if approved {
		next = append(next, reviewID)
	}
	s.ids = next
	s.persist()
	return approved
}

// Approved reports membership without mutating.
func (s *ApprovalStore) Approved(reviewID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.ids {
		if id == reviewID {
			return true
		}
	}
	return false
}

// IDs returns the approved IDs in insertion order.
func (s *ApprovalStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Set returns the approval set as a lookup map.
func (s *ApprovalStore) Set() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := make(map[string]struct{}, len(s.ids))
	for _, id := range s.ids {
		set[id] = struct{}{}
	}
	return set
}

// persist writes the current set; callers hold the lock. Storage failures
// are logged and swallowed: this state is a local convenience, not a
// source of truth.
func (s *ApprovalStore) persist() {
	b, err := json.Marshal(s.ids)
	if err != nil {
		log.Error().Err(err).Msg("marshal approval set failed")
		return
	}
	if err := s.kv.Set(approvalKey, b); err != nil {
		log.Warn().Err(err).Msg("persist approval set failed")
	}
}
