package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q         *app.QueryService
	Approvals *app.ApprovalStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/api/reviews/hostaway", h.hostawayReviews)
	s.mux.Get("/api/reviews/google", h.googleReviews)
	s.mux.Get("/api/approvals", h.listApprovals)
	s.mux.Post("/api/approvals/{reviewID}/toggle", h.toggleApproval)
	s.mux.Get("/api/display", h.display)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) hostawayReviews(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.HostawayReviews(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("hostaway reviews fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to load or parse Hostaway review data.",
		})
		return
	}

	etag, body := calcETagAndBody(resp)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write hostaway reviews body")
	}
}

func (h *Handlers) googleReviews(w http.ResponseWriter, r *http.Request) {
	if !h.Q.PlacesConfigured() {
		writeProblem(w, http.StatusBadRequest, "Not configured", "GOOGLE_MAPS_API_KEY is not set")
		return
	}

	// ?placeId=a,b or repeated ?placeId= params.
	var ids []string
	for _, p := range r.URL.Query()["placeId"] {
		for _, id := range strings.Split(p, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		writeProblem(w, http.StatusBadRequest, "Missing placeId", "provide one or more placeId query parameters")
		return
	}

	results := h.Q.GoogleReviews(r.Context(), ids)
	status := "success"
	for _, res := range results {
		if res.Status != "success" {
			status = "partial"
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": status, "results": results})
}

func (h *Handlers) listApprovals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"approvedReviews": h.Approvals.IDs()})
}

func (h *Handlers) toggleApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Missing review ID", "")
		return
	}
	approved := h.Approvals.Toggle(id)
	writeJSON(w, http.StatusOK, map[string]any{"reviewId": id, "approved": approved})
}

type displayResponse struct {
	Status      string                    `json:"status"`
	Mode        string                    `json:"mode"` // dashboard | public
	ListingID   string                    `json:"listingId,omitempty"`
	ListingName string                    `json:"listingName,omitempty"`
	Reviews     []domain.Review           `json:"reviews"`
	Aggregates  []domain.ListingAggregate `json:"aggregates,omitempty"`
	Aggregate   *domain.ListingAggregate  `json:"aggregate,omitempty"`
	Summary     *app.DisplaySummary       `json:"summary,omitempty"`
}

// display serves the curated public view when a valid ?pub= payload is
// present and degrades silently to the full dashboard payload otherwise.
func (h *Handlers) display(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.HostawayReviews(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("display data fetch failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to load review data.",
		})
		return
	}

	payload := app.DecodePubParam(r.URL.Query().Get("pub"))
	if payload == nil {
		writeJSON(w, http.StatusOK, displayResponse{
			Status:     "success",
			Mode:       "dashboard",
			Reviews:    resp.Reviews,
			Aggregates: resp.Aggregates,
		})
		return
	}

	visible := app.VisibleReviews(resp.Reviews, app.IDSet(payload.ApprovedIDs), payload.ListingID)
	summary := app.SummarizeVisible(visible)

	out := displayResponse{
		Status:    "success",
		Mode:      "public",
		ListingID: payload.ListingID,
		Reviews:   visible,
		Summary:   &summary,
	}
	for i := range resp.Aggregates {
		if resp.Aggregates[i].ListingID == payload.ListingID {
			out.Aggregate = &resp.Aggregates[i]
			out.ListingName = resp.Aggregates[i].ListingName
			break
		}
	}
	if out.ListingName == "" && len(visible) > 0 {
		out.ListingName = visible[0].ListingName
	}
	writeJSON(w, http.StatusOK, out)
}
