package handler

import (
	"net/http"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/matching"
)

// ClassifyInput is the body of POST /classify: one trip against any number
// of requests, none of which need to be stored.
type ClassifyInput struct {
	Trip     matching.TripInput      `json:"trip"`
	Requests []matching.RequestInput `json:"requests"`
}

// ClassifyResult is one classified request, in input order.
type ClassifyResult struct {
	ID             string                     `json:"id,omitempty"`
	Classification domain.MatchClassification `json:"classification"`
}

// ClassifyResponse lists results for requests that parsed and the ids (or
// "#index" positions) of those that did not.
type ClassifyResponse struct {
	Results []ClassifyResult `json:"results"`
	Skipped []string         `json:"skipped"`
}

// Classify handles POST /classify.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request) {
	var in ClassifyInput
	if !decodeJSON(w, r, &in) {
		return
	}

	res, err := s.matches.ClassifyBatch(r.Context(), in.Trip, in.Requests)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	out := ClassifyResponse{
		Results: make([]ClassifyResult, len(res.Classified)),
		Skipped: res.Skipped,
	}
	if out.Skipped == nil {
		out.Skipped = []string{}
	}
	for i, c := range res.Classified {
		out.Results[i] = ClassifyResult{ID: c.Request.ID, Classification: c.Classification}
	}
	writeJSON(w, http.StatusOK, out)
}
