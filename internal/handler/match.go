package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/domain"
)

// ProposeMatch handles POST /matches. Either party may propose; the response
// carries the pair's classification.
func (s *Server) ProposeMatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in ProposeMatchInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.TripID == uuid.Nil || in.ShipmentRequestID == uuid.Nil {
		requestBody(w, "trip_id and shipment_request_id are required")
		return
	}

	m, cls, err := s.matches.Propose(r.Context(), actor, in.TripID, in.ShipmentRequestID)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	resp := matchToResponse(m)
	resp.Classification = &cls
	writeJSON(w, http.StatusCreated, resp)
}

// GetMatch handles GET /matches/{id}.
func (s *Server) GetMatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	m, err := s.matches.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, matchToResponse(m))
}

// UpdateMatchStatus handles PATCH /matches/{id} with {"status": "..."}.
func (s *Server) UpdateMatchStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in UpdateMatchInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.matches.UpdateStatus(r.Context(), actor, id, domain.MatchStatus(in.Status))
	if err != nil {
		writeError(w, r, err, "match not found")
		return
	}
	writeJSON(w, http.StatusOK, matchToResponse(m))
}

// ListTripMatches handles GET /trips/{id}/matches.
func (s *Server) ListTripMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ms, err := s.matches.ListByTrip(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, matchesToResponse(ms))
}

// ListCandidates handles GET /trips/{id}/candidates: open shipment requests
// compatible with the trip, best first.
func (s *Server) ListCandidates(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cs, err := s.matches.Candidates(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	out := make([]Candidate, len(cs))
	for i, c := range cs {
		out[i] = Candidate{ShipmentRequest: shipmentToResponse(c.Request), Classification: c.Classification}
	}
	writeJSON(w, http.StatusOK, out)
}
