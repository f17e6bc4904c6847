package handler

import (
	"net/http"

	"github.com/google/uuid"
)

// CreateTrip handles POST /trips. The acting user becomes the traveler.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in TripInput
	if !decodeJSON(w, r, &in) {
		return
	}

	created, err := s.trips.Create(r.Context(), in.toDomain(uuid.Nil, actor))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips: the acting traveler's open trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.ListOpen(r.Context(), actor)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	data := make([]Trip, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	writeJSON(w, http.StatusOK, data)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// UpdateTrip handles PATCH /trips/{id}. The body replaces route, departure
// date and notes.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in TripInput
	if !decodeJSON(w, r, &in) {
		return
	}

	updated, err := s.trips.Update(r.Context(), actor, in.toDomain(id, actor))
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(updated))
}

// CloseTrip handles POST /trips/{id}/close.
func (s *Server) CloseTrip(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	closed, err := s.trips.Close(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(closed))
}
