package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/carrylink/internal/middleware"
)

// pathID parses the {id} URL parameter, answering 400 when it is not a UUID.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		requestBody(w, "id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

// requireActor returns the acting user, answering 401 when there is none.
func requireActor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.Actor(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthenticated", middleware.ActorHeader+" header is required"))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses an optional positive integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, name string) (*int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		requestBody(w, name+" must be a positive integer")
		return nil, false
	}
	return &n, true
}
