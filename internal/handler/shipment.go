package handler

import (
	"net/http"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/middleware"
)

// CreateShipmentRequest handles POST /shipment-requests. The acting user
// becomes the sender.
func (s *Server) CreateShipmentRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in ShipmentRequestInput
	if !decodeJSON(w, r, &in) {
		return
	}

	created, err := s.shipments.Create(r.Context(), in.toDomain(actor))
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, shipmentToResponse(created))
}

// ListShipmentRequests handles GET /shipment-requests.
// Open requests not posted by the acting user and not expired as of ?as_of=
// (default today), newest first. Supports ?page= and ?limit= (defaults:
// page=1, limit=20, max=100). Anonymous callers see every open request.
func (s *Server) ListShipmentRequests(w http.ResponseWriter, r *http.Request) {
	asOf := domain.DateOf(s.now())
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			writeError(w, r, err, "")
			return
		}
		asOf = d
	}
	page, ok := queryInt(w, r, "page")
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	params := domain.NewPaginationParams(page, limit)

	actor, _ := middleware.Actor(r.Context())
	items, total, err := s.shipments.ListOpen(r.Context(), actor, asOf, &params)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	data := make([]ShipmentRequest, len(items))
	for i, item := range items {
		data[i] = shipmentToResponse(item)
	}
	writeJSON(w, http.StatusOK, ShipmentRequestList{
		Data:       data,
		Pagination: Pagination{
			Page:    params.Page,
			Limit:   params.Limit,
			Total:   int(total),
			HasMore: params.HasMore(total),
		},
	})
}

// GetShipmentRequest handles GET /shipment-requests/{id}. Each call counts
// as a view.
func (s *Server) GetShipmentRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	req, err := s.shipments.View(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "shipment request not found")
		return
	}
	writeJSON(w, http.StatusOK, shipmentToResponse(req))
}


// ListShipmentRequestMatches handles GET /shipment-requests/{id}/matches.
func (s *Server) ListShipmentRequestMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	ms, err := s.matches.ListByShipmentRequest(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "shipment request not found")
		return
	}
	writeJSON(w, http.StatusOK, matchesToResponse(ms))
}
