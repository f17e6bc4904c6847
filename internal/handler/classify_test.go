package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/domain"
	"github.com/pkordes/carrylink/internal/handler"
	"github.com/pkordes/carrylink/internal/matching"
	"github.com/pkordes/carrylink/internal/service"
)

func TestClassify_200(t *testing.T) {
	var gotTrip matching.TripInput
	var gotReqs []matching.RequestInput
	svc := &mockMatchServicer{
		classifyBatch: func(_ context.Context, trip matching.TripInput, reqs []matching.RequestInput) (service.BatchResult, error) {
			gotTrip, gotReqs = trip, reqs
			return service.BatchResult{
				Classified: []matching.InputResult{{
					Request:        reqs[0],
					Classification: domain.MatchClassification{MatchType: domain.MatchExact, IsExactDate: true, IsExactLocation: true},
				}},
				Skipped: []string{"r2"},
			}, nil
		},
	}

	rec := do(t, newHTTPHandler(nil, nil, svc), http.MethodPost, "/classify", uuid.Nil, map[string]any{
		"trip": map[string]any{"from_city": "Paris", "to_city": "Alger", "departure_date": "2025-03-10"},
		"requests": []map[string]any{
			{"id": "r1", "from_city": "Paris", "to_city": "Alger", "earliest_date": "2025-03-10"},
			{"id": "r2", "from_city": "Paris", "to_city": "Alger", "earliest_date": "soon"},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-03-10", gotTrip.DepartureDate)
	assert.Len(t, gotReqs, 2)

	resp := decode[handler.ClassifyResponse](t, rec)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "r1", resp.Results[0].ID)
	assert.Equal(t, domain.MatchExact, resp.Results[0].Classification.MatchType)
	assert.Equal(t, []string{"r2"}, resp.Skipped)
}

func TestClassify_422_BadTripDate(t *testing.T) {
	svc := &mockMatchServicer{
		classifyBatch: func(_ context.Context, _ matching.TripInput, _ []matching.RequestInput) (service.BatchResult, error) {
			return service.BatchResult{}, fmt.Errorf("service.MatchService.ClassifyBatch: departure_date: %w", domain.ErrParse)
		},
	}

	rec := do(t, newHTTPHandler(nil, nil, svc), http.MethodPost, "/classify", uuid.Nil, map[string]any{
		"trip": map[string]any{"from_city": "Paris", "to_city": "Alger", "departure_date": "March"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid_date", errorCode(t, rec))
}

func TestClassify_200_NoRequests(t *testing.T) {
	svc := &mockMatchServicer{
		classifyBatch: func(_ context.Context, _ matching.TripInput, _ []matching.RequestInput) (service.BatchResult, error) {
			return service.BatchResult{}, nil
		},
	}

	rec := do(t, newHTTPHandler(nil, nil, svc), http.MethodPost, "/classify", uuid.Nil, map[string]any{
		"trip": map[string]any{"from_city": "Paris", "to_city": "Alger", "departure_date": "2025-03-10"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[],"skipped":[]}`, rec.Body.String())
}
