package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/carrylink/internal/middleware"
)

// actorEcho writes the actor id it sees, or "anonymous".
var actorEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.Actor(r.Context())
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(id.String()))
})

func TestActorHandler_ValidHeader(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set(middleware.ActorHeader, " "+id.String()+" ")
	rec := httptest.NewRecorder()

	middleware.NewActorHandler()(actorEcho).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), rec.Body.String())
}

func TestActorHandler_MissingHeaderIsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	middleware.NewActorHandler()(actorEcho).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestActorHandler_InvalidHeader(t *testing.T) {
	for _, raw := range []string{"bob", uuid.Nil.String()} {
		t.Run(raw, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			req.Header.Set(middleware.ActorHeader, raw)
			rec := httptest.NewRecorder()

			middleware.NewActorHandler()(actorEcho).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":{"code":"unauthenticated","message":"invalid X-User-ID header"}}`, rec.Body.String())
		})
	}
}
