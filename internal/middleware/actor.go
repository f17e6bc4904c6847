package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ActorHeader carries the acting user's id. Authentication happens upstream;
// the gateway in front of this service sets the header.
const ActorHeader = "X-User-ID"

type actorKey struct{}

// NewActorHandler reads ActorHeader into the request context. A request
// without the header passes through anonymous; routes that need an actor ask
// for it with Actor. A header that is not a UUID is rejected with 401.
func NewActorHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(ActorHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil || id == uuid.Nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthenticated","message":"invalid X-User-ID header"}}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), id)))
		})
	}
}

// WithActor returns a copy of ctx carrying id as the acting user.
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// Actor returns the acting user stored by NewActorHandler, if any.
func Actor(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(actorKey{}).(uuid.UUID)
	return id, ok
}
