package middleware

import (
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gosettle/internal/domain"
)

const (
	// ActorHeader names the caller recorded in the audit trail.
	ActorHeader = "X-Actor"

	maxActorLength = 128
)

// Actor copies the caller name and the chi request ID into the request context.
// Names longer than maxActorLength are truncated.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
			if len(actor) > maxActorLength {
				actor = actor[:maxActorLength]
			}
			ctx = domain.ContextWithActor(ctx, actor)
		}
		if id := chimiddleware.GetReqID(ctx); id != "" {
			ctx = domain.ContextWithRequestID(ctx, id)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
