package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/gosettle/internal/domain"
)

func TestActor(t *testing.T) {
	var actor, requestID string
	var hasActor bool
	handler := chimiddleware.RequestID(Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, hasActor = domain.ActorFromContext(r.Context())
		requestID = domain.RequestIDFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	req.Header.Set(ActorHeader, "  alice@example.com ")
	req.Header.Set(chimiddleware.RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !hasActor || actor != "alice@example.com" {
		t.Fatalf("expected trimmed actor, got %q (%v)", actor, hasActor)
	}
	if requestID != "req-7" {
		t.Fatalf("expected request id req-7, got %q", requestID)
	}
}

func TestActor_MissingAndLong(t *testing.T) {
	var actor string
	var hasActor bool
	handler := Actor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, hasActor = domain.ActorFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if hasActor {
		t.Fatalf("expected no actor, got %q", actor)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, strings.Repeat("a", 300))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(actor) != maxActorLength {
		t.Fatalf("expected actor truncated to %d, got %d", maxActorLength, len(actor))
	}
}
