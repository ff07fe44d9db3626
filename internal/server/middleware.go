package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/tunequiz/internal/quiz"
)

type ctxKey int

const (
	ctxKeyVenue ctxKey = iota
	ctxKeyGame
)

// venueMiddleware resolves {venue} to its session, creating it on first
// use, and stashes both in the request context.
func venueMiddleware(pool *quiz.Pool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			venue := chi.URLParam(r, "venue")
			if venue == "" {
				writeError(w, http.StatusBadRequest, "venue is required")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyVenue, venue)
			ctx = context.WithValue(ctx, ctxKeyGame, pool.Get(venue))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func venueFrom(r *http.Request) string {
	venue, _ := r.Context().Value(ctxKeyVenue).(string)
	return venue
}

func gameFrom(r *http.Request) *quiz.Game {
	g, _ := r.Context().Value(ctxKeyGame).(*quiz.Game)
	return g
}
