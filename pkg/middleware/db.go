package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salescope/salescope/pkg/composables"
)

// WithPool makes the roster database pool available to request handlers.
func WithPool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// RequesterFromHeader resolves the requesting employee id from the
// X-Employee-ID header set by the upstream identity layer. Requests without
// a parseable id pass through unchanged; services fail closed on a missing
// requester.
func RequesterFromHeader() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if raw := r.Header.Get("X-Employee-ID"); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					ctx = composables.WithRequester(ctx, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
