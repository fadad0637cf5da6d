package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
)

// UserIDHeader carries the caller's owner ID.
const UserIDHeader = "X-User-ID"

type ownerKey struct{}

// Identity returns a middleware that resolves the caller's owner ID from the
// X-User-ID header, falling back to defaultOwner. Requests with neither get 401.
// The ID is trusted as is; authentication happens in front of this service.
func Identity(defaultOwner string) func(http.Handler) http.Handler {
	defaultOwner = strings.TrimSpace(defaultOwner)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if owner == "" {
				owner = defaultOwner
			}
			if owner == "" {
				response.RespondError(w, http.StatusUnauthorized, apperrors.ErrMissingOwner.Error(), "Missing "+UserIDHeader+" header")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), owner)))
		})
	}
}

// WithOwnerID returns a copy of ctx carrying ownerID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerID returns the owner ID stored in ctx, or "" if none.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerKey{}).(string)
	return id
}
