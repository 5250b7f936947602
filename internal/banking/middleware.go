// banking/middleware.go
package banking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// TokenKey is the context key for the bank token
	TokenKey contextKey = "bank_token"
)

// TokenFromContext extracts the bank token from context
func TokenFromContext(ctx context.Context) *OAuthToken {
	token, _ := ctx.Value(TokenKey).(*OAuthToken)
	return token
}

// RequireToken ensures the request has a usable bank token before it
// reaches a route that calls the bank API. The token is placed in the
// request context.
func RequireToken(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := service.ValidToken(r.Context())
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":                    "bank authorization required",
					"reauthorization_required": errors.Is(err, ErrReauthorizationRequired),
				})
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
