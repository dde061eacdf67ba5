package middleware

import (
	"context"
	"net/http"
	"strings"

	"marketplace/internal/entities"
	"marketplace/pkg/utils"
)

type ctxKey struct{}

var accountKey ctxKey

type AccountResolver interface {
	GetAccount(ctx context.Context, id string) (entities.Account, error)
}

type TokenParser interface {
	Parse(raw string) (string, error)
}

// Auth authenticates requests by bearer token. The account is loaded fresh on
// every request, so role changes and deletions take effect immediately even
// while old tokens are still in circulation.
func Auth(tokens TokenParser, accounts AccountResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				utils.WriteError(w, "authentication required", http.StatusUnauthorized)
				return
			}

			accountID, err := tokens.Parse(raw)
			if err != nil {
				utils.WriteError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			account, err := accounts.GetAccount(r.Context(), accountID)
			if err != nil {
				utils.WriteError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AccountFromContext(ctx context.Context) (entities.Account, bool) {
	account, ok := ctx.Value(accountKey).(entities.Account)
	return account, ok
}

// RequireRole guards a route subtree to the given roles. It must sit below
// Auth in the middleware chain.
func RequireRole(roles ...entities.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFromContext(r.Context())
			if !ok {
				utils.WriteError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if account.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.WriteError(w, "insufficient permissions", http.StatusForbidden)
		})
	}
}
