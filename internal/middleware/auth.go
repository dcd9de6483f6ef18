package middleware

import (
	"context"
	"net/http"
	"strings"

	"agrobook-backend/internal/auth"
	"agrobook-backend/internal/repositories"
	"agrobook-backend/pkg/utils"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

type AuthMiddleware struct {
	JWT      *auth.JWTManager
	UserRepo *repositories.UserRepository
}

func NewAuthMiddleware(jwt *auth.JWTManager, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{JWT: jwt, UserRepo: userRepo}
}

// Authenticate validates the bearer token and rejects deactivated accounts
// even if their token has not yet expired.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.claimsFromRequest(r)
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, err.Error())
			return
		}

		user, err := m.UserRepo.Get(r.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			utils.RespondError(w, http.StatusUnauthorized, "account not found or deactivated")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, RoleKey, user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := r.Context().Value(RoleKey).(string); role != "admin" {
			utils.RespondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) claimsFromRequest(r *http.Request) (*auth.Claims, error) {
	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		// Websocket clients cannot set headers from the browser.
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return m.JWT.Validate(token)
}

// UserIDFromContext returns the authenticated user's ID, or 0 when the
// request skipped authentication.
func UserIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(UserIDKey).(int)
	return id
}
