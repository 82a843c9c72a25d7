package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authtoken "family-album-go/internal/auth"
	userdomain "family-album-go/internal/domain/user"
	"family-album-go/pkg/logger"
)

// Identity is the caller resolved from the bearer token. FamilyID is empty
// when the user is not in a family.
type Identity struct {
	UserID   string
	Email    string
	FamilyID string
}

type contextKey int

const identityKey contextKey = iota

type AccessVerifier interface {
	VerifyAccess(token string) (authtoken.Claims, error)
}

type UserLoader interface {
	GetUser(ctx context.Context, userID string) (*userdomain.User, error)
}

type Auth struct {
	tokens AccessVerifier
	users  UserLoader
	log    logger.Logger
}

func NewAuth(tokens AccessVerifier, users UserLoader, log logger.Logger) *Auth {
	return &Auth{tokens: tokens, users: users, log: log}
}

// Middleware rejects requests without a valid access token. The user row is
// loaded on every request so disabled accounts and family changes take effect
// immediately.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		claims, err := a.tokens.VerifyAccess(token)
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := a.users.GetUser(r.Context(), claims.UserID())
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				unauthorized(w)
				return
			}
			a.log.InternalError("auth.middleware: load user failed", err, "user_id", claims.UserID())
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			return
		}
		if !user.Active() {
			writeError(w, http.StatusUnauthorized, "user_disabled", "account is disabled")
			return
		}

		identity := Identity{UserID: user.ID, Email: user.Email}
		if user.FamilyID != nil {
			identity.FamilyID = *user.FamilyID
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	if !ok || identity.UserID == "" {
		return Identity{}, false
	}
	return identity, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
