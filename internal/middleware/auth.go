package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/services"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom returns the authenticated principal stored by the auth
// gate, if any.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}

// AuthGate verifies bearer tokens and resolves them to live accounts.
type AuthGate struct {
	tokens *services.TokenService
	users  storage.UserStore
	logger *zap.SugaredLogger
}

// NewAuthGate creates the auth gate.
func NewAuthGate(tokens *services.TokenService, users storage.UserStore, logger *zap.SugaredLogger) *AuthGate {
	return &AuthGate{tokens: tokens, users: users, logger: logger}
}

// resolve authenticates one request; a nil identity means anonymous.
func (g *AuthGate) resolve(r *http.Request) (*models.Identity, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, http.StatusUnauthorized, "Authorization required"
	}

	raw := strings.TrimPrefix(authHeader, "Bearer ")
	userID, _, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, http.StatusForbidden, "Invalid or expired token"
	}

	user, err := g.users.GetUserByID(r.Context(), userID)
	if err != nil || !user.IsActive {
		return nil, http.StatusForbidden, "User not found or inactive"
	}

	return &models.Identity{ID: user.ID, Username: user.Username, Role: user.Role}, 0, ""
}

// Authenticate rejects requests without a valid token for a live account
// and injects the identity into the request context.
func (g *AuthGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, status, msg := g.resolve(r)
		if identity == nil {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error": "`+msg+`"}`, status)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, *identity)))
	})
}

// Optional resolves an identity when a token is present but lets
// anonymous requests through untouched. Used on complaint submission.
func (g *AuthGate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			if identity, _, _ := g.resolve(r); identity != nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, *identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Capability is one unit of the authorization policy.
type Capability string

const (
	CapReadOwn  Capability = "read:own"
	CapReadAny  Capability = "read:any"
	CapWriteOwn Capability = "write:own"
	CapWriteAny Capability = "write:any"
	CapAdmin    Capability = "admin"
)

// grants is the whole authorization policy: role to capability set.
// Endpoints declare the capability they need instead of checking roles
// inline.
var grants = map[models.Role]map[Capability]bool{
	models.RoleCitizen: {
		CapReadOwn:  true,
		CapWriteOwn: true,
	},
	models.RoleAdmin: {
		CapReadOwn:  true,
		CapReadAny:  true,
		CapWriteOwn: true,
		CapWriteAny: true,
		CapAdmin:    true,
	},
}

// Allows reports whether a role holds a capability.
func Allows(role models.Role, cap Capability) bool {
	return grants[role][cap]
}

// Require gates an endpoint on one capability. It must run after
// Authenticate.
func Require(cap Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok {
				http.Error(w, `{"error": "Authorization required"}`, http.StatusUnauthorized)
				return
			}
			if !Allows(identity.Role, cap) {
				http.Error(w, `{"error": "Access denied"}`, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
