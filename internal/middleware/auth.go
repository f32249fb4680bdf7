package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/audit"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/util"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

func GetIdentity(ctx context.Context) *model.Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*model.Identity); ok {
		return identity
	}
	return nil
}

// AuthMiddleware resolves the bearer session into an Identity and gates
// routes on role. The guard renders exactly one outcome per request:
// denied (before any protected handler runs, so nothing can flash
// through) or pass-through. Session resolution is bounded; a lookup that
// outlives the bound is treated as denied, never as authenticated and
// never left hanging.
type AuthMiddleware struct {
	authService *auth.Service
	loginPath   string
}

func NewAuthMiddleware(authService *auth.Service, loginPath string) *AuthMiddleware {
	return &AuthMiddleware{authService: authService, loginPath: loginPath}
}

// Handler authenticates the request. Unauthenticated requests are denied
// here; role checks are layered with RequireRole.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			m.deny(w, r, apperrors.Unauthorized("Missing authentication token"))
			return
		}

		checkCtx, cancel := context.WithTimeout(r.Context(), config.AuthCheckTimeout)
		identity, err := m.authService.Identity(checkCtx, util.HashToken(token))
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.Error().Msg("session check timed out, denying request")
				m.deny(w, r, apperrors.Unauthorized("Session check timed out"))
				return
			}
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			m.deny(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole denies any identity whose role does not match. Runs after
// Handler so the identity is always present.
func (m *AuthMiddleware) RequireRole(role model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				m.deny(w, r, apperrors.Unauthorized("Not authenticated"))
				return
			}
			if identity.Role != role {
				m.deny(w, r, apperrors.RoleMismatch(string(role), string(identity.Role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// deny writes the error plus a redirect hint to this portal's login page.
func (m *AuthMiddleware) deny(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Unauthorized("Not authenticated")
	}
	writeError(w, appErr.WithDetails(map[string]string{"redirect": m.loginPath}))
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
