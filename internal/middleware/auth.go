package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orderdesk/intake-server-go/internal/audit"
	"github.com/orderdesk/intake-server-go/internal/model"
	"github.com/orderdesk/intake-server-go/internal/token"
)

const (
	// AdminTokenCookie carries the signed session token. HttpOnly,
	// SameSite=Strict, 24h max age per the cookie contract.
	AdminTokenCookie = "admin-token"
	SessionMaxAge    = 24 * time.Hour
)

type contextKey string

const AdminIdentityContextKey contextKey = "adminIdentity"

func GetAdminIdentity(ctx context.Context) *model.AdminIdentity {
	if identity, ok := ctx.Value(AdminIdentityContextKey).(*model.AdminIdentity); ok {
		return identity
	}
	return nil
}

// AdminGuard protects the admin section. Validation is a pure function of
// the token and the clock; no shared state, safe under arbitrary
// concurrency. Missing and invalid tokens are handled identically except
// that an invalid one additionally clears the stale cookie.
type AdminGuard struct {
	tokens    *token.Service
	loginPath string
}

func NewAdminGuard(tokens *token.Service, loginPath string) *AdminGuard {
	return &AdminGuard{
		tokens:    tokens,
		loginPath: loginPath,
	}
}

// Handler guards API routes: failures answer 401 JSON.
func (g *AdminGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, hadToken := g.authenticate(r)
		if identity == nil {
			if hadToken {
				ClearSessionCookie(w, AdminTokenCookie)
			}
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		next.ServeHTTP(w, r.WithContext(g.withIdentity(r.Context(), identity)))
	})
}

// Page guards the static dashboard pages: failures redirect to the login
// page, which itself stays reachable.
func (g *AdminGuard) Page(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, g.loginPath) {
			next.ServeHTTP(w, r)
			return
		}

		identity, hadToken := g.authenticate(r)
		if identity == nil {
			if hadToken {
				ClearSessionCookie(w, AdminTokenCookie)
			}
			http.Redirect(w, r, g.loginPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(g.withIdentity(r.Context(), identity)))
	})
}

// authenticate reports the validated identity, plus whether a token was
// presented at all (a stale cookie is cleared, a missing one is not).
func (g *AdminGuard) authenticate(r *http.Request) (*model.AdminIdentity, bool) {
	cookie, err := r.Cookie(AdminTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	identity, err := g.tokens.Validate(cookie.Value)
	if err != nil {
		log.Warn().Str("path", r.URL.Path).Msg("admin guard: invalid session token")
		audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
		return nil, true
	}

	return identity, true
}

func (g *AdminGuard) withIdentity(ctx context.Context, identity *model.AdminIdentity) context.Context {
	return context.WithValue(ctx, AdminIdentityContextKey, identity)
}

func SetSessionCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
