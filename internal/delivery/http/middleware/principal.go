package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

const (
	sessionHeader = "X-Session-Token"
	sessionCookie = "cart_session"
)

// Principal resolves the request identity exactly once. A valid JWT yields a
// customer or admin principal; anything else is a guest keyed by a cart
// session token, issued lazily on first contact.
func Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := resolvePrincipal(r)

		if p.Kind == domain.PrincipalGuest && p.SessionToken == "" {
			p.SessionToken = utils.RandomToken(16)
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    p.SessionToken,
				Path:     "/",
				MaxAge:   int((30 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			// Header duplicate for clients that do not carry cookies.
			w.Header().Set(sessionHeader, p.SessionToken)
		}

		ctx := context.WithValue(r.Context(), domain.PrincipalContextKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func resolvePrincipal(r *http.Request) *domain.Principal {
	if claims, err := utils.ExtractClaims(r); err == nil && claims.UserID != "" {
		kind := domain.PrincipalCustomer
		if claims.Role == "admin" {
			kind = domain.PrincipalAdmin
		}
		return &domain.Principal{
			Kind:   kind,
			UserID: claims.UserID,
			Email:  claims.Email,
		}
	}

	token := strings.TrimSpace(r.Header.Get(sessionHeader))
	if token == "" {
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			token = cookie.Value
		}
	}
	return &domain.Principal{Kind: domain.PrincipalGuest, SessionToken: token}
}

// RequireAuth rejects guests. MUST be used after Principal.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := domain.PrincipalFrom(r.Context())
		if !p.IsCustomer() {
			utils.WriteErrorMsg(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects everyone without the admin role. MUST be used after
// Principal.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := domain.PrincipalFrom(r.Context())
		if !p.IsAdmin() {
			utils.WriteErrorMsg(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
