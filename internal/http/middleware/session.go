package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/diagnosis/gatherly/internal/domain"
	"github.com/diagnosis/gatherly/internal/http/response"
	"github.com/diagnosis/gatherly/pkg/auth"
	"github.com/diagnosis/gatherly/pkg/logger"
)

type ctxKey string

const CtxClaims ctxKey = "claims"

// Session validates and attaches JWT claims from Authorization headers.
type Session struct {
	issuer *auth.TokenIssuer
}

func NewSession(issuer *auth.TokenIssuer) *Session {
	return &Session{issuer: issuer}
}

func bearerToken(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

// Require rejects requests without a valid token. When roles are given, the
// token's role must be one of them.
func (s *Session) Require(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerToken(r)
			if tok == "" {
				response.Unauthorized(w, "authorization token is required")
				return
			}
			claims, err := s.issuer.Parse(tok)
			if err != nil {
				response.Unauthorized(w, "invalid or expired token")
				return
			}
			if len(roles) > 0 {
				allowed := false
				for _, role := range roles {
					if claims.Role == role {
						allowed = true
						break
					}
				}
				if !allowed {
					response.Forbidden(w, "insufficient role")
					return
				}
			}
			ctx := context.WithValue(r.Context(), CtxClaims, claims)
			ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Optional attaches claims when a valid token is present and otherwise lets
// the request through anonymously.
func (s *Session) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := bearerToken(r); tok != "" {
			if claims, err := s.issuer.Parse(tok); err == nil {
				ctx := context.WithValue(r.Context(), CtxClaims, claims)
				ctx = context.WithValue(ctx, logger.UserIDKey, claims.Sub)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func Claims(r *http.Request) *auth.Claims {
	if v := r.Context().Value(CtxClaims); v != nil {
		if c, ok := v.(*auth.Claims); ok {
			return c
		}
	}
	return nil
}

// IdentityFromRequest derives the explicit identity value handed to the RSVP
// engine. Returns nil when the request carries no authenticated user.
func IdentityFromRequest(r *http.Request) *domain.Identity {
	c := Claims(r)
	if c == nil {
		return nil
	}
	return &domain.Identity{UserID: c.Sub, Name: c.Name, Email: c.Email}
}
