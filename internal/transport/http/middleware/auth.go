package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/go-video-api/internal/domain"
	jwtinfra "github.com/go-video-api/internal/infrastructure/jwt"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/transport/http/api"
)

// Cookie names carrying the session tokens.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// AccessVerifier validates an access token.
type AccessVerifier interface {
	VerifyAccess(tokenStr string) (*jwtinfra.AccessClaims, error)
}

// Auth reads the access token from the accessToken cookie or a Bearer
// Authorization header and attaches the caller to the request context.
func Auth(verifier AccessVerifier, tr *api.Translator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := accessToken(r)
			if tokenStr == "" {
				tr.Write(w, r, apperr.Unauthorized("Unauthorized request"))
				return
			}
			claims, err := verifier.VerifyAccess(tokenStr)
			if err != nil {
				tr.Write(w, r, apperr.Wrap(http.StatusUnauthorized, "Invalid access token", err))
				return
			}
			ctx := api.WithPrincipal(r.Context(), domain.Principal{
				UserID:    claims.UserID,
				Username:  claims.Username,
				Email:     claims.Email,
				FullName:  claims.FullName,
				SessionID: claims.SessionID,
			})
			logger := zerolog.Ctx(ctx).With().Str("user_id", claims.UserID).Logger()
			ctx = logger.WithContext(ctx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}
