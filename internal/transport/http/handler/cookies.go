package handler

import (
	"net/http"
	"time"

	"github.com/go-video-api/internal/transport/http/middleware"
)

// tokenCookie builds an HttpOnly, Secure cookie. A zero maxAge deletes it.
func tokenCookie(name, value string, maxAge time.Duration) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge.Seconds())
	} else {
		c.MaxAge = -1
	}
	return c
}

func setTokenCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration) {
	http.SetCookie(w, tokenCookie(middleware.AccessTokenCookie, access, accessTTL))
	http.SetCookie(w, tokenCookie(middleware.RefreshTokenCookie, refresh, refreshTTL))
}

func clearTokenCookies(w http.ResponseWriter) {
	http.SetCookie(w, tokenCookie(middleware.AccessTokenCookie, "", 0))
	http.SetCookie(w, tokenCookie(middleware.RefreshTokenCookie, "", 0))
}
