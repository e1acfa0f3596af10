package handler

import (
	"net/http"
	"time"

	"github.com/chatterbox/auth-api/internal/transport/http/middleware"
)

// CookieBaker writes and clears the HTTP-only session cookie.
type CookieBaker struct {
	TTL    time.Duration
	Secure bool
}

// Set attaches the session token as an HTTP-only, SameSite-Strict cookie.
func (b CookieBaker) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(b.TTL.Seconds()),
		HttpOnly: true,
		Secure:   b.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the session cookie immediately.
func (b CookieBaker) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
