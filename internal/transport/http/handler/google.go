package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/chatterbox/auth-api/internal/application/account"
	"github.com/chatterbox/auth-api/internal/infrastructure/google"
	"github.com/rs/zerolog/log"
)

const stateCookie = "oauth_state"

// GoogleHandler drives the OAuth redirect flow: /auth/google sends the
// browser to the consent screen, /auth/google/callback reconciles the
// asserted identity onto an account and establishes a session.
type GoogleHandler struct {
	svc       account.Service
	provider  *google.Provider
	cookies   CookieBaker
	clientURL string
}

func NewGoogleHandler(svc account.Service, provider *google.Provider, cookies CookieBaker, clientURL string) *GoogleHandler {
	return &GoogleHandler{svc: svc, provider: provider, cookies: cookies, clientURL: clientURL}
}

func (h *GoogleHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "google auth not configured")
		return
	}
	state, err := newState()
	if err != nil {
		httpError(w, err)
		return
	}
	// Lax, not Strict: the cookie must survive the cross-site redirect
	// back from the consent screen.
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *GoogleHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "google auth not configured")
		return
	}
	// Clear the state cookie up front; headers are flushed on redirect.
	h.clearStateCookie(w)

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != r.URL.Query().Get("state") {
		h.failLogin(w, r, "state mismatch")
		return
	}
	ident, err := h.provider.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.failLogin(w, r, err.Error())
		return
	}
	u, token, err := h.svc.ReconcileGoogleIdentity(r.Context(), account.ExternalIdentity{
		Sub:           ident.Sub,
		Email:         ident.Email,
		EmailVerified: ident.EmailVerified,
		FullName:      ident.FullName,
		PictureURL:    ident.PictureURL,
	})
	if err != nil {
		h.failLogin(w, r, err.Error())
		return
	}
	h.cookies.Set(w, token)
	log.Info().Str("user_id", u.UserID).Msg("google login")
	http.Redirect(w, r, h.clientURL, http.StatusTemporaryRedirect)
}

func (h *GoogleHandler) failLogin(w http.ResponseWriter, r *http.Request, reason string) {
	log.Warn().Str("reason", reason).Msg("google callback failed")
	http.Redirect(w, r, h.clientURL+"/login", http.StatusTemporaryRedirect)
}

func (h *GoogleHandler) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
