package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/forgo/notes/api/internal/model"
	"github.com/forgo/notes/api/internal/service"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token
const RefreshCookieName = "jwt"

// Authenticator issues and refreshes tokens
type Authenticator interface {
	Login(ctx context.Context, req model.LoginRequest) (*service.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
}

// AuthHandler handles the /auth endpoints
type AuthHandler struct {
	auth         Authenticator
	cookieSecure bool
	refreshTTL   time.Duration
}

// AuthHandlerConfig holds the auth handler dependencies
type AuthHandlerConfig struct {
	Auth         Authenticator
	CookieSecure bool
	RefreshTTL   time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		auth:         cfg.Auth,
		cookieSecure: cfg.CookieSecure,
		refreshTTL:   cfg.RefreshTTL,
	}
}

// TokenResponse carries a freshly issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login handles POST /auth
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    result.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})

	WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: result.AccessToken})
}

// Refresh handles GET /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshCookieName)
	if errors.Is(err, http.ErrNoCookie) || (err == nil && cookie.Value == "") {
		WriteError(w, model.NewUnauthorizedError("Unauthorized"))
		return
	}

	access, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		handleError(w, r, err, "refresh token")
		return
	}

	WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: access})
}

// Logout handles POST /auth/logout. Without a refresh cookie there is
// nothing to clear.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(RefreshCookieName); err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})

	WriteMessage(w, http.StatusOK, "Cookie cleared", "")
}
