package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/loreycode/cms-api/internal/auth"
	"github.com/loreycode/cms-api/internal/services"
	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/types"
)

// AuthHandler provides login, logout and session endpoints.
type AuthHandler struct {
	userService  *services.UserService
	codec        *auth.Codec
	secureCookie bool
}

// NewAuthHandler constructs an AuthHandler. secureCookie marks the token
// cookie Secure and should be set in production.
func NewAuthHandler(userService *services.UserService, codec *auth.Codec, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		codec:        codec,
		secureCookie: secureCookie,
	}
}

// AuthRouter registers auth routes on the given router. limit guards login.
func AuthRouter(r chi.Router, handler *AuthHandler, limit func(http.Handler) http.Handler) {
	r.With(limit).Post("/login", handler.Login)
	r.With(auth.Require(handler.codec)).Get("/me", handler.Me)
	r.Post("/logout", handler.Logout)
}

type AuthResponse struct {
	Success bool       `json:"success"`
	Token   string     `json:"token"`
	User    types.User `json:"user"`
}

type UserResponse struct {
	Success bool       `json:"success"`
	User    types.User `json:"user"`
}

// Login verifies credentials, sets the token cookie and returns the token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if errs := decodeJSON(w, r, &req); errs != nil {
		writeValidationError(w, msgInvalidInput, errs)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	token, err := h.codec.Sign(auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, h.cookie(token, int(auth.TokenTTL/time.Second)))
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Token: token, User: user})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
}

// Logout clears the token cookie. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, h.cookie("", -1))
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}
