package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayursutra/panchakarma-platform/internal/auth"
	"github.com/ayursutra/panchakarma-platform/internal/http/middleware"
	"github.com/ayursutra/panchakarma-platform/internal/users"
	"github.com/ayursutra/panchakarma-platform/pkg/logging"
)

// AuthHandler serves registration, login, and profile endpoints.
type AuthHandler struct {
	store  *users.Store
	tokens *auth.Manager
	logger *logging.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(store *users.Store, tokens *auth.Manager, logger *logging.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthHandler{store: store, tokens: tokens, logger: logger}
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  *users.User `json:"user"`
}

// Register creates an account and opens a session.
// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, err := h.store.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrEmailTaken):
			jsonError(w, err.Error(), http.StatusConflict)
		case errors.Is(err, users.ErrMissingEmail),
			errors.Is(err, users.ErrMissingName),
			errors.Is(err, users.ErrPasswordTooWeak):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("register failed", "error", err)
			jsonError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.openSession(w, r, u, http.StatusCreated)
}

// Login verifies credentials and opens a session.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrBadCredentials) {
			jsonError(w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.Error("login failed", "error", err)
		jsonError(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.openSession(w, r, u, http.StatusOK)
}

// Profile returns the caller's account.
// GET /api/auth/profile
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	u, err := h.store.GetByID(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			jsonError(w, "account not found", http.StatusNotFound)
			return
		}
		h.logger.Error("profile load failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "profile load failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile applies a partial profile update for the caller.
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok || identity.Anonymous {
		jsonError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req users.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	u, err := h.store.UpdateProfile(r.Context(), identity.UserID, req)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			jsonError(w, "account not found", http.StatusNotFound)
			return
		}
		h.logger.Error("profile update failed", "error", err, "user_id", identity.UserID)
		jsonError(w, "profile update failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) openSession(w http.ResponseWriter, r *http.Request, u *users.User, status int) {
	token, err := h.tokens.Issue(u)
	if err != nil {
		h.logger.Error("token issue failed", "error", err, "user_id", u.ID)
		jsonError(w, "session failed", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, status, sessionResponse{Token: token, User: u})
}
