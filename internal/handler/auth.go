package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/middleware"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

// AuthHandler serves the two login portals plus the shared session
// endpoints. The admin and client portals are separate routes because each
// demands a specific role; a credential that resolves to the other role is
// rejected, not silently redirected.
type AuthHandler struct {
	authService *auth.Service
	tickets     *auth.TicketIssuer
	authMw      *middleware.AuthMiddleware
}

func NewAuthHandler(authService *auth.Service, tickets *auth.TicketIssuer, authMw *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{authService: authService, tickets: tickets, authMw: authMw}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login/admin", h.LoginAdmin)
	r.Post("/login/client", h.LoginClient)
	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(h.authMw.Handler)
		r.Post("/logout", h.Logout)
		r.Get("/me", h.Me)
		r.Patch("/profile", h.UpdateProfile)
		r.Post("/stream-ticket", h.StreamTicket)
	})

	return r
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.RoleAdmin)
}

func (h *AuthHandler) LoginClient(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, model.RoleClient)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, required model.Role) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password, required)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	result, err := h.authService.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	h.authService.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	writeJSON(w, http.StatusOK, identity)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	var req struct {
		DisplayName *string `json:"displayName"`
		AvatarURL   *string `json:"avatarUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		writeError(w, apperrors.InvalidInput("displayName", "must not be empty"))
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), identity.User.ID, model.UpdateProfileParams{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// StreamTicket trades an authenticated session for a short-lived ticket
// usable on the SSE and WebSocket endpoints, which cannot carry headers.
func (h *AuthHandler) StreamTicket(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())

	clientID := ""
	if identity.ClientID != nil {
		clientID = *identity.ClientID
	}

	ticket, err := h.tickets.Issue(identity.User.ID, clientID, identity.Role)
	if err != nil {
		writeError(w, apperrors.Internal("Failed to issue stream ticket").WithCause(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ticket": ticket})
}
