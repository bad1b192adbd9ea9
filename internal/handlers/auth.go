package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/middleware"
	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/services"
)

// AuthHandler handles registration, login and self-service profile endpoints
type AuthHandler struct {
	accounts *services.AccountService
	logger   *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *services.AccountService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to register user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, user, err := h.accounts.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to log in")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFrom(r.Context())
	user, err := h.accounts.Get(r.Context(), identity.ID)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to fetch user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateMe handles PUT /api/v1/auth/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email   string         `json:"email"`
		Profile models.Profile `json:"profile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, _ := middleware.IdentityFrom(r.Context())
	user, err := h.accounts.UpdateProfile(r.Context(), identity, body.Email, body.Profile)
	if err != nil {
		respondTaxonomy(w, h.logger, err, "Failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    user,
	})
}
