package handlers

import (
	"encoding/json"
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles crew member account HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, err := h.userService.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to register crew member")
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := h.userService.GenerateJWT(member.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", member.ID).Msg("Failed to generate token")
		respondError(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	log.Info().Str("user_id", member.ID).Msg("Crew member registered")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  member,
		"token": token,
	})
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, token, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":  member,
		"token": token,
	})
}

// GetProfile handles GET /api/v1/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	member, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// UpdateProfile handles PUT /api/v1/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	member, err := h.userService.UpdateProfile(ctx, userID, req)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile")
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Deactivate handles DELETE /api/v1/profile
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	if err := h.userService.Deactivate(ctx, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to deactivate account")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().Str("user_id", userID).Msg("Account deactivated")
	w.WriteHeader(http.StatusNoContent)
}
