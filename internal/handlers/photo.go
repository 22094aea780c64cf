package handlers

import (
	"encoding/json"
	"net/http"

	"crewlink-backend/internal/middleware"
	"crewlink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PhotoHandler handles profile photo HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

// UploadPhoto handles POST /api/v1/profile/photo
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req services.UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ContentType == "" {
		req.ContentType = "image/jpeg"
	}

	response, err := h.photoService.GetPreSignedURL(ctx, userID, req.ContentType)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to generate pre-signed URL")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("photo_id", response.PhotoID).
		Msg("Pre-signed URL generated")

	respondJSON(w, http.StatusOK, response)
}

// GetPhoto handles GET /api/v1/profile/photo
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	photo, err := h.photoService.GetLatest(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, photo)
}
