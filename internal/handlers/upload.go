package handlers

import (
	"net/http"

	"github.com/AnshRaj112/devconnect-backend/internal/middleware"
	"github.com/AnshRaj112/devconnect-backend/internal/repository"
	"github.com/AnshRaj112/devconnect-backend/internal/services"
)

type UploadHandler struct {
	users repository.UserRepository
	cloud *services.CloudinaryService // nil when credentials are not configured
}

func NewUploadHandler(users repository.UserRepository, cloud *services.CloudinaryService) *UploadHandler {
	return &UploadHandler{users: users, cloud: cloud}
}

type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// UploadAvatar replaces the authenticated user's gravatar-derived avatar with
// an uploaded image. Existing posts and comments keep the old snapshot.
func (h *UploadHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r.Context())

	if h.cloud == nil {
		respondMsg(w, http.StatusInternalServerError, "File uploads are not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondValidationErrors(w, []string{"Failed to parse form"})
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondValidationErrors(w, []string{"No file provided"})
		return
	}
	defer file.Close()

	url, err := h.cloud.UploadAvatar(r.Context(), file)
	if err != nil {
		serverError(w, err)
		return
	}

	if err := h.users.UpdateAvatar(r.Context(), userID, url); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AvatarResponse{Avatar: url})
}
