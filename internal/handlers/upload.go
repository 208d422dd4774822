package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/weanovas/agency-api/internal/services"
	"github.com/weanovas/agency-api/internal/storage"
)

// UploadHandler exposes standalone image upload endpoints for the
// admin dashboard. Each endpoint stores the file and returns its
// public URL so the client can attach it to a resource later.
type UploadHandler struct {
	images *services.ImageService
}

func NewUploadHandler(images *services.ImageService) *UploadHandler {
	return &UploadHandler{images: images}
}

// UploadRouter registers upload routes on the given router. All of
// them require an admin token.
func UploadRouter(r chi.Router, images *services.ImageService, auth *AuthMiddleware) {
	handler := NewUploadHandler(images)

	r.Use(auth.Require, auth.RequireAdmin)
	r.Post("/project-image", handler.storeFrom("image", "projects"))
	r.Post("/testimonial-avatar", handler.storeFrom("avatar", "testimonials"))
	r.Post("/team-avatar", handler.storeFrom("avatar", "team"))
	r.Delete("/*", handler.Delete)
}

func (h *UploadHandler) storeFrom(field, folder string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isMultipart(r) {
			writeError(w, http.StatusBadRequest, "Invalid request", "Expected multipart form data")
			return
		}
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "invalid multipart form")
			return
		}

		upload, err := formFile(r.MultipartForm, field)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
			return
		}
		if upload == nil {
			writeError(w, http.StatusBadRequest, "Invalid request", "No file provided")
			return
		}

		image, err := h.images.Store(r.Context(), folder, *upload)
		if err != nil {
			if writeUploadError(w, err) {
				return
			}
			writeError(w, http.StatusInternalServerError, "Server error", "Unable to store image")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "Image uploaded successfully",
			"image":   image,
		})
	}
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Invalid request", "Missing object key")
		return
	}

	if err := h.images.Delete(r.Context(), key); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Not found", "Image not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Server error", "Unable to delete image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}
