package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"infoco-backoffice/internal/blob"
	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/middleware"
	"infoco-backoffice/internal/observability"
	"infoco-backoffice/internal/security"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// maxPictureBytes bounds a profile picture upload.
const maxPictureBytes = 5 << 20

// ProfileHandler manages system user accounts and their pictures.
type ProfileHandler struct {
	profiles domain.ProfileRepository
	blobs    blob.Store
}

func NewProfileHandler(profiles domain.ProfileRepository, blobs blob.Store) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, blobs: blobs}
}

type CreateProfileRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Password   string `json:"password"`
	Pfp        string `json:"pfp"`
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Name == "" || len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Email, name and a password of at least 6 characters are required")
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	// The id column defaults to gen_random_uuid(); Create scans the
	// generated value back into the struct.
	profile := &domain.Profile{
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		Department:   req.Department,
		Pfp:          req.Pfp,
		PasswordHash: hash,
	}
	if profile.Role == "" {
		profile.Role = domain.RoleSupport
	}

	err = h.profiles.Create(r.Context(), profile)
	if errors.Is(err, domain.ErrEmailExists) {
		respondError(w, http.StatusConflict, "Email already exists")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}
	respondJSON(w, http.StatusCreated, profile)
}

func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"profiles": profiles})
}

type UpdateProfileRequest struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Pfp        string `json:"pfp"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	profile := &domain.Profile{
		ID:         id,
		Email:      req.Email,
		Name:       req.Name,
		Role:       req.Role,
		Department: req.Department,
		Pfp:        req.Pfp,
	}
	err := h.profiles.Update(r.Context(), profile)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		respondError(w, http.StatusNotFound, "Profile not found")
	case errors.Is(err, domain.ErrEmailExists):
		respondError(w, http.StatusConflict, "Email already exists")
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to update profile")
	default:
		respondJSON(w, http.StatusOK, profile)
	}
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if userID, _ := middleware.GetUserID(r.Context()); userID == id {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	if err := h.profiles.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadPicture receives a multipart "pfp" file, stores it in the blob
// store, and points the authenticated user's profile at the public URL.
func (h *ProfileHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPictureBytes)
	file, header, err := r.FormFile("pfp")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A pfp file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	key := fmt.Sprintf("pfp/%s%s", uuid.NewString(), path.Ext(header.Filename))
	url, err := h.blobs.Put(r.Context(), key, header.Header.Get("Content-Type"), data)
	if err != nil {
		observability.FromContext(r.Context()).Error("picture upload failed", "error", err.Error())
		respondError(w, http.StatusBadGateway, "Storage unavailable")
		return
	}

	if err := h.profiles.UpdatePicture(r.Context(), userID, url); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update profile picture")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
