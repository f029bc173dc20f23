package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/careconnect-health/careconnect-api/internal/payload"
	"github.com/careconnect-health/careconnect-api/internal/usecase"
)

// UserHandler serves the profile-management endpoints.
type UserHandler struct {
	userUsecase usecase.UserUsecase
	logger      *zerolog.Logger
}

func NewUserHandler(userUsecase usecase.UserUsecase, logger *zerolog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		logger:      logger,
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	params := usecase.ListUsersParams{
		Search: r.URL.Query().Get("search"),
		Page:   queryUint(r, "page", 1),
		Limit:  queryUint(r, "limit", 10),
	}

	users, total, err := h.userUsecase.ListUsers(r.Context(), params)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Data retrieved successfully", payload.ListUsersResponse{
		Users: payload.NewUserResponses(users),
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "Data retrieved successfully", payload.NewUserResponse(user))
}

// UpdateUser handles the multipart profile update. A submitted profilePhoto
// file is pushed to the image host and only its URL is persisted.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	const maxUploadSize = 10 << 20

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	params := usecase.UpdateProfileParams{
		FullName:     formValue(r, "fullName"),
		Email:        formValue(r, "email"),
		PhoneNumber:  formValue(r, "phoneNumber"),
		AboutProfile: formValue(r, "aboutProfile"),
	}

	file, header, err := r.FormFile("profilePhoto")
	if err == nil {
		defer file.Close()
		params.Photo = &usecase.PhotoUpload{
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		respondError(w, http.StatusBadRequest, "invalid profile photo")
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "User updated successfully", payload.NewUserResponse(user))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.userUsecase.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondUsecaseError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, "User deleted successfully", nil)
}

func queryUint(r *http.Request, key string, fallback uint64) uint64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil || n == 0 {
		return fallback
	}

	return n
}

func formValue(r *http.Request, key string) *string {
	if value := r.FormValue(key); value != "" {
		return &value
	}
	return nil
}
