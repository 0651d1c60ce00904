package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/taskflow/internal/domain"
	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

// UserHandler handles profile HTTP requests.
type UserHandler struct {
	users    *service.UserService
	validate *validation.Validator
	dev      bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService, validate *validation.Validator, dev bool) *UserHandler {
	return &UserHandler{users: users, validate: validate, dev: dev}
}

type updateProfileRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=50"`
	Bio    *string `json:"bio"    validate:"omitempty,max=500"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

// HandleUpdateProfile applies a partial profile update to the authenticated
// user.
// PUT /api/users/profile
// Request:  {"name":?, "bio":?, "avatar":?}
// Response: 200 {"message":..., "user":{...}}
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req updateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if errs := h.validate.Check(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, domain.UserUpdate{
		Name:   req.Name,
		Bio:    req.Bio,
		Avatar: req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "No profile fields to update.")
		case errors.Is(err, domain.ErrUnavailable):
			writeUnavailable(w)
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusUnauthorized, "Unauthorized.")
		default:
			slog.Error("update profile", "error", err)
			writeInternal(w, h.dev, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    toUserDTO(updated),
	})
}
