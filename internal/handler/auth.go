package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/taskflow/internal/domain"
	"github.com/msomdec/taskflow/internal/service"
	"github.com/msomdec/taskflow/internal/validation"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validation.Validator
	dev      bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, validate *validation.Validator, dev bool) *AuthHandler {
	return &AuthHandler{auth: auth, validate: validate, dev: dev}
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required,min=2,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister processes a JSON registration request.
// POST /api/auth/register
// Request:  {"name":"...","email":"...","password":"..."}
// Response: 201 {"message":..., "token":..., "user":{...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if errs := h.validate.Check(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			writeError(w, http.StatusBadRequest, "User already exists with this email")
		case errors.Is(err, domain.ErrUnavailable):
			writeUnavailable(w)
		default:
			slog.Error("register user", "error", err)
			writeInternal(w, h.dev, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    toUserDTO(user),
	})
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: 200 {"message":..., "token":..., "user":{...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if errs := h.validate.Check(req); errs != nil {
		writeValidationErrors(w, errs)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		// One message for unknown email and wrong password alike, so
		// responses cannot be used to enumerate accounts.
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusBadRequest, "Invalid credentials")
		case errors.Is(err, domain.ErrUnavailable):
			writeUnavailable(w)
		default:
			slog.Error("login user", "error", err)
			writeInternal(w, h.dev, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    toUserDTO(user),
	})
}

// HandleMe returns the currently authenticated user.
// GET /api/auth/me
// Response: 200 {"user":{...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toUserDTO(user),
	})
}
