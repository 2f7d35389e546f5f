package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/service"
	"github.com/stackit-qa/stackit-api/internal/service/auth"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	profileService service.ProfileService
	jwtService     auth.JWTService
	validator      *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	profileService service.ProfileService,
	jwtService auth.JWTService,
) *AuthHandler {
	return &AuthHandler{
		profileService: profileService,
		jwtService:     jwtService,
		validator:      validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.Register(
		r.Context(), req.Username, req.Email, req.Password, domain.RoleUser)
	if err != nil {
		if store.IsDuplicateError(err) || errors.Is(err, domain.ErrValidation) {
			HandleAPIError(w, r, err, "")
			return
		}
		slog.Error("failed to register profile", "error", err, "username", req.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), profile.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "profile_id", profile.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		ProfileID: profile.ID,
		Token:     token,
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	profile, err := h.profileService.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to authenticate profile", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), profile.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "profile_id", profile.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ProfileID: profile.ID,
		Token:     token,
	})
}
