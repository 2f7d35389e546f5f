package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/domain"
)

// getProfileIDFromContext extracts the authenticated profile's UUID from the
// request context. The ID is placed there by the authentication middleware.
func getProfileIDFromContext(r *http.Request) (uuid.UUID, bool) {
	profileID, ok := r.Context().Value(shared.ProfileIDContextKey).(uuid.UUID)
	if !ok || profileID == uuid.Nil {
		return uuid.Nil, false
	}
	return profileID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%s is required: %w", paramName, domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s has invalid format: %w", paramName, domain.ErrInvalidID)
	}

	return id, nil
}

// requireProfileAndPathUUID extracts both the authenticated profile ID and a
// UUID path parameter, writing an error response if either is missing.
// Returns false when a response has already been written.
func requireProfileAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
) (uuid.UUID, uuid.UUID, bool) {
	profileID, ok := getProfileIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return profileID, pathID, true
}
