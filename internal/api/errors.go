package api

import (
	"errors"
	"net/http"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/service"
	"github.com/stackit-qa/stackit-api/internal/service/auth"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrQuestionNotFound),
		errors.Is(err, store.ErrAnswerNotFound),
		errors.Is(err, store.ErrNotificationNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists),
		errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrConcurrentUpdate),
		errors.Is(err, service.ErrNotAccepted):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidVoteDirection),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrAnswerNotInQuestion):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	// Authorization errors
	case errors.Is(err, service.ErrSelfVote):
		return "You cannot vote on your own answer"

	case errors.Is(err, service.ErrForbidden):
		return "You are not allowed to perform this operation"

	// Not found errors
	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case errors.Is(err, store.ErrQuestionNotFound):
		return "Question not found"

	case errors.Is(err, store.ErrAnswerNotFound):
		return "Answer not found"

	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"

	// Conflict errors
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already taken"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrConcurrentUpdate):
		return "The operation conflicted with a concurrent update, please retry"

	case errors.Is(err, service.ErrNotAccepted):
		return "Answer is not currently accepted"

	// Bad request errors
	case errors.Is(err, service.ErrAnswerNotInQuestion):
		return "Answer does not belong to this question"

	case errors.Is(err, domain.ErrInvalidVoteDirection):
		return "Vote direction must be UP or DOWN"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to an HTTP status and a safe message and writes
// the response. overrideMessage replaces the mapped message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	message := overrideMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
