package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/service"
	"github.com/stackit-qa/stackit-api/internal/service/auth"
	"github.com/stackit-qa/stackit-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"self vote", service.ErrSelfVote, http.StatusForbidden},
		{"profile not found", store.ErrProfileNotFound, http.StatusNotFound},
		{"question not found", store.ErrQuestionNotFound, http.StatusNotFound},
		{"answer not found", store.ErrAnswerNotFound, http.StatusNotFound},
		{"notification not found", store.ErrNotificationNotFound, http.StatusNotFound},
		{"username exists", store.ErrUsernameExists, http.StatusConflict},
		{"email exists", store.ErrEmailExists, http.StatusConflict},
		{"concurrent update", store.ErrConcurrentUpdate, http.StatusConflict},
		{"not accepted", service.ErrNotAccepted, http.StatusConflict},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"username too long", domain.ErrUsernameTooLong, http.StatusBadRequest},
		{"invalid email", domain.ErrInvalidEmail, http.StatusBadRequest},
		{"empty answer content", domain.ErrEmptyAnswerContent, http.StatusBadRequest},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest},
		{"invalid vote direction", domain.ErrInvalidVoteDirection, http.StatusBadRequest},
		{"answer not in question", service.ErrAnswerNotInQuestion, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("outer: %w", store.ErrQuestionNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Question not found", GetSafeErrorMessage(store.ErrQuestionNotFound))
	assert.Equal(t, "Username already taken", GetSafeErrorMessage(store.ErrUsernameExists))
	assert.Equal(t, "You cannot vote on your own answer", GetSafeErrorMessage(service.ErrSelfVote))

	// Internal detail never leaks through the safe message.
	internal := errors.New("pq: connection refused on 10.0.0.5")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(internal))
}
