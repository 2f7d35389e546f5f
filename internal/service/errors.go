// Package service implements the application's use cases on top of the
// store interfaces, coordinating transactions and emitting domain events.
package service

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden indicates the caller is not allowed to perform the
	// requested operation on the target entity.
	ErrForbidden = errors.New("operation not permitted for this profile")

	// ErrSelfVote indicates a profile attempted to vote on its own answer.
	// It wraps ErrForbidden.
	ErrSelfVote = fmt.Errorf("voting on your own answer: %w", ErrForbidden)

	// ErrAnswerNotInQuestion indicates the answer does not belong to the
	// question the operation was scoped to.
	ErrAnswerNotInQuestion = errors.New("answer does not belong to this question")

	// ErrNotAccepted indicates an unaccept was requested for an answer
	// that is not currently accepted.
	ErrNotAccepted = errors.New("answer is not currently accepted")

	// ErrInvalidCredentials indicates a login attempt with an unknown
	// identifier or a wrong password. The two cases are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
