package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the login endpoint. Identifier is a
// username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Token     string    `json:"token"`
}

// PostQuestionRequest defines the payload for creating a question.
type PostQuestionRequest struct {
	Title string   `json:"title" validate:"required"`
	Body  string   `json:"body"  validate:"required"`
	Tags  []string `json:"tags"  validate:"omitempty,dive,min=1"`
}

// UpdateQuestionRequest defines the payload for editing a question.
type UpdateQuestionRequest struct {
	Title string   `json:"title" validate:"required"`
	Body  string   `json:"body"  validate:"required"`
	Tags  []string `json:"tags"  validate:"omitempty,dive,min=1"`
}

// PostAnswerRequest defines the payload for answering a question.
type PostAnswerRequest struct {
	Content string `json:"content" validate:"required"`
}

// UpdateAnswerRequest defines the payload for editing an answer.
type UpdateAnswerRequest struct {
	Content string `json:"content" validate:"required"`
}

// VoteRequest defines the payload for voting on an answer.
type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=UP DOWN"`
}

// UnreadCountResponse defines the response of the unread count endpoint.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse defines the response of the mark-all-read endpoint.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
