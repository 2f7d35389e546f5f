package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/service"
)

// AnswerHandler handles answer-related API requests: posting, listing,
// voting, and acceptance.
type AnswerHandler struct {
	answerService service.AnswerService
	validator     *validator.Validate
}

// NewAnswerHandler creates a new AnswerHandler with the given dependencies.
func NewAnswerHandler(answerService service.AnswerService) *AnswerHandler {
	return &AnswerHandler{
		answerService: answerService,
		validator:     validator.New(),
	}
}

// Create handles POST /questions/{questionID}/answers.
func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, questionID, ok := requireProfileAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	var req PostAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	answer, err := h.answerService.PostAnswer(r.Context(), questionID, profileID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, answer)
}

// Update handles PUT /answers/{answerID}.
func (h *AnswerHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, answerID, ok := requireProfileAndPathUUID(w, r, "answerID")
	if !ok {
		return
	}

	var req UpdateAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	answer, err := h.answerService.UpdateAnswer(r.Context(), answerID, profileID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answer)
}

// List handles GET /questions/{questionID}/answers. Answers come back in
// the canonical display order.
func (h *AnswerHandler) List(w http.ResponseWriter, r *http.Request) {
	questionID, err := getPathUUID(r, "questionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	answers, err := h.answerService.ListAnswers(r.Context(), questionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answers)
}

// ListByAuthor handles GET /answers. An author filter is required; answers
// come back newest first.
func (h *AnswerHandler) ListByAuthor(w http.ResponseWriter, r *http.Request) {
	author := r.URL.Query().Get("author")
	if author == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "An author filter is required")
		return
	}
	authorID, err := uuid.Parse(author)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID")
		return
	}

	answers, err := h.answerService.ListByAuthor(r.Context(), authorID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answers)
}

// Vote handles POST /answers/{answerID}/vote.
func (h *AnswerHandler) Vote(w http.ResponseWriter, r *http.Request) {
	profileID, answerID, ok := requireProfileAndPathUUID(w, r, "answerID")
	if !ok {
		return
	}

	var req VoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	direction, err := domain.ParseVoteDirection(req.Direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	answer, err := h.answerService.CastVote(r.Context(), answerID, profileID, direction)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, answer)
}

// Accept handles POST /questions/{questionID}/answers/{answerID}/accept.
func (h *AnswerHandler) Accept(w http.ResponseWriter, r *http.Request) {
	profileID, questionID, ok := requireProfileAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}
	answerID, err := getPathUUID(r, "answerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.answerService.AcceptAnswer(r.Context(), questionID, answerID, profileID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Unaccept handles DELETE /questions/{questionID}/answers/{answerID}/accept.
func (h *AnswerHandler) Unaccept(w http.ResponseWriter, r *http.Request) {
	profileID, questionID, ok := requireProfileAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}
	answerID, err := getPathUUID(r, "answerID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.answerService.UnacceptAnswer(r.Context(), questionID, answerID, profileID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

// Delete handles DELETE /answers/{answerID}.
func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, answerID, ok := requireProfileAndPathUUID(w, r, "answerID")
	if !ok {
		return
	}

	if err := h.answerService.DeleteAnswer(r.Context(), answerID, profileID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
