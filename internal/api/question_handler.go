package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/api/shared"
	"github.com/stackit-qa/stackit-api/internal/service"
)

// QuestionHandler handles question-related API requests.
type QuestionHandler struct {
	questionService service.QuestionService
	answerService   service.AnswerService
	validator       *validator.Validate
}

// NewQuestionHandler creates a new QuestionHandler with the given dependencies.
func NewQuestionHandler(
	questionService service.QuestionService,
	answerService service.AnswerService,
) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		answerService:   answerService,
		validator:       validator.New(),
	}
}

// Create handles POST /questions.
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	profileID, ok := getProfileIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req PostQuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	question, err := h.questionService.PostQuestion(r.Context(), profileID, req.Title, req.Body, req.Tags)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, question)
}

// Update handles PUT /questions/{questionID}.
func (h *QuestionHandler) Update(w http.ResponseWriter, r *http.Request) {
	profileID, questionID, ok := requireProfileAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	var req UpdateQuestionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	question, err := h.questionService.UpdateQuestion(r.Context(), questionID, profileID, req.Title, req.Body, req.Tags)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, question)
}

// Get handles GET /questions/{questionID}.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID, err := getPathUUID(r, "questionID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	question, err := h.questionService.GetQuestion(r.Context(), questionID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, question)
}

// List handles GET /questions with optional tag or author filters.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	if tag := r.URL.Query().Get("tag"); tag != "" {
		questions, err := h.questionService.ListByTag(r.Context(), tag)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, questions)
		return
	}

	if author := r.URL.Query().Get("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid author ID")
			return
		}
		questions, err := h.questionService.ListByAuthor(r.Context(), authorID)
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, questions)
		return
	}

	// No filter browses all questions, newest first.
	questions, err := h.questionService.ListAll(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, questions)
}

// Delete handles DELETE /questions/{questionID}.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profileID, questionID, ok := requireProfileAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	if err := h.questionService.DeleteQuestion(r.Context(), questionID, profileID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
