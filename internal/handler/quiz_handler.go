package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizhub/quizhub-backend/internal/middleware"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/quizhub/quizhub-backend/internal/response"
	"github.com/quizhub/quizhub-backend/internal/service"
	"github.com/quizhub/quizhub-backend/internal/validator"
)

// QuizHandler handles the public quiz surface: browsing and submitting.
// Every payload it serves is answer-free; the answer-bearing view never
// leaves the server through these endpoints.
type QuizHandler struct {
	quizService  *service.QuizService
	scoreService *service.ScoreService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService, scoreService *service.ScoreService) *QuizHandler {
	return &QuizHandler{quizService: quizService, scoreService: scoreService}
}

// List godoc
// GET /api/v1/quiz
// Returns public quiz summaries: title, description, question count.
func (h *QuizHandler) List(c *gin.Context) {
	summaries, err := h.quizService.ListSummaries(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, summaries)
}

// Get godoc
// GET /api/v1/quiz/:quiz_id
// Returns the answer-free quiz payload for taking.
func (h *QuizHandler) Get(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payload, err := h.quizService.GetForTaking(c.Request.Context(), quizID)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, payload)
}

// Submit godoc
// POST /api/v1/quiz/:quiz_id/submit
// Grades the submitted answers and records the attempt.
func (h *QuizHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.scoreService.Submit(c.Request.Context(), claims.UserID, quizID, req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}
