package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quizhub/quizhub-backend/internal/model"
	"github.com/quizhub/quizhub-backend/internal/response"
	"github.com/quizhub/quizhub-backend/internal/service"
	"github.com/quizhub/quizhub-backend/internal/validator"
)

// AdminHandler handles quiz authoring and score reporting. All routes are
// gated by RequireAuth + RequireAdmin upstream.
type AdminHandler struct {
	quizService  *service.QuizService
	scoreService *service.ScoreService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(quizService *service.QuizService, scoreService *service.ScoreService) *AdminHandler {
	return &AdminHandler{quizService: quizService, scoreService: scoreService}
}

// ListQuizzes godoc
// GET /api/v1/admin/quizzes
// Returns all quizzes with full question data, including correct answers.
func (h *AdminHandler) ListQuizzes(c *gin.Context) {
	quizzes, err := h.quizService.ListWithAnswers(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, quizzes)
}

// CreateQuiz godoc
// POST /api/v1/admin/quiz
// Validates the draft against the question invariants and persists it.
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrQuizInvalid) {
			response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidQuiz, err.Error())
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, quiz)
}

// DeleteQuiz godoc
// DELETE /api/v1/admin/quiz/:quiz_id
// Removes a quiz and cascades to its questions and scores.
func (h *AdminHandler) DeleteQuiz(c *gin.Context) {
	quizID, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), quizID); err != nil {
		if errors.Is(err, service.ErrQuizNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": quizID})
}

// Leaderboard godoc
// GET /api/v1/admin/leaderboard?quiz_id=...
// Returns the top 20 attempts, optionally filtered to one quiz.
func (h *AdminHandler) Leaderboard(c *gin.Context) {
	var quizID *uuid.UUID
	if raw := c.Query("quiz_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		quizID = &id
	}

	entries, err := h.scoreService.Leaderboard(c.Request.Context(), quizID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// ListScores godoc
// GET /api/v1/admin/scores?page=1&per_page=25
// Returns attempt records resolved with username and quiz title, newest
// first, paginated.
func (h *AdminHandler) ListScores(c *gin.Context) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", service.DefaultScoresPerPage)
	if perPage > service.MaxScoresPerPage {
		perPage = service.MaxScoresPerPage
	}

	details, total, err := h.scoreService.ListAll(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	response.SuccessWithPagination(c, http.StatusOK, details, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// intQuery reads a positive integer query parameter, falling back to the
// default on absence or garbage.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
