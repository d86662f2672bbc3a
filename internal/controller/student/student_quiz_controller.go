package student

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/service"
)

// studentIDHeader carries the verified student identifier placed by the
// upstream identity layer. This core trusts it as-is.
const studentIDHeader = "X-Student-ID"

type StudentQuizController struct {
	catalogService service.QuizCatalogService
	attemptService service.AttemptService
}

func NewStudentQuizController(catalogService service.QuizCatalogService, attemptService service.AttemptService) *StudentQuizController {
	return &StudentQuizController{
		catalogService: catalogService,
		attemptService: attemptService,
	}
}

// ListQuizzes godoc
// @Summary List active quizzes
// @Description Lists the active quiz catalog. When X-Student-ID is present, each quiz carries that student's best score.
// @Tags Quizzes
// @Produce json
// @Param X-Student-ID header string false "Verified student ID"
// @Success 200 {array} dto.QuizSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes [get]
func (c *StudentQuizController) ListQuizzes(ctx *gin.Context) {
	var studentID *uuid.UUID
	if raw := ctx.GetHeader(studentIDHeader); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student ID"})
			return
		}
		studentID = &id
	}

	quizzes, err := c.catalogService.ListActiveQuizzes(studentID)
	if err != nil {
		log.Error().Err(err).Msg("ListQuizzes: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve quizzes", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, quizzes)
}

// GetQuiz godoc
// @Summary Get one quiz for taking
// @Description Returns the quiz with its active questions and options, shuffled per quiz settings, correct flags stripped.
// @Tags Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "Quiz is not active"
// @Router /quizzes/{quiz_id} [get]
func (c *StudentQuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := parseUintParam(ctx, "quiz_id")
	if !ok {
		return
	}
	quiz, err := c.catalogService.GetQuizForStudent(quizID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, quiz)
}

// StartAttempt godoc
// @Summary Start (or resume) a quiz attempt
// @Description Creates an in_progress attempt, or returns the existing one unchanged. Fails when the quiz is inactive or retakes are not allowed.
// @Tags Attempts
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param X-Student-ID header string true "Verified student ID"
// @Success 200 {object} dto.AttemptDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Retake not allowed"
// @Failure 422 {object} dto.ErrorResponse "Quiz is not active"
// @Router /quizzes/{quiz_id}/attempts [post]
func (c *StudentQuizController) StartAttempt(ctx *gin.Context) {
	studentID, ok := requireStudentID(ctx)
	if !ok {
		return
	}
	quizID, ok := parseUintParam(ctx, "quiz_id")
	if !ok {
		return
	}

	attempt, err := c.attemptService.StartAttempt(studentID, quizID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempt)
}

// SubmitAttempt godoc
// @Summary Submit answers for an attempt
// @Description Grades the submission, finalizes the attempt and folds the score into the best-score and lifetime-points ledger. A second submit of the same attempt is rejected.
// @Tags Attempts
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param X-Student-ID header string true "Verified student ID"
// @Param submission body dto.SubmitAttemptDTO true "Answers and time spent"
// @Success 200 {object} dto.SubmitResultDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Attempt owned by another student"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already submitted"
// @Failure 500 {object} dto.ErrorResponse "Ledger update failed"
// @Router /attempts/{attempt_id}/submit [post]
func (c *StudentQuizController) SubmitAttempt(ctx *gin.Context) {
	studentID, ok := requireStudentID(ctx)
	if !ok {
		return
	}
	attemptID, ok := parseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}

	var req dto.SubmitAttemptDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("SubmitAttempt: failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.attemptService.SubmitAttempt(attemptID, studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetAttempt godoc
// @Summary Get one attempt with its graded answers
// @Tags Attempts
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param X-Student-ID header string true "Verified student ID"
// @Success 200 {object} dto.AttemptDetailDTO
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /attempts/{attempt_id} [get]
func (c *StudentQuizController) GetAttempt(ctx *gin.Context) {
	studentID, ok := requireStudentID(ctx)
	if !ok {
		return
	}
	attemptID, ok := parseUintParam(ctx, "attempt_id")
	if !ok {
		return
	}

	detail, err := c.attemptService.GetAttemptDetail(attemptID, studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetStudentAttempts godoc
// @Summary List a student's attempts
// @Tags Attempts
// @Produce json
// @Param student_id path string true "Student ID"
// @Param quiz_id query int false "Filter by quiz"
// @Success 200 {array} dto.AttemptDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /students/{student_id}/attempts [get]
func (c *StudentQuizController) GetStudentAttempts(ctx *gin.Context) {
	studentID, err := uuid.Parse(ctx.Param("student_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student ID"})
		return
	}

	var quizID *uint
	if raw := ctx.Query("quiz_id"); raw != "" {
		val, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid quiz ID"})
			return
		}
		id := uint(val)
		quizID = &id
	}

	attempts, err := c.attemptService.GetStudentAttempts(studentID, quizID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, attempts)
}

// GetBestScores godoc
// @Summary List a student's best scores per quiz
// @Tags Scores
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {array} dto.BestScoreDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /students/{student_id}/best-scores [get]
func (c *StudentQuizController) GetBestScores(ctx *gin.Context) {
	studentID, err := uuid.Parse(ctx.Param("student_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student ID"})
		return
	}

	scores, err := c.attemptService.GetBestScores(studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, scores)
}

func requireStudentID(ctx *gin.Context) (uuid.UUID, bool) {
	raw := ctx.GetHeader(studentIDHeader)
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Missing " + studentIDHeader + " header"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid student ID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	val, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(val), true
}

func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuizNotFound), errors.Is(err, service.ErrAttemptNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrAlreadySubmitted), errors.Is(err, service.ErrRetakeNotAllowed):
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrQuizUnavailable):
		ctx.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("student controller: unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
	}
}
