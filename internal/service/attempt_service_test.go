package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/service"
)

type attemptHarness struct {
	quizzes  *fakeQuizRepo
	attempts *fakeAttemptRepo
	answers  *fakeAnswerRepo
	scores   *fakeScoreRepo
	tx       *fakeTxRunner
	svc      service.AttemptService
}

func newAttemptHarness() *attemptHarness {
	h := &attemptHarness{
		quizzes:  newFakeQuizRepo(),
		attempts: newFakeAttemptRepo(),
		answers:  newFakeAnswerRepo(),
		scores:   newFakeScoreRepo(),
		tx:       &fakeTxRunner{},
	}
	h.svc = service.NewAttemptService(
		h.quizzes,
		h.attempts,
		h.answers,
		h.scores,
		service.NewGradingService(),
		service.NewScoreLedgerService(h.scores),
		h.tx,
	)
	return h
}

// addQuiz registers a two-question, 20-point quiz. Correct options are 11 and 22.
func (h *attemptHarness) addQuiz(id uint, status string, allowRetake bool) {
	quiz, _ := twoQuestionQuiz(70)
	quiz.ID = id
	quiz.Status = status
	quiz.AllowRetake = allowRetake
	for i := range quiz.Questions {
		quiz.Questions[i].QuizID = id
	}
	h.quizzes.add(quiz)
}

// submission yields answers scoring 0, 10 or 20 points on the standard quiz.
func submission(points int) dto.SubmitAttemptDTO {
	var answers []dto.SubmittedAnswerDTO
	switch points {
	case 20:
		answers = []dto.SubmittedAnswerDTO{
			{QuestionID: 1, SelectedOptionID: optionID(11)},
			{QuestionID: 2, SelectedOptionID: optionID(22)},
		}
	case 10:
		answers = []dto.SubmittedAnswerDTO{
			{QuestionID: 1, SelectedOptionID: optionID(11)},
			{QuestionID: 2, SelectedOptionID: optionID(21)},
		}
	default:
		answers = []dto.SubmittedAnswerDTO{
			{QuestionID: 1, SelectedOptionID: optionID(12)},
			{QuestionID: 2, SelectedOptionID: optionID(21)},
		}
	}
	return dto.SubmitAttemptDTO{Answers: answers, TimeSpentSeconds: 120}
}

func TestStartAttemptIdempotentResume(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	first, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, first.Status)
	assert.Equal(t, 20, first.MaxScore)

	second, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "resuming must return the same attempt")

	// A different student gets their own attempt.
	other, err := h.svc.StartAttempt(uuid.New(), 1)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestStartAttemptQuizUnavailable(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusDraft, true)
	h.addQuiz(2, model.QuizStatusArchived, true)

	_, err := h.svc.StartAttempt(uuid.New(), 1)
	assert.ErrorIs(t, err, service.ErrQuizUnavailable)

	_, err = h.svc.StartAttempt(uuid.New(), 2)
	assert.ErrorIs(t, err, service.ErrQuizUnavailable)

	_, err = h.svc.StartAttempt(uuid.New(), 99)
	assert.ErrorIs(t, err, service.ErrQuizNotFound)
}

func TestStartAttemptRetakePolicy(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, false)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)
	_, err = h.svc.SubmitAttempt(attempt.ID, student, submission(10))
	require.NoError(t, err)

	_, err = h.svc.StartAttempt(student, 1)
	assert.ErrorIs(t, err, service.ErrRetakeNotAllowed)

	// Retakes stay open on quizzes that allow them.
	h.addQuiz(2, model.QuizStatusActive, true)
	attempt2, err := h.svc.StartAttempt(student, 2)
	require.NoError(t, err)
	_, err = h.svc.SubmitAttempt(attempt2.ID, student, submission(10))
	require.NoError(t, err)
	_, err = h.svc.StartAttempt(student, 2)
	require.NoError(t, err)
}

func TestSubmitAttempt(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)

	result, err := h.svc.SubmitAttempt(attempt.ID, student, submission(10))
	require.NoError(t, err)

	assert.Equal(t, 10, result.Score)
	assert.Equal(t, 20, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.False(t, result.Passed)
	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.True(t, result.IsNewHighScore)
	assert.Equal(t, 10, result.PointsEarned)
	assert.Equal(t, 10, result.TotalPoints)
	assert.Equal(t, model.AttemptStatusCompleted, result.Attempt.Status)
	assert.Equal(t, 120, result.Attempt.TimeSpentSeconds)
	require.NotNil(t, result.Attempt.CompletedAt)
	require.Len(t, result.Answers, 2)

	stored, err := h.attempts.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusCompleted, stored.Status)

	persisted, err := h.answers.FindByAttemptID(attempt.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestSubmitAttemptErrors(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)

	_, err = h.svc.SubmitAttempt(999, student, submission(10))
	assert.ErrorIs(t, err, service.ErrAttemptNotFound)

	_, err = h.svc.SubmitAttempt(attempt.ID, uuid.New(), submission(10))
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestSubmitAttemptDoubleSubmissionRejected(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)

	_, err = h.svc.SubmitAttempt(attempt.ID, student, submission(20))
	require.NoError(t, err)

	_, err = h.svc.SubmitAttempt(attempt.ID, student, submission(20))
	assert.ErrorIs(t, err, service.ErrAlreadySubmitted)

	// Aggregates reflect exactly one application.
	assert.Equal(t, 20, h.scores.totalPoints(student))
	best, _ := h.scores.FindBestScoreForUpdate(nil, student, 1)
	require.NotNil(t, best)
	assert.Equal(t, 1, best.AttemptsCount)
}

func TestSubmitAttemptTransactionFailureKeepsAttemptOpen(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)

	h.tx.err = errors.New("connection reset")
	_, err = h.svc.SubmitAttempt(attempt.ID, student, submission(20))
	require.Error(t, err)

	stored, err := h.attempts.FindByID(attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptStatusInProgress, stored.Status, "failed submission must not complete the attempt")

	// Resubmitting after the fault clears is the safe retry.
	h.tx.err = nil
	result, err := h.svc.SubmitAttempt(attempt.ID, student, submission(20))
	require.NoError(t, err)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, 20, h.scores.totalPoints(student))
}

// Retake sequence end to end: 10, then 20, then 0 on a 20-point quiz.
func TestSubmitAttemptNoDoubleCountingAcrossRetakes(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	scores := []int{10, 20, 0}
	wantTotals := []int{10, 20, 20}
	wantHigh := []bool{true, true, false}

	for i, points := range scores {
		attempt, err := h.svc.StartAttempt(student, 1)
		require.NoError(t, err)
		result, err := h.svc.SubmitAttempt(attempt.ID, student, submission(points))
		require.NoError(t, err)
		assert.Equal(t, wantTotals[i], result.TotalPoints, "after attempt %d", i+1)
		assert.Equal(t, wantHigh[i], result.IsNewHighScore, "after attempt %d", i+1)
	}

	bests, err := h.svc.GetBestScores(student)
	require.NoError(t, err)
	require.Len(t, bests, 1)
	assert.Equal(t, 20, bests[0].BestScore)
	assert.Equal(t, 3, bests[0].AttemptsCount)
}

func TestGetAttemptDetailOwnership(t *testing.T) {
	h := newAttemptHarness()
	h.addQuiz(1, model.QuizStatusActive, true)
	student := uuid.New()

	attempt, err := h.svc.StartAttempt(student, 1)
	require.NoError(t, err)

	_, err = h.svc.GetAttemptDetail(attempt.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrForbidden)

	detail, err := h.svc.GetAttemptDetail(attempt.ID, student)
	require.NoError(t, err)
	assert.Equal(t, attempt.ID, detail.ID)
}
