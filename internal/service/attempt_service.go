package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/repository"
	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle: one in_progress attempt per
// (student, quiz) at a time, completed exactly once. Completion, answer
// persistence and the ledger fold commit as a single transaction.
type AttemptService interface {
	StartAttempt(studentID uuid.UUID, quizID uint) (*dto.AttemptDTO, error)
	SubmitAttempt(attemptID uint, studentID uuid.UUID, req dto.SubmitAttemptDTO) (*dto.SubmitResultDTO, error)
	GetAttemptDetail(attemptID uint, studentID uuid.UUID) (*dto.AttemptDetailDTO, error)
	GetStudentAttempts(studentID uuid.UUID, quizID *uint) ([]dto.AttemptDTO, error)
	GetBestScores(studentID uuid.UUID) ([]dto.BestScoreDTO, error)
}

type attemptService struct {
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
	answerRepo  repository.AnswerRepository
	scoreRepo   repository.ScoreRepository
	grading     GradingService
	ledger      ScoreLedgerService
	tx          repository.TxRunner
}

func NewAttemptService(
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
	answerRepo repository.AnswerRepository,
	scoreRepo repository.ScoreRepository,
	grading GradingService,
	ledger ScoreLedgerService,
	tx repository.TxRunner,
) AttemptService {
	return &attemptService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		answerRepo:  answerRepo,
		scoreRepo:   scoreRepo,
		grading:     grading,
		ledger:      ledger,
		tx:          tx,
	}
}

func (s *attemptService) StartAttempt(studentID uuid.UUID, quizID uint) (*dto.AttemptDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		log.Error().Err(err).Uint("quizID", quizID).Msg("StartAttempt: failed to load quiz")
		return nil, fmt.Errorf("loading quiz %d: %w", quizID, err)
	}
	if quiz.Status != model.QuizStatusActive {
		return nil, ErrQuizUnavailable
	}

	// Idempotent resume: an open attempt is returned unchanged, so a client
	// that starts twice never orphans a session.
	existing, err := s.attemptRepo.FindInProgress(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("checking open attempt: %w", err)
	}
	if existing != nil {
		return attemptToDTO(existing, quiz.Title), nil
	}

	if !quiz.AllowRetake {
		completed, err := s.attemptRepo.HasCompleted(studentID, quizID)
		if err != nil {
			return nil, fmt.Errorf("checking completed attempts: %w", err)
		}
		if completed {
			return nil, ErrRetakeNotAllowed
		}
	}

	attempt := &model.QuizAttempt{
		StudentID: studentID,
		QuizID:    quizID,
		Status:    model.AttemptStatusInProgress,
		MaxScore:  quiz.TotalPoints,
		StartedAt: time.Now(),
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		log.Error().Err(err).Str("studentID", studentID.String()).Uint("quizID", quizID).Msg("StartAttempt: failed to create attempt")
		return nil, fmt.Errorf("creating attempt: %w", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Str("studentID", studentID.String()).Uint("quizID", quizID).Msg("attempt started")
	return attemptToDTO(attempt, quiz.Title), nil
}

func (s *attemptService) SubmitAttempt(attemptID uint, studentID uuid.UUID, req dto.SubmitAttemptDTO) (*dto.SubmitResultDTO, error) {
	attempt, err := s.attemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrForbidden
	}
	if attempt.Status == model.AttemptStatusCompleted {
		return nil, ErrAlreadySubmitted
	}

	quiz, err := s.quizRepo.FindByIDWithQuestions(attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("loading quiz %d: %w", attempt.QuizID, err)
	}

	graded := s.grading.Grade(quiz, quiz.Questions, req.Answers)

	now := time.Now()
	attempt.Status = model.AttemptStatusCompleted
	attempt.Score = graded.Score
	attempt.MaxScore = graded.MaxScore
	attempt.Percentage = graded.Percentage
	attempt.Passed = graded.Passed
	attempt.TimeSpentSeconds = req.TimeSpentSeconds
	attempt.CompletedAt = &now

	// Completion, answers and the ledger fold are one logical unit: either the
	// whole submission commits, or the attempt stays in_progress and the client
	// may safely resubmit.
	var ledgerResult *LedgerResult
	err = s.tx.Transaction(func(tx *gorm.DB) error {
		won, err := s.attemptRepo.CompleteInProgress(tx, attempt)
		if err != nil {
			return fmt.Errorf("completing attempt: %w", err)
		}
		if !won {
			return ErrAlreadySubmitted
		}

		answers := graded.Answers
		for i := range answers {
			answers[i].AttemptID = attempt.ID
		}
		if err := s.answerRepo.CreateBatch(tx, answers); err != nil {
			return fmt.Errorf("persisting answers: %w", err)
		}

		ledgerResult, err = s.ledger.ApplyAttempt(tx, studentID, attempt.QuizID, graded.Score, graded.Percentage, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadySubmitted) {
			return nil, ErrAlreadySubmitted
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt: submission transaction failed")
		return nil, err
	}

	result := &dto.SubmitResultDTO{
		Attempt:        *attemptToDTO(attempt, quiz.Title),
		CorrectAnswers: graded.CorrectCount,
		TotalQuestions: graded.TotalQuestions,
		Score:          graded.Score,
		MaxScore:       graded.MaxScore,
		Percentage:     graded.Percentage,
		Passed:         graded.Passed,
		IsNewHighScore: ledgerResult.IsNewHighScore,
		PointsEarned:   ledgerResult.PointsDifference,
		TotalPoints:    ledgerResult.TotalPoints,
		Answers:        answersToDTOs(graded.Answers, quiz.Questions),
	}

	log.Info().
		Uint("attemptID", attempt.ID).
		Str("studentID", studentID.String()).
		Int("score", graded.Score).
		Int("maxScore", graded.MaxScore).
		Bool("passed", graded.Passed).
		Bool("newHighScore", ledgerResult.IsNewHighScore).
		Msg("attempt submitted")

	return result, nil
}

func (s *attemptService) GetAttemptDetail(attemptID uint, studentID uuid.UUID) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithAnswers(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("loading attempt %d: %w", attemptID, err)
	}
	if attempt.StudentID != studentID {
		return nil, ErrForbidden
	}

	detail := &dto.AttemptDetailDTO{
		AttemptDTO: *attemptToDTO(attempt, attempt.Quiz.Title),
		Answers:    make([]dto.AnswerDTO, 0, len(attempt.Answers)),
	}
	for _, ans := range attempt.Answers {
		var ansDTO dto.AnswerDTO
		copier.Copy(&ansDTO, &ans)
		ansDTO.QuestionText = ans.Question.Text
		detail.Answers = append(detail.Answers, ansDTO)
	}
	return detail, nil
}

func (s *attemptService) GetStudentAttempts(studentID uuid.UUID, quizID *uint) ([]dto.AttemptDTO, error) {
	attempts, err := s.attemptRepo.FindAllByStudent(studentID, quizID)
	if err != nil {
		return nil, fmt.Errorf("loading attempts: %w", err)
	}
	dtos := make([]dto.AttemptDTO, 0, len(attempts))
	for i := range attempts {
		dtos = append(dtos, *attemptToDTO(&attempts[i], ""))
	}
	return dtos, nil
}

func (s *attemptService) GetBestScores(studentID uuid.UUID) ([]dto.BestScoreDTO, error) {
	rows, err := s.scoreRepo.FindBestScoresByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("loading best scores: %w", err)
	}
	dtos := make([]dto.BestScoreDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, dto.BestScoreDTO{
			QuizID:         row.QuizID,
			QuizTitle:      row.Quiz.Title,
			BestScore:      row.BestScore,
			BestPercentage: row.BestPercentage,
			AttemptsCount:  row.AttemptsCount,
			LastAttemptAt:  row.LastAttemptAt,
		})
	}
	return dtos, nil
}

func attemptToDTO(attempt *model.QuizAttempt, quizTitle string) *dto.AttemptDTO {
	var out dto.AttemptDTO
	copier.Copy(&out, attempt)
	out.QuizTitle = quizTitle
	return &out
}

func answersToDTOs(answers []model.AttemptAnswer, questions []model.Question) []dto.AnswerDTO {
	texts := make(map[uint]string, len(questions))
	for _, q := range questions {
		texts[q.ID] = q.Text
	}
	dtos := make([]dto.AnswerDTO, 0, len(answers))
	for _, ans := range answers {
		var ansDTO dto.AnswerDTO
		copier.Copy(&ansDTO, &ans)
		ansDTO.QuestionText = texts[ans.QuestionID]
		dtos = append(dtos, ansDTO)
	}
	return dtos
}
