package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/model"
	"github.com/studyflow/studyflow-backend/internal/repository"
	"gorm.io/gorm"
)

// QuizCatalogService is the student-facing view of the quiz catalog: active
// quizzes only, correct flags stripped, shuffle settings applied.
type QuizCatalogService interface {
	// ListActiveQuizzes annotates each quiz with the student's best score when
	// a student id is given.
	ListActiveQuizzes(studentID *uuid.UUID) ([]dto.QuizSummaryDTO, error)
	GetQuizForStudent(quizID uint) (*dto.QuizDetailDTO, error)
}

type quizCatalogService struct {
	quizRepo  repository.QuizRepository
	scoreRepo repository.ScoreRepository
}

func NewQuizCatalogService(quizRepo repository.QuizRepository, scoreRepo repository.ScoreRepository) QuizCatalogService {
	return &quizCatalogService{quizRepo: quizRepo, scoreRepo: scoreRepo}
}

func (s *quizCatalogService) ListActiveQuizzes(studentID *uuid.UUID) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.FindAllActiveWithQuestionCount()
	if err != nil {
		log.Error().Err(err).Msg("ListActiveQuizzes: failed to load catalog")
		return nil, fmt.Errorf("error fetching quizzes: %w", err)
	}

	bestByQuiz := map[uint]model.BestScore{}
	if studentID != nil {
		rows, err := s.scoreRepo.FindBestScoresByStudent(*studentID)
		if err != nil {
			return nil, fmt.Errorf("error fetching best scores: %w", err)
		}
		for _, row := range rows {
			bestByQuiz[row.QuizID] = row
		}
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, qwc := range quizzes {
		summary := dto.QuizSummaryDTO{
			ID:               qwc.Quiz.ID,
			TopicID:          qwc.Quiz.TopicID,
			Title:            qwc.Quiz.Title,
			Description:      qwc.Quiz.Description,
			TimeLimitMinutes: qwc.Quiz.TimeLimitMinutes,
			PassingScore:     qwc.Quiz.PassingScore,
			AllowRetake:      qwc.Quiz.AllowRetake,
			QuestionCount:    qwc.QuestionCount,
			CreatedAt:        qwc.Quiz.CreatedAt,
		}
		if best, ok := bestByQuiz[qwc.Quiz.ID]; ok {
			score := best.BestScore
			pct := best.BestPercentage
			summary.BestScore = &score
			summary.BestPercentage = &pct
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}

func (s *quizCatalogService) GetQuizForStudent(quizID uint) (*dto.QuizDetailDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		log.Error().Err(err).Uint("quizID", quizID).Msg("GetQuizForStudent: failed to load quiz")
		return nil, fmt.Errorf("loading quiz %d: %w", quizID, err)
	}
	if quiz.Status != model.QuizStatusActive {
		return nil, ErrQuizUnavailable
	}

	detail := &dto.QuizDetailDTO{
		ID:               quiz.ID,
		TopicID:          quiz.TopicID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		PassingScore:     quiz.PassingScore,
		AllowRetake:      quiz.AllowRetake,
		TotalPoints:      quiz.TotalPoints,
		QuestionCount:    len(quiz.Questions),
		Questions:        make([]dto.QuestionDTO, 0, len(quiz.Questions)),
	}

	for _, question := range quiz.Questions {
		qDTO := dto.QuestionDTO{
			ID:            question.ID,
			Text:          question.Text,
			Points:        question.Points,
			OrderPosition: question.OrderPosition,
			Options:       make([]dto.OptionDTO, 0, len(question.Options)),
		}
		for _, option := range question.Options {
			qDTO.Options = append(qDTO.Options, dto.OptionDTO{
				ID:            option.ID,
				Text:          option.Text,
				OrderPosition: option.OrderPosition,
			})
		}
		if quiz.ShuffleOptions {
			rand.Shuffle(len(qDTO.Options), func(i, j int) {
				qDTO.Options[i], qDTO.Options[j] = qDTO.Options[j], qDTO.Options[i]
			})
		}
		detail.Questions = append(detail.Questions, qDTO)
	}
	if quiz.ShuffleQuestions {
		rand.Shuffle(len(detail.Questions), func(i, j int) {
			detail.Questions[i], detail.Questions[j] = detail.Questions[j], detail.Questions[i]
		})
	}

	return detail, nil
}
