package service

import (
	"math"

	"github.com/studyflow/studyflow-backend/internal/dto"
	"github.com/studyflow/studyflow-backend/internal/model"
)

// GradedResult is the outcome of scoring one submission against a quiz's
// active questions. Answers holds one write-once record per active question,
// ready for persistence alongside attempt completion.
type GradedResult struct {
	Score          int
	MaxScore       int
	Percentage     float64
	Passed         bool
	CorrectCount   int
	TotalQuestions int
	Answers        []model.AttemptAnswer
}

// GradingService scores submissions. Grade is a pure function over its inputs;
// it never touches storage and cannot fail on well-formed data.
type GradingService interface {
	Grade(quiz *model.Quiz, questions []model.Question, submitted []dto.SubmittedAnswerDTO) GradedResult
}

type gradingService struct{}

func NewGradingService() GradingService {
	return &gradingService{}
}

func (s *gradingService) Grade(quiz *model.Quiz, questions []model.Question, submitted []dto.SubmittedAnswerDTO) GradedResult {
	// First selection per question wins; later duplicates are ignored.
	selections := make(map[uint]*uint, len(submitted))
	for _, ans := range submitted {
		if _, seen := selections[ans.QuestionID]; !seen {
			selections[ans.QuestionID] = ans.SelectedOptionID
		}
	}

	result := GradedResult{
		TotalQuestions: len(questions),
		Answers:        make([]model.AttemptAnswer, 0, len(questions)),
	}

	for i := range questions {
		question := &questions[i]
		result.MaxScore += question.Points

		answer := model.AttemptAnswer{QuestionID: question.ID}

		// A selection only counts when it names an option of this question;
		// anything else degrades to unanswered.
		if selected := selections[question.ID]; selected != nil {
			for j := range question.Options {
				if question.Options[j].ID == *selected {
					answer.SelectedOptionID = selected
					answer.IsCorrect = question.Options[j].IsCorrect
					break
				}
			}
		}

		if answer.IsCorrect {
			answer.PointsEarned = question.Points
			result.Score += question.Points
			result.CorrectCount++
		}
		result.Answers = append(result.Answers, answer)
	}

	if result.MaxScore > 0 {
		result.Percentage = roundPercentage(float64(result.Score) / float64(result.MaxScore) * 100)
		result.Passed = result.Percentage >= quiz.PassingScore
	}
	// MaxScore of 0 (no active questions) grades to 0%, not passed, regardless
	// of the passing threshold.

	return result
}

func roundPercentage(p float64) float64 {
	return math.Round(p*100) / 100
}
