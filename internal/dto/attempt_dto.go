package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmittedAnswerDTO carries one (question, selected option) pair of a
// submission. A missing or unknown option id grades as unanswered.
type SubmittedAnswerDTO struct {
	QuestionID       uint  `json:"question_id" binding:"required"`
	SelectedOptionID *uint `json:"selected_option_id"`
}

// SubmitAttemptDTO is the request body for submitting a whole attempt.
type SubmitAttemptDTO struct {
	Answers          []SubmittedAnswerDTO `json:"answers" binding:"required,dive"`
	TimeSpentSeconds int                  `json:"time_spent_seconds" binding:"min=0"`
}

type AttemptDTO struct {
	ID               uint       `json:"id"`
	StudentID        uuid.UUID  `json:"student_id"`
	QuizID           uint       `json:"quiz_id"`
	QuizTitle        string     `json:"quiz_title,omitempty"`
	Status           string     `json:"status"`
	Score            int        `json:"score"`
	MaxScore         int        `json:"max_score"`
	Percentage       float64    `json:"percentage"`
	Passed           bool       `json:"passed"`
	TimeSpentSeconds int        `json:"time_spent_seconds"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

type AnswerDTO struct {
	ID               uint   `json:"id"`
	QuestionID       uint   `json:"question_id"`
	QuestionText     string `json:"question_text,omitempty"`
	SelectedOptionID *uint  `json:"selected_option_id,omitempty"`
	IsCorrect        bool   `json:"is_correct"`
	PointsEarned     int    `json:"points_earned"`
}

// SubmitResultDTO is the combined outcome of one graded submission: the
// finalized attempt, the grading breakdown and the ledger verdict.
type SubmitResultDTO struct {
	Attempt        AttemptDTO  `json:"attempt"`
	CorrectAnswers int         `json:"correct_answers"`
	TotalQuestions int         `json:"total_questions"`
	Score          int         `json:"score"`
	MaxScore       int         `json:"max_score"`
	Percentage     float64     `json:"percentage"`
	Passed         bool        `json:"passed"`
	IsNewHighScore bool        `json:"is_new_high_score"`
	PointsEarned   int         `json:"points_earned"` // net improvement credited to the lifetime total
	TotalPoints    int         `json:"total_points"`
	Answers        []AnswerDTO `json:"answers"`
}

// AttemptDetailDTO is AttemptDTO plus the graded answers.
type AttemptDetailDTO struct {
	AttemptDTO
	Answers []AnswerDTO `json:"answers"`
}

type BestScoreDTO struct {
	QuizID         uint      `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title,omitempty"`
	BestScore      int       `json:"best_score"`
	BestPercentage float64   `json:"best_percentage"`
	AttemptsCount  int       `json:"attempts_count"`
	LastAttemptAt  time.Time `json:"last_attempt_at"`
}
