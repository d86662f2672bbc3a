package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptStatusInProgress = "in_progress"
	AttemptStatusCompleted  = "completed"
)

type QuizAttempt struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	StudentID        uuid.UUID       `json:"student_id" gorm:"type:uuid;not null;index:idx_attempts_student_quiz"`
	QuizID           uint            `json:"quiz_id" gorm:"not null;index:idx_attempts_student_quiz"`
	Quiz             Quiz            `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Status           string          `json:"status" gorm:"not null;default:'in_progress';index"` // "in_progress", "completed"
	Score            int             `json:"score" gorm:"not null;default:0"`
	MaxScore         int             `json:"max_score" gorm:"not null;default:0"`
	Percentage       float64         `json:"percentage" gorm:"not null;default:0"`
	Passed           bool            `json:"passed" gorm:"not null;default:false"`
	TimeSpentSeconds int             `json:"time_spent_seconds" gorm:"not null;default:0"`
	StartedAt        time.Time       `json:"started_at" gorm:"not null"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Answers          []AttemptAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}
