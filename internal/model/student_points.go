package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudentPoints is the per-student lifetime aggregate. Invariant: total_points
// equals the sum of BestScore.best_score over every quiz the student has a
// BestScore row for. quizzes_completed counts distinct quizzes, each on its
// first completion only.
type StudentPoints struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	StudentID        uuid.UUID      `json:"student_id" gorm:"type:uuid;not null;uniqueIndex"`
	TotalPoints      int            `json:"total_points" gorm:"not null;default:0"`
	QuizzesCompleted int            `json:"quizzes_completed" gorm:"not null;default:0"`
	LastQuizAt       time.Time      `json:"last_quiz_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
