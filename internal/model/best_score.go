package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BestScore is the per-(student, quiz) aggregate maintained by the score ledger.
// best_score is the maximum completed-attempt score for the pair and attempts_count
// the number of completed attempts; rows are only ever mutated under row locks
// inside the submission transaction.
type BestScore struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	StudentID      uuid.UUID      `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:uniq_best_scores_student_quiz"`
	QuizID         uint           `json:"quiz_id" gorm:"not null;uniqueIndex:uniq_best_scores_student_quiz"`
	Quiz           Quiz           `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	BestScore      int            `json:"best_score" gorm:"not null;default:0"`
	BestPercentage float64        `json:"best_percentage" gorm:"not null;default:0"`
	AttemptsCount  int            `json:"attempts_count" gorm:"not null;default:0"`
	LastAttemptAt  time.Time      `json:"last_attempt_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
