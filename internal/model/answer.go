package model

import (
	"time"

	"gorm.io/gorm"
)

// AttemptAnswer is the graded outcome for one active question of an attempt.
// Rows are write-once: created in the same transaction that completes the attempt.
type AttemptAnswer struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index"`
	Question         Question       `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	SelectedOptionID *uint          `json:"selected_option_id,omitempty"` // nil when unanswered
	IsCorrect        bool           `json:"is_correct" gorm:"not null;default:false"`
	PointsEarned     int            `json:"points_earned" gorm:"not null;default:0"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
