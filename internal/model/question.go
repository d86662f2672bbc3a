package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionStatusActive   = "active"
	QuestionStatusArchived = "archived"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Points        int            `json:"points" gorm:"not null;default:1"` // positive integer weight
	OrderPosition int            `json:"order_position" gorm:"not null"`
	Status        string         `json:"status" gorm:"not null;default:'active';index"` // "active", "archived"
	Options       []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// CorrectOption returns the option flagged correct, or nil when the question
// has zero options flagged (a data-integrity condition, not a grading case).
// With more than one flagged option the lowest-positioned one is returned.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}
