package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizStatusDraft    = "draft"
	QuizStatusActive   = "active"
	QuizStatusArchived = "archived"
)

type Quiz struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	TopicID          uint           `json:"topic_id" gorm:"not null;index"`
	Title            string         `json:"title" gorm:"not null"`
	Description      string         `json:"description,omitempty"`
	TimeLimitMinutes int            `json:"time_limit_minutes" gorm:"not null;default:0"` // 0 = unlimited
	PassingScore     float64        `json:"passing_score" gorm:"not null;default:70"`     // percentage threshold 0-100
	ShuffleQuestions bool           `json:"shuffle_questions" gorm:"not null;default:false"`
	ShuffleOptions   bool           `json:"shuffle_options" gorm:"not null;default:false"`
	AllowRetake      bool           `json:"allow_retake" gorm:"not null;default:true"`
	Status           string         `json:"status" gorm:"not null;default:'draft';index"` // "draft", "active", "archived"
	TotalPoints      int            `json:"total_points" gorm:"not null;default:0"`       // sum of active question points
	Questions        []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// ActiveQuestions filters the preloaded question list down to gradable ones.
func (q *Quiz) ActiveQuestions() []Question {
	active := make([]Question, 0, len(q.Questions))
	for _, question := range q.Questions {
		if question.Status == QuestionStatusActive {
			active = append(active, question)
		}
	}
	return active
}
