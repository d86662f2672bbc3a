package dto

import "time"

// OptionDTO is the student-facing view of an option. The correct flag is
// deliberately absent.
type OptionDTO struct {
	ID            uint   `json:"id"`
	Text          string `json:"text"`
	OrderPosition int    `json:"order_position"`
}

type QuestionDTO struct {
	ID            uint        `json:"id"`
	Text          string      `json:"text"`
	Points        int         `json:"points"`
	OrderPosition int         `json:"order_position"`
	Options       []OptionDTO `json:"options"`
}

// QuizDetailDTO is what a student sees before starting an attempt. Question and
// option order already reflects the quiz's shuffle settings.
type QuizDetailDTO struct {
	ID               uint          `json:"id"`
	TopicID          uint          `json:"topic_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	TimeLimitMinutes int           `json:"time_limit_minutes"`
	PassingScore     float64       `json:"passing_score"`
	AllowRetake      bool          `json:"allow_retake"`
	TotalPoints      int           `json:"total_points"`
	QuestionCount    int           `json:"question_count"`
	Questions        []QuestionDTO `json:"questions"`
}

// QuizSummaryDTO is used for listing the active catalog. BestScore and
// BestPercentage are filled only when the listing is student-scoped.
type QuizSummaryDTO struct {
	ID               uint      `json:"id"`
	TopicID          uint      `json:"topic_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	PassingScore     float64   `json:"passing_score"`
	AllowRetake      bool      `json:"allow_retake"`
	QuestionCount    int       `json:"question_count"`
	BestScore        *int      `json:"best_score,omitempty"`
	BestPercentage   *float64  `json:"best_percentage,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
