package dto

import "github.com/google/uuid"

type LeaderboardEntryDTO struct {
	Rank             int       `json:"rank"`
	StudentID        uuid.UUID `json:"student_id"`
	TotalPoints      int       `json:"total_points"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	AverageScore     float64   `json:"average_score"`
}
