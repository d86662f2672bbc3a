package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LeaderboardRow is the flattened projection read for ranking. AverageScore is
// the mean best_percentage across the student's BestScore rows.
type LeaderboardRow struct {
	StudentID        uuid.UUID `json:"student_id"`
	TotalPoints      int       `json:"total_points"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	AverageScore     float64   `json:"average_score"`
}

// ScoreRepository persists the two ledger aggregates. The ForUpdate reads take
// the caller's transaction and lock the row so the read-modify-write in the
// ledger stays serialized per student and per (student, quiz).
type ScoreRepository interface {
	FindBestScoreForUpdate(tx *gorm.DB, studentID uuid.UUID, quizID uint) (*model.BestScore, error)
	SaveBestScore(tx *gorm.DB, row *model.BestScore) error
	FindStudentPointsForUpdate(tx *gorm.DB, studentID uuid.UUID) (*model.StudentPoints, error)
	SaveStudentPoints(tx *gorm.DB, row *model.StudentPoints) error

	FindBestScoresByStudent(studentID uuid.UUID) ([]model.BestScore, error)
	TopByTotalPoints(limit int) ([]LeaderboardRow, error)
	TopByTotalPointsAmong(studentIDs []uuid.UUID, limit int) ([]LeaderboardRow, error)
}

type scoreRepository struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) FindBestScoreForUpdate(tx *gorm.DB, studentID uuid.UUID, quizID uint) (*model.BestScore, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var row model.BestScore
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepository) SaveBestScore(tx *gorm.DB, row *model.BestScore) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Save(row).Error
}

func (r *scoreRepository) FindStudentPointsForUpdate(tx *gorm.DB, studentID uuid.UUID) (*model.StudentPoints, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var row model.StudentPoints
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("student_id = ?", studentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *scoreRepository) SaveStudentPoints(tx *gorm.DB, row *model.StudentPoints) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Save(row).Error
}

func (r *scoreRepository) FindBestScoresByStudent(studentID uuid.UUID) ([]model.BestScore, error) {
	var rows []model.BestScore
	err := r.db.
		Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("last_attempt_at DESC").
		Find(&rows).Error
	return rows, err
}

const leaderboardSelect = `student_points.student_id, student_points.total_points, student_points.quizzes_completed,
COALESCE((SELECT AVG(best_scores.best_percentage) FROM best_scores
	WHERE best_scores.student_id = student_points.student_id AND best_scores.deleted_at IS NULL), 0) AS average_score`

func (r *scoreRepository) TopByTotalPoints(limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.db.Model(&model.StudentPoints{}).
		Select(leaderboardSelect).
		Order("student_points.total_points DESC, student_points.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *scoreRepository) TopByTotalPointsAmong(studentIDs []uuid.UUID, limit int) ([]LeaderboardRow, error) {
	if len(studentIDs) == 0 {
		return []LeaderboardRow{}, nil
	}
	var rows []LeaderboardRow
	err := r.db.Model(&model.StudentPoints{}).
		Select(leaderboardSelect).
		Where("student_points.student_id IN ?", studentIDs).
		Order("student_points.total_points DESC, student_points.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
