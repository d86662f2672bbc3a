package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-backend/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	FindByID(id uint) (*model.QuizAttempt, error)
	FindByIDWithAnswers(id uint) (*model.QuizAttempt, error)
	// FindInProgress returns the open attempt for (student, quiz), or nil when
	// there is none.
	FindInProgress(studentID uuid.UUID, quizID uint) (*model.QuizAttempt, error)
	HasCompleted(studentID uuid.UUID, quizID uint) (bool, error)
	FindAllByStudent(studentID uuid.UUID, quizID *uint) ([]model.QuizAttempt, error)
	// CompleteInProgress finalizes the attempt with a guarded UPDATE keyed on the
	// in_progress status. It reports false when another submission already won
	// the race. Runs on tx when one is given.
	CompleteInProgress(tx *gorm.DB, attempt *model.QuizAttempt) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindByIDWithAnswers(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Preload("Quiz").
		Preload("Answers.Question").
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindInProgress(studentID uuid.UUID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Where("student_id = ? AND quiz_id = ? AND status = ?", studentID, quizID, model.AttemptStatusInProgress).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) HasCompleted(studentID uuid.UUID, quizID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ? AND status = ?", studentID, quizID, model.AttemptStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

func (r *attemptRepository) FindAllByStudent(studentID uuid.UUID, quizID *uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.db.Where("student_id = ?", studentID)
	if quizID != nil {
		query = query.Where("quiz_id = ?", *quizID)
	}
	err := query.Order("started_at DESC").Find(&attempts).Error
	return attempts, err
}

func (r *attemptRepository) CompleteInProgress(tx *gorm.DB, attempt *model.QuizAttempt) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.Model(&model.QuizAttempt{}).
		Where("id = ? AND status = ?", attempt.ID, model.AttemptStatusInProgress).
		Updates(map[string]interface{}{
			"status":             attempt.Status,
			"score":              attempt.Score,
			"max_score":          attempt.MaxScore,
			"percentage":         attempt.Percentage,
			"passed":             attempt.Passed,
			"time_spent_seconds": attempt.TimeSpentSeconds,
			"completed_at":       attempt.CompletedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
