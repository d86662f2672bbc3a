package repository

import (
	"github.com/studyflow/studyflow-backend/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	// CreateBatch inserts the graded answers of one attempt. Answers are
	// write-once; there is no update path. Runs on tx when one is given.
	CreateBatch(tx *gorm.DB, answers []model.AttemptAnswer) error
	FindByAttemptID(attemptID uint) ([]model.AttemptAnswer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) CreateBatch(tx *gorm.DB, answers []model.AttemptAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(&answers).Error
}

func (r *answerRepository) FindByAttemptID(attemptID uint) ([]model.AttemptAnswer, error) {
	var answers []model.AttemptAnswer
	err := r.db.
		Preload("Question").
		Where("attempt_id = ?", attemptID).
		Find(&answers).Error
	return answers, err
}
