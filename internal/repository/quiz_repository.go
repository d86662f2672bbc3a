package repository

import (
	"github.com/studyflow/studyflow-backend/internal/model"
	"gorm.io/gorm"
)

// QuizRepository is the read-only catalog accessor. Quizzes and their questions
// are authored elsewhere; this core only fetches them for grading and display.
type QuizRepository interface {
	FindByID(id uint) (*model.Quiz, error)
	// FindByIDWithQuestions loads a quiz with its active questions and their
	// options, both ordered by declared position. TotalPoints is normalized to
	// the sum of the loaded question points.
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	FindAllActiveWithQuestionCount() ([]struct {
		model.Quiz
		QuestionCount int
	}, error)
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Where("questions.status = ?", model.QuestionStatusActive).
				Order("questions.order_position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.order_position ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}

	// total_points is derived; normalize here so grading and attempt creation
	// never see a stale stored value.
	total := 0
	for _, q := range quiz.Questions {
		total += q.Points
	}
	quiz.TotalPoints = total

	return &quiz, nil
}

func (r *quizRepository) FindAllActiveWithQuestionCount() ([]struct {
	model.Quiz
	QuestionCount int
}, error) {
	var results []struct {
		model.Quiz
		QuestionCount int
	}
	err := r.db.Model(&model.Quiz{}).
		Select("quizzes.*, (SELECT COUNT(*) FROM questions WHERE questions.quiz_id = quizzes.id AND questions.status = 'active' AND questions.deleted_at IS NULL) as question_count").
		Where("quizzes.status = ?", model.QuizStatusActive).
		Order("quizzes.created_at DESC").
		Scan(&results).Error
	return results, err
}
