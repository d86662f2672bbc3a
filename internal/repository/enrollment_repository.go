package repository

import (
	"github.com/google/uuid"
	"github.com/studyflow/studyflow-backend/internal/model"
	"gorm.io/gorm"
)

// EnrollmentRepository reads the class directory maintained by the school
// management side. Only active enrollments count for class leaderboards.
type EnrollmentRepository interface {
	ActiveStudentIDs(classID uuid.UUID) ([]uuid.UUID, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) ActiveStudentIDs(classID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.Model(&model.ClassEnrollment{}).
		Where("class_id = ? AND status = ?", classID, model.EnrollmentStatusActive).
		Pluck("student_id", &ids).Error
	return ids, err
}
