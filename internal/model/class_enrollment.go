package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrollmentStatusActive   = "active"
	EnrollmentStatusInactive = "inactive"
)

// ClassEnrollment mirrors the class directory owned by the school management
// side of the platform. This core only reads it to scope leaderboards.
type ClassEnrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ClassID   uuid.UUID      `json:"class_id" gorm:"type:uuid;not null;uniqueIndex:uniq_enrollments_class_student"`
	StudentID uuid.UUID      `json:"student_id" gorm:"type:uuid;not null;uniqueIndex:uniq_enrollments_class_student"`
	Status    string         `json:"status" gorm:"not null;default:'active';index"` // "active", "inactive"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
