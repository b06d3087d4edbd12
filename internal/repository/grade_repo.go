package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// GradeRepository defines data operations for grades. Grades are write-once.
type GradeRepository interface {
	GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) (models.Grade, error)
	CountByAssignment(ctx context.Context, assignmentID uint) (int64, error)
	Create(ctx context.Context, grade *models.Grade) error
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) (models.Grade, error) {
	var grade models.Grade
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		First(&grade).Error
	if err != nil {
		return models.Grade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Grade{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error

	return count, err
}

func (r *gradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}
