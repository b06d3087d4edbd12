package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// SubmissionRepository defines data operations for submissions. Submissions
// are write-once: there is no update or delete.
type SubmissionRepository interface {
	GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) (models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	CountByAssignment(ctx context.Context, assignmentID uint) (int64, error)
	Create(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) (models.Submission, error) {
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		First(&submission).Error
	if err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Count(&count).Error

	return count, err
}

// Create stores the submission and bumps the assignment's submission counter
// in one transaction, so the counter always equals the number of rows.
func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}

		return tx.Model(&models.Assignment{}).
			Where("id = ?", submission.AssignmentID).
			UpdateColumn("submission_count", gorm.Expr("submission_count + ?", 1)).Error
	})
}
