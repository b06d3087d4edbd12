package dto

import (
	"time"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// GradeCreateRequest carries an encrypted score and its validity proof for a
// single student's submission.
type GradeCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
	Ciphertext   string `json:"ciphertext" validate:"required,base64"`
	Proof        string `json:"proof" validate:"required,base64"`
}

// GradeResponse exposes the grade record, handle only.
type GradeResponse struct {
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	ScoreHandle  string    `json:"score_handle"`
	GradedAt     time.Time `json:"graded_at"`
}

// GradeStatusResponse answers the "has grade" question.
type GradeStatusResponse struct {
	AssignmentID uint   `json:"assignment_id"`
	StudentID    string `json:"student_id"`
	Graded       bool   `json:"graded"`
}

// NewGradeResponse converts a model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	return GradeResponse{
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		ScoreHandle:  model.ScoreHandle,
		GradedAt:     model.GradedAt,
	}
}
