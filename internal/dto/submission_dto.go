package dto

import (
	"time"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// SubmissionCreateRequest carries an encrypted answer and its validity proof,
// both base64-encoded. The service never sees plaintext.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required"`
	Ciphertext   string `json:"ciphertext" validate:"required,base64"`
	Proof        string `json:"proof" validate:"required,base64"`
}

// SubmissionResponse exposes the submission record. Only the opaque handle is
// returned, never ciphertext or plaintext.
type SubmissionResponse struct {
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	AnswerHandle string    `json:"answer_handle"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmissionStatusResponse answers the "has submitted" question.
type SubmissionStatusResponse struct {
	AssignmentID uint   `json:"assignment_id"`
	StudentID    string `json:"student_id"`
	Submitted    bool   `json:"submitted"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		AnswerHandle: model.AnswerHandle,
		SubmittedAt:  model.SubmittedAt,
	}
}
