package dto

import (
	"time"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title        string `json:"title" validate:"required"`
	Requirements string `json:"requirements"`
	Deadline     string `json:"deadline" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Requirements    string    `json:"requirements"`
	Deadline        time.Time `json:"deadline"`
	Creator         string    `json:"creator"`
	SubmissionCount uint      `json:"submission_count"`
	GradingStarted  bool      `json:"grading_started"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:              model.ID,
		Title:           model.Title,
		Requirements:    model.Requirements,
		Deadline:        model.Deadline,
		Creator:         model.Creator,
		SubmissionCount: model.SubmissionCount,
		GradingStarted:  model.GradingStarted,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
