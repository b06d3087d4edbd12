package dto

import (
	"time"

	"github.com/sealgrade/sealgrade-api/internal/models"
)

// ActivityResponse is the serialized audit entry.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	Actor     string                 `json:"actor"`
	ActorRole string                 `json:"actor_role"`
	Action    string                 `json:"action"`
	EntityID  *uint                  `json:"entity_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityResponse converts a model into a DTO.
func NewActivityResponse(model models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:        model.ID,
		Actor:     model.Actor,
		ActorRole: model.ActorRole,
		Action:    model.Action,
		EntityID:  model.EntityID,
		Metadata:  model.Metadata,
		CreatedAt: model.CreatedAt,
	}
}

// NewActivityResponseSlice converts a slice of models into DTOs.
func NewActivityResponseSlice(entries []models.ActivityLog) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityResponse(entry))
	}

	return responses
}
