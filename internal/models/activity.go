package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable workflow events (assignment created,
// submission accepted, grading started, grade recorded).
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Actor     string            `gorm:"size:128;not null" json:"actor"`
	ActorRole string            `gorm:"size:32;not null" json:"actor_role"`
	Action    string            `gorm:"size:64;not null" json:"action"`
	EntityID  *uint             `json:"entity_id"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}
