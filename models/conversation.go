package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation represents a reading session for one divination service.
type Conversation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string    `gorm:"not null;index:idx_owner_service" json:"owner_id"`
	Title       string    `gorm:"not null" json:"title"`
	ServiceSlug string    `gorm:"not null;index:idx_owner_service" json:"service_slug"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
