package models

import "time"

// Prompt holds the system instruction for one divination service,
// keyed by the service slug. Read on every chat request, mutated only
// through the prompt management API.
type Prompt struct {
	Slug      string    `gorm:"primaryKey" json:"slug"`
	Content   string    `gorm:"not null" json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
