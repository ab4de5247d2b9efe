package models

import "time"

// User tiers. The usage policy treats anything it does not recognize as free.
const (
	TierUnregistered = "unregistered"
	TierFree         = "free"
	TierSubscribed   = "subscribed"
)

// User represents a user profile with daily usage bookkeeping.
// ID is the subject id issued by the identity provider.
type User struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Email           string    `json:"email"`
	Tier            string    `gorm:"not null;default:free" json:"tier"`
	DailyUsageCount int       `gorm:"not null;default:0" json:"daily_usage_count"`
	LastUsageDate   string    `gorm:"not null;default:''" json:"last_usage_date"` // YYYY-MM-DD, empty if never used
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
