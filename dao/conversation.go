package dao

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"mystic-backend/models"
)

// ConversationDAO handles conversation database operations
type ConversationDAO struct {
	db *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{db: db}
}

// CreateConversation creates a new conversation for an owner
func (d *ConversationDAO) CreateConversation(ownerID, serviceSlug, title string) (*models.Conversation, error) {
	convo := &models.Conversation{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		ServiceSlug: serviceSlug,
		Title:       title,
	}
	if err := d.db.Create(convo).Error; err != nil {
		return nil, err
	}
	return convo, nil
}

// GetConversationByID retrieves a single conversation
func (d *ConversationDAO) GetConversationByID(id uuid.UUID) (*models.Conversation, error) {
	var convo models.Conversation
	if err := d.db.Where("id = ?", id).First(&convo).Error; err != nil {
		return nil, err
	}
	return &convo, nil
}

// ListConversations retrieves an owner's conversations for one service,
// most recently updated first.
func (d *ConversationDAO) ListConversations(ownerID, serviceSlug string) ([]models.Conversation, error) {
	var convos []models.Conversation
	if err := d.db.
		Where("owner_id = ? AND service_slug = ?", ownerID, serviceSlug).
		Order("updated_at DESC").
		Find(&convos).Error; err != nil {
		return nil, err
	}
	return convos, nil
}
