package dao

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mystic-backend/models"
)

// PromptDAO handles system prompt database operations
type PromptDAO struct {
	db *gorm.DB
}

func NewPromptDAO(db *gorm.DB) *PromptDAO {
	return &PromptDAO{db: db}
}

// GetPrompt retrieves the system prompt for a service slug
func (d *PromptDAO) GetPrompt(slug string) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := d.db.Where("slug = ?", slug).First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// ListPrompts retrieves all configured prompts
func (d *PromptDAO) ListPrompts() ([]models.Prompt, error) {
	var prompts []models.Prompt
	if err := d.db.Order("slug ASC").Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

// SavePrompt creates or replaces the prompt for a service slug
func (d *PromptDAO) SavePrompt(slug, content string) (*models.Prompt, error) {
	prompt := &models.Prompt{Slug: slug, Content: content}
	err := d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(prompt).Error
	if err != nil {
		return nil, err
	}
	return prompt, nil
}

// SeedPrompts inserts default prompts for services that have none yet.
func (d *PromptDAO) SeedPrompts(services []models.Service) error {
	for _, svc := range services {
		prompt := &models.Prompt{Slug: svc.Slug, Content: svc.DefaultPrompt}
		err := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(prompt).Error
		if err != nil {
			return err
		}
	}
	return nil
}
