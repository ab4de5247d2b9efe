package logic

import (
	"fmt"

	"mystic-backend/dao"
	"mystic-backend/models"
)

// ErrUnknownService rejects operations on slugs outside the catalogue.
var ErrUnknownService = fmt.Errorf("unknown divination service")

// PromptLogic handles system prompt management
type PromptLogic struct {
	promptDAO *dao.PromptDAO
}

func NewPromptLogic(promptDAO *dao.PromptDAO) *PromptLogic {
	return &PromptLogic{promptDAO: promptDAO}
}

// ListPrompts returns all configured prompts
func (l *PromptLogic) ListPrompts() ([]models.Prompt, error) {
	return l.promptDAO.ListPrompts()
}

// GetPrompt returns the prompt for one service
func (l *PromptLogic) GetPrompt(slug string) (*models.Prompt, error) {
	if !models.ValidServiceSlug(slug) {
		return nil, ErrUnknownService
	}
	return l.promptDAO.GetPrompt(slug)
}

// SavePrompt replaces the prompt for one service
func (l *PromptLogic) SavePrompt(slug, content string) (*models.Prompt, error) {
	if !models.ValidServiceSlug(slug) {
		return nil, ErrUnknownService
	}
	return l.promptDAO.SavePrompt(slug, content)
}
