package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mystic-backend/dao"
	"mystic-backend/logic"
	"mystic-backend/models"
)

// Remote is the durable backend for authenticated users, over the
// conversation and message DAOs. The owner key is the subject id.
type Remote struct {
	convoDAO   *dao.ConversationDAO
	messageDAO *dao.MessageDAO
}

func NewRemote(convoDAO *dao.ConversationDAO, messageDAO *dao.MessageDAO) *Remote {
	return &Remote{convoDAO: convoDAO, messageDAO: messageDAO}
}

func (s *Remote) ListConversations(_ context.Context, owner, serviceSlug string) ([]models.Conversation, error) {
	return s.convoDAO.ListConversations(owner, serviceSlug)
}

func (s *Remote) CreateConversation(_ context.Context, owner, serviceSlug string) (*models.Conversation, error) {
	if !models.ValidServiceSlug(serviceSlug) {
		return nil, logic.ErrUnknownService
	}
	return s.convoDAO.CreateConversation(owner, serviceSlug, DefaultTitle)
}

func (s *Remote) LoadMessages(_ context.Context, owner, conversationID string) ([]models.Message, error) {
	convo, err := s.ownedConversation(owner, conversationID)
	if err != nil {
		return nil, err
	}
	return s.messageDAO.GetMessagesByConversationID(convo.ID)
}

func (s *Remote) AppendMessage(_ context.Context, owner, conversationID, role, content string) (*models.Message, error) {
	convo, err := s.ownedConversation(owner, conversationID)
	if err != nil {
		return nil, err
	}
	return s.messageDAO.AppendMessage(convo.ID, role, content)
}

// ownedConversation resolves a conversation id and checks ownership.
// Foreign conversations are indistinguishable from missing ones.
func (s *Remote) ownedConversation(owner, conversationID string) (*models.Conversation, error) {
	id, err := uuid.Parse(conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id", ErrNotFound)
	}
	convo, err := s.convoDAO.GetConversationByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if convo.OwnerID != owner {
		return nil, ErrNotFound
	}
	return convo, nil
}
