package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mystic-backend/logic"
	"mystic-backend/models"
)

// LoginNotice is the assistant reply for anonymous turns. Anonymous
// sessions never reach the generation capability.
const LoginNotice = "Please log in to use the AI chat feature. Your conversation history is not being saved."

// Local is the ephemeral backend for anonymous sessions, keyed by an
// explicit session id so concurrent anonymous sessions stay independent.
// Each session holds at most one conversation; it is dropped once the
// calendar date advances past the day it was created, and user messages
// are capped by the unregistered tier's daily limit.
type Local struct {
	mu       sync.Mutex
	sessions map[string]*localSession
	now      func() time.Time
}

type localSession struct {
	convo      *models.Conversation
	messages   []models.Message
	nextID     uint64
	usageCount int
	usageDate  string
}

func NewLocal() *Local {
	return &Local{
		sessions: make(map[string]*localSession),
		now:      time.Now,
	}
}

func (s *Local) ListConversations(_ context.Context, owner, serviceSlug string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(owner)
	if sess.convo == nil || sess.convo.ServiceSlug != serviceSlug {
		return []models.Conversation{}, nil
	}
	return []models.Conversation{*sess.convo}, nil
}

func (s *Local) CreateConversation(_ context.Context, owner, serviceSlug string) (*models.Conversation, error) {
	if !models.ValidServiceSlug(serviceSlug) {
		return nil, logic.ErrUnknownService
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(owner)
	if logic.EffectiveUsage(sess.usageCount, sess.usageDate, s.now()) >= logic.LimitFor(models.TierUnregistered) {
		return nil, &logic.QuotaError{Limit: logic.LimitFor(models.TierUnregistered)}
	}

	now := s.now()
	convo := &models.Conversation{
		ID:          uuid.New(),
		OwnerID:     owner,
		Title:       DefaultTitle,
		ServiceSlug: serviceSlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// A session retains exactly one conversation; starting a new one
	// replaces it.
	sess.convo = convo
	sess.messages = nil
	return convo, nil
}

func (s *Local) LoadMessages(_ context.Context, owner, conversationID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(owner)
	if sess.convo == nil || sess.convo.ID.String() != conversationID {
		return nil, ErrNotFound
	}
	out := make([]models.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

func (s *Local) AppendMessage(_ context.Context, owner, conversationID, role, content string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(owner)
	if sess.convo == nil || sess.convo.ID.String() != conversationID {
		return nil, ErrNotFound
	}

	now := s.now()
	if role == models.RoleUser {
		decision := logic.Evaluate(models.TierUnregistered, sess.usageCount, sess.usageDate, now)
		if !decision.Allowed {
			return nil, &logic.QuotaError{Limit: logic.LimitFor(models.TierUnregistered)}
		}
		sess.usageCount = decision.NewCount
		sess.usageDate = decision.NewDate
	}

	msg := s.append(sess, role, content, now)
	if role == models.RoleUser {
		// Anonymous turns get the canned login notice instead of a
		// generated completion.
		s.append(sess, models.RoleAssistant, LoginNotice, now)
	}
	return msg, nil
}

func (s *Local) append(sess *localSession, role, content string, now time.Time) *models.Message {
	sess.nextID++
	msg := models.Message{
		ID:             sess.nextID,
		ConversationID: sess.convo.ID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}
	sess.messages = append(sess.messages, msg)
	sess.convo.UpdatedAt = now
	return &msg
}

// session returns the state for a session id, dropping a conversation
// whose creation date has passed. Callers must hold the lock.
func (s *Local) session(owner string) *localSession {
	sess, ok := s.sessions[owner]
	if !ok {
		sess = &localSession{}
		s.sessions[owner] = sess
	}
	if sess.convo != nil && logic.DayOf(sess.convo.CreatedAt) != logic.DayOf(s.now()) {
		sess.convo = nil
		sess.messages = nil
	}
	return sess
}
