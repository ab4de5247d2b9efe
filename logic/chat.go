package logic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"mystic-backend/dao"
	"mystic-backend/pkg"
)

// FallbackPrompt is used when a service has no configured system prompt.
const FallbackPrompt = "You are a helpful assistant."

// Generator streams completion tokens for a prompt and message history.
type Generator interface {
	StreamCompletion(ctx context.Context, systemPrompt string, history []pkg.ChatMessage, onDelta func(string) error) error
}

// ChatLogic orchestrates one chat turn: profile resolution, usage policy,
// prompt lookup, streaming generation, usage bookkeeping.
type ChatLogic struct {
	userDAO   *dao.UserDAO
	promptDAO *dao.PromptDAO
	generator Generator
	logger    *slog.Logger
	now       func() time.Time
}

func NewChatLogic(userDAO *dao.UserDAO, promptDAO *dao.PromptDAO, generator Generator, logger *slog.Logger) *ChatLogic {
	return &ChatLogic{
		userDAO:   userDAO,
		promptDAO: promptDAO,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleTurn runs a chat turn for a verified caller and relays completion
// tokens through onDelta as they arrive.
//
// Usage is charged by an atomic reserve at admission time: the slot is
// claimed before the generation call, so two racing requests can never
// both take the last slot. If the provider fails (or the caller
// disconnects mid-stream), the reserved slot is refunded, leaving no net
// charge for a turn the user never received.
func (l *ChatLogic) HandleTurn(ctx context.Context, subject, email, serviceSlug string, history []pkg.ChatMessage, onDelta func(string) error) error {
	user, err := l.userDAO.GetOrCreateUser(subject, email)
	if err != nil {
		return fmt.Errorf("load user profile: %w", err)
	}

	today := DayOf(l.now())
	limit := LimitFor(user.Tier)
	ok, err := l.userDAO.ReserveUsage(user.ID, limit, today)
	if err != nil {
		return fmt.Errorf("reserve usage: %w", err)
	}
	if !ok {
		return &QuotaError{Limit: limit}
	}

	systemPrompt := FallbackPrompt
	prompt, err := l.promptDAO.GetPrompt(serviceSlug)
	switch {
	case err == nil:
		systemPrompt = prompt.Content
	case errors.Is(err, gorm.ErrRecordNotFound):
		l.logger.Warn("no prompt configured for service, using fallback", "service", serviceSlug)
	default:
		l.refund(user.ID, today)
		return fmt.Errorf("load prompt: %w", err)
	}

	if err := l.generator.StreamCompletion(ctx, systemPrompt, history, onDelta); err != nil {
		l.refund(user.ID, today)
		return &UpstreamError{Err: err}
	}

	return nil
}

func (l *ChatLogic) refund(userID, today string) {
	if err := l.userDAO.RefundUsage(userID, today); err != nil {
		l.logger.Error("failed to refund usage slot", "user", userID, "error", err)
	}
}
