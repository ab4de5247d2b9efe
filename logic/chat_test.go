package logic

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mystic-backend/dao"
	"mystic-backend/models"
	"mystic-backend/pkg"
)

type fakeGenerator struct {
	chunks     []string
	err        error
	calls      int
	gotSystem  string
	gotHistory []pkg.ChatMessage
}

func (f *fakeGenerator) StreamCompletion(_ context.Context, systemPrompt string, history []pkg.ChatMessage, onDelta func(string) error) error {
	f.calls++
	f.gotSystem = systemPrompt
	f.gotHistory = history
	for _, c := range f.chunks {
		if err := onDelta(c); err != nil {
			return err
		}
	}
	return f.err
}

type chatFixture struct {
	logic     *ChatLogic
	db        *gorm.DB
	userDAO   *dao.UserDAO
	promptDAO *dao.PromptDAO
}

func newChatFixture(t *testing.T, gen *fakeGenerator) *chatFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Prompt{}))

	userDAO := dao.NewUserDAO(db)
	promptDAO := dao.NewPromptDAO(db)
	l := NewChatLogic(userDAO, promptDAO, gen, slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
	l.now = func() time.Time { return noon }
	return &chatFixture{logic: l, db: db, userDAO: userDAO, promptDAO: promptDAO}
}

func TestHandleTurnFirstContactCreatesProfileAndCharges(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"The ", "stars ", "align."}}
	fx := newChatFixture(t, gen)
	_, err := fx.promptDAO.SavePrompt("tarot", "You are a tarot reader.")
	require.NoError(t, err)

	var got strings.Builder
	history := []pkg.ChatMessage{{Role: "user", Content: "Tell me my fortune."}}
	err = fx.logic.HandleTurn(context.Background(), "uid-1", "seer@example.com", "tarot", history, func(delta string) error {
		got.WriteString(delta)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "The stars align.", got.String())
	assert.Equal(t, "You are a tarot reader.", gen.gotSystem)
	assert.Equal(t, history, gen.gotHistory)

	user, err := fx.userDAO.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierFree, user.Tier)
	assert.Equal(t, 1, user.DailyUsageCount)
	assert.Equal(t, DayOf(noon), user.LastUsageDate)
}

func TestHandleTurnQuotaDenialMakesNoGenerationCall(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"never"}}
	fx := newChatFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.User{
		ID: "uid-1", Email: "seer@example.com", Tier: models.TierFree,
		DailyUsageCount: 5, LastUsageDate: DayOf(noon),
	}).Error)

	err := fx.logic.HandleTurn(context.Background(), "uid-1", "seer@example.com", "tarot", nil, func(string) error {
		t.Fatal("no tokens expected on a denied turn")
		return nil
	})

	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 5, quotaErr.Limit)
	assert.Equal(t, 0, gen.calls)

	user, err := fx.userDAO.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 5, user.DailyUsageCount, "denied turn must not mutate usage")
}

func TestHandleTurnSubscribedNeverDenied(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"ok"}}
	fx := newChatFixture(t, gen)

	require.NoError(t, fx.db.Create(&models.User{
		ID: "uid-1", Email: "seer@example.com", Tier: models.TierSubscribed,
		DailyUsageCount: 1000, LastUsageDate: DayOf(noon),
	}).Error)

	err := fx.logic.HandleTurn(context.Background(), "uid-1", "seer@example.com", "tarot", nil, func(string) error { return nil })
	require.NoError(t, err)

	user, err := fx.userDAO.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 1001, user.DailyUsageCount)
}

func TestHandleTurnUpstreamFailureRefundsUsage(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"partial"}, err: errors.New("provider unavailable")}
	fx := newChatFixture(t, gen)

	err := fx.logic.HandleTurn(context.Background(), "uid-1", "seer@example.com", "tarot", nil, func(string) error { return nil })

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)

	user, err := fx.userDAO.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.DailyUsageCount, "failed generation must leave no net charge")
}

func TestHandleTurnFallbackPrompt(t *testing.T) {
	gen := &fakeGenerator{chunks: []string{"ok"}}
	fx := newChatFixture(t, gen)

	err := fx.logic.HandleTurn(context.Background(), "uid-1", "seer@example.com", "daily-horoscope", nil, func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, FallbackPrompt, gen.gotSystem)
}
