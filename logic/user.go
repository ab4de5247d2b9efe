package logic

import (
	"time"

	"mystic-backend/dao"
	"mystic-backend/models"
)

// UserLogic handles user profile business logic
type UserLogic struct {
	userDAO *dao.UserDAO
	now     func() time.Time
}

func NewUserLogic(userDAO *dao.UserDAO) *UserLogic {
	return &UserLogic{userDAO: userDAO, now: time.Now}
}

// Profile is a user record together with the quota view derived from it.
type Profile struct {
	models.User
	UsageToday     int `json:"usage_today"`
	RemainingToday int `json:"remaining_today"` // -1 means unlimited
}

// GetProfile resolves the caller's profile, creating it on first contact.
func (l *UserLogic) GetProfile(subject, email string) (*Profile, error) {
	user, err := l.userDAO.GetOrCreateUser(subject, email)
	if err != nil {
		return nil, err
	}

	usage := EffectiveUsage(user.DailyUsageCount, user.LastUsageDate, l.now())
	limit := LimitFor(user.Tier)
	remaining := Unlimited
	if limit != Unlimited {
		remaining = limit - usage
		if remaining < 0 {
			remaining = 0
		}
	}

	return &Profile{User: *user, UsageToday: usage, RemainingToday: remaining}, nil
}
