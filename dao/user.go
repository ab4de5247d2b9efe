package dao

import (
	"errors"

	"gorm.io/gorm"

	"mystic-backend/models"
)

// UserDAO handles user profile database operations
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// GetUser retrieves a user by subject id
func (d *UserDAO) GetUser(id string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetOrCreateUser retrieves a user, creating the profile on first contact
// with tier free and zero usage.
func (d *UserDAO) GetOrCreateUser(id, email string) (*models.User, error) {
	user, err := d.GetUser(id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &models.User{ID: id, Email: email, Tier: models.TierFree}
	if err := d.db.Create(user).Error; err != nil {
		// Lost a create race with a concurrent first request.
		if existing, getErr := d.GetUser(id); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}

// ReserveUsage atomically claims one usage slot for today. The count reset,
// the increment and the date stamp happen in a single guarded UPDATE so
// concurrent requests can never both take the last slot. A negative limit
// means unlimited. Returns false when the daily limit is already reached.
func (d *UserDAO) ReserveUsage(id string, limit int, today string) (bool, error) {
	q := d.db.Model(&models.User{}).Where("id = ?", id)
	if limit >= 0 {
		// Admit only if the stored count belongs to a previous day or is
		// still below the limit.
		q = q.Where("last_usage_date <> ? OR daily_usage_count < ?", today, limit)
	}
	res := q.Updates(map[string]interface{}{
		"daily_usage_count": gorm.Expr("CASE WHEN last_usage_date = ? THEN daily_usage_count + 1 ELSE 1 END", today),
		"last_usage_date":   today,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RefundUsage returns a previously reserved slot after a failed generation.
// Guarded on the same day so a refund cannot leak into the next day's count.
func (d *UserDAO) RefundUsage(id string, today string) error {
	return d.db.Model(&models.User{}).
		Where("id = ? AND last_usage_date = ? AND daily_usage_count > 0", id, today).
		Update("daily_usage_count", gorm.Expr("daily_usage_count - 1")).Error
}
