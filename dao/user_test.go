package dao

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mystic-backend/models"
)

const (
	today     = "2025-06-15"
	yesterday = "2025-06-14"
)

func TestGetOrCreateUser(t *testing.T) {
	d := NewUserDAO(openTestDB(t))

	user, err := d.GetOrCreateUser("uid-1", "stargazer@example.com")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Equal(t, models.TierFree, user.Tier)
	assert.Equal(t, 0, user.DailyUsageCount)
	assert.Empty(t, user.LastUsageDate)

	// Second contact returns the existing profile unchanged.
	again, err := d.GetOrCreateUser("uid-1", "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "stargazer@example.com", again.Email)
}

func TestReserveUsageIncrementsUpToLimit(t *testing.T) {
	d := NewUserDAO(openTestDB(t))
	_, err := d.GetOrCreateUser("uid-1", "a@example.com")
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		ok, err := d.ReserveUsage("uid-1", 5, today)
		require.NoError(t, err)
		assert.True(t, ok, "reservation %d should be admitted", i)

		user, err := d.GetUser("uid-1")
		require.NoError(t, err)
		assert.Equal(t, i, user.DailyUsageCount)
		assert.Equal(t, today, user.LastUsageDate)
	}

	ok, err := d.ReserveUsage("uid-1", 5, today)
	require.NoError(t, err)
	assert.False(t, ok, "sixth reservation should be denied")
}

func TestReserveUsageResetsOnNewDay(t *testing.T) {
	db := openTestDB(t)
	d := NewUserDAO(db)
	_, err := d.GetOrCreateUser("uid-1", "a@example.com")
	require.NoError(t, err)

	// Exhausted yesterday.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "uid-1").
		Updates(map[string]interface{}{"daily_usage_count": 5, "last_usage_date": yesterday}).Error)

	ok, err := d.ReserveUsage("uid-1", 5, today)
	require.NoError(t, err)
	assert.True(t, ok)

	user, err := d.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.DailyUsageCount)
	assert.Equal(t, today, user.LastUsageDate)
}

func TestReserveUsageUnlimited(t *testing.T) {
	d := NewUserDAO(openTestDB(t))
	_, err := d.GetOrCreateUser("uid-1", "a@example.com")
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		ok, err := d.ReserveUsage("uid-1", -1, today)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestReserveUsageNoOverAdmissionUnderRace(t *testing.T) {
	db := openTestDB(t)
	d := NewUserDAO(db)
	_, err := d.GetOrCreateUser("uid-1", "a@example.com")
	require.NoError(t, err)

	// One slot left.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", "uid-1").
		Updates(map[string]interface{}{"daily_usage_count": 4, "last_usage_date": today}).Error)

	const n = 8
	var wg sync.WaitGroup
	admitted := make(chan bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := d.ReserveUsage("uid-1", 5, today)
			assert.NoError(t, err)
			admitted <- ok
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for ok := range admitted {
		if ok {
			count++
		}
	}
	assert.Equal(t, 1, count, "exactly one concurrent request may take the last slot")

	user, err := d.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 5, user.DailyUsageCount)
}

func TestRefundUsage(t *testing.T) {
	d := NewUserDAO(openTestDB(t))
	_, err := d.GetOrCreateUser("uid-1", "a@example.com")
	require.NoError(t, err)

	ok, err := d.ReserveUsage("uid-1", 5, today)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, d.RefundUsage("uid-1", today))
	user, err := d.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.DailyUsageCount)

	// A refund never drops the count below zero and never touches another
	// day's count.
	require.NoError(t, d.RefundUsage("uid-1", today))
	require.NoError(t, d.RefundUsage("uid-1", yesterday))
	user, err = d.GetUser("uid-1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.DailyUsageCount)
}
