package logic

import (
	"fmt"
	"time"

	"mystic-backend/models"
)

// Unlimited marks tiers with no daily cap.
const Unlimited = -1

const dayLayout = "2006-01-02"

// DayOf formats a time as the calendar date used for daily usage bookkeeping.
func DayOf(t time.Time) string {
	return t.Format(dayLayout)
}

// LimitFor returns the daily request limit for a tier. Tiers the policy
// does not recognize fail closed to the free limit, never to unlimited.
func LimitFor(tier string) int {
	switch tier {
	case models.TierUnregistered:
		return 1
	case models.TierSubscribed:
		return Unlimited
	case models.TierFree:
		return 5
	default:
		return 5
	}
}

// EffectiveUsage interprets a stored count relative to its date stamp: a
// count from any day before today counts as zero.
func EffectiveUsage(count int, lastDate string, now time.Time) int {
	if lastDate != DayOf(now) {
		return 0
	}
	return count
}

// Decision is the outcome of a usage check.
type Decision struct {
	Allowed  bool
	NewCount int
	NewDate  string
}

// Evaluate applies the daily-reset rule and the tier limit to a stored
// usage record. When allowed, NewCount and NewDate are the values the
// store must be updated to, as one atomic write.
func Evaluate(tier string, count int, lastDate string, now time.Time) Decision {
	today := DayOf(now)
	effective := EffectiveUsage(count, lastDate, now)
	limit := LimitFor(tier)
	if limit != Unlimited && effective >= limit {
		return Decision{Allowed: false, NewCount: effective, NewDate: today}
	}
	return Decision{Allowed: true, NewCount: effective + 1, NewDate: today}
}

// QuotaError reports a denied chat turn, naming the limit that was hit.
type QuotaError struct {
	Limit int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily usage limit of %d requests reached for your tier", e.Limit)
}

// UpstreamError wraps a failure of the completion provider.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion provider: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
