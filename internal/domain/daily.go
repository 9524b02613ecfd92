package domain

import "context"

// DailySummary is the per-user per-day rollup row. BurnedCalories always
// equals the live SUM of the day's activity details; it is never written
// independently.
type DailySummary struct {
	UserID           int64   `json:"userId"`
	Day              string  `json:"day"`
	ActivityLevel    float64 `json:"activityLevel"`
	TargetCalories   float64 `json:"targetCalories"`
	ConsumedCalories float64 `json:"consumedCalories"`
	BurnedCalories   float64 `json:"burnedCalories"`
}

// NetCalories is consumed minus burned.
func (s DailySummary) NetCalories() float64 {
	return s.ConsumedCalories - s.BurnedCalories
}

// RemainingCalories is the target minus net.
func (s DailySummary) RemainingCalories() float64 {
	return s.TargetCalories - s.NetCalories()
}

// DailyRepository is the port for daily summary persistence.
type DailyRepository interface {
	// UpsertTarget creates or updates the day's summary with the given
	// activity level and target, preserving consumed and burned totals.
	UpsertTarget(ctx context.Context, userID int64, day string, activityLevel, targetCalories float64) error

	GetForDay(ctx context.Context, userID int64, day string) (*DailySummary, error)

	// ListRange returns summaries with fromDay <= day <= toDay, ascending.
	ListRange(ctx context.Context, userID int64, fromDay, toDay string) ([]DailySummary, error)
}
