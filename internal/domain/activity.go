package domain

import (
	"context"
	"time"
)

// Sport is a reference row with a fixed calorie burn rate.
type Sport struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	BurnPerMinute float64 `json:"burnPerMinute"`
}

// ActivityDetail is one logged sport event within a user's day.
type ActivityDetail struct {
	ID             int64     `json:"id"`
	ActivityID     int64     `json:"activityId"`
	SportID        int64     `json:"sportId"`
	Minutes        float64   `json:"minutes"`
	CaloriesBurned float64   `json:"caloriesBurned"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SportRepository is the port for sport lookups.
type SportRepository interface {
	GetSportByName(ctx context.Context, name string) (*Sport, error)
}

// ActivityRepository is the port for activity persistence.
type ActivityRepository interface {
	// LogActivityDetail runs as a single transaction: find or create the
	// user's activity header for day, insert the detail, recompute the
	// day's burned total as SUM over all details, and write that total to
	// the daily summary. Returns the new total.
	LogActivityDetail(ctx context.Context, userID int64, day string, sportID int64, minutes, caloriesBurned float64) (float64, error)
}
