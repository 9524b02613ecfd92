package mysql

import (
	"context"
	"database/sql"
	"errors"

	"caltrack/internal/domain"
)

// UpsertTarget creates or updates the day's summary with activity level
// and target, leaving consumed and burned totals untouched.
func (d *DB) UpsertTarget(ctx context.Context, userID int64, day string, activityLevel, targetCalories float64) error {
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO daily_summaries (user_id, day, activity_level, target_calories) VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE activity_level = VALUES(activity_level), target_calories = VALUES(target_calories)`,
		userID, day, activityLevel, targetCalories,
	)
	return err
}

// GetForDay returns the summary for one user and day, or nil.
func (d *DB) GetForDay(ctx context.Context, userID int64, day string) (*domain.DailySummary, error) {
	var s domain.DailySummary
	err := d.sql.QueryRowContext(ctx,
		`SELECT user_id, day, activity_level, target_calories, consumed_calories, burned_calories
		 FROM daily_summaries WHERE user_id = ? AND day = ?`,
		userID, day,
	).Scan(&s.UserID, &s.Day, &s.ActivityLevel, &s.TargetCalories, &s.ConsumedCalories, &s.BurnedCalories)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListRange returns summaries within [fromDay, toDay], ascending by day.
func (d *DB) ListRange(ctx context.Context, userID int64, fromDay, toDay string) ([]domain.DailySummary, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT user_id, day, activity_level, target_calories, consumed_calories, burned_calories
		 FROM daily_summaries WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day ASC`,
		userID, fromDay, toDay,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.DailySummary
	for rows.Next() {
		var s domain.DailySummary
		if err := rows.Scan(&s.UserID, &s.Day, &s.ActivityLevel, &s.TargetCalories, &s.ConsumedCalories, &s.BurnedCalories); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
