package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"caltrack/internal/domain"
)

// GetSportByName retrieves a sport by name.
func (d *DB) GetSportByName(ctx context.Context, name string) (*domain.Sport, error) {
	var s domain.Sport
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, burn_per_minute FROM sports WHERE name = ?", name,
	).Scan(&s.ID, &s.Name, &s.BurnPerMinute)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LogActivityDetail runs the full log sequence as one transaction so two
// concurrent logs for the same user and day cannot overwrite each other's
// recomputed total.
func (d *DB) LogActivityDetail(ctx context.Context, userID int64, day string, sportID int64, minutes, caloriesBurned float64) (float64, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	activityID, err := findOrCreateHeader(ctx, tx, "activities", userID, day)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO activity_details (activity_id, sport_id, minutes, calories_burned, created_at) VALUES (?, ?, ?, ?, ?)",
		activityID, sportID, minutes, caloriesBurned, time.Now(),
	); err != nil {
		return 0, err
	}

	var total float64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(calories_burned), 0) FROM activity_details WHERE activity_id = ?",
		activityID,
	).Scan(&total); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO daily_summaries (user_id, day, burned_calories) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE burned_calories = VALUES(burned_calories)`,
		userID, day, total,
	); err != nil {
		return 0, err
	}

	return total, tx.Commit()
}

// findOrCreateHeader inserts or locks the per-user per-day header row in
// the given table ("activities" or "meals") and returns its id. The upsert
// form means two concurrent first-logs of a day both land on the same row
// instead of racing on the unique key; LAST_INSERT_ID(id) makes the
// existing id readable on the duplicate path.
func findOrCreateHeader(ctx context.Context, tx *sql.Tx, table string, userID int64, day string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO "+table+" (user_id, day) VALUES (?, ?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)",
		userID, day)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
