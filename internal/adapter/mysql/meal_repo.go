package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"caltrack/internal/domain"
)

// GetFoodByName retrieves a food by name.
func (d *DB) GetFoodByName(ctx context.Context, name string) (*domain.Food, error) {
	var f domain.Food
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, calories, protein, fat, carbohydrate FROM foods WHERE name = ?", name,
	).Scan(&f.ID, &f.Name, &f.Calories, &f.Protein, &f.Fat, &f.Carbohydrate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// LogMealDetail mirrors LogActivityDetail for consumed calories: one
// transaction covering header find-or-create, detail insert, SUM
// recompute and summary upsert.
func (d *DB) LogMealDetail(ctx context.Context, userID int64, day string, foodID int64, quantity, calories float64) (float64, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	mealID, err := findOrCreateHeader(ctx, tx, "meals", userID, day)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO meal_details (meal_id, food_id, quantity, calories, created_at) VALUES (?, ?, ?, ?, ?)",
		mealID, foodID, quantity, calories, time.Now(),
	); err != nil {
		return 0, err
	}

	var total float64
	if err := tx.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(calories), 0) FROM meal_details WHERE meal_id = ?", mealID,
	).Scan(&total); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO daily_summaries (user_id, day, consumed_calories) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE consumed_calories = VALUES(consumed_calories)`,
		userID, day, total,
	); err != nil {
		return 0, err
	}

	return total, tx.Commit()
}

// MacroTotalsForDay sums macros across the day's meal details joined to
// foods, scaled by quantity. Zero totals when no meal exists.
func (d *DB) MacroTotalsForDay(ctx context.Context, userID int64, day string) (domain.MacroTotals, error) {
	var t domain.MacroTotals
	err := d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(f.protein * md.quantity), 0),
		        COALESCE(SUM(f.fat * md.quantity), 0),
		        COALESCE(SUM(f.carbohydrate * md.quantity), 0)
		 FROM meal_details md
		 JOIN meals m ON md.meal_id = m.id
		 JOIN foods f ON md.food_id = f.id
		 WHERE m.user_id = ? AND m.day = ?`,
		userID, day,
	).Scan(&t.Protein, &t.Fat, &t.Carbohydrate)
	return t, err
}
