package domain

import (
	"context"
	"time"
)

// Food is a reference row with fixed nutrition values per unit.
type Food struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

// MealDetail is one logged food event within a user's day.
type MealDetail struct {
	ID        int64     `json:"id"`
	MealID    int64     `json:"mealId"`
	FoodID    int64     `json:"foodId"`
	Quantity  float64   `json:"quantity"`
	Calories  float64   `json:"calories"`
	CreatedAt time.Time `json:"createdAt"`
}

// MacroTotals is the per-day sum of macros over logged meals.
type MacroTotals struct {
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

// FoodRepository is the port for food lookups.
type FoodRepository interface {
	GetFoodByName(ctx context.Context, name string) (*Food, error)
}

// MealRepository is the port for meal persistence.
type MealRepository interface {
	// LogMealDetail mirrors ActivityRepository.LogActivityDetail for
	// consumed calories: one transaction covering header find-or-create,
	// detail insert, SUM recompute and summary upsert. Returns the new
	// consumed total.
	LogMealDetail(ctx context.Context, userID int64, day string, foodID int64, quantity, calories float64) (float64, error)

	// MacroTotalsForDay sums protein/fat/carbohydrate across the day's
	// meal details joined to foods. Zero totals when nothing was logged.
	MacroTotalsForDay(ctx context.Context, userID int64, day string) (MacroTotals, error)
}
