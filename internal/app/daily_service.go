package app

import (
	"context"
	"errors"
	"math"
	"time"

	"caltrack/internal/domain"
)

var (
	// ErrSportNotFound indicates an unknown sport name.
	ErrSportNotFound = errors.New("Sport not found")
	// ErrFoodNotFound indicates an unknown food name.
	ErrFoodNotFound = errors.New("Food not found")
	// ErrNoSummary indicates no daily summary exists for today yet.
	ErrNoSummary = errors.New("No calorie record for today")
)

// Goal adjustment applied on top of TDEE, in kcal.
const goalAdjustment = 500

// ActivityLogResult is the outcome of logging one sport event.
type ActivityLogResult struct {
	SportName      string  `json:"sport_name"`
	Minutes        float64 `json:"time"`
	CaloriesBurned float64 `json:"calories_burned"`
	TotalBurned    float64 `json:"total_burned"`
}

// MealLogResult is the outcome of logging one food event.
type MealLogResult struct {
	FoodName      string  `json:"food_name"`
	Quantity      float64 `json:"quantity"`
	Calories      float64 `json:"calories"`
	TotalConsumed float64 `json:"total_consumed"`
}

// TargetResult is the outcome of a calorie-target calculation.
type TargetResult struct {
	ActivityLevel  float64 `json:"activity_level"`
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"target_calories"`
	Goal           string  `json:"goal"`
}

// StatusResult is the read-only view of today's summary.
type StatusResult struct {
	ActivityLevel     float64 `json:"activity_level"`
	TargetCalories    float64 `json:"target_calories"`
	ConsumedCalories  float64 `json:"consumed_calories"`
	BurnedCalories    float64 `json:"burned_calories"`
	NetCalories       float64 `json:"net_calories"`
	RemainingCalories float64 `json:"remaining_calories"`
}

// WeeklyPoint is one day of the weekly view.
type WeeklyPoint struct {
	Date        string  `json:"date"`
	NetCalories float64 `json:"net_calories"`
}

// DailyService owns activity/meal logging and the calorie math around the
// per-day rollup.
type DailyService struct {
	users      domain.UserRepository
	sports     domain.SportRepository
	foods      domain.FoodRepository
	activities domain.ActivityRepository
	meals      domain.MealRepository
	daily      domain.DailyRepository
}

// NewDailyService creates a DailyService backed by the given repositories.
func NewDailyService(
	users domain.UserRepository,
	sports domain.SportRepository,
	foods domain.FoodRepository,
	activities domain.ActivityRepository,
	meals domain.MealRepository,
	daily domain.DailyRepository,
) *DailyService {
	return &DailyService{
		users:      users,
		sports:     sports,
		foods:      foods,
		activities: activities,
		meals:      meals,
		daily:      daily,
	}
}

// LogActivity records a sport event for today and recomputes the day's
// burned total. The insert, SUM recompute and summary upsert run as one
// transaction in the repository.
func (s *DailyService) LogActivity(ctx context.Context, userID int64, sportName string, minutes float64) (*ActivityLogResult, error) {
	if sportName == "" || minutes <= 0 {
		return nil, ValidationError("sport_name and time are required")
	}

	sport, err := s.sports.GetSportByName(ctx, sportName)
	if err != nil {
		return nil, err
	}
	if sport == nil {
		return nil, ErrSportNotFound
	}

	burned := round2(minutes * sport.BurnPerMinute)
	total, err := s.activities.LogActivityDetail(ctx, userID, localDay(time.Now()), sport.ID, minutes, burned)
	if err != nil {
		return nil, err
	}

	return &ActivityLogResult{
		SportName:      sport.Name,
		Minutes:        minutes,
		CaloriesBurned: burned,
		TotalBurned:    round2(total),
	}, nil
}

// LogMeal records a food event for today and recomputes the day's
// consumed total, mirroring LogActivity.
func (s *DailyService) LogMeal(ctx context.Context, userID int64, foodName string, quantity float64) (*MealLogResult, error) {
	if foodName == "" || quantity <= 0 {
		return nil, ValidationError("food_name and quantity are required")
	}

	food, err := s.foods.GetFoodByName(ctx, foodName)
	if err != nil {
		return nil, err
	}
	if food == nil {
		return nil, ErrFoodNotFound
	}

	calories := round2(quantity * food.Calories)
	total, err := s.meals.LogMealDetail(ctx, userID, localDay(time.Now()), food.ID, quantity, calories)
	if err != nil {
		return nil, err
	}

	return &MealLogResult{
		FoodName:      food.Name,
		Quantity:      quantity,
		Calories:      calories,
		TotalConsumed: round2(total),
	}, nil
}

// CalculateTarget computes BMR via Mifflin-St Jeor, scales it by the
// activity level and applies the goal adjustment, then upserts today's
// summary preserving consumed and burned totals.
func (s *DailyService) CalculateTarget(ctx context.Context, userID int64, activityLevel float64) (*TargetResult, error) {
	if activityLevel < 1.2 || activityLevel > 2.0 {
		return nil, ValidationError("activityLevel must be between 1.2 and 2.0")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	bmr := 10*user.Weight + 6.25*user.Height - 5*float64(user.Age) - 161
	if user.Gender == domain.GenderMale {
		bmr = 10*user.Weight + 6.25*user.Height - 5*float64(user.Age) + 5
	}

	tdee := bmr * activityLevel
	target := tdee
	switch user.Goal {
	case domain.GoalLose:
		target -= goalAdjustment
	case domain.GoalGain:
		target += goalAdjustment
	}

	target = round2(target)
	if err := s.daily.UpsertTarget(ctx, userID, localDay(time.Now()), activityLevel, target); err != nil {
		return nil, err
	}

	return &TargetResult{
		ActivityLevel:  activityLevel,
		BMR:            round2(bmr),
		TDEE:           round2(tdee),
		TargetCalories: target,
		Goal:           user.Goal,
	}, nil
}

// Status returns today's summary, including the derived net and remaining
// values.
func (s *DailyService) Status(ctx context.Context, userID int64) (*StatusResult, error) {
	summary, err := s.daily.GetForDay(ctx, userID, localDay(time.Now()))
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, ErrNoSummary
	}
	return &StatusResult{
		ActivityLevel:     summary.ActivityLevel,
		TargetCalories:    summary.TargetCalories,
		ConsumedCalories:  summary.ConsumedCalories,
		BurnedCalories:    summary.BurnedCalories,
		NetCalories:       round2(summary.NetCalories()),
		RemainingCalories: round2(summary.RemainingCalories()),
	}, nil
}

// Macros sums today's protein, fat and carbohydrate. A day without meals
// yields zeros, not an error.
func (s *DailyService) Macros(ctx context.Context, userID int64) (domain.MacroTotals, error) {
	return s.meals.MacroTotalsForDay(ctx, userID, localDay(time.Now()))
}

// Weekly returns net calories for the last 7 calendar days inclusive,
// ascending by date. Days without a summary row are omitted.
func (s *DailyService) Weekly(ctx context.Context, userID int64) ([]WeeklyPoint, error) {
	now := time.Now()
	from := localDay(now.AddDate(0, 0, -6))
	to := localDay(now)

	rows, err := s.daily.ListRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]WeeklyPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, WeeklyPoint{Date: row.Day, NetCalories: round2(row.NetCalories())})
	}
	return points, nil
}

func localDay(t time.Time) string {
	return t.In(time.Local).Format("2006-01-02")
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
