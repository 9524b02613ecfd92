// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"caltrack/internal/domain"
)

// DB implements every domain repository in memory, guarded by one mutex.
type DB struct {
	mu sync.Mutex

	users  map[int64]*domain.User
	admins map[int64]*domain.Admin
	sports []domain.Sport
	foods  []domain.Food

	// header id -> owning (userID, day); details keyed by header id
	activities      map[int64]headerKey
	activityDetails map[int64][]domain.ActivityDetail
	meals           map[int64]headerKey
	mealDetails     map[int64][]domain.MealDetail

	summaries map[summaryKey]*domain.DailySummary

	userIDCounter     int64
	adminIDCounter    int64
	activityIDCounter int64
	mealIDCounter     int64
	detailIDCounter   int64
}

type headerKey struct {
	userID int64
	day    string
}

type summaryKey = headerKey

// New creates an in-memory database seeded with the same reference sports
// and foods as the MySQL migrations.
func New() *DB {
	return &DB{
		users:           make(map[int64]*domain.User),
		admins:          make(map[int64]*domain.Admin),
		activities:      make(map[int64]headerKey),
		activityDetails: make(map[int64][]domain.ActivityDetail),
		meals:           make(map[int64]headerKey),
		mealDetails:     make(map[int64][]domain.MealDetail),
		summaries:       make(map[summaryKey]*domain.DailySummary),
		sports: []domain.Sport{
			{ID: 1, Name: "running", BurnPerMinute: 10},
			{ID: 2, Name: "cycling", BurnPerMinute: 8},
			{ID: 3, Name: "swimming", BurnPerMinute: 9.5},
			{ID: 4, Name: "walking", BurnPerMinute: 4},
			{ID: 5, Name: "yoga", BurnPerMinute: 3},
			{ID: 6, Name: "weightlifting", BurnPerMinute: 5},
		},
		foods: []domain.Food{
			{ID: 1, Name: "rice", Calories: 130, Protein: 2.7, Fat: 0.3, Carbohydrate: 28},
			{ID: 2, Name: "chicken breast", Calories: 165, Protein: 31, Fat: 3.6, Carbohydrate: 0},
			{ID: 3, Name: "egg", Calories: 78, Protein: 6.3, Fat: 5.3, Carbohydrate: 0.6},
			{ID: 4, Name: "banana", Calories: 89, Protein: 1.1, Fat: 0.3, Carbohydrate: 22.8},
			{ID: 5, Name: "bread", Calories: 79, Protein: 2.7, Fat: 1, Carbohydrate: 14.7},
			{ID: 6, Name: "milk", Calories: 61, Protein: 3.2, Fat: 3.3, Carbohydrate: 4.8},
		},
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.AdminRepository = (*DB)(nil)
var _ domain.SportRepository = (*DB)(nil)
var _ domain.FoodRepository = (*DB)(nil)
var _ domain.ActivityRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.DailyRepository = (*DB)(nil)

// --- UserRepository ---

// GetByUsername retrieves a user by username.
func (db *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by id.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// GetByRefreshToken retrieves the user whose stored refresh token matches.
func (db *DB) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.RefreshToken != "" && u.RefreshToken == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// UsernameOrEmailExists reports whether either value is taken.
func (db *DB) UsernameOrEmailExists(ctx context.Context, username, email string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, u := range db.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a new user.
func (db *DB) Create(ctx context.Context, u *domain.User) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.userIDCounter++
	cp := *u
	cp.ID = db.userIDCounter
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	db.users[cp.ID] = &cp
	return cp.ID, nil
}

// UpdateLastLogin stamps the user's last login time.
func (db *DB) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		u.LastLoginAt = at
	}
	return nil
}

// SaveRefreshToken overwrites the user's active refresh token.
func (db *DB) SaveRefreshToken(ctx context.Context, id int64, token string, expiresAt time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		u.RefreshToken = token
		u.RefreshTokenExpiresAt = expiresAt
	}
	return nil
}

// ClearRefreshToken invalidates the user's refresh token.
func (db *DB) ClearRefreshToken(ctx context.Context, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if u, ok := db.users[id]; ok {
		u.RefreshToken = ""
		u.RefreshTokenExpiresAt = time.Time{}
	}
	return nil
}

// UpdateProfile applies the non-nil fields of the patch.
func (db *DB) UpdateProfile(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	u, ok := db.users[id]
	if !ok {
		return nil
	}
	if patch.PhoneNumber != nil {
		u.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Age != nil {
		u.Age = *patch.Age
	}
	if patch.Gender != nil {
		u.Gender = *patch.Gender
	}
	if patch.Height != nil {
		u.Height = *patch.Height
	}
	if patch.Weight != nil {
		u.Weight = *patch.Weight
	}
	if patch.Goal != nil {
		u.Goal = *patch.Goal
	}
	u.UpdatedAt = time.Now()
	return nil
}

// Delete removes the user and everything they own.
func (db *DB) Delete(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[id]; !ok {
		return false, nil
	}

	for headerID, key := range db.activities {
		if key.userID == id {
			delete(db.activityDetails, headerID)
			delete(db.activities, headerID)
		}
	}
	for headerID, key := range db.meals {
		if key.userID == id {
			delete(db.mealDetails, headerID)
			delete(db.meals, headerID)
		}
	}
	for key := range db.summaries {
		if key.userID == id {
			delete(db.summaries, key)
		}
	}
	delete(db.users, id)
	return true, nil
}

// --- AdminRepository ---

// AddAdmin seeds an admin row, used by tests and local setup.
func (db *DB) AddAdmin(username, passwordHash string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.adminIDCounter++
	db.admins[db.adminIDCounter] = &domain.Admin{
		ID:           db.adminIDCounter,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	return db.adminIDCounter
}

// GetAdminByUsername retrieves an admin by username.
func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, a := range db.admins {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// --- SportRepository / FoodRepository ---

// GetSportByName retrieves a sport by name.
func (db *DB) GetSportByName(ctx context.Context, name string) (*domain.Sport, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, s := range db.sports {
		if s.Name == name {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

// GetFoodByName retrieves a food by name.
func (db *DB) GetFoodByName(ctx context.Context, name string) (*domain.Food, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, f := range db.foods {
		if f.Name == name {
			cp := f
			return &cp, nil
		}
	}
	return nil, nil
}

// --- ActivityRepository ---

// LogActivityDetail inserts a detail and recomputes the day's burned total
// under the lock, matching the MySQL transaction's guarantees.
func (db *DB) LogActivityDetail(ctx context.Context, userID int64, day string, sportID int64, minutes, caloriesBurned float64) (float64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	headerID := db.findOrCreateActivity(userID, day)
	db.detailIDCounter++
	db.activityDetails[headerID] = append(db.activityDetails[headerID], domain.ActivityDetail{
		ID:             db.detailIDCounter,
		ActivityID:     headerID,
		SportID:        sportID,
		Minutes:        minutes,
		CaloriesBurned: caloriesBurned,
		CreatedAt:      time.Now(),
	})

	var total float64
	for _, d := range db.activityDetails[headerID] {
		total += d.CaloriesBurned
	}

	s := db.summaryFor(userID, day)
	s.BurnedCalories = total
	return total, nil
}

// --- MealRepository ---

// LogMealDetail inserts a detail and recomputes the day's consumed total.
func (db *DB) LogMealDetail(ctx context.Context, userID int64, day string, foodID int64, quantity, calories float64) (float64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	headerID := db.findOrCreateMeal(userID, day)
	db.detailIDCounter++
	db.mealDetails[headerID] = append(db.mealDetails[headerID], domain.MealDetail{
		ID:        db.detailIDCounter,
		MealID:    headerID,
		FoodID:    foodID,
		Quantity:  quantity,
		Calories:  calories,
		CreatedAt: time.Now(),
	})

	var total float64
	for _, d := range db.mealDetails[headerID] {
		total += d.Calories
	}

	s := db.summaryFor(userID, day)
	s.ConsumedCalories = total
	return total, nil
}

// MacroTotalsForDay sums macros for the day's logged meals.
func (db *DB) MacroTotalsForDay(ctx context.Context, userID int64, day string) (domain.MacroTotals, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var totals domain.MacroTotals
	for headerID, key := range db.meals {
		if key.userID != userID || key.day != day {
			continue
		}
		for _, d := range db.mealDetails[headerID] {
			for _, f := range db.foods {
				if f.ID == d.FoodID {
					totals.Protein += f.Protein * d.Quantity
					totals.Fat += f.Fat * d.Quantity
					totals.Carbohydrate += f.Carbohydrate * d.Quantity
				}
			}
		}
	}
	return totals, nil
}

// --- DailyRepository ---

// UpsertTarget sets activity level and target, preserving totals.
func (db *DB) UpsertTarget(ctx context.Context, userID int64, day string, activityLevel, targetCalories float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s := db.summaryFor(userID, day)
	s.ActivityLevel = activityLevel
	s.TargetCalories = targetCalories
	return nil
}

// GetForDay returns the summary for one user and day, or nil.
func (db *DB) GetForDay(ctx context.Context, userID int64, day string) (*domain.DailySummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if s, ok := db.summaries[summaryKey{userID, day}]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// ListRange returns summaries within [fromDay, toDay], ascending by day.
// Day strings sort lexicographically.
func (db *DB) ListRange(ctx context.Context, userID int64, fromDay, toDay string) ([]domain.DailySummary, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.DailySummary
	for key, s := range db.summaries {
		if key.userID == userID && key.day >= fromDay && key.day <= toDay {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out, nil
}

// --- helpers, caller must hold the lock ---

func (db *DB) findOrCreateActivity(userID int64, day string) int64 {
	for id, key := range db.activities {
		if key.userID == userID && key.day == day {
			return id
		}
	}
	db.activityIDCounter++
	db.activities[db.activityIDCounter] = headerKey{userID, day}
	return db.activityIDCounter
}

func (db *DB) findOrCreateMeal(userID int64, day string) int64 {
	for id, key := range db.meals {
		if key.userID == userID && key.day == day {
			return id
		}
	}
	db.mealIDCounter++
	db.meals[db.mealIDCounter] = headerKey{userID, day}
	return db.mealIDCounter
}

func (db *DB) summaryFor(userID int64, day string) *domain.DailySummary {
	key := summaryKey{userID, day}
	if s, ok := db.summaries[key]; ok {
		return s
	}
	s := &domain.DailySummary{UserID: userID, Day: day}
	db.summaries[key] = s
	return s
}
