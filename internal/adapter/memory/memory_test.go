package memory

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"caltrack/internal/domain"
)

func closeTo(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func newUser(t *testing.T, db *DB) int64 {
	t.Helper()
	id, err := db.Create(context.Background(), &domain.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		Age:          25,
		Gender:       domain.GenderMale,
		Height:       175,
		Weight:       70,
		Goal:         domain.GoalMaintain,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func TestLogActivityDetail_AccumulatesPerDay(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	total, err := db.LogActivityDetail(ctx, id, "2026-08-29", 1, 30, 300)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if total != 300 {
		t.Errorf("expected total 300, got %v", total)
	}

	total, err = db.LogActivityDetail(ctx, id, "2026-08-29", 4, 60, 240)
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if total != 540 {
		t.Errorf("expected total 540, got %v", total)
	}

	// A different day starts its own rollup.
	total, _ = db.LogActivityDetail(ctx, id, "2026-08-30", 1, 10, 100)
	if total != 100 {
		t.Errorf("expected fresh total 100, got %v", total)
	}

	s, err := db.GetForDay(ctx, id, "2026-08-29")
	if err != nil || s == nil {
		t.Fatalf("summary: %v, %v", s, err)
	}
	if s.BurnedCalories != 540 {
		t.Errorf("expected burned 540, got %v", s.BurnedCalories)
	}
}

func TestLogActivityDetail_ConcurrentFirstLogs(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.LogActivityDetail(ctx, id, "2026-08-29", 1, 10, 100); err != nil {
				t.Errorf("log: %v", err)
			}
		}()
	}
	wg.Wait()

	s, err := db.GetForDay(ctx, id, "2026-08-29")
	if err != nil || s == nil {
		t.Fatalf("summary: %v, %v", s, err)
	}
	if s.BurnedCalories != 800 {
		t.Errorf("expected burned 800 after 8 concurrent logs, got %v", s.BurnedCalories)
	}
}

func TestNew_SeedsReferenceData(t *testing.T) {
	db := New()
	ctx := context.Background()

	for _, name := range []string{"running", "cycling", "swimming", "walking", "yoga", "weightlifting"} {
		s, err := db.GetSportByName(ctx, name)
		if err != nil || s == nil {
			t.Errorf("sport %q missing from seed", name)
		}
	}
	for _, name := range []string{"rice", "chicken breast", "egg", "banana", "bread", "milk"} {
		f, err := db.GetFoodByName(ctx, name)
		if err != nil || f == nil {
			t.Errorf("food %q missing from seed", name)
		}
	}
}

func TestUpsertTarget_PreservesTotals(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	if _, err := db.LogMealDetail(ctx, id, "2026-08-29", 1, 2, 260); err != nil {
		t.Fatalf("log meal: %v", err)
	}
	if err := db.UpsertTarget(ctx, id, "2026-08-29", 1.55, 2594.31); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	s, _ := db.GetForDay(ctx, id, "2026-08-29")
	if s.TargetCalories != 2594.31 || s.ActivityLevel != 1.55 {
		t.Errorf("target not stored: %+v", s)
	}
	if s.ConsumedCalories != 260 {
		t.Errorf("consumed total lost on upsert: %v", s.ConsumedCalories)
	}
}

func TestMacroTotalsForDay(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	// rice x2 and egg x1 from the seeded foods.
	db.LogMealDetail(ctx, id, "2026-08-29", 1, 2, 260)
	db.LogMealDetail(ctx, id, "2026-08-29", 3, 1, 78)

	totals, err := db.MacroTotalsForDay(ctx, id, "2026-08-29")
	if err != nil {
		t.Fatalf("macros: %v", err)
	}
	if !closeTo(totals.Protein, 11.7) {
		t.Errorf("expected protein 11.7, got %v", totals.Protein)
	}
	if !closeTo(totals.Carbohydrate, 56.6) {
		t.Errorf("expected carbs 56.6, got %v", totals.Carbohydrate)
	}

	// Other days do not leak in.
	totals, _ = db.MacroTotalsForDay(ctx, id, "2026-08-30")
	if totals.Protein != 0 {
		t.Errorf("expected zero protein on empty day, got %v", totals.Protein)
	}
}

func TestListRange_SortedAndBounded(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	for _, day := range []string{"2026-08-28", "2026-08-26", "2026-08-29", "2026-08-20"} {
		if err := db.UpsertTarget(ctx, id, day, 1.2, 2000); err != nil {
			t.Fatalf("upsert %s: %v", day, err)
		}
	}

	out, err := db.ListRange(ctx, id, "2026-08-23", "2026-08-29")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	want := []string{"2026-08-26", "2026-08-28", "2026-08-29"}
	if len(out) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(out))
	}
	for i, s := range out {
		if s.Day != want[i] {
			t.Errorf("row %d: expected %s, got %s", i, want[i], s.Day)
		}
	}
}

func TestDelete_CascadesAndReportsMissing(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	db.LogActivityDetail(ctx, id, "2026-08-29", 1, 30, 300)
	db.LogMealDetail(ctx, id, "2026-08-29", 1, 1, 130)
	db.UpsertTarget(ctx, id, "2026-08-29", 1.2, 2000)

	ok, err := db.Delete(ctx, id)
	if err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}

	if u, _ := db.GetByID(ctx, id); u != nil {
		t.Error("user still present after delete")
	}
	if s, _ := db.GetForDay(ctx, id, "2026-08-29"); s != nil {
		t.Error("summary still present after delete")
	}
	if totals, _ := db.MacroTotalsForDay(ctx, id, "2026-08-29"); totals.Protein != 0 {
		t.Error("meal details still present after delete")
	}

	ok, err = db.Delete(ctx, id)
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if ok {
		t.Error("second delete should report missing")
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := New()
	ctx := context.Background()
	id := newUser(t, db)

	if err := db.SaveRefreshToken(ctx, id, "tok-1", time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("save: %v", err)
	}
	u, _ := db.GetByRefreshToken(ctx, "tok-1")
	if u == nil || u.ID != id {
		t.Fatalf("expected user %d, got %+v", id, u)
	}

	if err := db.ClearRefreshToken(ctx, id); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if u, _ := db.GetByRefreshToken(ctx, "tok-1"); u != nil {
		t.Error("cleared token should not resolve")
	}

	// An empty stored token never matches an empty lookup.
	if u, _ := db.GetByRefreshToken(ctx, ""); u != nil {
		t.Error("empty token must not match")
	}
}
