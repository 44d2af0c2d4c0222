package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"opam/internal/models"
	"opam/internal/testutil"
)

// newForecastServiceAt builds a forecast service with a pinned clock so
// the trailing category window is deterministic.
func newForecastServiceAt(db *gorm.DB, now time.Time) *forecastService {
	return &forecastService{db: db, now: func() time.Time { return now }}
}

// monthDate returns the 15th of the given month at midnight UTC.
func monthDate(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
}

func TestForecast(t *testing.T) {
	now := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.UTC)

	t.Run("no_history", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if result.Trend != TrendInsufficientData {
			t.Errorf("expected insufficient_data, got %s", result.Trend)
		}
		if result.Prediction != 0 || result.Confidence != 0 {
			t.Errorf("expected zero prediction and confidence, got %v / %d", result.Prediction, result.Confidence)
		}
		if len(result.History) != 0 {
			t.Errorf("expected empty history, got %d entries", len(result.History))
		}
		if result.Categories == nil || len(result.Categories) != 0 {
			t.Errorf("expected empty category breakdown, got %v", result.Categories)
		}
	})

	t.Run("single_month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 1000, monthDate(2025, time.June))

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if result.Trend != TrendInsufficientData {
			t.Errorf("expected insufficient_data, got %s", result.Trend)
		}
		if result.Prediction != 0 || result.Confidence != 0 {
			t.Errorf("expected zero prediction and confidence, got %v / %d", result.Prediction, result.Confidence)
		}
		if len(result.History) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(result.History))
		}
		if result.History[0].Month != "2025-06" || result.History[0].Total != 1000 {
			t.Errorf("unexpected history entry: %+v", result.History[0])
		}
	})

	t.Run("two_months_stable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 1000, monthDate(2025, time.May))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 2000, monthDate(2025, time.June))

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		// With no months beyond the recent window there is nothing to
		// compare against, so the trend reads stable.
		if result.Trend != TrendStable {
			t.Errorf("expected stable, got %s", result.Trend)
		}
		if result.Prediction != 1500 {
			t.Errorf("expected prediction 1500, got %v", result.Prediction)
		}
		if result.Confidence != 60 {
			t.Errorf("expected confidence 60, got %d", result.Confidence)
		}
	})

	t.Run("increasing_trend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		totals := map[time.Month]float64{
			time.January:  1000,
			time.February: 1000,
			time.March:    1000,
			time.April:    2000,
			time.May:      2200,
			time.June:     2400,
		}
		for month, amount := range totals {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, amount, monthDate(2025, month))
		}

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if result.Trend != TrendIncreasing {
			t.Errorf("expected increasing, got %s", result.Trend)
		}
		// Average over six months is 1600; increasing spend bumps the
		// estimate by 5%.
		if result.Prediction != 1680 {
			t.Errorf("expected prediction 1680, got %v", result.Prediction)
		}
		if result.Confidence != 80 {
			t.Errorf("expected confidence 80, got %d", result.Confidence)
		}
		if len(result.History) != 6 {
			t.Fatalf("expected 6 history entries, got %d", len(result.History))
		}
		if result.History[0].Month != "2025-06" || result.History[5].Month != "2025-01" {
			t.Errorf("history not sorted most recent first: %+v", result.History)
		}
	})

	t.Run("decreasing_trend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		totals := map[time.Month]float64{
			time.January:  2400,
			time.February: 2200,
			time.March:    2000,
			time.April:    1000,
			time.May:      1000,
			time.June:     1000,
		}
		for month, amount := range totals {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, amount, monthDate(2025, month))
		}

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if result.Trend != TrendDecreasing {
			t.Errorf("expected decreasing, got %s", result.Trend)
		}
		if result.Prediction != 1520 {
			t.Errorf("expected prediction 1520, got %v", result.Prediction)
		}
	})

	t.Run("stable_trend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		for _, month := range []time.Month{time.January, time.February, time.March, time.April, time.May, time.June} {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 1500, monthDate(2025, month))
		}

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if result.Trend != TrendStable {
			t.Errorf("expected stable, got %s", result.Trend)
		}
		if result.Prediction != 1500 {
			t.Errorf("expected prediction 1500, got %v", result.Prediction)
		}
	})

	t.Run("history_capped_at_six_months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		for month := time.January; month <= time.August; month++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 1000, monthDate(2024, month))
		}

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if len(result.History) != 6 {
			t.Fatalf("expected history capped at 6, got %d", len(result.History))
		}
		if result.History[0].Month != "2024-08" || result.History[5].Month != "2024-03" {
			t.Errorf("expected most recent six months, got %+v", result.History)
		}
		if result.Confidence != 80 {
			t.Errorf("expected confidence capped inputs to give 80, got %d", result.Confidence)
		}
	})

	t.Run("confidence_capped_at_90", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		for _, month := range []time.Month{time.January, time.February, time.March, time.April, time.May, time.June} {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 1000, monthDate(2025, month))
		}

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		// 6 months gives 50 + 5*6 = 80; the cap only bites above 8
		// months, which the history window never reaches.
		if result.Confidence > 90 {
			t.Errorf("confidence must never exceed 90, got %d", result.Confidence)
		}
	})

	t.Run("category_breakdown_trailing_window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := newForecastServiceAt(db, now)
		user := testutil.CreateTestUser(t, db)

		// Inside the April-June window.
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 500, monthDate(2025, time.June))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryFoodDining, 700, monthDate(2025, time.June))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryShopping, 1000, monthDate(2025, time.May))
		// Before the window; must not appear in the breakdown.
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryTravel, 9000, monthDate(2025, time.January))

		result, err := svc.Forecast(user.ID)
		testutil.AssertNoError(t, err)

		if len(result.Categories) != 2 {
			t.Fatalf("expected 2 categories, got %d: %+v", len(result.Categories), result.Categories)
		}
		food := result.Categories[0]
		if food.Category != models.CategoryFoodDining {
			t.Errorf("expected Food & Dining first by total, got %s", food.Category)
		}
		if food.Total != 1200 || food.Count != 2 || food.Average != 600 {
			t.Errorf("unexpected food aggregate: %+v", food)
		}
		if result.Categories[1].Category != models.CategoryShopping {
			t.Errorf("expected Shopping second, got %s", result.Categories[1].Category)
		}
	})
}
