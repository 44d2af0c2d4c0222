package services

import (
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	apperrors "opam/internal/errors"
	"opam/internal/models"
)

const (
	// forecastMonths caps how much monthly history informs the estimate.
	forecastMonths = 6

	// Trend detection bands: recent average vs older average.
	trendUpRatio   = 1.1
	trendDownRatio = 0.9

	// Prediction adjustment per trend.
	increasingMultiplier = 1.05
	decreasingMultiplier = 0.95
)

// forecastService projects next-period spend from monthly aggregates.
type forecastService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewForecastService creates a new ForecastServicer.
func NewForecastService(db *gorm.DB) ForecastServicer {
	return &forecastService{db: db, now: time.Now}
}

// Forecast projects the user's next-period total spend and classifies
// the trend. Monthly aggregates are derived on demand from the full
// transaction history; nothing is cached between calls.
func (s *forecastService) Forecast(userID string) (*ForecastResult, error) {
	history, err := s.monthlyTotals(userID)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryBreakdown(userID)
	if err != nil {
		return nil, err
	}

	result := &ForecastResult{
		History:    history,
		Categories: categories,
	}

	// Less than two months of history is not an error; callers must
	// treat this as "not enough data".
	if len(history) < 2 {
		result.Trend = TrendInsufficientData
		return result, nil
	}

	var sum float64
	for _, m := range history {
		sum += m.Total
	}
	avg := sum / float64(len(history))

	recentCount := 3
	if len(history) < recentCount {
		recentCount = len(history)
	}
	var recentSum float64
	for _, m := range history[:recentCount] {
		recentSum += m.Total
	}
	recentAvg := recentSum / float64(recentCount)

	olderAvg := recentAvg
	trend := TrendStable
	if older := history[recentCount:]; len(older) > 0 {
		var olderSum float64
		for _, m := range older {
			olderSum += m.Total
		}
		olderAvg = olderSum / float64(len(older))

		switch {
		case recentAvg > olderAvg*trendUpRatio:
			trend = TrendIncreasing
		case recentAvg < olderAvg*trendDownRatio:
			trend = TrendDecreasing
		}
	}

	multiplier := 1.0
	switch trend {
	case TrendIncreasing:
		multiplier = increasingMultiplier
	case TrendDecreasing:
		multiplier = decreasingMultiplier
	}

	result.Trend = trend
	result.Prediction = math.Round(avg * multiplier)
	result.Confidence = 50 + 5*len(history)
	if result.Confidence > 90 {
		result.Confidence = 90
	}

	return result, nil
}

// monthlyTotals derives up to forecastMonths monthly (month, total)
// pairs from the user's transactions, most recent first. Grouping is
// done in Go so that the month key is portable across SQLite and
// Postgres.
func (s *forecastService) monthlyTotals(userID string) ([]MonthlyTotal, error) {
	type txRow struct {
		Date   time.Time
		Amount float64
	}
	var rows []txRow
	err := s.db.Model(&models.Transaction{}).
		Select("date, amount").
		Where("user_id = ?", userID).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[string]float64)
	for _, r := range rows {
		totals[r.Date.Format("2006-01")] += r.Amount
	}

	months := make([]string, 0, len(totals))
	for m := range totals {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > forecastMonths {
		months = months[:forecastMonths]
	}

	history := make([]MonthlyTotal, 0, len(months))
	for _, m := range months {
		history = append(history, MonthlyTotal{Month: m, Total: totals[m]})
	}
	return history, nil
}

// categoryBreakdown aggregates per-category spend over a trailing
// three-calendar-month window, largest total first. Consumers divide
// the total by three for a monthly estimate.
func (s *forecastService) categoryBreakdown(userID string) ([]CategoryBreakdown, error) {
	now := s.now()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0)

	var breakdown []CategoryBreakdown
	err := s.db.Model(&models.Transaction{}).
		Select("category, AVG(amount) AS average, COUNT(*) AS count, SUM(amount) AS total").
		Where("user_id = ? AND date >= ?", userID, windowStart).
		Group("category").
		Order("total DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if breakdown == nil {
		breakdown = []CategoryBreakdown{}
	}
	return breakdown, nil
}
