package services

import (
	"gorm.io/gorm"

	apperrors "opam/internal/errors"
	"opam/internal/models"
)

// Deviation thresholds, evaluated in descending order. Deviation is the
// ratio of the candidate amount to the user's historical mean for the
// category.
const (
	deviationCritical = 5.0
	deviationHigh     = 3.0
	deviationMedium   = 2.0
)

// fraudService scores transactions against the user's historical
// category spend.
type fraudService struct {
	db *gorm.DB
}

// NewFraudService creates a new FraudServicer.
func NewFraudService(db *gorm.DB) FraudServicer {
	return &fraudService{db: db}
}

// categoryStats holds the aggregate of a user's prior spend in one category.
type categoryStats struct {
	TxCount int64   `gorm:"column:tx_count"`
	Mean    float64 `gorm:"column:mean"`
	Max     float64 `gorm:"column:max"`
}

// Score computes a (score, level) pair for a candidate amount relative
// to the user's prior transactions in the same category. The aggregate
// is re-derived from the full history on every call: the mean shifts
// with each insert, so a cached value would immediately be stale.
func (s *fraudService) Score(userID string, category models.Category, amount float64) (*FraudScore, error) {
	var stats categoryStats
	err := s.db.Model(&models.Transaction{}).
		Select("COUNT(*) AS tx_count, COALESCE(AVG(amount), 0) AS mean, COALESCE(MAX(amount), 0) AS max").
		Where("user_id = ? AND category = ?", userID, category).
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// A user's first transaction in a category is never flagged.
	if stats.TxCount == 0 || stats.Mean <= 0 {
		return &FraudScore{Score: 0, Level: models.RiskLevelLow}, nil
	}

	deviation := amount / stats.Mean
	switch {
	case deviation > deviationCritical:
		return &FraudScore{Score: 90, Level: models.RiskLevelCritical}, nil
	case deviation > deviationHigh:
		return &FraudScore{Score: 70, Level: models.RiskLevelHigh}, nil
	case deviation > deviationMedium:
		return &FraudScore{Score: 40, Level: models.RiskLevelMedium}, nil
	default:
		return &FraudScore{Score: 10, Level: models.RiskLevelLow}, nil
	}
}
