package models

import (
	"strings"
	"time"
)

// PaymentMethod represents how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodUPI        PaymentMethod = "UPI"
	PaymentMethodCreditCard PaymentMethod = "Credit Card"
	PaymentMethodDebitCard  PaymentMethod = "Debit Card"
	PaymentMethodCash       PaymentMethod = "Cash"
	PaymentMethodNetBanking PaymentMethod = "Net Banking"
)

// PaymentMethods lists every valid payment method.
var PaymentMethods = []PaymentMethod{
	PaymentMethodUPI,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodCash,
	PaymentMethodNetBanking,
}

// MatchPaymentMethod coerces a raw payment method string to a member of
// the fixed set, comparing case-insensitively. Unmatched or empty
// values default to UPI.
func MatchPaymentMethod(raw string) PaymentMethod {
	for _, m := range PaymentMethods {
		if strings.EqualFold(string(m), strings.TrimSpace(raw)) {
			return m
		}
	}
	return PaymentMethodUPI
}

// RiskLevel is the ordinal fraud label derived from a fraud score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

// Transaction represents a single expense in the system. Transactions
// are immutable once created; the only mutation is deletion by the
// owning user.
type Transaction struct {
	Base
	UserID        string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Category      Category      `gorm:"not null;index" json:"category"`
	Merchant      string        `gorm:"default:Unknown" json:"merchant"`
	Description   string        `json:"description"`
	PaymentMethod PaymentMethod `gorm:"not null" json:"payment_method"`
	Date          time.Time     `gorm:"not null;index" json:"date"`
	Recurring     bool          `gorm:"default:false" json:"recurring"`

	// FraudScore and RiskLevel are always computed together at creation
	// time; the score thresholds determine the level deterministically.
	FraudScore int       `gorm:"default:0" json:"fraud_score"`
	RiskLevel  RiskLevel `gorm:"default:Low" json:"risk_level"`
}
