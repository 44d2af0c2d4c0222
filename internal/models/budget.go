package models

// BudgetPeriod represents the period type for a budget
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Budget represents a spending threshold for a category
type Budget struct {
	Base
	UserID   string       `gorm:"type:uuid;not null;index" json:"user_id"`
	Category Category     `gorm:"not null" json:"category"`
	Name     string       `gorm:"not null" json:"name"`
	Amount   float64      `gorm:"not null" json:"amount"`
	Period   BudgetPeriod `gorm:"not null" json:"period"`
	IsActive bool         `gorm:"default:true" json:"is_active"`
}
