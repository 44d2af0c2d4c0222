package services

import (
	"io"
	"time"

	"opam/internal/models"
	"opam/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Category  *models.Category
	RiskLevel *models.RiskLevel
	MinAmount *float64
	MaxAmount *float64
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, amount float64, category models.Category, merchant, description string, paymentMethod models.PaymentMethod, date time.Time, recurring bool) (*models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// FraudScore is the result of scoring a single candidate transaction.
type FraudScore struct {
	Score int              `json:"score"`
	Level models.RiskLevel `json:"level"`
}

// FraudServicer defines the contract for anomaly scoring.
type FraudServicer interface {
	Score(userID string, category models.Category, amount float64) (*FraudScore, error)
}

// MonthlyTotal is one month of aggregated spend, labelled YYYY-MM.
type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// CategoryBreakdown is a per-category aggregate over the trailing
// three calendar months.
type CategoryBreakdown struct {
	Category models.Category `json:"category"`
	Average  float64         `json:"average"`
	Count    int64           `json:"count"`
	Total    float64         `json:"total"`
}

// Trend classifications for the forecast engine.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// ForecastResult is the projected next-period spend for a user.
type ForecastResult struct {
	Prediction float64             `json:"prediction"`
	Confidence int                 `json:"confidence"`
	Trend      string              `json:"trend"`
	History    []MonthlyTotal      `json:"history"`
	Categories []CategoryBreakdown `json:"category_breakdown"`
}

// ForecastServicer defines the contract for spend forecasting.
type ForecastServicer interface {
	Forecast(userID string) (*ForecastResult, error)
}

// ImportReport summarizes a batch CSV import.
type ImportReport struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

// ImportServicer defines the contract for batch CSV imports.
type ImportServicer interface {
	ImportCSV(userID string, r io.Reader) (*ImportReport, error)
}

// BudgetProgress contains spending vs budget data for a budget's current period.
type BudgetProgress struct {
	BudgetID   string  `json:"budget_id"`
	Budgeted   float64 `json:"budgeted"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, category models.Category, name string, amount float64, period models.BudgetPeriod) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, isActive *bool, period *models.BudgetPeriod) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, name string, amount *float64, period *models.BudgetPeriod) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}
