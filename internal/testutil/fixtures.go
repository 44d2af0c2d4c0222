package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"opam/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction for the user in the given
// category with the given amount and date.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, category models.Category, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:        userID,
		Amount:        amount,
		Category:      category,
		Merchant:      fmt.Sprintf("Test Merchant %d", nextID()),
		PaymentMethod: models.PaymentMethodUPI,
		Date:          date.UTC().Truncate(24 * time.Hour),
		RiskLevel:     models.RiskLevelLow,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates an active monthly budget for the user.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, category models.Category, amount float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:   userID,
		Category: category,
		Name:     fmt.Sprintf("Test Budget %d", nextID()),
		Amount:   amount,
		Period:   models.BudgetPeriodMonthly,
		IsActive: true,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}
