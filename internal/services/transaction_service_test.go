package services

import (
	"testing"
	"time"

	"opam/internal/models"
	"opam/internal/pagination"
	"opam/internal/testutil"
)

func TestCreateTransaction(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, 450.50, models.CategoryGroceries, "Big Bazaar", "weekly shop", models.PaymentMethodCash, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), false)
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if tx.Amount != 450.50 {
			t.Errorf("expected amount 450.50, got %v", tx.Amount)
		}
		if tx.FraudScore != 0 || tx.RiskLevel != models.RiskLevelLow {
			t.Errorf("first transaction in category must not be flagged, got (%d, %s)", tx.FraudScore, tx.RiskLevel)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, 0, models.CategoryGroceries, "", "", "", time.Now(), false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("negative_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, -100, models.CategoryGroceries, "", "", "", time.Now(), false)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateTransaction(user.ID, 100, "Gambling", "", "", "", time.Now(), false)
		testutil.AssertAppError(t, err, "INVALID_CATEGORY")
	})

	t.Run("defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, 100, models.CategoryOther, "", "", "", time.Time{}, false)
		testutil.AssertNoError(t, err)

		if tx.Merchant != "Unknown" {
			t.Errorf("expected merchant Unknown, got %s", tx.Merchant)
		}
		if tx.PaymentMethod != models.PaymentMethodUPI {
			t.Errorf("expected UPI, got %s", tx.PaymentMethod)
		}
		today := time.Now()
		if tx.Date.Year() != today.Year() || tx.Date.Month() != today.Month() || tx.Date.Day() != today.Day() {
			t.Errorf("expected date to default to today, got %v", tx.Date)
		}
	})

	t.Run("date_truncated_to_midnight_utc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		tx, err := svc.CreateTransaction(user.ID, 100, models.CategoryOther, "", "", "", time.Date(2025, 3, 10, 18, 45, 12, 0, time.UTC), false)
		testutil.AssertNoError(t, err)

		want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		if !tx.Date.Equal(want) {
			t.Errorf("expected %v, got %v", want, tx.Date)
		}
	})

	t.Run("anomalous_amount_flagged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		for i := 0; i < 4; i++ {
			_, err := svc.CreateTransaction(user.ID, 1000, models.CategoryFoodDining, "", "", "", time.Now(), false)
			testutil.AssertNoError(t, err)
		}

		tx, err := svc.CreateTransaction(user.ID, 4500, models.CategoryFoodDining, "", "", "", time.Now(), false)
		testutil.AssertNoError(t, err)

		if tx.FraudScore != 70 || tx.RiskLevel != models.RiskLevelHigh {
			t.Errorf("expected (70, High), got (%d, %s)", tx.FraudScore, tx.RiskLevel)
		}
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user1.ID, models.CategoryOther, 100, time.Now())
		testutil.CreateTestTransaction(t, db, user2.ID, models.CategoryOther, 200, time.Now())

		result, err := svc.GetUserTransactions(user1.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 1 {
			t.Errorf("expected 1 transaction, got %d", result.TotalItems)
		}
		if len(result.Data) != 1 || result.Data[0].Amount != 100 {
			t.Errorf("unexpected data: %+v", result.Data)
		}
	})

	t.Run("ordered_by_date_desc", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, 1, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, 2, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, 3, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if len(result.Data) != 3 {
			t.Fatalf("expected 3 transactions, got %d", len(result.Data))
		}
		if result.Data[0].Amount != 2 || result.Data[1].Amount != 3 || result.Data[2].Amount != 1 {
			t.Errorf("expected newest first, got %v, %v, %v", result.Data[0].Amount, result.Data[1].Amount, result.Data[2].Amount)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)
		for i := 0; i < 25; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, float64(i+1), time.Now().AddDate(0, 0, -i))
		}

		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 10}, TransactionFilter{})
		testutil.AssertNoError(t, err)

		if result.TotalItems != 25 {
			t.Errorf("expected 25 total items, got %d", result.TotalItems)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
		if len(result.Data) != 10 {
			t.Errorf("expected 10 items on page 2, got %d", len(result.Data))
		}
	})

	t.Run("filters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryGroceries, 100, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryTravel, 5000, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
		testutil.CreateTestTransaction(t, db, user.ID, models.CategoryGroceries, 300, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

		category := models.CategoryGroceries
		result, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{Category: &category})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("category filter: expected 2, got %d", result.TotalItems)
		}

		from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
		result, err = svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{FromDate: &from})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("from_date filter: expected 2, got %d", result.TotalItems)
		}

		minAmount := 200.0
		maxAmount := 1000.0
		result, err = svc.GetUserTransactions(user.ID, pagination.PageRequest{}, TransactionFilter{MinAmount: &minAmount, MaxAmount: &maxAmount})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Errorf("amount filter: expected 1, got %d", result.TotalItems)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, 100, time.Now())

		tx, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if tx.ID != created.ID {
			t.Errorf("expected ID %s, got %s", created.ID, tx.ID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetTransactionByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("wrong_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user1.ID, models.CategoryOther, 100, time.Now())

		_, err := svc.GetTransactionByID(user2.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("deletes_own_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.CategoryOther, 100, time.Now())

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, created.ID))

		_, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("cannot_delete_others", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewFraudService(db))
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user1.ID, models.CategoryOther, 100, time.Now())

		err := svc.DeleteTransaction(user2.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		// Still visible to the owner.
		_, err = svc.GetTransactionByID(user1.ID, created.ID)
		testutil.AssertNoError(t, err)
	})
}
