// Package normalize converts loosely-structured CSV rows into canonical
// transaction records. Exported bank statements disagree on column
// names, date formats, and currency formatting; this package owns the
// rules for reconciling them.
package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"opam/internal/models"
)

// DateLayout is the canonical calendar-date format for normalized records.
const DateLayout = "2006-01-02"

// Row is a single CSV row keyed by header name.
type Row map[string]string

// Record is a normalized transaction candidate ready for scoring and
// insertion.
type Record struct {
	Date          string // DateLayout, no time or zone component
	Amount        float64
	Category      models.Category
	Merchant      string
	Description   string
	PaymentMethod models.PaymentMethod
	Recurring     bool
}

// Header aliases per logical field, probed in order with case-sensitive
// exact matching. The first alias present with a non-empty value wins.
var (
	dateAliases        = []string{"date", "Date", "DATE", "transaction_date", "Transaction Date", "txn_date"}
	amountAliases      = []string{"amount", "Amount", "AMOUNT", "value", "Value", "price", "Price"}
	categoryAliases    = []string{"category", "Category", "CATEGORY", "type", "Type"}
	merchantAliases    = []string{"merchant", "Merchant", "payee", "Payee", "vendor", "Vendor"}
	descriptionAliases = []string{"description", "Description", "note", "Note", "notes", "memo", "Memo"}
	paymentAliases     = []string{"payment_method", "Payment Method", "payment", "Payment", "mode", "Mode"}
	recurringAliases   = []string{"recurring", "Recurring", "is_recurring"}
)

// dateLayouts are attempted in order. ISO forms come first; ambiguous
// slash dates are read as month/day/year.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
}

// recurringTruthy are the raw values (lower-cased) that mark a row recurring.
var recurringTruthy = map[string]bool{"1": true, "true": true, "yes": true}

// amountCleaner strips currency symbols and thousands separators before
// numeric parsing.
var amountCleaner = strings.NewReplacer("₹", "", "$", "", ",", "")

// NormalizeRow converts one CSV row into a Record, or returns an error
// describing why the row was rejected. The error message is intended
// for end users of the import report.
func NormalizeRow(row Row) (*Record, error) {
	rawDate := probe(row, dateAliases)
	rawAmount := probe(row, amountAliases)
	rawCategory := probe(row, categoryAliases)

	switch {
	case rawDate == "":
		return nil, fmt.Errorf("missing required field: date")
	case rawAmount == "":
		return nil, fmt.Errorf("missing required field: amount")
	case rawCategory == "":
		return nil, fmt.Errorf("missing required field: category")
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	date, err := ParseDate(rawDate)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Date:          date.Format(DateLayout),
		Amount:        amount,
		Category:      models.MatchCategory(rawCategory),
		Merchant:      "Unknown",
		PaymentMethod: models.PaymentMethodUPI,
	}

	if v := probe(row, merchantAliases); v != "" {
		record.Merchant = v
	}
	record.Description = probe(row, descriptionAliases)
	if v := probe(row, paymentAliases); v != "" {
		record.PaymentMethod = models.MatchPaymentMethod(v)
	}
	if v := probe(row, recurringAliases); v != "" {
		record.Recurring = recurringTruthy[strings.ToLower(v)]
	}

	return record, nil
}

// ParseAmount parses a raw amount string, tolerating currency symbols
// and thousands separators. The result must be a finite positive number.
func ParseAmount(raw string) (float64, error) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(raw))
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %q", raw)
	}
	return amount, nil
}

// ParseDate parses a raw date string against the supported layouts in
// order and returns the calendar date at midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, trimmed)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}

// probe returns the first non-empty value among the aliases, or "".
func probe(row Row, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
