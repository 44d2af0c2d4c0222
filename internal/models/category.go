package models

import "strings"

// Category is one of the fixed expense classifications assigned to
// every transaction.
type Category string

const (
	CategoryFoodDining    Category = "Food & Dining"
	CategoryTransport     Category = "Transportation"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryGroceries     Category = "Groceries"
	CategoryHealthcare    Category = "Healthcare"
	CategoryUtilities     Category = "Utilities"
	CategoryEducation     Category = "Education"
	CategoryPersonalCare  Category = "Personal Care"
	CategoryTravel        Category = "Travel"
	CategorySubscriptions Category = "Subscriptions"
	CategoryBillsPayments Category = "Bills & Payments"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in canonical order. Fuzzy
// matching during import takes the first hit in this order, so the
// order is part of the import contract.
var Categories = []Category{
	CategoryFoodDining,
	CategoryTransport,
	CategoryShopping,
	CategoryEntertainment,
	CategoryGroceries,
	CategoryHealthcare,
	CategoryUtilities,
	CategoryEducation,
	CategoryPersonalCare,
	CategoryTravel,
	CategorySubscriptions,
	CategoryBillsPayments,
	CategoryOther,
}

// IsValidCategory reports whether s is exactly one of the fixed categories.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// MatchCategory coerces a raw category string to a member of the fixed
// set. An exact match is returned as-is. Otherwise a case-insensitive
// substring match in either direction is attempted against each
// category in canonical order. Unmatched values fall back to Other.
func MatchCategory(raw string) Category {
	if IsValidCategory(raw) {
		return Category(raw)
	}

	lowered := strings.ToLower(strings.TrimSpace(raw))
	if lowered == "" {
		return CategoryOther
	}
	for _, c := range Categories {
		candidate := strings.ToLower(string(c))
		if strings.Contains(candidate, lowered) || strings.Contains(lowered, candidate) {
			return c
		}
	}
	return CategoryOther
}
