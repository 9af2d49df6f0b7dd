// internal/domain/summary.go
package domain

import "github.com/shopspring/decimal"

// WeeklySummary is the derived weekly view over a user's keystroke entries.
// It is recomputed on every read and never stored.
type WeeklySummary struct {
	TotalKeystrokes int64           `json:"totalKeystrokes"`
	WeeklyEarnings  decimal.Decimal `json:"weeklyEarnings"`
	Currency        string          `json:"currency"`
}

// MonthlyAnalytics is the derived monthly view over a user's keystroke entries.
// DaysWorked counts entries in range, not distinct calendar dates; with
// multiple entries on one date each row counts.
type MonthlyAnalytics struct {
	TotalKeystrokes         int64           `json:"totalKeystrokes"`
	ExpectedSalary          decimal.Decimal `json:"expectedSalary"`
	DaysWorked              int64           `json:"daysWorked"`
	AverageKeystrokesPerDay int64           `json:"averageKeystrokesPerDay"`
}
