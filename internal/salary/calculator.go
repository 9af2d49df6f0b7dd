// internal/salary/calculator.go
package salary

import "github.com/shopspring/decimal"

// RatePerKeystroke is the fixed conversion rate: 0.01 currency units per keystroke.
var RatePerKeystroke = decimal.New(1, -2)

// Calculation pairs a keystroke count with the salary it converts to.
// It is the single-entry response shape of the salary endpoints.
type Calculation struct {
	Keystrokes     int64           `json:"keystrokes"`
	ExpectedSalary decimal.Decimal `json:"expectedSalary"`
}

// Calculate converts a keystroke count into an expected salary amount,
// rounded half-up to two decimal places. Pure and total for count >= 0;
// negative counts never reach this function (rejected by validation).
//
// Rounding is applied once here, so aggregate callers must sum raw counts
// first and call Calculate on the total rather than summing per-entry
// results. The two orders are not interchangeable for fractional-cent rates.
func Calculate(count int64) decimal.Decimal {
	return decimal.NewFromInt(count).Mul(RatePerKeystroke).Round(2)
}

// CalculateEntry returns the full Calculation for a single entry's count.
func CalculateEntry(count int64) Calculation {
	return Calculation{
		Keystrokes:     count,
		ExpectedSalary: Calculate(count),
	}
}
