// Package validation checks extracted financial facts against business
// rules. Findings are data, never control flow: a candidate that fails
// every rule still comes back as a Result, and one bad candidate never
// aborts a batch.
package validation

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FactCandidate is one extracted financial fact awaiting validation. Empty
// strings mean the field is absent; a zero Year or Month means the field
// was not supplied.
type FactCandidate struct {
	EntityCode  string
	EntityName  string
	AccountCode string
	AccountName string
	ScenarioID  string
	Year        int
	Month       int
	Value       float64
	Description string
}

// Sanitize returns a normalized copy: string fields trimmed, codes
// uppercased, the value rounded to 2 decimal places. The candidate itself
// is never mutated, and Sanitize is idempotent.
func Sanitize(c FactCandidate) FactCandidate {
	out := c
	out.EntityCode = strings.ToUpper(strings.TrimSpace(c.EntityCode))
	out.EntityName = strings.TrimSpace(c.EntityName)
	out.AccountCode = strings.ToUpper(strings.TrimSpace(c.AccountCode))
	out.AccountName = strings.TrimSpace(c.AccountName)
	out.ScenarioID = strings.ToLower(strings.TrimSpace(c.ScenarioID))
	out.Description = strings.TrimSpace(c.Description)
	out.Value = roundValue(c.Value)
	return out
}

func roundValue(v float64) float64 {
	// decimal.NewFromFloat panics on NaN/Inf; leave those for the
	// validator to reject.
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
