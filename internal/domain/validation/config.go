package validation

import "time"

// Config controls validation behavior. Construct with DefaultConfig and
// override fields; the config is passed per call and never read from global
// state.
type Config struct {
	// AllowNegativeValues permits values below zero.
	AllowNegativeValues bool
	// MinValue and MaxValue bound the accepted value range.
	MinValue float64
	MaxValue float64

	// RequiredFields lists field names that must be present. Recognized
	// names: value, year, month, scenarioId, entityCode, entityName,
	// accountCode, accountName, description.
	RequiredFields []string

	// AllowedScenarios is the closed set of accepted scenario IDs.
	AllowedScenarios []string

	// CheckEntityExists and CheckAccountExists enable lookups against the
	// catalog snapshots.
	CheckEntityExists  bool
	CheckAccountExists bool
	// AllowAutoCreate downgrades missing entity/account findings from
	// errors to warnings, assuming downstream creation.
	AllowAutoCreate bool

	// Clock supplies the current time for date plausibility checks.
	// Nil means time.Now; tests inject a fixed clock.
	Clock func() time.Time
}

// DefaultConfig returns the documented validation defaults.
func DefaultConfig() Config {
	return Config{
		AllowNegativeValues: true,
		MinValue:            -999_999_999_999,
		MaxValue:            999_999_999_999,
		RequiredFields:      []string{"value", "year", "month"},
		AllowedScenarios:    []string{"real", "budget", "forecast"},
		CheckEntityExists:   false,
		CheckAccountExists:  false,
		AllowAutoCreate:     true,
	}
}

func (c Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c Config) scenarioAllowed(id string) bool {
	for _, s := range c.AllowedScenarios {
		if s == id {
			return true
		}
	}
	return false
}
