package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/vantagefin/reporting-api/internal/domain/catalog"
)

// Result is the outcome of validating one candidate. Errors block the
// record; warnings do not. Data is set only when the record is valid.
type Result struct {
	IsValid  bool
	Errors   []string
	Warnings []string
	Data     *FactCandidate
}

const (
	maxCodeLength       = 50
	maxNameLength       = 200
	largeValueThreshold = 1e9
	minYear             = 1900
	yearFutureSlack     = 10
	yearPastWarnAfter   = 5
	maxHierarchyLevels  = 6
	shortDescription    = 20
)

var (
	codeCharsetRe      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	hierarchicalCodeRe = regexp.MustCompile(`^\d+(\.\d+)*$`)
)

// genericDescriptionWords flag descriptions that carry no information.
var genericDescriptionWords = []string{
	"imported", "data", "value", "amount", "financial", "record",
}

// Validate runs every rule against a candidate and returns the collected
// findings. Validation is exhaustive, not short-circuiting: all checks run
// regardless of earlier failures, and the candidate is never mutated. A
// panic inside any rule is recovered into a single-error result, so the
// caller always gets a Result back.
func Validate(c FactCandidate, cfg Config, entities []catalog.Entity, accounts []catalog.Account) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				IsValid: false,
				Errors:  []string{fmt.Sprintf("internal validation failure: %v", r)},
			}
		}
	}()

	var errs, warns []string

	errs = append(errs, checkRequiredFields(c, cfg)...)

	valueErrs, valueWarns := checkValue(c.Value, cfg)
	errs = append(errs, valueErrs...)
	warns = append(warns, valueWarns...)

	dateErrs, dateWarns := checkDate(c.Year, c.Month, cfg)
	errs = append(errs, dateErrs...)
	warns = append(warns, dateWarns...)

	if !cfg.scenarioAllowed(c.ScenarioID) {
		errs = append(errs, fmt.Sprintf(
			"Invalid scenario '%s': allowed scenarios are %s",
			c.ScenarioID, strings.Join(cfg.AllowedScenarios, ", ")))
	}

	entityErrs, entityWarns := checkEntity(c, cfg, entities)
	errs = append(errs, entityErrs...)
	warns = append(warns, entityWarns...)

	accountErrs, accountWarns := checkAccount(c, cfg, accounts)
	errs = append(errs, accountErrs...)
	warns = append(warns, accountWarns...)

	warns = append(warns, checkConsistency(c)...)

	result = Result{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warns,
	}
	if result.IsValid {
		data := c
		result.Data = &data
	}
	return result
}

// checkRequiredFields reports configured fields that are absent. Value is a
// non-pointer float and is always "present"; its validity is covered by the
// finite-number check.
func checkRequiredFields(c FactCandidate, cfg Config) []string {
	var errs []string
	missing := func(name string) {
		errs = append(errs, fmt.Sprintf("Required field '%s' is missing or empty", name))
	}

	for _, field := range cfg.RequiredFields {
		switch field {
		case "year":
			if c.Year == 0 {
				missing(field)
			}
		case "month":
			if c.Month == 0 {
				missing(field)
			}
		case "value":
			// Covered by checkValue.
		case "scenarioId":
			if strings.TrimSpace(c.ScenarioID) == "" {
				missing(field)
			}
		case "entityCode":
			if strings.TrimSpace(c.EntityCode) == "" {
				missing(field)
			}
		case "entityName":
			if strings.TrimSpace(c.EntityName) == "" {
				missing(field)
			}
		case "accountCode":
			if strings.TrimSpace(c.AccountCode) == "" {
				missing(field)
			}
		case "accountName":
			if strings.TrimSpace(c.AccountName) == "" {
				missing(field)
			}
		case "description":
			if strings.TrimSpace(c.Description) == "" {
				missing(field)
			}
		}
	}
	return errs
}

func checkValue(v float64, cfg Config) (errs, warns []string) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		errs = append(errs, "Value must be a finite number")
		return errs, warns
	}

	if v < 0 && !cfg.AllowNegativeValues {
		errs = append(errs, "Negative values are not allowed")
	}
	if v < cfg.MinValue || v > cfg.MaxValue {
		errs = append(errs, fmt.Sprintf(
			"Value %.2f is outside the allowed range [%.0f, %.0f]",
			v, cfg.MinValue, cfg.MaxValue))
	}
	if math.Abs(v) > largeValueThreshold {
		warns = append(warns, fmt.Sprintf("Value %.2f is unusually large; verify large value", v))
	}
	if v == 0 {
		warns = append(warns, "Value is zero")
	}
	return errs, warns
}

// checkDate validates year and month plausibility. Zero values mean the
// field was absent; the required-fields check reports those, so range
// checks skip them.
func checkDate(year, month int, cfg Config) (errs, warns []string) {
	now := cfg.now()
	currentYear := now.Year()

	yearValid := false
	if year != 0 {
		if year < minYear || year > currentYear+yearFutureSlack {
			errs = append(errs, fmt.Sprintf(
				"Year %d is outside the plausible range [%d, %d]",
				year, minYear, currentYear+yearFutureSlack))
		} else {
			yearValid = true
		}
	}

	monthValid := false
	if month != 0 {
		if month < 1 || month > 12 {
			errs = append(errs, fmt.Sprintf("Month %d must be between 1 and 12", month))
		} else {
			monthValid = true
		}
	}

	if yearValid && monthValid {
		if year > currentYear || (year == currentYear && month > int(now.Month())) {
			warns = append(warns, fmt.Sprintf("Period %d-%02d is in the future", year, month))
		}
	}
	if yearValid && year < currentYear-yearPastWarnAfter {
		warns = append(warns, fmt.Sprintf("Year %d is more than %d years in the past", year, yearPastWarnAfter))
	}
	return errs, warns
}

func checkEntity(c FactCandidate, cfg Config, entities []catalog.Entity) (errs, warns []string) {
	code := strings.TrimSpace(c.EntityCode)
	name := strings.TrimSpace(c.EntityName)

	if code == "" && name == "" {
		if cfg.AllowAutoCreate {
			warns = append(warns, "No entity specified; default entity will be used")
		} else {
			errs = append(errs, "Either entity code or entity name is required")
		}
	}

	if cfg.CheckEntityExists && name != "" && !entityExists(entities, name) {
		if cfg.AllowAutoCreate {
			warns = append(warns, fmt.Sprintf("Entity '%s' not found; it will be auto-created", name))
		} else {
			errs = append(errs, fmt.Sprintf("Entity '%s' does not exist", name))
		}
	}

	if len(code) > maxCodeLength {
		errs = append(errs, fmt.Sprintf("Entity code exceeds %d characters", maxCodeLength))
	}
	if code != "" && !codeCharsetRe.MatchString(code) {
		warns = append(warns, fmt.Sprintf("Entity code '%s' contains unusual characters", code))
	}
	if len(name) > maxNameLength {
		errs = append(errs, fmt.Sprintf("Entity name exceeds %d characters", maxNameLength))
	}
	return errs, warns
}

func checkAccount(c FactCandidate, cfg Config, accounts []catalog.Account) (errs, warns []string) {
	code := strings.TrimSpace(c.AccountCode)
	name := strings.TrimSpace(c.AccountName)

	if code == "" && name == "" {
		if cfg.AllowAutoCreate {
			warns = append(warns, "No account specified; default account will be used")
		} else {
			errs = append(errs, "Either account code or account name is required")
		}
	}

	if cfg.CheckAccountExists && (code != "" || name != "") && !accountExists(accounts, code, name) {
		label := code
		if label == "" {
			label = name
		}
		if cfg.AllowAutoCreate {
			warns = append(warns, fmt.Sprintf("Account '%s' not found; it will be auto-created", label))
		} else {
			errs = append(errs, fmt.Sprintf("Account '%s' does not exist", label))
		}
	}

	if len(code) > maxCodeLength {
		errs = append(errs, fmt.Sprintf("Account code exceeds %d characters", maxCodeLength))
	}
	if hierarchicalCodeRe.MatchString(code) && strings.Count(code, ".")+1 > maxHierarchyLevels {
		warns = append(warns, fmt.Sprintf(
			"Account code '%s' has more than %d hierarchy levels", code, maxHierarchyLevels))
	}
	if len(name) > maxNameLength {
		errs = append(errs, fmt.Sprintf("Account name exceeds %d characters", maxNameLength))
	}
	return errs, warns
}

func entityExists(entities []catalog.Entity, name string) bool {
	for _, e := range entities {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

func accountExists(accounts []catalog.Account, code, name string) bool {
	for _, a := range accounts {
		if code != "" && strings.EqualFold(a.Code, code) {
			return true
		}
		if name != "" && strings.EqualFold(a.Name, name) {
			return true
		}
	}
	return false
}

// checkConsistency flags cross-field oddities: codes unrelated to their
// names and throwaway generic descriptions.
func checkConsistency(c FactCandidate) []string {
	var warns []string

	entityCode := strings.TrimSpace(c.EntityCode)
	entityName := strings.TrimSpace(c.EntityName)
	if entityCode != "" && entityName != "" && len(entityCode) > 3 {
		if !tokensRelated(tokenize(entityCode, "_-"), tokenize(entityName, " \t")) {
			warns = append(warns, fmt.Sprintf(
				"Entity code '%s' and name '%s' seem unrelated", entityCode, entityName))
		}
	}

	accountCode := strings.TrimSpace(c.AccountCode)
	accountName := strings.TrimSpace(c.AccountName)
	// Hierarchical numeric codes like 1.2.01 carry no name tokens.
	if accountCode != "" && accountName != "" && len(accountCode) > 3 &&
		!hierarchicalCodeRe.MatchString(accountCode) {
		if !tokensRelated(tokenize(accountCode, "._-"), tokenize(accountName, " \t")) {
			warns = append(warns, fmt.Sprintf(
				"Account code '%s' and name '%s' seem unrelated", accountCode, accountName))
		}
	}

	desc := strings.ToLower(strings.TrimSpace(c.Description))
	if desc != "" && len(desc) < shortDescription {
		for _, generic := range genericDescriptionWords {
			if strings.Contains(desc, generic) {
				warns = append(warns, "Description seems generic")
				break
			}
		}
	}
	return warns
}

func tokenize(s, separators string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return strings.ContainsRune(separators, r)
	})
	out := fields[:0]
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// tokensRelated reports whether any token of one set is a substring of any
// token of the other, in either direction.
func tokensRelated(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.Contains(x, y) || strings.Contains(y, x) {
				return true
			}
		}
	}
	return false
}
