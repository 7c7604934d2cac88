package validation

import "github.com/vantagefin/reporting-api/internal/domain/catalog"

// InvalidCandidate pairs a rejected candidate with its findings.
type InvalidCandidate struct {
	Data     FactCandidate
	Errors   []string
	Warnings []string
}

// BatchSummary counts the outcome of a batch run.
type BatchSummary struct {
	Total        int
	Valid        int
	Invalid      int
	WarningCount int
}

// BatchResult partitions a batch into valid and invalid sets. Both slices
// preserve the input order of their members, and the partition is
// exhaustive: Valid plus Invalid always equals Total.
type BatchResult struct {
	Valid   []FactCandidate
	Invalid []InvalidCandidate
	Summary BatchSummary
}

// ValidateBatch validates every candidate independently. Warnings are
// accumulated across valid and invalid results alike.
func ValidateBatch(candidates []FactCandidate, cfg Config, entities []catalog.Entity, accounts []catalog.Account) BatchResult {
	result := BatchResult{
		Valid:   make([]FactCandidate, 0, len(candidates)),
		Invalid: make([]InvalidCandidate, 0),
	}

	for _, c := range candidates {
		r := Validate(c, cfg, entities, accounts)
		result.Summary.WarningCount += len(r.Warnings)

		if r.IsValid {
			result.Valid = append(result.Valid, *r.Data)
			continue
		}
		result.Invalid = append(result.Invalid, InvalidCandidate{
			Data:     c,
			Errors:   r.Errors,
			Warnings: r.Warnings,
		})
	}

	result.Summary.Total = len(candidates)
	result.Summary.Valid = len(result.Valid)
	result.Summary.Invalid = len(result.Invalid)
	return result
}
