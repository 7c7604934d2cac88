package validation

import (
	"fmt"
	"strconv"
)

// DuplicateGroups partitions a batch by composite natural key. Each group
// in Duplicates holds at least two candidates sharing a key.
//
// Known quirk, kept on purpose: the first occurrence of a duplicated key
// stays in Unique and also heads its duplicate group, so summing
// len(Unique) plus group sizes double-counts those records. Callers that
// need a strict partition should subtract len(Duplicates).
type DuplicateGroups struct {
	Duplicates [][]FactCandidate
	Unique     []FactCandidate
}

const (
	noEntitySentinel  = "NO_ENTITY"
	noAccountSentinel = "NO_ACCOUNT"
)

// DetectDuplicates groups candidates by entity, account, period, scenario
// and value. Input order is preserved within Unique and within each group.
func DetectDuplicates(candidates []FactCandidate) DuplicateGroups {
	groups := DuplicateGroups{
		Duplicates: make([][]FactCandidate, 0),
		Unique:     make([]FactCandidate, 0, len(candidates)),
	}

	first := make(map[string]FactCandidate)
	groupIndex := make(map[string]int)

	for _, c := range candidates {
		key := compositeKey(c)

		if idx, ok := groupIndex[key]; ok {
			groups.Duplicates[idx] = append(groups.Duplicates[idx], c)
			continue
		}
		if seen, ok := first[key]; ok {
			groupIndex[key] = len(groups.Duplicates)
			groups.Duplicates = append(groups.Duplicates, []FactCandidate{seen, c})
			continue
		}
		first[key] = c
		groups.Unique = append(groups.Unique, c)
	}
	return groups
}

// compositeKey renders the natural key. The value is formatted at 2
// decimal places so 10 and 10.00 collide.
func compositeKey(c FactCandidate) string {
	entity := c.EntityCode
	if entity == "" {
		entity = noEntitySentinel
	}
	account := c.AccountCode
	if account == "" {
		account = noAccountSentinel
	}
	return fmt.Sprintf("%s|%s|%d|%d|%s|%s",
		entity, account, c.Year, c.Month, c.ScenarioID,
		strconv.FormatFloat(c.Value, 'f', 2, 64))
}
