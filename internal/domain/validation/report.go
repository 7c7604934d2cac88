package validation

import (
	"fmt"
	"sort"
	"strings"
)

const maxReportedGroups = 5

// RenderSummary formats a plain-text report for a validated batch. Pure
// formatting: no side effects beyond the returned string.
func RenderSummary(batch BatchResult, dups DuplicateGroups) string {
	var b strings.Builder

	total := batch.Summary.Total
	validPct, invalidPct := 0.0, 0.0
	if total > 0 {
		validPct = float64(batch.Summary.Valid) / float64(total) * 100
		invalidPct = float64(batch.Summary.Invalid) / float64(total) * 100
	}

	b.WriteString("Import Validation Summary\n")
	b.WriteString("=========================\n")
	fmt.Fprintf(&b, "Total records:    %d\n", total)
	fmt.Fprintf(&b, "Valid:            %d (%.1f%%)\n", batch.Summary.Valid, validPct)
	fmt.Fprintf(&b, "Invalid:          %d (%.1f%%)\n", batch.Summary.Invalid, invalidPct)
	fmt.Fprintf(&b, "Warnings:         %d\n", batch.Summary.WarningCount)
	fmt.Fprintf(&b, "Duplicate groups: %d\n", len(dups.Duplicates))

	if cats := errorCategories(batch); len(cats) > 0 {
		b.WriteString("\nError categories:\n")
		for _, cat := range cats {
			fmt.Fprintf(&b, "  %s: %d\n", cat.name, cat.count)
		}
	}

	if len(dups.Duplicates) > 0 {
		b.WriteString("\nDuplicate groups:\n")
		shown := len(dups.Duplicates)
		if shown > maxReportedGroups {
			shown = maxReportedGroups
		}
		for _, group := range dups.Duplicates[:shown] {
			c := group[0]
			fmt.Fprintf(&b, "  - %s / %s %d-%02d %s %.2f (%d records)\n",
				orSentinel(c.EntityCode, noEntitySentinel),
				orSentinel(c.AccountCode, noAccountSentinel),
				c.Year, c.Month, c.ScenarioID, c.Value, len(group))
		}
		if remaining := len(dups.Duplicates) - shown; remaining > 0 {
			fmt.Fprintf(&b, "  ... and %d more groups\n", remaining)
		}
	}

	b.WriteString("\nRecommendations:\n")
	clean := true
	if batch.Summary.Invalid > 0 {
		fmt.Fprintf(&b, "  - Review and correct the %d invalid records before re-importing.\n",
			batch.Summary.Invalid)
		clean = false
	}
	if len(dups.Duplicates) > 0 {
		fmt.Fprintf(&b, "  - Resolve %d duplicate groups; duplicates overwrite each other on import.\n",
			len(dups.Duplicates))
		clean = false
	}
	if batch.Summary.WarningCount > 0 {
		fmt.Fprintf(&b, "  - Inspect the %d warnings for data-quality concerns.\n",
			batch.Summary.WarningCount)
		clean = false
	}
	if clean {
		b.WriteString("  - All records passed validation. Ready to import.\n")
	}

	return b.String()
}

type errorCategory struct {
	name  string
	count int
}

// errorCategories groups error messages by the text before the first
// colon, or the first 30 characters when there is none, sorted by
// descending frequency with name as the tiebreak.
func errorCategories(batch BatchResult) []errorCategory {
	counts := make(map[string]int)
	for _, inv := range batch.Invalid {
		for _, msg := range inv.Errors {
			counts[categorizeError(msg)]++
		}
	}

	cats := make([]errorCategory, 0, len(counts))
	for name, count := range counts {
		cats = append(cats, errorCategory{name: name, count: count})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].count != cats[j].count {
			return cats[i].count > cats[j].count
		}
		return cats[i].name < cats[j].name
	})
	return cats
}

func categorizeError(msg string) string {
	if idx := strings.Index(msg, ":"); idx >= 0 {
		return msg[:idx]
	}
	if len(msg) > 30 {
		return msg[:30]
	}
	return msg
}

func orSentinel(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}
