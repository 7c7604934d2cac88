package profile

import (
	"fmt"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/structure"
)

// QualityReport is a 0-100 heuristic summary of how clean a parsed table
// is. Issues are hard problems; warnings are soft concerns.
type QualityReport struct {
	Score    int
	Issues   []string
	Warnings []string
}

// Penalty sizes. Each deduction is independent and additive, so evaluation
// order never affects the final score.
const (
	penaltyNoData          = 50
	penaltyNoHeaders       = 10
	penaltyEmptyColumn     = 5
	penaltyRaggedRow       = 2
	raggedRowCap           = 30
	penaltyMixedColumn     = 3
	penaltyEmptyRow        = 1
	emptyRowCap            = 10
	penaltyDuplicateHeader = 5
)

// ScoreQuality combines structure and column analysis into a quality
// report. The score starts at 100 and is floored at 0.
func ScoreQuality(table parser.RawTable, info structure.Info, columns []ColumnProfile) QualityReport {
	report := QualityReport{Score: 100}
	deductions := 0

	dataRows := info.DataEndRow - info.DataStartRow + 1
	if dataRows <= 0 {
		report.Issues = append(report.Issues, "table contains no data rows")
		deductions += penaltyNoData
	}

	if info.HeaderRow == nil {
		report.Warnings = append(report.Warnings, "no header row detected")
		deductions += penaltyNoHeaders
	}

	for _, col := range columns {
		if col.UniqueCount == 0 && col.NullCount > 0 {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("column %q is entirely empty", col.Name))
			deductions += penaltyEmptyColumn
		}
		if col.InferredType == TypeMixed {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("column %q mixes value types", col.Name))
			deductions += penaltyMixedColumn
		}
	}

	if info.HeaderRow != nil && *info.HeaderRow < len(table) {
		headerLen := len(table[*info.HeaderRow])
		ragged := 0
		for r := info.DataStartRow; r <= info.DataEndRow && r < len(table); r++ {
			if len(table[r]) != headerLen {
				ragged++
			}
		}
		if ragged > 0 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%d rows have a different cell count than the header", ragged))
			deductions += capped(ragged*penaltyRaggedRow, raggedRowCap)
		}

		seen := make(map[string]int)
		for _, cell := range table[*info.HeaderRow] {
			if cell.IsBlank() {
				continue
			}
			seen[cell.String()]++
		}
		// Walk header order so warnings come out deterministically.
		flagged := make(map[string]struct{})
		for _, cell := range table[*info.HeaderRow] {
			name := cell.String()
			if cell.IsBlank() || seen[name] < 2 {
				continue
			}
			if _, done := flagged[name]; done {
				continue
			}
			flagged[name] = struct{}{}
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("duplicate header name %q", name))
			deductions += penaltyDuplicateHeader
		}
	}

	if len(info.EmptyRows) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%d empty rows present", len(info.EmptyRows)))
		deductions += capped(len(info.EmptyRows)*penaltyEmptyRow, emptyRowCap)
	}

	report.Score = 100 - deductions
	if report.Score < 0 {
		report.Score = 0
	}
	return report
}

func capped(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}
