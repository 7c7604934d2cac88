// Package structure infers where headers and data live inside a raw table.
// Detection is a best-effort scoring heuristic over a small sample, not a
// guarantee; the scorer is a swappable function so alternative heuristics
// can be substituted without touching the pipeline.
package structure

import (
	"strings"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
)

// Info describes the detected layout of a table.
//
// Invariants: DataStartRow <= DataEndRow+1 (the range is empty when the
// table has no data rows); when HeaderRow is set, DataStartRow is always
// HeaderRow+1.
type Info struct {
	HeaderRow     *int
	DataStartRow  int
	DataEndRow    int
	EmptyRows     map[int]struct{}
	MergedRegions []parser.MergedRegion
}

// HasHeaders reports whether a header row was found or forced.
func (i Info) HasHeaders() bool { return i.HeaderRow != nil }

// headerKeywords are descriptive words that frequently appear in header
// cells of the financial spreadsheets this pipeline ingests.
var headerKeywords = []string{
	"name", "nome",
	"code", "código",
	"value", "valor",
	"date", "data",
	"description", "descrição",
}

// PairScorer scores a candidate header row against the row below it.
// It returns the accumulated score and the number of columns considered.
type PairScorer func(header, data []parser.Cell) (score, columns int)

// Detect analyzes a table and returns its structure. Header detection only
// runs when cfg.AutoDetectHeaders is set and no explicit HeaderRow override
// is given.
func Detect(table parser.RawTable, cfg parser.Config) Info {
	return DetectWithScorer(table, cfg, ScoreHeaderPair)
}

// DetectWithScorer is Detect with a caller-supplied header heuristic.
func DetectWithScorer(table parser.RawTable, cfg parser.Config, scorer PairScorer) Info {
	info := Info{EmptyRows: make(map[int]struct{})}

	for i, row := range table {
		if rowIsEmpty(row) {
			info.EmptyRows[i] = struct{}{}
		}
	}

	switch {
	case cfg.HeaderRow != nil:
		h := *cfg.HeaderRow
		info.HeaderRow = &h
		info.DataStartRow = h + 1
	case cfg.AutoDetectHeaders:
		if h, ok := findHeaderRow(table, scorer); ok {
			info.HeaderRow = &h
			info.DataStartRow = h + 1
		} else {
			info.DataStartRow = defaultDataStart(table, info.EmptyRows, cfg)
		}
	default:
		info.DataStartRow = defaultDataStart(table, info.EmptyRows, cfg)
	}

	info.DataEndRow = lastDataRow(table, info.DataStartRow, info.EmptyRows)
	return info
}

// findHeaderRow examines up to the first 5 pairs of equal-length rows and
// accepts the first pair whose score exceeds half the columns considered.
func findHeaderRow(table parser.RawTable, scorer PairScorer) (int, bool) {
	limit := 5
	if len(table)-1 < limit {
		limit = len(table) - 1
	}
	for i := 0; i < limit; i++ {
		header, data := table[i], table[i+1]
		if len(header) == 0 || len(header) != len(data) {
			continue
		}
		score, columns := scorer(header, data)
		if columns > 0 && float64(score)/float64(columns) > 0.5 {
			return i, true
		}
	}
	return 0, false
}

// ScoreHeaderPair is the default header heuristic: text over numbers scores
// highest, text over any other non-text type scores lower, and descriptive
// keywords in the header cell add a point.
func ScoreHeaderPair(header, data []parser.Cell) (score, columns int) {
	for col := range header {
		columns++

		headerType := parser.ClassifyCell(header[col])
		dataType := parser.ClassifyCell(data[col])

		if headerType == parser.ValueText {
			switch dataType {
			case parser.ValueNumber:
				score += 2
			case parser.ValueDate, parser.ValueBool:
				score += 1
			}
		}

		text := strings.ToLower(header[col].String())
		for _, kw := range headerKeywords {
			if strings.Contains(text, kw) {
				score++
				break
			}
		}
	}
	return score, columns
}

// defaultDataStart is the first non-empty row, or the configured override.
func defaultDataStart(table parser.RawTable, empty map[int]struct{}, cfg parser.Config) int {
	if cfg.DataStartRow != nil {
		return *cfg.DataStartRow
	}
	for i := range table {
		if _, isEmpty := empty[i]; !isEmpty {
			return i
		}
	}
	return 0
}

func lastDataRow(table parser.RawTable, start int, empty map[int]struct{}) int {
	for i := len(table) - 1; i >= start; i-- {
		if _, isEmpty := empty[i]; !isEmpty {
			return i
		}
	}
	// No data rows: the empty range start..start-1 keeps the invariant.
	return start - 1
}

func rowIsEmpty(row []parser.Cell) bool {
	for _, c := range row {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
