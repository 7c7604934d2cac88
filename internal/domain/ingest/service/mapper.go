package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/structure"
	"github.com/vantagefin/reporting-api/internal/domain/validation"
)

// field identifies a fact attribute a spreadsheet column can map to.
type field int

const (
	fieldNone field = iota
	fieldEntityCode
	fieldEntityName
	fieldAccountCode
	fieldAccountName
	fieldScenario
	fieldYear
	fieldMonth
	fieldDate
	fieldValue
	fieldDescription
)

// fieldMappings associate header keywords with fact fields. Order matters:
// compound code variants are checked before the bare entity/account words
// that would swallow them.
var fieldMappings = []struct {
	target   field
	keywords []string
}{
	{fieldEntityCode, []string{"entity code", "entity_code", "cod entidade", "cód entidade", "codigo entidade", "código entidade", "cod_entidade"}},
	{fieldAccountCode, []string{"account code", "account_code", "account number", "cod conta", "cód conta", "codigo conta", "código conta", "cod_conta"}},
	{fieldEntityName, []string{"entity", "entidade", "company", "empresa"}},
	{fieldAccountName, []string{"account", "conta"}},
	{fieldScenario, []string{"scenario", "cenário", "cenario"}},
	{fieldYear, []string{"year", "ano", "exercício", "exercicio"}},
	{fieldMonth, []string{"month", "mês", "mes"}},
	{fieldDate, []string{"date", "data", "period", "período", "periodo"}},
	{fieldValue, []string{"value", "valor", "amount", "montante", "total"}},
	{fieldDescription, []string{"description", "descrição", "descricao", "memo", "obs"}},
}

// maxFuzzyRank bounds the edit distance accepted by the fuzzy fallback, so
// "vallor" still maps to value but unrelated headers stay unmapped.
const maxFuzzyRank = 2

// headerField resolves a header label to a fact field. Exact keyword
// containment wins; otherwise the closest fuzzy keyword match within
// maxFuzzyRank is used.
func headerField(header string) (field, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "" {
		return fieldNone, false
	}

	for _, m := range fieldMappings {
		for _, kw := range m.keywords {
			if strings.Contains(h, kw) {
				return m.target, true
			}
		}
	}

	best, bestRank := fieldNone, maxFuzzyRank+1
	for _, m := range fieldMappings {
		for _, kw := range m.keywords {
			rank := fuzzy.RankMatchNormalizedFold(kw, h)
			if rank >= 0 && rank < bestRank {
				best, bestRank = m.target, rank
			}
		}
	}
	if best == fieldNone {
		return fieldNone, false
	}
	return best, true
}

// MapTable converts a parsed table into fact candidates using the detected
// header row. Rows that cannot be mapped cleanly still produce a candidate
// with zero or NaN fields so validation can report them; the returned
// message list describes per-row mapping problems.
func MapTable(table parser.RawTable, info structure.Info, cfg parser.Config) ([]validation.FactCandidate, []string) {
	if info.HeaderRow == nil {
		return nil, []string{"cannot map records without a header row"}
	}

	headerIdx := *info.HeaderRow
	if headerIdx >= len(table) {
		return nil, []string{"header row index is out of range"}
	}

	columns := make(map[field]int)
	for i, cell := range table[headerIdx] {
		f, ok := headerField(cell.String())
		if !ok {
			continue
		}
		if _, taken := columns[f]; !taken {
			columns[f] = i
		}
	}

	var mapErrs []string
	if _, ok := columns[fieldValue]; !ok {
		mapErrs = append(mapErrs, "no value column recognized in header row")
	}

	var candidates []validation.FactCandidate
	for rowIdx := info.DataStartRow; rowIdx <= info.DataEndRow && rowIdx < len(table); rowIdx++ {
		if _, isEmpty := info.EmptyRows[rowIdx]; isEmpty {
			continue
		}
		row := table[rowIdx]

		c := validation.FactCandidate{
			EntityCode:  cellText(row, columns, fieldEntityCode),
			EntityName:  cellText(row, columns, fieldEntityName),
			AccountCode: cellText(row, columns, fieldAccountCode),
			AccountName: cellText(row, columns, fieldAccountName),
			ScenarioID:  cellText(row, columns, fieldScenario),
			Description: cellText(row, columns, fieldDescription),
		}

		c.Value = math.NaN()
		if idx, ok := columns[fieldValue]; ok && idx < len(row) {
			cell := row[idx]
			if cell.Kind == parser.KindNumber {
				c.Value = cell.Number
			} else if !cell.IsBlank() {
				if v, ok := parseNumber(cell.String()); ok {
					c.Value = v
				} else {
					mapErrs = append(mapErrs, fmt.Sprintf(
						"row %d: cannot parse value '%s'", rowIdx+1, cell.String()))
				}
			}
		}

		c.Year = cellInt(row, columns, fieldYear, rowIdx, "year", &mapErrs)
		c.Month = cellInt(row, columns, fieldMonth, rowIdx, "month", &mapErrs)

		if c.Year == 0 || c.Month == 0 {
			if t, ok := cellDate(row, columns, cfg.DateFormats); ok {
				if c.Year == 0 {
					c.Year = t.Year()
				}
				if c.Month == 0 {
					c.Month = int(t.Month())
				}
			}
		}

		candidates = append(candidates, c)
	}
	return candidates, mapErrs
}

func cellText(row []parser.Cell, columns map[field]int, f field) string {
	idx, ok := columns[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx].String())
}

func cellInt(row []parser.Cell, columns map[field]int, f field, rowIdx int, label string, mapErrs *[]string) int {
	idx, ok := columns[f]
	if !ok || idx >= len(row) {
		return 0
	}
	cell := row[idx]
	if cell.IsBlank() {
		return 0
	}
	if cell.Kind == parser.KindNumber {
		return int(cell.Number)
	}

	s := strings.TrimSpace(cell.String())
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	*mapErrs = append(*mapErrs, fmt.Sprintf("row %d: cannot parse %s '%s'", rowIdx+1, label, s))
	return 0
}

func cellDate(row []parser.Cell, columns map[field]int, layouts []string) (time.Time, bool) {
	idx, ok := columns[fieldDate]
	if !ok || idx >= len(row) {
		return time.Time{}, false
	}
	cell := row[idx]
	if cell.Kind == parser.KindDate {
		return cell.Date, true
	}
	if cell.IsBlank() {
		return time.Time{}, false
	}

	s := strings.TrimSpace(cell.String())
	if len(layouts) == 0 {
		layouts = parser.DefaultConfig().DateFormats
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseNumber reads amounts in both decimal-point and decimal-comma
// conventions, tolerating currency symbols and parenthesized negatives.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.Trim(s, "€$£  ")

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if len(s)-lastComma-1 <= 2 && strings.Count(s, ",") == 1 {
			// 1234,56
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// 1,234,567
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}
