package service

import (
	"fmt"
	"io"
	"math"

	"github.com/gocarina/gocsv"

	"github.com/vantagefin/reporting-api/internal/domain/validation"
)

// FactRow is the record-oriented CSV shape for files that already follow the
// export layout. English and Portuguese header variants map to separate
// fields and are coalesced when building the candidate.
type FactRow struct {
	Entity      string `csv:"entity"`
	Entidade    string `csv:"entidade"`
	EntityCode  string `csv:"entity_code"`
	CodEntidade string `csv:"codigo_entidade"`
	Account     string `csv:"account"`
	Conta       string `csv:"conta"`
	AccountCode string `csv:"account_code"`
	CodConta    string `csv:"codigo_conta"`
	Scenario    string `csv:"scenario"`
	Cenario     string `csv:"cenario"`
	Year        string `csv:"year"`
	Ano         string `csv:"ano"`
	Month       string `csv:"month"`
	Mes         string `csv:"mes"`
	Value       string `csv:"value"`
	Valor       string `csv:"valor"`
	Description string `csv:"description"`
	Descricao   string `csv:"descricao"`
}

// Candidate converts a row to a fact candidate. Unparseable numeric fields
// become NaN or zero so validation reports them instead of dropping the row.
func (r FactRow) Candidate() validation.FactCandidate {
	c := validation.FactCandidate{
		EntityCode:  coalesce(r.EntityCode, r.CodEntidade),
		EntityName:  coalesce(r.Entity, r.Entidade),
		AccountCode: coalesce(r.AccountCode, r.CodConta),
		AccountName: coalesce(r.Account, r.Conta),
		ScenarioID:  coalesce(r.Scenario, r.Cenario),
		Description: coalesce(r.Description, r.Descricao),
	}

	c.Value = math.NaN()
	if raw := coalesce(r.Value, r.Valor); raw != "" {
		if v, ok := parseNumber(raw); ok {
			c.Value = v
		}
	}
	c.Year = atoiOrZero(coalesce(r.Year, r.Ano))
	c.Month = atoiOrZero(coalesce(r.Month, r.Mes))
	return c
}

// ParseRecords reads a record-oriented CSV stream directly into fact
// candidates, bypassing grid analysis. Use this for trusted exports whose
// headers match the FactRow tags; arbitrary spreadsheets go through
// ImportFile instead.
func ParseRecords(r io.Reader) ([]validation.FactCandidate, error) {
	var rows []FactRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse record stream: %w", err)
	}

	candidates := make([]validation.FactCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, row.Candidate())
	}
	return candidates, nil
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	if v, ok := parseNumber(s); ok {
		return int(v)
	}
	return 0
}
