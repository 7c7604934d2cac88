package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
)

func row(values ...string) []parser.Cell {
	cells := make([]parser.Cell, len(values))
	for i, v := range values {
		if v == "" {
			cells[i] = parser.NullCell()
			continue
		}
		cells[i] = parser.TextCell(v)
	}
	return cells
}

func TestDetect(t *testing.T) {
	t.Run("text header over numeric data", func(t *testing.T) {
		table := parser.RawTable{
			row("Entity", "Account", "Value"),
			row("ACME", "1000", "100.50"),
			row("ACME", "1001", "200.00"),
		}

		info := Detect(table, parser.DefaultConfig())

		require.NotNil(t, info.HeaderRow)
		assert.Equal(t, 0, *info.HeaderRow)
		assert.True(t, info.HasHeaders())
		assert.Equal(t, 1, info.DataStartRow)
		assert.Equal(t, 2, info.DataEndRow)
	})

	t.Run("all-numeric table has no header", func(t *testing.T) {
		table := parser.RawTable{
			row("10", "20", "30"),
			row("40", "50", "60"),
		}

		info := Detect(table, parser.DefaultConfig())

		assert.Nil(t, info.HeaderRow)
		assert.Equal(t, 0, info.DataStartRow)
		assert.Equal(t, 1, info.DataEndRow)
	})

	t.Run("title row above the real header", func(t *testing.T) {
		table := parser.RawTable{
			row("Relatório Anual", "", ""),
			row("Nome", "Código", "Valor"),
			row("Vendas", "1000", "350.00"),
		}

		info := Detect(table, parser.DefaultConfig())

		require.NotNil(t, info.HeaderRow)
		assert.Equal(t, 1, *info.HeaderRow)
		assert.Equal(t, 2, info.DataStartRow)
	})

	t.Run("explicit header override disables detection", func(t *testing.T) {
		table := parser.RawTable{
			row("skip", "skip"),
			row("Entity", "Value"),
			row("ACME", "10"),
		}

		cfg := parser.DefaultConfig()
		h := 1
		cfg.HeaderRow = &h

		info := Detect(table, cfg)
		require.NotNil(t, info.HeaderRow)
		assert.Equal(t, 1, *info.HeaderRow)
		assert.Equal(t, 2, info.DataStartRow)
	})

	t.Run("detection disabled falls back to first non-empty row", func(t *testing.T) {
		table := parser.RawTable{
			row("", ""),
			row("ACME", "10"),
		}

		cfg := parser.DefaultConfig()
		cfg.AutoDetectHeaders = false

		info := Detect(table, cfg)
		assert.Nil(t, info.HeaderRow)
		assert.Equal(t, 1, info.DataStartRow)
	})

	t.Run("records empty rows", func(t *testing.T) {
		table := parser.RawTable{
			row("Entity", "Value"),
			row("", ""),
			row("ACME", "10"),
		}

		info := Detect(table, parser.DefaultConfig())
		_, isEmpty := info.EmptyRows[1]
		assert.True(t, isEmpty)
		assert.Equal(t, 2, info.DataEndRow)
	})

	t.Run("empty table keeps the range empty", func(t *testing.T) {
		info := Detect(parser.RawTable{}, parser.DefaultConfig())
		assert.Nil(t, info.HeaderRow)
		assert.Equal(t, 0, info.DataStartRow)
		assert.Equal(t, -1, info.DataEndRow)
	})
}

func TestScoreHeaderPair(t *testing.T) {
	t.Run("text over numbers scores high", func(t *testing.T) {
		header := row("Entity", "Value")
		data := row("10", "20")

		score, columns := ScoreHeaderPair(header, data)
		assert.Equal(t, 2, columns)
		// 2 per text-over-number column, +1 keyword for "Value".
		assert.Equal(t, 5, score)
	})

	t.Run("text over text scores only keywords", func(t *testing.T) {
		header := row("alpha", "beta")
		data := row("gamma", "delta")

		score, columns := ScoreHeaderPair(header, data)
		assert.Equal(t, 2, columns)
		assert.Equal(t, 0, score)
	})

	t.Run("custom scorer is honored", func(t *testing.T) {
		table := parser.RawTable{
			row("a", "b"),
			row("c", "d"),
		}

		always := func(header, data []parser.Cell) (int, int) { return len(header), len(header) }
		info := DetectWithScorer(table, parser.DefaultConfig(), always)
		require.NotNil(t, info.HeaderRow)
		assert.Equal(t, 0, *info.HeaderRow)
	})
}
