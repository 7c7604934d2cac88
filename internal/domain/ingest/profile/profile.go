// Package profile derives per-column statistics and an overall quality
// score from a parsed table. Type inference is a sampling heuristic in the
// same spirit as the structure detector: cheap, deterministic, best-effort.
package profile

import (
	"fmt"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/parser"
	"github.com/vantagefin/reporting-api/internal/domain/ingest/structure"
)

// ColumnType is the inferred data type of a column.
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeBoolean ColumnType = "boolean"
	TypeMixed   ColumnType = "mixed"
)

const (
	maxSampleValues  = 10
	typeInferenceCap = 100
)

// ColumnProfile summarizes one output column.
type ColumnProfile struct {
	Index        int
	Name         string
	InferredType ColumnType
	SampleValues []parser.Cell
	NullCount    int
	UniqueCount  int
}

// AnalyzeColumns profiles every column within the table's data range.
func AnalyzeColumns(table parser.RawTable, info structure.Info) []ColumnProfile {
	width := tableWidth(table)
	names := columnNames(table, info, width)

	dataRows := 0
	for r := info.DataStartRow; r <= info.DataEndRow && r < len(table); r++ {
		dataRows++
	}

	profiles := make([]ColumnProfile, width)
	for col := 0; col < width; col++ {
		var values []parser.Cell
		unique := make(map[string]struct{})

		for r := info.DataStartRow; r <= info.DataEndRow && r < len(table); r++ {
			if col >= len(table[r]) {
				continue
			}
			cell := table[r][col]
			if cell.IsBlank() {
				continue
			}
			values = append(values, cell)
			unique[cell.String()] = struct{}{}
		}

		samples := values
		if len(samples) > maxSampleValues {
			samples = samples[:maxSampleValues]
		}

		profiles[col] = ColumnProfile{
			Index:        col,
			Name:         names[col],
			InferredType: inferType(values),
			SampleValues: samples,
			NullCount:    dataRows - len(values),
			UniqueCount:  len(unique),
		}
	}
	return profiles
}

// inferType classifies up to the first 100 non-null values. A single
// observed kind wins; more than one makes the column mixed; an empty column
// is text by convention.
func inferType(values []parser.Cell) ColumnType {
	if len(values) > typeInferenceCap {
		values = values[:typeInferenceCap]
	}

	seen := make(map[ColumnType]struct{})
	for _, v := range values {
		switch parser.ClassifyCell(v) {
		case parser.ValueBool:
			seen[TypeBoolean] = struct{}{}
		case parser.ValueNumber:
			seen[TypeNumber] = struct{}{}
		case parser.ValueDate:
			seen[TypeDate] = struct{}{}
		case parser.ValueText:
			seen[TypeText] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return TypeText
	}
	if len(seen) > 1 {
		return TypeMixed
	}
	for t := range seen {
		return t
	}
	return TypeText
}

func tableWidth(table parser.RawTable) int {
	width := 0
	for _, row := range table {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func columnNames(table parser.RawTable, info structure.Info, width int) []string {
	names := make([]string, width)
	for col := 0; col < width; col++ {
		names[col] = fmt.Sprintf("Column %d", col+1)
		if info.HeaderRow != nil && *info.HeaderRow < len(table) {
			header := table[*info.HeaderRow]
			if col < len(header) && !header[col].IsBlank() {
				names[col] = header[col].String()
			}
		}
	}
	return names
}
