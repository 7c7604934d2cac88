package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// parseWorkbook opens an XLSX container and flattens the selected sheet's
// used range. Legacy OLE workbooks reach this path too; excelize rejects
// them with a descriptive error, which aborts this file's processing as a
// parse failure.
func parseWorkbook(data []byte, cfg Config) (*Output, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, err := selectSheet(f, cfg.SheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	table := make(RawTable, 0, len(rows))
	for _, record := range rows {
		row := recordToCells(record, cfg.TrimWhitespace)
		if cfg.SkipEmptyRows && rowIsBlank(row) {
			continue
		}
		table = append(table, row)
		if cfg.MaxRows > 0 && len(table) >= cfg.MaxRows {
			break
		}
	}

	merged, err := mergedRegions(f, sheet)
	if err != nil {
		return nil, err
	}

	return &Output{
		Table:     table,
		FileType:  FileTypeWorkbook,
		SheetName: sheet,
		Merged:    merged,
	}, nil
}

// selectSheet returns the configured sheet, or the first one when
// unspecified.
func selectSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSheetNotFound, name)
}

func mergedRegions(f *excelize.File, sheet string) ([]MergedRegion, error) {
	cells, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read merged cells: %w", err)
	}

	regions := make([]MergedRegion, 0, len(cells))
	for _, mc := range cells {
		startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			continue
		}
		endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			continue
		}
		regions = append(regions, MergedRegion{
			StartRow: startRow - 1,
			StartCol: startCol - 1,
			EndRow:   endRow - 1,
			EndCol:   endCol - 1,
		})
	}
	return regions, nil
}
