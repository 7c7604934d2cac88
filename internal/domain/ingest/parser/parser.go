// Package parser turns raw statement files (delimited text or spreadsheet
// workbooks) into a uniform 2-D cell grid plus format metadata. File-type
// dispatch trusts a known extension first; the byte signature decides only
// when the extension is missing or unrecognized.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/vantagefin/reporting-api/internal/domain/ingest/sniffer"
)

var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrSheetNotFound       = errors.New("sheet not found")
)

// FileType identifies which parsing path handled the input.
type FileType string

const (
	FileTypeWorkbook  FileType = "workbook"
	FileTypeDelimited FileType = "delimited"
)

// Config controls parsing behavior. Construct with DefaultConfig and
// override fields; configs are merged over these defaults by the caller and
// are never read from global state.
type Config struct {
	AutoDetectHeaders   bool
	AutoDetectDelimiter bool
	AutoDetectEncoding  bool
	SkipEmptyRows       bool
	TrimWhitespace      bool

	// MaxRows caps the number of rows read; 0 means unlimited.
	MaxRows int

	// SheetName selects a workbook sheet. Empty means the first sheet.
	SheetName string

	// HeaderRow forces the header row index and disables header detection.
	HeaderRow *int
	// DataStartRow forces where data begins when no header is known.
	DataStartRow *int

	// Delimiter forces the field separator when AutoDetectDelimiter is off.
	Delimiter rune
	// Encoding forces the text encoding when AutoDetectEncoding is off.
	Encoding sniffer.Encoding

	// CustomDelimiters is the candidate set for delimiter detection.
	CustomDelimiters []rune
	// DateFormats lists additional Go time layouts recognized as dates
	// by downstream record mapping.
	DateFormats []string
}

// DefaultConfig returns the documented parsing defaults.
func DefaultConfig() Config {
	return Config{
		AutoDetectHeaders:   true,
		AutoDetectDelimiter: true,
		AutoDetectEncoding:  true,
		SkipEmptyRows:       true,
		TrimWhitespace:      true,
		CustomDelimiters:    []rune{',', ';', '\t', '|'},
		DateFormats:         []string{"02/01/2006", "2006-01-02", "02/01/06"},
	}
}

// MergedRegion describes a merged cell range in a workbook sheet, using
// 0-based row/column indices inclusive.
type MergedRegion struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Output is the parse result: the flattened grid plus format metadata the
// rest of the pipeline builds on.
type Output struct {
	Table     RawTable
	FileType  FileType
	Encoding  sniffer.Encoding
	Delimiter rune
	SheetName string
	Merged    []MergedRegion
}

// Parse flattens file bytes into a RawTable. The filename supplies the
// extension hint for dispatch; content signatures break ties for unknown
// extensions.
func Parse(data []byte, filename string, cfg Config) (*Output, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	switch detectFileType(data, filename) {
	case FileTypeWorkbook:
		return parseWorkbook(data, cfg)
	case FileTypeDelimited:
		return parseDelimited(data, cfg)
	default:
		// Ambiguous extension and no workbook signature: a plausible
		// delimiter in the first 2KB is the tie-breaker.
		if hasPlausibleDelimiter(data, cfg) {
			return parseDelimited(data, cfg)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filepath.Base(filename))
	}
}

const (
	fileTypeUnknown FileType = ""
)

var (
	zipSignature = []byte{0x50, 0x4B}
	oleSignature = []byte{0xD0, 0xCF}
)

func detectFileType(data []byte, filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xls", ".ods":
		return FileTypeWorkbook
	case ".csv", ".tsv", ".txt":
		return FileTypeDelimited
	}

	if len(data) >= 2 {
		prefix := data[:2]
		if string(prefix) == string(zipSignature) || string(prefix) == string(oleSignature) {
			return FileTypeWorkbook
		}
	}
	return fileTypeUnknown
}

func hasPlausibleDelimiter(data []byte, cfg Config) bool {
	sample := data
	if len(sample) > 2048 {
		sample = sample[:2048]
	}
	text, err := sniffer.Decode(sample, sniffer.DetectEncoding(sample))
	if err != nil {
		return false
	}
	_, ok := sniffer.DetectDelimiter(text, cfg.CustomDelimiters)
	return ok
}

// parseDelimited decodes the file and splits it on the detected or forced
// delimiter.
func parseDelimited(data []byte, cfg Config) (*Output, error) {
	enc := cfg.Encoding
	if cfg.AutoDetectEncoding || enc == "" {
		enc = sniffer.DetectEncoding(data)
	}
	text, err := sniffer.Decode(data, enc)
	if err != nil {
		return nil, err
	}

	delim := cfg.Delimiter
	if cfg.AutoDetectDelimiter || delim == 0 {
		d, ok := sniffer.DetectDelimiter(text, cfg.CustomDelimiters)
		if !ok {
			return nil, fmt.Errorf("%w: no delimiter found", ErrUnsupportedFileType)
		}
		delim = d
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	table := make(RawTable, 0, 256)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse delimited text: %w", err)
		}

		row := recordToCells(record, cfg.TrimWhitespace)
		if cfg.SkipEmptyRows && rowIsBlank(row) {
			continue
		}
		table = append(table, row)
		if cfg.MaxRows > 0 && len(table) >= cfg.MaxRows {
			break
		}
	}

	return &Output{
		Table:     table,
		FileType:  FileTypeDelimited,
		Encoding:  enc,
		Delimiter: delim,
	}, nil
}

func recordToCells(record []string, trim bool) []Cell {
	row := make([]Cell, len(record))
	for i, field := range record {
		if trim {
			field = strings.TrimSpace(field)
		}
		if field == "" {
			row[i] = NullCell()
			continue
		}
		row[i] = TextCell(field)
	}
	return row
}

func rowIsBlank(row []Cell) bool {
	for _, c := range row {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
