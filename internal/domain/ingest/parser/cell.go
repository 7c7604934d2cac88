package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CellKind is the closed set of value kinds a table cell can hold.
type CellKind int

const (
	KindNull CellKind = iota
	KindText
	KindNumber
	KindDate
	KindBool
)

// Cell is a tagged-union cell value. Exactly the field matching Kind is
// meaningful; the rest stay at their zero value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
	Bool   bool
}

// RawTable is the uniform 2-D grid every input format is flattened into.
// It is treated as immutable once returned by the parser.
type RawTable [][]Cell

func NullCell() Cell            { return Cell{Kind: KindNull} }
func TextCell(s string) Cell    { return Cell{Kind: KindText, Text: s} }
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Date: t} }
func BoolCell(b bool) Cell      { return Cell{Kind: KindBool, Bool: b} }

// IsBlank reports whether the cell is null or whitespace-only text.
func (c Cell) IsBlank() bool {
	if c.Kind == KindNull {
		return true
	}
	return c.Kind == KindText && strings.TrimSpace(c.Text) == ""
}

// String renders the cell for display and deduplication.
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return c.Text
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDate:
		return c.Date.Format("2006-01-02")
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// ValueType is the observed data type of a single cell value, used by the
// structure detector and the column analyzer.
type ValueType int

const (
	ValueNull ValueType = iota
	ValueText
	ValueNumber
	ValueDate
	ValueBool
)

var (
	boolLiteralRe   = regexp.MustCompile(`(?i)^(true|false|sim|não|yes|no|0|1)$`)
	numberLiteralRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// dateLayouts pairs a shape check with the layout used to confirm the string
// is a real calendar date. time.Parse rejects dates like 31/02.
var dateLayouts = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`), "02/01/2006"},
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "2006-01-02"},
	{regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`), "02/01/06"},
}

// ClassifyCell determines the observed value type of a cell. Native kinds
// map directly; text cells are classified by literal shape in the order
// boolean, number, date, with text as the fallback.
func ClassifyCell(c Cell) ValueType {
	switch c.Kind {
	case KindNull:
		return ValueNull
	case KindNumber:
		return ValueNumber
	case KindDate:
		return ValueDate
	case KindBool:
		return ValueBool
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return ValueNull
	}
	if boolLiteralRe.MatchString(s) {
		return ValueBool
	}
	if numberLiteralRe.MatchString(s) {
		return ValueNumber
	}
	for _, dl := range dateLayouts {
		if dl.re.MatchString(s) {
			if _, err := time.Parse(dl.layout, s); err == nil {
				return ValueDate
			}
		}
	}
	return ValueText
}
