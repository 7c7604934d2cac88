// Package sniffer provides automatic detection of text encodings and field
// delimiters for uploaded statement files. It never inspects more than a
// small prefix of the input, so it is safe to run on arbitrarily large files.
package sniffer

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies a text encoding the detector can recognize.
type Encoding string

const (
	EncodingUTF8    Encoding = "utf8"
	EncodingUTF16LE Encoding = "utf16le"
	EncodingUTF16BE Encoding = "utf16be"
	EncodingLatin1  Encoding = "latin1"
)

// DefaultDelimiters is the candidate set used when the caller does not
// supply its own.
var DefaultDelimiters = []rune{',', ';', '\t', '|', ':'}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding guesses the text encoding of raw file bytes. It checks for
// byte-order marks first and falls back to latin1 only when the first 1KB
// contains bytes that cannot be UTF-8 text. It never fails; the worst case
// answer is utf8.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return EncodingUTF8
	case bytes.HasPrefix(data, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return EncodingUTF16BE
	}

	sample := data
	if len(sample) > 1024 {
		sample = sample[:1024]
	}
	for i, r := range string(sample) {
		if r == utf8.RuneError {
			// A rune cut off by the 1KB window is not evidence of a
			// non-UTF-8 file.
			if i+utf8.UTFMax > len(sample) {
				break
			}
			return EncodingLatin1
		}
		if (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || r == 0x7F {
			return EncodingLatin1
		}
	}
	return EncodingUTF8
}

// Decode converts raw bytes to a string using the given encoding, stripping
// any byte-order mark.
func Decode(data []byte, enc Encoding) (string, error) {
	var dec *encoding.Decoder
	switch enc {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, bomUTF8)
		return string(data), nil
	case EncodingUTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case EncodingUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case EncodingLatin1:
		dec = charmap.ISO8859_1.NewDecoder()
	default:
		return "", fmt.Errorf("unknown encoding %q", enc)
	}

	out, err := dec.Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s text: %w", enc, err)
	}
	return string(out), nil
}

// DetectDelimiter finds the most likely field delimiter in decoded text.
// A real delimiter appears a roughly constant number of times per row, so
// each candidate is scored mean/(1+variance) over the first 10 non-blank
// lines; variance penalizes characters that only show up inside free text.
// The second return value is false when no candidate scores above zero.
func DetectDelimiter(text string, candidates []rune) (rune, bool) {
	if len(candidates) == 0 {
		candidates = DefaultDelimiters
	}

	lines := sampleLines(text, 10)
	if len(lines) == 0 {
		return 0, false
	}

	best := rune(0)
	bestScore := 0.0
	for _, cand := range candidates {
		score := delimiterScore(lines, cand)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	if bestScore <= 0 {
		return 0, false
	}
	return best, true
}

func delimiterScore(lines []string, delim rune) float64 {
	counts := make([]float64, len(lines))
	sum := 0.0
	for i, line := range lines {
		counts[i] = float64(strings.Count(line, string(delim)))
		sum += counts[i]
	}

	mean := sum / float64(len(counts))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, c := range counts {
		variance += math.Pow(c-mean, 2)
	}
	variance /= float64(len(counts))

	return mean / (1 + variance)
}

// sampleLines returns the first n non-blank lines of text.
func sampleLines(text string, n int) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= n {
			break
		}
	}
	return lines
}
