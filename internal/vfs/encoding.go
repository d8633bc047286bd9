package vfs

import (
	"bytes"
	"unicode/utf8"
)

// Encoding identifies a character encoding.
type Encoding string

const (
	// EncodingUTF8 is UTF-8 without BOM (default).
	EncodingUTF8 Encoding = "utf-8"

	// EncodingUTF8BOM is UTF-8 with a BOM marker.
	EncodingUTF8BOM Encoding = "utf-8-bom"

	// EncodingUTF16LE is UTF-16 little endian.
	EncodingUTF16LE Encoding = "utf-16le"

	// EncodingUTF16BE is UTF-16 big endian.
	EncodingUTF16BE Encoding = "utf-16be"

	// EncodingLatin1 is ISO-8859-1, the fallback for non-UTF-8 content.
	EncodingLatin1 Encoding = "iso-8859-1"
)

// LineEnding identifies the line ending convention of a document.
type LineEnding string

const (
	// LineEndingLF is Unix style (\n).
	LineEndingLF LineEnding = "lf"

	// LineEndingCRLF is Windows style (\r\n).
	LineEndingCRLF LineEnding = "crlf"

	// LineEndingCR is classic Mac style (\r).
	LineEndingCR LineEnding = "cr"

	// LineEndingMixed indicates more than one convention is present.
	LineEndingMixed LineEnding = "mixed"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding detects the encoding of content: BOM markers first,
// then UTF-8 validity, falling back to Latin-1 which accepts any bytes.
func DetectEncoding(content []byte) Encoding {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16BE):
		return EncodingUTF16BE
	case bytes.HasPrefix(content, bomUTF16LE):
		return EncodingUTF16LE
	case utf8.Valid(content):
		return EncodingUTF8
	default:
		return EncodingLatin1
	}
}

// DetectLineEnding detects the dominant line ending in content.
// Returns LineEndingMixed when more than one convention has a
// significant share (at least 10% of line breaks).
func DetectLineEnding(content []byte) LineEnding {
	var lf, crlf, cr int

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}

	total := lf + crlf + cr
	if total == 0 {
		return LineEndingLF
	}

	threshold := total / 10
	if threshold < 1 {
		threshold = 1
	}
	significant := 0
	for _, n := range []int{lf, crlf, cr} {
		if n >= threshold {
			significant++
		}
	}
	if significant > 1 {
		return LineEndingMixed
	}

	switch {
	case crlf >= lf && crlf >= cr:
		return LineEndingCRLF
	case cr > lf:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}

// StripBOM removes a leading BOM if present, returning the stripped
// content and the encoding the BOM indicated (EncodingUTF8 if none).
func StripBOM(content []byte) ([]byte, Encoding) {
	switch {
	case bytes.HasPrefix(content, bomUTF8):
		return content[3:], EncodingUTF8BOM
	case bytes.HasPrefix(content, bomUTF16BE):
		return content[2:], EncodingUTF16BE
	case bytes.HasPrefix(content, bomUTF16LE):
		return content[2:], EncodingUTF16LE
	default:
		return content, EncodingUTF8
	}
}

// AddBOM prepends the BOM marker for the given encoding if it is not
// already present. Encodings without a BOM return content unchanged.
func AddBOM(content []byte, encoding Encoding) []byte {
	var bom []byte
	switch encoding {
	case EncodingUTF8BOM:
		bom = bomUTF8
	case EncodingUTF16LE:
		bom = bomUTF16LE
	case EncodingUTF16BE:
		bom = bomUTF16BE
	default:
		return content
	}
	if bytes.HasPrefix(content, bom) {
		return content
	}
	return append(append([]byte{}, bom...), content...)
}

// NormalizeLineEndings converts all line breaks to the given style.
// Mixed is left untouched.
func NormalizeLineEndings(content []byte, ending LineEnding) []byte {
	var newline []byte
	switch ending {
	case LineEndingLF:
		newline = []byte{'\n'}
	case LineEndingCRLF:
		newline = []byte{'\r', '\n'}
	case LineEndingCR:
		newline = []byte{'\r'}
	default:
		return content
	}

	// Collapse everything to LF first.
	normalized := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			normalized = append(normalized, '\n')
		} else {
			normalized = append(normalized, content[i])
		}
	}

	if ending == LineEndingLF {
		return normalized
	}
	return bytes.ReplaceAll(normalized, []byte{'\n'}, newline)
}

// CountLines counts the lines in content. A trailing line break does
// not start an extra line.
func CountLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	lines := 1
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			lines++
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
		case '\n':
			lines++
		}
	}

	last := content[len(content)-1]
	if last == '\n' || last == '\r' {
		lines--
	}
	return lines
}

// IsBinary reports whether content looks like binary rather than text.
// Null bytes are decisive; otherwise a high ratio of control characters
// in the first 8 KiB is taken as binary.
func IsBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}

	sample := content
	if len(sample) > 8192 {
		sample = sample[:8192]
	}

	if bytes.IndexByte(sample, 0) >= 0 {
		return true
	}

	nonText := 0
	for _, b := range sample {
		if b < 32 && b != '\t' && b != '\n' && b != '\r' {
			nonText++
		}
	}
	return float64(nonText)/float64(len(sample)) > 0.1
}
