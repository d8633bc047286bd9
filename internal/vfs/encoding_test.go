package vfs

import (
	"bytes"
	"testing"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    Encoding
	}{
		{"empty", nil, EncodingUTF8},
		{"plain ascii", []byte("hello\n"), EncodingUTF8},
		{"utf8 multibyte", []byte("héllo wörld"), EncodingUTF8},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("x")...), EncodingUTF8BOM},
		{"utf16le bom", []byte{0xFF, 0xFE, 'a', 0}, EncodingUTF16LE},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'a'}, EncodingUTF16BE},
		{"invalid utf8", []byte{0xC3, 0x28}, EncodingLatin1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.content); got != tt.want {
				t.Errorf("DetectEncoding = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    LineEnding
	}{
		{"empty", "", LineEndingLF},
		{"no breaks", "hello", LineEndingLF},
		{"lf", "a\nb\nc\n", LineEndingLF},
		{"crlf", "a\r\nb\r\nc\r\n", LineEndingCRLF},
		{"cr", "a\rb\rc\r", LineEndingCR},
		{"mixed", "a\nb\r\nc\nd\r\n", LineEndingMixed},
		{"dominant lf", "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nk\nl\n", LineEndingLF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLineEnding([]byte(tt.content)); got != tt.want {
				t.Errorf("DetectLineEnding = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripAddBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)

	stripped, enc := StripBOM(content)
	if string(stripped) != "hello" {
		t.Errorf("StripBOM content = %q, want %q", stripped, "hello")
	}
	if enc != EncodingUTF8BOM {
		t.Errorf("StripBOM encoding = %q, want %q", enc, EncodingUTF8BOM)
	}

	restored := AddBOM(stripped, EncodingUTF8BOM)
	if !bytes.Equal(restored, content) {
		t.Errorf("AddBOM did not restore original BOM")
	}

	// Idempotent.
	if !bytes.Equal(AddBOM(restored, EncodingUTF8BOM), restored) {
		t.Error("AddBOM should not double the BOM")
	}

	// Plain UTF-8 has no BOM to add.
	plain := []byte("x")
	if !bytes.Equal(AddBOM(plain, EncodingUTF8), plain) {
		t.Error("AddBOM on utf-8 should be a no-op")
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	mixed := []byte("a\r\nb\nc\rd")

	if got := NormalizeLineEndings(mixed, LineEndingLF); string(got) != "a\nb\nc\nd" {
		t.Errorf("to LF = %q", got)
	}
	if got := NormalizeLineEndings(mixed, LineEndingCRLF); string(got) != "a\r\nb\r\nc\r\nd" {
		t.Errorf("to CRLF = %q", got)
	}
	if got := NormalizeLineEndings(mixed, LineEndingCR); string(got) != "a\rb\rc\rd" {
		t.Errorf("to CR = %q", got)
	}
	if got := NormalizeLineEndings(mixed, LineEndingMixed); !bytes.Equal(got, mixed) {
		t.Error("mixed target should leave content untouched")
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"one", 1},
		{"one\n", 1},
		{"one\ntwo", 2},
		{"one\r\ntwo\r\n", 2},
		{"a\rb\rc", 3},
	}

	for _, tt := range tests {
		if got := CountLines([]byte(tt.content)); got != tt.want {
			t.Errorf("CountLines(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}

func TestIsBinary(t *testing.T) {
	if IsBinary([]byte("plain text\nwith lines\n")) {
		t.Error("text flagged as binary")
	}
	if !IsBinary([]byte{0x00, 0x01, 0x02}) {
		t.Error("null bytes should be binary")
	}
	if IsBinary(nil) {
		t.Error("empty content should not be binary")
	}
}
