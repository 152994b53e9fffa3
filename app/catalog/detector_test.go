package catalog

import (
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf16"
)

// encodeUTF16LE converts text to UTF-16LE bytes, optionally prefixed
// with a byte order mark, mirroring how the wholesaler exports.
func encodeUTF16LE(text string, bom bool) []byte {
	units := utf16.Encode([]rune(text))
	buf := make([]byte, 0, len(units)*2+2)
	if bom {
		buf = append(buf, 0xFF, 0xFE)
	}
	for _, u := range units {
		buf = append(buf, byte(u), byte(u>>8))
	}
	return buf
}

const sampleHeader = "Artist|ItemName|FormatDesc|ItemFormat|Barcode|MSRP|AvailDt|DelimMisc|ItemNotes|ImgHttpPath"

func sampleText() string {
	return sampleHeader + "\n" +
		"Test Artist|Test Album|VINYL LP|LP|190296944857|24.98|2025-09-19|LTD^COLORED VINYL|Great record|http://img.example.com/1.jpg\n" +
		"Other Artist|Other Album|CD|CD|123456789012|13.98|2025-09-19||Also fine|http://img.example.com/2.jpg\n"
}

func TestDetectUTF16WithBOM(t *testing.T) {
	sample := encodeUTF16LE(sampleText(), true)

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed, got: %v", err)
	}
	if format.Encoding != "utf-16" {
		t.Errorf("Expected encoding 'utf-16', got '%s'", format.Encoding)
	}
	if format.Delimiter != '|' {
		t.Errorf("Expected delimiter '|', got %q", format.Delimiter)
	}
}

func TestDetectUTF16LEWithoutBOM(t *testing.T) {
	sample := encodeUTF16LE(sampleText(), false)

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed, got: %v", err)
	}
	// BOM-aware utf-16 assumes little-endian when no BOM is present,
	// so it wins by priority; the decoded result is identical.
	if format.Encoding != "utf-16" && format.Encoding != "utf-16le" {
		t.Errorf("Expected a UTF-16 encoding, got '%s'", format.Encoding)
	}
	if format.Delimiter != '|' {
		t.Errorf("Expected delimiter '|', got %q", format.Delimiter)
	}
}

func TestDetectUTF8Comma(t *testing.T) {
	sample := []byte(strings.ReplaceAll(sampleText(), "|", ","))

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed, got: %v", err)
	}
	if format.Encoding != "utf-8" {
		t.Errorf("Expected encoding 'utf-8', got '%s'", format.Encoding)
	}
	if format.Delimiter != ',' {
		t.Errorf("Expected delimiter ',', got %q", format.Delimiter)
	}
}

func TestDetectUTF8Tab(t *testing.T) {
	sample := []byte(strings.ReplaceAll(sampleText(), "|", "\t"))

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed, got: %v", err)
	}
	if format.Delimiter != '\t' {
		t.Errorf("Expected tab delimiter, got %q", format.Delimiter)
	}
}

func TestDetectLatin1(t *testing.T) {
	// "\xf6" is ö in latin-1 but malformed UTF-8, so the utf-8
	// candidate must fall through instead of decoding it as U+FFFD
	text := sampleHeader + "\n" +
		"Bj\xf6rk|Vespertine|VINYL LP|LP|190296944857|24.98|2025-09-19|||http://img.example.com/1.jpg\n" +
		"Mot\xf6rhead|Ace Of Spades|VINYL LP|LP|123456789012|22.98|2025-09-19|||\n"
	sample := []byte(text)

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed, got: %v", err)
	}
	if format.Encoding != "latin-1" {
		t.Errorf("Expected encoding 'latin-1', got '%s'", format.Encoding)
	}
	if format.Delimiter != '|' {
		t.Errorf("Expected delimiter '|', got %q", format.Delimiter)
	}

	decoded, err := io.ReadAll(format.DecodingReader(strings.NewReader(text)))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if !strings.Contains(string(decoded), "Björk") {
		t.Errorf("Expected accented text to survive decoding, got: %s", decoded)
	}
}

func TestDetectTooFewColumns(t *testing.T) {
	sample := []byte("Artist|ItemName\nTest|Album\n")

	_, err := Detect(sample)
	if err == nil {
		t.Fatal("Expected detection to fail for a two-column sample")
	}

	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		t.Errorf("Expected DetectionError, got %T: %v", err, err)
	}
}

func TestDetectTruncatedSample(t *testing.T) {
	// A sample cut mid-line must still detect from the complete lines
	text := sampleText()
	sample := encodeUTF16LE(text[:len(text)-20], true)

	format, err := Detect(sample)
	if err != nil {
		t.Fatalf("Expected detection to succeed on truncated sample, got: %v", err)
	}
	if format.Delimiter != '|' {
		t.Errorf("Expected delimiter '|', got %q", format.Delimiter)
	}
}
