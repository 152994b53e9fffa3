package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// SampleSize is how many raw bytes Detect inspects.
const SampleSize = 64 * 1024

// A feed header has dozens of columns; anything at or below this is a
// wrong delimiter guess.
const minColumnCount = 5

// Format is a detected encoding/delimiter combination.
type Format struct {
	Encoding  string
	Delimiter rune

	enc encoding.Encoding
}

// DetectionError is the structural failure: no encoding/delimiter
// combination produced a plausible tabular sample. It aborts the run.
type DetectionError struct {
	Attempts int
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("could not detect catalog format after %d encoding/delimiter combinations", e.Attempts)
}

type candidateEncoding struct {
	name string
	enc  encoding.Encoding

	// valid pre-screens the raw sample. The x/text decoders substitute
	// U+FFFD instead of failing on malformed input, so without this a
	// latin-1 feed would be accepted as utf-8 and its accented text
	// mangled.
	valid func(sample []byte) bool
}

// 16-bit encodings are tried before 8-bit ones: UTF-16 content decodes
// "successfully" as latin-1, never the other way around.
var candidateEncodings = []candidateEncoding{
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), nil},
	{"utf-16le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil},
	{"utf-16be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil},
	{"utf-8", unicode.UTF8BOM, validUTF8Sample},
	{"latin-1", charmap.ISO8859_1, nil},
}

// validUTF8Sample reports whether the raw sample is well-formed UTF-8.
// The sample almost certainly cuts mid-line, so only complete lines are
// checked; a multi-byte sequence split at the cut point must not fail
// a genuine UTF-8 feed.
func validUTF8Sample(sample []byte) bool {
	sample = bytes.TrimPrefix(sample, []byte{0xEF, 0xBB, 0xBF})
	if idx := bytes.LastIndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}
	return utf8.Valid(sample)
}

var candidateDelimiters = []rune{'|', ',', '\t'}

// Detect trial-parses a raw sample against the fixed encoding and
// delimiter candidates and returns the first combination that yields
// more than minColumnCount columns.
func Detect(sample []byte) (Format, error) {
	attempts := 0

	for _, candidate := range candidateEncodings {
		if candidate.valid != nil && !candidate.valid(sample) {
			attempts += len(candidateDelimiters)
			continue
		}

		decoded, err := decodeSample(candidate.enc, sample)
		if err != nil {
			attempts += len(candidateDelimiters)
			continue
		}

		for _, delimiter := range candidateDelimiters {
			attempts++
			if sampleParses(decoded, delimiter) {
				return Format{
					Encoding:  candidate.name,
					Delimiter: delimiter,
					enc:       candidate.enc,
				}, nil
			}
		}
	}

	return Format{}, &DetectionError{Attempts: attempts}
}

// DecodingReader wraps a raw byte stream with the detected decoder.
func (f Format) DecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, f.enc.NewDecoder())
}

func decodeSample(enc encoding.Encoding, sample []byte) (string, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), sample)
	if err != nil {
		return "", err
	}
	// A wrong 8-bit guess over 16-bit content leaves NUL bytes behind
	if bytes.IndexByte(decoded, 0) >= 0 {
		return "", fmt.Errorf("decoded sample contains NUL bytes")
	}
	return string(decoded), nil
}

func sampleParses(decoded string, delimiter rune) bool {
	// The sample almost certainly cuts mid-line; drop the partial tail
	if idx := strings.LastIndexByte(decoded, '\n'); idx >= 0 {
		decoded = decoded[:idx]
	}

	r := csv.NewReader(strings.NewReader(decoded))
	r.Comma = delimiter
	r.LazyQuotes = true
	// Short rows are padded downstream, so ragged samples still count
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil || len(header) <= minColumnCount {
		return false
	}

	// A few data rows must also parse
	for i := 0; i < 5; i++ {
		if _, err := r.Read(); err != nil {
			return err == io.EOF
		}
	}
	return true
}
