package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// Reader streams normalized catalog records in bounded-size batches so
// peak memory stays independent of the feed size. Batch boundaries are
// a memory detail only: every record is evaluated independently
// downstream.
type Reader struct {
	csv     *csv.Reader
	headers map[string]int

	// ParseErrors counts malformed rows skipped while reading.
	ParseErrors int
}

// NewReader decodes the raw stream with the detected format and maps
// the header row. Missing required columns abort the run.
func NewReader(r io.Reader, format Format) (*Reader, error) {
	cr := csv.NewReader(format.DecodingReader(r))
	cr.Comma = format.Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	headers := make(map[string]int, len(header))
	for i, name := range header {
		headers[cleanField(name)] = i
	}

	for _, column := range requiredColumns {
		if _, ok := headers[column]; !ok {
			return nil, fmt.Errorf("catalog header is missing required column %q", column)
		}
	}

	return &Reader{csv: cr, headers: headers}, nil
}

// ReadBatch returns up to size records. It returns io.EOF (possibly
// alongside a final partial batch) when the feed is exhausted.
// Malformed rows are counted and skipped, never aborting the batch.
func (r *Reader) ReadBatch(size int) ([]Record, error) {
	batch := make([]Record, 0, size)

	for len(batch) < size {
		row, err := r.csv.Read()
		if err == io.EOF {
			return batch, io.EOF
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				r.ParseErrors++
				continue
			}
			return batch, fmt.Errorf("failed to read catalog row: %w", err)
		}

		batch = append(batch, newRecord(r.headers, row))
	}

	return batch, nil
}
