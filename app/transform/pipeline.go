package transform

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Pipeline ties the input side to the transformer: open (zip-aware),
// detect format, stream batches, transform. One Pipeline value is
// reusable across runs.
type Pipeline struct {
	rules     *rules.Rules
	batchSize int
}

func NewPipeline(r *rules.Rules, batchSize int) *Pipeline {
	return &Pipeline{rules: r, batchSize: batchSize}
}

// Result is everything one run produced.
type Result struct {
	Products []ProductRow
	Stats    *Stats
	Format   catalog.Format
	Target   time.Time
	Duration time.Duration
}

// Run executes the whole pipeline over one catalog snapshot. Only
// structural failures (unreadable file, undetectable format) return an
// error; per-record problems are counted in Stats.
func (p *Pipeline) Run(path string, target time.Time) (*Result, error) {
	started := time.Now()

	format, err := p.detectFormat(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("Catalog format detected",
		"encoding", format.Encoding, "delimiter", string(format.Delimiter))

	rc, err := catalog.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	reader, err := catalog.NewReader(rc, format)
	if err != nil {
		return nil, err
	}

	transformer := NewTransformer(p.rules, p.batchSize)
	products, stats, err := transformer.Run(reader, target)
	if err != nil {
		return nil, err
	}

	return &Result{
		Products: products,
		Stats:    stats,
		Format:   format,
		Target:   target,
		Duration: time.Since(started),
	}, nil
}

func (p *Pipeline) detectFormat(path string) (catalog.Format, error) {
	rc, err := catalog.Open(path)
	if err != nil {
		return catalog.Format{}, err
	}
	defer rc.Close()

	sample := make([]byte, catalog.SampleSize)
	n, err := io.ReadFull(rc, sample)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return catalog.Format{}, fmt.Errorf("failed to sample catalog file: %w", err)
	}

	return catalog.Detect(sample[:n])
}
