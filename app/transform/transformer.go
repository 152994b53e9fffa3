package transform

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Transformer runs the full record pipeline for one target date:
// filter, price, build, assemble. It consumes the catalog reader batch
// by batch so memory stays bounded regardless of feed size.
type Transformer struct {
	rules     *rules.Rules
	batchSize int
}

func NewTransformer(r *rules.Rules, batchSize int) *Transformer {
	if batchSize <= 0 {
		batchSize = 10000
	}
	return &Transformer{rules: r, batchSize: batchSize}
}

func (t *Transformer) Run(reader *catalog.Reader, target time.Time) ([]ProductRow, *Stats, error) {
	matcher := NewMatcher(t.rules, target)
	calculator := NewCalculator(t.rules.Pricing)
	assembler := NewAssembler(t.rules, target)

	stats := NewStats()
	var products []ProductRow

	started := time.Now()

	for {
		batch, err := reader.ReadBatch(t.batchSize)
		if err != nil && err != io.EOF {
			return nil, stats, fmt.Errorf("failed to read batch: %w", err)
		}

		for _, rec := range batch {
			stats.Processed++

			dateMatched, reason := matcher.Match(rec)
			if dateMatched {
				stats.DateMatches++
			}
			if reason != "" {
				stats.Skip(reason)
				continue
			}

			stats.VinylMatches++

			pricing, ok := calculator.Run(rec.MSRP)
			if !ok {
				stats.Skip(SkipNoPrice)
				slog.Debug("Skipping record with unparseable price",
					"artist", rec.Artist, "title", rec.Title, "msrp", rec.MSRP)
				continue
			}

			products = append(products, assembler.Run(rec, pricing))
		}

		if err == io.EOF {
			break
		}
	}

	stats.ParseErrors = reader.ParseErrors
	stats.Products = len(products)

	slog.Info("Transformation completed",
		"target", target.Format("2006-01-02"),
		"duration", time.Since(started),
		"processed", stats.Processed,
		"date_matches", stats.DateMatches,
		"vinyl_matches", stats.VinylMatches,
		"skipped", stats.TotalSkipped(),
		"parse_errors", stats.ParseErrors,
		"products", stats.Products)

	return products, stats, nil
}
