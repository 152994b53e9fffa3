package transform

// SkipReason classifies why a catalog record produced no output row.
// Per-record skips never abort the run.
type SkipReason string

const (
	SkipMissingFields  SkipReason = "missing required field"
	SkipDateMismatch   SkipReason = "date mismatch"
	SkipFormatMismatch SkipReason = "format mismatch"
	SkipNoPrice        SkipReason = "unparseable price"
)

// Stats carries the run counters surfaced to the operator. They are
// observability only and never affect control flow.
type Stats struct {
	Processed    int
	DateMatches  int
	VinylMatches int
	Skipped      map[SkipReason]int
	ParseErrors  int
	Products     int
}

func NewStats() *Stats {
	return &Stats{Skipped: make(map[SkipReason]int)}
}

func (s *Stats) Skip(reason SkipReason) {
	s.Skipped[reason]++
}

func (s *Stats) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// ProductRow is one row of the fixed-schema import file. Built once
// per matched record, never mutated afterward.
type ProductRow struct {
	Handle             string
	Barcode            string
	Title              string
	BodyHTML           string
	Vendor             string
	Category           string
	Type               string
	Tags               string
	OptionName         string
	OptionValue        string
	Grams              int
	InventoryTracker   string
	InventoryPolicy    string
	FulfillmentService string
	Price              float64
	CompareAtPrice     float64
	RequiresShipping   bool
	Taxable            bool
	ImageSrc           string
	GiftCard           bool
	WeightUnit         string
	Cost               float64
	IncludedUS         bool
	IncludedIntl       bool
	Status             string
}
