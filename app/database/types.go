package database

import "time"

// Run is one recorded transformation run.
type Run struct {
	ID             int64
	TargetDate     string // YYYY-MM-DD
	SourceFile     string
	OutputFile     string
	Processed      int
	DateMatches    int
	VinylMatches   int
	SkippedMissing int
	SkippedDate    int
	SkippedFormat  int
	SkippedPrice   int
	ParseErrors    int
	Products       int
	DurationMS     int64
	CreatedAt      time.Time
}
