package transform

import (
	"time"

	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Matcher applies the two-stage predicate gating catalog records into
// the import: calendar-date equality first, then membership in the
// accepted vinyl format set.
type Matcher struct {
	rules  *rules.Rules
	target time.Time
}

func NewMatcher(r *rules.Rules, target time.Time) *Matcher {
	return &Matcher{rules: r, target: target}
}

// Match classifies a record. A non-empty SkipReason means the record
// is skipped; stats bookkeeping is the caller's concern.
func (m *Matcher) Match(rec catalog.Record) (dateMatched bool, reason SkipReason) {
	if rec.Artist == "" || rec.Title == "" {
		return false, SkipMissingFields
	}

	availDate, ok := catalog.ParseAvailDate(rec.AvailDate)
	if !ok || !availDate.Equal(m.target) {
		return false, SkipDateMismatch
	}

	if !m.rules.AcceptsFormat(rec.FormatDesc) {
		return true, SkipFormatMismatch
	}

	return true, ""
}
