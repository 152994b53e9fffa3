package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Builder produces the display title, URL handle, and HTML body for
// one target release date.
type Builder struct {
	rules  *rules.Rules
	target time.Time
}

func NewBuilder(r *rules.Rules, target time.Time) *Builder {
	return &Builder{rules: r, target: target}
}

// Terms the title caser mangles, restored to canonical casing.
var detailReplacer = strings.NewReplacer(
	"Lp", "LP",
	"Ep", "EP",
	"Cd", "CD",
	"Rsd", "RSD",
)

var (
	handleInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)
	handleDashRuns     = regexp.MustCompile(`-+`)
)

// Details converts the caret-delimited ALL CAPS detail tags into
// readable mixed case: "LTD^COLORED VINYL" -> "Ltd, Colored Vinyl".
func (b *Builder) Details(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	caser := cases.Title(language.English)

	var formatted []string
	for _, part := range strings.Split(raw, "^") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		part = detailReplacer.Replace(caser.String(part))

		// "Autographed / Star Signed" -> "Autographed/Star Signed"
		if strings.Contains(part, "/") {
			segments := strings.Split(part, "/")
			for i, segment := range segments {
				segments[i] = strings.TrimSpace(segment)
			}
			part = strings.Join(segments, "/")
		}

		formatted = append(formatted, part)
	}

	return strings.Join(formatted, ", ")
}

// Title builds "{artist} - {title} LP", appending the formatted
// details in parentheses when present.
func (b *Builder) Title(artist, title, rawDetails string) string {
	result := fmt.Sprintf("%s - %s LP", artist, title)

	if details := b.Details(rawDetails); details != "" {
		result += fmt.Sprintf(" (%s)", details)
	}

	return result
}

// Handle builds the URL-safe slug unique per artist+title+details+
// release date. Idempotent: same inputs always give the same handle.
func (b *Builder) Handle(artist, title, rawDetails string) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{artist, title, rawDetails, b.target.Format("20060102")} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	handle := strings.ToLower(strings.Join(parts, "-"))
	handle = handleInvalidChars.ReplaceAllString(handle, "-")
	handle = handleDashRuns.ReplaceAllString(handle, "-")
	return strings.Trim(handle, "-")
}

// Description builds the HTML body: the preorder preamble for the
// target date, then the record's notes wrapped in a paragraph unless
// they are already HTML.
func (b *Builder) Description(notes string) string {
	description := fmt.Sprintf(
		"<p>This is a preorder for %s! We will ship as soon as your full order arrives, "+
			"which will usually be that day or the following day. Occasionally, it may be "+
			"up to a week later. See the full list of the week for more details, and email "+
			"%s with any questions!</p>",
		b.target.Format("01/02/2006"), b.rules.Product.SupportEmail)

	notes = strings.TrimSpace(notes)
	if notes != "" {
		if !strings.HasPrefix(notes, "<") {
			notes = fmt.Sprintf("<p>%s</p>", notes)
		}
		description += notes
	}

	return description
}

// Tags returns the collection tags for the target date, e.g.
// "preorder club,preorder20250919".
func (b *Builder) Tags() string {
	return fmt.Sprintf("%s,preorder%s", b.rules.Product.TagPrefix, b.target.Format("20060102"))
}
