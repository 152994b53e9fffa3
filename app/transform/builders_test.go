package transform

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var testTarget = time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(defaultRules(t), testTarget)
}

func TestDetails(t *testing.T) {
	b := testBuilder(t)

	cases := []struct {
		input string
		want  string
	}{
		{"LTD^COLORED VINYL^GATEFOLD", "Ltd, Colored Vinyl, Gatefold"},
		{"LP^CD^RSD EXCLUSIVE", "LP, CD, RSD Exclusive"},
		{"AUTOGRAPHED / STAR SIGNED", "Autographed/Star Signed"},
		{"  LTD  ^  ^GATEFOLD  ", "Ltd, Gatefold"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := b.Details(tc.input); got != tc.want {
			t.Errorf("Details(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTitle(t *testing.T) {
	b := testBuilder(t)

	got := b.Title("Test Artist", "Test Album", "")
	if got != "Test Artist - Test Album LP" {
		t.Errorf("Unexpected title: %q", got)
	}

	got = b.Title("Test Artist", "Test Album", "LTD^COLORED VINYL")
	want := "Test Artist - Test Album LP (Ltd, Colored Vinyl)"
	if got != want {
		t.Errorf("Title = %q, want %q", got, want)
	}
}

func TestHandle(t *testing.T) {
	b := testBuilder(t)

	got := b.Handle("Test Artist", "Test Album", "LTD^COLORED VINYL")
	want := "test-artist-test-album-ltd-colored-vinyl-20250919"
	if got != want {
		t.Errorf("Handle = %q, want %q", got, want)
	}

	// Empty parts are dropped entirely
	got = b.Handle("Test Artist", "Test Album", "")
	want = "test-artist-test-album-20250919"
	if got != want {
		t.Errorf("Handle = %q, want %q", got, want)
	}
}

func TestHandleCharsetAndIdempotence(t *testing.T) {
	b := testBuilder(t)

	valid := regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

	inputs := [][3]string{
		{"Sigur Rós", "Ágætis byrjun", ""},
		{"AC/DC", "Back in Black!!!", "LTD^180G"},
		{"  Weird -- Spacing  ", "Album (Deluxe)", "^^"},
	}

	for _, input := range inputs {
		first := b.Handle(input[0], input[1], input[2])
		second := b.Handle(input[0], input[1], input[2])

		if first != second {
			t.Errorf("Handle not idempotent: %q vs %q", first, second)
		}
		if !valid.MatchString(first) {
			t.Errorf("Handle %q contains invalid characters or dangling dashes", first)
		}
		if strings.Contains(first, "--") {
			t.Errorf("Handle %q contains consecutive dashes", first)
		}
	}
}

func TestDescription(t *testing.T) {
	b := testBuilder(t)

	got := b.Description("A fantastic debut album.")
	if !strings.Contains(got, "This is a preorder for 09/19/2025!") {
		t.Errorf("Description missing dated preamble: %q", got)
	}
	if !strings.Contains(got, "info@latchkeyrecords.com") {
		t.Errorf("Description missing support contact: %q", got)
	}
	if !strings.HasSuffix(got, "<p>A fantastic debut album.</p>") {
		t.Errorf("Plain-text notes should be wrapped in a paragraph: %q", got)
	}
}

func TestDescriptionPreformattedNotes(t *testing.T) {
	b := testBuilder(t)

	notes := "<div>Already HTML</div>"
	got := b.Description(notes)
	if !strings.HasSuffix(got, notes) {
		t.Errorf("Pre-formatted notes should pass through unwrapped: %q", got)
	}
	if strings.Contains(got, "<p><div>") {
		t.Errorf("Pre-formatted notes were double-wrapped: %q", got)
	}
}

func TestDescriptionAbsentNotes(t *testing.T) {
	b := testBuilder(t)

	got := b.Description("")
	if !strings.HasSuffix(got, "questions!</p>") {
		t.Errorf("Absent notes should leave only the preamble: %q", got)
	}
}

func TestTags(t *testing.T) {
	b := testBuilder(t)

	if got := b.Tags(); got != "preorder club,preorder20250919" {
		t.Errorf("Tags = %q, want 'preorder club,preorder20250919'", got)
	}
}
