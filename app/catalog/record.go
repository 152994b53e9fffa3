package catalog

import "strings"

// Upstream exports absent values as the literal token "nan" (any
// case), inherited from the feed producer.
const nullMarker = "nan"

// Record is one normalized row of the wholesale catalog feed. Fields
// are trimmed and null-markers collapsed to empty strings; a record is
// immutable once built.
type Record struct {
	Artist     string // Artist
	Title      string // ItemName
	FormatDesc string // FormatDesc
	ItemFormat string // ItemFormat (informational only)
	Barcode    string // Barcode, spurious ".0" suffix removed
	MSRP       string // MSRP, raw text, parsed by the pricing engine
	AvailDate  string // AvailDt, raw text, parsed by the date parser
	Details    string // DelimMisc, caret-separated tags
	Notes      string // ItemNotes, free text or pre-formatted HTML
	ImageURL   string // ImgHttpPath
}

// columns required in the feed header. ItemFormat and the remaining
// named columns are optional; missing cells read as empty.
var requiredColumns = []string{"Artist", "ItemName"}

func newRecord(headers map[string]int, row []string) Record {
	get := func(column string) string {
		return cleanField(cell(headers, row, column))
	}

	return Record{
		Artist:     get("Artist"),
		Title:      get("ItemName"),
		FormatDesc: get("FormatDesc"),
		ItemFormat: get("ItemFormat"),
		Barcode:    cleanBarcode(get("Barcode")),
		MSRP:       get("MSRP"),
		AvailDate:  get("AvailDt"),
		Details:    get("DelimMisc"),
		Notes:      get("ItemNotes"),
		ImageURL:   get("ImgHttpPath"),
	}
}

func cell(headers map[string]int, row []string, column string) string {
	idx, ok := headers[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// cleanField trims whitespace and collapses the upstream null marker
// to an empty string.
func cleanField(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, nullMarker) {
		return ""
	}
	return value
}

// cleanBarcode removes the spurious decimal suffix some barcodes carry
// from an upstream float conversion ("190296944857.0").
func cleanBarcode(barcode string) string {
	return strings.TrimSuffix(barcode, ".0")
}
