package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Columns is the fixed destination schema, in order.
var Columns = []string{
	"Handle",
	"Variant Barcode",
	"Title",
	"Body (HTML)",
	"Vendor",
	"Product Category",
	"Type",
	"Tags",
	"Option1 Name",
	"Option1 Value",
	"Variant Grams",
	"Variant Inventory Tracker",
	"Variant Inventory Policy",
	"Variant Fulfillment Service",
	"Variant Price",
	"Variant Compare At Price",
	"Variant Requires Shipping",
	"Variant Taxable",
	"Image Src",
	"Gift Card",
	"Variant Weight Unit",
	"Cost per item",
	"Included / United States",
	"Included / International",
	"Status",
}

// OutputFileName is the import file name for a target date, e.g.
// "20250919_to_upload.csv".
func OutputFileName(target time.Time) string {
	return target.Format("20060102") + "_to_upload.csv"
}

// WriteCSV serializes rows to the destination schema. Money fields are
// rounded to currency precision here, and only here.
func WriteCSV(w io.Writer, products []ProductRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, p := range products {
		row := []string{
			p.Handle,
			p.Barcode,
			p.Title,
			p.BodyHTML,
			p.Vendor,
			p.Category,
			p.Type,
			p.Tags,
			p.OptionName,
			p.OptionValue,
			strconv.Itoa(p.Grams),
			p.InventoryTracker,
			p.InventoryPolicy,
			p.FulfillmentService,
			money(p.Price),
			money(p.CompareAtPrice),
			flag(p.RequiresShipping),
			flag(p.Taxable),
			p.ImageSrc,
			flag(p.GiftCard),
			p.WeightUnit,
			money(p.Cost),
			flag(p.IncludedUS),
			flag(p.IncludedIntl),
			p.Status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the import CSV into dir and returns its path.
func WriteFile(dir string, target time.Time, products []ProductRow) (string, error) {
	path := filepath.Join(dir, OutputFileName(target))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, products); err != nil {
		return "", err
	}

	return path, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func flag(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
