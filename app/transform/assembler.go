package transform

import (
	"time"

	"github.com/latchkeyrecords/preorder-gen/app/catalog"
	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Assembler maps one matched record plus its computed pricing into a
// complete import row. Everything conditional already happened
// upstream; this is a straight field mapping.
type Assembler struct {
	rules   *rules.Rules
	builder *Builder
}

func NewAssembler(r *rules.Rules, target time.Time) *Assembler {
	return &Assembler{
		rules:   r,
		builder: NewBuilder(r, target),
	}
}

func (a *Assembler) Run(rec catalog.Record, pricing Pricing) ProductRow {
	product := a.rules.Product

	return ProductRow{
		Handle:             a.builder.Handle(rec.Artist, rec.Title, rec.Details),
		Barcode:            rec.Barcode,
		Title:              a.builder.Title(rec.Artist, rec.Title, rec.Details),
		BodyHTML:           a.builder.Description(rec.Notes),
		Vendor:             product.Vendor,
		Category:           product.Category,
		Type:               product.Type,
		Tags:               a.builder.Tags(),
		OptionName:         product.OptionName,
		OptionValue:        product.OptionValue,
		Grams:              a.rules.WeightGrams(rec.FormatDesc),
		InventoryTracker:   product.InventoryTracker,
		InventoryPolicy:    product.InventoryPolicy,
		FulfillmentService: product.FulfillmentService,
		Price:              pricing.Club,
		CompareAtPrice:     pricing.CompareAt,
		RequiresShipping:   true,
		Taxable:            true,
		ImageSrc:           rec.ImageURL,
		GiftCard:           false,
		WeightUnit:         product.WeightUnit,
		Cost:               pricing.Cost,
		IncludedUS:         true,
		IncludedIntl:       true,
		Status:             product.Status,
	}
}
