package transform

import (
	"strconv"
	"strings"

	"github.com/latchkeyrecords/preorder-gen/app/rules"
)

// Pricing holds the three derived price fields. Values stay unrounded
// until serialization so intermediate rounding never compounds.
type Pricing struct {
	Cost      float64 // estimated wholesale cost
	CompareAt float64 // adjusted list price shown struck through
	Club      float64 // tiered subscription price
}

// Calculator derives all pricing from a single MSRP using the
// configured constants.
type Calculator struct {
	rules rules.PricingRules
}

func NewCalculator(r rules.PricingRules) *Calculator {
	return &Calculator{rules: r}
}

// Run parses a raw MSRP and applies the pricing formula. ok is false
// only when the MSRP does not parse as a decimal number; the caller
// skips the record. Zero and negative MSRPs flow through the formula
// as-is, negative club prices included.
func (c *Calculator) Run(rawMSRP string) (Pricing, bool) {
	msrp, err := strconv.ParseFloat(strings.TrimSpace(rawMSRP), 64)
	if err != nil {
		return Pricing{}, false
	}

	cost := msrp * c.rules.CostMultiplier

	// Bump the compare-at price when the list price sits too close to cost
	basePrice := cost + c.rules.BaseMarkup
	compareAt := msrp
	if msrp < basePrice+c.rules.MSRPMarginFloor {
		compareAt = basePrice + c.rules.MSRPMinimumMarkup
	}

	club := cost + c.rules.ClubBaseMarkup
	if club-cost > c.rules.ClubTier1Threshold {
		club += c.rules.ClubTier1Addition
	}
	// Checked against the margin left after the first addition
	if club-cost > c.rules.ClubTier2Threshold {
		club += c.rules.ClubTier2Addition
	}

	return Pricing{Cost: cost, CompareAt: compareAt, Club: club}, true
}
