package rules

// Rules holds every business constant used by the transformation:
// pricing formula inputs, the accepted vinyl format set, the weight
// table, and the static values of the import row. Loaded once at
// startup and treated as read-only for the run.
type Rules struct {
	Pricing PricingRules `yaml:"pricing"`
	Formats FormatRules  `yaml:"formats"`
	Product ProductRules `yaml:"product"`
}

type PricingRules struct {
	CostMultiplier     float64 `yaml:"cost_multiplier"`      // estimated cost as a share of MSRP
	BaseMarkup         float64 `yaml:"base_markup"`          // margin over estimated cost
	MSRPMarginFloor    float64 `yaml:"msrp_margin_floor"`    // MSRP closer than this to the base price gets the compare-at bump
	MSRPMinimumMarkup  float64 `yaml:"msrp_minimum_markup"`  // compare-at bump when MSRP sits too close to cost
	ClubBaseMarkup     float64 `yaml:"club_base_markup"`     // club price margin over estimated cost
	ClubTier1Threshold float64 `yaml:"club_tier1_threshold"` // cost-diff above which the first tier applies
	ClubTier1Addition  float64 `yaml:"club_tier1_addition"`
	ClubTier2Threshold float64 `yaml:"club_tier2_threshold"` // re-evaluated after the first addition
	ClubTier2Addition  float64 `yaml:"club_tier2_addition"`
}

type FormatRules struct {
	Accepted      []string       `yaml:"accepted"`       // format descriptions that make it into the import
	Weights       map[string]int `yaml:"weights"`        // format description -> grams
	DefaultWeight int            `yaml:"default_weight"` // grams for unknown formats
}

type ProductRules struct {
	Vendor             string `yaml:"vendor"`
	Category           string `yaml:"category"`
	Type               string `yaml:"type"`
	OptionName         string `yaml:"option_name"`
	OptionValue        string `yaml:"option_value"`
	InventoryTracker   string `yaml:"inventory_tracker"`
	InventoryPolicy    string `yaml:"inventory_policy"`
	FulfillmentService string `yaml:"fulfillment_service"`
	WeightUnit         string `yaml:"weight_unit"`
	Status             string `yaml:"status"`
	TagPrefix          string `yaml:"tag_prefix"` // combined with preorder{YYYYMMDD}
	SupportEmail       string `yaml:"support_email"`
}

// AcceptsFormat reports whether a format description is in the
// accepted vinyl set.
func (r *Rules) AcceptsFormat(formatDesc string) bool {
	for _, f := range r.Formats.Accepted {
		if f == formatDesc {
			return true
		}
	}
	return false
}

// WeightGrams returns the shipping weight for a format description.
func (r *Rules) WeightGrams(formatDesc string) int {
	if grams, ok := r.Formats.Weights[formatDesc]; ok {
		return grams
	}
	return r.Formats.DefaultWeight
}
