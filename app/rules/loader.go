package rules

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load returns the business rules, optionally overridden by a YAML
// file. An empty path yields the built-in defaults.
func Load(path string) (*Rules, error) {
	rules := &Rules{}
	setDefaults(rules)

	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	// Lists and maps left empty in the file fall back to defaults
	setDefaults(rules)

	if err := validate(rules); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}

	slog.Debug("Rules loaded", "file", path, "accepted_formats", len(rules.Formats.Accepted))

	return rules, nil
}

func setDefaults(r *Rules) {
	p := &r.Pricing
	if p.CostMultiplier == 0 {
		p.CostMultiplier = 0.77
	}
	if p.BaseMarkup == 0 {
		p.BaseMarkup = 6
	}
	if p.MSRPMarginFloor == 0 {
		p.MSRPMarginFloor = 6
	}
	if p.MSRPMinimumMarkup == 0 {
		p.MSRPMinimumMarkup = 7
	}
	if p.ClubBaseMarkup == 0 {
		p.ClubBaseMarkup = 6
	}
	if p.ClubTier1Threshold == 0 {
		p.ClubTier1Threshold = 14
	}
	if p.ClubTier1Addition == 0 {
		p.ClubTier1Addition = 4
	}
	if p.ClubTier2Threshold == 0 {
		p.ClubTier2Threshold = 20
	}
	if p.ClubTier2Addition == 0 {
		p.ClubTier2Addition = 9
	}

	f := &r.Formats
	if len(f.Accepted) == 0 {
		f.Accepted = []string{"12-INCH SINGLE", "7-INCH SINGLE", "VINYL LP"}
	}
	if len(f.Weights) == 0 {
		f.Weights = map[string]int{
			"VINYL LP":       180,
			"12-INCH SINGLE": 140,
			"7-INCH SINGLE":  40,
		}
	}
	if f.DefaultWeight == 0 {
		f.DefaultWeight = 180
	}

	pr := &r.Product
	if pr.Vendor == "" {
		pr.Vendor = "Alliance Entertainment"
	}
	if pr.Category == "" {
		pr.Category = "Media > Music & Sound Recordings > Records & LPs"
	}
	if pr.Type == "" {
		pr.Type = "Records & LPs"
	}
	if pr.OptionName == "" {
		pr.OptionName = "Title"
	}
	if pr.OptionValue == "" {
		pr.OptionValue = "Default Title"
	}
	if pr.InventoryTracker == "" {
		pr.InventoryTracker = "shopify"
	}
	if pr.InventoryPolicy == "" {
		pr.InventoryPolicy = "continue"
	}
	if pr.FulfillmentService == "" {
		pr.FulfillmentService = "manual"
	}
	if pr.WeightUnit == "" {
		pr.WeightUnit = "lb"
	}
	if pr.Status == "" {
		pr.Status = "draft"
	}
	if pr.TagPrefix == "" {
		pr.TagPrefix = "preorder club"
	}
	if pr.SupportEmail == "" {
		pr.SupportEmail = "info@latchkeyrecords.com"
	}
}

func validate(r *Rules) error {
	if r.Pricing.CostMultiplier <= 0 {
		return fmt.Errorf("cost multiplier must be positive")
	}
	if r.Pricing.ClubTier1Threshold < 0 || r.Pricing.ClubTier2Threshold < 0 {
		return fmt.Errorf("club tier thresholds must be non-negative")
	}
	if len(r.Formats.Accepted) == 0 {
		return fmt.Errorf("at least one accepted format is required")
	}
	if r.Formats.DefaultWeight <= 0 {
		return fmt.Errorf("default weight must be positive")
	}
	for format, grams := range r.Formats.Weights {
		if grams <= 0 {
			return fmt.Errorf("weight for format %q must be positive", format)
		}
	}
	return nil
}
