package rules

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	rules, err := Load("")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if rules.Pricing.CostMultiplier != 0.77 {
		t.Errorf("Expected cost multiplier 0.77, got %v", rules.Pricing.CostMultiplier)
	}
	if rules.Pricing.BaseMarkup != 6 {
		t.Errorf("Expected base markup 6, got %v", rules.Pricing.BaseMarkup)
	}
	if rules.Pricing.MSRPMarginFloor != 6 {
		t.Errorf("Expected MSRP margin floor 6, got %v", rules.Pricing.MSRPMarginFloor)
	}
	if rules.Pricing.MSRPMinimumMarkup != 7 {
		t.Errorf("Expected MSRP minimum markup 7, got %v", rules.Pricing.MSRPMinimumMarkup)
	}
	if rules.Pricing.ClubTier1Threshold != 14 || rules.Pricing.ClubTier1Addition != 4 {
		t.Errorf("Unexpected tier 1 values: %v / %v",
			rules.Pricing.ClubTier1Threshold, rules.Pricing.ClubTier1Addition)
	}
	if rules.Pricing.ClubTier2Threshold != 20 || rules.Pricing.ClubTier2Addition != 9 {
		t.Errorf("Unexpected tier 2 values: %v / %v",
			rules.Pricing.ClubTier2Threshold, rules.Pricing.ClubTier2Addition)
	}

	if len(rules.Formats.Accepted) != 3 {
		t.Fatalf("Expected 3 accepted formats, got %d", len(rules.Formats.Accepted))
	}
	if !rules.AcceptsFormat("VINYL LP") {
		t.Error("Expected VINYL LP to be accepted")
	}
	if rules.AcceptsFormat("CD") {
		t.Error("Expected CD to be rejected")
	}

	if rules.WeightGrams("VINYL LP") != 180 {
		t.Errorf("Expected 180 grams for VINYL LP, got %d", rules.WeightGrams("VINYL LP"))
	}
	if rules.WeightGrams("12-INCH SINGLE") != 140 {
		t.Errorf("Expected 140 grams for 12-INCH SINGLE, got %d", rules.WeightGrams("12-INCH SINGLE"))
	}
	if rules.WeightGrams("7-INCH SINGLE") != 40 {
		t.Errorf("Expected 40 grams for 7-INCH SINGLE, got %d", rules.WeightGrams("7-INCH SINGLE"))
	}
	if rules.WeightGrams("CASSETTE") != 180 {
		t.Errorf("Expected default 180 grams for unknown format, got %d", rules.WeightGrams("CASSETTE"))
	}

	if rules.Product.Status != "draft" {
		t.Errorf("Expected status 'draft', got '%s'", rules.Product.Status)
	}
	if rules.Product.Vendor != "Alliance Entertainment" {
		t.Errorf("Expected vendor 'Alliance Entertainment', got '%s'", rules.Product.Vendor)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")

	content := `pricing:
  cost_multiplier: 0.8
  base_markup: 5
product:
  vendor: "Test Distro"
formats:
  accepted:
    - "VINYL LP"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	rules, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if rules.Pricing.CostMultiplier != 0.8 {
		t.Errorf("Expected overridden cost multiplier 0.8, got %v", rules.Pricing.CostMultiplier)
	}
	if rules.Pricing.BaseMarkup != 5 {
		t.Errorf("Expected overridden base markup 5, got %v", rules.Pricing.BaseMarkup)
	}
	if rules.Product.Vendor != "Test Distro" {
		t.Errorf("Expected overridden vendor, got '%s'", rules.Product.Vendor)
	}
	// Untouched values keep their defaults
	if rules.Pricing.MSRPMinimumMarkup != 7 {
		t.Errorf("Expected default MSRP minimum markup 7, got %v", rules.Pricing.MSRPMinimumMarkup)
	}
	if len(rules.Formats.Accepted) != 1 {
		t.Errorf("Expected 1 accepted format, got %d", len(rules.Formats.Accepted))
	}
	if rules.AcceptsFormat("7-INCH SINGLE") {
		t.Error("Expected 7-INCH SINGLE to be rejected with narrowed accepted set")
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yml")

	content := `pricing:
  cost_multiplier: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for negative cost multiplier")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/rules.yml"); err == nil {
		t.Error("Expected error for missing rules file")
	}
}
