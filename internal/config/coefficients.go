// =============================================================================
// Eco-Consumption Analyzer - Coefficient Tables
// =============================================================================
//
// The coefficient tables are the fixed domain constants of the analysis:
//   - Green keywords that mark an item as eco-friendly
//   - Per-unit CO2 savings of eco-friendly items, by keyword
//   - Per-unit CO2 emission of the conventional equivalent, by keyword
//   - The fallback baseline emission when no keyword matches
//
// Tables are ordered lists rather than maps so that the iteration order used
// to resolve items matching several keywords is the declared order.
//
// A Coefficients value is never modified by the pipeline. Different runs may
// use different tables without interfering with each other.
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// COEFFICIENT STRUCTURES
// =============================================================================

// KeywordCoefficient maps a keyword to a per-unit amount of CO2 in kg.
type KeywordCoefficient struct {
	// Keyword is matched as a substring of the lower-cased item name.
	Keyword string `yaml:"keyword"`

	// KgPerUnit is the amount of CO2 per purchased unit, in kg.
	KgPerUnit float64 `yaml:"kg_per_unit"`
}

// MatchPolicy decides which coefficient applies when an item name contains
// more than one keyword of a table.
type MatchPolicy string

const (
	// MatchLast uses the last matching keyword in declared order.
	MatchLast MatchPolicy = "last"

	// MatchFirst uses the first matching keyword in declared order.
	MatchFirst MatchPolicy = "first"

	// MatchMax uses the matching keyword with the largest coefficient.
	// Ties resolve to the earliest declared keyword.
	MatchMax MatchPolicy = "max"
)

// Coefficients holds the keyword configuration of an analysis run.
type Coefficients struct {
	// GreenKeywords is the membership set for eco classification.
	// Entries are compared verbatim and must be lower-case.
	GreenKeywords []string `yaml:"green_keywords"`

	// Savings lists per-unit kg of CO2 saved by eco-friendly items.
	Savings []KeywordCoefficient `yaml:"co2_savings"`

	// BaseEmission lists per-unit kg of CO2 emitted by a conventional purchase.
	BaseEmission []KeywordCoefficient `yaml:"base_emission"`

	// DefaultBaseEmission is the per-unit baseline when no BaseEmission
	// keyword matches.
	DefaultBaseEmission float64 `yaml:"default_base_emission"`

	// CarKgPerKm converts kg of CO2 saved into km of average car travel.
	CarKgPerKm float64 `yaml:"car_kg_per_km"`

	// MatchPolicy resolves items matching several keywords.
	MatchPolicy MatchPolicy `yaml:"match_policy"`

	// OtherLabel is the name of the bucket collapsing small categories.
	OtherLabel string `yaml:"other_label"`
}

// =============================================================================
// DEFAULT TABLES
// =============================================================================

// DefaultCoefficients returns the built-in coefficient tables.
//
// Generic keywords are declared before specific ones so that, under the
// default "last" policy, a specific keyword wins over a generic one.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		GreenKeywords: []string{
			"친환경", "eco-friendly", "eco friendly",
			"유기농", "organic",
			"재활용", "recycled",
			"다회용", "reusable",
			"리필", "refill",
			"텀블러", "tumbler",
			"대나무", "bamboo",
			"무포장", "zero waste",
		},
		Savings: []KeywordCoefficient{
			{Keyword: "친환경", KgPerUnit: 0.1},
			{Keyword: "eco-friendly", KgPerUnit: 0.1},
			{Keyword: "eco friendly", KgPerUnit: 0.1},
			{Keyword: "유기농", KgPerUnit: 0.1},
			{Keyword: "organic", KgPerUnit: 0.1},
			{Keyword: "재활용", KgPerUnit: 0.15},
			{Keyword: "recycled", KgPerUnit: 0.15},
			{Keyword: "대나무", KgPerUnit: 0.05},
			{Keyword: "bamboo", KgPerUnit: 0.05},
			{Keyword: "무포장", KgPerUnit: 0.12},
			{Keyword: "zero waste", KgPerUnit: 0.12},
			{Keyword: "다회용", KgPerUnit: 0.25},
			{Keyword: "reusable", KgPerUnit: 0.25},
			{Keyword: "리필", KgPerUnit: 0.2},
			{Keyword: "refill", KgPerUnit: 0.2},
			{Keyword: "텀블러", KgPerUnit: 0.3},
			{Keyword: "tumbler", KgPerUnit: 0.3},
		},
		BaseEmission: []KeywordCoefficient{
			{Keyword: "플라스틱", KgPerUnit: 0.6},
			{Keyword: "plastic", KgPerUnit: 0.6},
			{Keyword: "비닐", KgPerUnit: 0.4},
			{Keyword: "vinyl", KgPerUnit: 0.4},
			{Keyword: "컵", KgPerUnit: 0.3},
			{Keyword: "cup", KgPerUnit: 0.3},
			{Keyword: "병", KgPerUnit: 0.5},
			{Keyword: "bottle", KgPerUnit: 0.5},
			{Keyword: "세제", KgPerUnit: 0.7},
			{Keyword: "detergent", KgPerUnit: 0.7},
			{Keyword: "칫솔", KgPerUnit: 0.1},
			{Keyword: "toothbrush", KgPerUnit: 0.1},
			{Keyword: "텀블러", KgPerUnit: 0.8},
			{Keyword: "tumbler", KgPerUnit: 0.8},
		},
		DefaultBaseEmission: 0.5,
		CarKgPerKm:          0.17,
		MatchPolicy:         MatchLast,
		OtherLabel:          "other",
	}
}

// =============================================================================
// LOADING
// =============================================================================

// LoadCoefficients loads coefficient tables from a YAML file.
//
// The file is decoded over the built-in defaults: a key present in the file
// replaces the default value (lists are replaced as a whole), a key absent
// from the file keeps the default.
//
// PARAMETERS:
//   - path: The path to the coefficients file. Empty means built-in defaults.
//
// RETURNS:
//   - The validated Coefficients.
//   - An error if the file cannot be read, parsed or validated.
func LoadCoefficients(path string) (Coefficients, error) {
	coef := DefaultCoefficients()
	if path == "" {
		return coef, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Coefficients{}, fmt.Errorf("failed to read coefficients file: %w", err)
	}

	if err := yaml.Unmarshal(data, &coef); err != nil {
		return Coefficients{}, fmt.Errorf("failed to parse coefficients file: %w", err)
	}

	if err := coef.Validate(); err != nil {
		return Coefficients{}, fmt.Errorf("invalid coefficients: %w", err)
	}

	return coef, nil
}

// Validate checks the coefficient tables for values that can never be
// meaningful: empty or non-lower-case keywords, negative coefficients,
// a non-positive car conversion factor and unknown match policies.
func (c Coefficients) Validate() error {
	for _, kw := range c.GreenKeywords {
		if err := validateKeyword(kw); err != nil {
			return fmt.Errorf("green_keywords: %w", err)
		}
	}

	for _, table := range []struct {
		name    string
		entries []KeywordCoefficient
	}{
		{"co2_savings", c.Savings},
		{"base_emission", c.BaseEmission},
	} {
		for _, e := range table.entries {
			if err := validateKeyword(e.Keyword); err != nil {
				return fmt.Errorf("%s: %w", table.name, err)
			}
			if e.KgPerUnit < 0 {
				return fmt.Errorf("%s: keyword %q has negative coefficient %v", table.name, e.Keyword, e.KgPerUnit)
			}
		}
	}

	if c.DefaultBaseEmission < 0 {
		return fmt.Errorf("default_base_emission must not be negative")
	}
	if c.CarKgPerKm <= 0 {
		return fmt.Errorf("car_kg_per_km must be positive")
	}

	switch c.MatchPolicy {
	case MatchLast, MatchFirst, MatchMax:
	default:
		return fmt.Errorf("unknown match_policy %q", c.MatchPolicy)
	}

	return nil
}

// validateKeyword rejects keywords that could never match a lower-cased name.
func validateKeyword(kw string) error {
	if strings.TrimSpace(kw) == "" {
		return fmt.Errorf("empty keyword")
	}
	if strings.ToLower(kw) != kw {
		return fmt.Errorf("keyword %q must be lower-case", kw)
	}
	return nil
}

// Marshal renders the coefficient tables as YAML.
func (c Coefficients) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
