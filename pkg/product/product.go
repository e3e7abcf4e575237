// Package product defines the product rows and global settings the advisor
// evaluates. Values are treated as immutable: updates return new values.
package product

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError names the field that violated its contract.
type InvalidInputError struct {
	SKU    string
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.SKU == "" {
		return fmt.Sprintf("invalid input: %s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input for %s: %s %s", e.SKU, e.Field, e.Reason)
}

// Is reports ErrInvalidInput as a match.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Row is a single product's pricing, stock and ad performance over the
// current measurement window.
type Row struct {
	SKU                 string   `yaml:"sku" json:"sku" mapstructure:"sku"`
	Name                string   `yaml:"name" json:"name" mapstructure:"name"`
	Rank                *int     `yaml:"rank,omitempty" json:"rank,omitempty" mapstructure:"rank"`
	Price               float64  `yaml:"price" json:"price" mapstructure:"price"`
	BestCompetitorPrice *float64 `yaml:"bestCompetitorPrice,omitempty" json:"bestCompetitorPrice,omitempty" mapstructure:"bestCompetitorPrice"`
	Stock               int      `yaml:"stock" json:"stock" mapstructure:"stock"`
	CPC                 float64  `yaml:"cpc" json:"cpc" mapstructure:"cpc"`
	Clicks              int      `yaml:"clicks" json:"clicks" mapstructure:"clicks"`
	Conversions         int      `yaml:"conversions" json:"conversions" mapstructure:"conversions"`
	AdCost              float64  `yaml:"adCost" json:"adCost" mapstructure:"adCost"`
	ProfitPerUnit       float64  `yaml:"profitPerUnit" json:"profitPerUnit" mapstructure:"profitPerUnit"`
	AutoOptimize        bool     `yaml:"autoOptimize" json:"autoOptimize" mapstructure:"autoOptimize"`
}

// Settings holds the caller-owned global controls passed into every
// evaluation.
type Settings struct {
	DailyBudget  float64 `yaml:"dailyBudget" json:"dailyBudget" mapstructure:"dailyBudget"`
	TargetROAS   float64 `yaml:"targetROAS" json:"targetROAS" mapstructure:"targetROAS"`
	AutoOptimize bool    `yaml:"autoOptimize" json:"autoOptimize" mapstructure:"autoOptimize"`
}

// RankOr returns the known rank, or fallback when the row is unranked.
func (r Row) RankOr(fallback int) int {
	if r.Rank == nil {
		return fallback
	}
	return *r.Rank
}

// CompetitorPrice returns the best competitor price and whether one is known.
func (r Row) CompetitorPrice() (float64, bool) {
	if r.BestCompetitorPrice == nil {
		return 0, false
	}
	return *r.BestCompetitorPrice, true
}

// WithAutoOptimize returns a copy of the row with the flag replaced.
func (r Row) WithAutoOptimize(enabled bool) Row {
	r.AutoOptimize = enabled
	return r
}

// SetAutoOptimize returns a new collection where the row matching sku has
// its auto-optimize flag set. The input slice is left untouched. The bool
// reports whether a row matched.
func SetAutoOptimize(rows []Row, sku string, enabled bool) ([]Row, bool) {
	updated := make([]Row, len(rows))
	found := false
	for i, row := range rows {
		if row.SKU == sku {
			row = row.WithAutoOptimize(enabled)
			found = true
		}
		updated[i] = row
	}
	return updated, found
}

// IntPtr returns a pointer to v, for building rows with a known rank.
func IntPtr(v int) *int {
	return &v
}

// FloatPtr returns a pointer to v, for building rows with a known
// competitor price.
func FloatPtr(v float64) *float64 {
	return &v
}

// Validate checks the row's field contracts. The metric and rule functions
// never call it; it is for callers that want malformed data rejected.
func (r Row) Validate() error {
	invalid := func(field, reason string) error {
		return &InvalidInputError{SKU: r.SKU, Field: field, Reason: reason}
	}

	if r.SKU == "" {
		return invalid("sku", "must not be empty")
	}
	if r.Rank != nil && *r.Rank <= 0 {
		return invalid("rank", "must be a positive integer when set")
	}
	if !nonNegative(r.Price) {
		return invalid("price", "must be a non-negative number")
	}
	if r.BestCompetitorPrice != nil && !nonNegative(*r.BestCompetitorPrice) {
		return invalid("bestCompetitorPrice", "must be a non-negative number when set")
	}
	if r.Stock < 0 {
		return invalid("stock", "must not be negative")
	}
	if !nonNegative(r.CPC) {
		return invalid("cpc", "must be a non-negative number")
	}
	if r.Clicks < 0 {
		return invalid("clicks", "must not be negative")
	}
	if r.Conversions < 0 {
		return invalid("conversions", "must not be negative")
	}
	if !nonNegative(r.AdCost) {
		return invalid("adCost", "must be a non-negative number")
	}
	if math.IsNaN(r.ProfitPerUnit) || math.IsInf(r.ProfitPerUnit, 0) {
		return invalid("profitPerUnit", "must be a finite number")
	}
	return nil
}

// Validate checks the settings' field contracts.
func (s Settings) Validate() error {
	if !nonNegative(s.DailyBudget) {
		return &InvalidInputError{Field: "dailyBudget", Reason: "must be a non-negative number"}
	}
	if !nonNegative(s.TargetROAS) {
		return &InvalidInputError{Field: "targetROAS", Reason: "must be a non-negative number"}
	}
	return nil
}

// ValidateAll validates every row and rejects duplicate SKUs.
func ValidateAll(rows []Row) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		if _, dup := seen[row.SKU]; dup {
			return &InvalidInputError{SKU: row.SKU, Field: "sku", Reason: "must be unique"}
		}
		seen[row.SKU] = struct{}{}
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
