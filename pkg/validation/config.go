// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
)

// ProductInfo is the subset of a product row the warnings look at.
type ProductInfo struct {
	SKU                string
	Stock              int
	Clicks             int
	Conversions        int
	AdCost             float64
	HasRank            bool
	HasCompetitorPrice bool
	ProfitPerUnit      float64
}

// ValidateProductData returns warnings for data that is legal but likely to
// skew the recommendation.
func ValidateProductData(p ProductInfo) []string {
	var warnings []string

	if p.Conversions > p.Clicks {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has more conversions than clicks (%d > %d) - conversion rate will exceed 100%%",
			p.SKU, p.Conversions, p.Clicks))
	}
	if p.Clicks == 0 && p.AdCost > 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has ad spend but no clicks - conversion rate is reported as 0", p.SKU))
	}
	if !p.HasRank {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has no rank - assuming worst placement", p.SKU))
	}
	if !p.HasCompetitorPrice {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has no competitor price - price rule is skipped", p.SKU))
	}
	if p.Stock == 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' is out of stock", p.SKU))
	}
	if p.ProfitPerUnit < 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' loses money per unit - any bid is unprofitable", p.SKU))
	}

	return warnings
}

// CatalogValidator checks a whole product catalog.
type CatalogValidator struct {
	Products    []ProductInfo
	DailyBudget float64
}

// ValidateAll validates the entire catalog and returns warnings
func (cv *CatalogValidator) ValidateAll() []string {
	var warnings []string

	if len(cv.Products) == 0 {
		warnings = append(warnings, "No products configured - portfolio KPIs will be zero")
	}

	seen := make(map[string]int)
	for _, p := range cv.Products {
		seen[p.SKU]++
		warnings = append(warnings, ValidateProductData(p)...)
	}

	for _, p := range cv.Products {
		if count := seen[p.SKU]; count > 1 {
			warnings = append(warnings, fmt.Sprintf("SKU '%s' is configured %d times", p.SKU, count))
			seen[p.SKU] = 0
		}
	}

	if cv.DailyBudget == 0 {
		warnings = append(warnings, "Daily budget is 0")
	}

	return warnings
}
