// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/ads-advisor/pkg/product"
)

// CameraRow is a well-converting product that is undercut by a competitor.
func CameraRow() product.Row {
	return product.Row{
		SKU:                 "CAM.03",
		Name:                "Camera Auto DVR Nuvora 4K",
		Rank:                product.IntPtr(2),
		Price:               499.9,
		BestCompetitorPrice: product.FloatPtr(489.9),
		Stock:               73,
		CPC:                 1.9,
		Clicks:              47,
		Conversions:         2,
		AdCost:              89.1,
		ProfitPerUnit:       26.2,
		AutoOptimize:        true,
	}
}

// SterilizerRow is a well-converting product with poor placement.
func SterilizerRow() product.Row {
	return product.Row{
		SKU:                 "UV.01",
		Name:                "Sterilizator UV periute",
		Rank:                product.IntPtr(4),
		Price:               139.9,
		BestCompetitorPrice: product.FloatPtr(129.9),
		Stock:               38,
		CPC:                 0.85,
		Clicks:              120,
		Conversions:         8,
		AdCost:              102,
		ProfitPerUnit:       26.2,
		AutoOptimize:        false,
	}
}

// SampleRows returns the two-product sample portfolio.
func SampleRows() []product.Row {
	return []product.Row{CameraRow(), SterilizerRow()}
}

// DefaultSettings returns the sample global controls.
func DefaultSettings() product.Settings {
	return product.Settings{DailyBudget: 45, TargetROAS: 8, AutoOptimize: true}
}

// FindRow finds a row by SKU.
// Returns a pointer to the row if found, nil otherwise.
func FindRow(rows []product.Row, sku string) *product.Row {
	for i := range rows {
		if rows[i].SKU == sku {
			return &rows[i]
		}
	}
	return nil
}
