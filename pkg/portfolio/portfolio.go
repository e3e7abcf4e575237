// Package portfolio aggregates fleet-wide KPIs across product rows.
package portfolio

import (
	"github.com/iwvelando/ads-advisor/pkg/mathutil"
	"github.com/iwvelando/ads-advisor/pkg/metrics"
	"github.com/iwvelando/ads-advisor/pkg/product"
)

// KPIs summarizes a product collection. Ratios are 0 when their
// denominator is 0, never NaN.
type KPIs struct {
	Revenue               float64 `json:"revenue"`
	Cost                  float64 `json:"cost"`
	GrossProfit           float64 `json:"grossProfit"`
	NetProfit             float64 `json:"netProfit"`
	TotalClicks           int     `json:"totalClicks"`
	TotalConversions      int     `json:"totalConversions"`
	BlendedConversionRate float64 `json:"blendedConversionRate"`
	BlendedROAS           float64 `json:"blendedROAS"`
}

// Aggregate sums the rows. An empty collection yields all-zero KPIs.
func Aggregate(rows []product.Row) KPIs {
	var k KPIs
	for _, row := range rows {
		k.Revenue += metrics.Revenue(row)
		k.Cost += row.AdCost
		k.GrossProfit += float64(row.Conversions) * row.ProfitPerUnit
		k.TotalClicks += row.Clicks
		k.TotalConversions += row.Conversions
	}
	k.NetProfit = k.GrossProfit - k.Cost
	k.BlendedConversionRate = mathutil.Ratio(float64(k.TotalConversions), float64(k.TotalClicks))
	k.BlendedROAS = mathutil.Ratio(k.Revenue, k.Cost)
	return k
}

// Profitable reports whether the portfolio's ad spend is covered by profit.
func (k KPIs) Profitable() bool {
	return k.NetProfit >= 0
}
