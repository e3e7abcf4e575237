// Package metrics derives per-product ad performance metrics from the raw
// counters of a product row.
package metrics

import (
	"encoding/json"

	"github.com/iwvelando/ads-advisor/pkg/mathutil"
	"github.com/iwvelando/ads-advisor/pkg/product"
)

// Optional is a value that may be not applicable. The zero value is absent.
type Optional struct {
	value float64
	valid bool
}

// Some returns a present Optional holding v.
func Some(v float64) Optional {
	return Optional{value: v, valid: true}
}

// NotApplicable returns an absent Optional.
func NotApplicable() Optional {
	return Optional{}
}

// Get returns the value and whether it is present.
func (o Optional) Get() (float64, bool) {
	return o.value, o.valid
}

// Valid reports whether a value is present.
func (o Optional) Valid() bool {
	return o.valid
}

// MarshalJSON encodes an absent value as null.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// MarshalYAML encodes an absent value as null.
func (o Optional) MarshalYAML() (interface{}, error) {
	if !o.valid {
		return nil, nil
	}
	return o.value, nil
}

// Derived holds the metrics computed from one product row.
type Derived struct {
	ConversionRate     float64  `json:"conversionRate"`
	CostPerAcquisition Optional `json:"costPerAcquisition"`
	ReturnOnAdSpend    float64  `json:"returnOnAdSpend"`
	BreakEvenCPC       float64  `json:"breakEvenCPC"`
}

// Compute derives the row's metrics. It never fails: zero clicks give a
// conversion rate of 0, zero conversions leave the CPA not applicable and
// zero spend gives a ROAS of 0. Break-even CPC is not clamped and is
// negative when each unit loses money.
func Compute(row product.Row) Derived {
	conversionRate := mathutil.Ratio(float64(row.Conversions), float64(row.Clicks))

	cpa := NotApplicable()
	if row.Conversions > 0 {
		cpa = Some(row.AdCost / float64(row.Conversions))
	}

	return Derived{
		ConversionRate:     conversionRate,
		CostPerAcquisition: cpa,
		ReturnOnAdSpend:    mathutil.Ratio(Revenue(row), row.AdCost),
		BreakEvenCPC:       row.ProfitPerUnit * conversionRate,
	}
}

// Revenue is the sales value attributed to the window.
func Revenue(row product.Row) float64 {
	return float64(row.Conversions) * row.Price
}
