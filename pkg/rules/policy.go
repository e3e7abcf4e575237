package rules

import (
	"fmt"

	"github.com/iwvelando/ads-advisor/pkg/constants"
)

// Band is an adjustment range in percent, e.g. 10–15.
type Band struct {
	MinPercent float64 `json:"minPercent" yaml:"minPercent"`
	MaxPercent float64 `json:"maxPercent" yaml:"maxPercent"`
}

// String renders the band the way the dashboard labels it.
func (b Band) String() string {
	return fmt.Sprintf("%g–%g%%", b.MinPercent, b.MaxPercent)
}

func (b Band) validate(name string, ceiling float64) error {
	if b.MinPercent < 0 || b.MaxPercent < 0 {
		return fmt.Errorf("%s band must not be negative, got %s", name, b)
	}
	if b.MinPercent > b.MaxPercent {
		return fmt.Errorf("%s band minimum %g exceeds maximum %g", name, b.MinPercent, b.MaxPercent)
	}
	if ceiling > 0 && b.MaxPercent >= ceiling {
		return fmt.Errorf("%s band maximum must be below %g%%, got %g", name, ceiling, b.MaxPercent)
	}
	return nil
}

// Policy holds the thresholds the rules compare against.
type Policy struct {
	MinConversionRate float64 `json:"minConversionRate" yaml:"minConversionRate"`
	MaxHealthyRank    int     `json:"maxHealthyRank" yaml:"maxHealthyRank"`
	UnrankedPosition  int     `json:"unrankedPosition" yaml:"unrankedPosition"`
	BidDecrease       Band    `json:"bidDecrease" yaml:"bidDecrease"`
	BidIncrease       Band    `json:"bidIncrease" yaml:"bidIncrease"`
	PriceDecrease     Band    `json:"priceDecrease" yaml:"priceDecrease"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		MinConversionRate: constants.MinConversionRate,
		MaxHealthyRank:    constants.MaxHealthyRank,
		UnrankedPosition:  constants.UnrankedPosition,
		BidDecrease:       Band{MinPercent: constants.BidDecreaseMinPercent, MaxPercent: constants.BidDecreaseMaxPercent},
		BidIncrease:       Band{MinPercent: constants.BidIncreaseMinPercent, MaxPercent: constants.BidIncreaseMaxPercent},
		PriceDecrease:     Band{MinPercent: constants.PriceDecreaseMinPercent, MaxPercent: constants.PriceDecreaseMaxPercent},
	}
}

// Validate returns an error when a threshold cannot be used.
func (p Policy) Validate() error {
	if p.MinConversionRate < 0 || p.MinConversionRate > 1 {
		return fmt.Errorf("minimum conversion rate must be within [0, 1], got %g", p.MinConversionRate)
	}
	if p.MaxHealthyRank < 1 {
		return fmt.Errorf("maximum healthy rank must be at least 1, got %d", p.MaxHealthyRank)
	}
	if p.UnrankedPosition < 1 {
		return fmt.Errorf("unranked position must be at least 1, got %d", p.UnrankedPosition)
	}
	if err := p.BidDecrease.validate("bid decrease", 100); err != nil {
		return err
	}
	if err := p.BidIncrease.validate("bid increase", 0); err != nil {
		return err
	}
	return p.PriceDecrease.validate("price decrease", 100)
}
