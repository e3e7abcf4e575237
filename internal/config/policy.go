package config

import (
	"fmt"

	"github.com/iwvelando/ads-advisor/pkg/rules"
)

// PolicyConfig overrides rule thresholds.
//
// A zero field is treated as unset and keeps the default from
// rules.DefaultPolicy, so a threshold or band edge cannot be overridden to
// exactly zero. Use a small positive value instead, for example
// minConversionRate: 0.0001.
type PolicyConfig struct {
	MinConversionRate float64    `yaml:"minConversionRate,omitempty" mapstructure:"minConversionRate"`
	MaxHealthyRank    int        `yaml:"maxHealthyRank,omitempty" mapstructure:"maxHealthyRank"`
	UnrankedPosition  int        `yaml:"unrankedPosition,omitempty" mapstructure:"unrankedPosition"`
	BidDecrease       BandConfig `yaml:"bidDecrease,omitempty" mapstructure:"bidDecrease"`
	BidIncrease       BandConfig `yaml:"bidIncrease,omitempty" mapstructure:"bidIncrease"`
	PriceDecrease     BandConfig `yaml:"priceDecrease,omitempty" mapstructure:"priceDecrease"`
}

// BandConfig overrides an adjustment band, in percent. Zero edges keep the
// default edge.
type BandConfig struct {
	Min float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max float64 `yaml:"max,omitempty" mapstructure:"max"`
}

func (b BandConfig) apply(band *rules.Band) {
	if b.Min != 0 {
		band.MinPercent = b.Min
	}
	if b.Max != 0 {
		band.MaxPercent = b.Max
	}
}

// Resolve merges the overrides onto the default policy and validates the
// result.
func (p PolicyConfig) Resolve() (rules.Policy, error) {
	policy := rules.DefaultPolicy()

	if p.MinConversionRate != 0 {
		policy.MinConversionRate = p.MinConversionRate
	}
	if p.MaxHealthyRank != 0 {
		policy.MaxHealthyRank = p.MaxHealthyRank
	}
	if p.UnrankedPosition != 0 {
		policy.UnrankedPosition = p.UnrankedPosition
	}
	p.BidDecrease.apply(&policy.BidDecrease)
	p.BidIncrease.apply(&policy.BidIncrease)
	p.PriceDecrease.apply(&policy.PriceDecrease)

	if err := policy.Validate(); err != nil {
		return rules.Policy{}, fmt.Errorf("invalid policy: %w", err)
	}
	return policy, nil
}
