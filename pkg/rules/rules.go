// Package rules turns a product's raw fields and derived metrics into one
// recommended action.
//
// The rules are evaluated in order and the first match wins:
//
//  1. cpc above break-even with weak conversion: decrease bid
//  2. poor (or unknown) placement with healthy conversion: increase bid
//  3. a cheaper competitor while stock remains: decrease price
//  4. ROAS below target with healthy conversion: optimize listing
//  5. otherwise: hold
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/iwvelando/ads-advisor/pkg/metrics"
	"github.com/iwvelando/ads-advisor/pkg/product"
)

// Action is the closed set of recommended actions.
type Action string

const (
	ActionDecreaseBid     Action = "decrease-bid"
	ActionIncreaseBid     Action = "increase-bid"
	ActionDecreasePrice   Action = "decrease-price"
	ActionOptimizeListing Action = "optimize-listing"
	ActionHold            Action = "hold"
)

// Actions lists every action in rule order.
var Actions = []Action{ActionDecreaseBid, ActionIncreaseBid, ActionDecreasePrice, ActionOptimizeListing, ActionHold}

// Tone classifies how a recommendation should be presented.
type Tone string

const (
	ToneDestructive Tone = "destructive"
	ToneDefault     Tone = "default"
	ToneSecondary   Tone = "secondary"
	ToneOutline     Tone = "outline"
)

// Tone returns the presentation tone for the action.
func (a Action) Tone() Tone {
	switch a {
	case ActionDecreaseBid:
		return ToneDestructive
	case ActionIncreaseBid:
		return ToneDefault
	case ActionDecreasePrice, ActionOptimizeListing:
		return ToneSecondary
	default:
		return ToneOutline
	}
}

// Urgent reports whether the action should be applied before anything else.
func (a Action) Urgent() bool {
	return a == ActionDecreaseBid
}

// Input is everything a rule may look at.
type Input struct {
	Row      product.Row
	Metrics  metrics.Derived
	Settings product.Settings
}

// Rule pairs a predicate with the action it recommends.
type Rule struct {
	Name    string
	Action  Action
	Matches func(p Policy, in Input) bool
}

// Range is a proposed new value for the adjusted field, rounded to cents.
type Range struct {
	Field   string  `json:"field"`
	Current float64 `json:"current"`
	Low     float64 `json:"low"`
	High    float64 `json:"high"`
}

// Recommendation is the single outcome for one product.
type Recommendation struct {
	Action     Action `json:"action"`
	Tone       Tone   `json:"tone"`
	Label      string `json:"label"`
	Rule       string `json:"rule"`
	Adjustment *Band  `json:"adjustment,omitempty"`
	Target     *Range `json:"target,omitempty"`
}

// DefaultRules returns the ordered rule list. Hold is not a rule; it is the
// outcome when nothing matches.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:   "cpc-above-break-even",
			Action: ActionDecreaseBid,
			Matches: func(p Policy, in Input) bool {
				return in.Row.CPC > in.Metrics.BreakEvenCPC && in.Metrics.ConversionRate < p.MinConversionRate
			},
		},
		{
			Name:   "poor-placement",
			Action: ActionIncreaseBid,
			Matches: func(p Policy, in Input) bool {
				return in.Row.RankOr(p.UnrankedPosition) > p.MaxHealthyRank && in.Metrics.ConversionRate >= p.MinConversionRate
			},
		},
		{
			Name:   "undercut-by-competitor",
			Action: ActionDecreasePrice,
			Matches: func(p Policy, in Input) bool {
				competitor, ok := in.Row.CompetitorPrice()
				return ok && competitor < in.Row.Price && in.Row.Stock > 0
			},
		},
		{
			Name:   "roas-below-target",
			Action: ActionOptimizeListing,
			Matches: func(p Policy, in Input) bool {
				return in.Metrics.ReturnOnAdSpend < in.Settings.TargetROAS && in.Metrics.ConversionRate >= p.MinConversionRate
			},
		},
	}
}

// HoldRule is the name reported when no rule matched.
const HoldRule = "default-hold"

// Engine evaluates rules against a fixed policy. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	policy Policy
	rules  []Rule
}

// NewEngine returns an engine using the default rules under policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy, rules: DefaultRules()}
}

// Policy returns the engine's thresholds.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Rules returns a copy of the ordered rule list.
func (e *Engine) Rules() []Rule {
	return append([]Rule(nil), e.rules...)
}

// Recommend returns exactly one recommendation for the row.
func (e *Engine) Recommend(row product.Row, derived metrics.Derived, settings product.Settings) Recommendation {
	in := Input{Row: row, Metrics: derived, Settings: settings}
	for _, rule := range e.rules {
		if rule.Matches(e.policy, in) {
			return e.build(rule.Action, rule.Name, row)
		}
	}
	return e.build(ActionHold, HoldRule, row)
}

// Recommend evaluates row under the default policy.
func Recommend(row product.Row, derived metrics.Derived, settings product.Settings) Recommendation {
	return NewEngine(DefaultPolicy()).Recommend(row, derived, settings)
}

func (e *Engine) build(action Action, rule string, row product.Row) Recommendation {
	rec := Recommendation{Action: action, Tone: action.Tone(), Rule: rule}

	switch action {
	case ActionDecreaseBid:
		band := e.policy.BidDecrease
		rec.Label = "Decrease bid " + band.String()
		rec.Adjustment = &band
		rec.Target = proposeRange("cpc", row.CPC, -band.MaxPercent, -band.MinPercent)
	case ActionIncreaseBid:
		band := e.policy.BidIncrease
		rec.Label = "Increase bid " + band.String()
		rec.Adjustment = &band
		rec.Target = proposeRange("cpc", row.CPC, band.MinPercent, band.MaxPercent)
	case ActionDecreasePrice:
		band := e.policy.PriceDecrease
		rec.Label = "Decrease price " + band.String()
		rec.Adjustment = &band
		rec.Target = proposeRange("price", row.Price, -band.MaxPercent, -band.MinPercent)
	case ActionOptimizeListing:
		rec.Label = "Optimize listing (image/title)"
	default:
		rec.Label = "Hold"
	}
	return rec
}

var hundred = decimal.NewFromInt(100)

// proposeRange applies the signed percentage changes to current and rounds
// both ends to cents.
func proposeRange(field string, current, lowPercent, highPercent float64) *Range {
	base := decimal.NewFromFloat(current)
	apply := func(percent float64) float64 {
		factor := hundred.Add(decimal.NewFromFloat(percent)).Div(hundred)
		return base.Mul(factor).Round(2).InexactFloat64()
	}
	return &Range{
		Field:   field,
		Current: current,
		Low:     apply(lowPercent),
		High:    apply(highPercent),
	}
}
