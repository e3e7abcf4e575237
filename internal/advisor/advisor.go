// Package advisor runs the full evaluation cycle over a product collection:
// metrics and a recommendation per product, plus portfolio KPIs.
package advisor

import (
	"fmt"

	"github.com/iwvelando/ads-advisor/internal/config"
	"github.com/iwvelando/ads-advisor/pkg/metrics"
	"github.com/iwvelando/ads-advisor/pkg/portfolio"
	"github.com/iwvelando/ads-advisor/pkg/product"
	"github.com/iwvelando/ads-advisor/pkg/rules"
	"go.uber.org/zap"
)

// Evaluation is the outcome for one product.
type Evaluation struct {
	Product        product.Row          `json:"product"`
	Metrics        metrics.Derived      `json:"metrics"`
	Recommendation rules.Recommendation `json:"recommendation"`
}

// PendingAction is a recommendation the caller may apply automatically
// because both the global and the product switch are on.
type PendingAction struct {
	SKU    string       `json:"sku"`
	Action rules.Action `json:"action"`
	Target *rules.Range `json:"target,omitempty"`
}

// Report holds one evaluation cycle.
type Report struct {
	Settings       product.Settings `json:"settings"`
	Policy         rules.Policy     `json:"policy"`
	Evaluations    []Evaluation     `json:"evaluations"`
	KPIs           portfolio.KPIs   `json:"kpis"`
	PendingActions []PendingAction  `json:"pendingActions"`
}

// Actions returns the recommended action of every evaluation, in order.
func (r Report) Actions() []rules.Action {
	actions := make([]rules.Action, len(r.Evaluations))
	for i, e := range r.Evaluations {
		actions[i] = e.Recommendation.Action
	}
	return actions
}

// Find returns the evaluation for sku, or nil.
func (r Report) Find(sku string) *Evaluation {
	for i := range r.Evaluations {
		if r.Evaluations[i].Product.SKU == sku {
			return &r.Evaluations[i]
		}
	}
	return nil
}

// Evaluate validates the inputs and runs one evaluation cycle. Rows are
// evaluated in input order and never modified.
func Evaluate(logger *zap.Logger, rows []product.Row, settings product.Settings, policy rules.Policy) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := settings.Validate(); err != nil {
		return Report{}, err
	}
	if err := policy.Validate(); err != nil {
		return Report{}, fmt.Errorf("invalid policy: %w", err)
	}
	if err := product.ValidateAll(rows); err != nil {
		return Report{}, err
	}

	engine := rules.NewEngine(policy)
	report := Report{
		Settings:       settings,
		Policy:         policy,
		Evaluations:    make([]Evaluation, 0, len(rows)),
		KPIs:           portfolio.Aggregate(rows),
		PendingActions: []PendingAction{},
	}

	for _, row := range rows {
		derived := metrics.Compute(row)
		rec := engine.Recommend(row, derived, settings)

		logger.Debug(fmt.Sprintf("recommendation for %s: %s", row.SKU, rec.Action),
			zap.String("op", "advisor.Evaluate"),
			zap.String("sku", row.SKU),
			zap.String("rule", rec.Rule),
			zap.Float64("conversionRate", derived.ConversionRate),
			zap.Float64("returnOnAdSpend", derived.ReturnOnAdSpend),
			zap.Float64("breakEvenCPC", derived.BreakEvenCPC),
		)

		report.Evaluations = append(report.Evaluations, Evaluation{
			Product:        row,
			Metrics:        derived,
			Recommendation: rec,
		})

		if settings.AutoOptimize && row.AutoOptimize && rec.Action != rules.ActionHold {
			report.PendingActions = append(report.PendingActions, PendingAction{
				SKU:    row.SKU,
				Action: rec.Action,
				Target: rec.Target,
			})
		}
	}

	logger.Info("evaluation computed",
		zap.String("op", "advisor.Evaluate"),
		zap.Int("products", len(report.Evaluations)),
		zap.Int("pendingActions", len(report.PendingActions)),
		zap.Float64("blendedROAS", report.KPIs.BlendedROAS),
	)

	return report, nil
}

// EvaluateConfiguration resolves the configured policy and evaluates the
// configured products.
func EvaluateConfiguration(logger *zap.Logger, conf config.Configuration) (Report, error) {
	policy, err := conf.Policy.Resolve()
	if err != nil {
		return Report{}, err
	}
	return Evaluate(logger, conf.Products, conf.Settings, policy)
}
