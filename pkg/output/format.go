// Package output provides utilities for formatting and displaying
// evaluation reports.
package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/iwvelando/ads-advisor/internal/advisor"
	"github.com/iwvelando/ads-advisor/pkg/format"
	"github.com/iwvelando/ads-advisor/pkg/portfolio"
)

// PrettyFormat writes a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report advisor.Report) error {
	f := format.Romanian()
	k := report.KPIs

	fmt.Fprintf(w, "--- Portfolio ---\n")
	fmt.Fprintf(w, "Revenue (est.): %s\n", f.Currency(k.Revenue))
	fmt.Fprintf(w, "Ad cost:        %s\n", f.Currency(k.Cost))
	fmt.Fprintf(w, "Net profit:     %s\n", f.Currency(k.NetProfit))
	fmt.Fprintf(w, "ROAS:           %s\n", f.Multiple(k.BlendedROAS))
	fmt.Fprintf(w, "Conversion:     %s (%d / %d)\n", f.Percent(k.BlendedConversionRate), k.TotalConversions, k.TotalClicks)
	fmt.Fprintf(w, "Daily budget:   %s, target ROAS %s\n\n", f.Currency(report.Settings.DailyBudget), f.Multiple(report.Settings.TargetROAS))

	fmt.Fprintf(w, "--- Products ---\n")
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "SKU\t| Rank\t| Price\t| Competitor\t| CPC\t| CR\t| ROAS\t| CPC BE\t| CPA\t| Suggestion")
	for _, e := range report.Evaluations {
		rank := format.NotApplicable
		if e.Product.Rank != nil {
			rank = strconv.Itoa(*e.Product.Rank)
		}
		fmt.Fprintf(tw, "%s\t| %s\t| %s\t| %s\t| %s\t| %s\t| %s\t| %s\t| %s\t| %s\n",
			e.Product.SKU,
			rank,
			f.Currency(e.Product.Price),
			f.CurrencyPtr(e.Product.BestCompetitorPrice),
			f.Currency(e.Product.CPC),
			f.Percent(e.Metrics.ConversionRate),
			f.Multiple(e.Metrics.ReturnOnAdSpend),
			f.Currency(e.Metrics.BreakEvenCPC),
			f.OptionalCurrency(e.Metrics.CostPerAcquisition),
			e.Recommendation.Label,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.PendingActions) > 0 {
		fmt.Fprintf(w, "\n--- Pending automatic actions ---\n")
		for _, a := range report.PendingActions {
			if a.Target == nil {
				fmt.Fprintf(w, "%s: %s\n", a.SKU, a.Action)
				continue
			}
			fmt.Fprintf(w, "%s: %s, %s %s -> %s..%s\n", a.SKU, a.Action, a.Target.Field,
				f.Currency(a.Target.Current), f.Currency(a.Target.Low), f.Currency(a.Target.High))
		}
	}
	return nil
}

var productHeader = []string{
	"sku", "name", "rank", "price", "bestCompetitorPrice", "stock", "cpc", "clicks", "conversions", "adCost",
	"profitPerUnit", "autoOptimize", "conversionRate", "costPerAcquisition", "returnOnAdSpend", "breakEvenCPC",
	"action", "tone", "label", "targetLow", "targetHigh",
}

// CsvFormat writes one comma-separated line per evaluated product.
func CsvFormat(w io.Writer, report advisor.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(productHeader); err != nil {
		return err
	}
	for _, e := range report.Evaluations {
		p := e.Product
		record := []string{
			p.SKU,
			p.Name,
			optionalInt(p.Rank),
			money(p.Price),
			optionalMoney(p.BestCompetitorPrice),
			strconv.Itoa(p.Stock),
			money(p.CPC),
			strconv.Itoa(p.Clicks),
			strconv.Itoa(p.Conversions),
			money(p.AdCost),
			money(p.ProfitPerUnit),
			strconv.FormatBool(p.AutoOptimize),
			rate(e.Metrics.ConversionRate),
			"",
			rate(e.Metrics.ReturnOnAdSpend),
			rate(e.Metrics.BreakEvenCPC),
			string(e.Recommendation.Action),
			string(e.Recommendation.Tone),
			e.Recommendation.Label,
			"",
			"",
		}
		if cpa, ok := e.Metrics.CostPerAcquisition.Get(); ok {
			record[13] = money(cpa)
		}
		if t := e.Recommendation.Target; t != nil {
			record[19] = money(t.Low)
			record[20] = money(t.High)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// KpiCsvFormat writes the portfolio KPIs as metric,value lines.
func KpiCsvFormat(w io.Writer, k portfolio.KPIs) error {
	cw := csv.NewWriter(w)
	records := [][]string{
		{"metric", "value"},
		{"revenue", money(k.Revenue)},
		{"cost", money(k.Cost)},
		{"grossProfit", money(k.GrossProfit)},
		{"netProfit", money(k.NetProfit)},
		{"totalClicks", strconv.Itoa(k.TotalClicks)},
		{"totalConversions", strconv.Itoa(k.TotalConversions)},
		{"blendedConversionRate", rate(k.BlendedConversionRate)},
		{"blendedROAS", rate(k.BlendedROAS)},
	}
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return cw.Error()
}

// CsvString returns the product CSV as a string.
func CsvString(report advisor.Report) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, report); err != nil {
		return "", fmt.Errorf("failed to render CSV: %w", err)
	}
	return buf.String(), nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func optionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
