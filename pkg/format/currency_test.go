package format

import (
	"testing"

	"github.com/iwvelando/ads-advisor/pkg/metrics"
	"golang.org/x/text/language"
)

func TestEnglishFormatting(t *testing.T) {
	f := New(language.English)

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Currency", f.Currency(1234.5), "1,234.50 lei"},
		{"Negative currency", f.Currency(-89.1), "-89.10 lei"},
		{"Percent", f.Percent(2.0 / 47.0), "4.26%"},
		{"Multiple", f.Multiple(10.972), "11.0x"},
		{"Zero multiple", f.Multiple(0), "0.0x"},
		{"Optional present", f.OptionalCurrency(metrics.Some(44.55)), "44.55 lei"},
		{"Optional absent", f.OptionalCurrency(metrics.NotApplicable()), NotApplicable},
		{"Missing competitor price", f.CurrencyPtr(nil), NotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, expected %q", tt.got, tt.expected)
			}
		})
	}
}

func TestRomanianDecimalSeparator(t *testing.T) {
	f := Romanian()
	if got := f.Currency(499.9); got != "499,90 lei" {
		t.Errorf("Currency(499.9) = %q, expected %q", got, "499,90 lei")
	}
	if got := f.Percent(0.0667); got != "6,67%" {
		t.Errorf("Percent(0.0667) = %q, expected %q", got, "6,67%")
	}
}
