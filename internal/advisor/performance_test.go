package advisor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/ads-advisor/pkg/product"
	"github.com/iwvelando/ads-advisor/pkg/rules"
	"github.com/iwvelando/ads-advisor/pkg/testutil"
	"go.uber.org/zap"
)

func largeCatalog(n int) []product.Row {
	rows := make([]product.Row, 0, n)
	for i := 0; i < n; i++ {
		row := testutil.CameraRow()
		if i%2 == 1 {
			row = testutil.SterilizerRow()
		}
		row.SKU = fmt.Sprintf("SKU.%05d", i)
		row.Clicks += i % 17
		rows = append(rows, row)
	}
	return rows
}

func TestConcurrentEvaluations(t *testing.T) {
	rows := largeCatalog(200)
	expected, err := Evaluate(zap.NewNop(), rows, testutil.DefaultSettings(), rules.DefaultPolicy())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := Evaluate(zap.NewNop(), rows, testutil.DefaultSettings(), rules.DefaultPolicy())
			if err != nil {
				errs <- err
				return
			}
			if report.KPIs != expected.KPIs {
				errs <- fmt.Errorf("KPIs differ: %+v vs %+v", report.KPIs, expected.KPIs)
				return
			}
			for i, action := range report.Actions() {
				if action != expected.Evaluations[i].Recommendation.Action {
					errs <- fmt.Errorf("row %d action %s, expected %s", i, action, expected.Evaluations[i].Recommendation.Action)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestEvaluationPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance test in short mode")
	}

	rows := largeCatalog(10000)
	start := time.Now()
	report, err := Evaluate(zap.NewNop(), rows, testutil.DefaultSettings(), rules.DefaultPolicy())
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(report.Evaluations) != len(rows) {
		t.Fatalf("expected %d evaluations, got %d", len(rows), len(report.Evaluations))
	}

	t.Logf("Evaluated %d products in %v", len(rows), elapsed)
	if elapsed > 5*time.Second {
		t.Errorf("evaluation took %v, expected well under 5s", elapsed)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	rows := largeCatalog(1000)
	settings := testutil.DefaultSettings()
	policy := rules.DefaultPolicy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Evaluate(zap.NewNop(), rows, settings, policy); err != nil {
			b.Fatal(err)
		}
	}
}
