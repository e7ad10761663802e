package batch_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/calculator/internal/batch"
	"github.com/karupanerura/calculator/internal/format"
	"github.com/karupanerura/calculator/internal/types"
)

func TestParseBatchYAML(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/batch.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	b, err := batch.ParseBatchYAML(f)
	if err != nil {
		t.Fatal(err)
	}

	expected := batch.Batch{
		{Expression: "3+4*(2-1)"},
		{Name: "right associative", Expression: "2^3^2"},
		{Name: "total", Fold: "add", Operands: []float64{1, 2, 3}},
		{Expression: "4/0"},
	}
	if diff := cmp.Diff(expected, b); diff != "" {
		t.Errorf("unexpected batch (-want +got):\n%s", diff)
	}
}

func TestParseBatchJSON(t *testing.T) {
	t.Parallel()

	f, err := os.Open("testdata/batch.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	b, err := batch.ParseBatchJSON(f)
	if err != nil {
		t.Fatal(err)
	}

	results, err := b.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	records := make([]*batch.Record, len(results))
	for i, r := range results {
		records[i] = r.Record(format.DefaultOptions)
	}

	two, twelveAndAHalf := 2.0, 12.5
	expected := []*batch.Record{
		{Expression: "8-4-2", RPN: "8 4 - 2 -", State: batch.StateSucceeded, Result: &two, Formatted: "2"},
		{Name: "quotient", Fold: "div", Operands: []float64{100, 4, 2}, State: batch.StateSucceeded, Result: &twelveAndAHalf, Formatted: "12.5"},
		{Expression: "(1+2", State: batch.StateFailed, Error: map[string]any{
			"tags":    []any{types.MismatchedParenthesesTag},
			"message": "Mismatched parentheses.",
		}},
	}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Errorf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestParseBatchInvalid(t *testing.T) {
	t.Parallel()

	for _, source := range []string{
		`{"expression": "1"}`,
		`[1]`,
		`[{}]`,
		`[{"expression": "1", "fold": "add"}]`,
		`[{"expression": "1", "operands": [1, 2]}]`,
		`[{"expresion": "1"}]`,
		`[{"fold": "add", "operands": ["a"]}]`,
	} {
		if _, err := batch.ParseBatchJSON(strings.NewReader(source)); err == nil {
			t.Errorf("%s: expected an error", source)
		}
	}
}

func TestBatchRun(t *testing.T) {
	t.Parallel()

	sources := make([]string, 100)
	for i := range sources {
		sources[i] = strings.Repeat("1+", i) + "1"
	}
	sources = append(sources, "1/0")

	results, err := batch.FromExpressions(sources).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != len(sources) {
		t.Fatalf("got %d results for %d entries", len(results), len(sources))
	}
	for i, r := range results[:100] {
		if r.Err != nil {
			t.Errorf("%s: %v", r.Entry.Expression, r.Err)
		} else if r.Value != float64(i+1) {
			t.Errorf("%s = %v, want %d", r.Entry.Expression, r.Value, i+1)
		}
	}
	if last := results[100]; !errors.Is(last.Err, types.DivisionByZeroTag) {
		t.Errorf("expected %s but got %v", types.DivisionByZeroTag, last.Err)
	}
}

func TestBatchRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := batch.FromExpressions([]string{"1", "2"}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled but got %v", err)
	}
}
