package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

type Batch []*Entry

func FromExpressions(sources []string) Batch {
	b := make(Batch, len(sources))
	for i, source := range sources {
		b[i] = &Entry{Expression: source}
	}
	return b
}

// Run evaluates every entry and returns the results in input order. A failed
// entry is reported in its Result and does not stop the others.
func (b Batch) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(b))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, entry := range b {
		if egCtx.Err() != nil {
			break
		}

		i := i
		entry := entry
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			results[i] = entry.Evaluate()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
