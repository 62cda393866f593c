package futures

import (
	"context"

	"github.com/abevier/tsk/v2/results"
	"golang.org/x/sync/errgroup"
)

// ResolveAll waits for all of the provided Futures to complete and returns a results.Result for each
// future at the index corresponding to the provided slice.
// If the provided context is canceled, the cancellation error will be returned as an error by this function.
func ResolveAll[T any](ctx context.Context, fs []*Future[T]) ([]results.Result[T, error], error) {
	res := make([]results.Result[T, error], len(fs))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fs {
		i, f := i, f
		g.Go(func() error {
			res[i] = f.Result(gctx)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return res, nil
}
