package lowering

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tuannm99/novaddl/internal/logicalplan"
	"github.com/tuannm99/novaddl/internal/physicalplan"
)

// Job is one independent traversal.
type Job struct {
	Root  physicalplan.Node
	Nodes []logicalplan.Node
}

// LowerAll runs every job on its own tree, at most limit at a time (limit <= 0
// means no limit). Plans come back in job order. The first failure stops
// jobs that have not started yet and is returned.
func LowerAll(ctx context.Context, e *Engine, vctx VisitorContext, jobs []Job, limit int) ([]*Plan, error) {
	plans := make([]*Plan, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		i, job := i, job // per-iteration copies (go directive is below 1.22)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := e.Transform(vctx, job.Root, job.Nodes...)
			if err != nil {
				return err
			}
			plans[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}
