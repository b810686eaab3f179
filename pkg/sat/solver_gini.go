package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/z"
)

const pollInterval = 5 * time.Millisecond

type giniSolver struct{}

// NewGiniSolver solves every instance from scratch in-process.
func NewGiniSolver() SATSolver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := gini.NewV(int(sat.Variables))
	for _, clause := range sat.Clauses {
		for _, literal := range clause {
			g.Add(z.Dimacs2Lit(int(literal)))
		}
		g.Add(z.LitNull)
	}

	switch result := waitForSolution(ctx, g.GoSolve()); result {
	case -1:
		return nil, nil
	case 0:
		return nil, ctx.Err()
	}

	solution := make(SATSolution, 0, sat.Variables)
	for v := 1; v <= int(sat.Variables); v++ {
		literal := int64(v)
		if z.Var(v) > g.MaxVar() || !g.Value(z.Var(v).Pos()) {
			literal = -literal
		}
		solution = append(solution, literal)
	}
	return solution, nil
}

// waitForSolution polls a background solve, stopping it once ctx is done.
// It returns 1 if sat, -1 if unsat and 0 if cancelled.
func waitForSolution(ctx context.Context, gs inter.Solve) int {
	t := time.NewTicker(pollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return gs.Stop()
		case <-t.C:
			if result, ok := gs.Test(); ok {
				return result
			}
		}
	}
}
