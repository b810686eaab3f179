package sat

import (
	"context"

	"github.com/crillab/gophersat/solver"
	"github.com/samber/lo"
)

type gophersatSolver struct{}

// NewGophersatSolver solves in-process with gophersat. The solve call itself
// cannot be interrupted, so ctx is only checked before it starts.
func NewGophersatSolver() SATSolver {
	return &gophersatSolver{}
}

func (s *gophersatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clauses := lo.Map(sat.Clauses, func(clause []int64, _ int) []int {
		return lo.Map(clause, func(literal int64, _ int) int { return int(literal) })
	})

	problem := solver.ParseSlice(clauses)
	gophersat := solver.New(problem)
	if gophersat.Solve() != solver.Sat {
		return nil, nil
	}

	model := gophersat.Model()
	solution := make(SATSolution, 0, sat.Variables)
	for v := 1; v <= int(sat.Variables); v++ {
		literal := int64(v)
		if v > len(model) || !model[v-1] {
			literal = -literal
		}
		solution = append(solution, literal)
	}
	return solution, nil
}
