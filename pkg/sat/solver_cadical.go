package sat

import "context"

type cadicalSolver struct {
	path string
}

func NewCadicalSolver(path string) SATSolver {
	return &cadicalSolver{path: path}
}

func (solver *cadicalSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	output, satisfiable, err := runSolver(ctx, "cadical", solver.path, sat.ToDIMACS(), "-q")
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}
