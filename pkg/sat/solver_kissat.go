package sat

import "context"

type kissatSolver struct {
	path string
}

func NewKissatSolver(path string) SATSolver {
	return &kissatSolver{path: path}
}

func (solver *kissatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	output, satisfiable, err := runSolver(ctx, "kissat", solver.path, sat.ToDIMACS(), "-q", "--relaxed")
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}
