package sat

import "context"

type cryptominisatSolver struct {
	path string
}

func NewCryptominisatSolver(path string) SATSolver {
	return &cryptominisatSolver{path: path}
}

func (solver *cryptominisatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	output, satisfiable, err := runSolver(ctx, "cryptominisat", solver.path, sat.ToDIMACS(), "--verb", "0")
	if err != nil || !satisfiable {
		return nil, err
	}
	return parseSolution(output)
}
