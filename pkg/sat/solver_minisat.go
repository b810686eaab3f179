package sat

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type minisatSolver struct {
	path string
}

func NewMinisatSolver(path string) SATSolver {
	return &minisatSolver{path: path}
}

// minisat only reports models through an output file.
func (solver *minisatSolver) Solve(ctx context.Context, sat SAT) (SATSolution, error) {
	inputTempFile, err := os.CreateTemp("", "dimacs-*.cnf")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(inputTempFile.Name())

	outputTempFile, err := os.CreateTemp("", "minisat_output-*.cnf")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary file")
	}
	defer os.Remove(outputTempFile.Name())
	defer outputTempFile.Close()

	if _, err := inputTempFile.WriteString(sat.ToDIMACS()); err != nil {
		return nil, errors.Wrap(err, "failed to write DIMACS to temporary file")
	}
	if err := inputTempFile.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to close temporary file")
	}

	cmd := exec.CommandContext(ctx, solver.path, "-verb=0", inputTempFile.Name(), outputTempFile.Name())
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable
	err = cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	} else if err != nil && cmd.ProcessState == nil {
		return nil, errors.Wrap(err, "cannot start minisat")
	} else if cmd.ProcessState.ExitCode() == 20 {
		return nil, nil
	} else if cmd.ProcessState.ExitCode() != 10 {
		return nil, errors.Errorf("an error occurred during minisat execution: %v : %v", err, stderr.String())
	}

	output, err := io.ReadAll(outputTempFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read output file")
	}
	return solver.parseSolution(string(output))
}

func (solver *minisatSolver) parseSolution(solverOutput string) (SATSolution, error) {
	lines := strings.Split(solverOutput, "\n")
	if len(lines) < 2 {
		return nil, errors.Errorf("unexpected minisat output: %q", solverOutput)
	}
	// The first line is the header, we only need the second line
	var parseErr error
	solution := lo.FilterMap(strings.Fields(lines[1]), func(valueStr string, _ int) (int64, bool) {
		value, err := strconv.ParseInt(valueStr, 10, 64)
		if err != nil && parseErr == nil {
			parseErr = errors.Wrap(err, "invalid literal in solver output")
		}
		return value, value != 0
	})
	return solution, parseErr
}
