package sat

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Config holds the executable of every external solver.
type Config struct {
	KissatPath        string `mapstructure:"kissatPath"`
	CadicalPath       string `mapstructure:"cadicalPath"`
	MinisatPath       string `mapstructure:"minisatPath"`
	CryptominisatPath string `mapstructure:"cryptominisatPath"`
}

func DefaultConfig() Config {
	return Config{
		KissatPath:        "kissat",
		CadicalPath:       "cadical",
		MinisatPath:       "minisat",
		CryptominisatPath: "cryptominisat5",
	}
}

// LoadConfig reads a YAML (or JSON) document on top of DefaultConfig.
func LoadConfig(file string) (Config, error) {
	config := DefaultConfig()
	bytes, err := os.ReadFile(file)
	if err != nil {
		return config, errors.Wrap(err, "cannot read solver config")
	}

	var document map[string]any
	if err := yaml.Unmarshal(bytes, &document); err != nil {
		return config, errors.Wrapf(err, "cannot parse solver config %s", file)
	}
	if err := mapstructure.Decode(document, &config); err != nil {
		return config, errors.Wrapf(err, "cannot decode solver config %s", file)
	}
	return config, nil
}

// runSolver feeds dimacs to an external solver through its standard input.
// Exit-code of 10 stands for satisfiable and exit-code 20 stands for unsatisfiable.
func runSolver(ctx context.Context, name, path string, dimacs string, args ...string) (stdOut string, satisfiable bool, err error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(dimacs)

	var out bytes.Buffer
	cmd.Stdout = &out
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	if ctx.Err() != nil {
		return "", false, ctx.Err()
	}
	if err != nil && cmd.ProcessState == nil {
		return "", false, errors.Wrapf(err, "cannot start %s", name)
	}
	switch cmd.ProcessState.ExitCode() {
	case 10:
		return out.String(), true, nil
	case 20:
		return out.String(), false, nil
	}
	return "", false, errors.Errorf("an error occurred during %s execution: %v : %v", name, err, stderr.String())
}

// parseSolution collects the literals of every "v" line, dropping the final 0.
func parseSolution(solverOutput string) (SATSolution, error) {
	var parseErr error
	values := lo.Map(
		lo.Reduce(
			lo.Filter(strings.Split(solverOutput, "\n"), func(line string, _ int) bool {
				return len(line) > 0 && line[0] == 'v'
			}),
			func(values []string, line string, _ int) []string {
				return append(values, strings.Fields(line[1:])...)
			},
			[]string{},
		),
		func(valueStr string, _ int) int64 {
			value, err := strconv.ParseInt(valueStr, 10, 64)
			if err != nil && parseErr == nil {
				parseErr = errors.Wrap(err, "invalid literal in solver output")
			}
			return value
		},
	)
	if parseErr != nil {
		return nil, parseErr
	}
	return lo.Filter(values, func(value int64, _ int) bool { return value != 0 }), nil
}
