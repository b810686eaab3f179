package sat

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrUnknownBackend = errors.New("unknown solver backend")

var solvers = map[string]func(Config) SATSolver{
	"gini-batch":    func(Config) SATSolver { return NewGiniSolver() },
	"gophersat":     func(Config) SATSolver { return NewGophersatSolver() },
	"kissat":        func(config Config) SATSolver { return NewKissatSolver(config.KissatPath) },
	"cadical":       func(config Config) SATSolver { return NewCadicalSolver(config.CadicalPath) },
	"minisat":       func(config Config) SATSolver { return NewMinisatSolver(config.MinisatPath) },
	"cryptominisat": func(config Config) SATSolver { return NewCryptominisatSolver(config.CryptominisatPath) },
}

// Backends lists every accepted backend name, "gini" (incremental) first.
func Backends() []string {
	names := lo.Keys(solvers)
	slices.Sort(names)
	return append([]string{"gini"}, names...)
}

// NewSessionFactory returns sessions for the named backend. "gini" keeps
// one incremental solver per session; every other backend re-solves the
// accumulated instance on each round.
func NewSessionFactory(backend string, config Config) (SessionFactory, error) {
	backend = strings.ToLower(backend)
	if backend == "gini" {
		return NewIncrementalSession, nil
	}
	newSolver, ok := solvers[backend]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownBackend, "%q", backend)
	}
	return func() Session { return NewBatchSession(newSolver(config)) }, nil
}
