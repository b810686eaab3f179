package sat

import (
	"context"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
)

// Model is a satisfying assignment of a session's circuit.
type Model interface {
	Value(m z.Lit) bool
}

// Session owns one circuit and the solver state fed from it. Asserted
// literals stay asserted for every later Solve. A session is not safe for
// concurrent use.
type Session interface {
	Circuit() *logic.C
	Assert(ms ...z.Lit)
	// Solve returns a nil Model when the assertions are unsatisfiable.
	Solve(ctx context.Context) (Model, error)
	Variables() uint64
	Clauses() uint64
}

type SessionFactory func() Session

// incrementalSession keeps one gini instance alive across rounds and only
// encodes the part of the circuit that is new since the previous assertion.
type incrementalSession struct {
	c       *logic.C
	g       *gini.Gini
	mark    []int8
	clauses uint64
}

func NewIncrementalSession() Session {
	return &incrementalSession{c: logic.NewC(), g: gini.New()}
}

func (s *incrementalSession) Circuit() *logic.C {
	return s.c
}

func (s *incrementalSession) Assert(ms ...z.Lit) {
	var added int
	s.mark, added = s.c.CnfSince(s, s.mark, ms...)
	s.clauses += uint64(added)
	for _, m := range ms {
		s.g.Add(m)
		s.g.Add(z.LitNull)
		s.clauses++
	}
}

// Add forwards Tseitin clauses to gini.
func (s *incrementalSession) Add(m z.Lit) {
	s.g.Add(m)
}

func (s *incrementalSession) Solve(ctx context.Context) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch waitForSolution(ctx, s.g.GoSolve()) {
	case 1:
		return giniModel{s.g}, nil
	case -1:
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, errors.New("gini stopped without a result")
}

func (s *incrementalSession) Variables() uint64 {
	return uint64(s.g.MaxVar())
}

func (s *incrementalSession) Clauses() uint64 {
	return s.clauses
}

type giniModel struct {
	g *gini.Gini
}

func (m giniModel) Value(lit z.Lit) bool {
	// variables that never reached a clause are unconstrained
	if lit.Var() > m.g.MaxVar() {
		return !lit.IsPos()
	}
	return m.g.Value(lit)
}

// batchSession accumulates the whole instance and hands it to a SATSolver
// from scratch on every Solve.
type batchSession struct {
	c      *logic.C
	sat    SAT
	mark   []int8
	solver SATSolver
}

func NewBatchSession(solver SATSolver) Session {
	return &batchSession{c: logic.NewC(), solver: solver}
}

func (s *batchSession) Circuit() *logic.C {
	return s.c
}

func (s *batchSession) Assert(ms ...z.Lit) {
	s.mark, _ = s.c.CnfSince(&s.sat, s.mark, ms...)
	for _, m := range ms {
		s.sat.Add(m)
		s.sat.Add(z.LitNull)
	}
}

func (s *batchSession) Solve(ctx context.Context) (Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	solution, err := s.solver.Solve(ctx, s.sat)
	if err != nil {
		return nil, errors.Wrap(err, "batch solve")
	}
	if solution == nil {
		return nil, nil
	}
	return solutionModel(solution.Values()), nil
}

func (s *batchSession) Variables() uint64 {
	return s.sat.Variables
}

func (s *batchSession) Clauses() uint64 {
	return uint64(len(s.sat.Clauses))
}

type solutionModel []bool

func (values solutionModel) Value(lit z.Lit) bool {
	v := int(lit.Var())
	value := v < len(values) && values[v]
	if !lit.IsPos() {
		return !value
	}
	return value
}
