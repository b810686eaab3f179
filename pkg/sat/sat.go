package sat

import (
	"fmt"
	"strings"

	"github.com/go-air/gini/z"
)

// SATSolution lists one signed literal per variable, positive when the
// variable is true.
type SATSolution []int64

type SAT struct {
	Variables uint64
	Clauses   [][]int64

	pending []int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// Add implements gini's inter.Adder so that circuits can be Tseitin-encoded
// straight into the instance: literals accumulate until LitNull closes the clause.
func (s *SAT) Add(m z.Lit) {
	if m == z.LitNull {
		s.Clauses = append(s.Clauses, s.pending)
		s.pending = nil
		return
	}
	if v := uint64(m.Var()); v > s.Variables {
		s.Variables = v
	}
	s.pending = append(s.pending, int64(m.Dimacs()))
}

// Values indexes a solution by variable.
func (solution SATSolution) Values() []bool {
	var maxVar int64
	for _, literal := range solution {
		maxVar = max(maxVar, abs(literal))
	}
	values := make([]bool, maxVar+1)
	for _, literal := range solution {
		if literal > 0 {
			values[literal] = true
		}
	}
	return values
}

func abs(literal int64) int64 {
	if literal < 0 {
		return -literal
	}
	return literal
}
