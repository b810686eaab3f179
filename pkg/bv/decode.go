package bv

import (
	"strings"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Valuer reports the value of a literal in a model.
type Valuer interface {
	Value(m z.Lit) bool
}

// Decode reads the bits of v from model. Constant bits are resolved against
// the circuit so they need no solver variable.
func Decode(c *logic.C, model Valuer, v Vector) []bool {
	return lo.Map(v, func(m z.Lit, _ int) bool {
		switch m {
		case c.T:
			return true
		case c.F:
			return false
		}
		return model.Value(m)
	})
}

// String renders bits most significant first, so bit i sits at position len-1-i.
func String(bits []bool) string {
	var builder strings.Builder
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] {
			builder.WriteByte('1')
		} else {
			builder.WriteByte('0')
		}
	}
	return builder.String()
}

func ParseBits(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i, char := range []byte(s) {
		switch char {
		case '0':
		case '1':
			bits[len(s)-1-i] = true
		default:
			return nil, errors.Errorf("invalid bit %q in %q", char, s)
		}
	}
	return bits, nil
}

func Uint(bits []bool) uint64 {
	return lo.Reduce(bits, func(value uint64, bit bool, i int) uint64 {
		if bit && i < 64 {
			value |= 1 << i
		}
		return value
	}, 0)
}

// Ones returns the indices of the set bits.
func Ones(bits []bool) []int {
	return lo.FilterMap(bits, func(bit bool, i int) (int, bool) { return i, bit })
}

// Assignment evaluates a circuit under fixed input values without a solver.
type Assignment struct {
	c      *logic.C
	values []bool
}

// Evaluate propagates inputs through every gate of c. Inputs missing from
// the map are false. Gates added to c afterwards are not covered.
func Evaluate(c *logic.C, inputs map[z.Lit]bool) Assignment {
	values := make([]bool, c.Len())
	for m, value := range inputs {
		if !m.IsPos() {
			m, value = m.Not(), !value
		}
		values[m.Var()] = value
	}
	c.Eval(values)
	return Assignment{c: c, values: values}
}

func (a Assignment) Value(m z.Lit) bool {
	value := a.values[m.Var()]
	if !m.IsPos() {
		return !value
	}
	return value
}
