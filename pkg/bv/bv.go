// Package bv provides fixed-width bit-vectors whose bits are literals of a
// gini combinational circuit. Bit 0 is the least significant bit.
package bv

import (
	"fmt"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrZeroWidth = errors.New("bit-vector width must be positive")

type IndexError struct {
	Index int
	Width int
}

func (err IndexError) Error() string {
	return fmt.Sprintf("bit index %d out of range for width %d", err.Index, err.Width)
}

type WidthError struct {
	Left  int
	Right int
}

func (err WidthError) Error() string {
	return fmt.Sprintf("bit-vector width mismatch: %d != %d", err.Left, err.Right)
}

type Vector []z.Lit

func (v Vector) Width() int {
	return len(v)
}

// New returns a vector of fresh circuit inputs.
func New(c *logic.C, width int) (Vector, error) {
	if width <= 0 {
		return nil, ErrZeroWidth
	}
	v := make(Vector, width)
	for i := range v {
		v[i] = c.Lit()
	}
	return v, nil
}

func Zero(c *logic.C, width int) (Vector, error) {
	return constant(c, width, func(int) bool { return false })
}

func One(c *logic.C, width int) (Vector, error) {
	return constant(c, width, func(int) bool { return true })
}

// Mask returns the vector with only bit i set.
func Mask(c *logic.C, width, i int) (Vector, error) {
	if err := checkIndex(width, i); err != nil {
		return nil, err
	}
	return constant(c, width, func(j int) bool { return j == i })
}

// Const returns the width-bit encoding of value; higher bits of value are dropped.
func Const(c *logic.C, width int, value uint64) (Vector, error) {
	return constant(c, width, func(j int) bool { return j < 64 && value&(1<<j) != 0 })
}

func FromBits(c *logic.C, bits []bool) (Vector, error) {
	return constant(c, len(bits), func(j int) bool { return bits[j] })
}

func constant(c *logic.C, width int, bit func(int) bool) (Vector, error) {
	if width <= 0 {
		return nil, ErrZeroWidth
	}
	v := make(Vector, width)
	for i := range v {
		v[i] = lit(c, bit(i))
	}
	return v, nil
}

func lit(c *logic.C, value bool) z.Lit {
	if value {
		return c.T
	}
	return c.F
}

func checkIndex(width, i int) error {
	if width <= 0 {
		return ErrZeroWidth
	}
	if i < 0 || i >= width {
		return IndexError{Index: i, Width: width}
	}
	return nil
}

func checkWidths(a, b Vector) error {
	if a.Width() == 0 || b.Width() == 0 {
		return ErrZeroWidth
	}
	if a.Width() != b.Width() {
		return WidthError{Left: a.Width(), Right: b.Width()}
	}
	return nil
}

func (v Vector) Extract(i int) (z.Lit, error) {
	if err := checkIndex(v.Width(), i); err != nil {
		return z.LitNull, err
	}
	return v[i], nil
}

// Insert returns a copy of v with bit i replaced by m.
func (v Vector) Insert(i int, m z.Lit) (Vector, error) {
	if err := checkIndex(v.Width(), i); err != nil {
		return nil, err
	}
	result := make(Vector, len(v))
	copy(result, v)
	result[i] = m
	return result, nil
}

// TestValue holds iff bit i of v equals value.
func TestValue(c *logic.C, v Vector, i int, value bool) (z.Lit, error) {
	m, err := v.Extract(i)
	if err != nil {
		return z.LitNull, err
	}
	if value {
		return m, nil
	}
	return m.Not(), nil
}

func iff(c *logic.C, a, b z.Lit) z.Lit {
	return c.Xor(a, b).Not()
}

func Equal(c *logic.C, a, b Vector) (z.Lit, error) {
	if err := checkWidths(a, b); err != nil {
		return z.LitNull, err
	}
	return c.Ands(lo.Map(a, func(m z.Lit, i int) z.Lit { return iff(c, m, b[i]) })...), nil
}

func EqualConst(c *logic.C, v Vector, value uint64) (z.Lit, error) {
	k, err := Const(c, v.Width(), value)
	if err != nil {
		return z.LitNull, err
	}
	if v.Width() < 64 && value>>v.Width() != 0 {
		return c.F, nil
	}
	return Equal(c, v, k)
}

// EqualExcept1 holds iff a and b agree on every bit except possibly bit i.
func EqualExcept1(c *logic.C, a, b Vector, i int) (z.Lit, error) {
	if err := checkWidths(a, b); err != nil {
		return z.LitNull, err
	}
	if err := checkIndex(a.Width(), i); err != nil {
		return z.LitNull, err
	}
	agree := make([]z.Lit, 0, a.Width()-1)
	for j := range a {
		if j != i {
			agree = append(agree, iff(c, a[j], b[j]))
		}
	}
	return c.Ands(agree...), nil
}

func And(c *logic.C, a, b Vector) (Vector, error) {
	return zip(a, b, c.And)
}

func Or(c *logic.C, a, b Vector) (Vector, error) {
	return zip(a, b, c.Or)
}

func Not(v Vector) Vector {
	return lo.Map(v, func(m z.Lit, _ int) z.Lit { return m.Not() })
}

func zip(a, b Vector, op func(z.Lit, z.Lit) z.Lit) (Vector, error) {
	if err := checkWidths(a, b); err != nil {
		return nil, err
	}
	return lo.Map(a, func(m z.Lit, i int) z.Lit { return op(m, b[i]) }), nil
}

// Any holds iff some bit of v is set.
func Any(c *logic.C, v Vector) z.Lit {
	return c.Ors(v...)
}

func IsZero(c *logic.C, v Vector) z.Lit {
	return Any(c, v).Not()
}

// Subset holds iff every bit set in a is also set in b.
func Subset(c *logic.C, a, b Vector) (z.Lit, error) {
	if err := checkWidths(a, b); err != nil {
		return z.LitNull, err
	}
	return c.Ands(lo.Map(a, func(m z.Lit, i int) z.Lit { return c.Implies(m, b[i]) })...), nil
}

// Disjoint holds iff a and b share no set bit.
func Disjoint(c *logic.C, a, b Vector) (z.Lit, error) {
	both, err := And(c, a, b)
	if err != nil {
		return z.LitNull, err
	}
	return IsZero(c, both), nil
}
