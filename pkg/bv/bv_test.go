package bv

import (
	"math/bits"
	"testing"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	c := logic.NewC()

	t.Run("Zero, one and mask", func(t *testing.T) {
		//** Act
		zero, err1 := Zero(c, 3)
		one, err2 := One(c, 3)
		mask, err3 := Mask(c, 3, 1)

		//** Assert
		require.NoError(t, err1)
		require.NoError(t, err2)
		require.NoError(t, err3)
		assert.Equal(t, Vector{c.F, c.F, c.F}, zero)
		assert.Equal(t, Vector{c.T, c.T, c.T}, one)
		assert.Equal(t, Vector{c.F, c.T, c.F}, mask)
	})

	t.Run("Constant", func(t *testing.T) {
		//** Act
		v, err := Const(c, 5, 19)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "10011", String(Decode(c, nil, v)))
	})

	t.Run("Configuration errors", func(t *testing.T) {
		//** Arrange
		v, err := New(c, 2)
		require.NoError(t, err)

		//** Act
		_, zeroErr := Zero(c, 0)
		_, maskErr := Mask(c, 2, 2)
		_, extractErr := v.Extract(5)
		_, equalErr := Equal(c, v, Vector{c.T})
		_, exceptErr := EqualExcept1(c, v, v, -1)

		//** Assert
		assert.ErrorIs(t, zeroErr, ErrZeroWidth)
		var indexErr IndexError
		assert.True(t, errors.As(maskErr, &indexErr))
		assert.Equal(t, IndexError{Index: 2, Width: 2}, indexErr)
		assert.ErrorAs(t, extractErr, &indexErr)
		var widthErr WidthError
		assert.ErrorAs(t, equalErr, &widthErr)
		assert.ErrorAs(t, exceptErr, &indexErr)
	})
}

func TestInsert(t *testing.T) {
	//** Arrange
	c := logic.NewC()
	v, _ := Zero(c, 3)

	//** Act
	inserted, err := v.Insert(2, c.T)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, "100", String(Decode(c, nil, inserted)))
	assert.Equal(t, "000", String(Decode(c, nil, v)))
}

func TestEqualExcept1(t *testing.T) {
	const width = 3
	c := logic.NewC()
	q0, _ := New(c, width)
	q1, _ := New(c, width)
	predicates := make([]z.Lit, width)
	for i := range width {
		predicate, err := EqualExcept1(c, q0, q1, i)
		require.NoError(t, err)
		predicates[i] = predicate
	}

	for a := range uint64(1 << width) {
		for b := range uint64(1 << width) {
			//** Arrange
			assignment := Evaluate(c, inputs(q0, a, q1, b))

			for i := range width {
				//** Act
				actual := assignment.Value(predicates[i])

				//** Assert
				expected := (a^b)&^(1<<i) == 0
				assert.Equal(t, expected, actual, "q0=%03b q1=%03b i=%d", a, b, i)
			}
		}
	}
}

func TestEqualExcept1SingleBit(t *testing.T) {
	//** Arrange
	c := logic.NewC()
	q0, _ := New(c, 1)
	q1, _ := New(c, 1)

	//** Act
	predicate, err := EqualExcept1(c, q0, q1, 0)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, c.T, predicate)
}

func TestSetPredicates(t *testing.T) {
	const width = 3
	c := logic.NewC()
	a, _ := New(c, width)
	q, _ := New(c, width)
	subset, _ := Subset(c, a, q)
	disjoint, _ := Disjoint(c, a, q)
	nonEmpty := Any(c, a)

	for x := range uint64(1 << width) {
		for y := range uint64(1 << width) {
			//** Arrange
			assignment := Evaluate(c, inputs(a, x, q, y))

			//** Act & Assert
			assert.Equal(t, x&^y == 0, assignment.Value(subset))
			assert.Equal(t, x&y == 0, assignment.Value(disjoint))
			assert.Equal(t, x != 0, assignment.Value(nonEmpty))
		}
	}
}

func TestPopCount(t *testing.T) {
	c := logic.NewC()
	a, _ := New(c, 3)
	r, _ := New(c, 2)
	na, nr := PopCount(c, a), PopCount(c, r)
	greater, equal := na.Greater(nr), na.Equal(nr)
	atMostOne := na.AtMost(1)

	for x := range uint64(1 << 3) {
		for y := range uint64(1 << 2) {
			//** Arrange
			assignment := Evaluate(c, inputs(a, x, r, y))
			countA, countR := bits.OnesCount64(x), bits.OnesCount64(y)

			//** Act & Assert
			assert.Equal(t, countA > countR, assignment.Value(greater), "a=%03b r=%02b", x, y)
			assert.Equal(t, countA == countR, assignment.Value(equal), "a=%03b r=%02b", x, y)
			assert.Equal(t, countA <= 1, assignment.Value(atMostOne), "a=%03b", x)
		}
	}
}

func TestBitStrings(t *testing.T) {
	t.Run("Most significant bit first", func(t *testing.T) {
		//** Arrange
		values := []bool{true, false, false, true, true}

		//** Act
		s := String(values)
		parsed, err := ParseBits(s)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "11001", s)
		assert.Equal(t, values, parsed)
		assert.Equal(t, uint64(25), Uint(values))
		assert.Equal(t, []int{0, 3, 4}, Ones(values))
	})

	t.Run("Invalid character", func(t *testing.T) {
		//** Act
		_, err := ParseBits("10x")

		//** Assert
		assert.Error(t, err)
	})
}

func inputs(a Vector, x uint64, b Vector, y uint64) map[z.Lit]bool {
	values := make(map[z.Lit]bool)
	for i, m := range a {
		values[m] = x&(1<<i) != 0
	}
	for i, m := range b {
		values[m] = y&(1<<i) != 0
	}
	return values
}
