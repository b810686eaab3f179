package bv

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Count is the population count of a vector, kept in unary form by a
// sorting network so that it can be compared without binary arithmetic.
type Count struct {
	c    *logic.C
	card *logic.CardSort
}

func PopCount(c *logic.C, v Vector) Count {
	return Count{c: c, card: c.CardSort(v)}
}

func (n Count) Max() int {
	return n.card.N()
}

func (n Count) AtMost(k int) z.Lit {
	return n.card.Leq(k)
}

func (n Count) AtLeast(k int) z.Lit {
	return n.card.Geq(k)
}

// Greater holds iff n > m.
func (n Count) Greater(m Count) z.Lit {
	bound := max(n.Max(), m.Max())
	cases := make([]z.Lit, 0, bound)
	for k := 1; k <= bound; k++ {
		cases = append(cases, n.c.And(n.AtLeast(k), m.AtLeast(k).Not()))
	}
	return n.c.Ors(cases...)
}

func (n Count) Equal(m Count) z.Lit {
	bound := max(n.Max(), m.Max())
	same := make([]z.Lit, 0, bound)
	for k := 1; k <= bound; k++ {
		same = append(same, n.c.Xor(n.AtLeast(k), m.AtLeast(k)).Not())
	}
	return n.c.Ands(same...)
}
