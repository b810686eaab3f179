package grf

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/pkg/errors"
)

// Inputs describe one node against one state: presence masks of its
// activators and repressors, the state its regulators are read from and the
// node's own index in that state.
type Inputs struct {
	Activators bv.Vector
	Repressors bv.Vector
	State      bv.Vector
	Self       int
}

// Evaluator is the solver view of the template library. Regulator predicates
// are built once and shared by every template asked for.
type Evaluator struct {
	c     *logic.C
	in    Inputs
	atoms [4]z.Lit
	hasA  z.Lit
	hasR  z.Lit

	counted bool
	greater z.Lit
	tie     z.Lit
}

func NewEvaluator(c *logic.C, in Inputs) (*Evaluator, error) {
	if _, err := in.State.Extract(in.Self); err != nil {
		return nil, errors.Wrap(err, "self index")
	}

	e := &Evaluator{c: c, in: in}
	e.hasA, e.hasR = bv.Any(c, in.Activators), bv.Any(c, in.Repressors)

	activatorsOn, err := bv.Subset(c, in.Activators, in.State)
	if err != nil {
		return nil, errors.Wrap(err, "activators")
	}
	repressorsOn, err := bv.Subset(c, in.Repressors, in.State)
	if err != nil {
		return nil, errors.Wrap(err, "repressors")
	}
	activatorsOff, err := bv.Disjoint(c, in.Activators, in.State)
	if err != nil {
		return nil, errors.Wrap(err, "activators")
	}
	repressorsOff, err := bv.Disjoint(c, in.Repressors, in.State)
	if err != nil {
		return nil, errors.Wrap(err, "repressors")
	}

	e.atoms[allActivators] = c.And(e.hasA, activatorsOn)
	e.atoms[allRepressors] = c.And(e.hasR, repressorsOn)
	e.atoms[noActivators] = activatorsOff
	e.atoms[noRepressors] = repressorsOff
	return e, nil
}

// Next returns the literal that holds iff template t makes the node's next
// value true.
func (e *Evaluator) Next(t Template) (z.Lit, error) {
	if !t.Valid() {
		return z.LitNull, errors.Wrapf(ErrUnknownTemplate, "index %d", t)
	}
	definition := definitions[t]
	if definition.threshold {
		if err := e.count(); err != nil {
			return z.LitNull, err
		}
		if definition.selfBias {
			return e.c.Or(e.greater, e.c.And(e.tie, e.in.State[e.in.Self])), nil
		}
		return e.greater, nil
	}

	x := e.body(definition.body)
	c := e.c
	// A node with activators only needs one of them active; one with
	// repressors only is also released when none of them is active.
	gated := c.And(x, c.Ors(e.hasA.Not(), e.hasR, e.atoms[noActivators].Not()))
	released := c.Ands(e.hasR, e.hasA.Not(), e.atoms[noRepressors])
	return c.Or(gated, released), nil
}

func (e *Evaluator) body(x expr) z.Lit {
	switch x.op {
	case exprAtom:
		return e.atoms[x.atom]
	case exprNot:
		return e.body(x.args[0]).Not()
	case exprAnd:
		return e.c.And(e.body(x.args[0]), e.body(x.args[1]))
	default:
		return e.c.Or(e.body(x.args[0]), e.body(x.args[1]))
	}
}

func (e *Evaluator) count() error {
	if e.counted {
		return nil
	}
	activeActivators, err := bv.And(e.c, e.in.State, e.in.Activators)
	if err != nil {
		return errors.Wrap(err, "active activators")
	}
	activeRepressors, err := bv.And(e.c, e.in.State, e.in.Repressors)
	if err != nil {
		return errors.Wrap(err, "active repressors")
	}
	na, nr := bv.PopCount(e.c, activeActivators), bv.PopCount(e.c, activeRepressors)
	e.greater, e.tie = na.Greater(nr), na.Equal(nr)
	e.counted = true
	return nil
}
