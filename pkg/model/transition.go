package model

import (
	"github.com/go-air/gini/z"
	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/pkg/errors"
)

// transitionBuilder relates consecutive states of one experiment.
type transitionBuilder struct {
	state      *constraintState
	experiment int
}

func newTransitionBuilder(state *constraintState, experiment int) *transitionBuilder {
	return &transitionBuilder{state: state, experiment: experiment}
}

// path chains transitions over [start, end]. A single point still gets a
// self-transition.
func (builder *transitionBuilder) path(start, end int, transition TransitionType) ([]z.Lit, error) {
	states := builder.state.trajectories[builder.experiment]
	if start == end {
		lit, err := builder.step(states[end], states[end], transition)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", end)
		}
		return []z.Lit{lit}, nil
	}

	lits := make([]z.Lit, 0, end-start)
	for step := start; step < end; step++ {
		lit, err := builder.step(states[step], states[step+1], transition)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", step)
		}
		lits = append(lits, lit)
	}
	return lits, nil
}

// effective applies the experiment's perturbations to q. Over-expression wins
// over knock-down.
func (builder *transitionBuilder) effective(q bv.Vector) (bv.Vector, error) {
	c := builder.state.c
	kept, err := bv.And(c, q, bv.Not(builder.state.knockDowns[builder.experiment]))
	if err != nil {
		return nil, err
	}
	return bv.Or(c, kept, builder.state.overexpressions[builder.experiment])
}

func (builder *transitionBuilder) step(q0, q1 bv.Vector, transition TransitionType) (z.Lit, error) {
	c := builder.state.c
	rules, err := builder.rules(q0, q1)
	if err != nil {
		return z.LitNull, err
	}

	switch transition {
	case Synchronous:
		return c.Ands(rules...), nil
	case Asynchronous:
		guarded := make([]z.Lit, len(rules))
		changes := make([]z.Lit, len(rules))
		for g := range rules {
			if changes[g], err = bv.EqualExcept1(c, q0, q1, g); err != nil {
				return z.LitNull, err
			}
			guarded[g] = c.Implies(changes[g], rules[g])
		}
		return c.And(c.Ands(guarded...), c.Ors(changes...)), nil
	case Fixpoint:
		stays, err := bv.Equal(c, q0, q1)
		if err != nil {
			return z.LitNull, err
		}
		return c.And(stays, c.Ands(rules...)), nil
	}
	return z.LitNull, errors.Wrapf(ErrUnknownTransition, "%d", transition)
}

// rules returns, per node, the literal stating that q1 holds the node's next
// value under whichever allowed template is selected.
func (builder *transitionBuilder) rules(q0, q1 bv.Vector) ([]z.Lit, error) {
	state := builder.state
	c := state.c
	eff, err := builder.effective(q0)
	if err != nil {
		return nil, err
	}

	rules := make([]z.Lit, len(state.input.Nodes))
	for g, node := range state.input.Nodes {
		evaluator, err := grf.NewEvaluator(c, grf.Inputs{
			Activators: state.activators[g],
			Repressors: state.repressors[g],
			State:      eff,
			Self:       g,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", node.Name)
		}

		implications := make([]z.Lit, 0, len(node.Templates))
		for _, template := range node.Templates {
			next, err := evaluator.Next(template)
			if err != nil {
				return nil, errors.Wrapf(err, "node %q", node.Name)
			}
			selected, err := bv.EqualConst(c, state.templates[g], uint64(template))
			if err != nil {
				return nil, err
			}
			implications = append(implications, c.Implies(selected, c.Xor(q1[g], next).Not()))
		}
		rules[g] = c.Ands(implications...)
	}
	return rules, nil
}
