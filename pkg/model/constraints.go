package model

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// constraintState holds every symbolic variable of one encoding. All vectors
// live on the same circuit.
type constraintState struct {
	input   ModelInput
	indexer indexer
	c       *logic.C

	selected        bv.Vector     // One bit per optional interaction, nil when there are none
	templates       []bv.Vector   // Selected template index per node
	activators      []bv.Vector   // Presence of every regulator as activator, per node
	repressors      []bv.Vector   // Presence of every regulator as repressor, per node
	trajectories    [][]bv.Vector // State per experiment per step
	knockDowns      []bv.Vector   // Knock-down bits per experiment, F outside perturbable nodes
	overexpressions []bv.Vector   // Over-expression bits per experiment, F outside perturbable nodes
}

type constraint func(state *constraintState) ([]z.Lit, error)

func newConstraintState(c *logic.C, input ModelInput) (*constraintState, error) {
	nodes := len(input.Nodes)
	state := &constraintState{
		input:   input,
		indexer: newIndexer(input),
		c:       c,
	}

	var err error
	if len(input.Optional) > 0 {
		if state.selected, err = bv.New(c, len(input.Optional)); err != nil {
			return nil, errors.Wrap(err, "interaction selector")
		}
	}

	//** Templates and regulator presence
	state.templates = make([]bv.Vector, nodes)
	state.activators = make([]bv.Vector, nodes)
	state.repressors = make([]bv.Vector, nodes)
	for target := range nodes {
		if state.templates[target], err = bv.New(c, grf.Bits); err != nil {
			return nil, errors.Wrap(err, "template selector")
		}
		state.activators[target] = make(bv.Vector, nodes)
		state.repressors[target] = make(bv.Vector, nodes)
		for regulator := range nodes {
			state.activators[target][regulator] = state.presence(state.indexer.Activator(uint64(target), uint64(regulator)))
			state.repressors[target][regulator] = state.presence(state.indexer.Repressor(uint64(target), uint64(regulator)))
		}
	}

	//** Trajectories and perturbations
	state.trajectories = make([][]bv.Vector, len(input.Experiments))
	state.knockDowns = make([]bv.Vector, len(input.Experiments))
	state.overexpressions = make([]bv.Vector, len(input.Experiments))
	for e := range input.Experiments {
		state.trajectories[e] = make([]bv.Vector, input.Length+1)
		for step := range state.trajectories[e] {
			if state.trajectories[e][step], err = bv.New(c, nodes); err != nil {
				return nil, errors.Wrapf(err, "state %d of experiment %q", step, input.Experiments[e].Name)
			}
		}
		state.knockDowns[e] = lo.Map(input.Nodes, func(node Node, _ int) z.Lit { return free(c, node.KnockDown) })
		state.overexpressions[e] = lo.Map(input.Nodes, func(node Node, _ int) z.Lit { return free(c, node.Overexpression) })
	}
	return state, nil
}

// free returns a fresh input when the bit may vary and F otherwise
func free(c *logic.C, varies bool) z.Lit {
	if varies {
		return c.Lit()
	}
	return c.F
}

func (state *constraintState) presence(index uint64) z.Lit {
	switch index {
	case absent:
		return state.c.F
	case definite:
		return state.c.T
	}
	return state.selected[index]
}

// encode runs every constraint before anything is asserted, so a failing
// constraint leaves the session untouched.
func encode(state *constraintState, constraints []constraint) ([]z.Lit, error) {
	lits := make([]z.Lit, 0)
	for _, constraint := range constraints {
		generated, err := constraint(state)
		if err != nil {
			return nil, err
		}
		lits = append(lits, generated...)
	}
	return lits, nil
}

// Every node uses exactly one of its allowed templates
func regulationConstraints(state *constraintState) ([]z.Lit, error) {
	lits := make([]z.Lit, 0, len(state.input.Nodes))
	for g, node := range state.input.Nodes {
		choices := make([]z.Lit, 0, len(node.Templates))
		for _, template := range node.Templates {
			is, err := bv.EqualConst(state.c, state.templates[g], uint64(template))
			if err != nil {
				return nil, errors.Wrapf(err, "template of %q", node.Name)
			}
			choices = append(choices, is)
		}
		lits = append(lits, state.c.Ors(choices...))
	}
	return lits, nil
}

// At most InteractionLimit optional interactions are selected
func cardinalityConstraints(state *constraintState) ([]z.Lit, error) {
	limit := state.input.InteractionLimit
	if limit == 0 || limit >= len(state.input.Optional) {
		return nil, nil
	}
	return []z.Lit{bv.PopCount(state.c, state.selected).AtMost(limit)}, nil
}

// Nodes flagged as requiring an activator have at least one present
func activatorConstraints(state *constraintState) ([]z.Lit, error) {
	lits := make([]z.Lit, 0)
	for g, node := range state.input.Nodes {
		if node.RequiresActivator {
			lits = append(lits, bv.Any(state.c, state.activators[g]))
		}
	}
	return lits, nil
}

// A module's outgoing optional edges are selected exactly when some regulator
// of the module is. A definite regulator forces the edge into the module's gene.
func moduleConstraints(state *constraintState) ([]z.Lit, error) {
	c := state.c
	lits := make([]z.Lit, 0)
	for m, node := range state.input.Nodes {
		if !node.HasModule {
			continue
		}

		definiteIntoModule := state.indexer.DefiniteInto(uint64(m))
		associated := lo.Map(state.indexer.OptionalInto(uint64(m)), func(k uint64, _ int) z.Lit {
			return state.selected[k]
		})
		allUnselected := c.F
		if !definiteIntoModule {
			allUnselected = c.Ands(lo.Map(associated, func(regulation z.Lit, _ int) z.Lit { return regulation.Not() })...)
		}

		for k, interaction := range state.input.Optional {
			if interaction.Regulator != uint64(m) {
				continue
			}
			forwarded := state.selected[k]
			if definiteIntoModule && interaction.Target == node.Module {
				lits = append(lits, forwarded)
			}
			for _, regulation := range associated {
				if regulation != forwarded {
					lits = append(lits, c.Implies(regulation, forwarded))
				}
			}
			lits = append(lits, c.Implies(allUnselected, forwarded.Not()))
		}
	}
	return lits, nil
}

// Experiments fix the perturbation bits they mention
func perturbationConstraints(state *constraintState) ([]z.Lit, error) {
	lits := make([]z.Lit, 0)
	for e, experiment := range state.input.Experiments {
		for _, perturbation := range experiment.KnockDowns {
			lit, err := bv.TestValue(state.c, state.knockDowns[e], int(perturbation.Node), perturbation.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "knock-down in experiment %q", experiment.Name)
			}
			lits = append(lits, lit)
		}
		for _, perturbation := range experiment.Overexpressions {
			lit, err := bv.TestValue(state.c, state.overexpressions[e], int(perturbation.Node), perturbation.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "over-expression in experiment %q", experiment.Name)
			}
			lits = append(lits, lit)
		}
	}
	return lits, nil
}

func observationConstraints(state *constraintState) ([]z.Lit, error) {
	lits := make([]z.Lit, 0)
	for e, experiment := range state.input.Experiments {
		for _, observation := range experiment.Observations {
			lit, err := bv.TestValue(state.c, state.trajectories[e][observation.Step], int(observation.Node), observation.Value)
			if err != nil {
				return nil, errors.Wrapf(err, "observation in experiment %q", experiment.Name)
			}
			lits = append(lits, lit)
		}
	}
	return lits, nil
}

// Each experiment follows its declared transition type up to its fixpoint
// and stays there afterwards.
func trajectoryConstraints(state *constraintState) ([]z.Lit, error) {
	lits := make([]z.Lit, 0)
	for e, experiment := range state.input.Experiments {
		builder := newTransitionBuilder(state, e)
		end := lo.Ternary(experiment.HasFixpoint, experiment.Fixpoint, state.input.Length)

		prefix, err := builder.path(0, end, state.input.Transition)
		if err != nil {
			return nil, errors.Wrapf(err, "experiment %q", experiment.Name)
		}
		lits = append(lits, prefix...)

		if experiment.HasFixpoint {
			suffix, err := builder.path(experiment.Fixpoint, state.input.Length, Fixpoint)
			if err != nil {
				return nil, errors.Wrapf(err, "fixpoint of experiment %q", experiment.Name)
			}
			lits = append(lits, suffix...)
		}
	}
	return lits, nil
}

// Pins the interaction selector to a decoded bit string
func selectionConstraints(selected []bool) constraint {
	return func(state *constraintState) ([]z.Lit, error) {
		if len(selected) != len(state.input.Optional) {
			return nil, errors.Wrapf(ErrInvalidInput, "%d selector bits for %d optional interactions", len(selected), len(state.input.Optional))
		}
		if len(selected) == 0 {
			return nil, nil
		}
		fixed, err := bv.FromBits(state.c, selected)
		if err != nil {
			return nil, err
		}
		lit, err := bv.Equal(state.c, state.selected, fixed)
		if err != nil {
			return nil, err
		}
		return []z.Lit{lit}, nil
	}
}
