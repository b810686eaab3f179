package model

import (
	"fmt"

	"github.com/go-air/gini/z"
	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Solution is one decoded model. Bit strings are most significant first, so
// the last character belongs to the first node (or optional interaction).
type Solution struct {
	Interactions    string
	Selected        []bool
	Templates       []grf.Template
	Activators      [][]uint64 // Present activators per node
	Repressors      [][]uint64 // Present repressors per node
	Trajectories    [][]string // State per experiment per step
	KnockDowns      []string
	Overexpressions []string
}

func (state *constraintState) decode(model sat.Model) Solution {
	c := state.c
	read := func(v bv.Vector) []bool { return bv.Decode(c, model, v) }
	present := func(v bv.Vector) []uint64 {
		return lo.Map(bv.Ones(read(v)), func(i int, _ int) uint64 { return uint64(i) })
	}

	solution := Solution{
		Selected:   read(state.selected),
		Templates:  lo.Map(state.templates, func(v bv.Vector, _ int) grf.Template { return grf.Template(bv.Uint(read(v))) }),
		Activators: lo.Map(state.activators, func(v bv.Vector, _ int) []uint64 { return present(v) }),
		Repressors: lo.Map(state.repressors, func(v bv.Vector, _ int) []uint64 { return present(v) }),
		Trajectories: lo.Map(state.trajectories, func(states []bv.Vector, _ int) []string {
			return lo.Map(states, func(q bv.Vector, _ int) string { return bv.String(read(q)) })
		}),
		KnockDowns:      lo.Map(state.knockDowns, func(v bv.Vector, _ int) string { return bv.String(read(v)) }),
		Overexpressions: lo.Map(state.overexpressions, func(v bv.Vector, _ int) string { return bv.String(read(v)) }),
	}
	solution.Interactions = bv.String(solution.Selected)
	return solution
}

// difference returns the literal that holds iff a model differs from solution
// in what the uniqueness mode compares.
func (state *constraintState) difference(solution Solution, uniqueness Uniqueness) (z.Lit, error) {
	c := state.c
	differs := make([]z.Lit, 0)

	// A differing bit is the bit's literal when it was false and its negation otherwise
	flip := func(v bv.Vector, bits []bool) {
		for i, m := range v {
			differs = append(differs, lo.Ternary(bits[i], m.Not(), m))
		}
	}

	flip(state.selected, solution.Selected)
	if uniqueness == Interactions {
		return c.Ors(differs...), nil
	}

	for g, template := range solution.Templates {
		same, err := bv.EqualConst(c, state.templates[g], uint64(template))
		if err != nil {
			return z.LitNull, err
		}
		differs = append(differs, same.Not())
	}
	if uniqueness == Full {
		return c.Ors(differs...), nil
	}

	if uniqueness != Paths {
		return z.LitNull, errors.Wrapf(ErrUnknownUniqueness, "%d", uniqueness)
	}
	for e, states := range state.trajectories {
		for step, q := range states {
			bits, err := bv.ParseBits(solution.Trajectories[e][step])
			if err != nil {
				return z.LitNull, err
			}
			flip(q, bits)
		}
	}
	return c.Ors(differs...), nil
}

// Values names every decoded variable.
func (solution Solution) Values(input ModelInput) map[string]any {
	names := func(ids []uint64) []string {
		return lo.Map(ids, func(id uint64, _ int) string { return input.Nodes[id].Name })
	}

	values := map[string]any{"selected_interactions": solution.Interactions}
	for g, node := range input.Nodes {
		values["grf_"+node.Name] = int(solution.Templates[g])
		values["activators_"+node.Name] = names(solution.Activators[g])
		values["repressors_"+node.Name] = names(solution.Repressors[g])
	}
	for e, experiment := range input.Experiments {
		for step, q := range solution.Trajectories[e] {
			values[fmt.Sprintf("q_step%d_%s", step, experiment.Name)] = q
		}
		values["ko_"+experiment.Name] = solution.KnockDowns[e]
		values["fe_"+experiment.Name] = solution.Overexpressions[e]
	}
	return values
}

// Formulas renders the update rule of every node. Perturbable regulators read
// as ((j AND (NOT KO_j)) OR FE_j).
func (solution Solution) Formulas(input ModelInput) ([]grf.Formula, error) {
	regulators := lo.Map(input.Nodes, func(node Node, _ int) grf.Formula {
		formula := grf.Var(node.Name)
		if node.KnockDown {
			formula = grf.And(formula, grf.Not(grf.Var(knockDownName(node.Name))))
		}
		if node.Overexpression {
			formula = grf.Or(formula, grf.Var(overexpressionName(node.Name)))
		}
		return formula
	})
	pick := func(ids []uint64) []grf.Formula {
		return lo.Map(ids, func(id uint64, _ int) grf.Formula { return regulators[id] })
	}

	formulas := make([]grf.Formula, len(input.Nodes))
	for g, node := range input.Nodes {
		formula, err := solution.Templates[g].Formula(pick(solution.Activators[g]), pick(solution.Repressors[g]), regulators[g])
		if err != nil {
			return nil, errors.Wrapf(err, "node %q", node.Name)
		}
		formulas[g] = formula
	}
	return formulas, nil
}

func knockDownName(node string) string {
	return "KO_" + node
}

func overexpressionName(node string) string {
	return "FE_" + node
}
