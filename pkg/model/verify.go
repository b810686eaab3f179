package model

import (
	"slices"

	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/samber/lo"
)

// verify replays a solution concretely through the printable formulas,
// independently of the circuit it was decoded from.
func verify(solution Solution, modelInput ModelInput) bool {
	nodes := len(modelInput.Nodes)

	//** Check shapes
	if len(solution.Selected) != len(modelInput.Optional) ||
		solution.Interactions != bv.String(solution.Selected) ||
		len(solution.Templates) != nodes ||
		len(solution.Activators) != nodes ||
		len(solution.Repressors) != nodes ||
		len(solution.Trajectories) != len(modelInput.Experiments) ||
		len(solution.KnockDowns) != len(modelInput.Experiments) ||
		len(solution.Overexpressions) != len(modelInput.Experiments) {
		return false
	}

	//** Check structure
	limit := modelInput.InteractionLimit
	if limit > 0 && lo.Count(solution.Selected, true) > limit {
		return false
	}

	indexer := newIndexer(modelInput)
	present := func(index uint64) bool {
		switch index {
		case absent:
			return false
		case definite:
			return true
		}
		return solution.Selected[index]
	}
	for target, node := range modelInput.Nodes {
		// Check that:
		// - The selected template is allowed for the node
		// - The decoded regulators are exactly the present ones
		// - A node requiring an activator has one
		if !slices.Contains(node.Templates, solution.Templates[target]) ||
			(node.RequiresActivator && len(solution.Activators[target]) == 0) {
			return false
		}
		for regulator := range uint64(nodes) {
			if slices.Contains(solution.Activators[target], regulator) != present(indexer.Activator(uint64(target), regulator)) ||
				slices.Contains(solution.Repressors[target], regulator) != present(indexer.Repressor(uint64(target), regulator)) {
				return false
			}
		}
	}

	for m, node := range modelInput.Nodes {
		if !node.HasModule {
			continue
		}
		definiteIntoModule := indexer.DefiniteInto(uint64(m))
		regulated := lo.SomeBy(indexer.OptionalInto(uint64(m)), func(k uint64) bool { return solution.Selected[k] })
		for k, interaction := range modelInput.Optional {
			if interaction.Regulator != uint64(m) {
				continue
			}
			switch {
			case regulated || (definiteIntoModule && interaction.Target == node.Module):
				if !solution.Selected[k] {
					return false
				}
			case !definiteIntoModule:
				if solution.Selected[k] {
					return false
				}
			}
		}
	}

	//** Check experiments
	formulas, err := solution.Formulas(modelInput)
	if err != nil {
		return false
	}
	for e, experiment := range modelInput.Experiments {
		trajectory, ok := parseStates(solution.Trajectories[e], nodes)
		if !ok || len(trajectory) != modelInput.Length+1 {
			return false
		}
		perturbations, ok := parseStates([]string{solution.KnockDowns[e], solution.Overexpressions[e]}, nodes)
		if !ok {
			return false
		}
		knockDowns, overexpressions := perturbations[0], perturbations[1]

		for g, node := range modelInput.Nodes {
			if (knockDowns[g] && !node.KnockDown) || (overexpressions[g] && !node.Overexpression) {
				return false
			}
		}
		for _, perturbation := range experiment.KnockDowns {
			if knockDowns[perturbation.Node] != perturbation.Value {
				return false
			}
		}
		for _, perturbation := range experiment.Overexpressions {
			if overexpressions[perturbation.Node] != perturbation.Value {
				return false
			}
		}
		for _, observation := range experiment.Observations {
			if trajectory[observation.Step][observation.Node] != observation.Value {
				return false
			}
		}

		next := func(q []bool) []bool {
			values := make(map[string]bool, 3*nodes)
			for g, node := range modelInput.Nodes {
				values[node.Name] = q[g]
				values[knockDownName(node.Name)] = knockDowns[g]
				values[overexpressionName(node.Name)] = overexpressions[g]
			}
			return lo.Map(formulas, func(formula grf.Formula, _ int) bool { return formula.Eval(values) })
		}
		follows := func(start, end int, transition TransitionType) bool {
			if start == end {
				return holds(trajectory[end], trajectory[end], next(trajectory[end]), transition)
			}
			for step := start; step < end; step++ {
				if !holds(trajectory[step], trajectory[step+1], next(trajectory[step]), transition) {
					return false
				}
			}
			return true
		}

		end := lo.Ternary(experiment.HasFixpoint, experiment.Fixpoint, modelInput.Length)
		if !follows(0, end, modelInput.Transition) ||
			(experiment.HasFixpoint && !follows(experiment.Fixpoint, modelInput.Length, Fixpoint)) {
			return false
		}
	}
	return true
}

// holds tells whether q0 -> q1 is a transition given the rules' values next on q0
func holds(q0, q1, next []bool, transition TransitionType) bool {
	switch transition {
	case Synchronous:
		return slices.Equal(q1, next)
	case Fixpoint:
		return slices.Equal(q0, q1) && slices.Equal(q1, next)
	case Asynchronous:
		changed := lo.Filter(lo.Range(len(q0)), func(g int, _ int) bool { return q0[g] != q1[g] })
		switch len(changed) {
		case 0:
			return slices.Equal(q0, next)
		case 1:
			return next[changed[0]] == q1[changed[0]]
		}
	}
	return false
}

func parseStates(states []string, width int) ([][]bool, bool) {
	parsed := make([][]bool, len(states))
	for i, state := range states {
		bits, err := bv.ParseBits(state)
		if err != nil || len(bits) != width {
			return nil, false
		}
		parsed[i] = bits
	}
	return parsed, true
}
