package model

import (
	"context"
	"slices"
	"strings"

	"github.com/limaJavier/grninference/pkg/bv"
	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type UnfoldOptions struct {
	Steps           int // Defaults to the input's length
	Transition      TransitionType
	KnockDowns      []string
	Overexpressions []string
	Paths           int // Maximum number of trajectories, defaults to 1
	SteadyState     bool
}

// Unfold simulates a solved network from an initial state. initial is a most
// significant first bit string, all ones when empty. Every returned
// trajectory stops at its first repeated state.
func Unfold(
	ctx context.Context,
	sessions sat.SessionFactory,
	modelInput ModelInput,
	solution Solution,
	initial string,
	options UnfoldOptions,
) ([][]string, error) {
	if err := modelInput.Validate(); err != nil {
		return nil, err
	}
	nodes := len(modelInput.Nodes)
	if len(solution.Templates) != nodes {
		return nil, errors.Wrapf(ErrInvalidInput, "solution has %d templates for %d nodes", len(solution.Templates), nodes)
	}
	if initial == "" {
		initial = strings.Repeat("1", nodes)
	}
	q0, err := bv.ParseBits(initial)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}
	if len(q0) != nodes {
		return nil, errors.Wrapf(ErrInvalidInput, "initial state %q for %d nodes", initial, nodes)
	}
	if options.Steps < 0 || options.Paths < 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "negative option in %+v", options)
	}

	//** Derive a single-run input
	knockDowns, err := perturbed(modelInput, options.KnockDowns)
	if err != nil {
		return nil, err
	}
	overexpressions, err := perturbed(modelInput, options.Overexpressions)
	if err != nil {
		return nil, err
	}

	run := modelInput
	run.Length = lo.Ternary(options.Steps > 0, options.Steps, modelInput.Length)
	run.Transition = options.Transition
	run.Uniqueness = Paths
	run.InteractionLimit = 0
	run.Nodes = lo.Map(modelInput.Nodes, func(node Node, g int) Node {
		node.Templates = []grf.Template{solution.Templates[g]}
		node.KnockDown = slices.Contains(knockDowns, uint64(g))
		node.Overexpression = slices.Contains(overexpressions, uint64(g))
		node.RequiresActivator = false
		return node
	})
	experiment := Experiment{
		Name:        "unfold",
		HasFixpoint: options.SteadyState,
		Fixpoint:    run.Length,
		Observations: lo.Map(q0, func(value bool, g int) Observation {
			return Observation{Step: 0, Node: uint64(g), Value: value}
		}),
		KnockDowns: lo.Map(knockDowns, func(node uint64, _ int) Perturbation {
			return Perturbation{Node: node, Value: true}
		}),
		Overexpressions: lo.Map(overexpressions, func(node uint64, _ int) Perturbation {
			return Perturbation{Node: node, Value: true}
		}),
	}
	run.Experiments = []Experiment{experiment}

	//** Encode with the solution's structure fixed
	session := sessions()
	state, err := newConstraintState(session.Circuit(), run)
	if err != nil {
		return nil, err
	}
	lits, err := encode(state, []constraint{
		regulationConstraints,
		selectionConstraints(solution.Selected),
		perturbationConstraints,
		observationConstraints,
		trajectoryConstraints,
	})
	if err != nil {
		return nil, err
	}
	session.Assert(lits...)

	//** Enumerate trajectories
	paths := lo.Ternary(options.Paths > 0, options.Paths, 1)
	enumeration := newEnumeration(state, session, Paths)
	trajectories := make([][]string, 0, paths)
	for len(trajectories) < paths {
		found, err := enumeration.Next(ctx)
		if err != nil {
			return trajectories, err
		}
		if found == nil {
			break
		}
		trajectories = append(trajectories, trim(found.Trajectories[0]))
	}
	return trajectories, nil
}

func perturbed(modelInput ModelInput, names []string) ([]uint64, error) {
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		_, g, ok := lo.FindIndexOf(modelInput.Nodes, func(node Node) bool { return node.Name == name })
		if !ok {
			return nil, errors.Wrapf(ErrUnknownNode, "%q", name)
		}
		ids = append(ids, uint64(g))
	}
	return lo.Uniq(ids), nil
}

// trim drops everything after the first state that repeats.
func trim(trajectory []string) []string {
	for i := 0; i+1 < len(trajectory); i++ {
		if trajectory[i] == trajectory[i+1] {
			return trajectory[:i+1]
		}
	}
	return trajectory
}
