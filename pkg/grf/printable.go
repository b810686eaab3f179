package grf

import "github.com/pkg/errors"

// Formula returns the printable update rule of a node whose present
// activators and repressors are given, self being the node's own value.
func (t Template) Formula(activators, repressors []Formula, self Formula) (Formula, error) {
	if !t.Valid() {
		return Formula{}, errors.Wrapf(ErrUnknownTemplate, "index %d", t)
	}
	definition := definitions[t]
	if definition.threshold {
		rule := Greater(activators, repressors)
		if definition.selfBias {
			rule = Or(rule, And(Equal(activators, repressors), self))
		}
		return rule, nil
	}

	noneActive := func(regulators []Formula) Formula {
		inactive := make([]Formula, len(regulators))
		for i, regulator := range regulators {
			inactive[i] = Not(regulator)
		}
		return And(inactive...)
	}
	allActive := func(regulators []Formula) Formula {
		if len(regulators) == 0 {
			return False()
		}
		return And(regulators...)
	}
	atoms := map[atom]Formula{
		allActivators: allActive(activators),
		allRepressors: allActive(repressors),
		noActivators:  noneActive(activators),
		noRepressors:  noneActive(repressors),
	}
	x := render(definition.body, func(a atom) Formula { return atoms[a] })

	switch {
	case len(repressors) > 0 && len(activators) == 0:
		return Or(x, atoms[noRepressors]), nil
	case len(activators) > 0 && len(repressors) == 0:
		return And(x, Not(atoms[noActivators])), nil
	}
	return x, nil
}
