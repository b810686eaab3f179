package model

import (
	"context"

	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
)

// Enumeration walks the models of one encoding, each new model differing
// from every earlier one under the uniqueness mode. The difference clause for
// a model is only asserted when the next one is asked for.
type Enumeration struct {
	state      *constraintState
	session    sat.Session
	uniqueness Uniqueness
	last       *Solution
	exhausted  bool
}

func newEnumeration(state *constraintState, session sat.Session, uniqueness Uniqueness) *Enumeration {
	return &Enumeration{state: state, session: session, uniqueness: uniqueness}
}

// Next returns the following model, or nil once no further model exists.
func (enumeration *Enumeration) Next(ctx context.Context) (*Solution, error) {
	if enumeration.exhausted {
		return nil, nil
	}
	if enumeration.last != nil {
		difference, err := enumeration.state.difference(*enumeration.last, enumeration.uniqueness)
		if err != nil {
			return nil, err
		}
		enumeration.session.Assert(difference)
		enumeration.last = nil
	}

	model, err := enumeration.session.Solve(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot solve")
	}
	if model == nil {
		enumeration.exhausted = true
		return nil, nil
	}
	solution := enumeration.state.decode(model)
	enumeration.last = &solution
	return &solution, nil
}

func (enumeration *Enumeration) Session() sat.Session {
	return enumeration.session
}

func (enumeration *Enumeration) Exhausted() bool {
	return enumeration.exhausted
}
