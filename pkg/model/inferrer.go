package model

import (
	"context"
	"time"

	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Inferrer interface {
	Infer(
		ctx context.Context,
		modelInput ModelInput,
	) (Result, error)

	Verify(
		solution Solution,
		modelInput ModelInput,
	) bool
}

// Result accumulates the models of one enumeration run. Enumeration stays
// open so the caller may keep asking for models.
type Result struct {
	Solutions   []Solution
	Enumeration *Enumeration
	Exhausted   bool // No model beyond Solutions exists
	Variables   uint64
	Clauses     uint64
}

type inferrer struct {
	sessions sat.SessionFactory
	logger   logrus.FieldLogger
	metrics  *Metrics
}

// NewInferrer builds an Inferrer drawing a fresh session from sessions for
// every run. metrics may be nil.
func NewInferrer(sessions sat.SessionFactory, logger logrus.FieldLogger, metrics *Metrics) Inferrer {
	return &inferrer{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}
}

func (inferrer *inferrer) Infer(ctx context.Context, modelInput ModelInput) (Result, error) {
	if err := modelInput.Validate(); err != nil {
		return Result{}, err
	}

	//** Build constraints
	session := inferrer.sessions()
	state, err := newConstraintState(session.Circuit(), modelInput)
	if err != nil {
		return Result{}, err
	}
	lits, err := encode(state, []constraint{
		regulationConstraints,
		cardinalityConstraints,
		activatorConstraints,
		moduleConstraints,
		perturbationConstraints,
		observationConstraints,
		trajectoryConstraints,
	})
	if err != nil {
		return Result{}, err
	}
	session.Assert(lits...)

	//** Enumerate models
	logger := inferrer.logger.WithFields(logrus.Fields{
		"uniqueness": modelInput.Uniqueness,
		"transition": modelInput.Transition,
	})
	result := Result{Enumeration: newEnumeration(state, session, modelInput.Uniqueness)}
	maxSolutions := lo.Ternary(modelInput.MaxSolutions > 0, modelInput.MaxSolutions, defaultMaxSolutions)

	for round := 1; len(result.Solutions) < maxSolutions; round++ {
		if err := ctx.Err(); err != nil {
			return inferrer.partial(result, session), err
		}

		start := time.Now()
		solution, err := result.Enumeration.Next(ctx)
		elapsed := time.Since(start)
		inferrer.metrics.observeRound(modelInput.Uniqueness, solution != nil, elapsed)
		if err != nil {
			return inferrer.partial(result, session), errors.Wrapf(err, "round %d", round)
		}
		if solution == nil {
			logger.WithField("round", round).Debug("no more models")
			result.Exhausted = true
			break
		}

		result.Solutions = append(result.Solutions, *solution)
		logger.WithFields(logrus.Fields{
			"round":   round,
			"models":  len(result.Solutions),
			"elapsed": elapsed,
		}).Info("model found")
	}

	if len(result.Solutions) == 0 {
		logger.Warn("no model is consistent with the experiments")
	}
	return inferrer.partial(result, session), nil
}

func (inferrer *inferrer) partial(result Result, session sat.Session) Result {
	result.Variables, result.Clauses = session.Variables(), session.Clauses()
	return result
}

func (inferrer *inferrer) Verify(solution Solution, modelInput ModelInput) bool {
	return verify(solution, modelInput)
}

// InferAll runs one enumeration per uniqueness mode concurrently, each over
// its own session.
func InferAll(ctx context.Context, inferrer Inferrer, modelInput ModelInput) (map[Uniqueness]Result, error) {
	modes := []Uniqueness{Interactions, Full, Paths}
	results := make([]Result, len(modes))

	group, groupCtx := errgroup.WithContext(ctx)
	for i, mode := range modes {
		group.Go(func() error {
			input := modelInput
			input.Uniqueness = mode
			result, err := inferrer.Infer(groupCtx, input)
			results[i] = result
			return errors.Wrapf(err, "uniqueness %s", mode)
		})
	}
	err := group.Wait()

	byMode := make(map[Uniqueness]Result, len(modes))
	for i, mode := range modes {
		byMode[mode] = results[i]
	}
	return byMode, err
}
