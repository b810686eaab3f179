package model

import (
	"context"
	"testing"

	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestInferrer(sessions sat.SessionFactory) Inferrer {
	logger, _ := test.NewNullLogger()
	return NewInferrer(sessions, logger, nil)
}

func process(t *testing.T, rawInput RawModelInput) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(rawInput)
	require.NoError(t, err)
	return input
}

// A activates B. A always switches off and B follows A.
func cascadeInput(t *testing.T, uniqueness string) ModelInput {
	return process(t, RawModelInput{
		Nodes: []RawNode{
			{Name: "A", Templates: []int{0}},
			{Name: "B", Templates: []int{9}},
		},
		Definite: []RawInteraction{{Regulator: "A", Target: "B", Sign: "+"}},
		Experiments: []RawExperiment{{
			Name: "e1",
			Observations: []RawObservation{
				{Step: 0, Gene: "B", Value: false},
				{Step: 1, Gene: "B", Value: true},
			},
		}},
		Parameters: Parameters{Length: 1, Uniqueness: uniqueness},
	})
}

// One optional edge, two templates per node and one free experiment of
// length 1.
func looseInput(t *testing.T, uniqueness string) ModelInput {
	return process(t, RawModelInput{
		Nodes: []RawNode{
			{Name: "A", Templates: []int{0, 9}},
			{Name: "B", Templates: []int{0, 9}},
		},
		Optional:    []RawInteraction{{Regulator: "A", Target: "B", Sign: "+"}},
		Experiments: []RawExperiment{{Name: "free"}},
		Parameters:  Parameters{Length: 1, MaxSolutions: 100, Uniqueness: uniqueness},
	})
}

func inferAll(t *testing.T, inferrer Inferrer, input ModelInput) Result {
	t.Helper()
	result, err := inferrer.Infer(context.Background(), input)
	require.NoError(t, err)
	for _, solution := range result.Solutions {
		require.True(t, inferrer.Verify(solution, input), "solution %+v does not verify", solution)
	}
	return result
}
