package model

import (
	"context"
	"testing"

	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfold(t *testing.T) {
	inferrer := newTestInferrer(sat.NewIncrementalSession)
	input := cascadeInput(t, "")
	result := inferAll(t, inferrer, input)
	require.Len(t, result.Solutions, 1)
	solution := result.Solutions[0]

	t.Run("Synchronous run stops at its fixed point", func(t *testing.T) {
		//** Act
		trajectories, err := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "01", UnfoldOptions{Steps: 3})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"01", "10", "00"}}, trajectories)
	})

	t.Run("Knock-down", func(t *testing.T) {
		//** Act
		trajectories, err := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "01", UnfoldOptions{
			Steps:      3,
			KnockDowns: []string{"A"},
		})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"01", "00"}}, trajectories)
	})

	t.Run("Steady state", func(t *testing.T) {
		//** Act
		trajectories, err := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "11", UnfoldOptions{
			Steps:       3,
			SteadyState: true,
		})

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"11", "10", "00"}}, trajectories)
	})

	t.Run("Asynchronous runs branch", func(t *testing.T) {
		//** Act
		trajectories, err := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "01", UnfoldOptions{
			Steps:      3,
			Transition: Asynchronous,
			Paths:      5,
		})

		//** Assert
		g := gomega.NewWithT(t)
		g.Expect(err).NotTo(gomega.HaveOccurred())
		g.Expect(trajectories).To(gomega.ConsistOf(
			[]string{"01", "00"},
			[]string{"01", "11", "10", "00"},
		))
	})

	t.Run("Invalid requests", func(t *testing.T) {
		//** Act
		_, geneErr := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "01", UnfoldOptions{KnockDowns: []string{"Z"}})
		_, stateErr := Unfold(context.Background(), sat.NewIncrementalSession, input, solution, "011", UnfoldOptions{})

		//** Assert
		assert.ErrorIs(t, geneErr, ErrUnknownNode)
		assert.ErrorIs(t, stateErr, ErrInvalidInput)
	})
}
