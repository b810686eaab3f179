package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inputDocument = `
nodes:
  - name: A
    templates: [0, 9, 9]
    knockDown: true
  - name: B
    templates: [18]
    requiresActivator: true
definite:
  - {regulator: A, target: B, sign: "+"}
optional:
  - {regulator: B, target: A, sign: negative}
experiments:
  - name: wt
    observations:
      - {step: 0, gene: B, value: 0}
      - {step: 2, gene: B, value: 1}
    knockDowns:
      - {gene: A, value: false}
fixpoints:
  - {step: 2, experiment: wt}
parameters:
  length: 2
  uniqueness: paths
  transition: Asynchronous
`

func TestInputFromFile(t *testing.T) {
	//** Arrange
	file := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(file, []byte(inputDocument), 0o600))

	//** Act
	input, err := InputFromFile(file)

	//** Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, input.NodeNames())
	assert.Equal(t, []grf.Template{0, 9}, input.Nodes[0].Templates)
	assert.True(t, input.Nodes[0].KnockDown)
	assert.True(t, input.Nodes[1].RequiresActivator)
	assert.False(t, input.Nodes[0].HasModule)
	assert.Equal(t, Interaction{Id: 0, Regulator: 1, Target: 0, Sign: Repression, Optional: true}, input.Optional[0])
	assert.Equal(t, []Observation{{Step: 0, Node: 1, Value: false}, {Step: 2, Node: 1, Value: true}}, input.Experiments[0].Observations)
	assert.Equal(t, []Perturbation{{Node: 0, Value: false}}, input.Experiments[0].KnockDowns)
	assert.True(t, input.Experiments[0].HasFixpoint)
	assert.Equal(t, 2, input.Experiments[0].Fixpoint)
	assert.Equal(t, Paths, input.Uniqueness)
	assert.Equal(t, Asynchronous, input.Transition)
	assert.Equal(t, defaultMaxSolutions, input.MaxSolutions)
}

func TestProcessRawInput(t *testing.T) {
	valid := func() RawModelInput {
		return RawModelInput{
			Nodes: []RawNode{
				{Name: "A", Templates: []int{0}},
				{Name: "B", Templates: []int{9}},
			},
			Definite:    []RawInteraction{{Regulator: "A", Target: "B", Sign: "+"}},
			Experiments: []RawExperiment{{Name: "e1"}},
			Parameters:  Parameters{Length: 1},
		}
	}

	cases := []struct {
		name     string
		modify   func(rawInput *RawModelInput)
		expected error
	}{
		{"Unknown regulator", func(rawInput *RawModelInput) { rawInput.Definite[0].Regulator = "Z" }, ErrUnknownNode},
		{"Unknown module", func(rawInput *RawModelInput) { rawInput.Nodes[0].Module = "Z" }, ErrUnknownNode},
		{"Unknown sign", func(rawInput *RawModelInput) { rawInput.Definite[0].Sign = "?" }, ErrUnknownSign},
		{"Unknown template", func(rawInput *RawModelInput) { rawInput.Nodes[0].Templates = []int{20} }, grf.ErrUnknownTemplate},
		{"No template", func(rawInput *RawModelInput) { rawInput.Nodes[0].Templates = nil }, ErrInvalidInput},
		{"Duplicated node", func(rawInput *RawModelInput) { rawInput.Nodes[1].Name = "A" }, ErrInvalidInput},
		{"Unknown uniqueness", func(rawInput *RawModelInput) { rawInput.Parameters.Uniqueness = "some" }, ErrUnknownUniqueness},
		{"Unknown transition", func(rawInput *RawModelInput) { rawInput.Parameters.Transition = "eventually" }, ErrUnknownTransition},
		{"Negative length", func(rawInput *RawModelInput) { rawInput.Parameters.Length = -1 }, ErrInvalidInput},
		{"Step out of range", func(rawInput *RawModelInput) {
			rawInput.Experiments[0].Observations = []RawObservation{{Step: 2, Gene: "A"}}
		}, ErrInvalidInput},
		{"Unknown fixpoint experiment", func(rawInput *RawModelInput) {
			rawInput.Fixpoints = []RawFixpoint{{Step: 0, Experiment: "e2"}}
		}, ErrUnknownExperiment},
		{"Knock-down of a stable node", func(rawInput *RawModelInput) {
			rawInput.Experiments[0].KnockDowns = []RawPerturbation{{Gene: "B", Value: true}}
		}, ErrNotPerturbable},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Arrange
			rawInput := valid()
			testCase.modify(&rawInput)

			//** Act
			_, err := ProcessRawInput(rawInput)

			//** Assert
			assert.ErrorIs(t, err, testCase.expected)
		})
	}

	t.Run("Defaults", func(t *testing.T) {
		//** Act
		input, err := ProcessRawInput(valid())

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, 10, input.MaxSolutions)
		assert.Equal(t, Interactions, input.Uniqueness)
		assert.Equal(t, Synchronous, input.Transition)
		assert.False(t, input.Experiments[0].HasFixpoint)
	})
}

func TestIndexer(t *testing.T) {
	//** Arrange
	input := process(t, RawModelInput{
		Nodes: []RawNode{
			{Name: "A", Templates: []int{0}},
			{Name: "B", Templates: []int{0}},
			{Name: "C", Templates: []int{0}},
		},
		Definite: []RawInteraction{
			{Regulator: "A", Target: "B", Sign: "+"},
			{Regulator: "C", Target: "B", Sign: "-"},
		},
		Optional: []RawInteraction{
			{Regulator: "C", Target: "B", Sign: "-"},
			{Regulator: "A", Target: "C", Sign: "+"},
			{Regulator: "A", Target: "C", Sign: "+"},
		},
	})

	//** Act
	indexer := newIndexer(input)

	//** Assert
	assert.Equal(t, definite, indexer.Activator(1, 0))
	assert.Equal(t, absent, indexer.Repressor(1, 0))
	assert.Equal(t, uint64(0), indexer.Repressor(1, 2), "the optional record comes first")
	assert.Equal(t, uint64(1), indexer.Activator(2, 0), "the first duplicate wins")
	assert.Equal(t, []uint64{1, 2}, indexer.OptionalInto(2))
	assert.True(t, indexer.DefiniteInto(1))
	assert.False(t, indexer.DefiniteInto(2))
}

// The cascade of cascadeInput built without ProcessRawInput
func directCascade() ModelInput {
	return ModelInput{
		Nodes: []Node{
			{Id: 0, Name: "A", Templates: []grf.Template{0}},
			{Id: 1, Name: "B", Templates: []grf.Template{9}},
		},
		Definite: []Interaction{{Regulator: 0, Target: 1, Sign: Activation}},
		Experiments: []Experiment{{
			Name: "e1",
			Observations: []Observation{
				{Step: 0, Node: 1, Value: false},
				{Step: 1, Node: 1, Value: true},
			},
		}},
		Length: 1,
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		modify   func(input *ModelInput)
		expected error
	}{
		{"Observation after the last step", func(input *ModelInput) { input.Experiments[0].Observations[1].Step = 5 }, ErrInvalidInput},
		{"Negative observation step", func(input *ModelInput) { input.Experiments[0].Observations[0].Step = -1 }, ErrInvalidInput},
		{"Observed node out of range", func(input *ModelInput) { input.Experiments[0].Observations[0].Node = 2 }, ErrUnknownNode},
		{"Fixpoint after the last step", func(input *ModelInput) {
			input.Experiments[0].HasFixpoint, input.Experiments[0].Fixpoint = true, 2
		}, ErrInvalidInput},
		{"No template", func(input *ModelInput) { input.Nodes[1].Templates = nil }, ErrInvalidInput},
		{"Unknown template", func(input *ModelInput) { input.Nodes[1].Templates = []grf.Template{grf.Count} }, grf.ErrUnknownTemplate},
		{"Regulator out of range", func(input *ModelInput) { input.Definite[0].Regulator = 7 }, ErrUnknownNode},
		{"Module out of range", func(input *ModelInput) { input.Nodes[0].HasModule, input.Nodes[0].Module = true, 3 }, ErrUnknownNode},
		{"Unknown sign", func(input *ModelInput) { input.Definite[0].Sign = Sign(2) }, ErrUnknownSign},
		{"Knock-down of a stable node", func(input *ModelInput) {
			input.Experiments[0].KnockDowns = []Perturbation{{Node: 0, Value: true}}
		}, ErrNotPerturbable},
		{"Unknown uniqueness", func(input *ModelInput) { input.Uniqueness = Uniqueness(9) }, ErrUnknownUniqueness},
		{"Negative limit", func(input *ModelInput) { input.InteractionLimit = -1 }, ErrInvalidInput},
		{"No nodes", func(input *ModelInput) { input.Nodes = nil }, ErrInvalidInput},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			//** Arrange
			input := directCascade()
			testCase.modify(&input)

			//** Act
			err := input.Validate()

			//** Assert
			assert.ErrorIs(t, err, testCase.expected)
		})
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, directCascade().Validate())
	})
}
