package model

import (
	"math"
	"os"
	"slices"

	"github.com/limaJavier/grninference/pkg/grf"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	absent   uint64 = math.MaxUint64
	definite uint64 = math.MaxUint64 - 1

	defaultMaxSolutions = 10
)

var (
	ErrUnknownNode       = errors.New("unknown node")
	ErrUnknownExperiment = errors.New("unknown experiment")
	ErrNotPerturbable    = errors.New("node is not perturbable")
	ErrInvalidInput      = errors.New("invalid input")
)

type RawNode struct {
	Name              string
	Templates         []int
	Module            string
	KnockDown         bool
	Overexpression    bool
	RequiresActivator bool
}

type RawInteraction struct {
	Regulator string
	Target    string
	Sign      string
}

type RawObservation struct {
	Step  int
	Gene  string
	Value bool
}

type RawPerturbation struct {
	Gene  string
	Value bool
}

type RawExperiment struct {
	Name            string
	Observations    []RawObservation
	KnockDowns      []RawPerturbation
	Overexpressions []RawPerturbation
}

type RawFixpoint struct {
	Step       int
	Experiment string
}

type Parameters struct {
	Length       int
	MaxSolutions int
	Uniqueness   string
	Transition   string
	// InteractionLimit bounds how many optional interactions a model may
	// select; 0 allows all of them.
	InteractionLimit int
}

type RawModelInput struct {
	Nodes       []RawNode
	Definite    []RawInteraction
	Optional    []RawInteraction
	Experiments []RawExperiment
	Fixpoints   []RawFixpoint
	Parameters  Parameters
}

type Node struct {
	Id                uint64
	Name              string
	Templates         []grf.Template
	HasModule         bool
	Module            uint64 // Downstream gene the node forwards to as a regulatory module when HasModule is set
	KnockDown         bool
	Overexpression    bool
	RequiresActivator bool
}

type Interaction struct {
	Id        uint64
	Regulator uint64
	Target    uint64
	Sign      Sign
	Optional  bool
}

type Observation struct {
	Step  int
	Node  uint64
	Value bool
}

type Perturbation struct {
	Node  uint64
	Value bool
}

type Experiment struct {
	Id              uint64
	Name            string
	Observations    []Observation
	KnockDowns      []Perturbation
	Overexpressions []Perturbation
	HasFixpoint     bool
	Fixpoint        int // First step of the fixpoint suffix when HasFixpoint is set
}

type ModelInput struct {
	Nodes            []Node
	Definite         []Interaction
	Optional         []Interaction
	Experiments      []Experiment
	Length           int
	MaxSolutions     int
	Uniqueness       Uniqueness
	Transition       TransitionType
	InteractionLimit int
}

// InputFromFile decodes a YAML or JSON document into a validated ModelInput.
func InputFromFile(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, errors.Wrap(err, "cannot read input file")
	}
	var document map[string]any
	if err := yaml.Unmarshal(bytes, &document); err != nil {
		return ModelInput{}, errors.Wrapf(err, "cannot parse input file %s", file)
	}

	// Weak typing lets observations and perturbations use 0/1 for booleans
	var rawInput RawModelInput
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &rawInput, WeaklyTypedInput: true})
	if err != nil {
		return ModelInput{}, err
	}
	if err := decoder.Decode(document); err != nil {
		return ModelInput{}, errors.Wrapf(err, "cannot decode input file %s", file)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawModelInput) (ModelInput, error) {
	parameters := rawInput.Parameters
	uniqueness, err := ParseUniqueness(parameters.Uniqueness)
	if err != nil {
		return ModelInput{}, err
	}
	transition, err := ParseTransitionType(parameters.Transition)
	if err != nil {
		return ModelInput{}, err
	}

	input := ModelInput{
		Length:           parameters.Length,
		MaxSolutions:     lo.Ternary(parameters.MaxSolutions == 0, defaultMaxSolutions, parameters.MaxSolutions),
		Uniqueness:       uniqueness,
		Transition:       transition,
		InteractionLimit: parameters.InteractionLimit,
	}

	//** Manage nodes
	if len(rawInput.Nodes) == 0 {
		return ModelInput{}, errors.Wrap(ErrInvalidInput, "no nodes")
	}
	nodes := make(map[string]uint64, len(rawInput.Nodes))
	for i, rawNode := range rawInput.Nodes {
		if _, ok := nodes[rawNode.Name]; ok || rawNode.Name == "" {
			return ModelInput{}, errors.Wrapf(ErrInvalidInput, "node name %q is empty or duplicated", rawNode.Name)
		}
		nodes[rawNode.Name] = uint64(i)
	}
	lookup := func(name, context string) (uint64, error) {
		id, ok := nodes[name]
		if !ok {
			return 0, errors.Wrapf(ErrUnknownNode, "%q referenced by %s", name, context)
		}
		return id, nil
	}

	for i, rawNode := range rawInput.Nodes {
		templates := make([]grf.Template, 0, len(rawNode.Templates))
		for _, index := range lo.Uniq(rawNode.Templates) {
			template, err := grf.Parse(index)
			if err != nil {
				return ModelInput{}, errors.Wrapf(err, "node %q", rawNode.Name)
			}
			templates = append(templates, template)
		}

		var module uint64
		if rawNode.Module != "" {
			if module, err = lookup(rawNode.Module, "module "+rawNode.Name); err != nil {
				return ModelInput{}, err
			}
		}

		input.Nodes = append(input.Nodes, Node{
			Id:                uint64(i),
			Name:              rawNode.Name,
			Templates:         templates,
			HasModule:         rawNode.Module != "",
			Module:            module,
			KnockDown:         rawNode.KnockDown,
			Overexpression:    rawNode.Overexpression,
			RequiresActivator: rawNode.RequiresActivator,
		})
	}

	//** Manage interactions
	interactions := func(rawInteractions []RawInteraction, optional bool) ([]Interaction, error) {
		result := make([]Interaction, 0, len(rawInteractions))
		for i, rawInteraction := range rawInteractions {
			context := "interaction " + rawInteraction.Regulator + " -> " + rawInteraction.Target
			regulator, err := lookup(rawInteraction.Regulator, context)
			if err != nil {
				return nil, err
			}
			target, err := lookup(rawInteraction.Target, context)
			if err != nil {
				return nil, err
			}
			sign, err := ParseSign(rawInteraction.Sign)
			if err != nil {
				return nil, errors.Wrap(err, context)
			}
			result = append(result, Interaction{
				Id:        uint64(i),
				Regulator: regulator,
				Target:    target,
				Sign:      sign,
				Optional:  optional,
			})
		}
		return result, nil
	}
	if input.Definite, err = interactions(rawInput.Definite, false); err != nil {
		return ModelInput{}, err
	}
	if input.Optional, err = interactions(rawInput.Optional, true); err != nil {
		return ModelInput{}, err
	}

	//** Manage experiments
	experiments := make(map[string]uint64, len(rawInput.Experiments))
	for i, rawExperiment := range rawInput.Experiments {
		if _, ok := experiments[rawExperiment.Name]; ok || rawExperiment.Name == "" {
			return ModelInput{}, errors.Wrapf(ErrInvalidInput, "experiment name %q is empty or duplicated", rawExperiment.Name)
		}
		experiments[rawExperiment.Name] = uint64(i)

		experiment := Experiment{Id: uint64(i), Name: rawExperiment.Name}
		for _, rawObservation := range rawExperiment.Observations {
			node, err := lookup(rawObservation.Gene, "experiment "+rawExperiment.Name)
			if err != nil {
				return ModelInput{}, err
			}
			experiment.Observations = append(experiment.Observations, Observation{Step: rawObservation.Step, Node: node, Value: rawObservation.Value})
		}

		perturbations := func(rawPerturbations []RawPerturbation, allowed func(Node) bool, kind string) ([]Perturbation, error) {
			result := make([]Perturbation, 0, len(rawPerturbations))
			for _, rawPerturbation := range rawPerturbations {
				node, err := lookup(rawPerturbation.Gene, kind+" of experiment "+rawExperiment.Name)
				if err != nil {
					return nil, err
				}
				if !allowed(input.Nodes[node]) {
					return nil, errors.Wrapf(ErrNotPerturbable, "%s of %q in experiment %q", kind, rawPerturbation.Gene, rawExperiment.Name)
				}
				result = append(result, Perturbation{Node: node, Value: rawPerturbation.Value})
			}
			return result, nil
		}
		if experiment.KnockDowns, err = perturbations(rawExperiment.KnockDowns, func(node Node) bool { return node.KnockDown }, "knock-down"); err != nil {
			return ModelInput{}, err
		}
		if experiment.Overexpressions, err = perturbations(rawExperiment.Overexpressions, func(node Node) bool { return node.Overexpression }, "over-expression"); err != nil {
			return ModelInput{}, err
		}
		input.Experiments = append(input.Experiments, experiment)
	}

	//** Manage fixpoints
	for _, rawFixpoint := range rawInput.Fixpoints {
		id, ok := experiments[rawFixpoint.Experiment]
		if !ok {
			return ModelInput{}, errors.Wrapf(ErrUnknownExperiment, "%q referenced by a fixpoint", rawFixpoint.Experiment)
		}
		if rawFixpoint.Step < 0 || rawFixpoint.Step > input.Length {
			return ModelInput{}, errors.Wrapf(ErrInvalidInput, "fixpoint of %q starts at step %d outside [0, %d]", rawFixpoint.Experiment, rawFixpoint.Step, input.Length)
		}
		// A later fixpoint is implied by an earlier one.
		experiment := &input.Experiments[id]
		if !experiment.HasFixpoint || rawFixpoint.Step < experiment.Fixpoint {
			experiment.HasFixpoint, experiment.Fixpoint = true, rawFixpoint.Step
		}
	}

	if err := input.Validate(); err != nil {
		return ModelInput{}, err
	}
	return input, nil
}

// Validate checks the ranges and references of an input however it was
// built. Nodes are referenced by their position in Nodes.
func (input ModelInput) Validate() error {
	if input.Length < 0 || input.MaxSolutions < 0 || input.InteractionLimit < 0 {
		return errors.Wrapf(ErrInvalidInput, "negative parameter: length %d, maxSolutions %d, interactionLimit %d", input.Length, input.MaxSolutions, input.InteractionLimit)
	}
	if _, ok := uniquenessModes[input.Uniqueness.String()]; !ok {
		return errors.Wrapf(ErrUnknownUniqueness, "%d", input.Uniqueness)
	}
	if _, ok := transitionTypes[input.Transition.String()]; !ok {
		return errors.Wrapf(ErrUnknownTransition, "%d", input.Transition)
	}
	if len(input.Nodes) == 0 {
		return errors.Wrap(ErrInvalidInput, "no nodes")
	}

	nodes := uint64(len(input.Nodes))
	for _, node := range input.Nodes {
		if len(node.Templates) == 0 {
			return errors.Wrapf(ErrInvalidInput, "node %q allows no regulation template", node.Name)
		}
		if template, ok := lo.Find(node.Templates, func(template grf.Template) bool { return !template.Valid() }); ok {
			return errors.Wrapf(grf.ErrUnknownTemplate, "%d on node %q", template, node.Name)
		}
		if node.HasModule && node.Module >= nodes {
			return errors.Wrapf(ErrUnknownNode, "module %d of node %q", node.Module, node.Name)
		}
	}

	for _, interaction := range append(slices.Clone(input.Definite), input.Optional...) {
		if interaction.Regulator >= nodes || interaction.Target >= nodes {
			return errors.Wrapf(ErrUnknownNode, "interaction %d -> %d", interaction.Regulator, interaction.Target)
		}
		if interaction.Sign > Repression {
			return errors.Wrapf(ErrUnknownSign, "%d", interaction.Sign)
		}
	}

	for _, experiment := range input.Experiments {
		for _, observation := range experiment.Observations {
			if observation.Node >= nodes {
				return errors.Wrapf(ErrUnknownNode, "node %d observed in experiment %q", observation.Node, experiment.Name)
			}
			if observation.Step < 0 || observation.Step > input.Length {
				return errors.Wrapf(ErrInvalidInput, "experiment %q observes step %d outside [0, %d]", experiment.Name, observation.Step, input.Length)
			}
		}
		perturbations := func(perturbations []Perturbation, allowed func(Node) bool, kind string) error {
			for _, perturbation := range perturbations {
				if perturbation.Node >= nodes {
					return errors.Wrapf(ErrUnknownNode, "%s of node %d in experiment %q", kind, perturbation.Node, experiment.Name)
				}
				if !allowed(input.Nodes[perturbation.Node]) {
					return errors.Wrapf(ErrNotPerturbable, "%s of %q in experiment %q", kind, input.Nodes[perturbation.Node].Name, experiment.Name)
				}
			}
			return nil
		}
		if err := perturbations(experiment.KnockDowns, func(node Node) bool { return node.KnockDown }, "knock-down"); err != nil {
			return err
		}
		if err := perturbations(experiment.Overexpressions, func(node Node) bool { return node.Overexpression }, "over-expression"); err != nil {
			return err
		}
		if experiment.HasFixpoint && (experiment.Fixpoint < 0 || experiment.Fixpoint > input.Length) {
			return errors.Wrapf(ErrInvalidInput, "fixpoint of %q starts at step %d outside [0, %d]", experiment.Name, experiment.Fixpoint, input.Length)
		}
	}
	return nil
}

func (input ModelInput) NodeNames() []string {
	return lo.Map(input.Nodes, func(node Node, _ int) string { return node.Name })
}

func (input ModelInput) Node(name string) (Node, error) {
	node, ok := lo.Find(input.Nodes, func(node Node) bool { return node.Name == name })
	if !ok {
		return Node{}, errors.Wrapf(ErrUnknownNode, "%q", name)
	}
	return node, nil
}
