package main

import (
	"encoding/json"

	"github.com/limaJavier/grninference/pkg/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	unfoldIndex      int
	unfoldOptions    model.UnfoldOptions
	unfoldInitial    string
	unfoldTransition string
)

var unfoldCmd = &cobra.Command{
	Use:   "unfold",
	Short: "Simulate one inferred network from an initial state",
	Long: `unfold infers the networks of the input file, picks the one at --index and
simulates it from --initial, a bit string whose last character is the first
node. Trajectories stop at their first repeated state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		input, err := model.InputFromFile(inputPath)
		if err != nil {
			return err
		}
		if unfoldOptions.Transition, err = model.ParseTransitionType(unfoldTransition); err != nil {
			return err
		}

		input.MaxSolutions = unfoldIndex + 1
		result, err := env.inferrer.Infer(cmd.Context(), input)
		if err != nil {
			return err
		}
		if unfoldIndex >= len(result.Solutions) {
			return errors.Errorf("only %d models exist", len(result.Solutions))
		}

		trajectories, err := model.Unfold(cmd.Context(), env.sessions, input, result.Solutions[unfoldIndex], unfoldInitial, unfoldOptions)
		if err != nil {
			return err
		}
		if err := env.writeMetrics(); err != nil {
			return err
		}

		content, err := json.MarshalIndent(map[string]any{
			"nodes":        input.NodeNames(),
			"trajectories": trajectories,
		}, "", "  ")
		if err != nil {
			return errors.Wrap(err, "cannot build output json")
		}
		return writeOutput(outPath, content)
	},
}

func init() {
	unfoldCmd.Flags().StringVar(&inputPath, "file", "", "Path to the input file")
	unfoldCmd.Flags().StringVar(&outPath, "out", "", "Path to the file where the trajectories are written; standard output when empty")
	unfoldCmd.Flags().IntVar(&unfoldIndex, "index", 0, "Index of the model to simulate")
	unfoldCmd.Flags().StringVar(&unfoldInitial, "initial", "", "Initial state, all nodes active when empty")
	unfoldCmd.Flags().StringVar(&unfoldTransition, "transition", "synchronous", "Transition type of the simulation")
	unfoldCmd.Flags().IntVar(&unfoldOptions.Steps, "steps", 0, "Number of steps, the input's length when 0")
	unfoldCmd.Flags().IntVar(&unfoldOptions.Paths, "paths", 1, "Maximum number of trajectories")
	unfoldCmd.Flags().BoolVar(&unfoldOptions.SteadyState, "steady", false, "Require the last state to be a fixed point")
	unfoldCmd.Flags().StringSliceVar(&unfoldOptions.KnockDowns, "ko", nil, "Genes knocked down during the simulation")
	unfoldCmd.Flags().StringSliceVar(&unfoldOptions.Overexpressions, "fe", nil, "Genes forcibly expressed during the simulation")
	_ = unfoldCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(unfoldCmd)
}
