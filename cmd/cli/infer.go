package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"slices"

	"github.com/limaJavier/grninference/pkg/model"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	inputPath string
	outPath   string
	allModes  bool
)

var inferCmd = &cobra.Command{
	Use:   "infer",
	Short: "Enumerate the networks consistent with an input file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		input, err := model.InputFromFile(inputPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		results, err := infer(ctx, env, input)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if err := env.writeMetrics(); err != nil {
			return err
		}

		// Verify every model before reporting it
		solutions := lo.FlatMap(lo.Values(results), func(result model.Result, _ int) []model.Solution { return result.Solutions })
		for _, solution := range solutions {
			if !env.inferrer.Verify(solution, input) {
				env.logger.WithField("interactions", solution.Interactions).Error("model does not reproduce the experiments")
				return exitError{code: exitUnverified}
			}
		}

		reported, err := report(results, input)
		if err != nil {
			return err
		}
		content, err := json.MarshalIndent(reported, "", "  ")
		if err != nil {
			return errors.Wrap(err, "cannot build output json")
		}
		if err := writeOutput(outPath, content); err != nil {
			return errors.Wrap(err, "cannot write output")
		}

		for mode, result := range results {
			env.logger.WithFields(logrus.Fields{
				"uniqueness": mode,
				"models":     len(result.Solutions),
				"exhausted":  result.Exhausted,
				"variables":  result.Variables,
				"clauses":    result.Clauses,
			}).Info("enumeration finished")
		}
		if len(solutions) == 0 {
			return exitError{code: exitUnsatisfiable}
		}
		return exitError{code: exitSatisfiable}
	},
}

func init() {
	inferCmd.Flags().StringVar(&inputPath, "file", "", "Path to the input file")
	inferCmd.Flags().StringVar(&outPath, "out", "", "Path to the file where the models are written; standard output when empty")
	inferCmd.Flags().BoolVar(&allModes, "all", false, "Enumerate under every uniqueness mode in parallel")
	_ = inferCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(inferCmd)
}

func infer(ctx context.Context, env *environment, input model.ModelInput) (map[model.Uniqueness]model.Result, error) {
	if allModes {
		return model.InferAll(ctx, env.inferrer, input)
	}
	result, err := env.inferrer.Infer(ctx, input)
	return map[model.Uniqueness]model.Result{input.Uniqueness: result}, err
}

type reportedModel struct {
	Uniqueness string            `json:"uniqueness"`
	Values     map[string]any    `json:"values"`
	Formulas   map[string]string `json:"formulas"`
}

func report(results map[model.Uniqueness]model.Result, input model.ModelInput) ([]reportedModel, error) {
	modes := lo.Keys(results)
	slices.Sort(modes)

	reported := make([]reportedModel, 0)
	for _, mode := range modes {
		for _, solution := range results[mode].Solutions {
			formulas, err := solution.Formulas(input)
			if err != nil {
				return nil, err
			}
			reported = append(reported, reportedModel{
				Uniqueness: mode.String(),
				Values:     solution.Values(input),
				Formulas: lo.SliceToMap(lo.Range(len(input.Nodes)), func(g int) (string, string) {
					return input.Nodes[g].Name, formulas[g].String()
				}),
			})
		}
	}
	return reported, nil
}
