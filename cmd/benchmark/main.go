package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/limaJavier/grninference/pkg/model"
	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type ResultType int

const (
	exhausted ResultType = iota
	capped
	unsatisfiable
	timeout
	failed
)

var resultTypes = map[ResultType]string{
	exhausted:     "exhausted",
	capped:        "capped",
	unsatisfiable: "unsatisfiable",
	timeout:       "timeout",
	failed:        "failed",
}

type TestMetadata struct {
	Name         string
	Nodes        int
	Definite     int
	Optional     int
	Experiments  int
	Length       int
	MaxSolutions int
}

type BenchmarkResult struct {
	Backend    string
	Uniqueness model.Uniqueness
	Test       TestMetadata
	Duration   time.Duration
	Models     int
	Variables  uint64
	Clauses    uint64
	Result     ResultType
}

var (
	testDirectory string
	outFile       string
	backends      []string
	configPath    string
	budget        time.Duration
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Time every solver backend under every uniqueness mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := sat.DefaultConfig()
		if configPath != "" {
			var err error
			if config, err = sat.LoadConfig(configPath); err != nil {
				return err
			}
		}
		tests, inputs, err := getTests(testDirectory)
		if err != nil {
			return err
		}

		logger := logrus.New()
		results := make([]BenchmarkResult, 0, len(tests)*len(backends)*3)
		for i, test := range tests {
			for _, backend := range backends {
				for _, uniqueness := range []model.Uniqueness{model.Interactions, model.Full, model.Paths} {
					logger.WithFields(logrus.Fields{"test": test.Name, "backend": backend, "uniqueness": uniqueness}).Info("benchmarking")
					result, err := measure(cmd.Context(), backend, config, uniqueness, inputs[i])
					if err != nil {
						logger.WithError(err).Warn("benchmark run failed")
					}
					result.Test = test
					results = append(results, result)
				}
			}
		}

		file, err := os.Create(outFile)
		if err != nil {
			return errors.Wrap(err, "cannot create CSV file")
		}
		defer file.Close()
		return toCsv(file, results)
	},
}

func init() {
	benchmarkCmd.Flags().StringVar(&testDirectory, "tests", "test", "Directory holding the input files")
	benchmarkCmd.Flags().StringVar(&outFile, "out", "benchmark_results.csv", "CSV file the results are written to")
	benchmarkCmd.Flags().StringSliceVar(&backends, "backends", sat.Backends(), "Backends to compare")
	benchmarkCmd.Flags().StringVar(&configPath, "config", "", "YAML file with the executables of external solvers")
	benchmarkCmd.Flags().DurationVar(&budget, "timeout", time.Minute, "Time budget of every run")
}

func main() {
	if err := benchmarkCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func getTests(directory string) ([]TestMetadata, []model.ModelInput, error) {
	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot read directory")
	}

	tests := make([]TestMetadata, 0, len(files))
	inputs := make([]model.ModelInput, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		filename := filepath.Join(directory, file.Name())
		input, err := model.InputFromFile(filename)
		if err != nil {
			return nil, nil, err
		}
		tests = append(tests, TestMetadata{
			Name:         filename,
			Nodes:        len(input.Nodes),
			Definite:     len(input.Definite),
			Optional:     len(input.Optional),
			Experiments:  len(input.Experiments),
			Length:       input.Length,
			MaxSolutions: input.MaxSolutions,
		})
		inputs = append(inputs, input)
	}
	return tests, inputs, nil
}

func measure(ctx context.Context, backend string, config sat.Config, uniqueness model.Uniqueness, input model.ModelInput) (BenchmarkResult, error) {
	benchmark := BenchmarkResult{Backend: backend, Uniqueness: uniqueness, Result: failed}
	sessions, err := sat.NewSessionFactory(backend, config)
	if err != nil {
		return benchmark, err
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	inferrer := model.NewInferrer(sessions, logger, nil)

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()
	input.Uniqueness = uniqueness

	start := time.Now()
	result, err := inferrer.Infer(ctx, input)
	benchmark.Duration = time.Since(start)
	benchmark.Models = len(result.Solutions)
	benchmark.Variables, benchmark.Clauses = result.Variables, result.Clauses
	benchmark.Result = classify(result, err)
	if benchmark.Result == timeout {
		return benchmark, nil
	}
	return benchmark, err
}

func classify(result model.Result, err error) ResultType {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return timeout
	case err != nil:
		return failed
	case len(result.Solutions) == 0:
		return unsatisfiable
	case result.Exhausted:
		return exhausted
	}
	return capped
}

func toCsv(out io.Writer, results []BenchmarkResult) error {
	writer := csv.NewWriter(out)

	header := []string{"Backend", "Uniqueness", "Test", "Nodes", "Definite", "Optional", "Experiments", "Length", "MaxSolutions", "Duration(ms)", "Models", "Variables", "Clauses", "Result"}
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, "cannot write CSV header")
	}

	for _, result := range results {
		record := []string{
			result.Backend,
			result.Uniqueness.String(),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Nodes),
			fmt.Sprintf("%d", result.Test.Definite),
			fmt.Sprintf("%d", result.Test.Optional),
			fmt.Sprintf("%d", result.Test.Experiments),
			fmt.Sprintf("%d", result.Test.Length),
			fmt.Sprintf("%d", result.Test.MaxSolutions),
			fmt.Sprintf("%d", result.Duration.Milliseconds()),
			fmt.Sprintf("%d", result.Models),
			fmt.Sprintf("%d", result.Variables),
			fmt.Sprintf("%d", result.Clauses),
			resultTypes[result.Result],
		}
		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "cannot write CSV record")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "cannot flush CSV")
}
