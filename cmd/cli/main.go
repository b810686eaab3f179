package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/limaJavier/grninference/pkg/model"
	"github.com/limaJavier/grninference/pkg/sat"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes follow the SAT-solver convention
const (
	exitSatisfiable   = 10
	exitUnsatisfiable = 20
	exitUnverified    = 15
)

// exitError carries the process exit code of a finished command
type exitError struct {
	code int
}

func (err exitError) Error() string {
	return fmt.Sprintf("exit code %d", err.code)
}

var (
	backend     string
	configPath  string
	logLevel    string
	metricsPath string
)

var rootCmd = &cobra.Command{
	Use:   "grninfer",
	Short: "Infer Boolean gene regulatory networks consistent with experiments",
	Long: `grninfer encodes a set of candidate interactions, regulation templates and
experimental observations as a satisfiability problem and enumerates the
networks that reproduce every experiment.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "gini", "Solver backend, one of: "+strings.Join(sat.Backends(), ", "))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with the executables of external solvers")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level")
	rootCmd.PersistentFlags().StringVar(&metricsPath, "metrics", "", "File where solver metrics are written in Prometheus text format")
}

func main() {
	err := rootCmd.Execute()
	var exit exitError
	switch {
	case errors.As(err, &exit):
		os.Exit(exit.code)
	case err != nil:
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// environment wires what every inference command needs from the global flags
type environment struct {
	logger   *logrus.Logger
	sessions sat.SessionFactory
	registry *prometheus.Registry
	inferrer model.Inferrer
}

func newEnvironment() (*environment, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	logger.SetLevel(level)

	config := sat.DefaultConfig()
	if configPath != "" {
		if config, err = sat.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	sessions, err := sat.NewSessionFactory(backend, config)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics, err := model.NewMetrics(registry)
	if err != nil {
		return nil, errors.Wrap(err, "cannot register metrics")
	}

	return &environment{
		logger:   logger,
		sessions: sessions,
		registry: registry,
		inferrer: model.NewInferrer(sessions, logger.WithField("backend", backend), metrics),
	}, nil
}

func (env *environment) writeMetrics() error {
	if metricsPath == "" {
		return nil
	}
	families, err := env.registry.Gather()
	if err != nil {
		return err
	}
	file, err := os.Create(metricsPath)
	if err != nil {
		return errors.Wrap(err, "cannot create metrics file")
	}
	defer file.Close()
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(file, family); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(out string, content []byte) error {
	if out == "" {
		fmt.Println(string(content))
		return nil
	}
	return os.WriteFile(out, content, 0666)
}
