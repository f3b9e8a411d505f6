// SPDX-License-Identifier: MIT

// Package app implements the glls command line.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/glls/config"
	"github.com/katalvlaran/glls/report"
	"github.com/katalvlaran/glls/store"
)

// app holds the state of one command-line invocation.
type app struct {
	configPath  string
	dbPath      string
	logLevel    string
	metricsFile string

	cfg     config.Config
	log     *slog.Logger
	metrics *metrics
	render  report.Renderer
}

func newApp() (*app, *cobra.Command) {
	a := &app{
		cfg:     config.Default(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newMetrics(),
	}

	root := &cobra.Command{
		Use:   "glls",
		Short: "Generalized linear least-squares nuclear-data assimilation",
		Long: `glls adjusts multi-group nuclear data against integral benchmark
experiments with the generalized linear least-squares method and propagates
the prior or posterior covariance to application responses.

A problem is a YAML document holding the prior parameters, their covariance
blocks, the benchmarks with their sensitivity profiles and optional
application targets. It can be imported into a SQLite store once and
assimilated from there.`,
		Example: `  # Adjust the prior against the benchmarks of a problem
  glls assimilate problem.yaml

  # Prior uncertainty of the applications, collapsed parameters
  glls propagate problem.yaml --collapse

  # Leave-one-out consistency check with 8 workers
  glls sweep problem.yaml --parallel 8

  # Persist the problem and keep a history of runs
  glls import problem.yaml
  glls assimilate --from-store --save --note "baseline"
  glls runs`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (YAML)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides store.path)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.SuggestionsMinimumDistance = 2

	root.AddCommand(
		a.assimilateCmd(),
		a.propagateCmd(),
		a.similarityCmd(),
		a.sweepCmd(),
		a.importCmd(),
		a.runsCmd(),
	)

	return a, root
}

// NewRootCmd returns a fresh command tree.
func NewRootCmd() *cobra.Command {
	_, root := newApp()
	return root
}

// Execute runs the command line and flushes metrics.
func Execute() error {
	a, root := newApp()
	err := root.Execute()
	if werr := a.metrics.write(a.metricsFile); werr != nil && err == nil {
		err = werr
	}
	return err
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Store.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = cfg.Logger(cmd.ErrOrStderr())
	a.render = report.Renderer{
		Color:            colorFor(cmd.OutOrStdout()),
		OutlierThreshold: cfg.Engine.OutlierThreshold,
	}
	a.log.Debug("configuration loaded", "config", a.configPath, "db", cfg.Store.Path)

	return nil
}

// instrument counts the execution of a command by result.
func (a *app) instrument(name string, run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		result := "ok"
		if err != nil {
			result = "error"
			a.log.Error("command failed", "command", name, "kind", errorKind(err), "err", err)
		}
		a.metrics.commands.WithLabelValues(name, result).Inc()
		return err
	}
}

// openStore opens the configured database, creating the schema when
// create is set.
func (a *app) openStore(create bool) (*store.Store, error) {
	st, err := store.New(a.cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if !create {
		return st, nil
	}
	if err := st.CreateSchema(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && report.ColorEnabled(f)
}

func printSections(w io.Writer, sections ...string) {
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprint(w, s)
	}
}
