// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abstractmachine/aam/explore"
	"github.com/abstractmachine/aam/internal/config"
	"github.com/abstractmachine/aam/internal/trace"
	"github.com/abstractmachine/aam/scheme"
)

// exploreFlags are the per-run flags shared by run and step.
type exploreFlags struct {
	Timeout     time.Duration
	Graph       bool
	Subsumption bool
	Order       string
	Globals     []string
}

func (fl *exploreFlags) register(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&fl.Timeout, "timeout", 0, "abort exploration after this long")
	cmd.Flags().BoolVar(&fl.Graph, "graph", false, "collect the transition graph")
	cmd.Flags().BoolVar(&fl.Subsumption, "subsumption", false, "prune states subsumed by visited ones")
	cmd.Flags().StringVar(&fl.Order, "order", "", "worklist order (lifo|fifo)")
	cmd.Flags().StringArrayVar(&fl.Globals, "top", nil, "bind NAME to an arbitrary integer in the top-level environment")
}

// resolve merges the configuration file (if any) with the command-line
// flags; flags win wherever both are set.
func (fl *exploreFlags) resolve(cmd *cobra.Command, root *RootOptions) (explore.Options, error) {
	cfg := config.Default()
	if root.ConfigPath != "" {
		loaded, err := config.Load(root.ConfigPath, root.StrictConfig)
		if err != nil {
			return explore.Options{}, WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		cfg = loaded
	}
	opts, err := cfg.Options()
	if err != nil {
		return explore.Options{}, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	if cmd.Flags().Changed("timeout") {
		opts.Timeout = fl.Timeout
	}
	if cmd.Flags().Changed("graph") {
		opts.Graph = fl.Graph
	}
	if cmd.Flags().Changed("subsumption") {
		opts.Subsumption = fl.Subsumption
	}
	if cmd.Flags().Changed("order") {
		switch fl.Order {
		case "lifo":
			opts.Order = explore.LIFO
		case "fifo":
			opts.Order = explore.FIFO
		default:
			return explore.Options{}, NewExitError(ExitCommandError, fmt.Sprintf("order must be lifo or fifo, got %q", fl.Order))
		}
	}
	return opts, nil
}

func (fl *exploreFlags) globals() map[string]scheme.Value {
	if len(fl.Globals) == 0 {
		return nil
	}
	out := make(map[string]scheme.Value, len(fl.Globals))
	for _, name := range fl.Globals {
		out[name] = scheme.AnyNum()
	}
	return out
}

func loadProgram(path string) (*scheme.Expr, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to read program", err)
	}
	prog, err := scheme.Parse(string(raw))
	if err != nil {
		return nil, "", WrapExitError(ExitCommandError, "failed to parse program", err)
	}
	return prog, prog.String(), nil
}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	exploreFlags
	DotPath   string
	TracePath string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <program.scm>",
		Short: "Explore a program to its fixed point",
		Long: `Explore the abstract state space of a program and report the values
and errors that can reach the top level.

Example:
  aamctl run --top x --graph --dot states.dot program.scm
  aamctl run --timeout 30s --trace runs.db program.scm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(opts, args[0], cmd)
		},
	}

	opts.exploreFlags.register(cmd)
	cmd.Flags().StringVar(&opts.DotPath, "dot", "", "write the transition graph to this file in dot syntax")
	cmd.Flags().StringVar(&opts.TracePath, "trace", "", "persist the run to this SQLite file")

	return cmd
}

func runExplore(opts *RunOptions, path string, cmd *cobra.Command) error {
	exOpts, err := opts.resolve(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	if opts.DotPath != "" || opts.TracePath != "" {
		exOpts.Graph = true
	}

	prog, src, err := loadProgram(path)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	slog.Info("starting exploration", "run_id", runID, "program", path)
	slog.Debug("options", "timeout", exOpts.Timeout, "graph", exOpts.Graph,
		"subsumption", exOpts.Subsumption, "order", exOpts.Order)

	res, err := explore.Run(scheme.NewMachine(opts.globals()), prog, exOpts)
	if err != nil {
		return WrapExitError(ExitFailure, "exploration aborted", err)
	}
	slog.Info("exploration finished", "run_id", runID, "visited", res.Visited,
		"elapsed", res.Elapsed, "timed_out", res.TimedOut)

	printResult(cmd, res)

	if opts.DotPath != "" {
		if err := writeDot(opts.DotPath, res); err != nil {
			return err
		}
		slog.Info("wrote transition graph", "path", opts.DotPath)
	}
	if opts.TracePath != "" {
		if err := persistRun(cmd, opts.TracePath, runID, src, res); err != nil {
			return err
		}
		slog.Info("persisted run", "run_id", runID, "path", opts.TracePath)
	}

	if res.TimedOut {
		return NewExitError(ExitFailure, "exploration timed out")
	}
	return nil
}

func printResult(cmd *cobra.Command, res *explore.Result[scheme.Value, scheme.Addr, scheme.Time, *scheme.Expr, scheme.Frame]) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "states:  %d\n", res.Visited)
	fmt.Fprintf(out, "elapsed: %s\n", res.Elapsed)
	for _, v := range res.FinalValues(scheme.Lat{}) {
		fmt.Fprintf(out, "value:   %s\n", v)
	}
	for _, msg := range res.Errors() {
		fmt.Fprintf(out, "error:   %s\n", msg)
	}
	if res.TimedOut {
		fmt.Fprintln(out, "timed out")
	}
}

func writeDot(path string, res *explore.Result[scheme.Value, scheme.Addr, scheme.Time, *scheme.Expr, scheme.Frame]) error {
	f, err := os.Create(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create dot file", err)
	}
	defer f.Close()
	if err := res.Graph.WriteDot(f); err != nil {
		return WrapExitError(ExitCommandError, "failed to write dot file", err)
	}
	return nil
}

func persistRun(cmd *cobra.Command, path, runID, src string, res *explore.Result[scheme.Value, scheme.Addr, scheme.Time, *scheme.Expr, scheme.Frame]) error {
	store, err := trace.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace store", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("error closing trace store", "error", closeErr)
		}
	}()

	var states []trace.StateRow
	for idx, s := range res.Graph.States() {
		states = append(states, trace.StateRow{
			Idx:    idx,
			Kind:   s.Control.Kind().String(),
			Label:  s.Control.String(),
			Halted: s.Halted(),
		})
	}
	var edges []trace.EdgeRow
	for _, e := range res.Graph.EdgeList() {
		edges = append(edges, trace.EdgeRow{Src: e[0], Dst: e[1]})
	}
	var finals []string
	for _, v := range res.FinalValues(scheme.Lat{}) {
		finals = append(finals, v.String())
	}

	run := trace.Run{
		ID:       runID,
		Program:  src,
		Visited:  res.Visited,
		Elapsed:  res.Elapsed,
		TimedOut: res.TimedOut,
	}
	if err := store.WriteRun(cmd.Context(), run, states, edges, finals); err != nil {
		return WrapExitError(ExitCommandError, "failed to persist run", err)
	}
	return nil
}
