// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abstractmachine/aam/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "Inspect persisted runs",
		Long: `List the runs persisted with "aamctl run --trace", or show one run's
states, transitions, and final values.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showRun(opts, args[0], cmd)
			}
			return listRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the trace SQLite file (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(opts *TraceOptions, cmd *cobra.Command) error {
	store, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace store", err)
	}
	defer store.Close()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  states=%d elapsed=%s timed_out=%v\n",
			r.ID, r.Created, r.Visited, r.Elapsed, r.TimedOut)
	}
	return nil
}

func showRun(opts *TraceOptions, id string, cmd *cobra.Command) error {
	store, err := trace.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open trace store", err)
	}
	defer store.Close()

	run, states, edges, finals, err := store.ReadRun(cmd.Context(), id)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run:     %s\n", run.ID)
	fmt.Fprintf(out, "program: %s\n", run.Program)
	fmt.Fprintf(out, "states:  %d\n", run.Visited)
	fmt.Fprintf(out, "elapsed: %s\n", run.Elapsed)
	if run.TimedOut {
		fmt.Fprintln(out, "timed out")
	}
	for _, v := range finals {
		fmt.Fprintf(out, "value:   %s\n", v)
	}
	for _, st := range states {
		marker := " "
		if st.Halted {
			marker = "*"
		}
		fmt.Fprintf(out, "%s [%d] %s\n", marker, st.Idx, st.Label)
	}
	for _, e := range edges {
		fmt.Fprintf(out, "  %d -> %d\n", e.Src, e.Dst)
	}
	return nil
}
