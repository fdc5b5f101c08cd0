// Copyright 2026 The abstractmachine authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/abstractmachine/aam/explore"
	"github.com/abstractmachine/aam/scheme"
)

// StepOptions holds flags for the step command.
type StepOptions struct {
	*RootOptions
	exploreFlags
	Max int
}

// NewStepCommand creates the step command.
func NewStepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "step <program.scm>",
		Short: "Explore a program one worklist pop at a time",
		Long: `Drive the explorer interactively, one state per step.

At the prompt: enter (or s) steps once, k dumps the continuation store of
the current state, r runs to the fixed point, q quits. When stdin is not
a terminal the exploration steps in batch, printing each state, up to
--max states.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(opts, args[0], cmd)
		},
	}

	opts.exploreFlags.register(cmd)
	cmd.Flags().IntVar(&opts.Max, "max", 1000, "maximum states to step in batch mode")

	return cmd
}

func runStep(opts *StepOptions, path string, cmd *cobra.Command) error {
	exOpts, err := opts.resolve(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	prog, _, err := loadProgram(path)
	if err != nil {
		return err
	}

	sp := explore.NewStepper(scheme.NewMachine(opts.globals()), prog, exOpts)

	if isatty.IsTerminal(os.Stdin.Fd()) {
		return stepInteractive(sp, cmd.OutOrStdout())
	}
	return stepBatch(sp, cmd.OutOrStdout(), opts.Max)
}

type schemeStepper = explore.Stepper[scheme.Value, scheme.Addr, scheme.Time, *scheme.Expr, scheme.Frame]

func printState(w io.Writer, n int, s scheme.State) {
	fmt.Fprintf(w, "[%d] %s @ %v\n", n, s.Control, s.Kont)
}

func printKStore(w io.Writer, s scheme.State) {
	addrs := s.KStore.Addrs()
	lines := make([]string, 0, len(addrs))
	for _, k := range addrs {
		lines = append(lines, fmt.Sprintf("  %v refs=%d konts=%d", k, s.KStore.Refs(k), len(s.KStore.Lookup(k))))
	}
	sort.Strings(lines)
	fmt.Fprintf(w, "continuation store (%d addresses):\n", len(addrs))
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

func printSummary(w io.Writer, sp *schemeStepper) {
	res := sp.Result()
	fmt.Fprintf(w, "states:  %d\n", res.Visited)
	for _, v := range res.FinalValues(scheme.Lat{}) {
		fmt.Fprintf(w, "value:   %s\n", v)
	}
	for _, msg := range res.Errors() {
		fmt.Fprintf(w, "error:   %s\n", msg)
	}
}

func stepBatch(sp *schemeStepper, w io.Writer, max int) error {
	for n := 0; n < max; n++ {
		s, done, err := sp.Next()
		if err != nil {
			return WrapExitError(ExitFailure, "exploration aborted", err)
		}
		if done {
			printSummary(w, sp)
			return nil
		}
		printState(w, n, s)
	}
	fmt.Fprintf(w, "stopped after %d states\n", max)
	printSummary(w, sp)
	return nil
}

func stepInteractive(sp *schemeStepper, w io.Writer) error {
	cli := liner.NewLiner()
	defer cli.Close()
	cli.SetCtrlCAborts(true)

	var current scheme.State
	n := 0
	step := func() (bool, error) {
		s, done, err := sp.Next()
		if err != nil {
			return true, WrapExitError(ExitFailure, "exploration aborted", err)
		}
		if done {
			printSummary(w, sp)
			return true, nil
		}
		current = s
		printState(w, n, s)
		n++
		return false, nil
	}

	// surface the first state before prompting
	if done, err := step(); done {
		return err
	}

	for {
		line, err := cli.Prompt("(aam) ")
		switch err {
		case nil:
			cli.AppendHistory(line)
		case liner.ErrPromptAborted, io.EOF:
			return nil
		default:
			return WrapExitError(ExitCommandError, "prompt failed", err)
		}

		switch line {
		case "", "s", "step":
			if done, err := step(); done {
				return err
			}
		case "k", "kstore":
			printKStore(w, current)
		case "r", "run":
			for {
				done, err := step()
				if done {
					return err
				}
			}
		case "q", "quit":
			return nil
		default:
			fmt.Fprintln(w, "commands: step (enter), kstore (k), run (r), quit (q)")
		}
	}
}
