// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cavity/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
}

// RunList is the output of the runs command.
type RunList struct {
	Runs []RunListEntry `json:"runs"`
}

// RunListEntry is one stored run with its step count.
type RunListEntry struct {
	store.RunRecord
	Stored int `json:"stored"`
}

// WriteText implements texter.
func (l RunList) WriteText(w io.Writer) error {
	if len(l.Runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs")
		return err
	}
	for _, r := range l.Runs {
		status := "running"
		switch {
		case r.Error != "":
			status = "failed"
		case r.Steady:
			status = "steady"
		case r.FinishedAt != nil:
			status = "done"
		}
		p := r.Params
		_, err := fmt.Fprintf(w, "%s  %s  %dx%d dt=%g  %-7s %d steps\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), p.Nx, p.Ny, p.Dt, status, r.Stored)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long: `List every run stored in a results database, oldest first.

Example:
  cavity runs --db runs.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func listRuns(cmd *cobra.Command, opts *RunsOptions) error {
	out := opts.formatter(cmd)
	ctx := cmdContext(cmd)

	st, err := store.OpenExisting(opts.Database)
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return out.Failure(WrapExitError(ExitFailure, "failed to list runs", err))
	}
	list := RunList{Runs: make([]RunListEntry, 0, len(runs))}
	for _, r := range runs {
		n, err := st.CountSteps(ctx, r.ID)
		if err != nil {
			return out.Failure(WrapExitError(ExitFailure, "failed to count steps", err))
		}
		list.Runs = append(list.Runs, RunListEntry{RunRecord: r, Stored: n})
	}

	return out.Success(list)
}
