// SPDX-License-Identifier: MIT

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cavity/simulation"
	"github.com/katalvlaran/cavity/staggered"
	"github.com/katalvlaran/cavity/store"
)

// ProfileOptions holds flags for the profile command.
type ProfileOptions struct {
	*RootOptions
	Database string
	RunID    string
}

// ProfileReport holds the centreline profiles of one stored step.
type ProfileReport struct {
	RunID string                    `json:"run_id"`
	Step  int                       `json:"step"`
	Time  float64                   `json:"time"`
	U     []simulation.ProfilePoint `json:"u"`
	V     []simulation.ProfilePoint `json:"v"`
}

// WriteText implements texter.
func (p ProfileReport) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "# run %s step %d t=%g\n", p.RunID, p.Step, p.Time)
	fmt.Fprintln(w, "# u along x = L/2: y u")
	for _, pt := range p.U {
		fmt.Fprintf(w, "%.6f\t%.6f\n", pt.Pos, pt.Value)
	}
	fmt.Fprintln(w, "# v along y = H/2: x v")
	for _, pt := range p.V {
		if _, err := fmt.Fprintf(w, "%.6f\t%.6f\n", pt.Pos, pt.Value); err != nil {
			return err
		}
	}
	return nil
}

// NewProfileCommand creates the profile command.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print centreline velocity profiles of a stored run",
		Long: `Print U along the vertical centreline and V along the horizontal
centreline for the latest stored step of a run, the profiles usually
compared against the Ghia et al. benchmark. Without --run the most recent
run is used.

Example:
  cavity profile --db runs.db
  cavity profile --db runs.db --run 0190c1e4-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showProfile(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: latest run)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func showProfile(cmd *cobra.Command, opts *ProfileOptions) error {
	out := opts.formatter(cmd)
	ctx := cmdContext(cmd)

	st, err := store.OpenExisting(opts.Database)
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	var run store.RunRecord
	if opts.RunID != "" {
		run, err = st.GetRun(ctx, opts.RunID)
	} else {
		run, err = st.LatestRun(ctx)
	}
	if err != nil {
		return out.Failure(WrapExitError(exitCodeFor(err), "failed to find run", err))
	}
	step, err := st.LatestStep(ctx, run.ID)
	if err != nil {
		return out.Failure(WrapExitError(exitCodeFor(err), "failed to load step", err))
	}
	g, err := staggered.New(run.Params)
	if err != nil {
		return out.Failure(WrapExitError(ExitFailure, "stored parameters are invalid", err))
	}
	f, err := simulation.NewFields(step.X, g)
	if err != nil {
		return out.Failure(WrapExitError(ExitFailure, "stored step does not match its run", err))
	}

	return out.Success(ProfileReport{
		RunID: run.ID,
		Step:  step.Index,
		Time:  step.Time,
		U:     f.CenterlineU(),
		V:     f.CenterlineV(),
	})
}

// exitCodeFor maps missing records to command errors.
func exitCodeFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return ExitCommandError
	}
	return ExitFailure
}
