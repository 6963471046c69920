// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cavity/config"
	"github.com/katalvlaran/cavity/simulation"
	"github.com/katalvlaran/cavity/staggered"
	"github.com/katalvlaran/cavity/store"
)

// RunOptions holds flags for the run command. Set flags override the
// configuration file.
type RunOptions struct {
	*RootOptions
	Database string
	Steps    int
	Nx, Ny   int
	Backend  string
	Every    int
}

// RunSummary is the output of the run command.
type RunSummary struct {
	RunID    string        `json:"run_id,omitempty"`
	Nx       int           `json:"nx"`
	Ny       int           `json:"ny"`
	Reynolds float64       `json:"reynolds"`
	Steps    int           `json:"steps"`
	Time     float64       `json:"time"`
	Steady   bool          `json:"steady"`
	Residual float64       `json:"residual"`
	Stored   int           `json:"stored"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// WriteText implements texter.
func (s RunSummary) WriteText(w io.Writer) error {
	if s.RunID != "" {
		fmt.Fprintf(w, "run:      %s (%d steps stored)\n", s.RunID, s.Stored)
	}
	fmt.Fprintf(w, "mesh:     %dx%d  Re=%g\n", s.Nx, s.Ny, s.Reynolds)
	fmt.Fprintf(w, "steps:    %d  t=%g  steady=%t\n", s.Steps, s.Time, s.Steady)
	_, err := fmt.Fprintf(w, "residual: %.3e  elapsed=%s\n", s.Residual, s.Elapsed.Round(time.Millisecond))
	return err
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time-step the cavity",
		Long: `Build the staggered mesh described by the configuration, advance it
with implicit Euler steps and print a summary. With --db every stored step
keeps the full solution vector for later post-processing.

Example:
  cavity run --nx 16 --ny 16 --steps 50
  cavity run --config cavity.yaml --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database for results")
	cmd.Flags().IntVar(&opts.Steps, "steps", 0, "number of time steps")
	cmd.Flags().IntVar(&opts.Nx, "nx", 0, "pressure cells in x")
	cmd.Flags().IntVar(&opts.Ny, "ny", 0, "pressure cells in y")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "linear solver (lu|gonum)")
	cmd.Flags().IntVar(&opts.Every, "every", 0, "store every n-th step")

	return cmd
}

// applyFlags copies explicitly set flags over c.
func (o *RunOptions) applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.Output.DB = o.Database
	}
	if flags.Changed("steps") {
		c.Time.Steps = o.Steps
	}
	if flags.Changed("nx") {
		c.Problem.Nx = o.Nx
	}
	if flags.Changed("ny") {
		c.Problem.Ny = o.Ny
	}
	if flags.Changed("backend") {
		c.Solver.Backend = o.Backend
	}
	if flags.Changed("every") {
		c.Output.Every = o.Every
	}
}

func runSimulation(cmd *cobra.Command, opts *RunOptions) error {
	out := opts.formatter(cmd)
	log := opts.Logger()

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Failure(err)
	}
	opts.applyFlags(cmd, &cfg)
	if err = cfg.Validate(); err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "invalid configuration", err))
	}
	g, err := staggered.New(cfg.Params())
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "invalid problem", err))
	}
	simOpts, err := cfg.SimulationOptions()
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "invalid solver", err))
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := RunSummary{Nx: cfg.Problem.Nx, Ny: cfg.Problem.Ny, Reynolds: g.Reynolds()}
	var (
		st   *store.Store
		last simulation.Step
	)
	if cfg.Output.DB != "" {
		log.Info("opening database", "path", cfg.Output.DB)
		if st, err = store.Open(cfg.Output.DB); err != nil {
			return out.Failure(WrapExitError(ExitCommandError, "failed to open database", err))
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				log.Error("closing database", "error", cerr)
			}
		}()
		summary.RunID, err = st.CreateRun(ctx, store.RunRecord{Params: cfg.Params(), Backend: cfg.Solver.Backend})
		if err != nil {
			return out.Failure(WrapExitError(ExitCommandError, "failed to create run", err))
		}
	}

	simOpts = append(simOpts,
		simulation.WithLogger(log),
		simulation.OnStep(func(s simulation.Step) error {
			last = s
			if st == nil || s.Index%cfg.Output.Every != 0 {
				return nil
			}
			if err := st.WriteStep(ctx, summary.RunID, s); err != nil {
				return err
			}
			summary.Stored++
			return nil
		}),
	)
	res, runErr := simulation.Run(ctx, g, simOpts...)
	if res != nil {
		summary.Steps, summary.Time, summary.Steady = res.Steps, res.Time, res.Steady
		summary.Elapsed = res.Elapsed
		summary.Residual = last.Residual
	}
	if st != nil {
		// the run context may already be cancelled
		stored, err := closeRun(context.WithoutCancel(ctx), st, summary.RunID, last, cfg.Output.Every, summary.Steady, runErr)
		summary.Stored += stored
		if err != nil {
			return out.Failure(WrapExitError(ExitFailure, "failed to close run", err))
		}
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			log.Warn("run interrupted", "steps", summary.Steps)
		}
		return out.Failure(WrapExitError(ExitFailure, "simulation failed", runErr))
	}

	return out.Success(summary)
}

// closeRun stores last when the cadence skipped it, then stamps the run
// finished, or failed when runErr is set. It returns the number of steps
// written.
func closeRun(ctx context.Context, st *store.Store, runID string, last simulation.Step, every int, steady bool, runErr error) (int, error) {
	stored := 0
	if last.Index > 0 && last.Index%every != 0 {
		if err := st.WriteStep(ctx, runID, last); err != nil {
			return 0, err
		}
		stored++
	}
	if runErr != nil {
		return stored, st.FailRun(ctx, runID, runErr.Error())
	}

	return stored, st.FinishRun(ctx, runID, steady)
}

// cmdContext returns the command context, or Background when the command
// is executed without one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
