// SPDX-License-Identifier: MIT

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/cavity/residual"
	"github.com/katalvlaran/cavity/staggered"
)

// ResidualOptions holds flags for the residual command.
type ResidualOptions struct {
	*RootOptions
	Input    string
	Previous string
}

// ResidualReport is the output of the residual command.
type ResidualReport struct {
	Len     int       `json:"len"`
	NormInf float32   `json:"norm_inf"`
	R       []float32 `json:"r"`
}

// WriteText implements texter.
func (r ResidualReport) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "# len=%d norm_inf=%g\n", r.Len, r.NormInf)
	for i, v := range r.R {
		if _, err := fmt.Fprintf(w, "%d\t%g\n", i, v); err != nil {
			return err
		}
	}
	return nil
}

// NewResidualCommand creates the residual command.
func NewResidualCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResidualOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "residual",
		Short: "Evaluate the discrete equations at a state vector",
		Long: `Read an interleaved [P, U, V] vector as a JSON array of numbers and
print the residual of the mass and momentum equations. The mesh comes
from --config. --previous supplies the state of the previous time level;
without it the fluid is taken to start from rest.

Example:
  cavity residual --input x.json
  cavity residual --config cavity.yaml --input x.json --previous x0.json --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return evalResidual(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "JSON vector file (- for stdin)")
	cmd.Flags().StringVar(&opts.Previous, "previous", "", "JSON vector of the previous time level")

	return cmd
}

func evalResidual(cmd *cobra.Command, opts *ResidualOptions) error {
	out := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Failure(err)
	}
	g, err := staggered.New(cfg.Params())
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "invalid problem", err))
	}
	X, err := readVector(cmd.InOrStdin(), opts.Input)
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "failed to read input", err))
	}
	if opts.Previous != "" {
		prev, err := readVector(cmd.InOrStdin(), opts.Previous)
		if err != nil {
			return out.Failure(WrapExitError(ExitCommandError, "failed to read previous state", err))
		}
		if err = setPrevious(g, prev); err != nil {
			return out.Failure(WrapExitError(ExitCommandError, "invalid previous state", err))
		}
	}

	R, err := residual.Function(X, g)
	if err != nil {
		return out.Failure(WrapExitError(ExitCommandError, "residual failed", err))
	}
	rep := ResidualReport{Len: len(R), R: R}
	for _, v := range R {
		rep.NormInf = float32(math.Max(float64(rep.NormInf), math.Abs(float64(v))))
	}
	opts.Logger().Debug("residual evaluated", "len", rep.Len, "norm_inf", rep.NormInf)

	return out.Success(rep)
}

// setPrevious loads the velocities of a previous state into g.
func setPrevious(g *staggered.Graph, prev []float32) error {
	x := make([]float64, len(prev))
	for i, v := range prev {
		x[i] = float64(v)
	}
	_, U, V, err := residual.Split(x, g)
	if err != nil {
		return err
	}
	copy(g.NSX.PhiOld, U)
	copy(g.NSY.PhiOld, V)

	return nil
}

// readVector decodes a JSON number array from path, or from stdin for "-".
func readVector(stdin io.Reader, path string) ([]float32, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var x []float32
	if err := json.NewDecoder(r).Decode(&x); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return x, nil
}
