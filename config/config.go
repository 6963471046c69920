// SPDX-License-Identifier: MIT

// Package config loads cavity run descriptions from YAML.
//
// A file mirrors Config field by field; omitted keys keep the values of
// Default(), unknown keys are rejected. Validation uses struct tags
// (go-playground/validator) plus a few cross-field rules.
//
//	problem:
//	  size_x: 1
//	  size_y: 1
//	  nx: 16
//	  ny: 16
//	  dt: 0.1
//	  rho: 1
//	  mi: 0.01
//	  bc: 1
//	solver:
//	  backend: gonum
//	time:
//	  steps: 100
//	  steady_tol: 1e-6
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/cavity/newton"
	"github.com/katalvlaran/cavity/simulation"
	"github.com/katalvlaran/cavity/staggered"
)

// ErrInvalid marks a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid")

// Problem is the physical and discrete description of the cavity.
type Problem struct {
	SizeX float64 `yaml:"size_x" validate:"gt=0"`
	SizeY float64 `yaml:"size_y" validate:"gt=0"`
	Nx    int     `yaml:"nx" validate:"gte=2"`
	Ny    int     `yaml:"ny" validate:"gte=2"`
	Dt    float64 `yaml:"dt" validate:"gt=0"`
	Rho   float64 `yaml:"rho" validate:"gt=0"`
	Mi    float64 `yaml:"mi" validate:"gt=0"`
	BC    float64 `yaml:"bc"`
}

// Solver configures every Newton solve.
type Solver struct {
	Tol         float64 `yaml:"tol" validate:"gte=0"`
	RelTol      float64 `yaml:"rel_tol" validate:"gte=0,lt=1"`
	MaxIter     int     `yaml:"max_iter" validate:"gte=1"`
	Workers     int     `yaml:"workers" validate:"gte=0"`
	Backend     string  `yaml:"backend" validate:"oneof=lu gonum"`
	PinPressure bool    `yaml:"pin_pressure"`
}

// Time configures the time stepping. FinalTime, when set, wins over Steps.
type Time struct {
	Steps     int     `yaml:"steps" validate:"gte=1"`
	FinalTime float64 `yaml:"final_time" validate:"gte=0"`
	SteadyTol float64 `yaml:"steady_tol" validate:"gte=0"`
}

// Output configures persistence. An empty DB disables it; Every keeps one
// step out of Every (the last step is always kept).
type Output struct {
	DB    string `yaml:"db"`
	Every int    `yaml:"every" validate:"gte=1"`
}

// Config is a complete run description.
type Config struct {
	Problem Problem `yaml:"problem"`
	Solver  Solver  `yaml:"solver"`
	Time    Time    `yaml:"time"`
	Output  Output  `yaml:"output"`
}

// Default returns a 16×16 unit cavity at Re = 100 solved with the
// built-in LU.
func Default() Config {
	return Config{
		Problem: Problem{
			SizeX: 1, SizeY: 1,
			Nx: 16, Ny: 16,
			Dt: 0.1, Rho: 1, Mi: 0.01, BC: 1,
		},
		Solver: Solver{
			Tol:         newton.DefaultTol,
			RelTol:      newton.DefaultRelTol,
			MaxIter:     newton.DefaultMaxIter,
			Backend:     "lu",
			PinPressure: true,
		},
		Time:   Time{Steps: simulation.DefaultSteps},
		Output: Output{Every: 1},
	}
}

var validate = validator.New()

// Load reads a YAML file over Default() and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r over Default() and validates the result.
// An empty document yields Default().
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks field ranges and cross-field rules. The returned error
// wraps ErrInvalid and lists every violated field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s: %s %s", fe.Namespace(), fe.Tag(), fe.Param()))
		}
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	if _, err := staggered.New(c.Params()); err != nil {
		return fmt.Errorf("%w: problem: %v", ErrInvalid, err)
	}

	return nil
}

// Params converts the problem section for staggered.New.
func (c Config) Params() staggered.Params {
	p := c.Problem

	return staggered.Params{
		SizeX: p.SizeX, SizeY: p.SizeY,
		Nx: p.Nx, Ny: p.Ny,
		Dt: p.Dt, Rho: p.Rho, Mi: p.Mi, BC: p.BC,
	}
}

// NewtonOptions converts the solver section. Validate must have passed.
func (c Config) NewtonOptions() ([]newton.Option, error) {
	ls, err := newton.SolverByName(c.Solver.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	opts := []newton.Option{
		newton.WithTol(c.Solver.Tol),
		newton.WithRelTol(c.Solver.RelTol),
		newton.WithMaxIter(c.Solver.MaxIter),
		newton.WithLinearSolver(ls),
	}
	if c.Solver.Workers > 0 {
		opts = append(opts, newton.WithWorkers(c.Solver.Workers))
	}

	return opts, nil
}

// SimulationOptions converts the solver and time sections. Caller-side
// hooks and loggers are appended by the caller.
func (c Config) SimulationOptions() ([]simulation.Option, error) {
	nopts, err := c.NewtonOptions()
	if err != nil {
		return nil, err
	}
	opts := []simulation.Option{
		simulation.WithSteps(c.Time.Steps),
		simulation.WithPressurePin(c.Solver.PinPressure),
		simulation.WithNewton(nopts...),
	}
	if c.Time.FinalTime > 0 {
		opts = append(opts, simulation.WithFinalTime(c.Time.FinalTime))
	}
	if c.Time.SteadyTol > 0 {
		opts = append(opts, simulation.StopOnSteady(c.Time.SteadyTol))
	}

	return opts, nil
}
