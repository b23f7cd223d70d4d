// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the outer run configuration (grid shape, step
// size, worker count, collider list, which optional solver paths are
// enabled) from YAML, layered over embedded defaults. This is the one
// place the repository reaches outside gosl for configuration; the
// go:embed-defaults + yaml-tag + Derived-post-load shape follows
// pthm-soup/config.Config exactly. The in-core material parameters
// (snow.Params) stay on gosl/fun.Prms, which this package bridges to via
// ToParams.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cpmech/snowmpm/collide"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/simerr"
	"github.com/cpmech/snowmpm/snow"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every knob of one headless run.
type Config struct {
	Grid      GridConfig       `yaml:"grid"`
	Solver    SolverConfig     `yaml:"solver"`
	Material  MaterialConfig   `yaml:"material"`
	Colliders []ColliderConfig `yaml:"colliders"`
	Output    OutputConfig     `yaml:"output"`

	Derived DerivedConfig `yaml:"-"`
}

// GridConfig is the Eulerian lattice shape and spacing.
type GridConfig struct {
	Nx int     `yaml:"nx"`
	Ny int     `yaml:"ny"`
	Nz int     `yaml:"nz"`
	H  float64 `yaml:"h"`
}

// SolverConfig is the tick loop's scalar parameters.
type SolverConfig struct {
	Dt       float64 `yaml:"dt"`
	Ticks    int     `yaml:"ticks"`
	Workers  int     `yaml:"workers"`
	Implicit bool    `yaml:"implicit"`
	MaxIter  int     `yaml:"max_iter"`
	Tol      float64 `yaml:"tol"`
}

// MaterialConfig mirrors snow.Params in YAML-friendly field names.
type MaterialConfig struct {
	Mu0     float64 `yaml:"mu0"`
	Lambda0 float64 `yaml:"lambda0"`
	Xi      float64 `yaml:"xi"`
	ThetaC  float64 `yaml:"theta_c"`
	ThetaS  float64 `yaml:"theta_s"`
	Alpha   float64 `yaml:"alpha"`
	Beta    float64 `yaml:"beta"`
}

// ColliderConfig describes one static obstacle; Kind selects "floor" or
// "wedge" (SPEC_FULL.md supplement 1).
type ColliderConfig struct {
	Kind   string     `yaml:"kind"`
	Z      float64    `yaml:"z"`      // floor height
	Point  [3]float64 `yaml:"point"`  // wedge plane point
	Normal [3]float64 `yaml:"normal"` // wedge outward normal
	Mu     float64    `yaml:"mu"`
}

// OutputConfig controls where and how often .snowstate snapshots land.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Every int    `yaml:"every"`
}

// DerivedConfig holds values computed once after loading.
type DerivedConfig struct {
	CellVolume float64 // H^3 of the loaded grid spacing
}

// Load reads path (or, if empty, only the embedded defaults) layered
// over the embedded defaults.yaml, the same merge-by-unmarshalling-twice
// approach pthm-soup/config.Load uses.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, simerr.NewConfigError("config: parsing embedded defaults: %v", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, simerr.NewConfigError("config: reading %q: %v", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, simerr.NewConfigError("config: parsing %q: %v", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Derived.CellVolume = cfg.Grid.H * cfg.Grid.H * cfg.Grid.H
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Grid.H <= 0 {
		return simerr.NewConfigError("config: grid.h must be positive, got %v", c.Grid.H)
	}
	if c.Grid.Nx <= 0 || c.Grid.Ny <= 0 || c.Grid.Nz <= 0 {
		return simerr.NewConfigError("config: grid shape must be positive, got (%d,%d,%d)", c.Grid.Nx, c.Grid.Ny, c.Grid.Nz)
	}
	if c.Solver.Dt <= 0 {
		return simerr.NewConfigError("config: solver.dt must be positive, got %v", c.Solver.Dt)
	}
	if c.Solver.Workers < 1 {
		return simerr.NewConfigError("config: solver.workers must be >= 1, got %d", c.Solver.Workers)
	}
	for i, c := range c.Colliders {
		if c.Kind != "floor" && c.Kind != "wedge" {
			return simerr.NewConfigError("config: colliders[%d].kind %q is not one of floor, wedge", i, c.Kind)
		}
	}
	return nil
}

// ToParams converts the loaded material block into a snow.Params,
// mirroring mdl/fluid.Model.Init's switch-on-name shape but direct since
// the YAML struct already carries named fields.
func (c *Config) ToParams() snow.Params {
	return snow.Params{
		Mu0:     c.Material.Mu0,
		Lambda0: c.Material.Lambda0,
		Xi:      c.Material.Xi,
		ThetaC:  c.Material.ThetaC,
		ThetaS:  c.Material.ThetaS,
		Alpha:   c.Material.Alpha,
		Beta:    c.Material.Beta,
	}
}

// BuildColliders instantiates the concrete collide.Collider for every
// entry in Colliders.
func (c *Config) BuildColliders() ([]collide.Collider, error) {
	out := make([]collide.Collider, 0, len(c.Colliders))
	for i, cc := range c.Colliders {
		switch cc.Kind {
		case "floor":
			out = append(out, collide.NewFloor(cc.Z, cc.Mu))
		case "wedge":
			out = append(out, collide.NewWedge(mat3.Vec3(cc.Point), mat3.Vec3(cc.Normal), cc.Mu))
		default:
			return nil, simerr.NewConfigError("config: colliders[%d].kind %q is not one of floor, wedge", i, cc.Kind)
		}
	}
	return out, nil
}

// String renders a one-line human summary, used by the CLI banner.
func (c *Config) String() string {
	return fmt.Sprintf("grid=(%d,%d,%d) h=%v dt=%v ticks=%d workers=%d implicit=%v colliders=%d",
		c.Grid.Nx, c.Grid.Ny, c.Grid.Nz, c.Grid.H, c.Solver.Dt, c.Solver.Ticks, c.Solver.Workers, c.Solver.Implicit, len(c.Colliders))
}
