// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command snowmpm is the CLI dispatcher: `snowmpm <routine> [args]`.
// It implements one routine, "simulate", which drives the core solver
// headlessly from a YAML run configuration and an initial `.snowstate`
// snapshot, writing a snapshot every N ticks. Scene generation and
// rendering are external collaborators (spec.md §1) and are not
// implemented here; "simulate" is handed an already-seeded snapshot.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/snowmpm/config"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/snapshot"
	"github.com/cpmech/snowmpm/solver"
)

func main() {

	defer func() {
		if err := recover(); err != nil {
			io.Pfred("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		chk.Panic("Please, provide a routine. Ex.: snowmpm simulate -config scene.yaml -init scene.snowstate")
	}
	routine := os.Args[1]

	switch routine {
	case "simulate":
		if err := simulate(os.Args[2:]); err != nil {
			chk.Panic("%v", err)
		}
	default:
		io.Pfred("ERROR: unknown routine %q (known: simulate)\n", routine)
		os.Exit(1)
	}
}

func simulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML run configuration (optional, overlays embedded defaults)")
	initPath := fs.String("init", "", "path to the initial .snowstate snapshot (required)")
	outDir := fs.String("out", "", "override the configured output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *initPath == "" {
		chk.Panic("simulate: -init is required, e.g. -init scene.snowstate")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}

	io.PfWhite("\nsnowmpm -- Material Point Method snow simulator\n\n")
	io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n\n")
	io.Pf("config: %v\n", cfg)

	g, set, err := snapshot.Load(*initPath)
	if err != nil {
		return err
	}

	s := solver.New(g.Nx, g.Ny, g.Nz, g.H, cfg.ToParams())
	s.Workers = cfg.Solver.Workers
	s.Implicit = cfg.Solver.Implicit
	s.MaxIter = cfg.Solver.MaxIter
	s.Tol = cfg.Solver.Tol
	s.Verbose = true

	colliders, err := cfg.BuildColliders()
	if err != nil {
		return err
	}
	s.Colliders = colliders

	for i := range set.Items {
		if err := s.AddParticle(set.Items[i]); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("simulate: creating output dir %q: %v", cfg.Output.Dir, err)
	}

	for tick := 0; tick < cfg.Solver.Ticks; tick++ {
		if err := s.Update(cfg.Solver.Dt, tick); err != nil {
			return err
		}
		if cfg.Output.Every > 0 && (tick+1)%cfg.Output.Every == 0 {
			path := filepath.Join(cfg.Output.Dir, fmt.Sprintf("tick-%06d.snowstate", tick+1))
			set := particle.Set{Items: s.Particles()}
			if err := snapshot.Save(path, s.Grid(), &set); err != nil {
				return err
			}
			io.Pf("wrote %v\n", path)
		}
	}

	io.PfGreen("\nsimulate: %d ticks complete\n", cfg.Solver.Ticks)
	return nil
}
