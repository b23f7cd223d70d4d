// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package solver drives one MPM tick end to end: particle-to-grid
// transfer, the n==0 volume initialization, the constitutive force
// stage, explicit/implicit grid integration, collision, and the
// particle update that closes the loop (spec §4.3-§4.10). The
// orchestration follows fem/fem.go's FEM.Run stage-loop shape — a fixed
// sequence of named phases run once per tick — collapsed from FEM's
// multi-stage analysis down to the single phase sequence an MPM tick
// needs.
package solver

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/snowmpm/collide"
	"github.com/cpmech/snowmpm/force"
	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/integrate"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/simerr"
	"github.com/cpmech/snowmpm/snow"
	"github.com/cpmech/snowmpm/xfer"
)

// Solver owns the grid, the particle population, and the scalar
// parameters of one simulation, and orchestrates the tick sequence.
type Solver struct {
	Mat       snow.Params
	Colliders []collide.Collider
	Workers   int  // goroutine fan-out for P2G/force accumulation (default 1, serial)
	Implicit  bool // enable the §4.7 conjugate-residual correction (default false)
	MaxIter   int  // implicit solve iteration cap
	Tol       float64
	Verbose   bool

	g        *grid.Grid
	set      particle.Set
	nextTick int
}

// New returns a solver over a freshly allocated grid of shape
// (nx,ny,nz) and spacing h, with the implicit path disabled and a
// single worker, matching the reference's default-disabled implicit
// driver (design note "Commented-out implicit solve in the driver").
func New(nx, ny, nz int, h float64, mat snow.Params) *Solver {
	return &Solver{
		Mat:     mat,
		Workers: 1,
		MaxIter: 50,
		Tol:     1e-6,
		g:       grid.New(nx, ny, nz, h),
	}
}

// AddParticle appends p to the population. p.Mass must be positive
// (ConfigError otherwise, spec §7). Once the n==0 initialization tick
// has run, every new particle must already carry a positive Volume0 (it
// can no longer be frozen in by InitVolumes), per spec §4.4: StateError
// otherwise.
func (s *Solver) AddParticle(p particle.Particle) error {
	if p.Mass <= 0 {
		return simerr.NewConfigError("solver: particle mass must be positive, got %v", p.Mass)
	}
	if s.nextTick > 0 && p.Volume0 <= 0 {
		return simerr.NewStateError("solver: particle added after tick 0 must have a precomputed Volume0, got %v", p.Volume0)
	}
	s.set.Add(p)
	return nil
}

// Grid returns the solver's underlying grid for read-only inspection.
func (s *Solver) Grid() *grid.Grid { return s.g }

// Nodes returns the grid's node slice for read-only inspection.
func (s *Solver) Nodes() []grid.Node { return s.g.Nodes }

// Particles returns the solver's particle slice for read-only
// inspection; callers must not mutate it outside of AddParticle/Update.
func (s *Solver) Particles() []particle.Particle { return s.set.Items }

// Tick returns the next tick index Update expects.
func (s *Solver) Tick() int { return s.nextTick }

// Update advances the simulation by one tick of size dt, executing spec
// §4.3 (P2G) through §4.9 (particle update) in order. tick must equal
// the solver's expected next tick (StateError otherwise, spec §7's
// "tick_index skips 0"/out-of-order rule generalized to any gap).
func (s *Solver) Update(dt float64, tick int) error {
	if tick != s.nextTick {
		return simerr.NewStateError("solver: expected tick %d, got %d", s.nextTick, tick)
	}

	s.g.Reset()
	xfer.P2G(s.g, &s.set, s.Workers)

	if tick == 0 {
		xfer.InitVolumes(s.g, &s.set)
	}

	force.InitGravity(s.g)
	if err := force.Accumulate(s.g, &s.set, s.Mat, s.Workers); err != nil {
		return err
	}

	integrate.Explicit(s.g, dt)
	integrate.Collide(s.g, s.Colliders)

	if s.Implicit {
		if err := integrate.ImplicitSolve(s.g, &s.set, s.Mat, dt, s.MaxIter, s.Tol); err != nil {
			return err
		}
	} else {
		for i := range s.g.Nodes {
			s.g.Nodes[i].VNext = s.g.Nodes[i].VStar
		}
	}

	if err := s.updateParticles(dt); err != nil {
		return err
	}

	if s.Verbose {
		io.PfWhite("tick %4d: t=%12.6f dt=%10.6f n_particles=%d\n", tick, float64(tick+1)*dt, dt, s.set.Len())
	}

	s.nextTick++
	return nil
}

// updateParticles executes spec §4.9: gather the PIC/FLIP blended
// velocity, advect position, update F_E via the trial velocity gradient
// followed by the singular-value clamp, and fold the clamped excess into
// F_P. It ends with the §7 NaN/Inf guard over every particle's state.
func (s *Solver) updateParticles(dt float64) error {
	for i := range s.set.Items {
		p := &s.set.Items[i]

		gradVNext := xfer.VelocityGradient(s.g, p, true)
		fHat := mat3.Identity().Add(gradVNext.Scale(dt)).Mul(p.DeformElastic)

		u, v, sigma := mat3.SVD(fHat)
		clamped := mat3.Vec3{s.Mat.Clamp(sigma[0]), s.Mat.Clamp(sigma[1]), s.Mat.Clamp(sigma[2])}
		invClamped := mat3.Vec3{1 / clamped[0], 1 / clamped[1], 1 / clamped[2]}

		p.DeformElastic = u.Mul(mat3.Diag(clamped)).Mul(v.Transpose())
		p.DeformPlastic = v.Mul(mat3.Diag(invClamped)).Mul(u.Transpose()).Mul(fHat).Mul(p.DeformPlastic)

		vPic, flipDelta := xfer.PICFLIPGather(s.g, p)
		vFlip := p.VCurr.Add(flipDelta)
		vNew := vPic.Scale(1 - s.Mat.Alpha).Add(vFlip.Scale(s.Mat.Alpha))

		p.Position = p.Position.Add(vNew.Scale(dt))
		p.VCurr = vNew

		if !p.DeformElastic.IsFinite() || !p.DeformPlastic.IsFinite() || !p.Position.IsFinite() || !p.VCurr.IsFinite() {
			return simerr.NewNumericalError("solver: particle %d produced non-finite state after tick %d", i, s.nextTick)
		}
	}
	return nil
}
