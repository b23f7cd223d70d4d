// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package snapshot implements the `.snowstate` binary checkpoint format
// (spec §6): a small header (magic, version, grid shape, spacing,
// particle count) followed by one dense little-endian IEEE-754 double
// record per particle. encoding/binary is the one place this repository
// reaches for a stdlib-only format instead of a pack serialization
// library — see DESIGN.md for why gob/json/yaml cannot produce the exact
// byte layout spec.md requires. The (err error) return shape and
// io.ReadFile-style "wrap everything" error handling follow main.go's
// file-handling idiom.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/cpmech/snowmpm/grid"
	"github.com/cpmech/snowmpm/mat3"
	"github.com/cpmech/snowmpm/particle"
	"github.com/cpmech/snowmpm/simerr"
)

// magic identifies a .snowstate file; version lets the reader reject a
// future incompatible layout outright instead of misreading it.
const (
	magic   uint64 = 0x534e4f574d504d31 // "SNOWMPM1"
	version uint32 = 1
)

// fieldsPerParticle counts the float64 values in one particle record:
// position(3) + velocity(3) + mass(1) + volume0(1) + F_E(9) + F_P(9).
const fieldsPerParticle = 3 + 3 + 1 + 1 + 9 + 9

// Save writes the grid shape/spacing and every particle's state to path
// as a .snowstate file (spec §6). Grid node state (mass, force,
// velocity) is not persisted: it is fully recomputed from the particle
// cloud by the next P2G, so carrying it would only be redundant, not
// wrong to omit.
func Save(path string, g *grid.Grid, set *particle.Set) error {
	f, err := os.Create(path)
	if err != nil {
		return simerr.NewIOError("snapshot: cannot create %q: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	hdr := []interface{}{
		magic, version,
		int32(g.Nx), int32(g.Ny), int32(g.Nz), g.H,
		uint32(set.Len()),
	}
	for _, v := range hdr {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return simerr.NewIOError("snapshot: writing header of %q: %v", path, err)
		}
	}

	for i := range set.Items {
		p := &set.Items[i]
		rec := particleRecord(p)
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			return simerr.NewIOError("snapshot: writing particle %d of %q: %v", i, path, err)
		}
	}

	if err := w.Flush(); err != nil {
		return simerr.NewIOError("snapshot: flushing %q: %v", path, err)
	}
	return nil
}

// Load reads a .snowstate file written by Save, returning a fresh grid
// (nodes zeroed, ready for the next tick's P2G) and particle set.
func Load(path string) (*grid.Grid, *particle.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, simerr.NewIOError("snapshot: cannot open %q: %v", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var gotMagic uint64
	var gotVersion uint32
	var nx, ny, nz int32
	var h float64
	var n uint32

	for _, v := range []interface{}{&gotMagic, &gotVersion, &nx, &ny, &nz, &h, &n} {
		if err := binary.Read(r, binary.LittleEndian, v); err != nil {
			return nil, nil, simerr.NewIOError("snapshot: reading header of %q: %v", path, err)
		}
	}
	if gotMagic != magic {
		return nil, nil, simerr.NewIOError("snapshot: %q is not a .snowstate file (bad magic)", path)
	}
	if gotVersion != version {
		return nil, nil, simerr.NewIOError("snapshot: %q has version %d, this build reads version %d", path, gotVersion, version)
	}

	g := grid.New(int(nx), int(ny), int(nz), h)

	var set particle.Set
	for i := uint32(0); i < n; i++ {
		var rec [fieldsPerParticle]float64
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, nil, simerr.NewIOError("snapshot: reading particle %d of %q: %v", i, path, err)
		}
		set.Add(particleFromRecord(rec))
	}

	return g, &set, nil
}

func particleRecord(p *particle.Particle) [fieldsPerParticle]float64 {
	var r [fieldsPerParticle]float64
	copy(r[0:3], p.Position[:])
	copy(r[3:6], p.VCurr[:])
	r[6] = p.Mass
	r[7] = p.Volume0
	copy(r[8:17], mat3Flatten(p.DeformElastic))
	copy(r[17:26], mat3Flatten(p.DeformPlastic))
	return r
}

func particleFromRecord(r [fieldsPerParticle]float64) particle.Particle {
	p := particle.New(mat3.Vec3{r[0], r[1], r[2]}, mat3.Vec3{r[3], r[4], r[5]}, r[6])
	p.Volume0 = r[7]
	p.DeformElastic = mat3Unflatten(r[8:17])
	p.DeformPlastic = mat3Unflatten(r[17:26])
	return p
}

func mat3Flatten(m mat3.Mat3) []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}

func mat3Unflatten(v []float64) mat3.Mat3 {
	return mat3.Mat3{
		{v[0], v[1], v[2]},
		{v[3], v[4], v[5]},
		{v[6], v[7], v[8]},
	}
}
