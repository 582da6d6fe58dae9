package material

import (
	"sort"

	"github.com/phil-mansfield/gocrystal"
)

// HKLInfo describes one family of crystallographic reflections.
type HKLInfo struct {
	// H, K, L are the Miller indices of the representative reflection.
	H, K, L int

	// DSpacing is the distance between successive lattice planes in angstrom.
	DSpacing float64

	// FSquared is the squared structure factor in barn.
	FSquared float64

	// Multiplicity counts the symmetry-equivalent reflections in the family.
	Multiplicity int

	// DemiNormals optionally lists unit plane normals of the family. Only
	// half of the normals are included, since if n is a normal so is -n.
	// When non-empty, Multiplicity == 2*len(DemiNormals).
	DemiNormals []gocrystal.Vec

	// EqvHKL optionally packs the Miller indices corresponding to the
	// demi-normals, three int16 per normal, so len(EqvHKL) is
	// 3*len(DemiNormals).
	EqvHKL []int16
}

// sortHKLList orders reflections by ascending d-spacing, breaking ties
// lexicographically by (h,k,l) for determinism.
func sortHKLList(hkls []HKLInfo) {
	sort.Slice(hkls, func(i, j int) bool {
		hi, hj := &hkls[i], &hkls[j]
		if hi.DSpacing != hj.DSpacing {
			return hi.DSpacing < hj.DSpacing
		}
		if hi.H != hj.H {
			return hi.H < hj.H
		}
		if hi.K != hj.K {
			return hi.K < hj.K
		}
		return hi.L < hj.L
	})
}
