/*lattice contains pure routines for converting crystal lattice parameters
into real-space and reciprocal-space rotation matrices, and for translating
between d-spacing cutoffs and bounding Miller-index ranges.

All angles are in radians and all lengths in angstrom. The construction
functions do not validate their inputs: NaNs and negative lengths propagate
silently into the returned matrices, and catching them is a caller
responsibility. CheckAndCompleteLattice is the one exception, since
spacegroup constraints can only be checked here.
*/
package lattice

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/gocrystal/mat"
)

// Sentinel errors for lattice parameter validation. Wrapped errors carry
// context; match with errors.Is.
var (
	// ErrBadSpacegroup indicates a spacegroup number outside [1, 230].
	ErrBadSpacegroup = errors.New("lattice: spacegroup out of range")

	// ErrLatticeMismatch indicates a lattice length contradicting an equality
	// mandated by the spacegroup's point-group symmetry.
	ErrLatticeMismatch = errors.New("lattice: lattice lengths violate spacegroup symmetry")

	// ErrBadLatticeLength indicates a lattice length which is zero or negative
	// where a positive value is required.
	ErrBadLatticeLength = errors.New("lattice: lattice lengths must be positive")
)

// Rotation builds the real-space cell matrix from three lattice lengths
// (angstrom) and three angles (radians). The rows of the returned matrix are
// the unit-cell vectors in the standard crystallographic convention: a along
// x, b in the xy-plane, c completing the triad via the angle relations.
func Rotation(a, b, c, alpha, beta, gamma float64) *mat.Matrix {
	cosAlpha, cosBeta := math.Cos(alpha), math.Cos(beta)
	cosGamma, sinGamma := math.Cos(gamma), math.Sin(gamma)

	// Volume of the parallelepiped spanned by unit-length cell vectors.
	v := math.Sqrt(1 - cosAlpha*cosAlpha - cosBeta*cosBeta - cosGamma*cosGamma +
		2*cosAlpha*cosBeta*cosGamma)

	return mat.New3x3(
		a, 0, 0,
		b*cosGamma, b*sinGamma, 0,
		c*cosBeta, c*(cosAlpha-cosBeta*cosGamma)/sinGamma, c*v/sinGamma,
	)
}

// ReciprocalRotation builds the reciprocal lattice matrix: the inverse
// transpose of the real-space cell matrix, scaled by 2 pi. Its rows are the
// reciprocal basis vectors in angstrom^-1, so it maps a Miller index column
// vector to a scattering vector via v = h*row0 + k*row1 + l*row2.
func ReciprocalRotation(a, b, c, alpha, beta, gamma float64) *mat.Matrix {
	return Rotation(a, b, c, alpha, beta, gamma).Invert().Transpose().Scale(2 * math.Pi)
}

// EstimateHKLRange computes the smallest axis-aligned bounding box of integer
// Miller indices guaranteed to contain every reflection with d >= dcutoff,
// given a reciprocal lattice matrix from ReciprocalRotation. Each axis bound
// is floor(2 pi / (dcutoff * |row_i|)). All bounds are 0 when dcutoff is
// non-positive or unreachable.
func EstimateHKLRange(dcutoff float64, recLat *mat.Matrix) (maxH, maxK, maxL int) {
	if dcutoff <= 0 {
		return 0, 0, 0
	}

	kmax := 2 * math.Pi / dcutoff
	bounds := [3]int{}
	for i := 0; i < 3; i++ {
		rowMag := vecMag(recLat.Row(i))
		if rowMag > 0 {
			bounds[i] = int(kmax / rowMag)
		}
	}
	return bounds[0], bounds[1], bounds[2]
}

// EstimateDCutoff computes the tightest d-spacing cutoff guaranteed to be
// fully enumerated by a uniform +-maxHKL search box: the minimum over axes of
// 2 pi / (maxHKL * |row_i|).
func EstimateDCutoff(maxHKL int, recLat *mat.Matrix) float64 {
	dcutoff := math.Inf(1)
	for i := 0; i < 3; i++ {
		d := 2 * math.Pi / (float64(maxHKL) * vecMag(recLat.Row(i)))
		if d < dcutoff {
			dcutoff = d
		}
	}
	return dcutoff
}

// CheckAndCompleteLattice validates that the lattice lengths are compatible
// with the given spacegroup and fills in lengths the symmetry determines. For
// spacegroups 75-194 (tetragonal, trigonal, hexagonal) b must equal a, and
// for 195-230 (cubic) b and c must both equal a; a zero b or c is replaced
// with the mandated value. Returns ErrBadSpacegroup, ErrLatticeMismatch or
// ErrBadLatticeLength on invalid input.
func CheckAndCompleteLattice(spacegroup int, a float64, b, c *float64) error {
	if spacegroup < 1 || spacegroup > 230 {
		return fmt.Errorf("%w: %d", ErrBadSpacegroup, spacegroup)
	}

	if spacegroup >= 75 {
		if *b == 0 {
			*b = a
		} else if *b != a {
			return fmt.Errorf("%w: spacegroup %d requires b == a, got a=%g b=%g",
				ErrLatticeMismatch, spacegroup, a, *b)
		}
		if spacegroup >= 195 {
			if *c == 0 {
				*c = a
			} else if *c != a {
				return fmt.Errorf("%w: spacegroup %d requires c == a, got a=%g c=%g",
					ErrLatticeMismatch, spacegroup, a, *c)
			}
		}
	}

	if !(a > 0) || !(*b > 0) || !(*c > 0) {
		return fmt.Errorf("%w: a=%g b=%g c=%g", ErrBadLatticeLength, a, *b, *c)
	}
	return nil
}

// DSpacingFromHKL calculates the d-spacing in angstrom of the reflection
// (h,k,l), given a reciprocal lattice matrix from ReciprocalRotation.
// Returns +Inf for (0,0,0).
func DSpacingFromHKL(h, k, l int, recLat *mat.Matrix) float64 {
	r0, r1, r2 := recLat.Row(0), recLat.Row(1), recLat.Row(2)
	fh, fk, fl := float64(h), float64(k), float64(l)

	q := [3]float64{
		fh*r0[0] + fk*r1[0] + fl*r2[0],
		fh*r0[1] + fk*r1[1] + fl*r2[1],
		fh*r0[2] + fk*r1[2] + fl*r2[2],
	}
	return 2 * math.Pi / vecMag(q)
}

func vecMag(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
