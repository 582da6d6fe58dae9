package lattice

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	gmat "gonum.org/v1/gonum/mat"
)

const deg = math.Pi / 180

func TestCubicDSpacingRoundTrip(t *testing.T) {
	// Silicon-like cubic cell: d(111) must equal a/sqrt(3).
	a := 5.43
	rec := ReciprocalRotation(a, a, a, 90*deg, 90*deg, 90*deg)

	d := DSpacingFromHKL(1, 1, 1, rec)
	want := a / math.Sqrt(3)
	if math.Abs(d-want) > 1e-12 {
		t.Errorf("d(111) -> %.14g instead of %.14g", d, want)
	}
}

func TestDSpacingTable(t *testing.T) {
	table := []struct {
		a, b, c            float64
		alpha, beta, gamma float64
		h, k, l            int
		want               float64
	}{
		// Cubic: d = a / sqrt(h^2+k^2+l^2).
		{4, 4, 4, 90, 90, 90, 1, 0, 0, 4},
		{4, 4, 4, 90, 90, 90, 2, 0, 0, 2},
		{4, 4, 4, 90, 90, 90, 1, 1, 0, 4 / math.Sqrt(2)},
		// Orthorhombic: 1/d^2 = h^2/a^2 + k^2/b^2 + l^2/c^2.
		{3, 4, 5, 90, 90, 90, 1, 1, 1, 1 / math.Sqrt(1.0/9+1.0/16+1.0/25)},
		// Hexagonal: 1/d^2 = 4/3 (h^2+hk+k^2)/a^2 + l^2/c^2.
		{2.5, 2.5, 4, 90, 90, 120, 1, 0, 0, 1 / math.Sqrt(4.0/(3*2.5*2.5))},
		{2.5, 2.5, 4, 90, 90, 120, 0, 0, 2, 2},
	}

	for i, test := range table {
		rec := ReciprocalRotation(
			test.a, test.b, test.c,
			test.alpha*deg, test.beta*deg, test.gamma*deg,
		)
		d := DSpacingFromHKL(test.h, test.k, test.l, rec)
		if math.Abs(d-test.want) > 1e-10 {
			t.Errorf("%d) d(%d%d%d) -> %.12g instead of %.12g",
				i+1, test.h, test.k, test.l, d, test.want)
		}
	}
}

func TestDSpacingZeroHKL(t *testing.T) {
	rec := ReciprocalRotation(4, 4, 4, 90*deg, 90*deg, 90*deg)
	if !math.IsInf(DSpacingFromHKL(0, 0, 0, rec), 1) {
		t.Errorf("d(000) should be +Inf")
	}
}

// TestReciprocalAgainstGonum verifies the inverse-transpose construction
// against gonum on a triclinic cell.
func TestReciprocalAgainstGonum(t *testing.T) {
	a, b, c := 3.1, 4.2, 5.3
	alpha, beta, gamma := 80*deg, 95*deg, 104*deg

	real3 := Rotation(a, b, c, alpha, beta, gamma)
	rec := ReciprocalRotation(a, b, c, alpha, beta, gamma)

	var gInv gmat.Dense
	require.NoError(t, gInv.Inverse(gmat.NewDense(3, 3, real3.Vals)))

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// rec = 2 pi * inv(real)^T
			require.InDelta(t, 2*math.Pi*gInv.At(j, i), rec.Vals[i*3+j], 1e-10)
		}
	}
}

// TestReciprocalOrthogonality checks the defining relation of the reciprocal
// basis: rec_row_i . real_row_j = 2 pi delta_ij.
func TestReciprocalOrthogonality(t *testing.T) {
	a, b, c := 3.1, 4.2, 5.3
	alpha, beta, gamma := 80*deg, 95*deg, 104*deg

	real3 := Rotation(a, b, c, alpha, beta, gamma)
	rec := ReciprocalRotation(a, b, c, alpha, beta, gamma)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ri, aj := rec.Row(i), real3.Row(j)
			dot := ri[0]*aj[0] + ri[1]*aj[1] + ri[2]*aj[2]
			want := 0.0
			if i == j {
				want = 2 * math.Pi
			}
			if math.Abs(dot-want) > 1e-10 {
				t.Errorf("rec[%d] . real[%d] -> %g instead of %g", i, j, dot, want)
			}
		}
	}
}

func TestEstimateHKLRange(t *testing.T) {
	rec := ReciprocalRotation(4, 4, 4, 90*deg, 90*deg, 90*deg)

	// Cubic a=4: |row_i| = 2 pi / 4, so max_i = floor(4/dcutoff).
	maxH, maxK, maxL := EstimateHKLRange(0.5, rec)
	if maxH != 8 || maxK != 8 || maxL != 8 {
		t.Errorf("EstimateHKLRange(0.5) -> (%d,%d,%d) instead of (8,8,8)",
			maxH, maxK, maxL)
	}

	maxH, maxK, maxL = EstimateHKLRange(0, rec)
	if maxH != 0 || maxK != 0 || maxL != 0 {
		t.Errorf("EstimateHKLRange(0) -> (%d,%d,%d) instead of zeros",
			maxH, maxK, maxL)
	}

	maxH, maxK, maxL = EstimateHKLRange(-1, rec)
	if maxH != 0 || maxK != 0 || maxL != 0 {
		t.Errorf("EstimateHKLRange(-1) -> (%d,%d,%d) instead of zeros",
			maxH, maxK, maxL)
	}
}

// TestRangeCutoffInverse checks that recovering a cutoff from the smallest
// axis bound of EstimateHKLRange is never looser than the requested cutoff.
func TestRangeCutoffInverse(t *testing.T) {
	cells := []struct {
		a, b, c            float64
		alpha, beta, gamma float64
	}{
		{4, 4, 4, 90, 90, 90},
		{3, 4, 5, 90, 90, 90},
		{2.5, 2.5, 4, 90, 90, 120},
		{3.1, 4.2, 5.3, 80, 95, 104},
	}
	dcutoffs := []float64{0.3, 0.5, 1.0, 1.7}

	for i, cell := range cells {
		rec := ReciprocalRotation(
			cell.a, cell.b, cell.c,
			cell.alpha*deg, cell.beta*deg, cell.gamma*deg,
		)
		for _, dcut := range dcutoffs {
			maxH, maxK, maxL := EstimateHKLRange(dcut, rec)
			m := maxH
			if maxK < m {
				m = maxK
			}
			if maxL < m {
				m = maxL
			}
			recovered := EstimateDCutoff(m, rec)
			if recovered < dcut {
				t.Errorf("%d) recovered cutoff %g looser than requested %g",
					i+1, recovered, dcut)
			}
		}
	}
}

func TestCheckAndCompleteLattice(t *testing.T) {
	// Cubic Fm-3m: zero b and c are filled in.
	b, c := 0.0, 0.0
	require.NoError(t, CheckAndCompleteLattice(225, 4.0, &b, &c))
	require.Equal(t, 4.0, b)
	require.Equal(t, 4.0, c)

	// Contradicting a mandated equality fails.
	b, c = 3.9, 0.0
	err := CheckAndCompleteLattice(225, 4.0, &b, &c)
	require.True(t, errors.Is(err, ErrLatticeMismatch), "got %v", err)

	// Tetragonal: b must equal a, c is free.
	b, c = 0.0, 6.0
	require.NoError(t, CheckAndCompleteLattice(100, 4.0, &b, &c))
	require.Equal(t, 4.0, b)
	require.Equal(t, 6.0, c)

	// Hexagonal: c contradiction is not an error, only b is constrained.
	b, c = 4.0, 3.0
	require.NoError(t, CheckAndCompleteLattice(194, 4.0, &b, &c))

	// Orthorhombic: no constraints beyond positivity.
	b, c = 5.0, 6.0
	require.NoError(t, CheckAndCompleteLattice(62, 4.0, &b, &c))

	// Spacegroup range.
	b, c = 4.0, 4.0
	require.True(t, errors.Is(CheckAndCompleteLattice(0, 4.0, &b, &c), ErrBadSpacegroup))
	require.True(t, errors.Is(CheckAndCompleteLattice(231, 4.0, &b, &c), ErrBadSpacegroup))

	// Missing lengths the symmetry cannot determine.
	b, c = 0.0, 6.0
	require.True(t, errors.Is(CheckAndCompleteLattice(62, 4.0, &b, &c), ErrBadLatticeLength))

	// Non-positive a.
	b, c = 4.0, 4.0
	require.True(t, errors.Is(CheckAndCompleteLattice(1, -4.0, &b, &c), ErrBadLatticeLength))
}
