package mat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	gmat "gonum.org/v1/gonum/mat"
)

func matEpsEq(m1, m2 *Matrix, eps float64) bool {
	if m1.Width != m2.Width || m1.Height != m2.Height {
		return false
	}
	for i := range m1.Vals {
		if math.Abs(m1.Vals[i]-m2.Vals[i]) > eps {
			return false
		}
	}
	return true
}

func TestMult(t *testing.T) {
	table := []struct {
		m1, m2, out []float64
	}{
		{
			[]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
			[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
			[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9},
			[]float64{9, 8, 7, 6, 5, 4, 3, 2, 1},
			[]float64{30, 24, 18, 84, 69, 54, 138, 114, 90},
		},
	}

	for i, test := range table {
		m1 := NewMatrix(test.m1, 3, 3)
		m2 := NewMatrix(test.m2, 3, 3)
		out := m1.Mult(m2)
		want := NewMatrix(test.out, 3, 3)
		if !matEpsEq(out, want, 1e-12) {
			t.Errorf("%d) Mult -> %v instead of %v", i+1, out.Vals, want.Vals)
		}
	}
}

func TestTranspose(t *testing.T) {
	m := New3x3(
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	)
	want := New3x3(
		1, 4, 7,
		2, 5, 8,
		3, 6, 9,
	)
	if !matEpsEq(m.Transpose(), want, 0) {
		t.Errorf("Transpose -> %v instead of %v", m.Transpose().Vals, want.Vals)
	}
}

func TestVecMult(t *testing.T) {
	m := New3x3(
		2, 0, 0,
		0, 3, 0,
		1, 0, 1,
	)
	v := m.VecMult([3]float64{1, 1, 1})
	want := [3]float64{2, 3, 2}
	if v != want {
		t.Errorf("VecMult -> %v instead of %v", v, want)
	}
}

// TestInvertAgainstGonum cross-checks the LU-based inverse against gonum's.
func TestInvertAgainstGonum(t *testing.T) {
	vals := []float64{
		1, 3, 5,
		2, 4, 7,
		1, 1, 0,
	}

	inv := NewMatrix(append([]float64{}, vals...), 3, 3).Invert()

	var gInv gmat.Dense
	err := gInv.Inverse(gmat.NewDense(3, 3, vals))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			require.InDelta(t, gInv.At(i, j), inv.Vals[i*3+j], 1e-10,
				"element (%d,%d)", i, j)
		}
	}
}

func TestInvertIdentity(t *testing.T) {
	m := New3x3(
		4, 0, 0,
		0, 2, 1,
		0, 0, 5,
	)
	prod := m.Mult(m.Invert())
	eye := New3x3(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	)
	if !matEpsEq(prod, eye, 1e-12) {
		t.Errorf("m * m^-1 -> %v instead of identity", prod.Vals)
	}
}

func TestDeterminant(t *testing.T) {
	table := []struct {
		vals []float64
		det  float64
	}{
		{[]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}, 1},
		{[]float64{2, 0, 0, 0, 3, 0, 0, 0, 4}, 24},
		{[]float64{1, 3, 5, 2, 4, 7, 1, 1, 0}, 4},
	}

	for i, test := range table {
		det := NewMatrix(test.vals, 3, 3).Determinant()
		if math.Abs(det-test.det) > 1e-12 {
			t.Errorf("%d) Determinant -> %g instead of %g", i+1, det, test.det)
		}
	}
}
