/*sab contains the data containers handed between dynamic material
descriptions and the scattering algorithms that consume them: tabulated
S(alpha,beta) scattering kernels and vibrational density of states (VDOS)
curves. This package only carries and validates the data; expanding a VDOS
into a kernel, or sampling a kernel, happens downstream.
*/
package sab

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/gocrystal"
)

// Sentinel errors for kernel and VDOS construction. Match with errors.Is.
var (
	// ErrBadGrid indicates a grid which is too short, non-finite, or not
	// strictly increasing.
	ErrBadGrid = errors.New("sab: invalid grid")

	// ErrBadShape indicates value arrays whose lengths do not match the grids.
	ErrBadShape = errors.New("sab: value array does not match grid shape")

	// ErrBadValue indicates a non-finite or negative tabulated value.
	ErrBadValue = errors.New("sab: invalid tabulated value")
)

// Data is an immutable tabulated S(alpha,beta) scattering kernel. Values is
// row-major over (alpha, beta): Values[i*len(BetaGrid)+j] is S at
// (AlphaGrid[i], BetaGrid[j]).
type Data struct {
	alphaGrid, betaGrid []float64
	values              []float64

	temperature    gocrystal.Temperature
	boundXS        gocrystal.SigmaBound
	elementMassAMU float64
	suggestedEmax  float64 // eV; 0 means no suggestion
}

// NewData validates the grids and values and constructs a kernel. The grids
// must each have at least two strictly increasing finite entries, alpha and S
// must be non-negative, and len(values) must equal
// len(alphaGrid)*len(betaGrid).
func NewData(
	alphaGrid, betaGrid, values []float64,
	temperature gocrystal.Temperature,
	boundXS gocrystal.SigmaBound,
	elementMassAMU, suggestedEmax float64,
) (*Data, error) {
	if err := checkGrid("alpha", alphaGrid, 2); err != nil {
		return nil, err
	} else if err := checkGrid("beta", betaGrid, 2); err != nil {
		return nil, err
	} else if alphaGrid[0] < 0 {
		return nil, fmt.Errorf("%w: alpha grid must be non-negative", ErrBadGrid)
	}

	if len(values) != len(alphaGrid)*len(betaGrid) {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid",
			ErrBadShape, len(values), len(alphaGrid), len(betaGrid))
	}
	for i, s := range values {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			return nil, fmt.Errorf("%w: S[%d] = %g", ErrBadValue, i, s)
		}
	}

	return &Data{
		alphaGrid:      alphaGrid,
		betaGrid:       betaGrid,
		values:         values,
		temperature:    temperature,
		boundXS:        boundXS,
		elementMassAMU: elementMassAMU,
		suggestedEmax:  suggestedEmax,
	}, nil
}

// AlphaGrid returns the alpha grid. The returned slice must not be modified.
func (d *Data) AlphaGrid() []float64 { return d.alphaGrid }

// BetaGrid returns the beta grid. The returned slice must not be modified.
func (d *Data) BetaGrid() []float64 { return d.betaGrid }

// Values returns the row-major S table. The returned slice must not be
// modified.
func (d *Data) Values() []float64 { return d.values }

// At returns S at grid point (i, j).
func (d *Data) At(i, j int) float64 {
	return d.values[i*len(d.betaGrid)+j]
}

// Temperature returns the temperature the kernel was tabulated at.
func (d *Data) Temperature() gocrystal.Temperature { return d.temperature }

// BoundXS returns the bound-atom scattering cross-section.
func (d *Data) BoundXS() gocrystal.SigmaBound { return d.boundXS }

// ElementMassAMU returns the mass of the scattering element in amu.
func (d *Data) ElementMassAMU() float64 { return d.elementMassAMU }

// SuggestedEmax returns the highest neutron energy (eV) the kernel is meant
// to be used at, or 0 when the source made no suggestion.
func (d *Data) SuggestedEmax() float64 { return d.suggestedEmax }

// VDOS is an immutable regularised vibrational density of states curve. The
// energy grid is either a full grid matching Density point for point, or the
// two-entry pair [emin, emax] describing a regular grid over Density.
type VDOS struct {
	egrid, density []float64

	temperature    gocrystal.Temperature
	boundXS        gocrystal.SigmaBound
	elementMassAMU float64
}

// NewVDOS validates the curve and constructs a VDOS. The energy grid must be
// strictly increasing and positive, with either exactly two entries or one
// per density point; the density must have at least two non-negative points.
func NewVDOS(
	egrid, density []float64,
	temperature gocrystal.Temperature,
	boundXS gocrystal.SigmaBound,
	elementMassAMU float64,
) (*VDOS, error) {
	if err := checkGrid("energy", egrid, 2); err != nil {
		return nil, err
	} else if egrid[0] <= 0 {
		return nil, fmt.Errorf("%w: energy grid must be positive", ErrBadGrid)
	}

	if len(density) < 2 {
		return nil, fmt.Errorf("%w: density needs at least 2 points, got %d",
			ErrBadShape, len(density))
	}
	if len(egrid) != 2 && len(egrid) != len(density) {
		return nil, fmt.Errorf("%w: %d grid points for %d density points",
			ErrBadShape, len(egrid), len(density))
	}
	for i, f := range density {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return nil, fmt.Errorf("%w: density[%d] = %g", ErrBadValue, i, f)
		}
	}

	return &VDOS{
		egrid:          egrid,
		density:        density,
		temperature:    temperature,
		boundXS:        boundXS,
		elementMassAMU: elementMassAMU,
	}, nil
}

// EGrid returns the energy grid. The returned slice must not be modified.
func (v *VDOS) EGrid() []float64 { return v.egrid }

// Density returns the density curve. The returned slice must not be modified.
func (v *VDOS) Density() []float64 { return v.density }

// Temperature returns the temperature the curve applies at.
func (v *VDOS) Temperature() gocrystal.Temperature { return v.temperature }

// BoundXS returns the bound-atom scattering cross-section.
func (v *VDOS) BoundXS() gocrystal.SigmaBound { return v.boundXS }

// ElementMassAMU returns the mass of the element in amu.
func (v *VDOS) ElementMassAMU() float64 { return v.elementMassAMU }

func checkGrid(name string, grid []float64, minLen int) error {
	if len(grid) < minLen {
		return fmt.Errorf("%w: %s grid needs at least %d points, got %d",
			ErrBadGrid, name, minLen, len(grid))
	}
	for i, x := range grid {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %s grid entry %d is not finite", ErrBadGrid, name, i)
		}
		if i > 0 && x <= grid[i-1] {
			return fmt.Errorf("%w: %s grid not strictly increasing at %d",
				ErrBadGrid, name, i)
		}
	}
	return nil
}
