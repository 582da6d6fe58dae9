package material

import (
	"sync"
	"sync/atomic"

	"github.com/phil-mansfield/gocrystal"
	"github.com/phil-mansfield/gocrystal/sab"
)

// DynamicInfo describes the dynamics of one atomic species in a material:
// how it participates in inelastic neutron scattering. Concrete variants are
// Sterile, FreeGas, ScatKnlDirect, VDOS, and VDOSDebye.
type DynamicInfo interface {
	// Fraction returns the fractional abundance of this species.
	Fraction() float64

	// ChangeFraction updates the fractional abundance. Unlike everything
	// else on a finalized Info, fractions stay mutable so that factories can
	// renormalize merged materials. Not safe for concurrent use.
	ChangeFraction(f float64)

	// Atom returns the indexed atomic composition of this species.
	Atom() IndexedAtom

	// Temperature returns the material temperature, the same value as on the
	// owning Info.
	Temperature() gocrystal.Temperature

	// base gives the package access to the shared fields, and keeps the
	// interface closed to outside implementations.
	base() *dynData
}

// dynData holds the fields common to every DynamicInfo variant.
type dynData struct {
	fraction    float64
	atom        IndexedAtom
	temperature gocrystal.Temperature

	// Index of the corresponding AtomInfo in the owning Info's list, set at
	// finalize time. -1 when there is no match.
	atomIdx int
}

func newDynData(fraction float64, atom IndexedAtom, temp gocrystal.Temperature) dynData {
	return dynData{fraction: fraction, atom: atom, temperature: temp, atomIdx: -1}
}

func (d *dynData) Fraction() float64 { return d.fraction }

func (d *dynData) ChangeFraction(f float64) { d.fraction = f }

func (d *dynData) Atom() IndexedAtom { return d.atom }

func (d *dynData) Temperature() gocrystal.Temperature { return d.temperature }

func (d *dynData) base() *dynData { return d }

// Sterile marks a species for which inelastic neutron scattering is absent
// or disabled.
type Sterile struct {
	dynData
}

// NewSterile creates a Sterile dynamic description.
func NewSterile(fraction float64, atom IndexedAtom, temp gocrystal.Temperature) *Sterile {
	return &Sterile{newDynData(fraction, atom, temp)}
}

// FreeGas marks a species whose inelastic scattering should be modelled as
// scattering on a free gas.
type FreeGas struct {
	dynData
}

// NewFreeGas creates a FreeGas dynamic description.
func NewFreeGas(fraction float64, atom IndexedAtom, temp gocrystal.Temperature) *FreeGas {
	return &FreeGas{newDynData(fraction, atom, temp)}
}

// ScatKnl is the family of dynamic descriptions which can, directly or
// indirectly, yield an S(alpha,beta) scattering kernel. The family interface
// only adds the energy grid associated with kernel use; how the kernel itself
// is obtained differs per variant.
type ScatKnl interface {
	DynamicInfo

	// EnergyGrid returns the energy grid (eV) the source dictated for
	// cross-section caching, if any. nil leaves the choice entirely to the
	// consuming code. A 3-entry grid is the hint [emin, emax, npts] where any
	// entry may be 0; grids of length >= 4 are proper grids.
	EnergyGrid() []float64
}

// KernelProvider is the capability of owning a concrete, possibly
// lazily-built scattering kernel. Within this package only ScatKnlDirect
// provides it.
type KernelProvider interface {
	// Kernel returns the completed kernel, building it on first call. Safe
	// for concurrent use: the build runs exactly once and every caller
	// observes the same result, or the same build error.
	Kernel() (*sab.Data, error)

	// HasBuiltKernel reports whether the kernel has already been built
	// successfully. It never triggers a build and is safe to call while a
	// build is in progress, in which case it may still report false.
	HasBuiltKernel() bool
}

// ScatKnlDirect is a pre-calculated scattering kernel which at most needs a
// final conversion before use. The conversion can be expensive, so it runs
// lazily on the first Kernel call and is cached for the life of the object.
type ScatKnlDirect struct {
	dynData
	egrid []float64

	build func() (*sab.Data, error)

	once   sync.Once
	kernel *sab.Data
	err    error
	built  uint32
}

var _ KernelProvider = (*ScatKnlDirect)(nil)
var _ ScatKnl = (*ScatKnlDirect)(nil)

// NewScatKnlDirect creates a directly-tabulated kernel description. build is
// the conversion routine producing the finished kernel; it is called at most
// once, however many goroutines ask. egrid follows the EnergyGrid contract
// and may be nil. Panics if build is nil.
func NewScatKnlDirect(
	fraction float64, atom IndexedAtom, temp gocrystal.Temperature,
	egrid []float64, build func() (*sab.Data, error),
) *ScatKnlDirect {
	if build == nil {
		panic("material: ScatKnlDirect requires a build routine.")
	}
	return &ScatKnlDirect{
		dynData: newDynData(fraction, atom, temp),
		egrid:   egrid,
		build:   build,
	}
}

// EnergyGrid returns the source-dictated energy grid, or nil.
func (d *ScatKnlDirect) EnergyGrid() []float64 { return d.egrid }

// Kernel returns the completed kernel, running the build routine on first
// call. Concurrent first calls serialize so that exactly one performs the
// build; all callers, triggering or waiting, observe the same kernel or the
// same propagated build error.
func (d *ScatKnlDirect) Kernel() (*sab.Data, error) {
	d.once.Do(func() {
		d.kernel, d.err = d.build()
		if d.err == nil {
			atomic.StoreUint32(&d.built, 1)
		}
	})
	return d.kernel, d.err
}

// HasBuiltKernel reports whether the kernel was already built successfully,
// without triggering a build.
func (d *ScatKnlDirect) HasBuiltKernel() bool {
	return atomic.LoadUint32(&d.built) == 1
}

// VDOS carries a phonon spectrum as a vibrational density of states. The
// consuming code is responsible for expanding it into a full scattering
// kernel, including grid layout and expansion-order choices.
type VDOS struct {
	dynData
	egrid []float64
	vdos  *sab.VDOS

	// Original, unregularised curves as found in the source, when available.
	origEGrid   []float64
	origDensity []float64
}

var _ ScatKnl = (*VDOS)(nil)

// NewVDOS creates a VDOS dynamic description. Panics if vdos is nil. The
// original unregularised curves are optional and may both be nil.
func NewVDOS(
	fraction float64, atom IndexedAtom, temp gocrystal.Temperature,
	egrid []float64, vdos *sab.VDOS, origEGrid, origDensity []float64,
) *VDOS {
	if vdos == nil {
		panic("material: VDOS requires a density-of-states curve.")
	}
	return &VDOS{
		dynData:     newDynData(fraction, atom, temp),
		egrid:       egrid,
		vdos:        vdos,
		origEGrid:   origEGrid,
		origDensity: origDensity,
	}
}

// EnergyGrid returns the source-dictated energy grid, or nil.
func (d *VDOS) EnergyGrid() []float64 { return d.egrid }

// Data returns the regularised density-of-states curve.
func (d *VDOS) Data() *sab.VDOS { return d.vdos }

// OrigEGrid returns the original (unregularised) energy grid, or nil when
// the source provided none.
func (d *VDOS) OrigEGrid() []float64 { return d.origEGrid }

// OrigDensity returns the original (unregularised) density curve, or nil
// when the source provided none.
func (d *VDOS) OrigDensity() []float64 { return d.origDensity }

// VDOSDebye is an idealised VDOS based on the Debye model, in which the
// spectrum rises quadratically with phonon energy up to the cutoff set by
// the Debye temperature. The spectrum is cheap to synthesize from the single
// parameter, so no kernel cache is kept.
type VDOSDebye struct {
	dynData
	debyeTemp gocrystal.DebyeTemperature
}

var _ ScatKnl = (*VDOSDebye)(nil)

// NewVDOSDebye creates a Debye-model dynamic description. Panics if the
// Debye temperature is not positive.
func NewVDOSDebye(
	fraction float64, atom IndexedAtom, temp gocrystal.Temperature,
	debyeTemp gocrystal.DebyeTemperature,
) *VDOSDebye {
	if debyeTemp <= 0 {
		panic("material: VDOSDebye requires a positive Debye temperature.")
	}
	return &VDOSDebye{dynData: newDynData(fraction, atom, temp), debyeTemp: debyeTemp}
}

// EnergyGrid returns nil: the Debye model leaves the grid choice entirely to
// the consuming code.
func (d *VDOSDebye) EnergyGrid() []float64 { return nil }

// DebyeTemperature returns the Debye temperature parameterising the spectrum.
func (d *VDOSDebye) DebyeTemperature() gocrystal.DebyeTemperature { return d.debyeTemp }
