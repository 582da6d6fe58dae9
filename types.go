/*package gocrystal contains the value types shared by every package in the
module: tagged physical scalars and small geometric primitives.

Each scalar type wraps a float64 so that call sites cannot accidentally
transpose quantities carrying different units. The wrappers are deliberately
inert: no arithmetic methods, no validation. They are tags, not numbers with
behavior.
*/
package gocrystal

import (
	"math"
)

// Temperature is a material temperature in kelvin.
type Temperature float64

// DebyeTemperature is the characteristic temperature of a Debye phonon
// spectrum, in kelvin.
type DebyeTemperature float64

// Density is a mass density in g/cm^3.
type Density float64

// NumberDensity is an atom count density in atoms/angstrom^3.
type NumberDensity float64

// SigmaFree is a free (high-energy limit) scattering cross-section in barn.
type SigmaFree float64

// SigmaAbsorption is an absorption cross-section at 2200 m/s, in barn.
type SigmaAbsorption float64

// SigmaBound is a bound-atom scattering cross-section in barn.
type SigmaBound float64

// CrossSect is a generic cross-section value in barn.
type CrossSect float64

// NeutronEnergy is a neutron kinetic energy in eV.
type NeutronEnergy float64

// Vec is a three dimensional vector. Used for unit-cell positions and for
// reflection plane normals.
type Vec [3]float64

// Mag returns the Euclidean magnitude of v.
func (v Vec) Mag() float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
