package material

import (
	"fmt"
)

// AtomData is an immutable record describing one atomic composition: a
// natural element or a specific isotope, together with the neutron constants
// scattering code needs. Records are shared freely: every AtomInfo,
// DynamicInfo and Composition entry referring to the same atom holds the same
// *AtomData.
type AtomData struct {
	// Z is the atomic number.
	Z int
	// A is the mass number, or 0 for a natural isotopic mixture.
	A int
	// MassAMU is the atomic mass in amu.
	MassAMU float64
	// CoherentScatLen is the bound coherent scattering length in fm.
	CoherentScatLen float64
	// IncoherentXS is the bound incoherent cross-section in barn.
	IncoherentXS float64
	// AbsorptionXS is the absorption cross-section at 2200 m/s in barn.
	AbsorptionXS float64
}

// Name returns the conventional short name of the atom: the element symbol
// for a natural mixture ("Al"), symbol plus mass number for a specific
// isotope ("H2", "B10").
func (a *AtomData) Name() string {
	sym := elementSymbol(a.Z)
	if a.A == 0 {
		return sym
	}
	return fmt.Sprintf("%s%d", sym, a.A)
}

// AtomIndex identifies one atomic role within a single Info object, densely
// numbered from 0. An index is only meaningful in association with the Info
// it came from: comparing or looking up indices across Info instances is
// undefined behavior and is not guarded against at runtime.
type AtomIndex int

// IndexedAtom pairs a shared AtomData record with its AtomIndex. It exists
// because the same fundamental atom can play more than one role in a
// material, for instance the same element with different displacements on
// different unit-cell positions.
type IndexedAtom struct {
	Data  *AtomData
	Index AtomIndex
}

// Less orders IndexedAtoms by index. Only meaningful for atoms associated
// with the same Info object.
func (a IndexedAtom) Less(o IndexedAtom) bool { return a.Index < o.Index }

// Equal reports whether two IndexedAtoms have the same index. Only
// meaningful for atoms associated with the same Info object.
func (a IndexedAtom) Equal(o IndexedAtom) bool { return a.Index == o.Index }

// SameAtom reports whether two IndexedAtoms are the same atom by identity:
// same index and same underlying record. This is the relation used for
// AtomInfo/DynamicInfo cross-linking.
func (a IndexedAtom) SameAtom(o IndexedAtom) bool {
	return a.Index == o.Index && a.Data == o.Data
}

var elementSymbols = [...]string{
	1: "H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar", "K", "Ca",
	"Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr", "Rb", "Sr", "Y", "Zr",
	"Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn",
	"Sb", "Te", "I", "Xe", "Cs", "Ba", "La", "Ce", "Pr", "Nd",
	"Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb",
	"Lu", "Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn", "Fr", "Ra", "Ac", "Th",
	"Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm",
	"Md", "No", "Lr", "Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds",
	"Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

func elementSymbol(z int) string {
	if z < 1 || z >= len(elementSymbols) {
		return fmt.Sprintf("Z%d", z)
	}
	return elementSymbols[z]
}
