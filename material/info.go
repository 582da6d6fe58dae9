/*material contains the data model shared between the factories which parse
material descriptions and the scattering and absorption algorithms which
consume them: crystal structure, per-atom structural and dynamic information,
the reflection (HKL) list, cross-sections and densities.

An Info is assembled in two phases. A Builder accepts piecemeal setter calls
in any order, with no consistency guarantees, the way data arrives from file
parsers. Finalize then sorts, cross-links and indexes everything and returns
an immutable Info. The type split means post-finalize mutation is impossible
rather than merely checked: a finished Info is safe for unlimited concurrent
reads with no locking.

Errors follow the module-wide split: malformed input data surfaces as
sentinel errors, while misuse of the API (mutating a finalized builder,
indexing out of range) panics.
*/
package material

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/phil-mansfield/gocrystal"
	"github.com/phil-mansfield/gocrystal/lattice"
)

// Sentinel errors for material assembly. Match with errors.Is.
var (
	// ErrBadReflection indicates reflection data violating a structural
	// invariant (window missing, demi-normal multiplicity, eqv table shape).
	ErrBadReflection = errors.New("material: inconsistent reflection data")

	// ErrBadAtomIndex indicates that the same AtomIndex was associated with
	// two different composition records.
	ErrBadAtomIndex = errors.New("material: atom index maps to conflicting records")

	// ErrStructureSet indicates a second SetStructureInfo call.
	ErrStructureSet = errors.New("material: structure info already set")

	// ErrMissingStructure indicates a structure-dependent query on an Info
	// without structure info.
	ErrMissingStructure = errors.New("material: no structure info available")
)

// StructureInfo describes the crystal structure of a material.
type StructureInfo struct {
	// Spacegroup is 1-230 when known, 0 when not available.
	Spacegroup int

	// A, B, C are the lattice lengths in angstrom.
	A, B, C float64

	// Alpha, Beta, Gamma are the lattice angles in degrees.
	Alpha, Beta, Gamma float64

	// Volume is the unit-cell volume in angstrom^3.
	Volume float64

	// NAtoms is the number of atoms per unit cell.
	NAtoms int
}

// CompositionEntry is one (fraction, atom) pair of a material's basic
// composition.
type CompositionEntry struct {
	Fraction float64
	Atom     IndexedAtom
}

// Composition is an ordered list of composition entries. When AtomInfo or
// DynamicInfo lists are present the composition is consistent with them;
// that is a producer responsibility and is not re-validated here.
type Composition []CompositionEntry

// CustomLine is one line of a custom section: an ordered list of words.
type CustomLine []string

// CustomSectionData is the body of one custom section.
type CustomSectionData []CustomLine

// CustomSection is a named free-form data section. Custom sections carry
// data this package has no specific treatment for, primarily as a place to
// put extra input needed while developing new physics models. Names may
// repeat.
type CustomSection struct {
	Name string
	Data CustomSectionData
}

// Builder assembles an Info from piecemeal factory calls. The zero phase
// accepts all setters with no consistency guarantees; Finalize validates,
// derives and locks. Calling any method after Finalize panics: the builder
// is spent. Builders are not safe for concurrent use.
type Builder struct {
	info *Info
	done bool
}

// Info is the finished, immutable description of a material. Instances are
// produced by Builder.Finalize and are safe for unrestricted concurrent
// reads.
type Info struct {
	structure    StructureInfo
	hasStructure bool

	atoms []*AtomInfo
	hkls  []HKLInfo
	dyns  []DynamicInfo

	hklDLower, hklDUpper float64
	hasHKLWindow         bool

	density    gocrystal.Density
	hasDensity bool

	numberDensity    gocrystal.NumberDensity
	hasNumberDensity bool

	xsectFree    gocrystal.SigmaFree
	hasXSectFree bool

	xsectAbsorption    gocrystal.SigmaAbsorption
	hasXSectAbsorption bool

	temperature    gocrystal.Temperature
	hasTemperature bool

	xsectProvider func(gocrystal.NeutronEnergy) gocrystal.CrossSect

	composition Composition
	custom      []CustomSection

	// Derived at finalize: atom records and display labels by AtomIndex.
	atomRecords   []*AtomData
	displayLabels []string
}

// NewBuilder creates an empty material builder.
func NewBuilder() *Builder {
	return &Builder{info: &Info{}}
}

func (b *Builder) ensureOpen() {
	if b.done {
		panic("material: Builder used after Finalize.")
	}
}

// AddAtomInfo appends one structural atom description.
func (b *Builder) AddAtomInfo(ai *AtomInfo) {
	b.ensureOpen()
	if ai == nil {
		panic("material: nil AtomInfo.")
	}
	b.info.atoms = append(b.info.atoms, ai)
}

// EnableReflections declares that reflection info is configured, generated
// over the d-spacing window [dlower, dupper]. The window distinguishes "no
// HKL info" from "HKL info present but the list is empty".
func (b *Builder) EnableReflections(dlower, dupper float64) {
	b.ensureOpen()
	b.info.hklDLower, b.info.hklDUpper = dlower, dupper
	b.info.hasHKLWindow = true
}

// AddReflection appends one reflection.
func (b *Builder) AddReflection(hkl HKLInfo) {
	b.ensureOpen()
	b.info.hkls = append(b.info.hkls, hkl)
}

// SetReflectionList replaces the reflection list wholesale.
func (b *Builder) SetReflectionList(hkls []HKLInfo) {
	b.ensureOpen()
	b.info.hkls = hkls
}

// SetStructureInfo sets the crystal structure. Unlike the other setters it
// may only be called once; a second call returns ErrStructureSet.
func (b *Builder) SetStructureInfo(si StructureInfo) error {
	b.ensureOpen()
	if b.info.hasStructure {
		return ErrStructureSet
	}
	b.info.structure, b.info.hasStructure = si, true
	return nil
}

// SetFreeCrossSection sets the saturated (high energy limit) scattering
// cross-section.
func (b *Builder) SetFreeCrossSection(x gocrystal.SigmaFree) {
	b.ensureOpen()
	b.info.xsectFree, b.info.hasXSectFree = x, true
}

// SetAbsorptionCrossSection sets the absorption cross-section at 2200 m/s.
func (b *Builder) SetAbsorptionCrossSection(x gocrystal.SigmaAbsorption) {
	b.ensureOpen()
	b.info.xsectAbsorption, b.info.hasXSectAbsorption = x, true
}

// SetTemperature sets the material temperature.
func (b *Builder) SetTemperature(t gocrystal.Temperature) {
	b.ensureOpen()
	b.info.temperature, b.info.hasTemperature = t, true
}

// SetDensity sets the material mass density.
func (b *Builder) SetDensity(d gocrystal.Density) {
	b.ensureOpen()
	b.info.density, b.info.hasDensity = d, true
}

// SetNumberDensity sets the material number density.
func (b *Builder) SetNumberDensity(d gocrystal.NumberDensity) {
	b.ensureOpen()
	b.info.numberDensity, b.info.hasNumberDensity = d, true
}

// SetNonBraggCrossSectionProvider installs the evaluator for "background"
// (non-Bragg diffraction) scattering cross-sections. Panics on nil.
func (b *Builder) SetNonBraggCrossSectionProvider(
	provider func(gocrystal.NeutronEnergy) gocrystal.CrossSect,
) {
	b.ensureOpen()
	if provider == nil {
		panic("material: nil cross-section provider.")
	}
	b.info.xsectProvider = provider
}

// AddDynamicInfo appends one dynamic species description. Panics on nil.
func (b *Builder) AddDynamicInfo(di DynamicInfo) {
	b.ensureOpen()
	if di == nil {
		panic("material: nil DynamicInfo.")
	}
	b.info.dyns = append(b.info.dyns, di)
}

// SetComposition sets the basic composition.
func (b *Builder) SetComposition(c Composition) {
	b.ensureOpen()
	b.info.composition = c
}

// SetCustomSections sets the free-form custom sections.
func (b *Builder) SetCustomSections(sections []CustomSection) {
	b.ensureOpen()
	b.info.custom = sections
}

// Finalize validates the accumulated data, derives the sorted lists,
// cross-links and lookup tables, and returns the finished immutable Info.
// On error no Info is returned and the accumulated data should be discarded.
// Finalize spends the builder either way: any later call, including a second
// Finalize, panics.
func (b *Builder) Finalize() (*Info, error) {
	b.ensureOpen()
	b.done = true
	info := b.info
	b.info = nil

	if err := info.validateReflections(); err != nil {
		return nil, err
	}

	sortHKLList(info.hkls)

	// Atom infos sort by atomic number, then index for determinism.
	sort.Slice(info.atoms, func(i, j int) bool {
		zi, zj := info.atoms[i].atom.Data.Z, info.atoms[j].atom.Data.Z
		if zi != zj {
			return zi < zj
		}
		return info.atoms[i].atom.Index < info.atoms[j].atom.Index
	})

	// Cross-link AtomInfo <-> DynamicInfo pairs sharing the same atom.
	for ia, ai := range info.atoms {
		for id, di := range info.dyns {
			if ai.atom.SameAtom(di.Atom()) {
				ai.dynIdx = id
				di.base().atomIdx = ia
				break
			}
		}
	}

	if err := info.buildAtomTables(); err != nil {
		return nil, err
	}
	return info, nil
}

func (info *Info) validateReflections() error {
	if len(info.hkls) > 0 && !info.hasHKLWindow {
		return fmt.Errorf("%w: reflections added without a d-spacing window",
			ErrBadReflection)
	}
	for i := range info.hkls {
		hkl := &info.hkls[i]
		if len(hkl.DemiNormals) > 0 && hkl.Multiplicity != 2*len(hkl.DemiNormals) {
			return fmt.Errorf(
				"%w: (%d,%d,%d) multiplicity %d with %d demi-normals",
				ErrBadReflection, hkl.H, hkl.K, hkl.L,
				hkl.Multiplicity, len(hkl.DemiNormals))
		}
		if len(hkl.EqvHKL) > 0 && len(hkl.EqvHKL) != 3*len(hkl.DemiNormals) {
			return fmt.Errorf(
				"%w: (%d,%d,%d) eqv table has %d entries for %d demi-normals",
				ErrBadReflection, hkl.H, hkl.K, hkl.L,
				len(hkl.EqvHKL), len(hkl.DemiNormals))
		}
	}
	return nil
}

// buildAtomTables assembles the index -> record lookup and the display
// labels. Records are gathered from every list referencing atoms; the same
// index must always carry the same record.
func (info *Info) buildAtomTables() error {
	maxIdx := AtomIndex(-1)
	note := func(a IndexedAtom) {
		if a.Index > maxIdx {
			maxIdx = a.Index
		}
	}
	for _, ai := range info.atoms {
		note(ai.atom)
	}
	for _, di := range info.dyns {
		note(di.Atom())
	}
	for _, ce := range info.composition {
		note(ce.Atom)
	}
	if maxIdx < 0 {
		return nil
	}

	info.atomRecords = make([]*AtomData, maxIdx+1)
	record := func(a IndexedAtom) error {
		prev := info.atomRecords[a.Index]
		if prev != nil && prev != a.Data {
			return fmt.Errorf("%w: index %d", ErrBadAtomIndex, a.Index)
		}
		info.atomRecords[a.Index] = a.Data
		return nil
	}
	for _, ai := range info.atoms {
		if err := record(ai.atom); err != nil {
			return err
		}
	}
	for _, di := range info.dyns {
		if err := record(di.Atom()); err != nil {
			return err
		}
	}
	for _, ce := range info.composition {
		if err := record(ce.Atom); err != nil {
			return err
		}
	}

	// Display labels: plain names, unless one element plays several roles,
	// in which case the roles get "-a", "-b", ... suffixes in index order.
	nameCount := map[string]int{}
	for _, ad := range info.atomRecords {
		if ad != nil {
			nameCount[ad.Name()]++
		}
	}
	nameSeen := map[string]int{}
	info.displayLabels = make([]string, len(info.atomRecords))
	for i, ad := range info.atomRecords {
		if ad == nil {
			continue
		}
		name := ad.Name()
		if nameCount[name] == 1 {
			info.displayLabels[i] = name
		} else {
			info.displayLabels[i] = fmt.Sprintf("%s-%c", name, 'a'+nameSeen[name])
			nameSeen[name]++
		}
	}
	return nil
}

// IsCrystalline reports whether the material is crystalline: at least one of
// structure info, atom positions, or reflection info is present.
// Non-crystalline materials always carry dynamic info instead.
func (info *Info) IsCrystalline() bool {
	return info.hasStructure || info.HasAtomInfo() || info.HasReflections()
}

// Structure returns the crystal structure, if available.
func (info *Info) Structure() (StructureInfo, bool) {
	return info.structure, info.hasStructure
}

// DSpacingFromHKL calculates the d-spacing of the Miller index (h,k,l) from
// the structure info. Each call derives the reciprocal lattice matrix, so
// hot loops should go through the lattice package directly. Returns
// ErrMissingStructure when no structure info is available.
func (info *Info) DSpacingFromHKL(h, k, l int) (float64, error) {
	if !info.hasStructure {
		return 0, ErrMissingStructure
	}
	const degree = math.Pi / 180
	si := &info.structure
	rec := lattice.ReciprocalRotation(
		si.A, si.B, si.C,
		si.Alpha*degree, si.Beta*degree, si.Gamma*degree,
	)
	return lattice.DSpacingFromHKL(h, k, l, rec), nil
}

// DynamicInfos returns the dynamic species descriptions. The returned slice
// must not be modified.
func (info *Info) DynamicInfos() []DynamicInfo { return info.dyns }

// HasDynamicInfo reports whether any dynamic info is present.
func (info *Info) HasDynamicInfo() bool { return len(info.dyns) > 0 }

// AbsorptionCrossSection returns the absorption cross-section at 2200 m/s,
// if available.
func (info *Info) AbsorptionCrossSection() (gocrystal.SigmaAbsorption, bool) {
	return info.xsectAbsorption, info.hasXSectAbsorption
}

// FreeCrossSection returns the saturated (high energy limit) scattering
// cross-section, if available.
func (info *Info) FreeCrossSection() (gocrystal.SigmaFree, bool) {
	return info.xsectFree, info.hasXSectFree
}

// ProvidesNonBraggCrossSection reports whether a background cross-section
// evaluator was installed.
func (info *Info) ProvidesNonBraggCrossSection() bool {
	return info.xsectProvider != nil
}

// NonBraggCrossSection evaluates the background (non-Bragg) scattering
// cross-section at the given neutron energy. Panics when no provider was
// installed; check ProvidesNonBraggCrossSection first.
func (info *Info) NonBraggCrossSection(e gocrystal.NeutronEnergy) gocrystal.CrossSect {
	if info.xsectProvider == nil {
		panic("material: no non-Bragg cross-section provider installed.")
	}
	return info.xsectProvider(e)
}

// Temperature returns the material temperature, if available.
func (info *Info) Temperature() (gocrystal.Temperature, bool) {
	return info.temperature, info.hasTemperature
}

// AtomInfos returns the structural atom descriptions, sorted by atomic
// number. The returned slice must not be modified. It is valid (and empty)
// even when HasAtomInfo is false.
func (info *Info) AtomInfos() []*AtomInfo { return info.atoms }

// HasAtomInfo reports whether any structural atom info is present.
func (info *Info) HasAtomInfo() bool { return len(info.atoms) > 0 }

// HasAtomMSD reports whether the AtomInfos carry mean-squared displacements.
// By construction either all entries have one or none do, so only the first
// entry is inspected; a list populated in violation of that convention is
// reported according to its first entry.
func (info *Info) HasAtomMSD() bool {
	return len(info.atoms) > 0 && info.atoms[0].hasMSD
}

// HasAtomDebyeTemp reports whether the AtomInfos carry Debye temperatures,
// under the same first-entry policy as HasAtomMSD.
func (info *Info) HasAtomDebyeTemp() bool {
	return len(info.atoms) > 0 && info.atoms[0].hasDebyeTemp
}

// CorrespondingDynamicInfo returns the DynamicInfo describing the same atom
// as ai, when one exists.
func (info *Info) CorrespondingDynamicInfo(ai *AtomInfo) (DynamicInfo, bool) {
	if ai.dynIdx < 0 {
		return nil, false
	}
	return info.dyns[ai.dynIdx], true
}

// CorrespondingAtomInfo returns the AtomInfo describing the same atom as di,
// when one exists.
func (info *Info) CorrespondingAtomInfo(di DynamicInfo) (*AtomInfo, bool) {
	idx := di.base().atomIdx
	if idx < 0 {
		return nil, false
	}
	return info.atoms[idx], true
}

// Reflections returns the reflection list, sorted by ascending d-spacing and
// then (h,k,l). The returned slice must not be modified. It is valid (and
// empty) even when HasReflections is false.
func (info *Info) Reflections() []HKLInfo { return info.hkls }

// NHKL returns the number of reflections.
func (info *Info) NHKL() int { return len(info.hkls) }

// HasReflections reports whether reflection info was configured at all,
// which is distinct from the reflection list being non-empty.
func (info *Info) HasReflections() bool { return info.hasHKLWindow }

// ReflectionWindow returns the d-spacing window [dlower, dupper] the
// reflection list was generated over, if reflection info was configured.
func (info *Info) ReflectionWindow() (dlower, dupper float64, ok bool) {
	return info.hklDLower, info.hklDUpper, info.hasHKLWindow
}

// DMin returns the smallest d-spacing in the reflection list, or +Inf when
// the list is empty.
func (info *Info) DMin() float64 {
	if len(info.hkls) == 0 {
		return math.Inf(1)
	}
	return info.hkls[0].DSpacing
}

// DMax returns the largest d-spacing in the reflection list, or -Inf when
// the list is empty.
func (info *Info) DMax() float64 {
	if len(info.hkls) == 0 {
		return math.Inf(-1)
	}
	return info.hkls[len(info.hkls)-1].DSpacing
}

// HasDemiNormals reports whether the reflections carry demi-normals. The
// list is homogeneous by construction, so only the first entry is inspected.
func (info *Info) HasDemiNormals() bool {
	return info.hasHKLWindow && len(info.hkls) > 0 && len(info.hkls[0].DemiNormals) > 0
}

// HasExpandedHKL reports whether the reflections carry expanded
// symmetry-equivalent index tables, under the same first-entry policy.
func (info *Info) HasExpandedHKL() bool {
	return info.hasHKLWindow && len(info.hkls) > 0 && len(info.hkls[0].EqvHKL) > 0
}

// SearchExpandedHKL scans the expanded symmetry-equivalent tables for the
// literal triple (h,k,l) or its negation, which the demi-normal convention
// treats as the same entry. Returns the reflection list index, or false when
// not found or no expanded info is present.
func (info *Info) SearchExpandedHKL(h, k, l int16) (int, bool) {
	if !info.HasExpandedHKL() {
		return 0, false
	}
	for i := range info.hkls {
		eqv := info.hkls[i].EqvHKL
		for j := 0; j+2 < len(eqv); j += 3 {
			eh, ek, el := eqv[j], eqv[j+1], eqv[j+2]
			if (eh == h && ek == k && el == l) ||
				(eh == -h && ek == -k && el == -l) {
				return i, true
			}
		}
	}
	return 0, false
}

// Density returns the mass density, if available.
func (info *Info) Density() (gocrystal.Density, bool) {
	return info.density, info.hasDensity
}

// NumberDensity returns the number density, if available.
func (info *Info) NumberDensity() (gocrystal.NumberDensity, bool) {
	return info.numberDensity, info.hasNumberDensity
}

// Composition returns the basic composition. The returned slice must not be
// modified. It is valid (and empty) even when HasComposition is false.
func (info *Info) Composition() Composition { return info.composition }

// HasComposition reports whether a basic composition is present.
func (info *Info) HasComposition() bool { return len(info.composition) > 0 }

// DisplayLabel returns the display label of the given atom index: the atom
// name, suffixed with "-a", "-b", ... when the same element plays several
// roles in the material. Panics on an index unknown to this Info.
func (info *Info) DisplayLabel(idx AtomIndex) string {
	if idx < 0 || int(idx) >= len(info.displayLabels) || info.displayLabels[idx] == "" {
		panic("material: atom index unknown to this Info.")
	}
	return info.displayLabels[idx]
}

// AtomDataByIndex returns the composition record registered for the given
// atom index, if any.
func (info *Info) AtomDataByIndex(idx AtomIndex) (*AtomData, bool) {
	if idx < 0 || int(idx) >= len(info.atomRecords) || info.atomRecords[idx] == nil {
		return nil, false
	}
	return info.atomRecords[idx], true
}

// IndexedAtomData reassembles the IndexedAtom for the given index, if known.
func (info *Info) IndexedAtomData(idx AtomIndex) (IndexedAtom, bool) {
	ad, ok := info.AtomDataByIndex(idx)
	if !ok {
		return IndexedAtom{}, false
	}
	return IndexedAtom{Data: ad, Index: idx}, true
}

// AllCustomSections returns the ordered custom sections. The returned slice
// must not be modified.
func (info *Info) AllCustomSections() []CustomSection { return info.custom }

// CountCustomSections counts the custom sections with the given name.
func (info *Info) CountCustomSections(name string) int {
	n := 0
	for i := range info.custom {
		if info.custom[i].Name == name {
			n++
		}
	}
	return n
}

// CustomSectionData returns the body of the index-th custom section with the
// given name (several sections may share one name).
func (info *Info) CustomSectionData(name string, index int) (CustomSectionData, bool) {
	seen := 0
	for i := range info.custom {
		if info.custom[i].Name == name {
			if seen == index {
				return info.custom[i].Data, true
			}
			seen++
		}
	}
	return nil, false
}
