package material

import (
	"github.com/phil-mansfield/gocrystal"
)

// AtomInfo describes one kind of atom in a crystal unit cell: atoms sharing
// both atomic composition and dynamic behavior, reflected in e.g. mean
// squared displacement values and the associated DynamicInfo object.
//
// AtomInfos are created by parsing factories and handed to a Builder. They
// must not be modified after that hand-off.
type AtomInfo struct {
	atom      IndexedAtom
	positions []gocrystal.Vec

	msd    float64
	hasMSD bool

	debyeTemp    gocrystal.DebyeTemperature
	hasDebyeTemp bool

	// Index of the corresponding DynamicInfo in the owning Info's list, set
	// at finalize time. -1 when there is no match.
	dynIdx int
}

// AtomInfoOption configures optional fields of an AtomInfo at construction.
type AtomInfoOption func(*AtomInfo)

// WithMSD attaches a mean-squared-displacement value in angstrom^2. This is
// the displacement projected onto a linear axis, for direct use in isotropic
// Debye-Waller factors.
//
// Across one Info, either every AtomInfo carries an MSD or none does. That
// is a convention factories must uphold at population time; it is not
// re-checked here.
func WithMSD(msd float64) AtomInfoOption {
	return func(ai *AtomInfo) { ai.msd, ai.hasMSD = msd, true }
}

// WithDebyeTemperature attaches a per-atom Debye temperature. The same
// all-or-none convention as WithMSD applies.
func WithDebyeTemperature(dt gocrystal.DebyeTemperature) AtomInfoOption {
	return func(ai *AtomInfo) { ai.debyeTemp, ai.hasDebyeTemp = dt, true }
}

// NewAtomInfo creates an AtomInfo for the given atom at the given unit-cell
// positions. Panics if positions is empty: an AtomInfo always carries at
// least one position.
func NewAtomInfo(atom IndexedAtom, positions []gocrystal.Vec, opts ...AtomInfoOption) *AtomInfo {
	if len(positions) == 0 {
		panic("material: AtomInfo requires at least one unit-cell position.")
	}

	ai := &AtomInfo{atom: atom, positions: positions, dynIdx: -1}
	for _, opt := range opts {
		opt(ai)
	}
	return ai
}

// Atom returns the indexed atomic composition of this entry.
func (ai *AtomInfo) Atom() IndexedAtom { return ai.atom }

// Positions returns the unit-cell positions of this atom. The returned slice
// must not be modified.
func (ai *AtomInfo) Positions() []gocrystal.Vec { return ai.positions }

// NumberPerUnitCell returns the number of such atoms per unit cell.
func (ai *AtomInfo) NumberPerUnitCell() int { return len(ai.positions) }

// MSD returns the mean-squared displacement in angstrom^2, if available.
func (ai *AtomInfo) MSD() (float64, bool) { return ai.msd, ai.hasMSD }

// DebyeTemperature returns the per-atom Debye temperature, if available.
func (ai *AtomInfo) DebyeTemperature() (gocrystal.DebyeTemperature, bool) {
	return ai.debyeTemp, ai.hasDebyeTemp
}
