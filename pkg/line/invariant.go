package line

import (
	"cmp"

	"github.com/matzehuels/molline/pkg/mol"
)

// AtomInvariant is the labeling-independent description of an atom that
// seeds rank refinement. Fields are compared in declaration order; heavy
// degree leads so that chain ends rank lowest and start the traversal.
type AtomInvariant struct {
	HeavyDegree int
	Number      int
	Isotope     int
	Charge      int
	Aromatic    bool
	Hydrogens   int
	InRing      bool
	Class       int // zero unless atom classes are written
}

// BondInvariant is the labeling-independent description of a bond.
type BondInvariant struct {
	Order    mol.BondOrder
	Aromatic bool
	InRing   bool
}

// Weight folds the bond invariant into a single refinement key. Aromatic
// bonds get their own weight regardless of any Kekulé order they carry.
func (b BondInvariant) Weight() int {
	if b.Aromatic {
		return 5
	}
	return int(b.Order)
}

func boolKey(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Compare orders invariants lexicographically.
func (a AtomInvariant) Compare(b AtomInvariant) int {
	return cmp.Or(
		cmp.Compare(a.HeavyDegree, b.HeavyDegree),
		cmp.Compare(a.Number, b.Number),
		cmp.Compare(a.Isotope, b.Isotope),
		cmp.Compare(a.Charge, b.Charge),
		cmp.Compare(boolKey(a.Aromatic), boolKey(b.Aromatic)),
		cmp.Compare(a.Hydrogens, b.Hydrogens),
		cmp.Compare(boolKey(a.InRing), boolKey(b.InRing)),
		cmp.Compare(a.Class, b.Class),
	)
}

// AtomInvariants extracts the invariant of every atom. Hydrogens counts
// implicit hydrogens plus explicit hydrogen neighbors. Atom classes take
// part only when withClass is set.
func AtomInvariants(g Graph, withClass bool) []AtomInvariant {
	out := make([]AtomInvariant, g.AtomCount())
	for i := range out {
		a := g.Atom(i)
		inv := AtomInvariant{
			Number:    a.Number,
			Isotope:   a.Isotope,
			Charge:    a.Charge,
			Aromatic:  a.Aromatic,
			Hydrogens: a.ImplicitH,
			InRing:    a.InRing,
		}
		if withClass {
			inv.Class = a.Class
		}
		for _, b := range g.AtomBonds(i) {
			if g.Atom(g.Bond(b).Other(i)).Number == mol.Hydrogen {
				inv.Hydrogens++
			} else {
				inv.HeavyDegree++
			}
		}
		out[i] = inv
	}
	return out
}

// BondInvariantOf extracts the invariant of bond i.
func BondInvariantOf(g Graph, i int) BondInvariant {
	b := g.Bond(i)
	return BondInvariant{Order: b.Order, Aromatic: b.Aromatic, InRing: b.InRing}
}
