// Package mol provides the molecular graph container used throughout molline.
//
// # Overview
//
// A [Molecule] is an arena: atoms and bonds live in slices and refer to each
// other by integer index. Each atom keeps its incident bonds in insertion
// order, which is the "native" neighbor order used when a molecule is written
// without canonicalization.
//
//	m := mol.New()
//	c := m.AddAtom(mol.Atom{Number: mol.Carbon, ImplicitH: 3})
//	o := m.AddAtom(mol.Atom{Number: mol.Oxygen, ImplicitH: 1})
//	m.AddBond(mol.Bond{Begin: c, End: o, Order: mol.Single})
//
// # Perception
//
// The package carries just enough chemistry for the writer and the reader:
//
//   - [Molecule.PerceiveRings] marks ring atoms and bonds (non-bridges)
//   - [Molecule.SmallestRingContaining] sizes the smallest cycle through a bond
//   - [Molecule.Kekulize] assigns alternating orders to aromatic bonds
//   - [DefaultHydrogens] applies the organic-subset valence model
//
// # Stereo descriptors
//
// Stereochemistry is stored as precomputed descriptors rather than
// coordinates. [AtomStereo] lists the neighbors of a tetrahedral center in a
// reference order together with a handedness bit; [BondStereo] names one
// reference neighbor on each side of a double bond and whether they are cis
// or trans. The writer translates these into symbols that match whatever
// order it happens to write atoms in.
//
// # Concurrency
//
// A Molecule may be read from many goroutines at once but must not be
// mutated concurrently.
package mol
