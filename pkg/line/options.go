package line

import (
	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

// RingNumbering selects how ring-closure numbers are handed out.
type RingNumbering string

const (
	// RingReuse issues the smallest number not currently open.
	RingReuse RingNumbering = "reuse"
	// RingMonotonic never issues a number twice within one call.
	RingMonotonic RingNumbering = "monotonic"
)

// Default values used by DefaultOptions and SetDefaults.
const (
	DefaultMinRingStereoSize  = 8
	DefaultComponentSeparator = "."
	DefaultRecordSeparator    = "\n"
)

// Options controls the output dialect. Every field is plain data so option
// sets can be loaded from TOML, YAML or JSON.
type Options struct {
	// Canonical selects rank-driven traversal. When false, atoms are visited
	// in the graph's own order and the output reflects the input layout.
	Canonical bool `toml:"canonical" yaml:"canonical" json:"canonical"`

	// ExplicitHydrogens writes every atom in brackets with its hydrogen count.
	ExplicitHydrogens bool `toml:"explicit_hydrogens" yaml:"explicit_hydrogens" json:"explicit_hydrogens"`
	// OrganicSubset allows bracket-free atoms for elements in the organic set.
	OrganicSubset bool `toml:"organic_subset" yaml:"organic_subset" json:"organic_subset"`
	// OrganicElements narrows the organic set. Empty means the full set
	// (B C N O P S F Cl Br I).
	OrganicElements []string `toml:"organic_elements" yaml:"organic_elements" json:"organic_elements,omitempty"`

	ExplicitSingleBonds   bool `toml:"explicit_single_bonds" yaml:"explicit_single_bonds" json:"explicit_single_bonds"`
	ExplicitAromaticBonds bool `toml:"explicit_aromatic_bonds" yaml:"explicit_aromatic_bonds" json:"explicit_aromatic_bonds"`
	// Kekule writes aromatic systems with alternating single and double
	// bonds taken from Bond.Order, and aromatic atoms in upper case.
	Kekule bool `toml:"kekule" yaml:"kekule" json:"kekule"`

	Isotopes    bool `toml:"isotopes" yaml:"isotopes" json:"isotopes"`
	Charges     bool `toml:"charges" yaml:"charges" json:"charges"`
	AtomClasses bool `toml:"atom_classes" yaml:"atom_classes" json:"atom_classes"`
	AtomStereo  bool `toml:"atom_stereo" yaml:"atom_stereo" json:"atom_stereo"`
	BondStereo  bool `toml:"bond_stereo" yaml:"bond_stereo" json:"bond_stereo"`

	// MinRingStereoSize suppresses double-bond markers inside rings smaller
	// than this many atoms.
	MinRingStereoSize int `toml:"min_ring_stereo_size" yaml:"min_ring_stereo_size" json:"min_ring_stereo_size"`

	ComponentSeparator string `toml:"component_separator" yaml:"component_separator" json:"component_separator"`
	RecordSeparator    string `toml:"record_separator" yaml:"record_separator" json:"record_separator"`

	// Strict turns malformed stereo descriptors into INVALID_STEREO errors.
	// Otherwise the descriptor is dropped and a warning is reported.
	Strict bool `toml:"strict" yaml:"strict" json:"strict"`

	// RingsFirst visits ring bonds before chain bonds at each atom.
	RingsFirst bool `toml:"rings_first" yaml:"rings_first" json:"rings_first"`
	// FoldHydrogens lets implicit hydrogens take part in rank refinement as
	// leaf neighbors.
	FoldHydrogens bool `toml:"fold_hydrogens" yaml:"fold_hydrogens" json:"fold_hydrogens"`
	// BreakTies splits remaining symmetry classes so that every atom gets a
	// distinct rank.
	BreakTies bool `toml:"break_ties" yaml:"break_ties" json:"break_ties"`

	RingNumbering RingNumbering `toml:"ring_numbering" yaml:"ring_numbering" json:"ring_numbering"`

	// Root pins the first atom of its component. Honored in native mode only.
	Root *int `toml:"root,omitempty" yaml:"root,omitempty" json:"root,omitempty"`
}

// DefaultOptions returns the canonical dialect with every annotation on.
func DefaultOptions() Options {
	return Options{
		Canonical:          true,
		OrganicSubset:      true,
		Isotopes:           true,
		Charges:            true,
		AtomClasses:        true,
		AtomStereo:         true,
		BondStereo:         true,
		MinRingStereoSize:  DefaultMinRingStereoSize,
		ComponentSeparator: DefaultComponentSeparator,
		RecordSeparator:    DefaultRecordSeparator,
		BreakTies:          true,
		RingNumbering:      RingReuse,
	}
}

// NativeOptions returns DefaultOptions with canonical ordering turned off.
func NativeOptions() Options {
	o := DefaultOptions()
	o.Canonical = false
	return o
}

// SetDefaults fills empty separators and ring numbering policy.
func (o *Options) SetDefaults() {
	if o.ComponentSeparator == "" {
		o.ComponentSeparator = DefaultComponentSeparator
	}
	if o.RecordSeparator == "" {
		o.RecordSeparator = DefaultRecordSeparator
	}
	if o.RingNumbering == "" {
		o.RingNumbering = RingReuse
	}
}

// Record terminates text with the record separator.
func (o Options) Record(text string) string {
	if o.RecordSeparator == "" {
		return text + DefaultRecordSeparator
	}
	return text + o.RecordSeparator
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.MinRingStereoSize < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "min_ring_stereo_size must be >= 0, got %d", o.MinRingStereoSize)
	}
	switch o.RingNumbering {
	case "", RingReuse, RingMonotonic:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "unknown ring numbering %q (want %q or %q)", o.RingNumbering, RingReuse, RingMonotonic)
	}
	for _, sym := range o.OrganicElements {
		n, ok := mol.Number(sym)
		if !ok || !mol.IsOrganic(n) {
			return errors.New(errors.ErrCodeInvalidOption, "%q is not an organic-subset element", sym)
		}
	}
	if o.Root != nil && *o.Root < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "root must be >= 0, got %d", *o.Root)
	}
	return nil
}

func (o Options) rankOptions() RankOptions {
	return RankOptions{
		FoldHydrogens: o.FoldHydrogens,
		BreakTies:     o.BreakTies,
		AtomClasses:   o.AtomClasses,
	}
}

func (o Options) traversalPolicy() TraversalPolicy {
	p := TraversalPolicy{
		Canonical:  o.Canonical,
		RingsFirst: o.RingsFirst,
		Root:       -1,
		Numbering:  o.RingNumbering,
	}
	if o.Root != nil {
		p.Root = *o.Root
	}
	return p
}
