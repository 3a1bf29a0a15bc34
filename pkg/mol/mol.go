package mol

import (
	"errors"
	"slices"

	"github.com/matzehuels/molline/pkg/perm"
)

var (
	// ErrAtomIndex is returned by [Molecule.AddBond] and [Molecule.Validate]
	// when a bond references an atom that does not exist.
	ErrAtomIndex = errors.New("atom index out of range")

	// ErrSelfBond is returned by [Molecule.AddBond] when both endpoints are
	// the same atom.
	ErrSelfBond = errors.New("bond joins an atom to itself")

	// ErrDuplicateBond is returned by [Molecule.AddBond] when the two atoms
	// are already bonded. Multiple bonds are expressed through Order.
	ErrDuplicateBond = errors.New("atoms are already bonded")

	// ErrBondOrder is returned by [Molecule.Validate] for orders outside 1..4.
	ErrBondOrder = errors.New("invalid bond order")

	// ErrElement is returned by [Molecule.Validate] for an unknown atomic number.
	ErrElement = errors.New("unknown element")

	// ErrHydrogenCount is returned by [Molecule.Validate] when an atom
	// carries a negative implicit hydrogen count.
	ErrHydrogenCount = errors.New("negative hydrogen count")

	// ErrStereoDescriptor is returned by [Molecule.Validate] when a stereo
	// descriptor is malformed: wrong size, repeated neighbors, or a double
	// bond descriptor attached to a bond that is not double.
	ErrStereoDescriptor = errors.New("malformed stereo descriptor")
)

// Sentinels that may appear in [AtomStereo.Neighbors] in place of an atom.
const (
	ImplicitH = -1 // the atom's single implicit hydrogen
	LonePair  = -2 // a lone pair, for three-connected centers such as sulfoxides
)

// BondOrder is the formal multiplicity of a bond. For aromatic bonds it holds
// the Kekulé order once [Molecule.Kekulize] has run.
type BondOrder int

const (
	Single    BondOrder = 1
	Double    BondOrder = 2
	Triple    BondOrder = 3
	Quadruple BondOrder = 4
)

// Chirality is the handedness bit of a tetrahedral descriptor.
type Chirality int

const (
	// Anticlockwise: looking from the first neighbor, the remaining neighbors
	// appear anticlockwise in the listed order ("@").
	Anticlockwise Chirality = iota
	// Clockwise is the opposite arrangement ("@@").
	Clockwise
)

// Flip returns the opposite handedness.
func (c Chirality) Flip() Chirality {
	if c == Clockwise {
		return Anticlockwise
	}
	return Clockwise
}

// AtomStereo describes a tetrahedral center by a reference neighbor order and
// a handedness bit. Neighbors holds exactly four entries: atom indices, or
// [ImplicitH] / [LonePair] for the position without an explicit atom.
type AtomStereo struct {
	Neighbors []int     `json:"neighbors"`
	Chirality Chirality `json:"chirality"`
}

// Configuration is the arrangement of two reference neighbors across a
// double bond.
type Configuration int

const (
	Cis Configuration = iota
	Trans
)

func (c Configuration) String() string {
	if c == Trans {
		return "trans"
	}
	return "cis"
}

// BondStereo describes a stereogenic double bond. Ref[0] is a neighbor of the
// bond's Begin atom and Ref[1] a neighbor of its End atom.
type BondStereo struct {
	Ref    [2]int        `json:"ref"`
	Config Configuration `json:"config"`
}

// Atom is a vertex of the molecular graph.
//
// ImplicitH counts hydrogens that are not stored as atoms. Hydrogens stored
// as explicit atoms are ordinary neighbors.
type Atom struct {
	Number    int  // atomic number, 0 for the "*" wildcard
	Isotope   int  // mass number, 0 when unspecified
	Charge    int  // formal charge
	Aromatic  bool // member of an aromatic system
	ImplicitH int  // implicit hydrogen count
	Class     int  // atom-map class, 0 when unset
	InRing    bool // set by PerceiveRings

	Stereo *AtomStereo
}

// Symbol returns the element symbol of the atom.
func (a *Atom) Symbol() string { return Symbol(a.Number) }

// Bond is an undirected edge between two atoms. Begin and End are kept in
// insertion order because double-bond descriptors refer to them.
type Bond struct {
	Begin    int
	End      int
	Order    BondOrder
	Aromatic bool
	InRing   bool // set by PerceiveRings

	Stereo *BondStereo
}

// Other returns the endpoint of the bond opposite to atom.
func (b *Bond) Other(atom int) int {
	if b.Begin == atom {
		return b.End
	}
	return b.Begin
}

// Has reports whether atom is one of the bond's endpoints.
func (b *Bond) Has(atom int) bool { return b.Begin == atom || b.End == atom }

// Molecule is an arena of atoms and bonds addressed by integer index.
//
// The zero value is an empty molecule ready for use. A Molecule is not safe
// for concurrent mutation; concurrent reads are fine.
type Molecule struct {
	Name string

	atoms []Atom
	bonds []Bond
	adj   [][]int // atom -> incident bond indices, insertion order
}

// New creates an empty molecule.
func New() *Molecule { return &Molecule{} }

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.atoms = append(m.atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.atoms) - 1
}

// AddBond appends a bond and returns its index. A zero Order is treated as
// [Single].
func (m *Molecule) AddBond(b Bond) (int, error) {
	if !m.validAtom(b.Begin) || !m.validAtom(b.End) {
		return -1, ErrAtomIndex
	}
	if b.Begin == b.End {
		return -1, ErrSelfBond
	}
	if _, ok := m.BondBetween(b.Begin, b.End); ok {
		return -1, ErrDuplicateBond
	}
	if b.Order == 0 {
		b.Order = Single
	}
	m.bonds = append(m.bonds, b)
	idx := len(m.bonds) - 1
	m.adj[b.Begin] = append(m.adj[b.Begin], idx)
	m.adj[b.End] = append(m.adj[b.End], idx)
	return idx, nil
}

func (m *Molecule) validAtom(i int) bool { return i >= 0 && i < len(m.atoms) }

// AtomCount returns the number of atoms.
func (m *Molecule) AtomCount() int { return len(m.atoms) }

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int { return len(m.bonds) }

// Atom returns a pointer to atom i. Modifications affect the molecule.
func (m *Molecule) Atom(i int) *Atom { return &m.atoms[i] }

// Bond returns a pointer to bond i. Modifications affect the molecule.
func (m *Molecule) Bond(i int) *Bond { return &m.bonds[i] }

// AtomBonds returns the indices of the bonds incident to atom i in insertion
// order. The slice must not be modified.
func (m *Molecule) AtomBonds(i int) []int { return m.adj[i] }

// Neighbors returns the atoms bonded to atom i in bond insertion order.
func (m *Molecule) Neighbors(i int) []int {
	out := make([]int, len(m.adj[i]))
	for k, b := range m.adj[i] {
		out[k] = m.bonds[b].Other(i)
	}
	return out
}

// BondBetween returns the bond joining a and b.
func (m *Molecule) BondBetween(a, b int) (int, bool) {
	if !m.validAtom(a) || !m.validAtom(b) {
		return -1, false
	}
	for _, idx := range m.adj[a] {
		if m.bonds[idx].Other(a) == b {
			return idx, true
		}
	}
	return -1, false
}

// HeavyDegree counts the non-hydrogen neighbors of atom i.
func (m *Molecule) HeavyDegree(i int) int {
	n := 0
	for _, b := range m.adj[i] {
		if m.atoms[m.bonds[b].Other(i)].Number != 1 {
			n++
		}
	}
	return n
}

// TotalHydrogens counts implicit hydrogens plus explicit hydrogen neighbors.
func (m *Molecule) TotalHydrogens(i int) int {
	n := m.atoms[i].ImplicitH
	for _, b := range m.adj[i] {
		if m.atoms[m.bonds[b].Other(i)].Number == 1 {
			n++
		}
	}
	return n
}

// Validate checks referential integrity of bonds and stereo descriptors.
func (m *Molecule) Validate() error {
	for i := range m.atoms {
		a := &m.atoms[i]
		if a.Number < 0 || a.Number > MaxAtomicNumber {
			return ErrElement
		}
		if a.ImplicitH < 0 {
			return ErrHydrogenCount
		}
		if a.Stereo != nil {
			if err := m.validateAtomStereo(i, a.Stereo); err != nil {
				return err
			}
		}
	}
	for i := range m.bonds {
		b := &m.bonds[i]
		if !m.validAtom(b.Begin) || !m.validAtom(b.End) {
			return ErrAtomIndex
		}
		if b.Order < Single || b.Order > Quadruple {
			return ErrBondOrder
		}
		if b.Stereo != nil {
			if b.Order != Double || b.Aromatic {
				return ErrStereoDescriptor
			}
			if !m.validAtom(b.Stereo.Ref[0]) || !m.validAtom(b.Stereo.Ref[1]) {
				return ErrAtomIndex
			}
		}
	}
	return nil
}

func (m *Molecule) validateAtomStereo(i int, s *AtomStereo) error {
	if len(s.Neighbors) != 4 {
		return ErrStereoDescriptor
	}
	seen := make(map[int]bool, len(s.Neighbors))
	sentinels := 0
	for _, n := range s.Neighbors {
		if seen[n] || n == i {
			return ErrStereoDescriptor
		}
		seen[n] = true
		switch {
		case n == ImplicitH || n == LonePair:
			sentinels++
		case !m.validAtom(n):
			return ErrAtomIndex
		}
	}
	if sentinels > 1 {
		return ErrStereoDescriptor
	}
	return nil
}

// Clone returns a deep copy of the molecule.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		Name:  m.Name,
		atoms: slices.Clone(m.atoms),
		bonds: slices.Clone(m.bonds),
		adj:   make([][]int, len(m.adj)),
	}
	for i := range c.atoms {
		if s := c.atoms[i].Stereo; s != nil {
			c.atoms[i].Stereo = &AtomStereo{Neighbors: slices.Clone(s.Neighbors), Chirality: s.Chirality}
		}
		c.adj[i] = slices.Clone(m.adj[i])
	}
	for i := range c.bonds {
		if s := c.bonds[i].Stereo; s != nil {
			cp := *s
			c.bonds[i].Stereo = &cp
		}
	}
	return c
}

// Renumber returns a copy of the molecule in which old atom i becomes atom
// atomPerm[i] and old bond j becomes bond bondPerm[j]. A nil bondPerm keeps
// bond order. Stereo descriptors are rewritten to the new indices, so the
// result describes the same structure.
func (m *Molecule) Renumber(atomPerm, bondPerm []int) (*Molecule, error) {
	if !isPermutation(atomPerm, len(m.atoms)) {
		return nil, ErrAtomIndex
	}
	if bondPerm == nil {
		bondPerm = make([]int, len(m.bonds))
		for i := range bondPerm {
			bondPerm[i] = i
		}
	}
	if !isPermutation(bondPerm, len(m.bonds)) {
		return nil, ErrAtomIndex
	}
	mapAtom := func(i int) int {
		if i < 0 {
			return i
		}
		return atomPerm[i]
	}

	out := &Molecule{Name: m.Name}
	out.atoms = make([]Atom, len(m.atoms))
	out.adj = make([][]int, len(m.atoms))
	for i, a := range m.atoms {
		if a.Stereo != nil {
			ns := make([]int, len(a.Stereo.Neighbors))
			for k, n := range a.Stereo.Neighbors {
				ns[k] = mapAtom(n)
			}
			a.Stereo = &AtomStereo{Neighbors: ns, Chirality: a.Stereo.Chirality}
		}
		out.atoms[atomPerm[i]] = a
	}
	for _, old := range perm.Inverse(bondPerm) {
		b := m.bonds[old]
		b.Begin, b.End = atomPerm[b.Begin], atomPerm[b.End]
		if b.Stereo != nil {
			s := *b.Stereo
			s.Ref = [2]int{atomPerm[s.Ref[0]], atomPerm[s.Ref[1]]}
			b.Stereo = &s
		}
		out.bonds = append(out.bonds, b)
		idx := len(out.bonds) - 1
		out.adj[b.Begin] = append(out.adj[b.Begin], idx)
		out.adj[b.End] = append(out.adj[b.End], idx)
	}
	return out, nil
}

func isPermutation(p []int, n int) bool {
	if len(p) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range p {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Components returns the connected components as sorted atom index lists,
// ordered by their lowest atom index.
func (m *Molecule) Components() [][]int {
	seen := make([]bool, len(m.atoms))
	var comps [][]int
	for start := range m.atoms {
		if seen[start] {
			continue
		}
		comp := []int{start}
		seen[start] = true
		for head := 0; head < len(comp); head++ {
			for _, b := range m.adj[comp[head]] {
				nb := m.bonds[b].Other(comp[head])
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
				}
			}
		}
		slices.Sort(comp)
		comps = append(comps, comp)
	}
	return comps
}
