package line

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
	"github.com/matzehuels/molline/pkg/perm"
)

// stereoEncoder translates descriptors into chirality tokens and bond
// direction markers that hold for the forest's written order.
type stereoEncoder struct {
	g    Graph
	f    *Forest
	opts Options

	chirality map[int]mol.Chirality // node -> written handedness
	warnings  []Warning
}

func encodeStereo(g Graph, f *Forest, opts Options) (*stereoEncoder, error) {
	s := &stereoEncoder{g: g, f: f, opts: opts, chirality: make(map[int]mol.Chirality)}
	if opts.AtomStereo {
		if err := s.tetrahedral(); err != nil {
			return nil, err
		}
	}
	if opts.BondStereo {
		if err := s.doubleBonds(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// invalid reports a malformed descriptor: an error in strict mode, a warning
// otherwise.
func (s *stereoEncoder) invalid(w Warning) error {
	w.Code = errors.ErrCodeInvalidStereo
	if s.opts.Strict {
		return errors.New(errors.ErrCodeInvalidStereo, "%s", w.Message)
	}
	s.warnings = append(s.warnings, w)
	return nil
}

// ============================================================================
// Tetrahedral centers
// ============================================================================

// writtenNeighbors lists the atoms around node in the order they appear in
// the output: parent, ring-closure partners, children.
func (s *stereoEncoder) writtenNeighbors(node int) []int {
	n := &s.f.Nodes[node]
	var out []int
	if n.Parent >= 0 {
		out = append(out, s.f.Atom(s.f.Edges[n.Parent].From))
	}
	for _, e := range n.Rings {
		edge := s.f.Edges[e]
		partner := edge.From
		if partner == node {
			partner = edge.To
		}
		out = append(out, s.f.Atom(partner))
	}
	for _, e := range n.Children {
		out = append(out, s.f.Atom(s.f.Edges[e].To))
	}
	return out
}

func (s *stereoEncoder) tetrahedral() error {
	for node := range s.f.Nodes {
		atom := s.f.Atom(node)
		a := s.g.Atom(atom)
		if a.Stereo == nil {
			continue
		}
		fail := func(format string, args ...any) error {
			return s.invalid(Warning{
				Atom:    atom,
				Bond:    -1,
				Message: fmt.Sprintf("atom %d: ", atom) + fmt.Sprintf(format, args...),
			})
		}

		ref := a.Stereo.Neighbors
		if len(ref) != 4 {
			if err := fail("tetrahedral descriptor has %d neighbors, want 4", len(ref)); err != nil {
				return err
			}
			continue
		}
		sentinel := 0
		for _, nb := range ref {
			if nb < 0 {
				sentinel = nb
			}
		}
		switch {
		case sentinel == mol.ImplicitH && a.ImplicitH != 1:
			if err := fail("descriptor names an implicit hydrogen but the atom has %d", a.ImplicitH); err != nil {
				return err
			}
			continue
		case sentinel != mol.ImplicitH && a.ImplicitH != 0:
			if err := fail("implicit hydrogen missing from descriptor"); err != nil {
				return err
			}
			continue
		}

		written := s.writtenNeighbors(node)
		if sentinel != 0 {
			at := 0
			if s.f.Nodes[node].Parent >= 0 {
				at = 1
			}
			written = slices.Insert(written, at, sentinel)
		}
		r, ok := perm.Relative(ref, written)
		if !ok {
			if err := fail("descriptor neighbors %v do not match bonded neighbors %v", ref, written); err != nil {
				return err
			}
			continue
		}
		c := a.Stereo.Chirality
		if perm.Parity(r) {
			c = c.Flip()
		}
		s.chirality[node] = c
	}
	return nil
}

// ============================================================================
// Double bonds
// ============================================================================

// writtenKey orders edges by where their bond symbol appears in the text: a
// tree edge just before its child atom, a ring closure among the digits
// after its opener.
type writtenKey struct {
	node, slot int
}

func (s *stereoEncoder) keyOf(edge int) writtenKey {
	e := s.f.Edges[edge]
	if !e.Ring {
		return writtenKey{node: e.To}
	}
	return writtenKey{node: e.From, slot: 1 + slices.Index(s.f.Nodes[e.From].Rings, edge)}
}

func compareKeys(a, b writtenKey) int {
	return cmp.Or(cmp.Compare(a.node, b.node), cmp.Compare(a.slot, b.slot))
}

type stereoDouble struct {
	bond  int
	ends  [2]int // Begin, End
	refs  [2]int // reference neighbor per end
	trans bool
	key   writtenKey
}

// constraint ties a marked single bond to a double bond: up == f XOR c.
type constraint struct {
	other int // bond for double-bond lists, double index for bond lists
	c     bool
}

func (s *stereoEncoder) eligible(end, double int) []int {
	var out []int
	for _, b := range s.g.AtomBonds(end) {
		if b == double {
			continue
		}
		bd := s.g.Bond(b)
		if bd.Order == mol.Single && !bd.Aromatic {
			out = append(out, b)
		}
	}
	return out
}

func (s *stereoEncoder) isNeighbor(a, b int) bool {
	for _, e := range s.g.AtomBonds(a) {
		if s.g.Bond(e).Other(a) == b {
			return true
		}
	}
	return false
}

func (s *stereoEncoder) collectDoubles() ([]stereoDouble, error) {
	var out []stereoDouble
	for i := 0; i < s.g.BondCount(); i++ {
		b := s.g.Bond(i)
		if b.Stereo == nil {
			continue
		}
		fail := func(format string, args ...any) error {
			return s.invalid(Warning{Atom: -1, Bond: i, Message: fmt.Sprintf("bond %d: ", i) + fmt.Sprintf(format, args...)})
		}
		if b.Order != mol.Double || b.Aromatic {
			if err := fail("double-bond descriptor on a bond that is not double"); err != nil {
				return nil, err
			}
			continue
		}
		if b.InRing && s.opts.MinRingStereoSize > 0 && smallestRing(s.g, i) < s.opts.MinRingStereoSize {
			continue
		}
		refs := b.Stereo.Ref
		ok := func(r [2]int) bool {
			return r[0] != b.End && r[1] != b.Begin && s.isNeighbor(b.Begin, r[0]) && s.isNeighbor(b.End, r[1])
		}
		if !ok(refs) {
			swapped := [2]int{refs[1], refs[0]}
			if !ok(swapped) {
				if err := fail("reference atoms %v are not neighbors of the double bond", refs); err != nil {
					return nil, err
				}
				continue
			}
			refs = swapped
		}
		d := stereoDouble{
			bond:  i,
			ends:  [2]int{b.Begin, b.End},
			refs:  refs,
			trans: b.Stereo.Config == mol.Trans,
			key:   s.keyOf(s.f.EdgeOf(i)),
		}
		if len(s.eligible(b.Begin, i)) == 0 || len(s.eligible(b.End, i)) == 0 {
			s.warnings = append(s.warnings, Warning{
				Code:    errors.ErrCodeUnsatisfiableStereo,
				Atom:    -1,
				Bond:    i,
				Message: fmt.Sprintf("bond %d: no single bond available to carry a direction marker", i),
			})
			continue
		}
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b stereoDouble) int { return compareKeys(a.key, b.key) })
	return out, nil
}

// doubleBonds assigns '/' and '\' markers. Each marked single bond is a
// boolean "up" variable; every double bond adds one free variable f and a
// constraint up == f XOR c per adjacent marked bond. Double bonds sharing
// marked bonds form groups that are solved together by propagation.
func (s *stereoEncoder) doubleBonds() error {
	doubles, err := s.collectDoubles()
	if err != nil || len(doubles) == 0 {
		return err
	}

	// One marker per end: the reference bond if it can carry one, else the
	// earliest written eligible bond.
	marked := make(map[int]bool)
	for _, d := range doubles {
		for side := range 2 {
			cands := s.eligible(d.ends[side], d.bond)
			pick := -1
			for _, b := range cands {
				if s.g.Bond(b).Other(d.ends[side]) == d.refs[side] {
					pick = b
				}
			}
			if pick < 0 {
				pick = slices.MinFunc(cands, func(x, y int) int {
					return compareKeys(s.keyOf(s.f.EdgeOf(x)), s.keyOf(s.f.EdgeOf(y)))
				})
			}
			marked[pick] = true
		}
	}

	// Any marked bond next to a stereo double bond is read as a marker for
	// it, so every such bond is constrained.
	byDouble := make([][]constraint, len(doubles))
	byBond := make(map[int][]constraint)
	for di, d := range doubles {
		for side := range 2 {
			end := d.ends[side]
			for _, b := range s.eligible(end, d.bond) {
				if !marked[b] {
					continue
				}
				nb := s.g.Bond(b).Other(end)
				edge := s.f.Edges[s.f.EdgeOf(b)]
				writtenFirst := s.f.Atom(edge.From) == nb
				c := (nb != d.refs[side]) != writtenFirst
				if side == 1 && d.trans {
					c = !c
				}
				byDouble[di] = append(byDouble[di], constraint{other: b, c: c})
				byBond[b] = append(byBond[b], constraint{other: di, c: c})
			}
		}
	}

	fval := make([]int8, len(doubles)) // 0 unset, 1 false, 2 true
	up := make(map[int]bool)
	for start := range doubles {
		if fval[start] != 0 {
			continue
		}
		var members, bonds []int
		conflict := false
		fval[start] = 1
		queue := []int{start}
		for len(queue) > 0 {
			di := queue[0]
			queue = queue[1:]
			members = append(members, di)
			f := fval[di] == 2
			for _, con := range byDouble[di] {
				want := f != con.c
				if have, set := up[con.other]; set {
					if have != want {
						conflict = true
					}
					continue
				}
				up[con.other] = want
				bonds = append(bonds, con.other)
				for _, back := range byBond[con.other] {
					fo := want != back.c
					switch fval[back.other] {
					case 0:
						fval[back.other] = boolState(fo)
						queue = append(queue, back.other)
					case boolState(!fo):
						conflict = true
					}
				}
			}
		}

		if conflict {
			for _, di := range members {
				s.warnings = append(s.warnings, Warning{
					Code:    errors.ErrCodeUnsatisfiableStereo,
					Atom:    -1,
					Bond:    doubles[di].bond,
					Message: fmt.Sprintf("bond %d: conjugated double-bond markers are contradictory, configuration dropped", doubles[di].bond),
				})
			}
			continue
		}

		first := slices.MinFunc(bonds, func(x, y int) int {
			return compareKeys(s.keyOf(s.f.EdgeOf(x)), s.keyOf(s.f.EdgeOf(y)))
		})
		flip := !up[first]
		for _, b := range bonds {
			dir := byte('/')
			if up[b] == flip {
				dir = '\\'
			}
			s.f.Edges[s.f.EdgeOf(b)].Direction = dir
		}
	}
	return nil
}

func boolState(b bool) int8 {
	if b {
		return 2
	}
	return 1
}

// smallestRing returns the atom count of the smallest cycle through bond, 0
// when there is none.
func smallestRing(g Graph, bond int) int {
	b := g.Bond(bond)
	dist := make(map[int]int, g.AtomCount())
	dist[b.Begin] = 0
	queue := []int{b.Begin}
	for head := 0; head < len(queue); head++ {
		at := queue[head]
		for _, e := range g.AtomBonds(at) {
			if e == bond {
				continue
			}
			nb := g.Bond(e).Other(at)
			if _, seen := dist[nb]; seen {
				continue
			}
			dist[nb] = dist[at] + 1
			if nb == b.End {
				return dist[nb] + 1
			}
			queue = append(queue, nb)
		}
	}
	return 0
}
