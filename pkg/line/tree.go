package line

import (
	"cmp"
	"slices"

	"github.com/matzehuels/molline/pkg/errors"
)

// TraversalPolicy selects how BuildForest walks the graph.
type TraversalPolicy struct {
	// Canonical orders neighbors and roots by rank. Otherwise bond order
	// and atom order of the graph are used.
	Canonical bool
	// RingsFirst visits ring bonds before chain bonds at each atom.
	RingsFirst bool
	// Root pins the first atom of its component, or -1. Ignored when
	// Canonical is set.
	Root int
	// Numbering is the ring-closure number policy.
	Numbering RingNumbering
}

// TreeNode is one written atom.
type TreeNode struct {
	Atom     int   // atom index in the graph
	Parent   int   // tree edge leading here, -1 for roots
	Children []int // tree edges to children, in written order
	Rings    []int // ring-closure edges, in written order
	Order    int   // pre-order position within the forest
}

// TreeEdge is a written bond: either a tree edge or a ring closure.
type TreeEdge struct {
	Bond   int  // bond index in the graph
	From   int  // node written first: parent, or ring opener
	To     int  // node written second: child, or ring closer
	Ring   bool // ring closure
	Number int  // ring-closure number, 0 for tree edges

	// Direction is '/' or '\' when the bond carries a double-bond marker.
	Direction byte
}

// Forest is the spanning forest of a molecule plus its ring closures.
// Nodes are stored in pre-order, so Nodes[i].Order == i.
type Forest struct {
	Nodes []TreeNode
	Edges []TreeEdge
	Roots []int // root node per component, in output order

	nodeOf []int
	edgeOf []int
}

// NodeOf returns the node that writes atom a.
func (f *Forest) NodeOf(a int) int { return f.nodeOf[a] }

// EdgeOf returns the edge that writes bond b.
func (f *Forest) EdgeOf(b int) int { return f.edgeOf[b] }

// Atom returns the atom written by node n.
func (f *Forest) Atom(n int) int { return f.Nodes[n].Atom }

// RingClosures counts ring-closure edges.
func (f *Forest) RingClosures() int {
	n := 0
	for _, e := range f.Edges {
		if e.Ring {
			n++
		}
	}
	return n
}

// BuildForest walks every component depth-first and classifies each bond as
// a tree edge or a ring closure. ranks may be nil when policy.Canonical is
// false.
func BuildForest(g Graph, ranks []Rank, policy TraversalPolicy) (*Forest, error) {
	n := g.AtomCount()
	if policy.Canonical && len(ranks) != n {
		return nil, errors.Internal("have %d ranks for %d atoms", len(ranks), n)
	}
	if !policy.Canonical && policy.Root >= n {
		return nil, errors.New(errors.ErrCodeInvalidOption, "root atom %d out of range (%d atoms)", policy.Root, n)
	}

	b := &forestBuilder{g: g, ranks: ranks, policy: policy}
	b.f = &Forest{
		nodeOf: filled(n, -1),
		edgeOf: filled(g.BondCount(), -1),
	}
	for _, root := range b.roots() {
		b.walk(root)
	}
	if err := b.numberRings(); err != nil {
		return nil, err
	}
	return b.f, nil
}

func filled(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

type forestBuilder struct {
	g      Graph
	ranks  []Rank
	policy TraversalPolicy
	f      *Forest
}

// roots picks one start atom per component, in output order.
func (b *forestBuilder) roots() []int {
	n := b.g.AtomCount()
	comp := filled(n, -1)
	var roots []int
	for start := 0; start < n; start++ {
		if comp[start] >= 0 {
			continue
		}
		id := len(roots)
		best := start
		queue := []int{start}
		comp[start] = id
		for head := 0; head < len(queue); head++ {
			at := queue[head]
			if b.betterRoot(at, best) {
				best = at
			}
			for _, e := range b.g.AtomBonds(at) {
				nb := b.g.Bond(e).Other(at)
				if comp[nb] < 0 {
					comp[nb] = id
					queue = append(queue, nb)
				}
			}
		}
		roots = append(roots, best)
	}
	if b.policy.Canonical {
		slices.SortStableFunc(roots, func(x, y int) int { return cmp.Compare(b.ranks[x], b.ranks[y]) })
	}
	return roots
}

func (b *forestBuilder) betterRoot(cand, best int) bool {
	if b.policy.Canonical {
		return b.ranks[cand] < b.ranks[best] || (b.ranks[cand] == b.ranks[best] && cand < best)
	}
	if b.policy.Root >= 0 {
		if cand == b.policy.Root {
			return true
		}
		if best == b.policy.Root {
			return false
		}
	}
	return cand < best
}

// neighborBonds returns the bonds of atom in visiting order.
func (b *forestBuilder) neighborBonds(atom int) []int {
	bonds := slices.Clone(b.g.AtomBonds(atom))
	if !b.policy.Canonical {
		slices.Sort(bonds)
		return bonds
	}
	group := func(e int) int {
		if b.g.Bond(e).InRing == b.policy.RingsFirst {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(bonds, func(x, y int) int {
		return cmp.Or(
			cmp.Compare(group(x), group(y)),
			cmp.Compare(b.ranks[b.g.Bond(x).Other(atom)], b.ranks[b.g.Bond(y).Other(atom)]),
			cmp.Compare(x, y),
		)
	})
	return bonds
}

func (b *forestBuilder) addNode(atom, parent int) int {
	id := len(b.f.Nodes)
	b.f.Nodes = append(b.f.Nodes, TreeNode{Atom: atom, Parent: parent, Order: id})
	b.f.nodeOf[atom] = id
	return id
}

func (b *forestBuilder) addEdge(e TreeEdge) int {
	id := len(b.f.Edges)
	b.f.Edges = append(b.f.Edges, e)
	b.f.edgeOf[e.Bond] = id
	return id
}

// walk runs an iterative depth-first search from root. Each frame holds a
// node and the position of the next neighbor bond to look at.
func (b *forestBuilder) walk(root int) {
	type frame struct {
		node  int
		bonds []int
		next  int
	}
	rootNode := b.addNode(root, -1)
	b.f.Roots = append(b.f.Roots, rootNode)
	stack := []frame{{node: rootNode, bonds: b.neighborBonds(root)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.bonds) {
			stack = stack[:len(stack)-1]
			continue
		}
		bond := top.bonds[top.next]
		top.next++
		if b.f.edgeOf[bond] >= 0 {
			continue
		}
		node := top.node
		other := b.g.Bond(bond).Other(b.f.Nodes[node].Atom)
		if visited := b.f.nodeOf[other]; visited >= 0 {
			// A visited atom reached through an unused bond is an ancestor.
			b.addEdge(TreeEdge{Bond: bond, From: visited, To: node, Ring: true})
			continue
		}
		edge := len(b.f.Edges)
		child := b.addNode(other, edge)
		b.addEdge(TreeEdge{Bond: bond, From: node, To: child})
		b.f.Nodes[node].Children = append(b.f.Nodes[node].Children, edge)
		stack = append(stack, frame{node: child, bonds: b.neighborBonds(other)})
	}
}

// numberRings walks nodes in written order and fixes the order and numbers
// of ring-closure digits. At each atom closures are written before openings;
// openings take their numbers before the closures' numbers are released, so
// a number is never closed and reopened on the same atom.
func (b *forestBuilder) numberRings() error {
	f := b.f
	closing := make([][]int, len(f.Nodes))
	opening := make([][]int, len(f.Nodes))
	for i, e := range f.Edges {
		if e.Ring {
			opening[e.From] = append(opening[e.From], i)
			closing[e.To] = append(closing[e.To], i)
		}
	}
	pool := NewRingNumbers(b.policy.Numbering)
	for node := range f.Nodes {
		cl, op := closing[node], opening[node]
		slices.SortFunc(cl, func(x, y int) int { return cmp.Compare(f.Edges[x].From, f.Edges[y].From) })
		slices.SortFunc(op, func(x, y int) int { return cmp.Compare(f.Edges[x].To, f.Edges[y].To) })
		for _, e := range op {
			f.Edges[e].Number = pool.Acquire()
		}
		for _, e := range cl {
			if err := pool.Release(f.Edges[e].Number); err != nil {
				return err
			}
		}
		f.Nodes[node].Rings = append(append([]int(nil), cl...), op...)
	}
	if pool.Open() != 0 {
		return errors.Internal("%d ring numbers left open after traversal", pool.Open())
	}
	return nil
}
