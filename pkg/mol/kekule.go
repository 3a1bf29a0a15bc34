package mol

import "errors"

// ErrKekulize is returned by [Molecule.Kekulize] when the aromatic system
// admits no alternating single/double assignment.
var ErrKekulize = errors.New("cannot kekulize aromatic system")

// extra valences for bracket-only aromatic elements.
var bracketValences = map[int][]int{
	Arsenic:  {3, 5},
	Selenium: {2, 4, 6},
}

// valences returns the allowed valences of an element with the given charge.
// Charged atoms take the valence of their isoelectronic neighbor: N+ like C,
// O- like F, C- like N.
func valences(number, charge int) []int {
	vals := organic[number]
	if vals == nil {
		vals = bracketValences[number]
	}
	if vals == nil || charge == 0 {
		return vals
	}
	out := make([]int, 0, len(vals))
	for _, v := range vals {
		switch number {
		case Boron, Carbon:
			v -= abs(charge)
		default:
			v += charge
		}
		if v >= 0 {
			out = append(out, v)
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// needsDouble reports whether an aromatic atom must receive exactly one
// double bond from its aromatic neighbors.
func (m *Molecule) needsDouble(i int) bool {
	a := &m.atoms[i]
	used, aromatic := a.ImplicitH, 0
	for _, b := range m.adj[i] {
		if m.bonds[b].Aromatic {
			used++
			aromatic++
		} else {
			used += int(m.bonds[b].Order)
		}
	}
	if aromatic == 0 {
		return false
	}
	for _, v := range valences(a.Number, a.Charge) {
		if v >= used {
			return v-used >= 1
		}
	}
	return false
}

// Kekulize assigns Single and Double orders to aromatic bonds so that every
// aromatic atom with a free valence gets exactly one double bond. Aromatic
// flags are left untouched; only Order changes.
//
// The assignment is a perfect matching on the atoms that need a double bond,
// found with Edmonds' blossom algorithm after a greedy start, so it runs in
// polynomial time even when no Kekulé form exists.
func (m *Molecule) Kekulize() error {
	vertex := make([]int, len(m.atoms)) // atom -> matching vertex, -1 if none
	var atoms []int
	for i := range m.atoms {
		vertex[i] = -1
		if m.atoms[i].Aromatic && m.needsDouble(i) {
			vertex[i] = len(atoms)
			atoms = append(atoms, i)
		}
	}
	for i := range m.bonds {
		if m.bonds[i].Aromatic {
			m.bonds[i].Order = Single
		}
	}
	if len(atoms) == 0 {
		return nil
	}

	g := newMatcher(len(atoms))
	for b := range m.bonds {
		bd := &m.bonds[b]
		u, v := vertex[bd.Begin], vertex[bd.End]
		if bd.Aromatic && u >= 0 && v >= 0 {
			g.addEdge(u, v, b)
		}
	}
	if !g.perfect() {
		return ErrKekulize
	}
	for v, w := range g.match {
		if v < w {
			m.bonds[g.edge(v, w)].Order = Double
		}
	}
	return nil
}

// matcher is Edmonds' blossom algorithm over a small general graph.
type matcher struct {
	adj   [][]int
	bonds [][]int // parallel to adj
	match []int
	p     []int
	base  []int
	used  []bool
	blos  []bool
	queue []int
}

func newMatcher(n int) *matcher {
	g := &matcher{
		adj:   make([][]int, n),
		bonds: make([][]int, n),
		match: make([]int, n),
		p:     make([]int, n),
		base:  make([]int, n),
		used:  make([]bool, n),
		blos:  make([]bool, n),
	}
	for i := range g.match {
		g.match[i] = -1
	}
	return g
}

func (g *matcher) addEdge(u, v, bond int) {
	g.adj[u] = append(g.adj[u], v)
	g.bonds[u] = append(g.bonds[u], bond)
	g.adj[v] = append(g.adj[v], u)
	g.bonds[v] = append(g.bonds[v], bond)
}

func (g *matcher) edge(u, v int) int {
	for k, w := range g.adj[u] {
		if w == v {
			return g.bonds[u][k]
		}
	}
	return -1
}

// perfect grows the matching greedily, then augments from every exposed
// vertex, and reports whether every vertex ended up matched.
func (g *matcher) perfect() bool {
	for v := range g.adj {
		if g.match[v] >= 0 {
			continue
		}
		for _, w := range g.adj[v] {
			if g.match[w] < 0 {
				g.match[v], g.match[w] = w, v
				break
			}
		}
	}
	for v := range g.adj {
		if g.match[v] >= 0 {
			continue
		}
		u := g.augmentingPath(v)
		if u < 0 {
			return false
		}
		for u >= 0 {
			pv := g.p[u]
			next := g.match[pv]
			g.match[u], g.match[pv] = pv, u
			u = next
		}
	}
	return true
}

// lca returns the base of the blossom closed by the edge a-b.
func (g *matcher) lca(a, b int) int {
	seen := make([]bool, len(g.adj))
	for {
		a = g.base[a]
		seen[a] = true
		if g.match[a] < 0 {
			break
		}
		a = g.p[g.match[a]]
	}
	for {
		b = g.base[b]
		if seen[b] {
			return b
		}
		b = g.p[g.match[b]]
	}
}

func (g *matcher) markPath(v, b, child int) {
	for g.base[v] != b {
		g.blos[g.base[v]] = true
		g.blos[g.base[g.match[v]]] = true
		g.p[v] = child
		child = g.match[v]
		v = g.p[g.match[v]]
	}
}

// augmentingPath searches an alternating tree rooted at root and returns
// the exposed vertex it reaches, or -1.
func (g *matcher) augmentingPath(root int) int {
	for i := range g.adj {
		g.used[i] = false
		g.p[i] = -1
		g.base[i] = i
	}
	g.used[root] = true
	g.queue = append(g.queue[:0], root)
	for head := 0; head < len(g.queue); head++ {
		v := g.queue[head]
		for _, to := range g.adj[v] {
			if g.base[v] == g.base[to] || g.match[v] == to {
				continue
			}
			if to == root || (g.match[to] >= 0 && g.p[g.match[to]] >= 0) {
				cur := g.lca(v, to)
				clear(g.blos)
				g.markPath(v, cur, to)
				g.markPath(to, cur, v)
				for i := range g.adj {
					if g.blos[g.base[i]] {
						g.base[i] = cur
						if !g.used[i] {
							g.used[i] = true
							g.queue = append(g.queue, i)
						}
					}
				}
				continue
			}
			if g.p[to] < 0 {
				g.p[to] = v
				if g.match[to] < 0 {
					return to
				}
				g.used[g.match[to]] = true
				g.queue = append(g.queue, g.match[to])
			}
		}
	}
	return -1
}
