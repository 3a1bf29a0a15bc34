package mol

// PerceiveRings sets InRing on every bond that lies on a cycle and on every
// atom incident to such a bond. A bond is a ring bond exactly when it is not
// a bridge, so a single lowpoint DFS over each component is enough.
func (m *Molecule) PerceiveRings() {
	n := len(m.atoms)
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	bridge := make([]bool, len(m.bonds))

	type frame struct {
		atom, via, next int
	}
	time := 0
	for root := range m.atoms {
		if disc[root] >= 0 {
			continue
		}
		disc[root], low[root] = time, time
		time++
		stack := []frame{{atom: root, via: -1}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(m.adj[top.atom]) {
				b := m.adj[top.atom][top.next]
				top.next++
				if b == top.via {
					continue
				}
				nb := m.bonds[b].Other(top.atom)
				if disc[nb] < 0 {
					disc[nb], low[nb] = time, time
					time++
					stack = append(stack, frame{atom: nb, via: b})
				} else if disc[nb] < low[top.atom] {
					low[top.atom] = disc[nb]
				}
				continue
			}
			done := *top
			stack = stack[:len(stack)-1]
			if done.via < 0 {
				continue
			}
			parent := stack[len(stack)-1].atom
			if low[done.atom] < low[parent] {
				low[parent] = low[done.atom]
			}
			if low[done.atom] > disc[parent] {
				bridge[done.via] = true
			}
		}
	}

	for i := range m.atoms {
		m.atoms[i].InRing = false
	}
	for i := range m.bonds {
		b := &m.bonds[i]
		b.InRing = !bridge[i]
		if b.InRing {
			m.atoms[b.Begin].InRing = true
			m.atoms[b.End].InRing = true
		}
	}
}

// SmallestRingContaining returns the number of atoms in the smallest cycle
// through bond, or 0 when the bond is acyclic. It runs a breadth-first
// search from one endpoint to the other with the bond itself removed.
func (m *Molecule) SmallestRingContaining(bond int) int {
	b := m.bonds[bond]
	dist := make([]int, len(m.atoms))
	for i := range dist {
		dist[i] = -1
	}
	dist[b.Begin] = 0
	queue := []int{b.Begin}
	for head := 0; head < len(queue); head++ {
		at := queue[head]
		for _, e := range m.adj[at] {
			if e == bond {
				continue
			}
			nb := m.bonds[e].Other(at)
			if dist[nb] >= 0 {
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
