package line

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/molline/pkg/errors"
)

// Rank is an atom's equivalence class. Lower ranks sort first.
type Rank uint32

// hydrogenRank is the class of folded implicit hydrogens. No atom ever
// receives it because ranks are dense from zero.
const hydrogenRank = Rank(math.MaxUint32)

// RankOptions tunes ComputeRanks.
type RankOptions struct {
	FoldHydrogens bool
	BreakTies     bool
	AtomClasses   bool
}

type neighborKey struct {
	rank   Rank
	weight int
}

func compareNeighborKeys(a, b []neighborKey) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := cmp.Or(cmp.Compare(a[i].rank, b[i].rank), cmp.Compare(a[i].weight, b[i].weight)); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// ComputeRanks assigns every atom a canonical rank by iterative refinement.
//
// Atoms start in classes given by their sorted invariants. Each round keys
// an atom by its current rank followed by the sorted multiset of
// (neighbor rank, bond weight) pairs and re-quantizes the keys to dense
// ranks. Rounds stop once the number of classes stops growing. With
// BreakTies, the lowest-index atom of the lowest class that still holds
// several atoms is split off and refinement resumes, until all ranks are
// distinct.
//
// Splitting either of two automorphic atoms yields the same text without
// stereo, but not always with it: an automorphism that mirrors a
// stereocenter or a double bond flips its written token. Serialize therefore
// tries every tie choice (see rankings) when stereo is written.
func ComputeRanks(g Graph, opts RankOptions) ([]Rank, error) {
	out, err := rankings(g, opts, 1)
	if err != nil || len(out) == 0 {
		return nil, err
	}
	return out[0], nil
}

// rankings returns up to limit complete rankings, one per leaf of the tie
// breaking tree, depth first with lower atom indices tried first. The first
// one is what ComputeRanks returns. Members of a tied class that can be
// swapped without touching any stereo descriptor share one branch.
func rankings(g Graph, opts RankOptions, limit int) ([][]Rank, error) {
	n := g.AtomCount()
	if n == 0 {
		return nil, nil
	}
	r := &refiner{g: g, opts: opts, n: n}
	r.initial()

	classes, err := r.refine()
	if err != nil {
		return nil, err
	}
	if !opts.BreakTies {
		return [][]Rank{r.ranks}, nil
	}
	var out [][]Rank
	if err := r.search(classes, max(limit, 1), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type refiner struct {
	g     Graph
	opts  RankOptions
	n     int
	ranks []Rank
	keys  [][]neighborKey
}

func (r *refiner) initial() {
	inv := AtomInvariants(r.g, r.opts.AtomClasses)
	order := make([]int, r.n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int { return inv[a].Compare(inv[b]) })

	r.ranks = make([]Rank, r.n)
	var next Rank
	for k, atom := range order {
		if k > 0 && inv[order[k-1]].Compare(inv[atom]) != 0 {
			next++
		}
		r.ranks[atom] = next
	}
	r.keys = make([][]neighborKey, r.n)
}

// refine runs rounds until the class count stops growing. The count can
// grow at most n-1 times, so more than n+1 rounds means a broken key.
func (r *refiner) refine() (int, error) {
	classes := countClasses(r.ranks)
	for round := 0; ; round++ {
		if round > r.n+1 {
			return 0, errors.Internal("rank refinement did not converge after %d rounds", r.n+1)
		}

		for i := 0; i < r.n; i++ {
			k := r.keys[i][:0]
			for _, b := range r.g.AtomBonds(i) {
				k = append(k, neighborKey{rank: r.ranks[r.g.Bond(b).Other(i)], weight: BondInvariantOf(r.g, b).Weight()})
			}
			if r.opts.FoldHydrogens {
				for h := 0; h < r.g.Atom(i).ImplicitH; h++ {
					k = append(k, neighborKey{rank: hydrogenRank, weight: 1})
				}
			}
			slices.SortFunc(k, func(a, b neighborKey) int {
				return cmp.Or(cmp.Compare(a.rank, b.rank), cmp.Compare(a.weight, b.weight))
			})
			r.keys[i] = k
		}

		order := make([]int, r.n)
		for i := range order {
			order[i] = i
		}
		compare := func(a, b int) int {
			return cmp.Or(cmp.Compare(r.ranks[a], r.ranks[b]), compareNeighborKeys(r.keys[a], r.keys[b]))
		}
		slices.SortStableFunc(order, compare)

		next := make([]Rank, r.n)
		var cur Rank
		for k, atom := range order {
			if k > 0 && compare(order[k-1], atom) != 0 {
				cur++
			}
			next[atom] = cur
		}
		r.ranks = next
		count := int(cur) + 1
		if count <= classes {
			return count, nil
		}
		classes = count
	}
}

func (r *refiner) search(classes, limit int, out *[][]Rank) error {
	if classes == r.n {
		*out = append(*out, slices.Clone(r.ranks))
		return nil
	}
	tie := r.lowestTie()
	saved := slices.Clone(r.ranks)
	for _, atom := range r.candidates(tie) {
		if len(*out) >= limit {
			return nil
		}
		r.ranks = slices.Clone(saved)
		r.split(tie, atom)
		next, err := r.refine()
		if err != nil {
			return err
		}
		if err := r.search(next, limit, out); err != nil {
			return err
		}
	}
	return nil
}

// lowestTie returns the lowest rank shared by more than one atom.
func (r *refiner) lowestTie() Rank {
	size := make(map[Rank]int, r.n)
	for _, rk := range r.ranks {
		size[rk]++
	}
	tie := Rank(math.MaxUint32)
	for rk, c := range size {
		if c > 1 && rk < tie {
			tie = rk
		}
	}
	return tie
}

// candidates lists the members of class tie worth splitting off, in index
// order.
func (r *refiner) candidates(tie Rank) []int {
	var out []int
	for i, rk := range r.ranks {
		if rk != tie {
			continue
		}
		if !slices.ContainsFunc(out, func(u int) bool { return interchangeable(r.g, u, i) }) {
			out = append(out, i)
		}
	}
	return out
}

// split gives chosen a class of its own, placed just before the rest of its
// former class tie.
func (r *refiner) split(tie Rank, chosen int) {
	for i, rk := range r.ranks {
		if i != chosen && rk >= tie {
			r.ranks[i] = rk + 1
		}
	}
}

type adjacent struct {
	atom int
	bond BondInvariant
}

func adjacency(g Graph, a int) []adjacent {
	var out []adjacent
	for _, b := range g.AtomBonds(a) {
		out = append(out, adjacent{atom: g.Bond(b).Other(a), bond: BondInvariantOf(g, b)})
	}
	slices.SortFunc(out, func(x, y adjacent) int {
		return cmp.Or(cmp.Compare(x.atom, y.atom), cmp.Compare(x.bond.Order, y.bond.Order), cmp.Compare(boolKey(x.bond.Aromatic), boolKey(y.bond.Aromatic)))
	})
	return out
}

// interchangeable reports whether swapping u and v is an automorphism that
// leaves every stereo descriptor as it is: same neighbors over the same
// bonds, and no descriptor on them or on any neighbor.
func interchangeable(g Graph, u, v int) bool {
	if !stereoFree(g, u) || !stereoFree(g, v) {
		return false
	}
	nu := adjacency(g, u)
	if !slices.Equal(nu, adjacency(g, v)) {
		return false
	}
	for _, a := range nu {
		if !stereoFree(g, a.atom) {
			return false
		}
	}
	return true
}

func stereoFree(g Graph, a int) bool {
	if g.Atom(a).Stereo != nil {
		return false
	}
	for _, b := range g.AtomBonds(a) {
		if g.Bond(b).Stereo != nil {
			return false
		}
	}
	return true
}

func countClasses(ranks []Rank) int {
	seen := make(map[Rank]struct{}, len(ranks))
	for _, rk := range ranks {
		seen[rk] = struct{}{}
	}
	return len(seen)
}
