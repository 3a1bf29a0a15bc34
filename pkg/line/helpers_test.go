package line_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/mol"
	"github.com/matzehuels/molline/pkg/perm"
	"github.com/matzehuels/molline/pkg/smiles"
)

func canonical(t *testing.T, s string) string {
	t.Helper()
	return serialize(t, smiles.MustParse(s), line.DefaultOptions())
}

func serialize(t *testing.T, g line.Graph, opts line.Options) string {
	t.Helper()
	res, err := line.Serialize(g, opts)
	require.NoError(t, err)
	return res.Text
}

// ringLabels returns the ring-closure labels in the order they appear,
// skipping bracket atoms.
func ringLabels(t *testing.T, s string) []int {
	t.Helper()
	var out []int
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '[':
			for i < len(s) && s[i] != ']' {
				i++
			}
		case c >= '0' && c <= '9':
			out = append(out, int(c-'0'))
		case c == '%':
			if s[i+1] == '(' {
				j := i + 2
				for s[j] != ')' {
					j++
				}
				n, err := strconv.Atoi(s[i+2 : j])
				require.NoError(t, err)
				out = append(out, n)
				i = j
			} else {
				n, err := strconv.Atoi(s[i+1 : i+3])
				require.NoError(t, err)
				out = append(out, n)
				i += 2
			}
		}
	}
	return out
}

// requireBalancedRings checks that every label is opened and closed and
// returns the largest number of labels open at once.
func requireBalancedRings(t *testing.T, s string) int {
	t.Helper()
	open := map[int]bool{}
	peak := 0
	for _, n := range ringLabels(t, s) {
		if open[n] {
			delete(open, n)
		} else {
			open[n] = true
			peak = max(peak, len(open))
		}
	}
	require.Empty(t, open, "unclosed ring labels in %q", s)
	return peak
}

// relabelings returns a few atom permutations of n atoms, always including
// the reversal.
func relabelings(n int) [][]int {
	var out [][]int
	reverse := make([]int, n)
	for i := range reverse {
		reverse[i] = n - 1 - i
	}
	out = append(out, reverse)
	for _, p := range perm.Generate(n, 24) {
		rotated := make([]int, n)
		for i, v := range p {
			rotated[i] = (v + n/2) % n
		}
		out = append(out, p, rotated)
	}
	return out
}

// atomByClass maps atom classes to atom indices.
func atomByClass(m *mol.Molecule) map[int]int {
	out := make(map[int]int)
	for i := 0; i < m.AtomCount(); i++ {
		if c := m.Atom(i).Class; c != 0 {
			out[c] = i
		}
	}
	return out
}

// fakeGraph lets tests hand Serialize inconsistent structures that a
// mol.Molecule would refuse to build.
type fakeGraph struct {
	atoms []mol.Atom
	bonds []mol.Bond
	adj   [][]int
}

func (f *fakeGraph) AtomCount() int        { return len(f.atoms) }
func (f *fakeGraph) BondCount() int        { return len(f.bonds) }
func (f *fakeGraph) Atom(i int) *mol.Atom  { return &f.atoms[i] }
func (f *fakeGraph) Bond(i int) *mol.Bond  { return &f.bonds[i] }
func (f *fakeGraph) AtomBonds(i int) []int { return f.adj[i] }
