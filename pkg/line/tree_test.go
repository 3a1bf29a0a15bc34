package line_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/smiles"
)

// requireForestShape checks the structural promises of a forest: pre-order
// node numbering, parent links that point back, every bond written once.
func requireForestShape(t *testing.T, f *line.Forest, atoms, bonds int) {
	t.Helper()
	require.Len(t, f.Nodes, atoms)
	require.Len(t, f.Edges, bonds)
	for i, n := range f.Nodes {
		assert.Equal(t, i, n.Order)
		assert.Equal(t, i, f.NodeOf(n.Atom))
		if n.Parent >= 0 {
			e := f.Edges[n.Parent]
			assert.False(t, e.Ring)
			assert.Equal(t, i, e.To)
			assert.Less(t, e.From, i)
		}
	}
	for i, e := range f.Edges {
		assert.Equal(t, i, f.EdgeOf(e.Bond))
		if e.Ring {
			assert.Less(t, e.From, e.To, "ring opener is written before its closer")
			assert.Positive(t, e.Number)
		} else {
			assert.Zero(t, e.Number)
		}
	}
}

func TestBuildForest_Benzene(t *testing.T) {
	m := smiles.MustParse("c1ccccc1")
	ranks, err := line.ComputeRanks(m, line.RankOptions{BreakTies: true})
	require.NoError(t, err)

	f, err := line.BuildForest(m, ranks, line.TraversalPolicy{Canonical: true, Root: -1})
	require.NoError(t, err)
	requireForestShape(t, f, 6, 6)

	assert.Equal(t, []int{0}, f.Roots)
	assert.Equal(t, 1, f.RingClosures())
	for i, n := range f.Nodes {
		if i < 5 {
			assert.Len(t, n.Children, 1)
		} else {
			assert.Empty(t, n.Children)
		}
	}
	var ring line.TreeEdge
	for _, e := range f.Edges {
		if e.Ring {
			ring = e
		}
	}
	assert.Equal(t, 0, ring.From)
	assert.Equal(t, 5, ring.To)
	assert.Equal(t, 1, ring.Number)
	assert.Equal(t, line.Rank(0), ranks[f.Atom(0)], "root has the lowest rank")
}

func TestBuildForest_NativeOrder(t *testing.T) {
	m := smiles.MustParse("CC(O)C.N")
	f, err := line.BuildForest(m, nil, line.TraversalPolicy{Root: -1})
	require.NoError(t, err)
	requireForestShape(t, f, 5, 3)

	atoms := make([]int, len(f.Nodes))
	for i := range f.Nodes {
		atoms[i] = f.Atom(i)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, atoms)
	assert.Equal(t, []int{0, 4}, f.Roots)
	assert.Len(t, f.Nodes[1].Children, 2)
}

func TestBuildForest_PinnedRoot(t *testing.T) {
	m := smiles.MustParse("CC(O)C.N")
	f, err := line.BuildForest(m, nil, line.TraversalPolicy{Root: 2})
	require.NoError(t, err)
	requireForestShape(t, f, 5, 3)
	assert.Equal(t, 2, f.Atom(f.Roots[0]))
	assert.Equal(t, 4, f.Atom(f.Roots[1]), "other components keep their lowest atom")

	_, err = line.BuildForest(m, nil, line.TraversalPolicy{Root: 9})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption))
}

func TestBuildForest_RingsFirst(t *testing.T) {
	// The ring carbon bonded to the methyl can branch either way.
	m := smiles.MustParse("Cc1ccccc1")
	ranks, err := line.ComputeRanks(m, line.RankOptions{BreakTies: true})
	require.NoError(t, err)

	for _, ringsFirst := range []bool{false, true} {
		f, err := line.BuildForest(m, ranks, line.TraversalPolicy{Canonical: true, RingsFirst: ringsFirst, Root: -1})
		require.NoError(t, err)
		requireForestShape(t, f, 7, 7)
		assert.Equal(t, 1, f.RingClosures())
	}
}

func TestBuildForest_RankMismatch(t *testing.T) {
	m := smiles.MustParse("CCC")
	_, err := line.BuildForest(m, []line.Rank{0}, line.TraversalPolicy{Canonical: true, Root: -1})
	require.Error(t, err)
	assert.True(t, errors.IsInternal(err))
}

func TestBuildForest_FusedRings(t *testing.T) {
	for _, s := range corpus {
		t.Run(s, func(t *testing.T) {
			m := smiles.MustParse(s)
			res, err := line.Serialize(m, line.DefaultOptions())
			require.NoError(t, err)
			requireForestShape(t, res.Forest, m.AtomCount(), m.BondCount())
			assert.Equal(t, m.BondCount()-m.AtomCount()+len(m.Components()), res.Forest.RingClosures())
		})
	}
}
