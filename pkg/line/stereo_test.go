package line_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/mol"
	"github.com/matzehuels/molline/pkg/smiles"
)

func TestStereo_SameCenterDifferentWritings(t *testing.T) {
	lAla := canonical(t, "N[C@@H](C)C(=O)O")
	assert.Contains(t, lAla, "@")
	assert.Equal(t, lAla, canonical(t, "C[C@H](N)C(=O)O"))
	assert.Equal(t, lAla, canonical(t, "OC(=O)[C@@H](N)C"))
	assert.NotEqual(t, lAla, canonical(t, "N[C@H](C)C(=O)O"))
}

// Scenario: one stereocenter written from two forced roots.
func TestStereo_TwoRoots(t *testing.T) {
	m := smiles.MustParse("N[C@@H](C)C(=O)O")
	want := serialize(t, m, line.DefaultOptions())

	texts := map[string]bool{}
	for _, root := range []int{0, 5} {
		opts := line.NativeOptions()
		opts.Root = &root
		out := serialize(t, m, opts)
		texts[out] = true
		assert.Equal(t, want, canonical(t, out), "written from root %d as %q", root, out)
	}
	assert.Len(t, texts, 2, "different roots should give different native strings")
}

func TestStereo_TetrahedralParityFromClasses(t *testing.T) {
	// Classes let the original atoms be found again after re-parsing, so
	// the re-derived descriptor can be compared against the original one.
	src := smiles.MustParse("[NH2:1][C@@H:2]([CH3:3])[C:4](=[O:5])[OH:6]")
	ref := src.Atom(1).Stereo
	require.NotNil(t, ref)

	for root := 0; root < src.AtomCount(); root++ {
		opts := line.NativeOptions()
		opts.Root = &root
		out := serialize(t, src, opts)

		back := smiles.MustParse(out)
		idx := atomByClass(back)
		got := back.Atom(idx[2]).Stereo
		require.NotNil(t, got, out)

		// Express the original reference order in re-parsed indices.
		mapped := make([]int, 4)
		for i, nb := range ref.Neighbors {
			if nb < 0 {
				mapped[i] = nb
				continue
			}
			mapped[i] = idx[src.Atom(nb).Class]
		}
		sameOrder := equalUpToEvenPermutation(mapped, got.Neighbors)
		if sameOrder {
			assert.Equal(t, ref.Chirality, got.Chirality, out)
		} else {
			assert.Equal(t, ref.Chirality.Flip(), got.Chirality, out)
		}
	}
}

func equalUpToEvenPermutation(a, b []int) bool {
	pos := map[int]int{}
	for i, v := range a {
		pos[v] = i
	}
	p := make([]int, len(b))
	for i, v := range b {
		p[i] = pos[v]
	}
	swaps := 0
	for i := range p {
		for p[i] != i {
			p[i], p[p[i]] = p[p[i]], p[i]
			swaps++
		}
	}
	return swaps%2 == 0
}

func TestStereo_CanonicalInvariance(t *testing.T) {
	for _, s := range []string{
		"N[C@@H](C)C(=O)O",
		"F/C=C/F",
		"F/C=C\\F",
		"C/C=C/C=C/C",
		"CC[C@@H](C)[C@H](N)C(=O)O",
		"O[C@H]1CC[C@@H](C)CC1Cl",
		// Symmetric skeletons: an automorphism mirrors the stereo.
		"C[C@@H](O)[C@@H](O)C",
		"C[C@@H](O)[C@H](O)C",
		"C1CC[C@H]2CCCC[C@@H]2C1",
		"C1CC[C@H]2CCCC[C@H]2C1",
		"F/C=C/C=C\\F",
		"C[C@H]1CC[C@@H](C)CC1",
		"C[C@H]1CC[C@H](C)CC1",
		"CC(C)(C)[C@@H](O)[C@@H](O)C(C)(C)C",
	} {
		t.Run(s, func(t *testing.T) {
			m := smiles.MustParse(s)
			want := serialize(t, m, line.DefaultOptions())
			for _, p := range relabelings(m.AtomCount()) {
				r, err := m.Renumber(p, nil)
				require.NoError(t, err)
				assert.Equal(t, want, serialize(t, r, line.DefaultOptions()), "relabeling %v", p)
			}
			assert.Equal(t, want, canonical(t, want))
		})
	}
}

var mirror = strings.NewReplacer("@@", "@", "@", "@@")

func TestStereo_MirrorImages(t *testing.T) {
	tests := []struct {
		in      string
		achiral bool
		sibling string // the other diastereomer
	}{
		{"C[C@@H](O)[C@@H](O)C", true, "C[C@@H](O)[C@H](O)C"},
		{"C[C@@H](O)[C@H](O)C", false, "C[C@@H](O)[C@@H](O)C"},
		{"C[C@H]1CC[C@@H](C)CC1", true, "C[C@H]1CC[C@H](C)CC1"},
		{"C[C@H]1CC[C@H](C)CC1", true, "C[C@H]1CC[C@@H](C)CC1"},
		{"C1CC[C@H]2CCCC[C@@H]2C1", true, "C1CC[C@H]2CCCC[C@H]2C1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := canonical(t, tt.in)
			mirrored := canonical(t, mirror.Replace(tt.in))
			if tt.achiral {
				assert.Equal(t, got, mirrored, "mirror image is the same molecule")
			} else {
				assert.NotEqual(t, got, mirrored, "enantiomers must stay apart")
			}
			assert.NotEqual(t, got, canonical(t, tt.sibling))
		})
	}
}

func TestStereo_DoubleBond(t *testing.T) {
	trans := canonical(t, "F/C=C/F")
	cis := canonical(t, "F/C=C\\F")
	assert.NotEqual(t, trans, cis)
	assert.Equal(t, trans, canonical(t, "F\\C=C\\F"))
	assert.Equal(t, cis, canonical(t, "C(/F)=C/F"))

	for _, out := range []string{trans, cis} {
		first := strings.IndexAny(out, "/\\")
		require.GreaterOrEqual(t, first, 0, out)
		assert.Equal(t, byte('/'), out[first], "first marker is normalized to '/' in %q", out)
	}

	m := smiles.MustParse(trans)
	var cfg *mol.BondStereo
	for i := 0; i < m.BondCount(); i++ {
		if s := m.Bond(i).Stereo; s != nil {
			cfg = s
		}
	}
	require.NotNil(t, cfg)
	assert.Equal(t, mol.Trans, cfg.Config)
}

// Scenario: a conjugated diene whose markers share the middle single bond.
func TestStereo_ConjugatedDiene(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want [2]mol.Configuration
	}{
		{"C/C=C/C=C/C", [2]mol.Configuration{mol.Trans, mol.Trans}},
		{"C/C=C\\C=C/C", [2]mol.Configuration{mol.Cis, mol.Cis}},
		{"C/C=C/C=C\\C", [2]mol.Configuration{mol.Trans, mol.Cis}},
	} {
		t.Run(tt.in, func(t *testing.T) {
			res, err := line.Serialize(smiles.MustParse(tt.in), line.DefaultOptions())
			require.NoError(t, err)
			assert.Empty(t, res.Warnings)
			assert.Equal(t, 3, strings.Count(res.Text, "/")+strings.Count(res.Text, "\\"), res.Text)

			back := smiles.MustParse(res.Text)
			var got []mol.Configuration
			for i := 0; i < back.BondCount(); i++ {
				if s := back.Bond(i).Stereo; s != nil {
					got = append(got, s.Config)
				}
			}
			assert.ElementsMatch(t, tt.want[:], got, res.Text)
		})
	}
}

// cyclooctatetraene builds an eight-membered ring of alternating bonds with
// a descriptor on every double bond. Atom classes make each atom distinct.
func cyclooctatetraene(t *testing.T, configs [4]mol.Configuration) *mol.Molecule {
	t.Helper()
	m := mol.New()
	for i := 0; i < 8; i++ {
		m.AddAtom(mol.Atom{Number: mol.Carbon, ImplicitH: 1, Class: i + 1})
	}
	for i := 0; i < 8; i++ {
		order := mol.Single
		if i%2 == 0 {
			order = mol.Double
		}
		_, err := m.AddBond(mol.Bond{Begin: i, End: (i + 1) % 8, Order: order})
		require.NoError(t, err)
	}
	m.PerceiveRings()
	for k := 0; k < 4; k++ {
		i := 2 * k
		m.Bond(i).Stereo = &mol.BondStereo{Ref: [2]int{(i + 7) % 8, (i + 2) % 8}, Config: configs[k]}
	}
	require.NoError(t, m.Validate())
	return m
}

func TestStereo_CoupledRingConsistent(t *testing.T) {
	m := cyclooctatetraene(t, [4]mol.Configuration{mol.Cis, mol.Cis, mol.Cis, mol.Cis})
	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, strings.ContainsAny(res.Text, "/\\"), res.Text)

	back := smiles.MustParse(res.Text)
	n := 0
	for i := 0; i < back.BondCount(); i++ {
		if s := back.Bond(i).Stereo; s != nil {
			assert.Equal(t, mol.Cis, s.Config)
			n++
		}
	}
	assert.Equal(t, 4, n)
}

func TestStereo_CoupledRingContradiction(t *testing.T) {
	m := cyclooctatetraene(t, [4]mol.Configuration{mol.Cis, mol.Trans, mol.Cis, mol.Cis})
	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)

	assert.False(t, strings.ContainsAny(res.Text, "/\\"), "markers must be dropped together: %q", res.Text)
	require.Len(t, res.Warnings, 4)
	for _, w := range res.Warnings {
		assert.Equal(t, errors.ErrCodeUnsatisfiableStereo, w.Code)
		assert.GreaterOrEqual(t, w.Bond, 0)
	}

	strict := line.DefaultOptions()
	strict.Strict = true
	_, err = line.Serialize(m, strict)
	assert.NoError(t, err, "unsatisfiable stereo is a warning even in strict mode")
}

func TestStereo_SmallRingSuppressed(t *testing.T) {
	m := smiles.MustParse("C1=CCCCC1")
	dbl, ok := m.BondBetween(0, 1)
	require.True(t, ok)
	m.Bond(dbl).Stereo = &mol.BondStereo{Ref: [2]int{5, 2}, Config: mol.Cis}

	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.False(t, strings.ContainsAny(res.Text, "/\\"), res.Text)

	opts := line.DefaultOptions()
	opts.MinRingStereoSize = 0
	res, err = line.Serialize(m, opts)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.True(t, strings.ContainsAny(res.Text, "/\\"), res.Text)
}

func TestStereo_NoSingleFlank(t *testing.T) {
	// C=C=CC: the middle double bond has no single bond on its left end.
	m := mol.New()
	for i := 0; i < 4; i++ {
		m.AddAtom(mol.Atom{Number: mol.Carbon})
	}
	_, _ = m.AddBond(mol.Bond{Begin: 0, End: 1, Order: mol.Double})
	mid, _ := m.AddBond(mol.Bond{Begin: 1, End: 2, Order: mol.Double})
	_, _ = m.AddBond(mol.Bond{Begin: 2, End: 3, Order: mol.Single})
	m.Bond(mid).Stereo = &mol.BondStereo{Ref: [2]int{0, 3}, Config: mol.Trans}

	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.ErrCodeUnsatisfiableStereo, res.Warnings[0].Code)
	assert.Equal(t, mid, res.Warnings[0].Bond)
	assert.False(t, strings.ContainsAny(res.Text, "/\\"))
}

func TestStereo_InvalidDescriptor(t *testing.T) {
	m := smiles.MustParse("N[C@@H](C)C(=O)O")
	m.Atom(1).Stereo.Neighbors[2] = 4 // atom 4 is the carbonyl oxygen, not a neighbor

	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.ErrCodeInvalidStereo, res.Warnings[0].Code)
	assert.Equal(t, 1, res.Warnings[0].Atom)
	assert.NotContains(t, res.Text, "@")

	strict := line.DefaultOptions()
	strict.Strict = true
	_, err = line.Serialize(m, strict)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStereo))
	assert.True(t, errors.IsInput(err))
}

func TestStereo_InvalidDoubleBondReference(t *testing.T) {
	m := smiles.MustParse("FC=CCl")
	dbl, ok := m.BondBetween(1, 2)
	require.True(t, ok)
	m.Bond(dbl).Stereo = &mol.BondStereo{Ref: [2]int{0, 0}, Config: mol.Cis}

	res, err := line.Serialize(m, line.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, errors.ErrCodeInvalidStereo, res.Warnings[0].Code)

	strict := line.DefaultOptions()
	strict.Strict = true
	_, err = line.Serialize(m, strict)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidStereo))
}

func TestStereo_Disabled(t *testing.T) {
	opts := line.DefaultOptions()
	opts.AtomStereo = false
	opts.BondStereo = false
	assert.Equal(t, canonical(t, "NC(C)C(=O)O"), serialize(t, smiles.MustParse("N[C@@H](C)C(=O)O"), opts))
	assert.Equal(t, canonical(t, "FC=CF"), serialize(t, smiles.MustParse("F/C=C/F"), opts))
}

func TestStereo_RingClosureMarker(t *testing.T) {
	// The left end's only single bond is the ring closure, in a ring large
	// enough to carry markers.
	m := smiles.MustParse("C/1=C/CCCCCC1")
	want := stereoConfigs(m)
	require.Equal(t, []mol.Configuration{mol.Cis}, want)

	for _, opts := range []line.Options{line.NativeOptions(), line.DefaultOptions()} {
		res, err := line.Serialize(m, opts)
		require.NoError(t, err)
		require.Empty(t, res.Warnings)
		assert.Equal(t, want, stereoConfigs(smiles.MustParse(res.Text)), res.Text)
	}
}

func stereoConfigs(m *mol.Molecule) []mol.Configuration {
	var out []mol.Configuration
	for i := 0; i < m.BondCount(); i++ {
		if s := m.Bond(i).Stereo; s != nil {
			out = append(out, s.Config)
		}
	}
	return out
}
