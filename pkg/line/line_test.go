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

// corpus covers chains, branches, fused and bridged rings, heteroatoms,
// charges and several components.
var corpus = []string{
	"CCCC",
	"CC(C)C",
	"CCO",
	"CC(=O)O",
	"Cc1ccccc1",
	"c1ccc2ccccc2c1",
	"C1CC2CCC1C2",
	"OC(=O)c1ccccc1O",
	"Cn1cnc2c1c(=O)n(C)c(=O)n2C",
	"CC(C)Cc1ccc(cc1)C(C)C(=O)O",
	"C[N+](C)(C)C.[Cl-]",
	"c1ccccc1-c1ccncc1",
	"N#CC(C#N)=C(C#N)C#N",
	"[13CH3]C(=O)[O-].[Na+]",
	"C1CCC2(CC1)CCCC2",
}

func TestSerialize_Scenarios(t *testing.T) {
	t.Run("linear chain", func(t *testing.T) {
		assert.Equal(t, "CCCC", canonical(t, "CCCC"))
		assert.Equal(t, "CCCC", canonical(t, "C(C)CC"))
	})

	t.Run("aromatic six-ring", func(t *testing.T) {
		out := canonical(t, "c1ccccc1")
		assert.Equal(t, "c1ccccc1", out)
		assert.Equal(t, []int{1, 1}, ringLabels(t, out))
	})

	t.Run("fused rings", func(t *testing.T) {
		out := canonical(t, "c1ccc2ccccc2c1")
		labels := ringLabels(t, out)
		assert.Len(t, labels, 4, "two closure pairs in %q", out)
		for _, n := range labels {
			assert.Contains(t, []int{1, 2}, n)
		}
		assert.LessOrEqual(t, requireBalancedRings(t, out), 2)
		assert.Equal(t, out, canonical(t, out))
	})

	t.Run("two components", func(t *testing.T) {
		out := canonical(t, "OCC.C")
		assert.Equal(t, 1, strings.Count(out, "."))
		assert.ElementsMatch(t, []string{canonical(t, "C"), canonical(t, "CCO")}, strings.Split(out, "."))
	})
}

func TestSerialize_ExactCanonicalForms(t *testing.T) {
	tests := map[string]string{
		"OCC":       "CCO",
		"OC(C)=O":   "CC(=O)O",
		"c1ccccc1C": "Cc1ccccc1",
		"C(C)(C)C":  "CC(C)C",
		"[CH4]":     "C",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, canonical(t, in))
		})
	}
}

func TestSerialize_CanonicalInvariance(t *testing.T) {
	for _, s := range corpus {
		t.Run(s, func(t *testing.T) {
			m := smiles.MustParse(s)
			want := serialize(t, m, line.DefaultOptions())
			for _, p := range relabelings(m.AtomCount()) {
				r, err := m.Renumber(p, nil)
				require.NoError(t, err)
				assert.Equal(t, want, serialize(t, r, line.DefaultOptions()), "relabeling %v", p)
			}
		})
	}
}

func TestSerialize_BondOrderInvariance(t *testing.T) {
	m := smiles.MustParse("CC(C)Cc1ccc(cc1)C(C)C(=O)O")
	want := serialize(t, m, line.DefaultOptions())

	n := m.BondCount()
	reversed := make([]int, n)
	for i := range reversed {
		reversed[i] = n - 1 - i
	}
	atoms := make([]int, m.AtomCount())
	for i := range atoms {
		atoms[i] = i
	}
	r, err := m.Renumber(atoms, reversed)
	require.NoError(t, err)
	assert.Equal(t, want, serialize(t, r, line.DefaultOptions()))
}

func TestSerialize_RerootingInvariance(t *testing.T) {
	m := smiles.MustParse("OC(=O)c1ccccc1N")
	want := serialize(t, m, line.DefaultOptions())
	for root := 0; root < m.AtomCount(); root++ {
		opts := line.DefaultOptions()
		opts.Root = &root
		assert.Equal(t, want, serialize(t, m, opts), "root %d", root)
	}
}

func TestSerialize_RoundTripIdempotence(t *testing.T) {
	for _, s := range corpus {
		t.Run(s, func(t *testing.T) {
			first := canonical(t, s)
			assert.Equal(t, first, canonical(t, first))
		})
	}
}

func TestSerialize_RingClosureBalance(t *testing.T) {
	for _, s := range corpus {
		out := canonical(t, s)
		requireBalancedRings(t, out)
	}
}

func TestSerialize_Native(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		mod  func(*line.Options)
	}{
		{"input order", "OCC", "OCC", nil},
		{"pinned root", "OCC", "CCO", func(o *line.Options) { r := 2; o.Root = &r }},
		{"aromatic NH", "c1cc[nH]c1", "c1cc[nH]c1", nil},
		{"charged", "[NH4+]", "[NH4+]", nil},
		{"salt", "[Na+].[Cl-]", "[Na+].[Cl-]", nil},
		{"isotope", "[13CH4]", "[13CH4]", nil},
		{"isotope dropped", "[13CH4]", "C", func(o *line.Options) { o.Isotopes = false }},
		{"atom class", "[CH3:1]C", "[CH3:1]C", nil},
		{"atom class dropped", "[CH3:1]C", "CC", func(o *line.Options) { o.AtomClasses = false }},
		{"explicit hydrogens", "CC", "[CH3][CH3]", func(o *line.Options) { o.ExplicitHydrogens = true }},
		{"explicit single bonds", "CC", "C-C", func(o *line.Options) { o.ExplicitSingleBonds = true }},
		{"restricted organic set", "CO", "C[OH]", func(o *line.Options) { o.OrganicElements = []string{"C"} }},
		{"no organic subset", "CO", "[CH3][OH]", func(o *line.Options) { o.OrganicSubset = false }},
		{"biaryl link", "c1ccccc1c1ccccc1", "c1ccccc1-c1ccccc1", nil},
		{"biaryl monotonic", "c1ccccc1c1ccccc1", "c1ccccc1-c2ccccc2", func(o *line.Options) { o.RingNumbering = line.RingMonotonic }},
		{"explicit aromatic bonds", "c1ccccc1", "c:1:c:c:c:c:c1", func(o *line.Options) { o.ExplicitAromaticBonds = true }},
		{"separator", "C.C", "C + C", func(o *line.Options) { o.ComponentSeparator = " + " }},
		{"triple and quadruple", "C#C[Cr]$[Cr]", "C#C[Cr]$[Cr]", nil},
		{"wildcard", "*C", "*C", nil},
		{"multi charge", "[Fe+3]", "[Fe+3]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := line.NativeOptions()
			if tt.mod != nil {
				tt.mod(&opts)
			}
			assert.Equal(t, tt.want, serialize(t, smiles.MustParse(tt.in), opts))
		})
	}
}

func TestSerialize_Kekule(t *testing.T) {
	opts := line.DefaultOptions()
	opts.Kekule = true
	out := serialize(t, smiles.MustParse("c1ccccc1"), opts)
	assert.Equal(t, 3, strings.Count(out, "="), out)
	assert.NotContains(t, out, "c")

	back := smiles.MustParse(out)
	for i := 0; i < back.AtomCount(); i++ {
		assert.Equal(t, 1, back.Atom(i).ImplicitH)
	}
}

func TestSerialize_ManyOpenRings(t *testing.T) {
	// A wheel: hub 0 bonded to twelve rim atoms, rim atoms bonded in a chain.
	// Every rim atom after the first closes a ring on the hub.
	m := mol.New()
	hub := m.AddAtom(mol.Atom{Number: mol.Carbon})
	for i := 1; i <= 12; i++ {
		m.AddAtom(mol.Atom{Number: mol.Carbon})
		_, err := m.AddBond(mol.Bond{Begin: hub, End: i})
		require.NoError(t, err)
	}
	for i := 1; i < 12; i++ {
		_, err := m.AddBond(mol.Bond{Begin: i, End: i + 1})
		require.NoError(t, err)
	}
	m.PerceiveRings()

	out := serialize(t, m, line.NativeOptions())
	assert.Contains(t, out, "%10")
	assert.Contains(t, out, "%11")
	assert.Equal(t, 11, requireBalancedRings(t, out))

	opts := line.NativeOptions()
	opts.RingNumbering = line.RingMonotonic
	assert.Equal(t, out, serialize(t, m, opts), "no number is ever released before the last one opens")
}

func TestSerialize_DeepChain(t *testing.T) {
	const n = 5000
	m := mol.New()
	for i := 0; i < n; i++ {
		h := 2
		if i == 0 || i == n-1 {
			h = 3
		}
		m.AddAtom(mol.Atom{Number: mol.Carbon, ImplicitH: h})
		if i > 0 {
			_, err := m.AddBond(mol.Bond{Begin: i - 1, End: i})
			require.NoError(t, err)
		}
	}
	assert.Equal(t, strings.Repeat("C", n), serialize(t, m, line.NativeOptions()))
}

func TestSerialize_Empty(t *testing.T) {
	res, err := line.Serialize(mol.New(), line.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
}

func TestSerialize_InvalidStructure(t *testing.T) {
	c := mol.Atom{Number: mol.Carbon}
	tests := []struct {
		name string
		g    *fakeGraph
	}{
		{"dangling bond", &fakeGraph{
			atoms: []mol.Atom{c, c},
			bonds: []mol.Bond{{Begin: 0, End: 5, Order: mol.Single}},
			adj:   [][]int{{0}, {}},
		}},
		{"self bond", &fakeGraph{
			atoms: []mol.Atom{c},
			bonds: []mol.Bond{{Begin: 0, End: 0, Order: mol.Single}},
			adj:   [][]int{{0, 0}},
		}},
		{"adjacency mismatch", &fakeGraph{
			atoms: []mol.Atom{c, c},
			bonds: []mol.Bond{{Begin: 0, End: 1, Order: mol.Single}},
			adj:   [][]int{{0}, {}},
		}},
		{"bad order", &fakeGraph{
			atoms: []mol.Atom{c, c},
			bonds: []mol.Bond{{Begin: 0, End: 1, Order: 9}},
			adj:   [][]int{{0}, {0}},
		}},
		{"repeated bond", &fakeGraph{
			atoms: []mol.Atom{c, c},
			bonds: []mol.Bond{{Begin: 0, End: 1, Order: mol.Single}, {Begin: 1, End: 0, Order: mol.Single}},
			adj:   [][]int{{0, 1}, {0, 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := line.Serialize(tt.g, line.DefaultOptions())
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidStructure), "got %v", err)
			assert.True(t, errors.IsInput(err))
			assert.False(t, errors.IsInternal(err))
		})
	}
}

func TestSerialize_InvalidOptions(t *testing.T) {
	m := smiles.MustParse("CCO")

	opts := line.NativeOptions()
	root := 17
	opts.Root = &root
	_, err := line.Serialize(m, opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)

	opts = line.DefaultOptions()
	opts.RingNumbering = "sideways"
	_, err = line.Serialize(m, opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)
}

func TestOptions_Validate(t *testing.T) {
	neg := -1
	tests := []struct {
		name string
		mod  func(*line.Options)
		ok   bool
	}{
		{"defaults", func(*line.Options) {}, true},
		{"zero value", func(o *line.Options) { *o = line.Options{} }, true},
		{"negative ring size", func(o *line.Options) { o.MinRingStereoSize = -1 }, false},
		{"unknown numbering", func(o *line.Options) { o.RingNumbering = "random" }, false},
		{"non-organic element", func(o *line.Options) { o.OrganicElements = []string{"Fe"} }, false},
		{"negative root", func(o *line.Options) { o.Root = &neg }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := line.DefaultOptions()
			tt.mod(&o)
			err := o.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidOption), "got %v", err)
			}
		})
	}
}

func TestOptions_Record(t *testing.T) {
	assert.Equal(t, "CCO\n", line.Options{}.Record("CCO"))

	opts := line.DefaultOptions()
	opts.RecordSeparator = ";"
	assert.Equal(t, "CCO;", opts.Record("CCO"))
}
