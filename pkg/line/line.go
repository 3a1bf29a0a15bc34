package line

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

// Graph is the read-only view of a molecule the writer needs.
// *mol.Molecule implements it.
type Graph interface {
	AtomCount() int
	BondCount() int
	Atom(i int) *mol.Atom
	Bond(i int) *mol.Bond
	AtomBonds(i int) []int
}

var _ Graph = (*mol.Molecule)(nil)

// Warning describes stereo information that could not be written. Atom and
// Bond are -1 when not applicable.
type Warning struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
	Atom    int         `json:"atom"`
	Bond    int         `json:"bond"`
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Code, w.Message) }

// Result is the output of Serialize.
type Result struct {
	Text     string    `json:"text"`
	Warnings []Warning `json:"warnings,omitempty"`
	Ranks    []Rank    `json:"ranks,omitempty"` // canonical ranks, nil in native mode
	Forest   *Forest   `json:"-"`
}

// Serialize writes g as a line-notation string.
//
// Input problems (dangling bonds, malformed descriptors in strict mode) are
// returned as INVALID_STRUCTURE or INVALID_STEREO errors; broken internal
// invariants as INTERNAL_ERROR. Stereo that cannot be expressed is dropped
// and reported through Result.Warnings.
func Serialize(g Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts.SetDefaults()
	if err := CheckGraph(g); err != nil {
		return nil, err
	}

	if !opts.Canonical {
		return write(g, nil, opts)
	}
	limit := 1
	if writesStereo(g, opts) {
		limit = MaxTieBranches
	}
	candidates, err := rankings(g, opts.rankOptions(), limit)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		candidates = [][]Rank{nil}
	}

	// Every candidate spells the same graph; they differ only in stereo
	// tokens, so the smallest text is the canonical one.
	var best *Result
	for _, ranks := range candidates {
		res, err := write(g, ranks, opts)
		if err != nil {
			return nil, err
		}
		if best == nil || res.Text < best.Text {
			best = res
		}
	}
	return best, nil
}

// MaxTieBranches bounds the tie-breaking search for molecules with written
// stereo. Past it the smallest text among the rankings seen so far is kept,
// which may depend on atom order.
const MaxTieBranches = 256

func writesStereo(g Graph, opts Options) bool {
	if opts.AtomStereo {
		for i := 0; i < g.AtomCount(); i++ {
			if g.Atom(i).Stereo != nil {
				return true
			}
		}
	}
	if opts.BondStereo {
		for i := 0; i < g.BondCount(); i++ {
			if g.Bond(i).Stereo != nil {
				return true
			}
		}
	}
	return false
}

// write serializes g for one ranking; ranks is nil in native mode.
func write(g Graph, ranks []Rank, opts Options) (*Result, error) {
	forest, err := BuildForest(g, ranks, opts.traversalPolicy())
	if err != nil {
		return nil, err
	}
	stereo, err := encodeStereo(g, forest, opts)
	if err != nil {
		return nil, err
	}

	em := newEmitter(g, forest, opts, stereo)
	type part struct {
		rank Rank
		text string
	}
	parts := make([]part, len(forest.Roots))
	for i, root := range forest.Roots {
		parts[i].text = em.component(root)
		if ranks != nil {
			parts[i].rank = ranks[forest.Atom(root)]
		}
	}
	if opts.Canonical {
		slices.SortStableFunc(parts, func(a, b part) int {
			return cmp.Or(cmp.Compare(a.rank, b.rank), strings.Compare(a.text, b.text))
		})
	}
	texts := make([]string, len(parts))
	for i, p := range parts {
		texts[i] = p.text
	}

	return &Result{
		Text:     strings.Join(texts, opts.ComponentSeparator),
		Warnings: stereo.warnings,
		Ranks:    ranks,
		Forest:   forest,
	}, nil
}

// CheckGraph verifies the structural integrity Serialize relies on: bond
// endpoints exist, no self bonds, no repeated bonds, valid orders, and
// adjacency lists that agree with the bonds.
func CheckGraph(g Graph) error {
	n := g.AtomCount()
	seen := make(map[[2]int]bool, g.BondCount())
	incidence := make([]int, n)
	for i := 0; i < g.BondCount(); i++ {
		b := g.Bond(i)
		if b.Begin < 0 || b.Begin >= n || b.End < 0 || b.End >= n {
			return errors.New(errors.ErrCodeInvalidStructure, "bond %d references missing atom (%d-%d, %d atoms)", i, b.Begin, b.End, n)
		}
		if b.Begin == b.End {
			return errors.New(errors.ErrCodeInvalidStructure, "bond %d joins atom %d to itself", i, b.Begin)
		}
		if b.Order < mol.Single || b.Order > mol.Quadruple {
			return errors.New(errors.ErrCodeInvalidStructure, "bond %d has invalid order %d", i, b.Order)
		}
		key := [2]int{min(b.Begin, b.End), max(b.Begin, b.End)}
		if seen[key] {
			return errors.New(errors.ErrCodeInvalidStructure, "atoms %d and %d are bonded twice", key[0], key[1])
		}
		seen[key] = true
		incidence[b.Begin]++
		incidence[b.End]++
	}
	for i := 0; i < n; i++ {
		a := g.Atom(i)
		if a.Number < 0 || a.Number > mol.MaxAtomicNumber {
			return errors.New(errors.ErrCodeInvalidStructure, "atom %d has unknown atomic number %d", i, a.Number)
		}
		if a.ImplicitH < 0 {
			return errors.New(errors.ErrCodeInvalidStructure, "atom %d has negative hydrogen count", i)
		}
		bonds := g.AtomBonds(i)
		if len(bonds) != incidence[i] {
			return errors.New(errors.ErrCodeInvalidStructure, "atom %d lists %d bonds, %d bonds reference it", i, len(bonds), incidence[i])
		}
		for _, b := range bonds {
			if b < 0 || b >= g.BondCount() || !g.Bond(b).Has(i) {
				return errors.New(errors.ErrCodeInvalidStructure, "atom %d lists bond %d that does not touch it", i, b)
			}
		}
	}
	return nil
}
