package pipeline

import (
	"strings"

	"github.com/matzehuels/molline/pkg/line"
	"github.com/matzehuels/molline/pkg/mol"
)

// RankRow describes one atom in a rank table.
type RankRow struct {
	Atom      int                `json:"atom"`
	Symbol    string             `json:"symbol"`
	Class     line.Rank          `json:"class"` // symmetry class before tie breaking
	Rank      line.Rank          `json:"rank"`
	Order     int                `json:"order"` // position in the written string
	Invariant line.AtomInvariant `json:"invariant"`
}

// RankTable computes the canonical ranks of m and the order in which its
// atoms are written. Canonical ordering is forced on.
func RankTable(m *mol.Molecule, opts line.Options) ([]RankRow, *line.Result, error) {
	opts.Canonical = true
	res, err := line.Serialize(m, opts)
	if err != nil {
		return nil, nil, err
	}
	classes, err := line.ComputeRanks(m, line.RankOptions{
		FoldHydrogens: opts.FoldHydrogens,
		AtomClasses:   opts.AtomClasses,
	})
	if err != nil {
		return nil, nil, err
	}

	invs := line.AtomInvariants(m, opts.AtomClasses)
	rows := make([]RankRow, m.AtomCount())
	for i := range rows {
		a := m.Atom(i)
		sym := a.Symbol()
		if a.Aromatic {
			sym = strings.ToLower(sym)
		}
		rows[i] = RankRow{
			Atom:      i,
			Symbol:    sym,
			Class:     classes[i],
			Rank:      res.Ranks[i],
			Order:     res.Forest.NodeOf(i),
			Invariant: invs[i],
		}
	}
	return rows, res, nil
}
