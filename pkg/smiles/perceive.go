package smiles

import (
	"slices"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

// finish runs the perception steps that need the whole graph.
func (p *parser) finish() error {
	m := p.m
	m.PerceiveRings()

	// A symbol-less bond between two aromatic atoms is aromatic only
	// inside a ring; biaryl links are plain single bonds.
	for b := range p.implicit {
		if bd := m.Bond(b); !bd.InRing {
			bd.Aromatic = false
			bd.Order = mol.Single
		}
	}

	for i := range p.info {
		if !p.info[i].organic {
			continue
		}
		a := m.Atom(i)
		sum := 0
		for _, b := range m.AtomBonds(i) {
			if bd := m.Bond(b); bd.Aromatic {
				sum++
			} else {
				sum += int(bd.Order)
			}
		}
		a.ImplicitH, _ = mol.DefaultHydrogens(a.Number, a.Aromatic, sum)
	}

	if err := m.Kekulize(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStructure, err, "aromatic system")
	}

	p.tetrahedral()
	p.doubleBonds()
	return m.Validate()
}

// tetrahedral turns "@"/"@@" into descriptors listing neighbors in reading
// order. The implicit hydrogen, or a lone pair on a three-connected center,
// sits right after the atom the center was reached from.
func (p *parser) tetrahedral() {
	for i, info := range p.info {
		if info.chirality == 0 {
			continue
		}
		a := p.m.Atom(i)
		nbrs := slices.Clone(info.neighbors)
		var sentinel int
		switch {
		case a.ImplicitH == 1:
			sentinel = mol.ImplicitH
		case a.ImplicitH == 0 && len(nbrs) == 3:
			sentinel = mol.LonePair
		case a.ImplicitH > 1:
			continue
		}
		if sentinel != 0 {
			at := 0
			if info.hasFrom {
				at = 1
			}
			nbrs = slices.Insert(nbrs, at, sentinel)
		}
		if len(nbrs) != 4 {
			continue
		}
		c := mol.Anticlockwise
		if info.chirality == 2 {
			c = mol.Clockwise
		}
		a.Stereo = &mol.AtomStereo{Neighbors: nbrs, Chirality: c}
	}
}

// doubleBonds derives cis/trans descriptors from direction markers. The side
// of neighbor n relative to end atom x is "up" when the marker reads '/' with
// x written first, or '\' with n written first.
func (p *parser) doubleBonds() {
	m := p.m
	for i := 0; i < m.BondCount(); i++ {
		b := m.Bond(i)
		if b.Order != mol.Double || b.Aromatic {
			continue
		}
		var refs [2]int
		var sides [2]bool
		found := 0
		for k, end := range [2]int{b.Begin, b.End} {
			bonds := slices.Clone(m.AtomBonds(end))
			slices.Sort(bonds)
			for _, e := range bonds {
				d, ok := p.dirs[e]
				if !ok || e == i {
					continue
				}
				nb := m.Bond(e).Other(end)
				refs[k] = nb
				sides[k] = (d.dir == '/') != (d.first == nb)
				found++
				break
			}
		}
		if found != 2 {
			continue
		}
		cfg := mol.Cis
		if sides[0] != sides[1] {
			cfg = mol.Trans
		}
		b.Stereo = &mol.BondStereo{Ref: refs, Config: cfg}
	}
}
