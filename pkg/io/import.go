package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

var chiralityFromString = map[string]mol.Chirality{
	"@":  mol.Anticlockwise,
	"@@": mol.Clockwise,
}

var configFromString = map[string]mol.Configuration{
	"cis":   mol.Cis,
	"trans": mol.Trans,
}

// ReadJSON decodes a JSON molecule from r.
//
// The input must be a JSON object with "atoms" and "bonds" arrays:
//
//	{
//	  "atoms": [{"element": "C"}, {"element": "O", "hydrogens": 1}],
//	  "bonds": [{"begin": 0, "end": 1}]
//	}
//
// Each atom needs an "element". Missing "hydrogens" are filled from the
// element's default valence, as for organic-subset atoms in SMILES. Missing
// bond orders default to single.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, an
// element is unknown, a bond references a missing atom, or a stereo
// descriptor is malformed. Ring membership is perceived after loading, and
// aromatic systems without Kekulé orders are kekulized.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*mol.Molecule, error) {
	var data graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}

	m := mol.New()
	m.Name = data.Name
	for i, a := range data.Atoms {
		if err := errors.ValidateElementSymbol(a.Element); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "atom %d", i)
		}
		n, ok := mol.Number(a.Element)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "atom %d: unknown element %q", i, a.Element)
		}
		at := mol.Atom{
			Number:   n,
			Isotope:  a.Isotope,
			Charge:   a.Charge,
			Aromatic: a.Aromatic,
			Class:    a.Class,
		}
		if a.Stereo != nil {
			c, ok := chiralityFromString[a.Stereo.Chirality]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "atom %d: chirality must be \"@\" or \"@@\", got %q", i, a.Stereo.Chirality)
			}
			at.Stereo = &mol.AtomStereo{Neighbors: a.Stereo.Neighbors, Chirality: c}
		}
		m.AddAtom(at)
	}

	orders := make([]bool, len(data.Bonds)) // explicit Kekulé order present
	for i, b := range data.Bonds {
		bd := mol.Bond{Begin: b.Begin, End: b.End, Order: mol.BondOrder(b.Order), Aromatic: b.Aromatic}
		if b.Order == 0 {
			bd.Order = mol.Single
		} else {
			orders[i] = true
		}
		if b.Stereo != nil {
			cfg, ok := configFromString[b.Stereo.Config]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "bond %d: config must be \"cis\" or \"trans\", got %q", i, b.Stereo.Config)
			}
			bd.Stereo = &mol.BondStereo{Ref: b.Stereo.Ref, Config: cfg}
		}
		if _, err := m.AddBond(bd); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "bond %d (%d-%d)", i, b.Begin, b.End)
		}
	}

	m.PerceiveRings()
	for i, a := range data.Atoms {
		if a.Hydrogens != nil {
			m.Atom(i).ImplicitH = *a.Hydrogens
			continue
		}
		at := m.Atom(i)
		at.ImplicitH, _ = mol.DefaultHydrogens(at.Number, at.Aromatic, bondSum(m, i))
	}
	if needsKekule(m, orders) {
		if err := m.Kekulize(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidStructure, err, "aromatic system")
		}
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "molecule")
	}
	return m, nil
}

func bondSum(m *mol.Molecule, atom int) int {
	sum := 0
	for _, b := range m.AtomBonds(atom) {
		if bd := m.Bond(b); bd.Aromatic {
			sum++
		} else {
			sum += int(bd.Order)
		}
	}
	return sum
}

// needsKekule reports whether some aromatic bond came without an order.
func needsKekule(m *mol.Molecule, orders []bool) bool {
	for i := 0; i < m.BondCount(); i++ {
		if m.Bond(i).Aromatic && !orders[i] {
			return true
		}
	}
	return false
}

// ImportJSON reads a JSON file at path and returns the decoded molecule.
//
// ImportJSON returns the same validation errors as [ReadJSON], and an
// INVALID_PATH error when the file cannot be opened.
func ImportJSON(path string) (*mol.Molecule, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
