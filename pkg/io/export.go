package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

var chiralityToString = map[mol.Chirality]string{
	mol.Anticlockwise: "@",
	mol.Clockwise:     "@@",
}

type graph struct {
	Name  string `json:"name,omitempty"`
	Atoms []atom `json:"atoms"`
	Bonds []bond `json:"bonds"`
}

type atom struct {
	Element   string      `json:"element"`
	Isotope   int         `json:"isotope,omitempty"`
	Charge    int         `json:"charge,omitempty"`
	Aromatic  bool        `json:"aromatic,omitempty"`
	Hydrogens *int        `json:"hydrogens,omitempty"`
	Class     int         `json:"class,omitempty"`
	Stereo    *atomStereo `json:"stereo,omitempty"`
}

type atomStereo struct {
	Neighbors []int  `json:"neighbors"`
	Chirality string `json:"chirality"`
}

type bond struct {
	Begin    int         `json:"begin"`
	End      int         `json:"end"`
	Order    int         `json:"order,omitempty"`
	Aromatic bool        `json:"aromatic,omitempty"`
	Ring     bool        `json:"ring,omitempty"`
	Stereo   *bondStereo `json:"stereo,omitempty"`
}

type bondStereo struct {
	Ref    [2]int `json:"ref"`
	Config string `json:"config"`
}

// WriteJSON encodes a molecule as JSON and writes it to w.
// Hydrogen counts are always written, so a re-import does not have to
// guess them. Ring flags are informational and ignored by [ReadJSON].
func WriteJSON(m *mol.Molecule, w io.Writer) error {
	out := graph{
		Name:  m.Name,
		Atoms: make([]atom, m.AtomCount()),
		Bonds: make([]bond, m.BondCount()),
	}

	for i := range out.Atoms {
		a := m.Atom(i)
		h := a.ImplicitH
		at := atom{
			Element:   a.Symbol(),
			Isotope:   a.Isotope,
			Charge:    a.Charge,
			Aromatic:  a.Aromatic,
			Hydrogens: &h,
			Class:     a.Class,
		}
		if s := a.Stereo; s != nil {
			at.Stereo = &atomStereo{Neighbors: s.Neighbors, Chirality: chiralityToString[s.Chirality]}
		}
		out.Atoms[i] = at
	}
	for i := range out.Bonds {
		b := m.Bond(i)
		bd := bond{Begin: b.Begin, End: b.End, Order: int(b.Order), Aromatic: b.Aromatic, Ring: b.InRing}
		if s := b.Stereo; s != nil {
			bd.Stereo = &bondStereo{Ref: s.Ref, Config: s.Config.String()}
		}
		out.Bonds[i] = bd
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode")
	}
	return nil
}

// ExportJSON writes a molecule to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(m *mol.Molecule, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
