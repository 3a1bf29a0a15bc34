// Package io provides JSON import and export for molecular graphs.
//
// # Overview
//
// SMILES is the main text format of molline, but graphs produced by other
// tools are easier to hand over as plain JSON. The format is designed for:
//
//   - Feeding graphs with arbitrary atom order into the canonical writer
//   - Integration with external tools that produce or consume graph data
//   - Round-trip preservation: import, export, and re-import identically
//
// # JSON Format
//
// The format has two required top-level arrays:
//
//	{
//	  "name": "L-alanine",
//	  "atoms": [
//	    {"element": "N", "hydrogens": 2},
//	    {"element": "C", "hydrogens": 1,
//	     "stereo": {"neighbors": [0, -1, 2, 3], "chirality": "@@"}},
//	    {"element": "C", "hydrogens": 3},
//	    {"element": "C"},
//	    {"element": "O"},
//	    {"element": "O", "hydrogens": 1}
//	  ],
//	  "bonds": [
//	    {"begin": 0, "end": 1},
//	    {"begin": 1, "end": 2},
//	    {"begin": 1, "end": 3},
//	    {"begin": 3, "end": 4, "order": 2},
//	    {"begin": 3, "end": 5}
//	  ]
//	}
//
// # Atom Fields
//
// Required:
//   - element: Element symbol, or "*" for a wildcard
//
// Optional:
//   - isotope, charge, class: Integers, 0 when omitted
//   - aromatic: Member of an aromatic system
//   - hydrogens: Implicit hydrogen count, derived from default valence if omitted
//   - stereo: Four neighbor indices (-1 implicit hydrogen, -2 lone pair) and
//     "@" or "@@"
//
// # Bond Fields
//
//   - begin, end: Atom indices (required)
//   - order: 1 to 4, single when omitted; for aromatic bonds the Kekulé order
//   - aromatic: Aromatic bond
//   - stereo: Two reference neighbors, one per end, and "cis" or "trans"
//   - ring: Written on export, ignored on import
//
// # Import
//
// Use [ImportJSON] to read a molecule from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	m, err := io.ImportJSON("alanine.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Errors carry the INVALID_FORMAT code and name the atom or bond at fault.
//
// # Export
//
// Use [ExportJSON] to write a molecule to a file, or [WriteJSON] to write to
// any io.Writer. The export includes every annotation, so a re-import
// yields the same graph with the same indices.
package io
