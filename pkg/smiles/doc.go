// Package smiles reads SMILES strings into [mol.Molecule] values.
//
// The reader covers the OpenSMILES subset molline writes: organic-subset and
// bracket atoms (isotope, aromatic symbols, "@"/"@@", hydrogen count, charge,
// atom class), the bond symbols - = # $ : / \, branches, ring closures
// written as 1-9, %nn or %(n), and "." between components.
//
// After reading, Parse perceives ring membership, assigns implicit hydrogens
// to organic-subset atoms, kekulizes aromatic systems and converts stereo
// markers into descriptors, so the result can be handed straight to the
// line writer.
package smiles
