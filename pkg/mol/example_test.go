package mol_test

import (
	"fmt"

	"github.com/matzehuels/molline/pkg/mol"
)

func ExampleMolecule_PerceiveRings() {
	// Methylcyclopropane: three ring atoms and one substituent.
	m := mol.New()
	for i := 0; i < 4; i++ {
		m.AddAtom(mol.Atom{Number: mol.Carbon})
	}
	_, _ = m.AddBond(mol.Bond{Begin: 0, End: 1})
	_, _ = m.AddBond(mol.Bond{Begin: 1, End: 2})
	_, _ = m.AddBond(mol.Bond{Begin: 2, End: 0})
	_, _ = m.AddBond(mol.Bond{Begin: 0, End: 3})
	m.PerceiveRings()

	for i := 0; i < m.AtomCount(); i++ {
		fmt.Println(i, m.Atom(i).InRing)
	}
	fmt.Println("smallest ring through bond 0:", m.SmallestRingContaining(0))
	// Output:
	// 0 true
	// 1 true
	// 2 true
	// 3 false
	// smallest ring through bond 0: 3
}

func ExampleDefaultHydrogens() {
	h, _ := mol.DefaultHydrogens(mol.Nitrogen, false, 1)
	fmt.Println("amine N with one bond:", h)
	h, _ = mol.DefaultHydrogens(mol.Carbon, true, 2)
	fmt.Println("aromatic c with two ring bonds:", h)
	// Output:
	// amine N with one bond: 2
	// aromatic c with two ring bonds: 1
}
