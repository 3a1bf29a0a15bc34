package mol

import "strings"

// MaxAtomicNumber is the highest atomic number in the element table.
const MaxAtomicNumber = 118

var symbols = strings.Fields(`*
	H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca
	Sc Ti V Cr Mn Fe Co Ni Cu Zn Ga Ge As Se Br Kr Rb Sr Y Zr
	Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd
	Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg
	Tl Pb Bi Po At Rn Fr Ra Ac Th Pa U Np Pu Am Cm Bk Cf Es Fm
	Md No Lr Rf Db Sg Bh Hs Mt Ds Rg Cn Nh Fl Mc Lv Ts Og`)

var numbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[s] = i
	}
	return m
}()

// Symbol returns the element symbol for an atomic number, or "" when the
// number is outside the table.
func Symbol(number int) string {
	if number < 0 || number >= len(symbols) {
		return ""
	}
	return symbols[number]
}

// Number returns the atomic number for an element symbol.
func Number(symbol string) (int, bool) {
	n, ok := numbers[symbol]
	return n, ok
}

// Well-known atomic numbers.
const (
	Hydrogen   = 1
	Boron      = 5
	Carbon     = 6
	Nitrogen   = 7
	Oxygen     = 8
	Fluorine   = 9
	Phosphorus = 15
	Sulfur     = 16
	Chlorine   = 17
	Arsenic    = 33
	Selenium   = 34
	Bromine    = 35
	Iodine     = 53
)

// organic lists the default valences of elements that may be written without
// brackets.
var organic = map[int][]int{
	Boron:      {3},
	Carbon:     {4},
	Nitrogen:   {3, 5},
	Oxygen:     {2},
	Phosphorus: {3, 5},
	Sulfur:     {2, 4, 6},
	Fluorine:   {1},
	Chlorine:   {1},
	Bromine:    {1},
	Iodine:     {1},
}

// aromaticOrganic lists the elements with a lower-case bare form.
var aromaticOrganic = map[int]bool{
	Boron: true, Carbon: true, Nitrogen: true, Oxygen: true, Phosphorus: true, Sulfur: true,
}

// aromaticBracket lists the elements with a lower-case form inside brackets.
var aromaticBracket = map[int]bool{
	Boron: true, Carbon: true, Nitrogen: true, Oxygen: true, Phosphorus: true, Sulfur: true,
	Arsenic: true, Selenium: true,
}

// IsOrganic reports whether the element belongs to the organic subset.
func IsOrganic(number int) bool {
	_, ok := organic[number]
	return ok
}

// CanBeAromatic reports whether the element has a lower-case symbol, bare or
// bracketed.
func CanBeAromatic(number int, bracket bool) bool {
	if bracket {
		return aromaticBracket[number]
	}
	return aromaticOrganic[number]
}

// DefaultValences returns the default valences of an organic-subset element.
func DefaultValences(number int) []int { return organic[number] }

// DefaultHydrogens returns the implicit hydrogen count an organic-subset
// atom receives when written without brackets: the smallest default valence
// not below bondSum, minus bondSum. bondSum is the sum of bond orders with
// aromatic bonds counted as one. An aromatic atom reserves one more unit for
// its share of the pi system, unless its bonds already reach that valence
// exactly (pyrrole-type nitrogen, furan oxygen). ok is false for elements
// outside the organic subset.
func DefaultHydrogens(number int, aromatic bool, bondSum int) (h int, ok bool) {
	vals, ok := organic[number]
	if !ok {
		return 0, false
	}
	for _, v := range vals {
		if v < bondSum {
			continue
		}
		if aromatic {
			return max(v-bondSum-1, 0), true
		}
		return v - bondSum, true
	}
	return 0, true
}
