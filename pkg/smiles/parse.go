package smiles

import (
	"slices"
	"strconv"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/mol"
)

// Parse reads one SMILES record into a molecule.
//
// The result has rings perceived, implicit hydrogens assigned to
// organic-subset atoms, aromatic systems kekulized, and stereo descriptors
// built from "@"/"@@" and "/"/"\" markers. Tetrahedral descriptors list
// neighbors in the order they were read.
func Parse(s string) (*mol.Molecule, error) {
	if err := errors.ValidateLineInput(s); err != nil {
		return nil, err
	}
	p := &parser{
		src:   s,
		m:     mol.New(),
		prev:  -1,
		rings: make(map[int]*openRing),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	if err := p.finish(); err != nil {
		return nil, err
	}
	return p.m, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level fixtures.
func MustParse(s string) *mol.Molecule {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

type pendingBond struct {
	set       bool
	order     mol.BondOrder
	aromatic  bool
	direction byte
	pos       int
}

type openRing struct {
	atom int
	slot int // position in the opener's neighbor list
	bond pendingBond
}

type atomInfo struct {
	organic   bool
	hasFrom   bool
	chirality int // 0 none, 1 "@", 2 "@@"
	neighbors []int
}

type directed struct {
	first int // atom written before the marker
	dir   byte
}

type parser struct {
	src string
	pos int
	m   *mol.Molecule

	prev     int
	bond     pendingBond
	branches []int
	rings    map[int]*openRing

	info     []atomInfo
	implicit map[int]bool // bonds with no symbol between aromatic atoms
	dirs     map[int]directed
}

func (p *parser) errorf(format string, args ...any) error {
	return errors.New(errors.ErrCodeParse, "offset %d: "+format, append([]any{p.pos}, args...)...)
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parse() error {
	p.implicit = make(map[int]bool)
	p.dirs = make(map[int]directed)
	for p.pos < len(p.src) {
		c := p.peek()
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch without a preceding atom")
			}
			if p.bond.set {
				return p.errorf("bond symbol before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.bond.set {
				return p.errorf("dangling bond symbol")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.bond.set {
				return p.errorf("dangling bond symbol")
			}
			if len(p.branches) > 0 {
				return p.errorf("'.' inside a branch")
			}
			p.prev = -1
			p.pos++
		case isBondSymbol(c):
			if p.bond.set {
				return p.errorf("two bond symbols in a row")
			}
			p.readBond()
		case c >= '0' && c <= '9' || c == '%':
			if p.prev < 0 {
				return p.errorf("ring closure without a preceding atom")
			}
			n, err := p.readRingNumber()
			if err != nil {
				return err
			}
			if err := p.ringClosure(n); err != nil {
				return err
			}
		default:
			if err := p.readAtom(); err != nil {
				return err
			}
		}
	}
	switch {
	case p.bond.set:
		return p.errorf("dangling bond symbol")
	case len(p.branches) > 0:
		return p.errorf("unclosed branch")
	case len(p.rings) > 0:
		open := make([]int, 0, len(p.rings))
		for n := range p.rings {
			open = append(open, n)
		}
		slices.Sort(open)
		return p.errorf("unclosed ring %d", open[0])
	case p.m.AtomCount() == 0:
		return p.errorf("no atoms")
	}
	return nil
}

func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

func (p *parser) readBond() {
	b := pendingBond{set: true, order: mol.Single, pos: p.pos}
	switch p.peek() {
	case '=':
		b.order = mol.Double
	case '#':
		b.order = mol.Triple
	case '$':
		b.order = mol.Quadruple
	case ':':
		b.aromatic = true
	case '/', '\\':
		b.direction = p.peek()
	}
	p.bond = b
	p.pos++
}

func (p *parser) readRingNumber() (int, error) {
	c := p.peek()
	if c != '%' {
		p.pos++
		return int(c - '0'), nil
	}
	p.pos++
	if p.peek() == '(' {
		end := p.pos + 1
		for end < len(p.src) && p.src[end] >= '0' && p.src[end] <= '9' {
			end++
		}
		if end == p.pos+1 || end >= len(p.src) || p.src[end] != ')' {
			return 0, p.errorf("malformed %%(n) ring number")
		}
		n, _ := strconv.Atoi(p.src[p.pos+1 : end])
		p.pos = end + 1
		return n, nil
	}
	if p.pos+2 > len(p.src) || !isDigit(p.src[p.pos]) || !isDigit(p.src[p.pos+1]) {
		return 0, p.errorf("'%%' must be followed by two digits")
	}
	n, _ := strconv.Atoi(p.src[p.pos : p.pos+2])
	p.pos += 2
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) ringClosure(n int) error {
	open, ok := p.rings[n]
	if !ok {
		slot := len(p.info[p.prev].neighbors)
		p.info[p.prev].neighbors = append(p.info[p.prev].neighbors, -1)
		p.rings[n] = &openRing{atom: p.prev, slot: slot, bond: p.bond}
		p.bond = pendingBond{}
		return nil
	}
	delete(p.rings, n)
	if open.atom == p.prev {
		return p.errorf("ring %d closes on its own atom", n)
	}

	b := open.bond
	first := open.atom
	if p.bond.set {
		if b.set && (b.order != p.bond.order || b.aromatic != p.bond.aromatic) {
			return p.errorf("ring %d has conflicting bond symbols", n)
		}
		if !b.set || (b.direction == 0 && p.bond.direction != 0) {
			b = p.bond
			first = p.prev
		}
	}
	p.bond = pendingBond{}
	p.info[open.atom].neighbors[open.slot] = p.prev
	p.info[p.prev].neighbors = append(p.info[p.prev].neighbors, open.atom)
	return p.addBond(open.atom, p.prev, b, first)
}

// addBond creates the bond between a and b. first is the atom the bond
// symbol was written after, which gives direction markers their meaning.
func (p *parser) addBond(a, b int, pb pendingBond, first int) error {
	bond := mol.Bond{Begin: a, End: b, Order: mol.Single}
	switch {
	case !pb.set:
		if p.m.Atom(a).Aromatic && p.m.Atom(b).Aromatic {
			bond.Aromatic = true
		}
	case pb.aromatic:
		bond.Aromatic = true
	default:
		bond.Order = pb.order
	}
	idx, err := p.m.AddBond(bond)
	if err != nil {
		return p.errorf("bond %d-%d: %v", a, b, err)
	}
	if !pb.set && bond.Aromatic {
		p.implicit[idx] = true
	}
	if pb.direction != 0 {
		p.dirs[idx] = directed{first: first, dir: pb.direction}
	}
	return nil
}

func (p *parser) readAtom() error {
	var a mol.Atom
	info := atomInfo{}
	var err error
	if p.peek() == '[' {
		a, info.chirality, err = p.readBracket()
	} else {
		a, err = p.readOrganic()
		info.organic = true
	}
	if err != nil {
		return err
	}
	idx := p.m.AddAtom(a)
	if p.prev >= 0 {
		info.hasFrom = true
		info.neighbors = append(info.neighbors, p.prev)
		p.info = append(p.info, info)
		p.info[p.prev].neighbors = append(p.info[p.prev].neighbors, idx)
		if err := p.addBond(p.prev, idx, p.bond, p.prev); err != nil {
			return err
		}
	} else {
		if p.bond.set {
			return p.errorf("bond symbol without a preceding atom")
		}
		p.info = append(p.info, info)
	}
	p.bond = pendingBond{}
	p.prev = idx
	return nil
}

func (p *parser) readOrganic() (mol.Atom, error) {
	c := p.peek()
	var a mol.Atom
	switch c {
	case '*':
		p.pos++
		return a, nil
	case 'B':
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == 'r' {
			p.pos += 2
			a.Number = mol.Bromine
			return a, nil
		}
		a.Number = mol.Boron
	case 'C':
		if p.pos+1 < len(p.src) && p.src[p.pos+1] == 'l' {
			p.pos += 2
			a.Number = mol.Chlorine
			return a, nil
		}
		a.Number = mol.Carbon
	case 'N':
		a.Number = mol.Nitrogen
	case 'O':
		a.Number = mol.Oxygen
	case 'P':
		a.Number = mol.Phosphorus
	case 'S':
		a.Number = mol.Sulfur
	case 'F':
		a.Number = mol.Fluorine
	case 'I':
		a.Number = mol.Iodine
	case 'b', 'c', 'n', 'o', 'p', 's':
		a.Number, _ = mol.Number(string(c - 'a' + 'A'))
		a.Aromatic = true
	default:
		return a, p.errorf("unexpected character %q", c)
	}
	p.pos++
	return a, nil
}

// readBracket reads "[isotope symbol chirality Hn charge :class]".
func (p *parser) readBracket() (mol.Atom, int, error) {
	var a mol.Atom
	start := p.pos
	p.pos++ // '['

	if n, ok := p.readInt(); ok {
		a.Isotope = n
	}

	switch c := p.peek(); {
	case c == '*':
		p.pos++
	case c >= 'a' && c <= 'z':
		sym := ""
		if p.pos+1 < len(p.src) {
			two := p.src[p.pos : p.pos+2]
			if two == "se" || two == "as" {
				sym = two
			}
		}
		if sym == "" {
			sym = string(c)
		}
		n, ok := mol.Number(string(sym[0]-'a'+'A') + sym[1:])
		if !ok || !mol.CanBeAromatic(n, true) {
			return a, 0, p.errorf("%q cannot be aromatic", sym)
		}
		a.Number, a.Aromatic = n, true
		p.pos += len(sym)
	case c >= 'A' && c <= 'Z':
		n, width := 0, 0
		if p.pos+1 < len(p.src) && p.src[p.pos+1] >= 'a' && p.src[p.pos+1] <= 'z' {
			if v, ok := mol.Number(p.src[p.pos : p.pos+2]); ok {
				n, width = v, 2
			}
		}
		if width == 0 {
			v, ok := mol.Number(p.src[p.pos : p.pos+1])
			if !ok {
				return a, 0, p.errorf("unknown element in %q", p.src[start:])
			}
			n, width = v, 1
		}
		a.Number = n
		p.pos += width
	default:
		return a, 0, p.errorf("expected element symbol")
	}

	chirality := 0
	if p.peek() == '@' {
		chirality = 1
		p.pos++
		if p.peek() == '@' {
			chirality = 2
			p.pos++
		}
	}

	if p.peek() == 'H' {
		p.pos++
		a.ImplicitH = 1
		if n, ok := p.readInt(); ok {
			a.ImplicitH = n
		}
	}

	if c := p.peek(); c == '+' || c == '-' {
		sign := 1
		if c == '-' {
			sign = -1
		}
		p.pos++
		mag := 1
		if n, ok := p.readInt(); ok {
			mag = n
		} else {
			for p.peek() == c {
				mag++
				p.pos++
			}
		}
		a.Charge = sign * mag
	}

	if p.peek() == ':' {
		p.pos++
		n, ok := p.readInt()
		if !ok {
			return a, 0, p.errorf("atom class must be a number")
		}
		a.Class = n
	}

	if p.peek() != ']' {
		return a, 0, p.errorf("unterminated bracket atom %q", p.src[start:p.pos])
	}
	p.pos++
	return a, chirality, nil
}

func (p *parser) readInt() (int, bool) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, false
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	return n, err == nil
}
